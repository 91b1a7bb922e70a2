package notify

import (
	"github.com/fatflowers/karma/internal/platform/telegram"
	"github.com/fatflowers/karma/internal/platform/webpush"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewSenders returns the senders whose channel is configured.
func NewSenders(tg *telegram.Client, wp *webpush.Client, store *PushStore, log *zap.SugaredLogger) []NotificationSender {
	var out []NotificationSender
	if tg.Enabled() {
		out = append(out, NewTelegramSender(tg.API()))
	}
	if wp.Enabled() {
		out = append(out, NewWebPushSender(wp, store, log))
	}
	if len(out) == 0 {
		log.Warn("no notification channel is configured, reminders will not be delivered")
	}
	return out
}

var Module = fx.Options(
	fx.Provide(NewPushStore, NewSenders),
)

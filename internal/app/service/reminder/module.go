package reminder

import (
	"context"

	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/app/service/principle"
	"github.com/fatflowers/karma/internal/app/service/subscription"
	usersvc "github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newDeps(u *usersvc.Service, p *principle.Service, sub *subscription.Service, senders []notify.NotificationSender) Deps {
	return Deps{Users: u, Titles: p, Rotator: u, Trials: sub, Senders: senders}
}

func registerScheduler(lc fx.Lifecycle, s *Scheduler, cfg *config.Config, log *zap.SugaredLogger) {
	if !cfg.Reminder.Enabled {
		log.Info("reminder scheduler disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error { return s.Start() },
		OnStop:  s.Stop,
	})
}

var Module = fx.Options(
	fx.Provide(newDeps, NewScheduler),
	fx.Invoke(registerScheduler),
)

package bot

import (
	"context"
	"sync"

	"github.com/fatflowers/karma/internal/app/service/journal"
	"github.com/fatflowers/karma/internal/app/service/principle"
	"github.com/fatflowers/karma/internal/app/service/stats"
	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/internal/platform/telegram"
	"github.com/fatflowers/karma/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newDeps(c *telegram.Client, u *user.Service, p *principle.Service, j *journal.Service, st *stats.Service) Deps {
	return Deps{API: c.API(), Users: u, Principles: p, Journal: j, Stats: st}
}

// registerPolling runs the long-poller for the app lifetime in polling mode.
func registerPolling(lc fx.Lifecycle, c *telegram.Client, b *Bot, cfg *config.Config, log *zap.SugaredLogger) {
	if !c.Enabled() {
		return
	}
	if cfg.Telegram.Mode == config.TelegramModeWebhook {
		log.Infow("telegram bot in webhook mode", "username", c.Username())
		return
	}
	var (
		cancel context.CancelFunc
		wg     sync.WaitGroup
	)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			var ctx context.Context
			ctx, cancel = context.WithCancel(context.Background())
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Poll(ctx, b.HandleUpdate)
			}()
			log.Infow("telegram long polling started", "username", c.Username())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			done := make(chan struct{})
			go func() {
				wg.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}

var Module = fx.Options(
	fx.Provide(newDeps, New),
	fx.Invoke(registerPolling),
)

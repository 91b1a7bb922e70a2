package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/fatflowers/karma/docs"
	"github.com/fatflowers/karma/internal/app/api/handlers"
	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	"github.com/fatflowers/karma/internal/app/service/achievement"
	"github.com/fatflowers/karma/internal/app/service/ai"
	"github.com/fatflowers/karma/internal/app/service/bot"
	"github.com/fatflowers/karma/internal/app/service/budget"
	"github.com/fatflowers/karma/internal/app/service/journal"
	nh "github.com/fatflowers/karma/internal/app/service/notification_handler"
	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/app/service/principle"
	"github.com/fatflowers/karma/internal/app/service/reminder"
	"github.com/fatflowers/karma/internal/app/service/statistics"
	"github.com/fatflowers/karma/internal/app/service/stats"
	subsvc "github.com/fatflowers/karma/internal/app/service/subscription"
	"github.com/fatflowers/karma/internal/app/service/transaction"
	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/pkg/auth"
	cfgpkg "github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	if cfg.Env == cfgpkg.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log          *zap.SugaredLogger
	Cfg          *cfgpkg.Config
	Issuer       *auth.Issuer
	Users        *user.Service
	Principles   *principle.Service
	Journal      *journal.Service
	Stats        *stats.Service
	Achievements *achievement.Service
	Subs         *subsvc.Service
	Notif        *nh.NotificationHandler
	Bot          *bot.Bot
	Push         *notify.PushStore
	AI           *ai.Service
	Budget       *budget.Monitor
	Statistics   *statistics.Service
	Reminders    *reminder.Scheduler
	Orders       transaction.Manager
}

func registerMetrics(lc fx.Lifecycle, r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config) {
	if cfg.MetricsAddr == "" {
		return
	}
	p := metrics.NewPrometheus(metrics.NewPrometheusOptions{Subsystem: "http", Logger: log})
	p.Use(r)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			p.Serve(cfg.MetricsAddr)
			log.Infow("metrics started", "addr", cfg.MetricsAddr)
			return nil
		},
		OnStop: p.Shutdown,
	})
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	log, cfg := d.Log, d.Cfg

	// Every route gets the request logger and access log.
	r.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(log))

	pub := r.Group("/")
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	authed := api.Group("", mw.Auth(d.Issuer, log))

	handlers.RegisterAuthRoutes(api.Group("/auth"), d.Users, d.Issuer, cfg.Telegram.BotToken)
	handlers.RegisterPrincipleRoutes(api.Group("/principles"), d.Principles)
	handlers.RegisterUserRoutes(authed.Group("/user"), d.Users, d.Subs, d.Stats, cfg.Location())
	handlers.RegisterJournalRoutes(authed.Group("/journal"), d.Journal)
	handlers.RegisterAchievementRoutes(authed.Group("/achievements"), d.Achievements)
	handlers.RegisterSubscriptionRoutes(api.Group("/subscriptions"), authed.Group("/subscriptions"), d.Subs)
	handlers.RegisterPushRoutes(api.Group("/push"), authed.Group("/push"), cfg.WebPush.VAPIDPublicKey, d.Push)
	handlers.RegisterAIRoutes(authed.Group("/ai"), d.AI, d.Subs, log)

	// Provider callbacks authenticate by signature or secret header, not by JWT.
	handlers.RegisterWebhookRoutes(api.Group("/webhooks"), d.Notif)
	handlers.RegisterTelegramRoutes(api.Group("/telegram"), d.Bot, cfg.Telegram.WebhookSecret)

	handlers.RegisterAdminRoutes(api.Group("/admin", mw.AdminToken(cfg.Auth.AdminToken)), handlers.AdminDeps{
		Budget:     d.Budget,
		Statistics: d.Statistics,
		Reminders:  d.Reminders,
		Trials:     d.Subs,
		Orders:     d.Orders,
	})
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine, shutdowner fx.Shutdowner) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Errorw("server error", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerMetrics),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)

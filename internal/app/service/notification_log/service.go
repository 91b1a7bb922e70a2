package notification_log

import (
	"context"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/tool"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db    *gorm.DB
	log   *zap.SugaredLogger
	retry tool.RetryPolicy
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log, retry: tool.DefaultDBRetry}
}

// Save asynchronously persists a payment notification log, retrying failed inserts.
// Nil input is ignored. The write outlives the request that produced it.
func (s *Service) Save(ctx context.Context, log *models.PaymentNotificationLog) {
	if log == nil {
		return
	}
	if log.ID == "" {
		log.ID = tool.GenerateUUIDV7()
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		err := tool.RetryDBExec(ctx, s.retry, func() error {
			return s.db.WithContext(ctx).Create(log).Error
		})
		if err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("failed to save notification log", "order_reference", log.OrderReference, "error", err)
		}
	}()
}

var Module = fx.Options(fx.Provide(New))

package notification_handler

import (
	"github.com/fatflowers/karma/internal/app/service/notification_log"
	"github.com/fatflowers/karma/internal/app/service/subscription"
	"github.com/fatflowers/karma/internal/platform/wayforpay"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		func(c *wayforpay.Client) Signer { return c },
		func(s *notification_log.Service) NotificationLogger { return s },
		func(s *subscription.Service) OrderTransitions { return s },
		NewNotificationHandler,
	),
)

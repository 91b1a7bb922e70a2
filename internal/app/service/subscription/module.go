package subscription

import (
	"github.com/fatflowers/karma/internal/app/service/transaction"
	"github.com/fatflowers/karma/internal/platform/wayforpay"

	"go.uber.org/fx"
)

// Module exposes the subscription service via Fx.
var Module = fx.Options(
	fx.Provide(func(s *transaction.Service) OrderStore { return s }),
	fx.Provide(func(c *wayforpay.Client) PaymentForms { return c }),
	fx.Provide(NewService),
)

package user

import (
	"github.com/fatflowers/karma/internal/app/service/subscription"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(func(s *subscription.Service) TrialStarter { return s }),
	fx.Provide(New),
)

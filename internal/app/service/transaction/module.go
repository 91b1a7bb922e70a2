package transaction

import "go.uber.org/fx"

// Module exposes the payment order service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Provide(func(s *Service) Manager { return s }),
)

package budget

import "go.uber.org/fx"

var Module = fx.Options(
	fx.Provide(NewLedger, NewMonitor),
)

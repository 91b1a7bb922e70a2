package ai

import (
	"github.com/fatflowers/karma/internal/app/service/budget"
	"github.com/fatflowers/karma/internal/app/service/journal"
	"github.com/fatflowers/karma/internal/app/service/principle"
	"github.com/fatflowers/karma/internal/app/service/stats"
	"github.com/fatflowers/karma/internal/app/service/subscription"
	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/internal/platform/openai"

	"go.uber.org/fx"
)

func newDeps(c openai.Completer, b *budget.Monitor, sub *subscription.Service, j *journal.Service,
	st *stats.Service, u *user.Service, p *principle.Service) Deps {
	return Deps{Completer: c, Budget: b, Plans: sub, Entries: j, Stats: st, Users: u, Principles: p}
}

var Module = fx.Options(
	fx.Provide(newDeps, New),
)

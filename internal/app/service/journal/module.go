package journal

import (
	"github.com/fatflowers/karma/internal/app/service/achievement"
	"github.com/fatflowers/karma/internal/app/service/stats"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(func(s *stats.Service) StatsRecomputer { return s }),
	fx.Provide(func(s *achievement.Service) AchievementChecker { return s }),
	fx.Provide(New),
)

package achievement

import (
	"context"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/tool"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// scanLimit bounds how many recent entries a check loads.
const scanLimit = 1000

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Check unlocks newly earned achievements inside tx and returns them.
// The (user_id, type) unique index makes concurrent checks safe.
func (s *Service) Check(ctx context.Context, tx *gorm.DB, userID string, now time.Time, loc *time.Location) ([]types.AchievementType, error) {
	var entries []Entry
	if err := tx.WithContext(ctx).Model(&models.JournalEntry{}).
		Select("principle_id", "content", "created_at", "is_skipped").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(scanLimit).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("load entries for achievements: %w", err)
	}

	var have []types.AchievementType
	if err := tx.WithContext(ctx).Model(&models.Achievement{}).
		Where("user_id = ?", userID).
		Pluck("type", &have).Error; err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	existing := lo.SliceToMap(have, func(t types.AchievementType) (types.AchievementType, bool) { return t, true })

	unlocked := Evaluate(entries, existing, now, loc)
	if len(unlocked) == 0 {
		return nil, nil
	}
	rows := lo.Map(unlocked, func(t types.AchievementType, _ int) *models.Achievement {
		return &models.Achievement{ID: tool.GenerateUUIDV7(), UserID: userID, Type: t, UnlockedAt: now}
	})
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "type"}}, DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("insert achievements: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("achievements unlocked", "user_id", userID, "types", unlocked)
	return unlocked, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]*models.Achievement, error) {
	var rows []*models.Achievement
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("unlocked_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return rows, nil
}

var Module = fx.Options(
	fx.Provide(New),
)

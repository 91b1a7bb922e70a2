package stats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/models"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Recompute rebuilds the user's stats row inside tx.
func (s *Service) Recompute(ctx context.Context, tx *gorm.DB, userID string, now time.Time, loc *time.Location) (*models.UserStats, error) {
	var samples []Sample
	if err := tx.WithContext(ctx).Model(&models.JournalEntry{}).
		Select("created_at", "mood", "energy", "is_skipped").
		Where("user_id = ?", userID).
		Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("load stats samples: %w", err)
	}

	var stored models.UserStats
	if err := tx.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&stored).Error; err != nil {
		return nil, fmt.Errorf("load stored stats: %w", err)
	}

	st := Compute(userID, samples, stored.LongestStreak, now, loc)
	st.UpdatedAt = now
	if err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, UpdateAll: true}).
		Create(st).Error; err != nil {
		return nil, fmt.Errorf("upsert stats: %w", err)
	}
	return st, nil
}

// Get returns the stored stats with the streak evaluated against now.
func (s *Service) Get(ctx context.Context, userID string, now time.Time, loc *time.Location) (*models.UserStats, error) {
	var st models.UserStats
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&st).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.UserStats{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}
	return AtRead(&st, now, loc), nil
}

var Module = fx.Options(
	fx.Provide(New),
)

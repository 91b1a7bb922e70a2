package journal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/metrics"
	"github.com/fatflowers/karma/pkg/tool"
	"github.com/fatflowers/karma/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// StatsRecomputer rebuilds the per-user aggregate inside the write transaction.
type StatsRecomputer interface {
	Recompute(ctx context.Context, tx *gorm.DB, userID string, now time.Time, loc *time.Location) (*models.UserStats, error)
}

// AchievementChecker unlocks achievements inside the write transaction.
type AchievementChecker interface {
	Check(ctx context.Context, tx *gorm.DB, userID string, now time.Time, loc *time.Location) ([]types.AchievementType, error)
}

type CreateResult struct {
	Entry    *models.JournalEntry    `json:"entry"`
	Stats    *models.UserStats       `json:"stats"`
	Unlocked []types.AchievementType `json:"unlocked_achievements"`
}

type ListResult struct {
	Items []*models.JournalEntry `json:"items"`
	Total int64                  `json:"total"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.SugaredLogger
	cfg          *config.Config
	stats        StatsRecomputer
	achievements AchievementChecker
	now          func() time.Time
}

func New(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, st StatsRecomputer, ach AchievementChecker) *Service {
	return &Service{db: db, log: log, cfg: cfg, stats: st, achievements: ach, now: time.Now}
}

func (s *Service) loadUser(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error) {
	var u models.User
	if err := tx.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &u, nil
}

// afterWrite runs the derived updates that must commit together with an entry change.
func (s *Service) afterWrite(ctx context.Context, tx *gorm.DB, u *models.User, now time.Time) (*models.UserStats, []types.AchievementType, error) {
	loc := u.Location(s.cfg.Location())
	st, err := s.stats.Recompute(ctx, tx, u.ID, now, loc)
	if err != nil {
		return nil, nil, err
	}
	unlocked, err := s.achievements.Check(ctx, tx, u.ID, now, loc)
	if err != nil {
		return nil, nil, err
	}
	return st, unlocked, nil
}

// Create inserts an entry, recomputes stats and checks achievements in one transaction.
func (s *Service) Create(ctx context.Context, userID string, in CreateEntryInput) (*CreateResult, error) {
	now := s.now()
	var res CreateResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		entry, err := newEntry(tool.GenerateUUIDV7(), userID, u.CurrentPrinciple, in)
		if err != nil {
			return err
		}
		entry.CreatedAt = now
		entry.UpdatedAt = now
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
		st, unlocked, err := s.afterWrite(ctx, tx, u, now)
		if err != nil {
			return err
		}
		res = CreateResult{Entry: entry, Stats: st, Unlocked: unlocked}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.EntriesCreated.WithLabelValues(string(res.Entry.Source)).Inc()
	logctx.FromCtx(ctx, s.log).Infow("journal entry created",
		"entry_id", res.Entry.ID, "principle", res.Entry.PrincipleID, "source", res.Entry.Source, "unlocked", res.Unlocked)
	return &res, nil
}

func (s *Service) List(ctx context.Context, userID string, q ListEntriesQuery) (*ListResult, error) {
	q, err := q.normalize()
	if err != nil {
		return nil, err
	}
	tx := s.db.WithContext(ctx).Model(&models.JournalEntry{}).Where("user_id = ?", userID)
	if q.PrincipleID != nil {
		tx = tx.Where("principle_id = ?", *q.PrincipleID)
	}
	if q.From != nil {
		tx = tx.Where("created_at >= ?", *q.From)
	}
	if q.To != nil {
		tx = tx.Where("created_at < ?", q.To.AddDate(0, 0, 1))
	}
	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	var rows []*models.JournalEntry
	if err := tx.Order("created_at DESC").Limit(q.Limit).Offset(q.Offset).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return &ListResult{Items: rows, Total: total}, nil
}

// Recent returns the user's latest entries, newest first.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]*models.JournalEntry, error) {
	res, err := s.List(ctx, userID, ListEntriesQuery{Limit: limit})
	if err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (s *Service) get(ctx context.Context, tx *gorm.DB, userID, id string) (*models.JournalEntry, error) {
	if !tool.IsUUID(id) {
		return nil, fmt.Errorf("entry: %w", types.ErrNotFound)
	}
	var e models.JournalEntry
	if err := tx.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("entry: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return &e, nil
}

func (s *Service) Get(ctx context.Context, userID, id string) (*models.JournalEntry, error) {
	return s.get(ctx, s.db, userID, id)
}

// Update patches an entry owned by userID; stats follow in the same transaction.
func (s *Service) Update(ctx context.Context, userID, id string, in UpdateEntryInput) (*models.JournalEntry, error) {
	now := s.now()
	var out *models.JournalEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := s.get(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		changed, err := in.apply(e)
		if err != nil {
			return err
		}
		out = e
		if len(changed) == 0 {
			return nil
		}
		e.UpdatedAt = now
		if err := tx.Model(e).Select(append(changed, "updated_at")).Updates(e).Error; err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		u, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		_, _, err = s.afterWrite(ctx, tx, u, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	now := s.now()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		e, err := s.get(ctx, tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Delete(e).Error; err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		u, err := s.loadUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		loc := u.Location(s.cfg.Location())
		_, err = s.stats.Recompute(ctx, tx, userID, now, loc)
		return err
	})
}

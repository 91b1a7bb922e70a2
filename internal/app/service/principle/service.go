package principle

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/types"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FallbackTitle is shown when a principle row is missing.
const FallbackTitle = "your principle"

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Next returns the principle that follows n in the 1..10 rotation.
func Next(n int) int {
	if n < 1 || n >= types.PrincipleCount {
		return 1
	}
	return n + 1
}

// Catalogue returns the seed rows.
func Catalogue() []*models.Principle {
	out := make([]*models.Principle, 0, len(catalogue))
	for i, c := range catalogue {
		out = append(out, &models.Principle{
			Number:      i + 1,
			Title:       c.Title,
			Description: c.Description,
			Reflections: datatypes.NewJSONSlice(c.Reflections),
		})
	}
	return out
}

// Seed inserts missing principles; existing rows are left untouched.
func (s *Service) Seed(ctx context.Context) error {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "number"}}, DoNothing: true}).
		Create(Catalogue())
	if res.Error != nil {
		return fmt.Errorf("seed principles: %w", res.Error)
	}
	logctx.FromCtx(ctx, s.log).Infow("principles seeded", "inserted", res.RowsAffected)
	return nil
}

func (s *Service) List(ctx context.Context) ([]*models.Principle, error) {
	var rows []*models.Principle
	if err := s.db.WithContext(ctx).Order("number").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list principles: %w", err)
	}
	return rows, nil
}

func (s *Service) Get(ctx context.Context, number int) (*models.Principle, error) {
	if !types.ValidPrinciple(number) {
		return nil, fmt.Errorf("principle %d: %w", number, types.ErrNotFound)
	}
	var p models.Principle
	if err := s.db.WithContext(ctx).Where("number = ?", number).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("principle %d: %w", number, types.ErrNotFound)
		}
		return nil, fmt.Errorf("get principle %d: %w", number, err)
	}
	return &p, nil
}

// Title never fails; lookups that miss fall back to FallbackTitle.
func (s *Service) Title(ctx context.Context, number int) string {
	p, err := s.Get(ctx, number)
	if err != nil {
		if !errors.Is(err, types.ErrNotFound) {
			logctx.FromCtx(ctx, s.log).Warnw("principle title lookup failed", "number", number, "err", err)
		}
		return FallbackTitle
	}
	return p.Title
}

func seedOnStart(lc fx.Lifecycle, s *Service) {
	lc.Append(fx.Hook{OnStart: s.Seed})
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(seedOnStart),
)

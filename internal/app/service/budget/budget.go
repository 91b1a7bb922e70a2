package budget

import (
	"context"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/metrics"
	"github.com/fatflowers/karma/pkg/tool"
	"github.com/fatflowers/karma/pkg/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultMonthlyLimit = 10.0
	DefaultModel        = "gpt-4o-mini"

	WarningPercentage  = 80.0
	CriticalPercentage = 95.0
)

// DefaultPrices are USD per 1000 tokens.
var DefaultPrices = map[string]float64{
	"gpt-4o-mini":   0.0006,
	"gpt-4o":        0.01,
	"gpt-4.1-mini":  0.0016,
	"gpt-4.1":       0.008,
	"gpt-3.5-turbo": 0.0015,
}

// Status is the spend of the current calendar month.
type Status struct {
	Used       float64 `json:"used"`
	Remaining  float64 `json:"remaining"`
	Limit      float64 `json:"limit"`
	Percentage float64 `json:"percentage"`
	Warning    bool    `json:"warning"`
	Critical   bool    `json:"critical"`
}

// Usage is one completed model call.
type Usage struct {
	UserID           string
	Kind             types.AIRequestKind
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Metadata         map[string]any
}

// Ledger stores AI spend. The gorm implementation appends to ai_requests.
type Ledger interface {
	SpendSince(ctx context.Context, since time.Time) (float64, error)
	Append(ctx context.Context, row *models.AIRequest) error
}

type Monitor struct {
	ledger       Ledger
	log          *zap.SugaredLogger
	limit        float64
	defaultModel string
	prices       map[string]float64
}

func NewMonitor(ledger Ledger, cfg *config.Config, log *zap.SugaredLogger) *Monitor {
	m := &Monitor{
		ledger:       ledger,
		log:          log,
		limit:        cfg.OpenAI.MonthlyBudget,
		defaultModel: cfg.OpenAI.Model,
		prices:       make(map[string]float64, len(DefaultPrices)),
	}
	if m.limit <= 0 {
		m.limit = DefaultMonthlyLimit
	}
	if m.defaultModel == "" {
		m.defaultModel = DefaultModel
	}
	for k, v := range DefaultPrices {
		m.prices[k] = v
	}
	for k, v := range cfg.OpenAI.PricePer1KToken {
		m.prices[k] = v
	}
	return m
}

// MonthStart is the first instant of now's calendar month in now's location.
func MonthStart(now time.Time) time.Time {
	y, mo, _ := now.Date()
	return time.Date(y, mo, 1, 0, 0, 0, 0, now.Location())
}

func NewStatus(used, limit float64) *Status {
	s := &Status{Used: used, Limit: limit, Remaining: limit - used}
	if s.Remaining < 0 {
		s.Remaining = 0
	}
	if limit > 0 {
		s.Percentage = used / limit * 100
	}
	s.Warning = s.Percentage >= WarningPercentage
	s.Critical = s.Percentage >= CriticalPercentage
	return s
}

func (m *Monitor) Limit() float64 { return m.limit }

// EstimateCost prices tokens for model; unknown models use the default model's price.
func (m *Monitor) EstimateCost(tokens int, model string) float64 {
	price, ok := m.prices[model]
	if !ok {
		price = m.prices[m.defaultModel]
	}
	return float64(tokens) / 1000 * price
}

func (m *Monitor) CheckMonthlyBudget(ctx context.Context, now time.Time) (*Status, error) {
	used, err := m.ledger.SpendSince(ctx, MonthStart(now))
	if err != nil {
		return nil, err
	}
	return NewStatus(used, m.limit), nil
}

// CanMakeRequest reports whether a call of estimatedTokens fits in the remaining budget.
// Concurrent callers may all pass the check and overshoot together.
func (m *Monitor) CanMakeRequest(ctx context.Context, estimatedTokens int, model string, now time.Time) (bool, *Status, error) {
	st, err := m.CheckMonthlyBudget(ctx, now)
	if err != nil {
		return false, nil, err
	}
	return allows(st, m.EstimateCost(estimatedTokens, model)), st, nil
}

func allows(st *Status, estimate float64) bool {
	if st.Used >= st.Limit {
		return false
	}
	return st.Used+estimate <= st.Limit
}

// RecordUsage appends a ledger row priced with EstimateCost and returns it.
func (m *Monitor) RecordUsage(ctx context.Context, u Usage) (*models.AIRequest, error) {
	total := u.TotalTokens
	if total == 0 {
		total = u.PromptTokens + u.CompletionTokens
	}
	row := &models.AIRequest{
		ID:               tool.GenerateUUIDV7(),
		UserID:           u.UserID,
		Kind:             u.Kind,
		Model:            u.Model,
		PromptTokens:     u.PromptTokens,
		CompletionTokens: u.CompletionTokens,
		TotalTokens:      total,
		Cost:             m.EstimateCost(total, u.Model),
		Metadata:         datatypes.JSONMap(u.Metadata),
	}
	if row.Metadata == nil {
		row.Metadata = datatypes.JSONMap{}
	}
	if err := m.ledger.Append(ctx, row); err != nil {
		return nil, err
	}
	metrics.AICost.WithLabelValues(row.Model).Add(row.Cost)
	logctx.FromCtx(ctx, m.log).Infow("ai usage recorded", "kind", row.Kind, "model", row.Model, "tokens", total, "cost", row.Cost)
	return row, nil
}

type gormLedger struct {
	db    *gorm.DB
	retry tool.RetryPolicy
}

func NewLedger(db *gorm.DB) Ledger {
	return &gormLedger{db: db, retry: tool.DefaultDBRetry}
}

type spendRow struct {
	Used float64
}

func spendStmt(db *gorm.DB, since time.Time, dest *spendRow) *gorm.DB {
	return db.Model(&models.AIRequest{}).
		Select("COALESCE(SUM(cost), 0) AS used").
		Where("created_at >= ?", since).
		Find(dest)
}

func (l *gormLedger) SpendSince(ctx context.Context, since time.Time) (float64, error) {
	return tool.RetryDB(ctx, l.retry, func() (float64, error) {
		var row spendRow
		if err := spendStmt(l.db.WithContext(ctx), since, &row).Error; err != nil {
			return 0, fmt.Errorf("sum ai spend: %w", err)
		}
		return row.Used, nil
	})
}

func (l *gormLedger) Append(ctx context.Context, row *models.AIRequest) error {
	if err := l.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("append ai request: %w", err)
	}
	return nil
}

package ai

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatflowers/karma/internal/app/service/budget"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/openai"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/types"

	"go.uber.org/zap"
)

const (
	InsightEntries  = 14
	AdviceEntries   = 5
	MaxMessageRunes = 2000
)

type PlanResolver interface {
	CurrentPlan(ctx context.Context, userID string) (types.Plan, error)
}

type BudgetGuard interface {
	CanMakeRequest(ctx context.Context, estimatedTokens int, model string, now time.Time) (bool, *budget.Status, error)
	RecordUsage(ctx context.Context, u budget.Usage) (*models.AIRequest, error)
}

type EntryReader interface {
	Recent(ctx context.Context, userID string, limit int) ([]*models.JournalEntry, error)
}

type StatsReader interface {
	Get(ctx context.Context, userID string, now time.Time, loc *time.Location) (*models.UserStats, error)
}

type UserReader interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type PrincipleReader interface {
	Get(ctx context.Context, number int) (*models.Principle, error)
}

type Result struct {
	Text       string  `json:"text"`
	Model      string  `json:"model"`
	TokensUsed int     `json:"tokens_used"`
	Cost       float64 `json:"cost"`
}

type Service struct {
	completer  openai.Completer
	budget     BudgetGuard
	plans      PlanResolver
	entries    EntryReader
	stats      StatsReader
	users      UserReader
	principles PrincipleReader
	maxTokens  int
	loc        *time.Location
	log        *zap.SugaredLogger
}

type Deps struct {
	Completer  openai.Completer
	Budget     BudgetGuard
	Plans      PlanResolver
	Entries    EntryReader
	Stats      StatsReader
	Users      UserReader
	Principles PrincipleReader
}

func New(d Deps, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{
		completer:  d.Completer,
		budget:     d.Budget,
		plans:      d.Plans,
		entries:    d.Entries,
		stats:      d.Stats,
		users:      d.Users,
		principles: d.Principles,
		maxTokens:  cfg.OpenAI.MaxTokens,
		loc:        cfg.Location(),
		log:        log,
	}
}

func (s *Service) gate(ctx context.Context, userID string, required types.Plan) error {
	if !s.completer.Enabled() {
		return types.ErrAIDisabled
	}
	plan, err := s.plans.CurrentPlan(ctx, userID)
	if err != nil {
		return err
	}
	return types.RequirePlan(plan, required)
}

// Insight summarises the user's recent entries. Requires plus.
func (s *Service) Insight(ctx context.Context, userID string, now time.Time) (*Result, error) {
	if err := s.gate(ctx, userID, types.PlanPlus); err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.Recent(ctx, userID, InsightEntries)
	if err != nil {
		return nil, err
	}
	st, err := s.stats.Get(ctx, userID, now, u.Location(s.loc))
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, u, types.AIRequestKindInsight, insightPrompt(u, entries, st), now)
}

// Advice answers a chat message in the context of the current principle. Requires pro.
func (s *Service) Advice(ctx context.Context, userID, message string, now time.Time) (*Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, types.InvalidInput("message is empty")
	}
	if utf8.RuneCountInString(message) > MaxMessageRunes {
		return nil, types.InvalidInput("message exceeds %d characters", MaxMessageRunes)
	}
	if err := s.gate(ctx, userID, types.PlanPro); err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.principles.Get(ctx, u.CurrentPrinciple)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.Recent(ctx, userID, AdviceEntries)
	if err != nil {
		return nil, err
	}
	return s.complete(ctx, u, types.AIRequestKindChat, advicePrompt(u, p, entries, message), now)
}

func (s *Service) complete(ctx context.Context, u *models.User, kind types.AIRequestKind, messages []openai.Message, now time.Time) (*Result, error) {
	log := logctx.FromCtx(ctx, s.log)
	model := s.completer.Model()
	estimate := EstimateTokens(messages) + s.maxTokens
	ok, st, err := s.budget.CanMakeRequest(ctx, estimate, model, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Warnw("ai budget exhausted", "used", st.Used, "limit", st.Limit, "kind", kind)
		return nil, types.ErrBudgetExceeded
	}
	if st.Warning {
		log.Warnw("ai budget warning", "percentage", st.Percentage, "critical", st.Critical)
	}

	c, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrUnavailable, err)
	}
	res := &Result{Text: strings.TrimSpace(c.Content), Model: c.Model, TokensUsed: c.TotalTokens}
	row, err := s.budget.RecordUsage(ctx, budget.Usage{
		UserID:           u.ID,
		Kind:             kind,
		Model:            c.Model,
		PromptTokens:     c.PromptTokens,
		CompletionTokens: c.CompletionTokens,
		TotalTokens:      c.TotalTokens,
		Metadata:         map[string]any{"principle": u.CurrentPrinciple},
	})
	if err != nil {
		log.Errorw("failed to record ai usage", "kind", kind, "error", err)
		return res, nil
	}
	res.Cost = row.Cost
	return res, nil
}

// EstimateTokens approximates prompt size at four characters per token.
func EstimateTokens(messages []openai.Message) int {
	n := 0
	for _, m := range messages {
		n += utf8.RuneCountInString(m.Content)
	}
	return n/4 + 1
}

package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatflowers/karma/internal/app/service/budget"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/openai"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubCompleter struct {
	enabled bool
	got     []openai.Message
	err     error
}

func (s *stubCompleter) Enabled() bool { return s.enabled }
func (s *stubCompleter) Model() string { return "gpt-4o-mini" }
func (s *stubCompleter) Complete(_ context.Context, m []openai.Message) (*openai.Completion, error) {
	s.got = m
	if s.err != nil {
		return nil, s.err
	}
	return &openai.Completion{Model: "gpt-4o-mini", Content: "  Keep going.  ", PromptTokens: 300, CompletionTokens: 100, TotalTokens: 400}, nil
}

type stubBudget struct {
	allow    bool
	recorded []budget.Usage
}

func (s *stubBudget) CanMakeRequest(context.Context, int, string, time.Time) (bool, *budget.Status, error) {
	return s.allow, budget.NewStatus(1, 10), nil
}

func (s *stubBudget) RecordUsage(_ context.Context, u budget.Usage) (*models.AIRequest, error) {
	s.recorded = append(s.recorded, u)
	return &models.AIRequest{Cost: 0.0002}, nil
}

type stubPlans types.Plan

func (s stubPlans) CurrentPlan(context.Context, string) (types.Plan, error) {
	return types.Plan(s), nil
}

type stubReaders struct{}

func (stubReaders) Recent(_ context.Context, _ string, limit int) ([]*models.JournalEntry, error) {
	return []*models.JournalEntry{
		{PrincipleID: 3, Content: "helped a neighbour", Mood: lo.ToPtr(8), CreatedAt: time.Date(2026, 3, 9, 20, 0, 0, 0, time.UTC)},
		{PrincipleID: 3, IsSkipped: true, CreatedAt: time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC)},
	}[:min(limit, 2)], nil
}

func (stubReaders) Get(context.Context, string, time.Time, *time.Location) (*models.UserStats, error) {
	return &models.UserStats{TotalEntries: 2, StreakDays: 1, LongestStreak: 4, AverageMood: lo.ToPtr(8.0)}, nil
}

type stubUsers struct{}

func (stubUsers) Get(_ context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, CurrentPrinciple: 3, Language: "en"}, nil
}

type stubPrinciples struct{}

func (stubPrinciples) Get(_ context.Context, n int) (*models.Principle, error) {
	return &models.Principle{Number: n, Title: "Law of Humility", Description: "Accept what is."}, nil
}

func newService(c *stubCompleter, b *stubBudget, plan types.Plan) *Service {
	r := stubReaders{}
	return New(Deps{
		Completer: c, Budget: b, Plans: stubPlans(plan), Entries: r, Stats: r,
		Users: stubUsers{}, Principles: stubPrinciples{},
	}, &config.Config{OpenAI: config.OpenAIConfig{MaxTokens: 600}}, zap.NewNop().Sugar())
}

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestInsight_RequiresPlus(t *testing.T) {
	c := &stubCompleter{enabled: true}
	_, err := newService(c, &stubBudget{allow: true}, types.PlanLight).Insight(context.Background(), "u-1", now)
	require.ErrorIs(t, err, types.ErrPlanRequired)
	var pe *types.PlanRequiredError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, types.PlanPlus, pe.Required)
	assert.Nil(t, c.got)

	_, err = newService(c, &stubBudget{allow: true}, types.PlanTrial).Insight(context.Background(), "u-1", now)
	require.NoError(t, err, "trial ranks as plus")
}

func TestInsight_RecordsUsage(t *testing.T) {
	c := &stubCompleter{enabled: true}
	b := &stubBudget{allow: true}
	res, err := newService(c, b, types.PlanPlus).Insight(context.Background(), "u-1", now)
	require.NoError(t, err)
	assert.Equal(t, "Keep going.", res.Text)
	assert.Equal(t, 400, res.TokensUsed)
	assert.Equal(t, 0.0002, res.Cost)

	require.Len(t, b.recorded, 1)
	assert.Equal(t, types.AIRequestKindInsight, b.recorded[0].Kind)
	assert.Equal(t, "u-1", b.recorded[0].UserID)
	assert.Equal(t, 300, b.recorded[0].PromptTokens)

	require.Len(t, c.got, 2)
	assert.Contains(t, c.got[0].Content, "Reply in English.")
	assert.Contains(t, c.got[1].Content, "helped a neighbour")
	assert.Contains(t, c.got[1].Content, "skipped")
	assert.Contains(t, c.got[1].Content, "Longest streak: 4 days")
}

func TestAdvice_RequiresPro(t *testing.T) {
	c := &stubCompleter{enabled: true}
	_, err := newService(c, &stubBudget{allow: true}, types.PlanPlus).Advice(context.Background(), "u-1", "how?", now)
	require.ErrorIs(t, err, types.ErrPlanRequired)

	res, err := newService(c, &stubBudget{allow: true}, types.PlanPro).Advice(context.Background(), "u-1", "how?", now)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Text)
	assert.Equal(t, "how?", c.got[1].Content)
	assert.Contains(t, c.got[0].Content, "Law of Humility")
}

func TestAdvice_ValidatesMessage(t *testing.T) {
	s := newService(&stubCompleter{enabled: true}, &stubBudget{allow: true}, types.PlanPro)
	_, err := s.Advice(context.Background(), "u-1", "   ", now)
	require.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = s.Advice(context.Background(), "u-1", strings.Repeat("a", MaxMessageRunes+1), now)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestBudgetExceeded(t *testing.T) {
	c := &stubCompleter{enabled: true}
	b := &stubBudget{allow: false}
	_, err := newService(c, b, types.PlanPro).Insight(context.Background(), "u-1", now)
	require.ErrorIs(t, err, types.ErrBudgetExceeded)
	assert.Nil(t, c.got, "no call is made")
	assert.Empty(t, b.recorded)
}

func TestDisabled(t *testing.T) {
	_, err := newService(&stubCompleter{}, &stubBudget{allow: true}, types.PlanPro).Insight(context.Background(), "u-1", now)
	require.ErrorIs(t, err, types.ErrAIDisabled)
}

func TestProviderFailureIsUnavailable(t *testing.T) {
	b := &stubBudget{allow: true}
	_, err := newService(&stubCompleter{enabled: true, err: errors.New("timeout")}, b, types.PlanPro).Insight(context.Background(), "u-1", now)
	require.ErrorIs(t, err, types.ErrUnavailable)
	assert.Empty(t, b.recorded)
}

func TestEstimateTokens(t *testing.T) {
	assert.Equal(t, 1, EstimateTokens(nil))
	assert.Equal(t, 3, EstimateTokens([]openai.Message{{Content: "12345678"}}))
}

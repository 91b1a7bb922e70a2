package subscription

import (
	"testing"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func sub(plan types.Plan, status types.SubscriptionStatus, expires time.Time) *models.Subscription {
	return &models.Subscription{ID: string(plan) + expires.Format(time.RFC3339), Plan: plan, Status: status, StartedAt: now.AddDate(0, 0, -1), ExpiresAt: expires}
}

func TestPickCurrent(t *testing.T) {
	active := types.SubscriptionStatusActive
	light := sub(types.PlanLight, active, now.AddDate(0, 1, 0))
	plus := sub(types.PlanPlus, active, now.AddDate(0, 0, 3))
	pro := sub(types.PlanPro, active, now.AddDate(0, 0, 1))
	expiredPro := sub(types.PlanPro, active, now.Add(-time.Minute))
	cancelledPro := sub(types.PlanPro, types.SubscriptionStatusCancelled, now.AddDate(0, 1, 0))

	require.Nil(t, pickCurrent(nil, now))
	require.Same(t, pro, pickCurrent([]*models.Subscription{light, plus, pro}, now))
	require.Same(t, pro, pickCurrent([]*models.Subscription{pro, plus, light}, now), "order independent")
	require.Same(t, plus, pickCurrent([]*models.Subscription{light, plus, expiredPro, cancelledPro}, now))

	longerPlus := sub(types.PlanPlus, active, now.AddDate(0, 0, 20))
	require.Same(t, longerPlus, pickCurrent([]*models.Subscription{plus, longerPlus}, now))

	// trial ranks with plus; the later expiry wins
	trial := sub(types.PlanTrial, active, now.AddDate(0, 0, 5))
	require.Same(t, trial, pickCurrent([]*models.Subscription{plus, trial}, now))
}

func TestPickCurrent_LightDoesNotSatisfyPro(t *testing.T) {
	light := sub(types.PlanLight, types.SubscriptionStatusActive, now.AddDate(0, 1, 0))
	cur := pickCurrent([]*models.Subscription{light}, now)
	require.False(t, cur.Plan.Satisfies(types.PlanPro))
	require.Error(t, types.RequirePlan(cur.Plan, types.PlanPro))
}

func TestActivationWindow(t *testing.T) {
	item := &types.PlanItem{Plan: types.PlanPlus, DurationDays: 30}

	start, end := activationWindow(nil, item, now)
	require.Equal(t, now, start)
	require.Equal(t, now.AddDate(0, 0, 30), end)

	samePlan := sub(types.PlanPlus, types.SubscriptionStatusActive, now.AddDate(0, 0, 10))
	start, end = activationWindow([]*models.Subscription{samePlan}, item, now)
	require.Equal(t, samePlan.ExpiresAt, start, "renewal extends the running period")
	require.Equal(t, samePlan.ExpiresAt.AddDate(0, 0, 30), end)

	otherPlan := sub(types.PlanLight, types.SubscriptionStatusActive, now.AddDate(0, 0, 10))
	start, _ = activationWindow([]*models.Subscription{otherPlan}, item, now)
	require.Equal(t, now, start, "upgrades start now")
}

func TestToInfo(t *testing.T) {
	info := toInfo(nil, now)
	require.Equal(t, types.PlanNone, info.Plan)
	require.Nil(t, info.ExpiresAt)

	info = toInfo(sub(types.PlanPro, types.SubscriptionStatusActive, now.Add(36*time.Hour)), now)
	require.Equal(t, types.PlanPro, info.Plan)
	require.Equal(t, 2, info.DaysLeft)
}

func TestPlans_OrderedPurchasable(t *testing.T) {
	s := &Service{cfg: &config.Config{Subscription: config.SubscriptionConfig{Plans: []*types.PlanItem{
		{Plan: types.PlanPro, Price: 349},
		{Plan: types.PlanTrial},
		{Plan: types.PlanLight, Price: 99},
		{Plan: types.PlanPlus, Price: 199},
	}}}}
	got := s.Plans()
	require.Len(t, got, 3)
	require.Equal(t, []types.Plan{types.PlanLight, types.PlanPlus, types.PlanPro}, []types.Plan{got[0].Plan, got[1].Plan, got[2].Plan})
}

func TestExpireTrialsStmt_OnlyTouchesLapsedActiveTrials(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	stmt := expireTrialsStmt(db.Session(&gorm.Session{DryRun: true}), now).Statement
	sql := stmt.SQL.String()
	require.Contains(t, sql, `UPDATE "subscriptions" SET "status"=$1,"updated_at"=$2`)
	require.Contains(t, sql, "WHERE plan = $3 AND status = $4 AND expires_at < $5")
	require.Equal(t, []any{types.SubscriptionStatusExpired, now, types.PlanTrial, types.SubscriptionStatusActive, now}, stmt.Vars)
}

package user

import (
	"testing"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestSettingsPatch_Apply(t *testing.T) {
	u := &models.User{NotificationType: types.NotificationTypeDaily, ReminderMode: types.ReminderModeStandard, CurrentPrinciple: 1}

	changed, err := SettingsPatch{
		NotificationType: lo.ToPtr(types.NotificationTypeCustom),
		MorningTime:      lo.ToPtr("07:30"),
		Timezone:         lo.ToPtr("Europe/Kyiv"),
	}.Apply(u)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"notification_type", "morning_time", "timezone"}, changed)
	require.Equal(t, types.NotificationTypeCustom, u.NotificationType)
	require.Equal(t, "07:30", u.MorningTime)

	changed, err = SettingsPatch{}.Apply(u)
	require.NoError(t, err)
	require.Empty(t, changed)
}

func TestSettingsPatch_RejectsInvalid(t *testing.T) {
	cases := map[string]SettingsPatch{
		"notification type": {NotificationType: lo.ToPtr(types.NotificationType("hourly"))},
		"reminder mode":     {ReminderMode: lo.ToPtr(types.ReminderMode("loud"))},
		"clock":             {EveningTime: lo.ToPtr("25:00")},
		"clock format":      {MorningTime: lo.ToPtr("9:00")},
		"timezone":          {Timezone: lo.ToPtr("Mars/Base")},
		"principle":         {CurrentPrinciple: lo.ToPtr(11)},
		"empty timezone":    {Timezone: lo.ToPtr("")},
		"language":          {Language: lo.ToPtr("x")},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			u := &models.User{NotificationType: types.NotificationTypeDaily, MorningTime: "09:00"}
			before := *u
			_, err := p.Apply(u)
			require.ErrorIs(t, err, types.ErrInvalidInput)
			require.Equal(t, before, *u, "user must be untouched")
		})
	}
}

func TestRotateStmt_WrapsAtTen(t *testing.T) {
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=test dbname=test sslmode=disable"}),
		&gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	stmt := rotateStmt(db.Session(&gorm.Session{DryRun: true})).Statement
	sql := stmt.SQL.String()
	require.Contains(t, sql, `UPDATE "users" SET "current_principle"=CASE WHEN current_principle >= $1 THEN 1 ELSE current_principle + 1 END`)
	require.Contains(t, sql, "is_active = $2 AND has_completed_onboarding = $3")
	require.Equal(t, []any{types.PrincipleCount, true, true}, stmt.Vars)
}

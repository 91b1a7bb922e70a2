package reminder

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func user(id string, nt types.NotificationType, mode types.ReminderMode) *models.User {
	return &models.User{ID: id, IsActive: true, NotificationType: nt, ReminderMode: mode, CurrentPrinciple: 2}
}

func TestDue_Gating(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	daily := user("d", types.NotificationTypeDaily, types.ReminderModeStandard)
	intensive := user("i", types.NotificationTypeIntensive, types.ReminderModeAntidote)
	none := user("n", types.NotificationTypeNone, types.ReminderModeStandard)
	inactive := user("x", types.NotificationTypeDaily, types.ReminderModeStandard)
	inactive.IsActive = false

	cases := []struct {
		u    *models.User
		kind Kind
		want bool
	}{
		{daily, KindMorning, true},
		{daily, KindEvening, true},
		{daily, KindAfternoon, false},
		{daily, KindMorningAntidote, false},
		{intensive, KindAfternoon, true},
		{intensive, KindEveningAntidote, true},
		{none, KindMorning, false},
		{inactive, KindMorning, false},
	}
	for _, tc := range cases {
		_, ok := Due(tc.u, tc.kind, now, time.UTC)
		assert.Equal(t, tc.want, ok, "%s/%s", tc.u.ID, tc.kind)
	}
}

func TestDue_CustomUsesUserClock(t *testing.T) {
	u := user("c", types.NotificationTypeCustom, types.ReminderModeStandard)
	u.Timezone = "Europe/Kyiv"
	u.MorningTime = "07:30"
	u.EveningTime = "22:15"

	kyiv, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	tpl, ok := Due(u, KindCustom, time.Date(2026, 3, 10, 7, 30, 0, 0, kyiv).UTC(), time.UTC)
	require.True(t, ok)
	assert.Equal(t, KindMorning, tpl)

	tpl, ok = Due(u, KindCustom, time.Date(2026, 3, 10, 22, 15, 0, 0, kyiv), time.UTC)
	require.True(t, ok)
	assert.Equal(t, KindEvening, tpl)

	_, ok = Due(u, KindCustom, time.Date(2026, 3, 10, 7, 31, 0, 0, kyiv), time.UTC)
	assert.False(t, ok)

	_, ok = Due(u, KindMorning, time.Date(2026, 3, 10, 9, 0, 0, 0, kyiv), time.UTC)
	assert.False(t, ok, "custom users skip the fixed batches")
}

func TestRender(t *testing.T) {
	m := Render(KindEvening, 4, "Law of Growth", "https://karma.app/")
	assert.Contains(t, m.Body, "«Law of Growth»")
	assert.Equal(t, "https://karma.app/journal", m.URL)
	require.Len(t, m.Buttons, 2)
	assert.Equal(t, "write_4", m.Buttons[0][0].Data)
	assert.Equal(t, "skip_4", m.Buttons[1][0].Data)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("evening_antidote")
	require.NoError(t, err)
	assert.Equal(t, KindEveningAntidote, k)
	_, err = ParseKind("noon")
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

type stubUsers []*models.User

func (s stubUsers) ListActive(context.Context) ([]*models.User, error) { return s, nil }

type stubTitles struct{}

func (stubTitles) Title(context.Context, int) string { return "your principle" }

type stubSender struct {
	channel string
	fail    map[string]error
	got     []string
}

func (s *stubSender) Channel() string { return s.channel }

func (s *stubSender) Send(_ context.Context, u *models.User, _ notify.Message) error {
	s.got = append(s.got, u.ID)
	return s.fail[u.ID]
}

func TestRunOnce_ContinuesPastFailures(t *testing.T) {
	users := stubUsers{
		user("a", types.NotificationTypeDaily, types.ReminderModeStandard),
		user("b", types.NotificationTypeDaily, types.ReminderModeStandard),
		user("c", types.NotificationTypeNone, types.ReminderModeStandard),
		user("d", types.NotificationTypeIntensive, types.ReminderModeStandard),
	}
	tg := &stubSender{channel: "telegram", fail: map[string]error{"a": errors.New("blocked"), "d": notify.ErrNoRecipient}}
	wp := &stubSender{channel: "webpush", fail: map[string]error{}}
	s := NewScheduler(Deps{Users: users, Titles: stubTitles{}, Senders: []notify.NotificationSender{tg, wp}},
		&config.Config{}, zap.NewNop().Sugar())

	res, err := s.RunOnce(context.Background(), KindMorning, time.Now())
	require.NoError(t, err)
	assert.Equal(t, &BatchResult{Kind: KindMorning, Users: 3, Sent: 4, Failed: 1, Skipped: 1}, res)
	assert.Equal(t, []string{"a", "b", "d"}, tg.got)
	assert.Equal(t, []string{"a", "b", "d"}, wp.got, "one channel failing never blocks the other")
}

func TestRegister_RejectsBadSpec(t *testing.T) {
	cfg := &config.Config{Reminder: config.ReminderConfig{Schedule: config.ReminderSchedule{Morning: "not a cron"}}}
	s := NewScheduler(Deps{}, cfg, zap.NewNop().Sugar())
	require.Error(t, s.register())

	cfg.Reminder.Schedule = config.ReminderSchedule{Morning: "0 9 * * *", Rotation: "5 0 * * *", TrialSweep: "0 3 * * *"}
	s = NewScheduler(Deps{}, cfg, zap.NewNop().Sugar())
	require.NoError(t, s.register())
	assert.Len(t, s.cron.Entries(), 3)
}

package models

import (
	"testing"
	"time"

	"github.com/fatflowers/karma/pkg/types"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestSubscription_Valid(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	var nilSub *Subscription
	require.False(t, nilSub.Valid(now))

	s := &Subscription{Status: types.SubscriptionStatusActive, ExpiresAt: now.Add(time.Hour)}
	require.True(t, s.Valid(now))

	s.ExpiresAt = now
	require.False(t, s.Valid(now), "expiry instant is exclusive")

	s.ExpiresAt = now.Add(time.Hour)
	s.Status = types.SubscriptionStatusCancelled
	require.False(t, s.Valid(now))
}

func TestUser_LocationAndChatID(t *testing.T) {
	kyiv, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)

	u := &User{Timezone: "Europe/Kyiv"}
	require.Equal(t, kyiv.String(), u.Location(time.UTC).String())

	u.Timezone = "Mars/Olympus"
	require.Equal(t, time.UTC, u.Location(time.UTC))

	_, ok := u.ChatID()
	require.False(t, ok)

	id := int64(42)
	u.TelegramID = &id
	chat, ok := u.ChatID()
	require.True(t, ok)
	require.Equal(t, int64(42), chat)
}

func TestPaymentOrder_PlanSnapshot(t *testing.T) {
	var o *PaymentOrder
	require.Nil(t, o.GetPlanSnapshot())
	require.False(t, o.Final())

	item := &types.PlanItem{Plan: types.PlanPro, Price: 349, Currency: "UAH", DurationDays: 30}
	o = &PaymentOrder{
		Status: types.PaymentOrderStatusPending,
		Extra:  datatypes.NewJSONType(&PaymentOrderExtra{PlanSnapshot: item}),
	}
	require.Equal(t, item, o.GetPlanSnapshot())
	require.False(t, o.Final())

	o.Status = types.PaymentOrderStatusApproved
	require.True(t, o.Final())
}

func TestAll_TableNames(t *testing.T) {
	names := map[string]bool{}
	for _, m := range All() {
		tn, ok := m.(interface{ TableName() string })
		require.True(t, ok)
		require.False(t, names[tn.TableName()], "duplicate table %s", tn.TableName())
		names[tn.TableName()] = true
	}
	require.Len(t, names, 11)
}

package validation

import (
	"testing"

	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Principle *int                   `json:"principle" validate:"omitempty,principle"`
	Clock     string                 `json:"clock" validate:"omitempty,clock"`
	Kind      types.NotificationType `json:"kind" validate:"omitempty,enum"`
	Mood      *int                   `json:"mood" validate:"omitempty,min=1,max=10"`
	Page      int                    `form:"page" validate:"min=0"`
	Mode      *types.ReminderMode    `json:"mode" validate:"omitempty,enum"`
	Zone      *string                `json:"zone" validate:"omitempty,timezone"`
}

func TestStruct_Valid(t *testing.T) {
	v := New()
	require.NoError(t, v.Struct(sample{}))
	require.NoError(t, v.Struct(sample{
		Principle: lo.ToPtr(types.PrincipleCount),
		Clock:     "23:59",
		Kind:      types.NotificationTypeIntensive,
		Mood:      lo.ToPtr(10),
		Mode:      lo.ToPtr(types.ReminderModeAntidote),
		Zone:      lo.ToPtr("Europe/Kyiv"),
	}))
}

func TestStruct_Messages(t *testing.T) {
	v := New()
	cases := []struct {
		name string
		in   sample
		msg  string
	}{
		{"principle", sample{Principle: lo.ToPtr(0)}, "principle must be between 1 and 10"},
		{"clock", sample{Clock: "7:30"}, `invalid clock "7:30", want HH:MM`},
		{"enum", sample{Kind: "hourly"}, `unknown kind "hourly"`},
		{"enum pointer", sample{Mode: lo.ToPtr(types.ReminderMode("loud"))}, `unknown mode "loud"`},
		{"max", sample{Mood: lo.ToPtr(11)}, "mood must be at most 10"},
		{"min", sample{Mood: lo.ToPtr(0)}, "mood must be at least 1"},
		{"form name", sample{Page: -1}, "page must be at least 0"},
		{"empty timezone", sample{Zone: lo.ToPtr("")}, `unknown timezone ""`},
		{"timezone", sample{Zone: lo.ToPtr("Mars/Base")}, `unknown timezone "Mars/Base"`},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.ErrorIs(t, err, types.ErrInvalidInput)
			require.EqualError(t, err, "invalid input: "+tt.msg)
		})
	}
}

package journal

import (
	"strings"
	"testing"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_Defaults(t *testing.T) {
	e, err := newEntry("id", "u", 4, CreateEntryInput{Content: "  today I noticed  "})
	require.NoError(t, err)
	require.Equal(t, 4, e.PrincipleID)
	require.Equal(t, "today I noticed", e.Content)
	require.Equal(t, types.EntryCategoryReflection, e.Category)
	require.Equal(t, types.EntrySourceWeb, e.Source)

	e, err = newEntry("id", "u", 4, CreateEntryInput{PrincipleID: lo.ToPtr(7), IsSkipped: true, Source: types.EntrySourceTelegram})
	require.NoError(t, err)
	require.Equal(t, 7, e.PrincipleID)
	require.True(t, e.IsSkipped)
	require.Equal(t, types.EntrySourceTelegram, e.Source)
}

func TestNewEntry_Validation(t *testing.T) {
	cases := map[string]CreateEntryInput{
		"empty content":  {Content: "   "},
		"principle low":  {Content: "x", PrincipleID: lo.ToPtr(0)},
		"principle high": {Content: "x", PrincipleID: lo.ToPtr(11)},
		"mood low":       {Content: "x", Mood: lo.ToPtr(0)},
		"energy high":    {Content: "x", Energy: lo.ToPtr(11)},
		"category":       {Content: "x", Category: "poem"},
		"too long":       {Content: strings.Repeat("a", MaxContentLength+1)},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newEntry("id", "u", 1, in)
			require.ErrorIs(t, err, types.ErrInvalidInput)
		})
	}

	for _, v := range []int{types.MinScale, types.MaxScale} {
		_, err := newEntry("id", "u", 1, CreateEntryInput{Content: "x", Mood: lo.ToPtr(v), Energy: lo.ToPtr(v)})
		require.NoError(t, err)
	}
}

func TestUpdateEntryInput_Apply(t *testing.T) {
	e := &models.JournalEntry{Content: "old", Mood: lo.ToPtr(5), Category: types.EntryCategoryReflection}

	changed, err := UpdateEntryInput{Mood: lo.ToPtr(9), Category: lo.ToPtr(types.EntryCategoryGratitude)}.apply(e)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"mood", "category"}, changed)
	require.Equal(t, 9, *e.Mood)
	require.Equal(t, "old", e.Content)

	before := *e
	_, err = UpdateEntryInput{Content: lo.ToPtr("")}.apply(e)
	require.ErrorIs(t, err, types.ErrInvalidInput)
	require.Equal(t, before, *e)

	changed, err = UpdateEntryInput{Content: lo.ToPtr(""), IsSkipped: lo.ToPtr(true)}.apply(e)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"content", "is_skipped"}, changed)

	_, err = UpdateEntryInput{Energy: lo.ToPtr(42)}.apply(e)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestListEntriesQuery_Normalize(t *testing.T) {
	q, err := ListEntriesQuery{}.normalize()
	require.NoError(t, err)
	require.Equal(t, DefaultListLimit, q.Limit)

	q, err = ListEntriesQuery{Limit: 1000, Offset: -5}.normalize()
	require.NoError(t, err)
	require.Equal(t, MaxListLimit, q.Limit)
	require.Equal(t, 0, q.Offset)

	_, err = ListEntriesQuery{PrincipleID: lo.ToPtr(12)}.normalize()
	require.ErrorIs(t, err, types.ErrInvalidInput)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)
	_, err = ListEntriesQuery{From: &from, To: &to}.normalize()
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestNewEntry_ValidationMessages(t *testing.T) {
	_, err := newEntry("id", "u", 1, CreateEntryInput{Content: " "})
	require.EqualError(t, err, "invalid input: content is required")

	_, err = newEntry("id", "u", 1, CreateEntryInput{IsCompleted: true, Mood: lo.ToPtr(11)})
	require.EqualError(t, err, "invalid input: mood must be at most 10")

	_, err = newEntry("id", "u", 1, CreateEntryInput{Content: "x", Category: "poem"})
	require.EqualError(t, err, `invalid input: unknown category "poem"`)

	_, err = newEntry("id", "u", 0, CreateEntryInput{Content: "x"})
	require.EqualError(t, err, "invalid input: principle_id must be between 1 and 10", "the defaulted principle is checked too")
}

package achievement

import (
	"fmt"
	"testing"
	"time"

	"github.com/fatflowers/karma/pkg/types"

	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

func daily(n int, content func(i int) string, principle func(i int) int) []Entry {
	out := make([]Entry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Entry{PrincipleID: principle(i), Content: content(i), CreatedAt: base.AddDate(0, 0, i)})
	}
	return out
}

func plain(int) string { return "a quiet day" }
func same(int) int     { return 1 }

func TestEvaluate_FirstEntryOnce(t *testing.T) {
	entries := []Entry{{PrincipleID: 1, Content: "hello", CreatedAt: base}}
	got := Evaluate(entries, nil, base, time.UTC)
	require.Equal(t, []types.AchievementType{types.AchievementFirstEntry}, got)

	got = Evaluate(entries, map[types.AchievementType]bool{types.AchievementFirstEntry: true}, base, time.UTC)
	require.Empty(t, got)
}

func TestEvaluate_NoEntries(t *testing.T) {
	require.Empty(t, Evaluate(nil, nil, base, time.UTC))
	skipped := []Entry{{PrincipleID: 1, CreatedAt: base, IsSkipped: true}}
	require.Empty(t, Evaluate(skipped, nil, base, time.UTC))
}

func TestEvaluate_Streaks(t *testing.T) {
	entries := daily(7, plain, same)
	now := entries[len(entries)-1].CreatedAt
	got := Evaluate(entries, nil, now, time.UTC)
	require.Contains(t, got, types.AchievementStreak7)
	require.NotContains(t, got, types.AchievementStreak30)

	// A broken run does not count.
	broken := append(daily(6, plain, same), Entry{PrincipleID: 1, CreatedAt: base.AddDate(0, 0, 7)})
	require.NotContains(t, Evaluate(broken, nil, now, time.UTC), types.AchievementStreak7)

	month := daily(30, plain, same)
	got = Evaluate(month, nil, month[29].CreatedAt, time.UTC)
	require.Contains(t, got, types.AchievementStreak30)
}

func TestEvaluate_Counts(t *testing.T) {
	got := Evaluate(daily(49, plain, same), nil, base, time.UTC)
	require.NotContains(t, got, types.AchievementEntries50)

	got = Evaluate(daily(100, plain, same), nil, base, time.UTC)
	require.Contains(t, got, types.AchievementEntries50)
	require.Contains(t, got, types.AchievementEntries100)
}

func TestEvaluate_Gratitude(t *testing.T) {
	words := []string{"I am Grateful", "so much gratitude", "Thank you", "дякую", "вдячна"}
	entries := daily(20, func(i int) string { return fmt.Sprintf("%d: %s", i, words[i%len(words)]) }, same)
	require.Contains(t, Evaluate(entries, nil, base, time.UTC), types.AchievementGratitude20)

	entries[0].Content = "nothing special"
	require.NotContains(t, Evaluate(entries, nil, base, time.UTC), types.AchievementGratitude20)
}

func TestEvaluate_PrincipleExplorer(t *testing.T) {
	// 12 entries alternating principles give 11 changes.
	alternating := func(i int) int { return i%2 + 1 }
	require.Contains(t, Evaluate(daily(12, plain, alternating), nil, base, time.UTC), types.AchievementPrincipleExplorer)

	// 11 entries give exactly 10 changes, which is not enough.
	require.NotContains(t, Evaluate(daily(11, plain, alternating), nil, base, time.UTC), types.AchievementPrincipleExplorer)

	// Order is chronological regardless of input order.
	entries := daily(12, plain, alternating)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	require.Contains(t, Evaluate(entries, nil, base, time.UTC), types.AchievementPrincipleExplorer)
}

package achievement

import (
	"sort"
	"strings"
	"time"

	"github.com/fatflowers/karma/internal/app/service/stats"
	"github.com/fatflowers/karma/pkg/types"
)

const (
	entries50Threshold      = 50
	entries100Threshold     = 100
	streak7Threshold        = 7
	streak30Threshold       = 30
	gratitudeThreshold      = 20
	explorerRotationsNeeded = 10
)

// Every type in unlock-check order.
var AllTypes = []types.AchievementType{
	types.AchievementFirstEntry,
	types.AchievementEntries50,
	types.AchievementEntries100,
	types.AchievementStreak7,
	types.AchievementStreak30,
	types.AchievementGratitude20,
	types.AchievementPrincipleExplorer,
}

var gratitudeKeywords = []string{"grateful", "gratitude", "thank", "дяку", "вдяч"}

// Entry is the slice of a journal entry achievements look at.
type Entry struct {
	PrincipleID int
	Content     string
	CreatedAt   time.Time
	IsSkipped   bool
}

func mentionsGratitude(content string) bool {
	lc := strings.ToLower(content)
	for _, kw := range gratitudeKeywords {
		if strings.Contains(lc, kw) {
			return true
		}
	}
	return false
}

// Evaluate returns the achievement types earned by entries and not already in existing.
// Skipped entries are ignored.
func Evaluate(entries []Entry, existing map[types.AchievementType]bool, now time.Time, loc *time.Location) []types.AchievementType {
	kept := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !e.IsSkipped {
			kept = append(kept, e)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].CreatedAt.Before(kept[j].CreatedAt) })

	days := make([]time.Time, 0, len(kept))
	gratitude, rotations := 0, 0
	for i, e := range kept {
		days = append(days, stats.Day(e.CreatedAt, loc))
		if mentionsGratitude(e.Content) {
			gratitude++
		}
		if i > 0 && e.PrincipleID != kept[i-1].PrincipleID {
			rotations++
		}
	}
	_, longest := stats.Streak(days, stats.Day(now, loc))

	earned := map[types.AchievementType]bool{
		types.AchievementFirstEntry:        len(kept) >= 1,
		types.AchievementEntries50:         len(kept) >= entries50Threshold,
		types.AchievementEntries100:        len(kept) >= entries100Threshold,
		types.AchievementStreak7:           longest >= streak7Threshold,
		types.AchievementStreak30:          longest >= streak30Threshold,
		types.AchievementGratitude20:       gratitude >= gratitudeThreshold,
		types.AchievementPrincipleExplorer: rotations > explorerRotationsNeeded,
	}

	var out []types.AchievementType
	for _, t := range AllTypes {
		if earned[t] && !existing[t] {
			out = append(out, t)
		}
	}
	return out
}

package stats

import (
	"time"

	"github.com/fatflowers/karma/internal/models"
)

// Sample is the slice of a journal entry the aggregate needs.
type Sample struct {
	CreatedAt time.Time
	Mood      *int
	Energy    *int
	IsSkipped bool
}

// Compute folds samples into a stats row. Skipped entries count toward the total
// but not toward streaks or averages. storedLongest keeps the all-time record
// when older entries have been deleted.
func Compute(userID string, samples []Sample, storedLongest int, now time.Time, loc *time.Location) *models.UserStats {
	st := &models.UserStats{UserID: userID, TotalEntries: int64(len(samples))}

	var (
		days               []time.Time
		moodSum, energySum float64
		moodN, energyN     int
		last, lastDay      *time.Time
	)
	for i := range samples {
		s := samples[i]
		if last == nil || s.CreatedAt.After(*last) {
			t := s.CreatedAt
			last = &t
		}
		if s.IsSkipped {
			continue
		}
		d := Day(s.CreatedAt, loc)
		days = append(days, d)
		if lastDay == nil || d.After(*lastDay) {
			lastDay = &d
		}
		if s.Mood != nil {
			moodSum += float64(*s.Mood)
			moodN++
		}
		if s.Energy != nil {
			energySum += float64(*s.Energy)
			energyN++
		}
	}

	st.StreakDays, st.LongestStreak = Streak(days, Day(now, loc))
	if storedLongest > st.LongestStreak {
		st.LongestStreak = storedLongest
	}
	if moodN > 0 {
		avg := moodSum / float64(moodN)
		st.AverageMood = &avg
	}
	if energyN > 0 {
		avg := energySum / float64(energyN)
		st.AverageEnergy = &avg
	}
	st.LastEntryAt = last
	st.LastStreakDay = lastDay
	return st
}

// AtRead zeroes a stored streak that has lapsed since it was computed.
// Skipped entries never extend the streak, so the lapse is measured from the last counted day.
func AtRead(st *models.UserStats, now time.Time, loc *time.Location) *models.UserStats {
	if st == nil || st.StreakDays == 0 {
		return st
	}
	if st.LastStreakDay == nil || Day(now, loc).Sub(Day(*st.LastStreakDay, time.UTC)) > day {
		cp := *st
		cp.StreakDays = 0
		return &cp
	}
	return st
}

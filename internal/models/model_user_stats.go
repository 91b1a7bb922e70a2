package models

import "time"

// UserStats is the per-user aggregate maintained on every journal write.
type UserStats struct {
	UserID        string     `gorm:"column:user_id;type:uuid;primary_key" json:"user_id"`
	TotalEntries  int64      `gorm:"column:total_entries;not null;default:0" json:"total_entries"`
	StreakDays    int        `gorm:"column:streak_days;not null;default:0" json:"streak_days"`
	LongestStreak int        `gorm:"column:longest_streak;not null;default:0" json:"longest_streak"`
	AverageMood   *float64   `gorm:"column:average_mood" json:"average_mood"`
	AverageEnergy *float64   `gorm:"column:average_energy" json:"average_energy"`
	LastEntryAt   *time.Time `gorm:"column:last_entry_at" json:"last_entry_at"`
	// LastStreakDay is the latest non-skipped calendar day, as produced by stats.Day.
	LastStreakDay *time.Time `gorm:"column:last_streak_day;type:date" json:"-"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }

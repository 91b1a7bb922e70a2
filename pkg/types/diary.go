package types

import (
	"fmt"
	"regexp"
)

// NotificationType selects which reminder batches a user receives.
type NotificationType string

const (
	NotificationTypeNone      NotificationType = "none"
	NotificationTypeDaily     NotificationType = "daily"
	NotificationTypeIntensive NotificationType = "intensive"
	NotificationTypeCustom    NotificationType = "custom"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeNone, NotificationTypeDaily, NotificationTypeIntensive, NotificationTypeCustom:
		return true
	}
	return false
}

// ReminderMode toggles antidote pre-reminders.
type ReminderMode string

const (
	ReminderModeStandard ReminderMode = "standard"
	ReminderModeAntidote ReminderMode = "antidote"
)

func (m ReminderMode) Valid() bool {
	return m == ReminderModeStandard || m == ReminderModeAntidote
}

type EntrySource string

const (
	EntrySourceWeb      EntrySource = "web"
	EntrySourceTelegram EntrySource = "telegram"
)

type EntryCategory string

const (
	EntryCategoryReflection EntryCategory = "reflection"
	EntryCategoryAntidote   EntryCategory = "antidote"
	EntryCategoryGratitude  EntryCategory = "gratitude"
)

func (c EntryCategory) Valid() bool {
	switch c {
	case EntryCategoryReflection, EntryCategoryAntidote, EntryCategoryGratitude:
		return true
	}
	return false
}

type AchievementType string

const (
	AchievementFirstEntry        AchievementType = "first_entry"
	AchievementEntries50         AchievementType = "entries_50"
	AchievementEntries100        AchievementType = "entries_100"
	AchievementStreak7           AchievementType = "streak_7"
	AchievementStreak30          AchievementType = "streak_30"
	AchievementGratitude20       AchievementType = "gratitude_20"
	AchievementPrincipleExplorer AchievementType = "principle_explorer"
)

type AIRequestKind string

const (
	AIRequestKindInsight AIRequestKind = "insight"
	AIRequestKindChat    AIRequestKind = "chat"
)

const (
	PrincipleCount = 10
	MinScale       = 1
	MaxScale       = 10
)

func ValidPrinciple(n int) bool {
	return n >= 1 && n <= PrincipleCount
}

var clockRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// ValidateClock checks a HH:MM time-of-day string.
func ValidateClock(s string) error {
	if !clockRe.MatchString(s) {
		return fmt.Errorf("invalid time %q, want HH:MM", s)
	}
	return nil
}

package models

import (
	"time"

	"github.com/fatflowers/karma/pkg/types"
)

// User is a diary owner. Telegram is the only identity provider.
type User struct {
	ID               string                 `gorm:"column:id;type:uuid;primary_key" json:"id"`
	TelegramID       *int64                 `gorm:"column:telegram_id;uniqueIndex" json:"telegram_id,omitempty"`
	TelegramUsername string                 `gorm:"column:telegram_username;type:varchar(64)" json:"telegram_username"`
	FirstName        string                 `gorm:"column:first_name;type:varchar(128)" json:"first_name"`
	CurrentPrinciple int                    `gorm:"column:current_principle;not null;default:1" json:"current_principle"`
	NotificationType types.NotificationType `gorm:"column:notification_type;type:varchar(16);not null;default:'daily'" json:"notification_type"`
	ReminderMode     types.ReminderMode     `gorm:"column:reminder_mode;type:varchar(16);not null;default:'standard'" json:"reminder_mode"`
	// MorningTime and EveningTime are HH:MM in Timezone, used by the custom notification type.
	MorningTime string `gorm:"column:morning_time;type:varchar(5)" json:"morning_time"`
	EveningTime string `gorm:"column:evening_time;type:varchar(5)" json:"evening_time"`
	Timezone    string `gorm:"column:timezone;type:varchar(64)" json:"timezone"`
	Language    string `gorm:"column:language;type:varchar(8);default:'uk'" json:"language"`
	// Subscription caches the label of the last activated plan; gating never reads it.
	Subscription           types.Plan `gorm:"column:subscription;type:varchar(16);not null;default:'none'" json:"subscription"`
	HasCompletedOnboarding bool       `gorm:"column:has_completed_onboarding;not null;default:false" json:"has_completed_onboarding"`
	IsActive               bool       `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	// AwaitingEntryPrinciple is set while the bot waits for a free-text entry.
	AwaitingEntryPrinciple *int      `gorm:"column:awaiting_entry_principle" json:"-"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Location is the user's timezone, or fallback when unset or unknown.
func (u *User) Location(fallback *time.Location) *time.Location {
	if u == nil || u.Timezone == "" {
		return fallback
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return fallback
	}
	return loc
}

// ChatID returns the Telegram chat for direct messages, false when the user never linked Telegram.
func (u *User) ChatID() (int64, bool) {
	if u == nil || u.TelegramID == nil {
		return 0, false
	}
	return *u.TelegramID, true
}

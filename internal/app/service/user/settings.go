package user

import (
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"
	"github.com/fatflowers/karma/pkg/validation"
)

var validate = validation.New()

// SettingsPatch is a PATCH body; nil fields are left unchanged.
type SettingsPatch struct {
	NotificationType *types.NotificationType `json:"notification_type,omitempty" validate:"omitempty,enum"`
	ReminderMode     *types.ReminderMode     `json:"reminder_mode,omitempty" validate:"omitempty,enum"`
	MorningTime      *string                 `json:"morning_time,omitempty" validate:"omitempty,clock"`
	EveningTime      *string                 `json:"evening_time,omitempty" validate:"omitempty,clock"`
	Timezone         *string                 `json:"timezone,omitempty" validate:"omitempty,timezone"`
	Language         *string                 `json:"language,omitempty" validate:"omitempty,min=2,max=8"`
	CurrentPrinciple *int                    `json:"current_principle,omitempty" validate:"omitempty,principle"`
}

// Apply validates the patch and writes it into u, returning the changed column names.
// u is left untouched when validation fails.
func (p SettingsPatch) Apply(u *models.User) ([]string, error) {
	if err := validate.Struct(p); err != nil {
		return nil, err
	}

	var changed []string
	if p.NotificationType != nil {
		u.NotificationType = *p.NotificationType
		changed = append(changed, "notification_type")
	}
	if p.ReminderMode != nil {
		u.ReminderMode = *p.ReminderMode
		changed = append(changed, "reminder_mode")
	}
	if p.MorningTime != nil {
		u.MorningTime = *p.MorningTime
		changed = append(changed, "morning_time")
	}
	if p.EveningTime != nil {
		u.EveningTime = *p.EveningTime
		changed = append(changed, "evening_time")
	}
	if p.Timezone != nil {
		u.Timezone = *p.Timezone
		changed = append(changed, "timezone")
	}
	if p.Language != nil {
		u.Language = *p.Language
		changed = append(changed, "language")
	}
	if p.CurrentPrinciple != nil {
		u.CurrentPrinciple = *p.CurrentPrinciple
		changed = append(changed, "current_principle")
	}
	return changed, nil
}

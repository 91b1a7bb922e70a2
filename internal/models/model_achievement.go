package models

import (
	"time"

	"github.com/fatflowers/karma/pkg/types"
)

type Achievement struct {
	ID         string                `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID     string                `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_achievement_user_type,priority:1" json:"user_id"`
	Type       types.AchievementType `gorm:"column:type;type:varchar(32);not null;uniqueIndex:idx_achievement_user_type,priority:2" json:"type"`
	UnlockedAt time.Time             `gorm:"column:unlocked_at;not null" json:"unlocked_at"`
}

func (Achievement) TableName() string { return "achievements" }

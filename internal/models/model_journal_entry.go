package models

import (
	"time"

	"github.com/fatflowers/karma/pkg/types"
)

type JournalEntry struct {
	ID          string              `gorm:"column:id;type:uuid;primary_key;index:idx_entry_user_created,priority:2" json:"id"`
	UserID      string              `gorm:"column:user_id;type:uuid;not null;index:idx_entry_user_created,priority:1" json:"user_id"`
	PrincipleID int                 `gorm:"column:principle_id;not null" json:"principle_id"`
	Content     string              `gorm:"column:content;type:text" json:"content"`
	Mood        *int                `gorm:"column:mood" json:"mood"`
	Energy      *int                `gorm:"column:energy" json:"energy"`
	IsCompleted bool                `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	IsSkipped   bool                `gorm:"column:is_skipped;not null;default:false" json:"is_skipped"`
	Category    types.EntryCategory `gorm:"column:category;type:varchar(16);not null;default:'reflection'" json:"category"`
	Source      types.EntrySource   `gorm:"column:source;type:varchar(16);not null;default:'web'" json:"source"`
	CreatedAt   time.Time           `gorm:"index:idx_entry_user_created,priority:3,sort:desc" json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

func (JournalEntry) TableName() string { return "journal_entries" }

package models

import (
	"time"

	"github.com/fatflowers/karma/pkg/types"

	"gorm.io/datatypes"
)

// AIRequest is an append-only ledger row of one completed model call.
type AIRequest struct {
	ID               string              `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID           string              `gorm:"column:user_id;type:uuid;index" json:"user_id"`
	Kind             types.AIRequestKind `gorm:"column:kind;type:varchar(16);not null" json:"kind"`
	Model            string              `gorm:"column:model;type:varchar(64);not null" json:"model"`
	PromptTokens     int                 `gorm:"column:prompt_tokens;not null" json:"prompt_tokens"`
	CompletionTokens int                 `gorm:"column:completion_tokens;not null" json:"completion_tokens"`
	TotalTokens      int                 `gorm:"column:total_tokens;not null" json:"total_tokens"`
	// Cost is in USD.
	Cost      float64           `gorm:"column:cost;type:numeric(12,6);not null" json:"cost"`
	Metadata  datatypes.JSONMap `gorm:"column:metadata;type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt time.Time         `gorm:"index" json:"created_at"`
}

func (AIRequest) TableName() string { return "ai_requests" }

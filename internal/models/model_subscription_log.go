package models

import (
	"time"

	"github.com/fatflowers/karma/pkg/types"

	"gorm.io/datatypes"
)

// SubscriptionLog records changes to user subscriptions.
// Use case: troubleshooting.
type SubscriptionLog struct {
	ID             string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID         string `gorm:"column:user_id;type:uuid;index:idx_subscription_log_user,priority:1;not null" json:"user_id"`
	SubscriptionID string `gorm:"column:subscription_id;type:uuid;not null" json:"subscription_id"`
	// Reason is the change reason.
	Reason types.SubscriptionChangeReason `gorm:"column:reason;type:varchar(64);not null" json:"reason"`
	// Before stores subscription data before the change in JSON format.
	Before datatypes.JSONType[*Subscription] `gorm:"column:before;type:jsonb;default:'null'" json:"before"`
	// After stores subscription data after the change in JSON format.
	After datatypes.JSONType[*Subscription] `gorm:"column:after;type:jsonb;default:'null'" json:"after"`
	// Extra stores additional context such as the order reference.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time         `gorm:"index:idx_subscription_log_user,priority:2" json:"created_at"`
}

func (SubscriptionLog) TableName() string {
	return "subscription_log"
}

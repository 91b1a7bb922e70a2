package models

import (
	"time"

	"github.com/fatflowers/karma/pkg/types"
)

// Subscription is one period of access to a plan.
// Use Valid() to determine whether the subscription grants access right now.
type Subscription struct {
	ID     string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string                   `gorm:"column:user_id;type:uuid;not null;index:idx_subscription_user_status,priority:1" json:"user_id"`
	Plan   types.Plan               `gorm:"column:plan;type:varchar(16);not null" json:"plan"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(16);not null;index:idx_subscription_user_status,priority:2" json:"status"`
	// StartedAt is the beginning of the paid period; renewals of the same plan start at the previous expiry.
	StartedAt time.Time `gorm:"column:started_at;not null" json:"started_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index" json:"expires_at"`
	// OrderReference links the row to the PaymentOrder that created it; empty for trials.
	OrderReference string    `gorm:"column:order_reference;type:varchar(64)" json:"order_reference,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) Valid(now time.Time) bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusActive &&
		s.ExpiresAt.After(now)
}

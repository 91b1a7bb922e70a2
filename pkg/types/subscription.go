package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonTrial    SubscriptionChangeReason = "trial"
	SubscriptionChangeReasonPurchase SubscriptionChangeReason = "purchase"
	SubscriptionChangeReasonReplaced SubscriptionChangeReason = "replaced"
	SubscriptionChangeReasonRefund   SubscriptionChangeReason = "refund"
	SubscriptionChangeReasonExpired  SubscriptionChangeReason = "expired"
)

type PaymentOrderStatus string

const (
	PaymentOrderStatusPending  PaymentOrderStatus = "pending"
	PaymentOrderStatusApproved PaymentOrderStatus = "approved"
	PaymentOrderStatusDeclined PaymentOrderStatus = "declined"
	PaymentOrderStatusRefunded PaymentOrderStatus = "refunded"
)

type PaymentProvider string

const PaymentProviderWayForPay PaymentProvider = "wayforpay"

// UserSubscriptionInfo is the public view of a user's current subscription.
type UserSubscriptionInfo struct {
	Plan      Plan       `json:"plan"`
	Status    string     `json:"status"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	DaysLeft  int        `json:"days_left"`
}

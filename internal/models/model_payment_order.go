package models

import (
	"time"

	"github.com/fatflowers/karma/pkg/types"

	"gorm.io/datatypes"
)

type PaymentOrderExtra struct {
	// PlanSnapshot is the catalogue entry at the time of purchase.
	PlanSnapshot *types.PlanItem `json:"plan_snapshot"`
	AuthCode     string          `json:"auth_code,omitempty"`
	CardPan      string          `json:"card_pan,omitempty"`
	ReasonCode   int             `json:"reason_code,omitempty"`
	Reason       string          `json:"reason,omitempty"`
}

// PaymentOrder is a purchase attempt sent to the payment provider.
type PaymentOrder struct {
	ID             string                   `gorm:"column:id;primary_key;type:uuid" json:"id"`
	OrderReference string                   `gorm:"column:order_reference;type:varchar(64);not null;uniqueIndex" json:"order_reference"`
	UserID         string                   `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	ProviderID     types.PaymentProvider    `gorm:"column:provider_id;type:varchar(32);not null" json:"provider_id"`
	Plan           types.Plan               `gorm:"column:plan;type:varchar(16);not null" json:"plan"`
	Amount         int64                    `gorm:"column:amount;type:bigint;not null" json:"amount"`
	Currency       string                   `gorm:"column:currency;type:varchar(8);not null" json:"currency"`
	Status         types.PaymentOrderStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	// PaidAt is set when the provider approves the order.
	PaidAt    *time.Time                             `gorm:"column:paid_at;default:null" json:"paid_at"`
	RefundAt  *time.Time                             `gorm:"column:refund_at;default:null" json:"refund_at"`
	Extra     datatypes.JSONType[*PaymentOrderExtra] `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time                              `json:"created_at"`
	UpdatedAt time.Time                              `json:"updated_at"`
}

func (PaymentOrder) TableName() string {
	return "payment_orders"
}

func (o *PaymentOrder) GetPlanSnapshot() *types.PlanItem {
	if o == nil || o.Extra.Data() == nil {
		return nil
	}
	return o.Extra.Data().PlanSnapshot
}

// Final reports whether the provider already settled the order.
func (o *PaymentOrder) Final() bool {
	return o != nil && o.Status != types.PaymentOrderStatusPending
}

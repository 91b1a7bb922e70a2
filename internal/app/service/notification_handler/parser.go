package notification_handler

import (
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"
)

type NotificationParser interface {
	GetProvider() types.PaymentProvider
	GetNotificationTime() time.Time
	GetOrderReference() string
	GetTransactionStatus() string
	GetDetails() *models.PaymentOrderExtra
	GetData() any
}

// Action is what a notification asks us to do with its order.
type Action int

const (
	ActionIgnore Action = iota
	ActionActivate
	ActionDecline
	ActionRefund
)

func (a Action) String() string {
	switch a {
	case ActionActivate:
		return "activate"
	case ActionDecline:
		return "decline"
	case ActionRefund:
		return "refund"
	default:
		return "ignore"
	}
}

package notification_handler

import (
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/wayforpay"
	"github.com/fatflowers/karma/pkg/types"
)

type WayForPayNotificationParser struct {
	Notification *wayforpay.Notification
	receivedAt   time.Time
}

// GetWayForPayNotificationParser decodes body without checking its signature.
func GetWayForPayNotificationParser(body []byte, now time.Time) (*WayForPayNotificationParser, error) {
	n, err := wayforpay.ParseNotification(body)
	if err != nil {
		return nil, err
	}
	return &WayForPayNotificationParser{Notification: n, receivedAt: now}, nil
}

func (p *WayForPayNotificationParser) GetProvider() types.PaymentProvider {
	return types.PaymentProviderWayForPay
}

func (p *WayForPayNotificationParser) GetNotificationTime() time.Time {
	if p.Notification.ProcessingDate > 0 {
		return time.Unix(p.Notification.ProcessingDate, 0).UTC()
	}
	return p.receivedAt
}

func (p *WayForPayNotificationParser) GetOrderReference() string {
	return p.Notification.OrderReference
}

func (p *WayForPayNotificationParser) GetTransactionStatus() string {
	return p.Notification.TransactionStatus
}

func (p *WayForPayNotificationParser) GetDetails() *models.PaymentOrderExtra {
	n := p.Notification
	extra := &models.PaymentOrderExtra{
		AuthCode: n.AuthCode,
		CardPan:  n.CardPan,
		Reason:   n.Reason,
	}
	if code, err := n.ReasonCode.Int64(); err == nil {
		extra.ReasonCode = int(code)
	}
	return extra
}

func (p *WayForPayNotificationParser) GetData() any {
	if len(p.Notification.Raw) > 0 {
		return p.Notification.Raw
	}
	return p.Notification
}

// actionFor maps a provider transaction status to the order transition it triggers.
func actionFor(status string) Action {
	switch status {
	case wayforpay.StatusApproved:
		return ActionActivate
	case wayforpay.StatusDeclined, wayforpay.StatusExpired, wayforpay.StatusVoided:
		return ActionDecline
	case wayforpay.StatusRefunded:
		return ActionRefund
	default:
		return ActionIgnore
	}
}

var _ NotificationParser = (*WayForPayNotificationParser)(nil)

package notification_handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/wayforpay"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/metrics"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Signer verifies incoming notifications and signs our acknowledgements.
type Signer interface {
	Verify(n *wayforpay.Notification) error
	Respond(orderReference, status string, now time.Time) *wayforpay.Response
}

// OrderTransitions applies provider outcomes to orders and subscriptions.
type OrderTransitions interface {
	Activate(ctx context.Context, ref string, details *models.PaymentOrderExtra, now time.Time) (*models.Subscription, error)
	Decline(ctx context.Context, ref string, details *models.PaymentOrderExtra, now time.Time) (*models.PaymentOrder, error)
	Refund(ctx context.Context, ref string, details *models.PaymentOrderExtra, now time.Time) (*models.PaymentOrder, error)
}

type NotificationLogger interface {
	Save(ctx context.Context, log *models.PaymentNotificationLog)
}

type NotificationHandler struct {
	signer   Signer
	notifSvc NotificationLogger
	orders   OrderTransitions
	Logger   *zap.SugaredLogger
}

func NewNotificationHandler(signer Signer, notif NotificationLogger, orders OrderTransitions, log *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{signer: signer, notifSvc: notif, orders: orders, Logger: log}
}

// HandleNotification processes one service-url callback and returns the signed response.
// The response says decline whenever the notification was not applied, so the provider retries.
func (h *NotificationHandler) HandleNotification(ctx context.Context, body []byte, now time.Time) (resp *wayforpay.Response, resErr error) {
	log := logctx.FromCtx(ctx, h.Logger)

	parser, err := GetWayForPayNotificationParser(body, now)
	if err != nil {
		log.Warnw("failed to parse payment notification", "error", err)
		metrics.PaymentNotifications.WithLabelValues("unparsed", wayforpay.ResponseDecline).Inc()
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidInput, err)
	}
	ref := parser.GetOrderReference()
	txStatus := parser.GetTransactionStatus()
	dataBytes, _ := json.Marshal(parser.GetData())
	traceID := logctx.TraceID(ctx)
	h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
		ProviderID:        parser.GetProvider(),
		TraceID:           traceID,
		OrderReference:    ref,
		TransactionStatus: txStatus,
		NotificationTime:  parser.GetNotificationTime(),
		Data:              datatypes.JSON(dataBytes),
		Status:            models.PaymentNotificationLogStatusReceived,
	})

	if err := h.signer.Verify(parser.Notification); err != nil {
		log.Warnw("payment notification rejected", "order_reference", ref, "error", err)
		metrics.PaymentNotifications.WithLabelValues(txStatus, wayforpay.ResponseDecline).Inc()
		resBytes, _ := json.Marshal(map[string]any{"action": "verify", "error": err.Error()})
		h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
			ProviderID:        parser.GetProvider(),
			TraceID:           traceID,
			OrderReference:    ref,
			TransactionStatus: txStatus,
			NotificationTime:  now,
			Data:              datatypes.JSON(dataBytes),
			Result:            lo.ToPtr(datatypes.JSON(resBytes)),
			Status:            models.PaymentNotificationLogStatusHandleFailed,
		})
		if errors.Is(err, wayforpay.ErrInvalidSignature) {
			err = fmt.Errorf("%w: %v", types.ErrInvalidSignature, err)
		}
		return h.signer.Respond(ref, wayforpay.ResponseDecline, now), err
	}

	action := actionFor(txStatus)
	var userID string
	var result any
	defer func() {
		resMap := map[string]any{"action": action.String(), "result": result}
		if resErr != nil {
			resMap["error"] = resErr.Error()
		}
		resBytes, _ := json.Marshal(resMap)
		status := models.PaymentNotificationLogStatusHandled
		if resErr != nil {
			status = models.PaymentNotificationLogStatusHandleFailed
		}
		h.notifSvc.Save(ctx, &models.PaymentNotificationLog{
			ProviderID:        parser.GetProvider(),
			UserID:            lo.EmptyableToPtr(userID),
			TraceID:           traceID,
			OrderReference:    ref,
			TransactionStatus: txStatus,
			NotificationTime:  now,
			Data:              datatypes.JSON(dataBytes),
			Result:            lo.ToPtr(datatypes.JSON(resBytes)),
			Status:            status,
		})
		metrics.PaymentNotifications.WithLabelValues(txStatus, resp.Status).Inc()
	}()

	details := parser.GetDetails()
	switch action {
	case ActionActivate:
		sub, err := h.orders.Activate(ctx, ref, details, now)
		if err != nil {
			resErr = fmt.Errorf("failed to activate order %s: %w", ref, err)
			break
		}
		result = sub
		if sub != nil {
			userID = sub.UserID
		}
	case ActionDecline:
		order, err := h.orders.Decline(ctx, ref, details, now)
		if err != nil {
			resErr = fmt.Errorf("failed to decline order %s: %w", ref, err)
			break
		}
		result, userID = order, order.UserID
	case ActionRefund:
		order, err := h.orders.Refund(ctx, ref, details, now)
		if err != nil {
			resErr = fmt.Errorf("failed to refund order %s: %w", ref, err)
			break
		}
		result, userID = order, order.UserID
	default:
		log.Infow("payment notification ignored", "order_reference", ref, "transaction_status", txStatus)
	}

	if resErr != nil {
		log.Errorw("failed to handle payment notification", "order_reference", ref, "error", resErr)
		resp = h.signer.Respond(ref, wayforpay.ResponseDecline, now)
		return resp, resErr
	}
	log.Infow("payment notification handled", "order_reference", ref, "action", action.String(), "user_id", userID)
	resp = h.signer.Respond(ref, wayforpay.ResponseAccept, now)
	return resp, nil
}

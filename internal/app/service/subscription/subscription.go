package subscription

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/wayforpay"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/tool"
	"github.com/fatflowers/karma/pkg/types"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// OrderStore persists payment orders within the caller's transaction.
type OrderStore interface {
	Create(ctx context.Context, tx *gorm.DB, o *models.PaymentOrder) error
	GetByReference(ctx context.Context, tx *gorm.DB, ref string, forUpdate bool) (*models.PaymentOrder, error)
	Settle(ctx context.Context, tx *gorm.DB, o *models.PaymentOrder, status types.PaymentOrderStatus, details *models.PaymentOrderExtra, now time.Time) error
}

// PaymentForms signs hosted payment page forms.
type PaymentForms interface {
	PurchaseForm(o wayforpay.Order) (*wayforpay.PurchaseForm, error)
}

var ErrOrderRefunded = errors.New("payment order already refunded")

type SubscribeResult struct {
	OrderReference string                  `json:"order_reference"`
	Plan           types.Plan              `json:"plan"`
	Amount         int64                   `json:"amount"`
	Currency       string                  `json:"currency"`
	Form           *wayforpay.PurchaseForm `json:"form"`
}

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	cfg    *config.Config
	orders OrderStore
	forms  PaymentForms
	retry  tool.RetryPolicy
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, orders OrderStore, forms PaymentForms) *Service {
	return &Service{
		db:     db,
		log:    log,
		cfg:    cfg,
		orders: orders,
		forms:  forms,
		retry:  tool.RetryPolicy{Attempts: cfg.Database.RetryAttempts, Delay: cfg.Database.RetryDelay},
	}
}

// pickCurrent chooses the subscription that grants access at now: highest rank, then latest expiry.
func pickCurrent(rows []*models.Subscription, now time.Time) *models.Subscription {
	var best *models.Subscription
	for _, r := range rows {
		if !r.Valid(now) {
			continue
		}
		switch {
		case best == nil,
			r.Plan.Rank() > best.Plan.Rank(),
			r.Plan.Rank() == best.Plan.Rank() && r.ExpiresAt.After(best.ExpiresAt):
			best = r
		}
	}
	return best
}

// activationWindow returns the period of a new purchase of item. Buying the plan the user
// already holds extends it from the latest expiry of that plan.
func activationWindow(active []*models.Subscription, item *types.PlanItem, now time.Time) (start, end time.Time) {
	start = now
	for _, r := range active {
		if r.Plan == item.Plan && r.Valid(now) && r.ExpiresAt.After(start) {
			start = r.ExpiresAt
		}
	}
	return start, start.AddDate(0, 0, item.DurationDays)
}

func (s *Service) loadActive(ctx context.Context, tx *gorm.DB, userID string, now time.Time) ([]*models.Subscription, error) {
	var rows []*models.Subscription
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND status = ? AND expires_at > ?", userID, types.SubscriptionStatusActive, now).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("load active subscriptions: %w", err)
	}
	return rows, nil
}

// Current returns the subscription granting access at now, or nil. The read is retried.
func (s *Service) Current(ctx context.Context, userID string, now time.Time) (*models.Subscription, error) {
	rows, err := tool.RetryDB(ctx, s.retry, func() ([]*models.Subscription, error) {
		return s.loadActive(ctx, s.db, userID, now)
	})
	if err != nil {
		return nil, err
	}
	return pickCurrent(rows, now), nil
}

func (s *Service) CurrentPlan(ctx context.Context, userID string) (types.Plan, error) {
	cur, err := s.Current(ctx, userID, time.Now())
	if err != nil {
		return types.PlanNone, err
	}
	if cur == nil {
		return types.PlanNone, nil
	}
	return cur.Plan, nil
}

func (s *Service) Info(ctx context.Context, userID string, now time.Time) (*types.UserSubscriptionInfo, error) {
	cur, err := s.Current(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return toInfo(cur, now), nil
}

func toInfo(cur *models.Subscription, now time.Time) *types.UserSubscriptionInfo {
	if cur == nil {
		return &types.UserSubscriptionInfo{Plan: types.PlanNone, Status: "none"}
	}
	started, expires := cur.StartedAt, cur.ExpiresAt
	daysLeft := int(expires.Sub(now).Hours()/24 + 0.999)
	return &types.UserSubscriptionInfo{
		Plan:      cur.Plan,
		Status:    string(cur.Status),
		StartedAt: &started,
		ExpiresAt: &expires,
		DaysLeft:  daysLeft,
	}
}

func (s *Service) Plans() []*types.PlanItem {
	items := make([]*types.PlanItem, 0, len(s.cfg.Subscription.Plans))
	for _, it := range s.cfg.Subscription.Plans {
		if it.Plan.Purchasable() {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Plan.Rank() < items[j].Plan.Rank() })
	return items
}

func (s *Service) writeLog(ctx context.Context, tx *gorm.DB, before, after *models.Subscription, reason types.SubscriptionChangeReason, extra datatypes.JSONMap) error {
	ref := after
	if ref == nil {
		ref = before
	}
	if extra == nil {
		extra = datatypes.JSONMap{}
	}
	log := &models.SubscriptionLog{
		ID:             tool.GenerateUUIDV7(),
		UserID:         ref.UserID,
		SubscriptionID: ref.ID,
		Reason:         reason,
		Before:         datatypes.NewJSONType(before),
		After:          datatypes.NewJSONType(after),
		Extra:          extra,
	}
	if err := tx.WithContext(ctx).Create(log).Error; err != nil {
		return fmt.Errorf("failed to save subscription log: %w", err)
	}
	return nil
}

func (s *Service) setPlanLabel(ctx context.Context, tx *gorm.DB, userID string, plan types.Plan) error {
	if err := tx.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("subscription", plan).Error; err != nil {
		return fmt.Errorf("update plan label: %w", err)
	}
	return nil
}

// StartTrial grants the trial to users who never had a subscription. It returns nil when
// the user is not eligible. A non-nil tx makes the grant part of the caller's transaction.
func (s *Service) StartTrial(ctx context.Context, tx *gorm.DB, userID string, now time.Time) (*models.Subscription, error) {
	if tx == nil {
		tx = s.db
	}
	days := s.cfg.Subscription.TrialDays
	if days <= 0 {
		days = 7
	}
	var trial *models.Subscription
	err := tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Subscription{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("count subscriptions: %w", err)
		}
		if count > 0 {
			return nil
		}
		trial = &models.Subscription{
			ID:        tool.GenerateUUIDV7(),
			UserID:    userID,
			Plan:      types.PlanTrial,
			Status:    types.SubscriptionStatusActive,
			StartedAt: now,
			ExpiresAt: now.AddDate(0, 0, days),
		}
		if err := tx.Create(trial).Error; err != nil {
			return fmt.Errorf("create trial: %w", err)
		}
		if err := s.setPlanLabel(ctx, tx, userID, types.PlanTrial); err != nil {
			return err
		}
		return s.writeLog(ctx, tx, nil, trial, types.SubscriptionChangeReasonTrial, nil)
	})
	if err != nil {
		return nil, err
	}
	return trial, nil
}

// Subscribe creates a pending order for plan and returns the signed payment form.
func (s *Service) Subscribe(ctx context.Context, userID string, plan types.Plan, now time.Time) (*SubscribeResult, error) {
	if !plan.Purchasable() {
		return nil, types.InvalidInput("plan %q cannot be purchased", plan)
	}
	item := s.cfg.GetPlanItem(plan)
	if item == nil {
		return nil, types.InvalidInput("plan %q is not offered", plan)
	}
	order := &models.PaymentOrder{
		ID:             tool.GenerateUUIDV7(),
		OrderReference: tool.GenerateOrderReference(),
		UserID:         userID,
		ProviderID:     types.PaymentProviderWayForPay,
		Plan:           plan,
		Amount:         item.Price,
		Currency:       item.Currency,
		Status:         types.PaymentOrderStatusPending,
		Extra:          datatypes.NewJSONType(&models.PaymentOrderExtra{PlanSnapshot: item}),
	}
	title := item.Title
	if title == "" {
		title = string(item.Plan)
	}
	form, err := s.forms.PurchaseForm(wayforpay.Order{
		Reference:   order.OrderReference,
		Date:        now,
		Amount:      item.Price,
		Currency:    item.Currency,
		ProductName: "Karma Diary " + title,
	})
	if err != nil {
		if errors.Is(err, wayforpay.ErrNotConfigured) {
			return nil, fmt.Errorf("%w: payments are not configured", types.ErrUnavailable)
		}
		return nil, err
	}
	if err := s.orders.Create(ctx, nil, order); err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("payment order created", "order_reference", order.OrderReference, "plan", plan)
	return &SubscribeResult{
		OrderReference: order.OrderReference,
		Plan:           plan,
		Amount:         order.Amount,
		Currency:       order.Currency,
		Form:           form,
	}, nil
}

// Activate approves the order and grants its plan. Repeated calls for the same order are no-ops.
func (s *Service) Activate(ctx context.Context, ref string, details *models.PaymentOrderExtra, now time.Time) (*models.Subscription, error) {
	var granted *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orders.GetByReference(ctx, tx, ref, true)
		if err != nil {
			return err
		}
		switch order.Status {
		case types.PaymentOrderStatusApproved:
			var existing models.Subscription
			if err := tx.Where("order_reference = ?", ref).Limit(1).Find(&existing).Error; err != nil {
				return fmt.Errorf("load granted subscription: %w", err)
			}
			if existing.ID != "" {
				granted = &existing
			}
			return nil
		case types.PaymentOrderStatusRefunded:
			return fmt.Errorf("activate %s: %w", ref, ErrOrderRefunded)
		}

		item := order.GetPlanSnapshot()
		if item == nil {
			item = s.cfg.GetPlanItem(order.Plan)
		}
		if item == nil {
			return fmt.Errorf("plan %s of order %s not found", order.Plan, ref)
		}

		active, err := s.loadActive(ctx, tx, order.UserID, now)
		if err != nil {
			return err
		}
		start, end := activationWindow(active, item, now)
		for _, prev := range active {
			before := *prev
			prev.Status = types.SubscriptionStatusExpired
			prev.UpdatedAt = now
			if err := tx.Model(prev).Select("status", "updated_at").Updates(prev).Error; err != nil {
				return fmt.Errorf("expire replaced subscription: %w", err)
			}
			if err := s.writeLog(ctx, tx, &before, prev, types.SubscriptionChangeReasonReplaced, datatypes.JSONMap{"order_reference": ref}); err != nil {
				return err
			}
		}

		granted = &models.Subscription{
			ID:             tool.GenerateUUIDV7(),
			UserID:         order.UserID,
			Plan:           item.Plan,
			Status:         types.SubscriptionStatusActive,
			StartedAt:      start,
			ExpiresAt:      end,
			OrderReference: ref,
		}
		if err := tx.Create(granted).Error; err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
		if err := s.orders.Settle(ctx, tx, order, types.PaymentOrderStatusApproved, details, now); err != nil {
			return err
		}
		if err := s.setPlanLabel(ctx, tx, order.UserID, item.Plan); err != nil {
			return err
		}
		return s.writeLog(ctx, tx, nil, granted, types.SubscriptionChangeReasonPurchase, datatypes.JSONMap{"order_reference": ref})
	})
	if err != nil {
		return nil, err
	}
	if granted != nil {
		logctx.FromCtx(ctx, s.log).Infow("subscription activated",
			"user_id", granted.UserID, "plan", granted.Plan, "expires_at", granted.ExpiresAt, "order_reference", ref)
	}
	return granted, nil
}

// Decline marks a pending order declined. Settled orders are left as they are.
func (s *Service) Decline(ctx context.Context, ref string, details *models.PaymentOrderExtra, now time.Time) (*models.PaymentOrder, error) {
	var order *models.PaymentOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orders.GetByReference(ctx, tx, ref, true)
		if err != nil {
			return err
		}
		if order.Final() {
			return nil
		}
		return s.orders.Settle(ctx, tx, order, types.PaymentOrderStatusDeclined, details, now)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Refund cancels the subscription granted by the order and marks the order refunded.
func (s *Service) Refund(ctx context.Context, ref string, details *models.PaymentOrderExtra, now time.Time) (*models.PaymentOrder, error) {
	var order *models.PaymentOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		order, err = s.orders.GetByReference(ctx, tx, ref, true)
		if err != nil {
			return err
		}
		if order.Status == types.PaymentOrderStatusRefunded {
			return nil
		}
		var granted []*models.Subscription
		if err := tx.Where("order_reference = ? AND status = ?", ref, types.SubscriptionStatusActive).Find(&granted).Error; err != nil {
			return fmt.Errorf("load refunded subscription: %w", err)
		}
		for _, sub := range granted {
			before := *sub
			sub.Status = types.SubscriptionStatusCancelled
			sub.UpdatedAt = now
			if err := tx.Model(sub).Select("status", "updated_at").Updates(sub).Error; err != nil {
				return fmt.Errorf("cancel subscription: %w", err)
			}
			if err := s.writeLog(ctx, tx, &before, sub, types.SubscriptionChangeReasonRefund, datatypes.JSONMap{"order_reference": ref}); err != nil {
				return err
			}
		}
		if err := s.orders.Settle(ctx, tx, order, types.PaymentOrderStatusRefunded, details, now); err != nil {
			return err
		}
		remaining, err := s.loadActive(ctx, tx, order.UserID, now)
		if err != nil {
			return err
		}
		label := types.PlanNone
		if cur := pickCurrent(remaining, now); cur != nil {
			label = cur.Plan
		}
		return s.setPlanLabel(ctx, tx, order.UserID, label)
	})
	if err != nil {
		return nil, err
	}
	logctx.FromCtx(ctx, s.log).Infow("payment order refunded", "order_reference", ref, "user_id", order.UserID)
	return order, nil
}

func expireTrialsStmt(db *gorm.DB, now time.Time) *gorm.DB {
	return db.Model(&models.Subscription{}).
		Where("plan = ? AND status = ? AND expires_at < ?", types.PlanTrial, types.SubscriptionStatusActive, now).
		Updates(map[string]any{"status": types.SubscriptionStatusExpired, "updated_at": now})
}

// ExpireTrials flips lapsed trials to expired in one statement and returns how many changed.
func (s *Service) ExpireTrials(ctx context.Context, now time.Time) (int64, error) {
	res := expireTrialsStmt(s.db.WithContext(ctx), now)
	if res.Error != nil {
		return 0, fmt.Errorf("expire trials: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		logctx.FromCtx(ctx, s.log).Infow("trials expired", "count", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

package transaction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScanFields lists the payment order columns admin filters and sorting may reference.
var ScanFields = []string{"order_reference", "user_id", "plan", "status", "currency", "amount", "created_at", "paid_at"}

type ScanOrdersRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanOrdersResponse struct {
	Items []*models.PaymentOrder `json:"items"`
	Total int64                  `json:"total"`
}

// Manager is the payment order surface used by handlers.
type Manager interface {
	ScanOrders(ctx context.Context, req *ScanOrdersRequest) (*ScanOrdersResponse, error)
}

// Service stores payment orders. Methods taking a tx participate in the caller's transaction.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

func (s *Service) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		tx = s.db
	}
	return tx.WithContext(ctx)
}

func (s *Service) Create(ctx context.Context, tx *gorm.DB, o *models.PaymentOrder) error {
	if err := s.conn(ctx, tx).Create(o).Error; err != nil {
		return fmt.Errorf("create payment order: %w", err)
	}
	return nil
}

// GetByReference loads an order; forUpdate locks the row until tx ends.
func (s *Service) GetByReference(ctx context.Context, tx *gorm.DB, ref string, forUpdate bool) (*models.PaymentOrder, error) {
	q := s.conn(ctx, tx).Where("order_reference = ?", ref)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var o models.PaymentOrder
	if err := q.First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment order %s: %w", ref, types.ErrNotFound)
		}
		return nil, fmt.Errorf("get payment order: %w", err)
	}
	return &o, nil
}

// Settle moves o to status and merges provider details into its extra document.
func (s *Service) Settle(ctx context.Context, tx *gorm.DB, o *models.PaymentOrder, status types.PaymentOrderStatus, details *models.PaymentOrderExtra, now time.Time) error {
	extra := o.Extra.Data()
	if extra == nil {
		extra = &models.PaymentOrderExtra{}
	}
	if details != nil {
		if details.AuthCode != "" {
			extra.AuthCode = details.AuthCode
		}
		if details.CardPan != "" {
			extra.CardPan = details.CardPan
		}
		extra.ReasonCode = details.ReasonCode
		extra.Reason = details.Reason
	}
	o.Extra = datatypes.NewJSONType(extra)
	o.Status = status
	switch status {
	case types.PaymentOrderStatusApproved:
		o.PaidAt = &now
	case types.PaymentOrderStatusRefunded:
		o.RefundAt = &now
	}
	if err := s.conn(ctx, tx).Model(o).Select("status", "paid_at", "refund_at", "extra", "updated_at").Updates(o).Error; err != nil {
		return fmt.Errorf("settle payment order %s: %w", o.OrderReference, err)
	}
	return nil
}

// ScanOrders implements paginated/admin listing with filters
func (s *Service) ScanOrders(ctx context.Context, req *ScanOrdersRequest) (*ScanOrdersResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request: %w", types.ErrInvalidInput)
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.Size > 200 {
		req.Size = 200
	}
	if req.From < 0 {
		req.From = 0
	}
	for _, f := range req.Filters {
		if err := f.Validate(ScanFields); err != nil {
			return nil, types.InvalidInput("%s", err.Error())
		}
	}
	if req.SortBy != "" && !lo.Contains(ScanFields, req.SortBy) {
		return nil, types.InvalidInput("cannot sort by %s", req.SortBy)
	}

	tx := s.db.WithContext(ctx).Model(&models.PaymentOrder{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{types.Filters(req.Filters)}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payment orders: %w", err)
	}

	var rows []*models.PaymentOrder
	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	sortBy := req.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: sortBy}, Desc: req.SortOrder != "asc"}}})
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payment orders: %w", err)
	}
	return &ScanOrdersResponse{Items: rows, Total: total}, nil
}

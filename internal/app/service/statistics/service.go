package statistics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/samber/lo"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticType string

const (
	// Diary activity
	StatisticTypeDailyEntryCount  StatisticType = "daily_entry_count"
	StatisticTypeDailyActiveUsers StatisticType = "daily_active_users"
	StatisticTypeDailyNewUsers    StatisticType = "daily_new_users"

	// Subscriptions
	StatisticTypeDailyNewSubscriptions     StatisticType = "daily_new_subscriptions"
	StatisticTypeActiveSubscriptionsByPlan StatisticType = "active_subscriptions_by_plan"

	// AI spend
	StatisticTypeDailyAICost StatisticType = "daily_ai_cost"
)

var AllTypes = []StatisticType{
	StatisticTypeDailyEntryCount,
	StatisticTypeDailyActiveUsers,
	StatisticTypeDailyNewUsers,
	StatisticTypeDailyNewSubscriptions,
	StatisticTypeActiveSubscriptionsByPlan,
	StatisticTypeDailyAICost,
}

// validFilters lists the statistics each filter column applies to. An item that does not
// support one of the request's filters is returned empty.
var validFilters = map[string][]StatisticType{
	"created_at":   {StatisticTypeDailyEntryCount, StatisticTypeDailyActiveUsers, StatisticTypeDailyNewUsers, StatisticTypeDailyNewSubscriptions, StatisticTypeDailyAICost},
	"principle_id": {StatisticTypeDailyEntryCount, StatisticTypeDailyActiveUsers},
	"source":       {StatisticTypeDailyEntryCount, StatisticTypeDailyActiveUsers},
	"category":     {StatisticTypeDailyEntryCount},
	"plan":         {StatisticTypeDailyNewSubscriptions, StatisticTypeActiveSubscriptionsByPlan},
	"model":        {StatisticTypeDailyAICost},
	"kind":         {StatisticTypeDailyAICost},
}

var filterFields = lo.Keys(validFilters)

type DataItem struct {
	ID StatisticType `json:"id"`
}

type Request struct {
	Filters   []*types.CommonFilter `json:"filters"`
	DataItems []*DataItem           `json:"data_items"`
}

func (r *Request) Validate() error {
	if len(r.DataItems) == 0 {
		return types.InvalidInput("data_items is empty")
	}
	for _, di := range r.DataItems {
		if di == nil || !lo.Contains(AllTypes, di.ID) {
			return types.InvalidInput("invalid data item id")
		}
	}
	for _, f := range r.Filters {
		if err := f.Validate(filterFields); err != nil {
			return types.InvalidInput("%s", err.Error())
		}
	}
	return nil
}

// Applies reports whether every filter of the request is supported by t.
func (r *Request) Applies(t StatisticType) bool {
	for _, f := range r.Filters {
		if !lo.Contains(validFilters[f.Field], t) {
			return false
		}
	}
	return true
}

func (r *Request) where() clause.Where {
	return clause.Where{Exprs: []clause.Expression{types.Filters(r.Filters)}}
}

type ResponseDataItem struct {
	Date  string  `json:"date,omitempty"`
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
}

type Response struct {
	DataItems map[StatisticType][]ResponseDataItem `json:"data_items"`
}

// Service computes admin statistics with SQL aggregates. Days are bucketed in the reminder timezone.
type Service struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

func New(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{db: db, loc: cfg.Location(), now: time.Now}
}

func (s *Service) dateExpr() clause.Expr {
	return gorm.Expr("TO_CHAR(created_at AT TIME ZONE ?, 'YYYY-MM-DD')", s.loc.String())
}

func (s *Service) daily(db *gorm.DB, table string, value string, request *Request, label string) *gorm.DB {
	sel := "? AS date, " + value + " AS value"
	if label != "" {
		sel += ", " + label + " AS label"
	}
	q := db.Table(table).
		Select(sel, s.dateExpr()).
		Where(request.where()).
		Group("date")
	if label != "" {
		q = q.Group("label")
	}
	return q.Order("date DESC")
}

func (s *Service) query(db *gorm.DB, request *Request, t StatisticType) (*gorm.DB, error) {
	switch t {
	case StatisticTypeDailyEntryCount:
		return s.daily(db, models.JournalEntry{}.TableName(), "COUNT(*)", request, ""), nil
	case StatisticTypeDailyActiveUsers:
		return s.daily(db, models.JournalEntry{}.TableName(), "COUNT(DISTINCT user_id)", request, ""), nil
	case StatisticTypeDailyNewUsers:
		return s.daily(db, models.User{}.TableName(), "COUNT(*)", request, ""), nil
	case StatisticTypeDailyNewSubscriptions:
		return s.daily(db, models.Subscription{}.TableName(), "COUNT(*)", request, "plan"), nil
	case StatisticTypeDailyAICost:
		return s.daily(db, models.AIRequest{}.TableName(), "COALESCE(SUM(cost), 0)", request, "model"), nil
	case StatisticTypeActiveSubscriptionsByPlan:
		return db.Table(models.Subscription{}.TableName()).
			Select("plan AS label, COUNT(DISTINCT user_id) AS value").
			Where("status = ? AND expires_at > ?", types.SubscriptionStatusActive, s.now()).
			Where(request.where()).
			Group("plan").
			Order("plan"), nil
	default:
		return nil, fmt.Errorf("invalid data item id: %s", t)
	}
}

func (s *Service) getStatistic(ctx context.Context, request *Request, t StatisticType) ([]ResponseDataItem, error) {
	q, err := s.query(s.db.WithContext(ctx), request, t)
	if err != nil {
		return nil, err
	}
	results := []ResponseDataItem{}
	if err := q.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("statistic %s: %w", t, err)
	}
	return results, nil
}

// GetStatistics computes every requested item concurrently and fails on the first error.
func (s *Service) GetStatistics(ctx context.Context, request *Request) (*Response, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		results  = make(map[StatisticType][]ResponseDataItem, len(request.DataItems))
	)
	for _, item := range request.DataItems {
		if !request.Applies(item.ID) {
			results[item.ID] = nil
			continue
		}
		wg.Add(1)
		go func(t StatisticType) {
			defer wg.Done()
			res, err := s.getStatistic(ctx, request, t)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			results[t] = res
		}(item.ID)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return &Response{DataItems: results}, nil
}

var Module = fx.Options(fx.Provide(New))

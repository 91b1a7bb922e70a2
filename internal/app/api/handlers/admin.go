package handlers

import (
	"context"
	"time"

	"github.com/fatflowers/karma/internal/app/service/budget"
	"github.com/fatflowers/karma/internal/app/service/reminder"
	"github.com/fatflowers/karma/internal/app/service/statistics"
	"github.com/fatflowers/karma/internal/app/service/transaction"

	"github.com/gin-gonic/gin"
)

type BudgetReporter interface {
	CheckMonthlyBudget(ctx context.Context, now time.Time) (*budget.Status, error)
}

type StatisticsReporter interface {
	GetStatistics(ctx context.Context, request *statistics.Request) (*statistics.Response, error)
}

type ReminderRunner interface {
	RunOnce(ctx context.Context, kind reminder.Kind, now time.Time) (*reminder.BatchResult, error)
}

type TrialSweeper interface {
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

type ExpireTrialsResponse struct {
	Expired int64 `json:"expired"`
}

// @Summary      AI budget (Admin)
// @Description  Month-to-date AI spend against the configured limit.
// @Tags         Admin
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Success      200  {object}  handlers.RespBudget
// @Router       /api/admin/ai/budget [get]
func ApiBudgetStatus(b BudgetReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := b.CheckMonthlyBudget(c.Request.Context(), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, st)
	}
}

// @Summary      Statistics (Admin)
// @Description  Daily aggregates for the requested data items.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Param        request body statistics.Request true "Statistic request parameters"
// @Success      200  {object}  handlers.RespStatistics
// @Router       /api/admin/statistics [post]
func ApiGetStatistics(svc StatisticsReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statistics.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svc.GetStatistics(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, res)
	}
}

// @Summary      Run reminder batch (Admin)
// @Description  Sends one reminder batch now, outside the cron schedule.
// @Tags         Admin
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Param        kind path string true "morning | afternoon | evening | morning_antidote | evening_antidote | custom"
// @Success      200  {object}  handlers.RespBatch
// @Router       /api/admin/reminders/{kind}/run [post]
func ApiRunReminders(r ReminderRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		kind, err := reminder.ParseKind(c.Param("kind"))
		if err != nil {
			respondError(c, err)
			return
		}
		res, err := r.RunOnce(c.Request.Context(), kind, time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, res)
	}
}

// @Summary      Expire trials (Admin)
// @Tags         Admin
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Success      200  {object}  handlers.RespExpireTrials
// @Router       /api/admin/subscriptions/expire-trials [post]
func ApiExpireTrials(s TrialSweeper) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := s.ExpireTrials(c.Request.Context(), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, &ExpireTrialsResponse{Expired: n})
	}
}

// @Summary      List payment orders (Admin)
// @Description  Paginated and filterable list of payment orders.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        X-Admin-Token header string true "Admin token"
// @Param        request body transaction.ScanOrdersRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespOrders
// @Router       /api/admin/orders [post]
func ApiListOrders(mgr transaction.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req transaction.ScanOrdersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := mgr.ScanOrders(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, res)
	}
}

type AdminDeps struct {
	Budget     BudgetReporter
	Statistics StatisticsReporter
	Reminders  ReminderRunner
	Trials     TrialSweeper
	Orders     transaction.Manager
}

func RegisterAdminRoutes(r gin.IRouter, d AdminDeps) {
	r.GET("/ai/budget", ApiBudgetStatus(d.Budget))
	r.POST("/statistics", ApiGetStatistics(d.Statistics))
	r.POST("/reminders/:kind/run", ApiRunReminders(d.Reminders))
	r.POST("/subscriptions/expire-trials", ApiExpireTrials(d.Trials))
	r.POST("/orders", ApiListOrders(d.Orders))
}

package handlers

import (
	"context"
	"time"

	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	subsvc "github.com/fatflowers/karma/internal/app/service/subscription"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
)

type Subscriptions interface {
	Plans() []*types.PlanItem
	Info(ctx context.Context, userID string, now time.Time) (*types.UserSubscriptionInfo, error)
	Subscribe(ctx context.Context, userID string, plan types.Plan, now time.Time) (*subsvc.SubscribeResult, error)
}

type SubscribeRequest struct {
	Plan types.Plan `json:"plan" binding:"required"`
}

// @Summary      Plan catalogue
// @Tags         Subscriptions
// @Produce      json
// @Success      200  {object}  handlers.RespPlans
// @Router       /api/subscriptions/plans [get]
func ApiListPlans(s Subscriptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok(c, s.Plans())
	}
}

// @Summary      Current subscription
// @Tags         Subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespSubscriptionInfo
// @Router       /api/subscriptions/current [get]
func ApiCurrentSubscription(s Subscriptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := s.Info(c.Request.Context(), mw.UserID(c), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, info)
	}
}

// @Summary      Subscribe
// @Description  Creates a pending payment order and returns the signed WayForPay purchase form.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.SubscribeRequest true "Plan to buy"
// @Success      200  {object}  handlers.RespSubscribe
// @Router       /api/subscriptions/subscribe [post]
func ApiSubscribe(s Subscriptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SubscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := s.Subscribe(c.Request.Context(), mw.UserID(c), req.Plan, time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, res)
	}
}

// RegisterSubscriptionRoutes mounts the catalogue publicly and the rest behind authed.
func RegisterSubscriptionRoutes(public, authed gin.IRouter, s Subscriptions) {
	public.GET("/plans", ApiListPlans(s))
	authed.GET("/current", ApiCurrentSubscription(s))
	authed.POST("/subscribe", ApiSubscribe(s))
}

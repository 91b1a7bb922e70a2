package handlers

import (
	"context"
	"time"

	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
)

type UserService interface {
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateSettings(ctx context.Context, id string, patch user.SettingsPatch) (*models.User, error)
	CompleteOnboarding(ctx context.Context, id string, now time.Time) (*models.User, *models.Subscription, error)
}

type SubscriptionInfo interface {
	Info(ctx context.Context, userID string, now time.Time) (*types.UserSubscriptionInfo, error)
}

type StatsReader interface {
	Get(ctx context.Context, userID string, now time.Time, loc *time.Location) (*models.UserStats, error)
}

type MeResponse struct {
	User         *models.User                `json:"user"`
	Subscription *types.UserSubscriptionInfo `json:"subscription"`
}

type OnboardingResponse struct {
	User  *models.User         `json:"user"`
	Trial *models.Subscription `json:"trial,omitempty"`
}

// @Summary      Current user
// @Description  Returns the profile and the active subscription.
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespMe
// @Router       /api/user/me [get]
func ApiMe(users UserService, subs SubscriptionInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		u, err := users.Get(ctx, mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		info, err := subs.Info(ctx, u.ID, time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, &MeResponse{User: u, Subscription: info})
	}
}

// @Summary      Update settings
// @Description  Partially updates reminder and profile preferences.
// @Tags         User
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body user.SettingsPatch true "Fields to change"
// @Success      200  {object}  handlers.RespUser
// @Router       /api/user/settings [patch]
func ApiUpdateSettings(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch user.SettingsPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, err.Error())
			return
		}
		u, err := users.UpdateSettings(c.Request.Context(), mw.UserID(c), patch)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, u)
	}
}

// @Summary      Complete onboarding
// @Description  Marks onboarding done and starts the one-time trial.
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespOnboarding
// @Router       /api/user/onboarding [post]
func ApiCompleteOnboarding(users UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, trial, err := users.CompleteOnboarding(c.Request.Context(), mw.UserID(c), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, &OnboardingResponse{User: u, Trial: trial})
	}
}

// @Summary      User stats
// @Description  Returns streaks, totals and averages recomputed from the journal.
// @Tags         User
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespStats
// @Router       /api/user/stats [get]
func ApiUserStats(users UserService, stats StatsReader, fallback *time.Location) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		u, err := users.Get(ctx, mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		st, err := stats.Get(ctx, u.ID, time.Now(), u.Location(fallback))
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, st)
	}
}

func RegisterUserRoutes(r gin.IRouter, users UserService, subs SubscriptionInfo, stats StatsReader, fallback *time.Location) {
	r.GET("/me", ApiMe(users, subs))
	r.PATCH("/settings", ApiUpdateSettings(users))
	r.POST("/onboarding", ApiCompleteOnboarding(users))
	r.GET("/stats", ApiUserStats(users, stats, fallback))
}

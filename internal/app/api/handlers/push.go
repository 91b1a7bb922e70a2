package handlers

import (
	"context"
	"fmt"

	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
)

type PushSubscriptions interface {
	Subscribe(ctx context.Context, userID string, in notify.SubscribeInput) (*models.PushSubscription, error)
	Unsubscribe(ctx context.Context, userID, endpoint string) error
}

type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// @Summary      VAPID public key
// @Description  Application server key for PushManager.subscribe.
// @Tags         Push
// @Produce      json
// @Success      200  {object}  handlers.RespVAPIDKey
// @Router       /api/push/vapid-public-key [get]
func ApiVAPIDPublicKey(publicKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if publicKey == "" {
			respondError(c, fmt.Errorf("%w: web push is not configured", types.ErrUnavailable))
			return
		}
		ok(c, map[string]string{"public_key": publicKey})
	}
}

// @Summary      Register push subscription
// @Tags         Push
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body notify.SubscribeInput true "PushSubscription JSON"
// @Success      200  {object}  handlers.RespPushSubscription
// @Router       /api/push/subscriptions [post]
func ApiPushSubscribe(store PushSubscriptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in notify.SubscribeInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		in.UserAgent = c.Request.UserAgent()
		sub, err := store.Subscribe(c.Request.Context(), mw.UserID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, sub)
	}
}

// @Summary      Remove push subscription
// @Tags         Push
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.UnsubscribeRequest true "Endpoint to remove"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/push/subscriptions [delete]
func ApiPushUnsubscribe(store PushSubscriptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UnsubscribeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := store.Unsubscribe(c.Request.Context(), mw.UserID(c), req.Endpoint); err != nil {
			respondError(c, err)
			return
		}
		ok[any](c, nil)
	}
}

func RegisterPushRoutes(public, authed gin.IRouter, publicKey string, store PushSubscriptions) {
	public.GET("/vapid-public-key", ApiVAPIDPublicKey(publicKey))
	authed.POST("/subscriptions", ApiPushSubscribe(store))
	authed.DELETE("/subscriptions", ApiPushUnsubscribe(store))
}

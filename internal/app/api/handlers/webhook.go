package handlers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/fatflowers/karma/internal/platform/wayforpay"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	maxWebhookBody       = 1 << 20
	TelegramSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

type PaymentNotifications interface {
	HandleNotification(ctx context.Context, body []byte, now time.Time) (*wayforpay.Response, error)
}

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, upd tgbotapi.Update)
}

// @Summary      WayForPay webhook
// @Description  Service URL callback. Replies with the signed accept/decline acknowledgement.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        payload body wayforpay.Notification true "WayForPay notification"
// @Success      200  {object}  wayforpay.Response
// @Router       /api/webhooks/wayforpay [post]
func ApiWayForPayWebhook(h PaymentNotifications) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
		if err != nil {
			badRequest(c, "failed to read body")
			return
		}
		resp, err := h.HandleNotification(c.Request.Context(), body, time.Now())
		if resp == nil {
			respondError(c, err)
			return
		}
		if err != nil {
			requestLog(c).Warnw("webhook_wayforpay_declined", "order_reference", resp.OrderReference, "error", err)
		}
		// The provider reads the bare acknowledgement, not the envelope.
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary      Telegram webhook
// @Description  Receives bot updates when the bot runs in webhook mode.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        update body object true "Telegram update"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/telegram/webhook [post]
func ApiTelegramWebhook(bot UpdateHandler, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(TelegramSecretHeader)), []byte(secret)) != 1 {
			respondError(c, types.ErrUnauthorized)
			return
		}
		var upd tgbotapi.Update
		if err := json.NewDecoder(io.LimitReader(c.Request.Body, maxWebhookBody)).Decode(&upd); err != nil {
			badRequest(c, "invalid update")
			return
		}
		bot.HandleUpdate(c.Request.Context(), upd)
		ok[any](c, nil)
	}
}

func RegisterWebhookRoutes(r gin.IRouter, payments PaymentNotifications) {
	r.POST("/wayforpay", ApiWayForPayWebhook(payments))
}

func RegisterTelegramRoutes(r gin.IRouter, bot UpdateHandler, secret string) {
	r.POST("/webhook", ApiTelegramWebhook(bot, secret))
}

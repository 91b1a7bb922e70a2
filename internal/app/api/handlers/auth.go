package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/telegram"
	"github.com/fatflowers/karma/pkg/auth"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
)

type LoginUsers interface {
	FindOrCreateByTelegram(ctx context.Context, id user.TelegramIdentity) (*models.User, bool, error)
}

type TokenIssuer interface {
	Issue(userID string, now time.Time) (string, time.Time, error)
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	IsNew     bool         `json:"is_new"`
	User      *models.User `json:"user"`
}

// @Summary      Telegram login
// @Description  Verifies a Telegram Login Widget payload and issues a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body telegram.LoginData true "Login Widget payload"
// @Success      200  {object}  handlers.RespLogin
// @Router       /api/auth/telegram [post]
func ApiTelegramLogin(users LoginUsers, tokens TokenIssuer, botToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req telegram.LoginData
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		now := time.Now()
		if err := telegram.VerifyLogin(botToken, &req, now); err != nil {
			if errors.Is(err, telegram.ErrLoginHashMismatch) || errors.Is(err, telegram.ErrLoginExpired) {
				respondError(c, fmt.Errorf("%w: %s", types.ErrUnauthorized, err.Error()))
				return
			}
			respondError(c, fmt.Errorf("%w: %s", types.ErrUnavailable, err.Error()))
			return
		}
		u, created, err := users.FindOrCreateByTelegram(c.Request.Context(), user.TelegramIdentity{
			TelegramID: req.ID,
			Username:   req.Username,
			FirstName:  req.FirstName,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		token, exp, err := tokens.Issue(u.ID, now)
		if err != nil {
			if errors.Is(err, auth.ErrDisabled) {
				err = fmt.Errorf("%w: login is disabled", types.ErrUnavailable)
			}
			respondError(c, err)
			return
		}
		ok(c, &LoginResponse{Token: token, ExpiresAt: exp, IsNew: created, User: u})
	}
}

func RegisterAuthRoutes(r gin.IRouter, users LoginUsers, tokens TokenIssuer, botToken string) {
	r.POST("/telegram", ApiTelegramLogin(users, tokens, botToken))
}

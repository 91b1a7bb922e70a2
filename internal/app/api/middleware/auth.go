package middleware

import (
	"strings"
	"time"

	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenParser resolves a bearer token into a user ID.
type TokenParser interface {
	Parse(token string, now time.Time) (string, error)
}

// UserID returns the authenticated user set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(logctx.UserIDKey)
}

// Auth requires a valid bearer JWT and stores the user ID on the request.
func Auth(tokens TokenParser, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(response.APIResponseCodeUnauthorized.HTTPStatus(), response.ErrorMsg(response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}
		userID, err := tokens.Parse(strings.TrimSpace(token), time.Now())
		if err != nil {
			logctx.FromGin(c, base).Debugw("rejected bearer token", "error", err)
			c.AbortWithStatusJSON(response.APIResponseCodeUnauthorized.HTTPStatus(), response.ErrorMsg(response.APIResponseCodeUnauthorized, "invalid or expired token"))
			return
		}

		c.Set(logctx.UserIDKey, userID)
		ctx := logctx.WithUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		setLogger(c, logctx.FromGin(c, base).With("user_id", userID))
		c.Next()
	}
}

package middleware

import (
	"crypto/subtle"

	"github.com/fatflowers/karma/pkg/response"

	"github.com/gin-gonic/gin"
)

const AdminTokenHeader = "X-Admin-Token"

// AdminToken allows requests carrying the configured admin token. An empty token disables admin routes.
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := c.GetHeader(AdminTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(response.APIResponseCodeForbidden.HTTPStatus(), response.ErrorMsg(response.APIResponseCodeForbidden, "admin token required"))
			return
		}
		c.Next()
	}
}

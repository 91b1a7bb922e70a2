package middleware

import (
	"context"

	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/response"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PlanResolver interface {
	CurrentPlan(ctx context.Context, userID string) (types.Plan, error)
}

// RequirePlan lets the request through when the user's current plan satisfies required.
// It must run after Auth.
func RequirePlan(plans PlanResolver, required types.Plan, base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, err := plans.CurrentPlan(c.Request.Context(), UserID(c))
		if err != nil {
			logctx.FromGin(c, base).Errorw("failed to resolve plan", "error", err)
			c.AbortWithStatusJSON(response.APIResponseCodeError.HTTPStatus(), response.ErrorMsg(response.APIResponseCodeError, "internal error"))
			return
		}
		if !current.Satisfies(required) {
			c.AbortWithStatusJSON(response.APIResponseCodePaymentRequired.HTTPStatus(),
				response.ErrorT(response.APIResponseCodePaymentRequired, &types.PlanRequiredError{Required: required, Current: current}))
			return
		}
		c.Next()
	}
}

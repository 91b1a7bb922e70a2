package handlers

import (
	"context"
	"time"

	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	"github.com/fatflowers/karma/internal/app/service/ai"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Assistant interface {
	Insight(ctx context.Context, userID string, now time.Time) (*ai.Result, error)
	Advice(ctx context.Context, userID, message string, now time.Time) (*ai.Result, error)
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// @Summary      AI insight
// @Description  Summarises recent entries. Requires plus or higher.
// @Tags         AI
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespAIResult
// @Failure      402  {object}  handlers.RespPlanRequired
// @Failure      429  {object}  handlers.RespOK
// @Router       /api/ai/insight [post]
func ApiInsight(a Assistant) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := a.Insight(c.Request.Context(), mw.UserID(c), time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, res)
	}
}

// @Summary      AI chat
// @Description  Answers a question about the current principle. Requires pro.
// @Tags         AI
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handlers.ChatRequest true "Message"
// @Success      200  {object}  handlers.RespAIResult
// @Failure      402  {object}  handlers.RespPlanRequired
// @Failure      429  {object}  handlers.RespOK
// @Router       /api/ai/chat [post]
func ApiChat(a Assistant) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := a.Advice(c.Request.Context(), mw.UserID(c), req.Message, time.Now())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, res)
	}
}

func RegisterAIRoutes(r gin.IRouter, a Assistant, plans mw.PlanResolver, log *zap.SugaredLogger) {
	r.POST("/insight", mw.RequirePlan(plans, types.PlanPlus, log), ApiInsight(a))
	r.POST("/chat", mw.RequirePlan(plans, types.PlanPro, log), ApiChat(a))
}

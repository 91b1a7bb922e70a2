package handlers

import (
	"context"

	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	"github.com/fatflowers/karma/internal/models"

	"github.com/gin-gonic/gin"
)

type AchievementLister interface {
	List(ctx context.Context, userID string) ([]*models.Achievement, error)
}

// @Summary      List achievements
// @Tags         Achievements
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespAchievements
// @Router       /api/achievements [get]
func ApiListAchievements(a AchievementLister) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := a.List(c.Request.Context(), mw.UserID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, items)
	}
}

func RegisterAchievementRoutes(r gin.IRouter, a AchievementLister) {
	r.GET("", ApiListAchievements(a))
}

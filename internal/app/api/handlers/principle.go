package handlers

import (
	"context"
	"strconv"

	"github.com/fatflowers/karma/internal/models"

	"github.com/gin-gonic/gin"
)

type PrincipleCatalogue interface {
	List(ctx context.Context) ([]*models.Principle, error)
	Get(ctx context.Context, number int) (*models.Principle, error)
}

// @Summary      List principles
// @Tags         Principles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  handlers.RespPrinciples
// @Router       /api/principles [get]
func ApiListPrinciples(p PrincipleCatalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := p.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, items)
	}
}

// @Summary      Get principle
// @Tags         Principles
// @Produce      json
// @Security     BearerAuth
// @Param        number path int true "Principle number (1-12)"
// @Success      200  {object}  handlers.RespPrinciple
// @Router       /api/principles/{number} [get]
func ApiGetPrinciple(p PrincipleCatalogue) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("number"))
		if err != nil {
			badRequest(c, "principle number must be an integer")
			return
		}
		item, err := p.Get(c.Request.Context(), n)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, item)
	}
}

func RegisterPrincipleRoutes(r gin.IRouter, p PrincipleCatalogue) {
	r.GET("", ApiListPrinciples(p))
	r.GET("/:number", ApiGetPrinciple(p))
}

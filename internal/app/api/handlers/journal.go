package handlers

import (
	"context"
	"net/http"

	mw "github.com/fatflowers/karma/internal/app/api/middleware"
	"github.com/fatflowers/karma/internal/app/service/journal"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/response"
	"github.com/fatflowers/karma/pkg/tool"
	"github.com/fatflowers/karma/pkg/types"

	"github.com/gin-gonic/gin"
)

type Journal interface {
	Create(ctx context.Context, userID string, in journal.CreateEntryInput) (*journal.CreateResult, error)
	List(ctx context.Context, userID string, q journal.ListEntriesQuery) (*journal.ListResult, error)
	Get(ctx context.Context, userID, id string) (*models.JournalEntry, error)
	Update(ctx context.Context, userID, id string, in journal.UpdateEntryInput) (*models.JournalEntry, error)
	Delete(ctx context.Context, userID, id string) error
}

// entryID rejects malformed ids before they reach the uuid column.
func entryID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !tool.IsUUID(id) {
		respondError(c, types.InvalidInput("invalid entry id"))
		return "", false
	}
	return id, true
}

// @Summary      List journal entries
// @Description  Newest first; filter by principle and a YYYY-MM-DD date range.
// @Tags         Journal
// @Produce      json
// @Security     BearerAuth
// @Param        limit        query int    false "Page size (max 100)"
// @Param        offset       query int    false "Offset"
// @Param        principle_id query int    false "Principle number"
// @Param        from         query string false "From date (YYYY-MM-DD)"
// @Param        to           query string false "To date (YYYY-MM-DD)"
// @Success      200  {object}  handlers.RespEntryList
// @Router       /api/journal/entries [get]
func ApiListEntries(j Journal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var q journal.ListEntriesQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := j.List(c.Request.Context(), mw.UserID(c), q)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, res)
	}
}

// @Summary      Create journal entry
// @Description  Stores an entry, recomputes stats and unlocks achievements.
// @Tags         Journal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body journal.CreateEntryInput true "Entry"
// @Success      201  {object}  handlers.RespCreateEntry
// @Router       /api/journal/entries [post]
func ApiCreateEntry(j Journal) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in journal.CreateEntryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		in.Source = types.EntrySourceWeb
		res, err := j.Create(c.Request.Context(), mw.UserID(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, response.OKT(res))
	}
}

// @Summary      Get journal entry
// @Tags         Journal
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Entry ID"
// @Success      200  {object}  handlers.RespEntry
// @Router       /api/journal/entries/{id} [get]
func ApiGetEntry(j Journal) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := entryID(c)
		if !valid {
			return
		}
		e, err := j.Get(c.Request.Context(), mw.UserID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, e)
	}
}

// @Summary      Update journal entry
// @Tags         Journal
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path string                   true "Entry ID"
// @Param        request body journal.UpdateEntryInput true "Fields to change"
// @Success      200  {object}  handlers.RespEntry
// @Router       /api/journal/entries/{id} [patch]
func ApiUpdateEntry(j Journal) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := entryID(c)
		if !valid {
			return
		}
		var in journal.UpdateEntryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		e, err := j.Update(c.Request.Context(), mw.UserID(c), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		ok(c, e)
	}
}

// @Summary      Delete journal entry
// @Tags         Journal
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Entry ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/journal/entries/{id} [delete]
func ApiDeleteEntry(j Journal) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, valid := entryID(c)
		if !valid {
			return
		}
		if err := j.Delete(c.Request.Context(), mw.UserID(c), id); err != nil {
			respondError(c, err)
			return
		}
		ok[any](c, nil)
	}
}

func RegisterJournalRoutes(r gin.IRouter, j Journal) {
	r.GET("/entries", ApiListEntries(j))
	r.POST("/entries", ApiCreateEntry(j))
	r.GET("/entries/:id", ApiGetEntry(j))
	r.PATCH("/entries/:id", ApiUpdateEntry(j))
	r.DELETE("/entries/:id", ApiDeleteEntry(j))
}

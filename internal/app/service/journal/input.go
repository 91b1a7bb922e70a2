package journal

import (
	"strings"
	"time"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/types"
	"github.com/fatflowers/karma/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	MaxContentLength = 10000
)

type CreateEntryInput struct {
	PrincipleID *int                `json:"principle_id,omitempty" validate:"omitempty,principle"`
	Content     string              `json:"content" validate:"max=10000"`
	Mood        *int                `json:"mood,omitempty" validate:"omitempty,min=1,max=10"`
	Energy      *int                `json:"energy,omitempty" validate:"omitempty,min=1,max=10"`
	IsCompleted bool                `json:"is_completed"`
	IsSkipped   bool                `json:"is_skipped"`
	Category    types.EntryCategory `json:"category,omitempty" validate:"omitempty,enum"`
	Source      types.EntrySource   `json:"-"`
}

// UpdateEntryInput is a PATCH body; nil fields are left unchanged.
type UpdateEntryInput struct {
	Content     *string              `json:"content,omitempty"`
	Mood        *int                 `json:"mood,omitempty"`
	Energy      *int                 `json:"energy,omitempty"`
	IsCompleted *bool                `json:"is_completed,omitempty"`
	IsSkipped   *bool                `json:"is_skipped,omitempty"`
	Category    *types.EntryCategory `json:"category,omitempty"`
}

type ListEntriesQuery struct {
	Limit       int        `form:"limit"`
	Offset      int        `form:"offset"`
	PrincipleID *int       `form:"principle_id" validate:"omitempty,principle"`
	From        *time.Time `form:"from" time_format:"2006-01-02"`
	To          *time.Time `form:"to" time_format:"2006-01-02"`
}

var validate = newValidator()

func newValidator() *validation.Validator {
	v := validation.New()
	v.RegisterStructValidation(contentRequired, CreateEntryInput{})
	return v
}

// contentRequired allows an empty body only on skipped or completed entries.
func contentRequired(sl validator.StructLevel) {
	in := sl.Current().Interface().(CreateEntryInput)
	if strings.TrimSpace(in.Content) == "" && !in.IsSkipped && !in.IsCompleted {
		sl.ReportError(in.Content, "content", "Content", "required", "")
	}
}

// newEntry validates in and builds the row; the principle defaults to the user's current one.
func newEntry(id, userID string, currentPrinciple int, in CreateEntryInput) (*models.JournalEntry, error) {
	p := currentPrinciple
	if in.PrincipleID != nil {
		p = *in.PrincipleID
	}
	in.PrincipleID = &p
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	category := in.Category
	if category == "" {
		category = types.EntryCategoryReflection
	}
	source := in.Source
	if source == "" {
		source = types.EntrySourceWeb
	}
	return &models.JournalEntry{
		ID:          id,
		UserID:      userID,
		PrincipleID: p,
		Content:     strings.TrimSpace(in.Content),
		Mood:        in.Mood,
		Energy:      in.Energy,
		IsCompleted: in.IsCompleted,
		IsSkipped:   in.IsSkipped,
		Category:    category,
		Source:      source,
	}, nil
}

// apply validates in against e and writes it, returning the changed columns.
// e is untouched on error.
func (in UpdateEntryInput) apply(e *models.JournalEntry) ([]string, error) {
	next := *e
	var changed []string
	if in.Content != nil {
		next.Content = strings.TrimSpace(*in.Content)
		changed = append(changed, "content")
	}
	if in.Mood != nil {
		next.Mood = in.Mood
		changed = append(changed, "mood")
	}
	if in.Energy != nil {
		next.Energy = in.Energy
		changed = append(changed, "energy")
	}
	if in.IsCompleted != nil {
		next.IsCompleted = *in.IsCompleted
		changed = append(changed, "is_completed")
	}
	if in.IsSkipped != nil {
		next.IsSkipped = *in.IsSkipped
		changed = append(changed, "is_skipped")
	}
	if in.Category != nil {
		next.Category = *in.Category
		changed = append(changed, "category")
	}
	if err := validate.Struct(CreateEntryInput{
		PrincipleID: &next.PrincipleID,
		Content:     next.Content,
		Mood:        next.Mood,
		Energy:      next.Energy,
		IsCompleted: next.IsCompleted,
		IsSkipped:   next.IsSkipped,
		Category:    next.Category,
	}); err != nil {
		return nil, err
	}
	*e = next
	return changed, nil
}

func (q ListEntriesQuery) normalize() (ListEntriesQuery, error) {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultListLimit
	case q.Limit > MaxListLimit:
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return q, types.InvalidInput("to is before from")
	}
	return q, nil
}

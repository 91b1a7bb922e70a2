package types

import (
	"errors"
	"fmt"
)

// Sentinels shared by services; handlers map them to HTTP statuses.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrPlanRequired     = errors.New("subscription required")
	ErrBudgetExceeded   = errors.New("monthly AI budget exceeded")
	ErrAIDisabled       = errors.New("AI features are disabled")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrUnavailable      = errors.New("service unavailable")
)

// InvalidInput wraps ErrInvalidInput with a client-facing message.
func InvalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// PlanRequiredError carries the plan a feature needs and the plan the user holds.
type PlanRequiredError struct {
	Required Plan `json:"required"`
	Current  Plan `json:"current"`
}

func (e *PlanRequiredError) Error() string {
	return fmt.Sprintf("subscription required: need %s, have %s", e.Required, e.Current)
}

func (e *PlanRequiredError) Is(target error) bool { return target == ErrPlanRequired }

// RequirePlan returns a *PlanRequiredError when current does not satisfy required.
func RequirePlan(current, required Plan) error {
	if current.Satisfies(required) {
		return nil
	}
	return &PlanRequiredError{Required: required, Current: current}
}

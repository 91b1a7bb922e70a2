package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fatflowers/karma/pkg/types"

	"github.com/go-playground/validator/v10"
)

// Validator runs struct tag validation and reports the first failure as types.ErrInvalidInput.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	RegisterRules(v)
	return &Validator{v: v}
}

// RegisterRules adds the diary rules to v:
//
//	principle  an int in 1..types.PrincipleCount
//	clock      a HH:MM time of day
//	enum       a value whose Valid() method returns true
func RegisterRules(v *validator.Validate) {
	_ = v.RegisterValidation("principle", func(fl validator.FieldLevel) bool {
		return types.ValidPrinciple(int(fl.Field().Int()))
	})
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return types.ValidateClock(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("enum", func(fl validator.FieldLevel) bool {
		e, ok := fl.Field().Interface().(interface{ Valid() bool })
		return ok && e.Valid()
	})
}

// RegisterStructValidation adds a cross-field rule for the given struct types.
func (v *Validator) RegisterStructValidation(fn validator.StructLevelFunc, structs ...any) {
	v.v.RegisterStructValidation(fn, structs...)
}

func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var fes validator.ValidationErrors
	if !errors.As(err, &fes) || len(fes) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	return types.InvalidInput("%s", Message(fes[0]))
}

// Message renders a field error for API clients.
func Message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s is longer than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "principle":
		return fmt.Sprintf("%s must be between 1 and %d", field, types.PrincipleCount)
	case "clock":
		return fmt.Sprintf("invalid %s %q, want HH:MM", field, fe.Value())
	case "timezone":
		return fmt.Sprintf("unknown timezone %q", fe.Value())
	case "enum":
		return fmt.Sprintf("unknown %s %q", field, fe.Value())
	}
	return field + " is invalid"
}

// fieldName reports fields by their json name, or form name for query structs.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return ""
}

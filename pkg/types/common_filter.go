package types

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"gorm.io/gorm/clause"
)

type CommonFilterOperator string

const (
	CommonFilterOperatorEq        CommonFilterOperator = "eq"
	CommonFilterOperatorNotEq     CommonFilterOperator = "not_eq"
	CommonFilterOperatorLt        CommonFilterOperator = "lt"
	CommonFilterOperatorLte       CommonFilterOperator = "lte"
	CommonFilterOperatorGt        CommonFilterOperator = "gt"
	CommonFilterOperatorGte       CommonFilterOperator = "gte"
	CommonFilterOperatorDateRange CommonFilterOperator = "date_range"
	CommonFilterOperatorIn        CommonFilterOperator = "in"
)

// CommonFilter is a column predicate sent by admin clients.
type CommonFilter struct {
	Field    string               `json:"field"`
	Operator CommonFilterOperator `json:"operator"`
	Values   []any                `json:"values"`
}

// Validate rejects filters on columns outside allowed; Field is spliced into SQL as a column name.
func (f *CommonFilter) Validate(allowed []string) error {
	if f == nil {
		return fmt.Errorf("nil filter")
	}
	if !lo.Contains(allowed, f.Field) {
		return fmt.Errorf("filter field not allowed: %s", f.Field)
	}
	if len(f.Values) == 0 {
		return fmt.Errorf("filter %s has no values", f.Field)
	}
	if f.Operator == CommonFilterOperatorDateRange && len(f.Values) < 2 {
		return fmt.Errorf("date_range filter %s needs two values", f.Field)
	}
	return nil
}

// Build constructs a GORM expression.
func (f *CommonFilter) Build(builder clause.Builder) {
	if len(f.Values) == 0 {
		builder.WriteString("1=1")
		return
	}

	value := f.Values[0]
	col := clause.Column{Name: f.Field}

	var expr clause.Expression
	switch f.Operator {
	case CommonFilterOperatorEq:
		expr = clause.Eq{Column: col, Value: value}
	case CommonFilterOperatorNotEq:
		expr = clause.Neq{Column: col, Value: value}
	case CommonFilterOperatorLt:
		expr = clause.Lt{Column: col, Value: value}
	case CommonFilterOperatorLte:
		expr = clause.Lte{Column: col, Value: value}
	case CommonFilterOperatorGt:
		expr = clause.Gt{Column: col, Value: value}
	case CommonFilterOperatorGte:
		expr = clause.Gte{Column: col, Value: value}
	case CommonFilterOperatorDateRange:
		if len(f.Values) < 2 {
			builder.WriteString("1=1")
			return
		}
		expr = clause.And(
			clause.Gte{Column: col, Value: parseDateValue(f.Values[0])},
			clause.Lt{Column: col, Value: parseDateValue(f.Values[1]).AddDate(0, 0, 1)},
		)
	case CommonFilterOperatorIn:
		expr = clause.IN{Column: col, Values: f.Values}
	default:
		builder.WriteString("1=1")
		return
	}
	expr.Build(builder)
}

// parseDateValue accepts YYYY-MM-DD strings; anything else maps to the zero time.
func parseDateValue(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Filters joins a list of filters with AND.
type Filters []*CommonFilter

func (fs Filters) Build(builder clause.Builder) {
	if len(fs) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range fs {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

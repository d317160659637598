// Package evaluator decides whether records satisfy a condition chain.
//
// Every function here is pure and safe for concurrent use. Conversion
// failures never surface as errors: a condition that cannot be evaluated is
// simply false, so one odd cell cannot abort a whole query.
package evaluator

import (
	"strings"

	"github.com/scriptbridge/scriptbridge/core/domain"
)

// EvaluateCondition applies one condition to a field value
func EvaluateCondition(c domain.Condition, field domain.Value) bool {
	switch c.Operator {
	case domain.OpEquals:
		return equals(field, c.Value)
	case domain.OpNotEquals:
		return !equals(field, c.Value)

	case domain.OpContains:
		return textTest(field, c.Value, strings.Contains)
	case domain.OpStartsWith:
		return textTest(field, c.Value, strings.HasPrefix)
	case domain.OpEndsWith:
		return textTest(field, c.Value, strings.HasSuffix)

	case domain.OpGreaterThan:
		return ordered(field, c.Value, func(cmp int) bool { return cmp > 0 })
	case domain.OpLessThan:
		return ordered(field, c.Value, func(cmp int) bool { return cmp < 0 })
	case domain.OpGreaterOrEqual:
		return ordered(field, c.Value, func(cmp int) bool { return cmp >= 0 })
	case domain.OpLessOrEqual:
		return ordered(field, c.Value, func(cmp int) bool { return cmp <= 0 })

	case domain.OpIsEmpty:
		return isEmpty(field)
	case domain.OpIsNotEmpty:
		return !isEmpty(field)
	case domain.OpIsNull:
		return field.IsNull()
	case domain.OpIsNotNull:
		return !field.IsNull()

	default:
		return false
	}
}

// EvaluateConditions folds the chain left to right. Condition i joins the
// running result through the logical operator of condition i-1, so the
// operator on the last condition is never read. An empty chain matches.
func EvaluateConditions(conditions []domain.Condition, record domain.Record) bool {
	if len(conditions) == 0 {
		return true
	}

	result := EvaluateCondition(conditions[0], record.Get(conditions[0].Field))
	for i := 1; i < len(conditions); i++ {
		next := EvaluateCondition(conditions[i], record.Get(conditions[i].Field))
		switch conditions[i-1].Combinator() {
		case domain.LogicalOr:
			result = result || next
		default:
			result = result && next
		}
	}
	return result
}

// Filter returns the positions of the records that pass the chain, in order
func Filter(conditions []domain.Condition, records []domain.Record) []int {
	kept := make([]int, 0, len(records))
	for i, record := range records {
		if EvaluateConditions(conditions, record) {
			kept = append(kept, i)
		}
	}
	return kept
}

func operand(v *domain.Value) domain.Value {
	if v == nil {
		return domain.NullValue()
	}
	return *v
}

// equals tries strict equality, then a case-insensitive comparison of the
// string forms
func equals(field domain.Value, want *domain.Value) bool {
	expected := operand(want)
	if field.Equal(expected) {
		return true
	}
	if field.IsNull() || expected.IsNull() {
		return false
	}
	return strings.EqualFold(field.String(), expected.String())
}

func textTest(field domain.Value, want *domain.Value, test func(s, substr string) bool) bool {
	expected := operand(want)
	if field.IsNull() || expected.IsNull() {
		return false
	}
	return test(strings.ToLower(field.String()), strings.ToLower(expected.String()))
}

func ordered(field domain.Value, want *domain.Value, accept func(int) bool) bool {
	cmp, ok := Compare(field, operand(want))
	if !ok {
		return false
	}
	return accept(cmp)
}

func isEmpty(v domain.Value) bool {
	return v.IsNull() || strings.TrimSpace(v.String()) == ""
}

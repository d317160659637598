package evaluator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptbridge/scriptbridge/core/application/evaluator"
	"github.com/scriptbridge/scriptbridge/core/domain"
)

func val(v any) *domain.Value {
	value := domain.ValueOf(v)
	return &value
}

func cond(field string, op domain.Operator, value any, logical domain.LogicalOp) domain.Condition {
	c := domain.Condition{Field: field, Operator: op, LogicalOp: logical}
	if value != nil {
		c.Value = val(value)
	}
	return c
}

func TestEvaluateCondition(t *testing.T) {
	tests := []struct {
		name     string
		operator domain.Operator
		field    domain.Value
		value    any
		expected bool
	}{
		{"equals same string", domain.OpEquals, domain.StringValue("Active"), "Active", true},
		{"equals ignores case", domain.OpEquals, domain.StringValue("ACTIVE"), "active", true},
		{"equals number against string form", domain.OpEquals, domain.NumberValue(100), "100", true},
		{"equals mismatch", domain.OpEquals, domain.StringValue("Closed"), "Active", false},
		{"equals bool", domain.OpEquals, domain.BoolValue(true), "TRUE", true},
		{"not equals mismatch", domain.OpNotEquals, domain.StringValue("Closed"), "Active", true},
		{"not equals ignores case", domain.OpNotEquals, domain.StringValue("active"), "Active", false},

		{"contains ignores case", domain.OpContains, domain.StringValue("Purchase Order"), "ORDER", true},
		{"contains missing", domain.OpContains, domain.StringValue("Purchase"), "order", false},
		{"contains null field", domain.OpContains, domain.NullValue(), "x", false},
		{"starts with", domain.OpStartsWith, domain.StringValue("4500001234"), "4500", true},
		{"starts with number form", domain.OpStartsWith, domain.NumberValue(4500001234), "45", true},
		{"ends with", domain.OpEndsWith, domain.StringValue("report.PDF"), ".pdf", true},
		{"ends with mismatch", domain.OpEndsWith, domain.StringValue("report.txt"), ".pdf", false},

		{"greater than numeric strings", domain.OpGreaterThan, domain.StringValue("9"), "10", false},
		{"less than numeric strings", domain.OpLessThan, domain.StringValue("9"), "10", true},
		{"greater than number", domain.OpGreaterThan, domain.NumberValue(250), 100, true},
		{"greater than equal values", domain.OpGreaterThan, domain.NumberValue(100), 100, false},
		{"greater or equal equal values", domain.OpGreaterOrEqual, domain.NumberValue(100), 100, true},
		{"less or equal", domain.OpLessOrEqual, domain.StringValue(" 99.5 "), 100, true},
		{"greater than dates", domain.OpGreaterThan, domain.StringValue("2024-03-01"), "2024-02-29", true},
		{"less than dotted dates", domain.OpLessThan, domain.StringValue("31.12.2023"), "01.01.2024", true},
		{"greater than strings ignores case", domain.OpGreaterThan, domain.StringValue("beta"), "ALPHA", true},
		{"greater than mixed falls back to string", domain.OpGreaterThan, domain.StringValue("abc"), 5, true},
		{"greater than null field", domain.OpGreaterThan, domain.NullValue(), 5, false},
		{"less than null field", domain.OpLessThan, domain.NullValue(), 5, false},

		{"is empty null", domain.OpIsEmpty, domain.NullValue(), nil, true},
		{"is empty blank", domain.OpIsEmpty, domain.StringValue("   "), nil, true},
		{"is empty text", domain.OpIsEmpty, domain.StringValue("x"), nil, false},
		{"is not empty text", domain.OpIsNotEmpty, domain.StringValue("x"), nil, true},
		{"is not empty zero", domain.OpIsNotEmpty, domain.NumberValue(0), nil, true},
		{"is null null", domain.OpIsNull, domain.NullValue(), nil, true},
		{"is null empty string", domain.OpIsNull, domain.StringValue(""), nil, false},
		{"is not null empty string", domain.OpIsNotNull, domain.StringValue(""), nil, true},

		{"unknown operator", domain.Operator("Matches"), domain.StringValue("x"), "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cond("Field", tt.operator, tt.value, "")
			assert.Equal(t, tt.expected, evaluator.EvaluateCondition(c, tt.field))
		})
	}
}

func TestEvaluateCondition_ValueIgnoredForEmptinessOperators(t *testing.T) {
	operators := []domain.Operator{domain.OpIsEmpty, domain.OpIsNotEmpty, domain.OpIsNull, domain.OpIsNotNull}
	fields := []domain.Value{
		domain.NullValue(),
		domain.StringValue(""),
		domain.StringValue("  "),
		domain.StringValue("text"),
		domain.NumberValue(0),
		domain.BoolValue(false),
	}
	values := []*domain.Value{nil, val(""), val("text"), val(42), val(true)}

	for _, op := range operators {
		for _, field := range fields {
			baseline := evaluator.EvaluateCondition(domain.Condition{Field: "F", Operator: op}, field)
			for _, v := range values {
				got := evaluator.EvaluateCondition(domain.Condition{Field: "F", Operator: op, Value: v}, field)
				assert.Equal(t, baseline, got, "operator %s field %v value %v", op, field, v)
			}
		}
	}
}

func TestEvaluateCondition_NotEqualsIsComplement(t *testing.T) {
	operands := []domain.Value{
		domain.NullValue(),
		domain.StringValue(""),
		domain.StringValue("Active"),
		domain.StringValue("active"),
		domain.StringValue("100"),
		domain.NumberValue(100),
		domain.NumberValue(100.5),
		domain.BoolValue(true),
		domain.StringValue("true"),
	}

	for _, field := range operands {
		for _, value := range operands {
			v := value
			eq := evaluator.EvaluateCondition(domain.Condition{Field: "F", Operator: domain.OpEquals, Value: &v}, field)
			ne := evaluator.EvaluateCondition(domain.Condition{Field: "F", Operator: domain.OpNotEquals, Value: &v}, field)
			assert.Equal(t, eq, !ne, "field %#v value %#v", field, value)
		}
	}
}

func TestEvaluateConditions_EmptyChainMatchesEverything(t *testing.T) {
	records := []domain.Record{
		nil,
		{},
		domain.NewRecord(map[string]any{"Status": "Active"}),
	}
	for _, record := range records {
		assert.True(t, evaluator.EvaluateConditions(nil, record))
		assert.True(t, evaluator.EvaluateConditions([]domain.Condition{}, record))
	}
}

func TestEvaluateConditions_CombinatorComesFromPreviousCondition(t *testing.T) {
	a := func(op domain.LogicalOp) domain.Condition { return cond("A", domain.OpEquals, "yes", op) }
	b := func(op domain.LogicalOp) domain.Condition { return cond("B", domain.OpEquals, "yes", op) }
	c := func(op domain.LogicalOp) domain.Condition { return cond("C", domain.OpEquals, "yes", op) }

	// A=true B=false C=false: (A or B) and C
	record := domain.NewRecord(map[string]any{"A": "yes", "B": "no", "C": "no"})
	assert.False(t, evaluator.EvaluateConditions([]domain.Condition{a(domain.LogicalOr), b(domain.LogicalAnd), c(domain.LogicalAnd)}, record))

	// A=true B=false C=true
	record = domain.NewRecord(map[string]any{"A": "yes", "B": "no", "C": "yes"})
	// (A or B) and C
	assert.True(t, evaluator.EvaluateConditions([]domain.Condition{a(domain.LogicalOr), b(domain.LogicalAnd), c(domain.LogicalAnd)}, record))
	// (A and B) or C
	assert.True(t, evaluator.EvaluateConditions([]domain.Condition{a(domain.LogicalAnd), b(domain.LogicalOr), c(domain.LogicalAnd)}, record))
	// (A and B) and C; the Or on C is never read
	assert.False(t, evaluator.EvaluateConditions([]domain.Condition{a(domain.LogicalAnd), b(domain.LogicalAnd), c(domain.LogicalOr)}, record))
}

func TestEvaluateConditions_LastCombinatorIsNeverRead(t *testing.T) {
	records := []domain.Record{
		domain.NewRecord(map[string]any{"A": "yes", "B": "yes", "C": "yes"}),
		domain.NewRecord(map[string]any{"A": "yes", "B": "no", "C": "no"}),
		domain.NewRecord(map[string]any{"A": "no", "B": "yes", "C": "no"}),
		domain.NewRecord(map[string]any{"A": "no", "B": "no", "C": "yes"}),
		domain.NewRecord(map[string]any{"A": "no", "B": "no", "C": "no"}),
	}

	for _, record := range records {
		withAnd := []domain.Condition{
			cond("A", domain.OpEquals, "yes", domain.LogicalOr),
			cond("B", domain.OpEquals, "yes", domain.LogicalAnd),
			cond("C", domain.OpEquals, "yes", domain.LogicalAnd),
		}
		withOr := []domain.Condition{withAnd[0], withAnd[1], cond("C", domain.OpEquals, "yes", domain.LogicalOr)}

		assert.Equal(t,
			evaluator.EvaluateConditions(withAnd, record),
			evaluator.EvaluateConditions(withOr, record),
		)
	}
}

func TestEvaluateConditions_MissingFieldIsNull(t *testing.T) {
	record := domain.NewRecord(map[string]any{"Status": "Active"})
	assert.True(t, evaluator.EvaluateConditions([]domain.Condition{cond("Owner", domain.OpIsNull, nil, "")}, record))
	assert.False(t, evaluator.EvaluateConditions([]domain.Condition{cond("Owner", domain.OpEquals, "x", "")}, record))
}

func TestFilter_OrChain(t *testing.T) {
	records := make([]domain.Record, 0, 4)
	for _, status := range []string{"Active", "Closed", "Pending", "Active"} {
		records = append(records, domain.NewRecord(map[string]any{"Status": status}))
	}
	conditions := []domain.Condition{
		cond("Status", domain.OpEquals, "Active", domain.LogicalOr),
		cond("Status", domain.OpEquals, "Pending", ""),
	}

	assert.Equal(t, []int{0, 2, 3}, evaluator.Filter(conditions, records))
}

func TestFilter_NumericThreshold(t *testing.T) {
	records := make([]domain.Record, 0, 5)
	for _, amount := range []int{100, 250, 50, 0, 300} {
		records = append(records, domain.NewRecord(map[string]any{"Amount": amount}))
	}
	conditions := []domain.Condition{cond("Amount", domain.OpGreaterThan, 100, "")}

	assert.Equal(t, []int{1, 4}, evaluator.Filter(conditions, records))
}

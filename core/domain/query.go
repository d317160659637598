package domain

import (
	"encoding/json"
	"strings"
)

// SourceType identifies the kind of UI object a query reads records from
type SourceType string

const (
	SourceGrid  SourceType = "Grid"
	SourceTable SourceType = "Table"
	SourceTree  SourceType = "Tree"
)

// SourceTypes lists every source type a complete registry must serve
var SourceTypes = []SourceType{SourceGrid, SourceTable, SourceTree}

// Action is the reduction applied to the match set
type Action string

const (
	ActionGetFirst Action = "GetFirst"
	ActionGetLast  Action = "GetLast"
	ActionGetAll   Action = "GetAll"
	ActionCount    Action = "Count"
	// Select and Extract are accepted by validation but no adapter implements them
	ActionSelect  Action = "Select"
	ActionExtract Action = "Extract"
)

// Operator compares a record field against a condition value
type Operator string

const (
	OpEquals         Operator = "Equals"
	OpNotEquals      Operator = "NotEquals"
	OpContains       Operator = "Contains"
	OpStartsWith     Operator = "StartsWith"
	OpEndsWith       Operator = "EndsWith"
	OpGreaterThan    Operator = "GreaterThan"
	OpLessThan       Operator = "LessThan"
	OpGreaterOrEqual Operator = "GreaterOrEqual"
	OpLessOrEqual    Operator = "LessOrEqual"
	OpIsEmpty        Operator = "IsEmpty"
	OpIsNotEmpty     Operator = "IsNotEmpty"
	OpIsNull         Operator = "IsNull"
	OpIsNotNull      Operator = "IsNotNull"
)

// RequiresValue reports whether the operator compares against a value
func (o Operator) RequiresValue() bool {
	switch o {
	case OpIsEmpty, OpIsNotEmpty, OpIsNull, OpIsNotNull:
		return false
	default:
		return true
	}
}

// LogicalOp joins a condition with the condition that follows it
type LogicalOp string

const (
	LogicalAnd LogicalOp = "And"
	LogicalOr  LogicalOp = "Or"
)

var (
	sourceTypeNames = canonicalNames(SourceGrid, SourceTable, SourceTree)
	actionNames     = canonicalNames(ActionGetFirst, ActionGetLast, ActionGetAll, ActionCount, ActionSelect, ActionExtract)
	operatorNames   = canonicalNames(
		OpEquals, OpNotEquals, OpContains, OpStartsWith, OpEndsWith,
		OpGreaterThan, OpLessThan, OpGreaterOrEqual, OpLessOrEqual,
		OpIsEmpty, OpIsNotEmpty, OpIsNull, OpIsNotNull,
	)
	logicalNames = canonicalNames(LogicalAnd, LogicalOr)
)

func canonicalNames[T ~string](values ...T) map[string]T {
	names := make(map[string]T, len(values))
	for _, v := range values {
		names[strings.ToLower(string(v))] = v
	}
	return names
}

// canonicalize maps a case-insensitive name onto its canonical constant.
// Unknown names are kept verbatim so the validator can report them.
func canonicalize[T ~string](data []byte, names map[string]T) (T, error) {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", err
	}
	if v, ok := names[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v, nil
	}
	return T(raw), nil
}

func (s *SourceType) UnmarshalJSON(data []byte) (err error) {
	*s, err = canonicalize(data, sourceTypeNames)
	return err
}

func (a *Action) UnmarshalJSON(data []byte) (err error) {
	*a, err = canonicalize(data, actionNames)
	return err
}

func (o *Operator) UnmarshalJSON(data []byte) (err error) {
	*o, err = canonicalize(data, operatorNames)
	return err
}

func (l *LogicalOp) UnmarshalJSON(data []byte) (err error) {
	*l, err = canonicalize(data, logicalNames)
	return err
}

// ParseSourceType resolves a case-insensitive source type name
func ParseSourceType(name string) (SourceType, bool) {
	v, ok := sourceTypeNames[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// ParseAction resolves a case-insensitive action name
func ParseAction(name string) (Action, bool) {
	v, ok := actionNames[strings.ToLower(strings.TrimSpace(name))]
	return v, ok
}

// Condition is one field test plus the combinator joining it to the next
// condition in the list. The combinator of the last condition is never read.
type Condition struct {
	Field     string    `json:"field" validate:"required"`
	Operator  Operator  `json:"operator" validate:"oneof=Equals NotEquals Contains StartsWith EndsWith GreaterThan LessThan GreaterOrEqual LessOrEqual IsEmpty IsNotEmpty IsNull IsNotNull"`
	Value     *Value    `json:"value,omitempty"`
	LogicalOp LogicalOp `json:"logical_op,omitempty" validate:"omitempty,oneof=And Or"`
}

// Combinator returns the logical operator, defaulting to And
func (c Condition) Combinator() LogicalOp {
	if c.LogicalOp == LogicalOr {
		return LogicalOr
	}
	return LogicalAnd
}

// QueryOptions shapes the match set after filtering
type QueryOptions struct {
	Limit            *int     `json:"limit,omitempty" validate:"omitempty,min=0"`
	Skip             *int     `json:"skip,omitempty" validate:"omitempty,min=0"`
	IncludeAllFields *bool    `json:"include_all_fields,omitempty"`
	Fields           []string `json:"fields,omitempty"`
}

// AllFields reports whether matches keep every field. Absent means true.
func (o *QueryOptions) AllFields() bool {
	if o == nil || o.IncludeAllFields == nil {
		return true
	}
	return *o.IncludeAllFields
}

// Query describes which records to match on one UI object and how to
// reduce the matches
type Query struct {
	ObjectPath string        `json:"object_path" validate:"required"`
	SourceType SourceType    `json:"source_type" validate:"oneof=Grid Table Tree"`
	Action     Action        `json:"action" validate:"oneof=GetFirst GetLast GetAll Count Select Extract"`
	Conditions []Condition   `json:"conditions" validate:"dive"`
	Options    *QueryOptions `json:"options,omitempty" validate:"omitempty"`
}

// WithAction returns a copy of q with the action overridden
func (q Query) WithAction(action Action) *Query {
	q.Action = action
	return &q
}

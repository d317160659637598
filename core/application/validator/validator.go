// Package validator checks query structure before any adapter sees it.
package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/scriptbridge/scriptbridge/core/domain"
)

// MessagePrefix starts the message of every failed validation
const MessagePrefix = "query validation failed: "

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports every structural problem of q. It never touches a session
// and is safe for concurrent use.
func Validate(q *domain.Query) domain.ValidationResult {
	if q == nil {
		return invalid([]string{"query is required"})
	}

	var violations []string
	if err := validate.Struct(q); err != nil {
		fieldErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return invalid([]string{err.Error()})
		}
		for _, fe := range fieldErrs {
			violations = append(violations, describe(fe))
		}
	}

	for i, c := range q.Conditions {
		if c.Operator.RequiresValue() && c.Value == nil {
			violations = append(violations, fmt.Sprintf("conditions[%d].value is required for operator %s", i, c.Operator))
		}
	}

	if q.Options != nil && !q.Options.AllFields() && len(q.Options.Fields) == 0 {
		violations = append(violations, "options.fields is required when include_all_fields is false")
	}

	if len(violations) > 0 {
		return invalid(violations)
	}
	return domain.ValidationResult{Valid: true}
}

func invalid(violations []string) domain.ValidationResult {
	return domain.ValidationResult{
		Valid:      false,
		Message:    MessagePrefix + strings.Join(violations, "; "),
		Violations: violations,
	}
}

// describe turns a validator field error into "<json path> <problem>"
func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	if _, rest, found := strings.Cut(path, "."); found {
		path = rest
	}

	switch fe.Tag() {
	case "required":
		return path + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", path, fe.Param())
	case "oneof":
		if fmt.Sprint(fe.Value()) == "" {
			return path + " is required"
		}
		return fmt.Sprintf("%s has unknown value %q (expected one of: %s)", path, fmt.Sprint(fe.Value()), strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("%s failed %s", path, fe.Tag())
	}
}

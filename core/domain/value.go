package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies which member of the Value union is set
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "null"
	}
}

// Value is a field value read from a UI object or supplied by a caller.
// The zero Value is Null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
}

// NullValue returns the Null value
func NullValue() Value { return Value{} }

// StringValue wraps s
func StringValue(s string) Value { return Value{kind: KindString, str: s} }

// NumberValue wraps n
func NumberValue(n float64) Value { return Value{kind: KindNumber, num: n} }

// BoolValue wraps b
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// ValueOf converts a native Go scalar into a Value. Times become their
// RFC3339 string form; unknown types fall back to their fmt representation.
func ValueOf(v any) Value {
	switch val := v.(type) {
	case nil:
		return NullValue()
	case Value:
		return val
	case *Value:
		if val == nil {
			return NullValue()
		}
		return *val
	case string:
		return StringValue(val)
	case []byte:
		return StringValue(string(val))
	case bool:
		return BoolValue(val)
	case int:
		return NumberValue(float64(val))
	case int8:
		return NumberValue(float64(val))
	case int16:
		return NumberValue(float64(val))
	case int32:
		return NumberValue(float64(val))
	case int64:
		return NumberValue(float64(val))
	case uint:
		return NumberValue(float64(val))
	case uint8:
		return NumberValue(float64(val))
	case uint16:
		return NumberValue(float64(val))
	case uint32:
		return NumberValue(float64(val))
	case uint64:
		return NumberValue(float64(val))
	case float32:
		return NumberValue(float64(val))
	case float64:
		return NumberValue(val)
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return NumberValue(f)
		}
		return StringValue(val.String())
	case time.Time:
		return StringValue(val.Format(time.RFC3339))
	case fmt.Stringer:
		return StringValue(val.String())
	default:
		return StringValue(fmt.Sprintf("%v", val))
	}
}

// Kind reports which member is set
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null
func (v Value) IsNull() bool { return v.kind == KindNull }

// Number returns the numeric payload when v is a Number
func (v Value) Number() (float64, bool) { return v.num, v.kind == KindNumber }

// Bool returns the boolean payload when v is a Boolean
func (v Value) Bool() (bool, bool) { return v.b, v.kind == KindBool }

// String returns the string form of v. Null has the empty string form.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// Equal reports strict equality: same kind and same payload
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num == other.num
	case KindBool:
		return v.b == other.b
	default:
		return true
	}
}

// Interface returns the native Go representation of v
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBool:
		return v.b
	default:
		return nil
	}
}

// MarshalJSON encodes v as a plain JSON scalar
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes a JSON scalar. Arrays and objects are rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case nil:
		*v = NullValue()
	case string:
		*v = StringValue(val)
	case bool:
		*v = BoolValue(val)
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return fmt.Errorf("invalid number %q: %w", val.String(), err)
		}
		*v = NumberValue(f)
	default:
		return fmt.Errorf("value must be a string, number, boolean or null, got %T", raw)
	}
	return nil
}

// UnmarshalYAML lets snapshot and query files carry plain YAML scalars
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch raw.(type) {
	case map[string]any, []any:
		return fmt.Errorf("value must be a scalar, got %T", raw)
	}
	*v = ValueOf(raw)
	return nil
}

// Record is the flattened field map of one row or node
type Record map[string]Value

// Get returns the named field, or Null when the record has no such field
func (r Record) Get(field string) Value {
	if r == nil {
		return NullValue()
	}
	return r[field]
}

// NewRecord converts a native map into a Record
func NewRecord(fields map[string]any) Record {
	record := make(Record, len(fields))
	for key, value := range fields {
		record[key] = ValueOf(value)
	}
	return record
}

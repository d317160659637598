package evaluator

import (
	"strconv"
	"strings"
	"time"

	"github.com/scriptbridge/scriptbridge/core/domain"
)

// timeLayouts are tried in order when a value is parsed as a date/time
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"2006/01/02",
}

// TryParseNumber returns the numeric reading of v. Numbers pass through,
// strings are parsed as floating point, every other kind fails.
func TryParseNumber(v domain.Value) (float64, bool) {
	switch v.Kind() {
	case domain.KindNumber:
		n, _ := v.Number()
		return n, true
	case domain.KindString:
		s := strings.TrimSpace(v.String())
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// TryParseTime returns the date/time reading of a string value
func TryParseTime(v domain.Value) (time.Time, bool) {
	if v.Kind() != domain.KindString {
		return time.Time{}, false
	}
	s := strings.TrimSpace(v.String())
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Compare orders a against b. It tries a numeric comparison, then a
// date/time comparison, then an ordinal case-insensitive string comparison;
// the first strategy both sides support wins. Null on either side is not
// comparable.
func Compare(a, b domain.Value) (int, bool) {
	if a.IsNull() || b.IsNull() {
		return 0, false
	}

	if x, ok := TryParseNumber(a); ok {
		if y, ok := TryParseNumber(b); ok {
			return compareFloat(x, y), true
		}
	}

	if x, ok := TryParseTime(a); ok {
		if y, ok := TryParseTime(b); ok {
			return x.Compare(y), true
		}
	}

	return strings.Compare(strings.ToUpper(a.String()), strings.ToUpper(b.String())), true
}

func compareFloat(x, y float64) int {
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

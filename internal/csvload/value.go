package csvload

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred type of a CSV cell.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindBool
	KindDate
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is one auto-typed cell. Raw always holds the cell text as read.
type Value struct {
	Kind Kind
	Raw  string
	Num  float64
	Bool bool
	Time time.Time
}

// Null returns a null cell (used for padding short rows).
func Null() Value { return Value{Kind: KindNull} }

var (
	decimalRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	radixRe   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
	// ISO-8601 date or date-time, optionally with a six-digit signed year.
	dateRe = regexp.MustCompile(`^([-+]\d{2})?\d{4}(-\d{2}(-\d{2})?)?(T\d{2}:\d{2}(:\d{2}(\.\d{3})?)?(Z|[-+]\d{2}:\d{2})?)?$`)
)

// Infer types a single cell from its text.
func Infer(raw string) Value {
	s := strings.TrimSpace(raw)
	switch {
	case s == "":
		return Value{Kind: KindNull, Raw: raw}
	case s == "true":
		return Value{Kind: KindBool, Raw: raw, Bool: true}
	case s == "false":
		return Value{Kind: KindBool, Raw: raw}
	case s == "NaN":
		return Value{Kind: KindNumber, Raw: raw, Num: math.NaN()}
	}
	if f, ok := parseNumber(s); ok {
		return Value{Kind: KindNumber, Raw: raw, Num: f}
	}
	if dateRe.MatchString(s) {
		if t, ok := parseDate(s); ok {
			return Value{Kind: KindDate, Raw: raw, Time: t}
		}
	}
	return Value{Kind: KindString, Raw: raw}
}

// parseNumber accepts decimal literals with an optional exponent, signed
// Infinity, and 0x/0o/0b integers.
func parseNumber(s string) (float64, bool) {
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	}
	if decimalRe.MatchString(s) {
		// out-of-range literals still parse to ±Inf
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return f, true
	}
	if radixRe.MatchString(s) {
		n, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, false
		}
		return float64(n), true
	}
	return 0, false
}

// parseDate follows ISO-8601 conventions: date-only forms are UTC, date-times
// without an offset are local time.
func parseDate(s string) (time.Time, bool) {
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		// expanded years are outside time.Parse's range
		return time.Time{}, false
	}
	dateOnly := []string{"2006", "2006-01", "2006-01-02"}
	for _, l := range dateOnly {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	withZone := []string{"2006-01-02T15:04Z07:00", "2006-01-02T15:04:05Z07:00", "2006-01-02T15:04:05.000Z07:00"}
	for _, l := range withZone {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	local := []string{"2006-01-02T15:04", "2006-01-02T15:04:05", "2006-01-02T15:04:05.000"}
	for _, l := range local {
		if t, err := time.ParseInLocation(l, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsNull reports whether the cell was empty.
func (v Value) IsNull() bool { return v.Kind == KindNull }

// Float coerces the cell to a number. Null, dates and non-numeric text yield NaN.
func (v Value) Float() float64 {
	switch v.Kind {
	case KindNumber:
		return v.Num
	case KindBool:
		if v.Bool {
			return 1
		}
		return 0
	case KindString:
		if f, ok := parseNumber(strings.TrimSpace(v.Raw)); ok {
			return f
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// String coerces the cell to text. Numbers use the shortest round-trip form.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindNumber:
		return FormatNumber(v.Num)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Raw
	}
}

// FormatNumber renders f in shortest round-trip form, switching to exponent
// notation outside [1e-6, 1e21).
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// Go pads the exponent to two digits ("1e-07"); trim to "1e-7".
	mant, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}

// Package tabular defines the typed scalar model for ingested datasets.
//
// External rows arrive loosely typed (JSON scalars, CSV cells). Every scalar
// is converted to a Value exactly once at the ingestion boundary, so the
// transformation pipeline never has to probe runtime types again.
package tabular

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindTime
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindTime:
		return "time"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a closed tagged variant over the scalar types a dataset cell
// can hold. Exactly one of Num, Str, Time is meaningful, selected by Kind.
type Value struct {
	Kind Kind
	Num  float64
	Str  string
	Time time.Time
}

// Null returns the null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// Text returns a string value.
func Text(s string) Value {
	return Value{Kind: KindText, Str: s}
}

// Timestamp returns a native time value.
func Timestamp(t time.Time) Value {
	return Value{Kind: KindTime, Time: t}
}

// FromAny converts a JSON-decoded scalar into a Value. Unknown types are
// rendered through fmt.Sprint so ingestion never fails on a single cell.
func FromAny(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null()
	case string:
		return Text(val)
	case float64:
		return Number(val)
	case float32:
		return Number(float64(val))
	case int:
		return Number(float64(val))
	case int64:
		return Number(float64(val))
	case json.Number:
		if f, err := val.Float64(); err == nil {
			return Number(f)
		}
		return Text(val.String())
	case bool:
		return Text(strconv.FormatBool(val))
	case time.Time:
		return Timestamp(val)
	default:
		return Text(fmt.Sprint(val))
	}
}

// IsNull reports whether the value is null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// Display renders the value for user-facing output (tooltips, warnings).
// Null renders as the empty string. Whole numbers drop the fraction.
func (v Value) Display() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindText:
		return v.Str
	case KindTime:
		return v.Time.Format("2006-01-02")
	default:
		return ""
	}
}

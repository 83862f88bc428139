// Package ident canonicalizes raw identifier values into stable string keys.
//
// Tabular loaders read ID columns containing nulls as floats while a fully
// populated dependency column comes back as strings (or vice versa), so the
// integer 1, the float 1.0 and the string "1" must all normalize to "1".
// The same function is applied to primary identifiers and to every token in
// a dependency cell; anything else lets cross-column type drift silently
// break dependency matching.
package ident

import (
	"math"
	"strconv"
	"strings"

	"github.com/ganttd/ganttd/internal/tabular"
)

// maxExactInt is the largest float64 magnitude that still represents every
// integer exactly. Beyond it the integer re-rendering would be lossy, so the
// raw string form is kept instead.
const maxExactInt = 1 << 53

// Normalize canonicalizes a raw value into an identifier string. The second
// return is false when the value is null or blank; the caller substitutes a
// generated placeholder in that case.
func Normalize(v tabular.Value) (string, bool) {
	switch v.Kind {
	case tabular.KindNull:
		return "", false
	case tabular.KindNumber:
		return formatNumber(v.Num), true
	case tabular.KindTime:
		return v.Time.Format("2006-01-02"), true
	default:
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return "", false
		}
		return NormalizeString(s), true
	}
}

// NormalizeString canonicalizes an identifier already in string form. A
// string that parses as a float with no fractional part is re-rendered as an
// integer string; true decimals and plain text pass through trimmed.
// Idempotent: NormalizeString(NormalizeString(s)) == NormalizeString(s).
func NormalizeString(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return trimmed
	}
	return formatNumber(f)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < maxExactInt {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Placeholder returns the generated identifier for a row without one.
func Placeholder(rowIndex int) string {
	return "task_" + strconv.Itoa(rowIndex)
}

// SplitList tokenizes a dependency cell into normalized identifiers.
// String cells split on commas and semicolons; a bare numeric cell is a
// single reference. Empty tokens are dropped.
func SplitList(v tabular.Value) []string {
	switch v.Kind {
	case tabular.KindNull:
		return nil
	case tabular.KindText:
		raw := strings.FieldsFunc(v.Str, func(r rune) bool {
			return r == ',' || r == ';'
		})
		tokens := make([]string, 0, len(raw))
		for _, tok := range raw {
			if n := NormalizeString(tok); n != "" {
				tokens = append(tokens, n)
			}
		}
		return tokens
	default:
		if id, ok := Normalize(v); ok {
			return []string{id}
		}
		return nil
	}
}

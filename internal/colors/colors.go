// Package colors assigns a bounded palette of CSS class tokens to raw
// category values. Mapping is deterministic: the same distinct-value set
// produces the same mapping regardless of row order.
package colors

import "sort"

// Palette is the fixed ordered set of category classes. Values beyond the
// palette size wrap around.
var Palette = []string{
	"gantt-cat-1",
	"gantt-cat-2",
	"gantt-cat-3",
	"gantt-cat-4",
	"gantt-cat-5",
	"gantt-cat-6",
	"gantt-cat-7",
	"gantt-cat-8",
	"gantt-cat-9",
	"gantt-cat-10",
	"gantt-cat-11",
	"gantt-cat-12",
}

// DefaultClass is reserved for rows with no category value. It is never
// assigned to a palette slot.
const DefaultClass = "gantt-cat-default"

// BuildMapping assigns palette slots to the distinct non-null values in
// sorted order, cycling when the palette is exhausted.
func BuildMapping(values []*string) map[string]string {
	seen := make(map[string]bool)
	var distinct []string
	for _, v := range values {
		if v == nil {
			continue
		}
		if !seen[*v] {
			seen[*v] = true
			distinct = append(distinct, *v)
		}
	}
	sort.Strings(distinct)

	mapping := make(map[string]string, len(distinct))
	for i, v := range distinct {
		mapping[v] = Palette[i%len(Palette)]
	}
	return mapping
}

// ClassFor resolves the class for one category value, falling back to the
// reserved default for null values or values missing from the mapping.
func ClassFor(mapping map[string]string, value *string) string {
	if value == nil {
		return DefaultClass
	}
	if class, ok := mapping[*value]; ok {
		return class
	}
	return DefaultClass
}

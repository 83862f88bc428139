package tabular

import "sort"

// Row maps a column name to the cell value for one record.
type Row map[string]Value

// Get returns the value for a column, or null when the column is absent.
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Null()
}

// Dataset is a fully materialized tabular input: a column list plus rows
// in original order.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the dataset declares the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// FromMaps builds a dataset from JSON-decoded row objects. The column list
// is the sorted union of all keys, so ragged rows are tolerated.
func FromMaps(rows []map[string]any) *Dataset {
	seen := make(map[string]bool)
	var columns []string
	converted := make([]Row, 0, len(rows))
	for _, raw := range rows {
		row := make(Row, len(raw))
		for k, v := range raw {
			if !seen[k] {
				seen[k] = true
				columns = append(columns, k)
			}
			row[k] = FromAny(v)
		}
		converted = append(converted, row)
	}
	sort.Strings(columns)
	return &Dataset{Columns: columns, Rows: converted}
}

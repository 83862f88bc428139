package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadCSV reads a CSV stream into a dataset. The first record is the header.
// Empty cells become null; cells that parse as numbers become numeric, which
// mirrors what spreadsheet-style loaders do to ID columns.
func LoadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv input is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	ds := &Dataset{Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row %d: %w", len(ds.Rows)+2, err)
		}
		row := make(Row, len(columns))
		for i, cell := range record {
			if i >= len(columns) {
				break
			}
			row[columns[i]] = cellValue(cell)
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, nil
}

// cellValue classifies a raw CSV cell.
func cellValue(cell string) Value {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(f)
	}
	return Text(trimmed)
}

// LoadJSON reads a JSON array of row objects into a dataset. Numbers are
// decoded with json.Number so large integers survive intact.
func LoadJSON(r io.Reader) (*Dataset, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("parse json rows: %w", err)
	}
	return FromMaps(rows), nil
}

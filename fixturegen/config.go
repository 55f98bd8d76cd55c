// Package fixturegen turns a fixture definition (tables, seed rows and a
// query) into a fixture document by populating a live database, running the
// query and mapping its result back into values.
package fixturegen

import (
	"fmt"

	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/value"
)

// Config is a validated fixture definition.
type Config struct {
	Query  string
	Tables []TableSpec
}

// TableSpec describes one table to create and populate.
type TableSpec struct {
	Name    string
	Headers []string
	// Rows holds every data row in file order. Rows[0] is the type-sample
	// row; it decides the column types and is inserted like any other row.
	Rows [][]value.Value
}

// SampleRow returns the row column types are inferred from.
func (t TableSpec) SampleRow() []value.Value {
	return t.Rows[0]
}

// ExtractConfig validates the shape of a parsed fixture definition:
//
//	query: SELECT ...
//	tables:
//	  - name: users
//	    data:
//	      - [id, name]      # header row
//	      - [1, "alice"]    # type-sample row, also inserted
//	      - [2, "bob"]
func ExtractConfig(root value.Value) (*Config, error) {
	if root.Kind() != value.KindMapping {
		return nil, fmt.Errorf("%w: top level must be a mapping containing query and tables, got %s", sqlfixture.ErrConfigShape, root.Kind())
	}

	queryValue, ok := root.Lookup("query")
	if !ok {
		return nil, fmt.Errorf("%w: query is required", sqlfixture.ErrConfigShape)
	}

	query, ok := queryValue.AsString()
	if !ok {
		return nil, fmt.Errorf("%w: query must be a string, got %s", sqlfixture.ErrConfigShape, queryValue.Kind())
	}

	tablesValue, ok := root.Lookup("tables")
	if !ok {
		return nil, fmt.Errorf("%w: tables is required", sqlfixture.ErrConfigShape)
	}

	tableItems, ok := tablesValue.Items()
	if !ok {
		return nil, fmt.Errorf("%w: tables must be a sequence, got %s", sqlfixture.ErrConfigShape, tablesValue.Kind())
	}

	config := &Config{
		Query:  query,
		Tables: make([]TableSpec, 0, len(tableItems)),
	}

	for i, item := range tableItems {
		table, err := extractTable(i, item)
		if err != nil {
			return nil, err
		}

		config.Tables = append(config.Tables, table)
	}

	return config, nil
}

func extractTable(index int, item value.Value) (TableSpec, error) {
	if item.Kind() != value.KindMapping {
		return TableSpec{}, fmt.Errorf("%w: tables[%d] must be a mapping with name and data, got %s", sqlfixture.ErrConfigShape, index, item.Kind())
	}

	nameValue, ok := item.Lookup("name")
	if !ok {
		return TableSpec{}, fmt.Errorf("%w: tables[%d]: name is required", sqlfixture.ErrConfigShape, index)
	}

	name, ok := nameValue.AsString()
	if !ok {
		return TableSpec{}, fmt.Errorf("%w: tables[%d]: name must be a string, got %s", sqlfixture.ErrConfigShape, index, nameValue.Kind())
	}

	dataValue, ok := item.Lookup("data")
	if !ok {
		return TableSpec{}, fmt.Errorf("%w: table %q: data is required", sqlfixture.ErrConfigShape, name)
	}

	data, ok := dataValue.Items()
	if !ok {
		return TableSpec{}, fmt.Errorf("%w: table %q: data must be a sequence of rows, got %s", sqlfixture.ErrConfigShape, name, dataValue.Kind())
	}

	if len(data) < 2 {
		return TableSpec{}, fmt.Errorf("%w: table %q has %d row(s)", sqlfixture.ErrInsufficientTableData, name, len(data))
	}

	rows := make([][]value.Value, len(data))
	for r, rowValue := range data {
		row, ok := rowValue.Items()
		if !ok {
			return TableSpec{}, fmt.Errorf("%w: table %q: data[%d] must be a sequence, got %s", sqlfixture.ErrConfigShape, name, r, rowValue.Kind())
		}

		rows[r] = row
	}

	if len(rows[0]) == 0 {
		return TableSpec{}, fmt.Errorf("%w: table %q: header row is empty", sqlfixture.ErrConfigShape, name)
	}

	headers := make([]string, len(rows[0]))
	for c, h := range rows[0] {
		header, ok := h.AsString()
		if !ok {
			return TableSpec{}, fmt.Errorf("%w: table %q: header %d must be a string, got %s", sqlfixture.ErrConfigShape, name, c, h.Kind())
		}

		headers[c] = header
	}

	if len(rows[1]) != len(headers) {
		return TableSpec{}, fmt.Errorf("%w: table %q: type-sample row data[1] has %d value(s) for %d column(s)", sqlfixture.ErrConfigShape, name, len(rows[1]), len(headers))
	}

	return TableSpec{
		Name:    name,
		Headers: headers,
		Rows:    rows[1:],
	}, nil
}

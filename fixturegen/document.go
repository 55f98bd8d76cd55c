package fixturegen

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/shibukawa/sqlfixture/value"
)

// Document is the generated fixture.
type Document struct {
	SQL           string
	ExpectedNames []string
	ExpectedTypes []FixtureType
	Expected      [][]value.Value
}

// NewDocument assembles a fixture from the query text and its materialized result.
// Values are passed through unchanged.
func NewDocument(query string, result *Result) *Document {
	return &Document{
		SQL:           query,
		ExpectedNames: result.Names,
		ExpectedTypes: result.Types,
		Expected:      result.Rows,
	}
}

// Value returns the document as a value tree with keys sql, expected_names,
// expected_types and expected, in that order.
func (d *Document) Value() value.Value {
	names := make([]value.Value, len(d.ExpectedNames))
	for i, n := range d.ExpectedNames {
		names[i] = value.String(n)
	}

	types := make([]value.Value, len(d.ExpectedTypes))
	for i, t := range d.ExpectedTypes {
		types[i] = value.String(string(t))
	}

	rows := make([]value.Value, len(d.Expected))
	for i, r := range d.Expected {
		rows[i] = value.Sequence(r...)
	}

	return value.Mapping(
		value.MapItem{Key: "sql", Value: value.String(d.SQL)},
		value.MapItem{Key: "expected_names", Value: value.Sequence(names...)},
		value.MapItem{Key: "expected_types", Value: value.Sequence(types...)},
		value.MapItem{Key: "expected", Value: value.Sequence(rows...)},
	)
}

// MarshalYAML implements yaml.InterfaceMarshaler.
func (d *Document) MarshalYAML() (any, error) {
	return d.Value().MarshalYAML()
}

// Encode writes the document as YAML.
func Encode(w io.Writer, doc *Document) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode fixture: %w", err)
	}

	_, err = w.Write(out)

	return err
}

package fixturegen

import (
	"fmt"

	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/value"
)

// ColumnType is the SQL type a column is created with.
type ColumnType string

const (
	ColumnDouble ColumnType = "double"
	ColumnInt    ColumnType = "int"
	ColumnText   ColumnType = "text"
	ColumnBool   ColumnType = "tinyint(1)"
)

// Column is a column name paired with its inferred type.
type Column struct {
	Name string
	Type ColumnType
}

// SynthesizeSchema infers one column per header from the kinds of the
// type-sample row. Later rows are not checked; a value that does not fit its
// column is left for the database to reject.
func SynthesizeSchema(table TableSpec) ([]Column, error) {
	sample := table.SampleRow()
	columns := make([]Column, len(table.Headers))

	for i, header := range table.Headers {
		v := sample[i]

		var columnType ColumnType

		switch v.Kind() {
		case value.KindFloat:
			columnType = ColumnDouble
		case value.KindInteger:
			columnType = ColumnInt
		case value.KindString:
			columnType = ColumnText
		case value.KindBool:
			columnType = ColumnBool
		case value.KindNull, value.KindSequence, value.KindMapping:
			return nil, fmt.Errorf("%w: table %q column %q: cannot infer a column type from %s", sqlfixture.ErrUnsupportedSampleValue, table.Name, header, v.Kind())
		default:
			return nil, fmt.Errorf("%w: table %q column %q: unknown value kind %s", sqlfixture.ErrUnsupportedSampleValue, table.Name, header, v.Kind())
		}

		columns[i] = Column{Name: header, Type: columnType}
	}

	return columns, nil
}

package fixturegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/value"
)

// StatementBuilder renders DDL/DML for a dialect.
//
// Identifiers and string literals are written as-is: strings are wrapped in
// single quotes without escaping, so a value containing a quote produces
// invalid SQL. Fixture definitions are hand-written and changing the rendering
// would change the output of existing definitions.
type StatementBuilder struct {
	Dialect sqlfixture.Dialect
}

// NewStatementBuilder creates a builder for dialect.
func NewStatementBuilder(dialect sqlfixture.Dialect) StatementBuilder {
	return StatementBuilder{Dialect: dialect}
}

// DropTable renders DROP TABLE IF EXISTS.
func (b StatementBuilder) DropTable(name string) string {
	return "DROP TABLE IF EXISTS " + name
}

// CreateTable renders CREATE TABLE with columns in order.
func (b StatementBuilder) CreateTable(name string, columns []Column) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = c.Name + " " + b.TypeName(c.Type)
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(defs, ", "))
}

// Insert renders INSERT INTO ... VALUES for table.Rows[index].
func (b StatementBuilder) Insert(table TableSpec, index int) (string, error) {
	row := table.Rows[index]
	literals := make([]string, len(row))

	for i, v := range row {
		literal, err := RenderLiteral(v)
		if err != nil {
			return "", fmt.Errorf("table %q data[%d] column %s: %w", table.Name, index+1, columnLabel(table.Headers, i), err)
		}

		literals[i] = literal
	}

	return fmt.Sprintf("INSERT INTO %s VALUES (%s)", table.Name, strings.Join(literals, ", ")), nil
}

// columnLabel names the i-th value of a row; rows may be longer than the header.
func columnLabel(headers []string, i int) string {
	if i < len(headers) {
		return strconv.Quote(headers[i])
	}

	return "#" + strconv.Itoa(i+1)
}

// TypeName spells a column type for the dialect. PostgreSQL has no double or
// tinyint(1), so its spelling differs; MySQL and SQLite use the type as is.
func (b StatementBuilder) TypeName(t ColumnType) string {
	if b.Dialect != sqlfixture.DialectPostgres {
		return string(t)
	}

	switch t {
	case ColumnDouble:
		return "double precision"
	case ColumnInt:
		return "integer"
	case ColumnText:
		return "text"
	case ColumnBool:
		return "boolean"
	default:
		return string(t)
	}
}

// RenderLiteral renders a scalar value as a SQL literal.
func RenderLiteral(v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindNull:
		return "NULL", nil
	case value.KindInteger:
		i, _ := v.AsInteger()
		return strconv.FormatInt(i, 10), nil
	case value.KindFloat:
		text, _ := v.FloatText()
		return text, nil
	case value.KindBool:
		b, _ := v.AsBool()
		return strconv.FormatBool(b), nil
	case value.KindString:
		s, _ := v.AsString()
		return "'" + s + "'", nil
	case value.KindSequence, value.KindMapping:
		return "", fmt.Errorf("%w: %s cannot be written as a SQL literal", sqlfixture.ErrUnsupportedRowValue, v.Kind())
	default:
		return "", fmt.Errorf("%w: unknown value kind %s", sqlfixture.ErrUnsupportedRowValue, v.Kind())
	}
}

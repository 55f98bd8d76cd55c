package fixturegen

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/sqlexec"
	"github.com/shibukawa/sqlfixture/value"
	"golang.org/x/text/encoding/unicode"
)

// FixtureType is the type tag written to expected_types.
type FixtureType string

const (
	FixtureInt     FixtureType = "int"
	FixtureFloat64 FixtureType = "float64"
	FixtureString  FixtureType = "string"
)

var fixtureTypes = map[string]FixtureType{
	// Integer types
	"int":         FixtureInt,
	"integer":     FixtureInt,
	"tinyint":     FixtureInt,
	"smallint":    FixtureInt,
	"mediumint":   FixtureInt,
	"bigint":      FixtureInt,
	"int2":        FixtureInt,
	"int4":        FixtureInt,
	"int8":        FixtureInt,
	"serial":      FixtureInt,
	"bigserial":   FixtureInt,
	"smallserial": FixtureInt,

	// Float types
	"float":            FixtureFloat64,
	"double":           FixtureFloat64,
	"double precision": FixtureFloat64,
	"real":             FixtureFloat64,
	"decimal":          FixtureFloat64,
	"numeric":          FixtureFloat64,
	"float4":           FixtureFloat64,
	"float8":           FixtureFloat64,
}

// FixtureTypeOf maps a driver-reported column type to a fixture type tag.
// Anything that is not an integer or float type (text, temporal, binary,
// enum, json, unknown) maps to "string".
func FixtureTypeOf(databaseType string) FixtureType {
	normalized := strings.ToLower(strings.TrimSpace(databaseType))

	// Handle types with parameters (e.g., tinyint(1), numeric(10,2))
	if i := strings.Index(normalized, "("); i >= 0 {
		normalized = strings.TrimSpace(normalized[:i])
	}

	normalized = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(normalized, "unsigned "), " unsigned"))

	if t, ok := fixtureTypes[normalized]; ok {
		return t
	}

	return FixtureString
}

// QueryExecutionError reports a failure of the configured query.
// It matches sqlfixture.ErrQueryExecution with errors.Is.
type QueryExecutionError struct {
	Statement string
	Err       error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", sqlfixture.ErrQueryExecution, e.Statement, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

func (e *QueryExecutionError) Is(target error) bool { return target == sqlfixture.ErrQueryExecution }

// RunQuery executes the query once and returns its raw result.
func RunQuery(ctx context.Context, exec sqlexec.Executor, query string) (*sqlexec.ResultSet, error) {
	result, err := exec.Query(ctx, query)
	if err != nil {
		return nil, &QueryExecutionError{Statement: query, Err: err}
	}

	return result, nil
}

// Result is a query result mapped into the fixture vocabulary.
type Result struct {
	Names []string
	Types []FixtureType
	Rows  [][]value.Value
}

// Materialize converts a raw result into values. Column types only decide the
// type tags; every cell is converted by the kind the driver returned.
func Materialize(rs *sqlexec.ResultSet) (*Result, error) {
	result := &Result{
		Names: make([]string, len(rs.Columns)),
		Types: make([]FixtureType, len(rs.Columns)),
		Rows:  make([][]value.Value, 0, len(rs.Rows)),
	}

	for i, c := range rs.Columns {
		result.Names[i] = c.Name
		result.Types[i] = FixtureTypeOf(c.DatabaseType)
	}

	for r, nativeRow := range rs.Rows {
		if len(nativeRow) != len(rs.Columns) {
			return nil, fmt.Errorf("%w: row %d has %d value(s) for %d column(s)", sqlfixture.ErrUnsupportedResultValue, r, len(nativeRow), len(rs.Columns))
		}

		row := make([]value.Value, len(nativeRow))

		for c, cell := range nativeRow {
			v, err := convertCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %w", sqlfixture.ErrUnsupportedResultValue, r, result.Names[c], err)
			}

			row[c] = v
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func convertCell(cell sqlexec.NativeValue) (value.Value, error) {
	switch cell.Kind {
	case sqlexec.NativeNull:
		return value.Null(), nil
	case sqlexec.NativeBytes:
		return value.String(decodeUTF8(cell.Bytes)), nil
	case sqlexec.NativeSignedInt:
		return value.Integer(cell.Int), nil
	case sqlexec.NativeUnsignedInt:
		if cell.Uint > math.MaxInt64 {
			return value.Value{}, fmt.Errorf("unsigned integer %d overflows int64", cell.Uint)
		}

		return value.Integer(int64(cell.Uint)), nil
	case sqlexec.NativeFloat:
		return value.FloatFromFloat64(cell.Float)
	case sqlexec.NativeBool:
		return value.Bool(cell.Bool), nil
	case sqlexec.NativeOther:
		return value.Value{}, fmt.Errorf("no conversion for %s", cell.TypeName())
	default:
		return value.Value{}, fmt.Errorf("unknown native kind %s", cell.Kind)
	}
}

// decodeUTF8 decodes b as UTF-8, replacing invalid sequences with U+FFFD.
func decodeUTF8(b []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}

	return string(decoded)
}

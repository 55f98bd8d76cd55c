package fixturegen

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/sqlfixture/value"
)

func TestNewDocument(t *testing.T) {
	result := &Result{
		Names: []string{"id", "ratio"},
		Types: []FixtureType{FixtureInt, FixtureFloat64},
		Rows: [][]value.Value{
			{value.Integer(1), value.MustFloat("1.50")},
			{value.Integer(2), value.Null()},
		},
	}

	doc := NewDocument("SELECT id, ratio FROM r", result)
	assert.Equal(t, "SELECT id, ratio FROM r", doc.SQL)
	assert.Equal(t, result.Names, doc.ExpectedNames)
	assert.Equal(t, result.Types, doc.ExpectedTypes)
	assert.Equal(t, result.Rows, doc.Expected)

	entries, ok := doc.Value().Entries()
	assert.True(t, ok)

	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}

	assert.Equal(t, []string{"sql", "expected_names", "expected_types", "expected"}, keys)
}

func TestEncode(t *testing.T) {
	doc := &Document{
		SQL:           "SELECT id, ratio, label FROM r ORDER BY id",
		ExpectedNames: []string{"id", "ratio", "label"},
		ExpectedTypes: []FixtureType{FixtureInt, FixtureFloat64, FixtureString},
		Expected: [][]value.Value{
			{value.Integer(1), value.MustFloat("1.50"), value.String("10")},
			{value.Integer(2), value.Null(), value.String("true")},
		},
	}

	var buf bytes.Buffer
	assert.NoError(t, Encode(&buf, doc))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "sql: SELECT id, ratio, label FROM r ORDER BY id\n"), out)
	assert.Contains(t, out, "1.50")
	assert.NotContains(t, out, `"1.50"`)

	// decoding the output gives back the same values and kinds
	parsed, err := value.Parse(buf.Bytes())
	assert.NoError(t, err)
	assert.Equal(t, doc.Value(), parsed)
}

func TestEncode_EmptyResult(t *testing.T) {
	doc := &Document{
		SQL:           "SELECT value FROM nums WHERE value < 0",
		ExpectedNames: []string{"value"},
		ExpectedTypes: []FixtureType{FixtureInt},
		Expected:      [][]value.Value{},
	}

	var buf bytes.Buffer
	assert.NoError(t, Encode(&buf, doc))

	parsed, err := value.Parse(buf.Bytes())
	assert.NoError(t, err)

	expected, ok := parsed.Lookup("expected")
	assert.True(t, ok)

	rows, ok := expected.Items()
	assert.True(t, ok)
	assert.Equal(t, 0, len(rows))
}

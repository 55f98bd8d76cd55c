package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/fatih/color"
	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/value"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const numsDefinition = `query: SELECT value FROM nums ORDER BY value
tables:
  - name: nums
    data:
      - [value]
      - [2]
      - [1]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func newTestContext(t *testing.T) (*Context, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	return &Context{
		Config: filepath.Join(t.TempDir(), "missing.yaml"),
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

func TestGenerateCmd(t *testing.T) {
	tempDir := t.TempDir()
	input := writeFile(t, tempDir, "nums.yaml", numsDefinition)

	t.Run("Stdout", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &GenerateCmd{Input: input, Driver: "sqlite", DSN: ":memory:"}
		assert.NoError(t, cmd.Run(ctx))

		doc, err := value.Parse(stdout.Bytes())
		assert.NoError(t, err)

		names, _ := doc.Lookup("expected_names")
		assert.Equal(t, value.Sequence(value.String("value")), names)

		types, _ := doc.Lookup("expected_types")
		assert.Equal(t, value.Sequence(value.String("int")), types)

		expected, _ := doc.Lookup("expected")
		assert.Equal(t, value.Sequence(
			value.Sequence(value.Integer(1)),
			value.Sequence(value.Integer(2)),
		), expected)

		assert.True(t, strings.HasPrefix(stdout.String(), "sql: SELECT value FROM nums ORDER BY value\n"))
	})

	t.Run("OutputFile", func(t *testing.T) {
		ctx, stdout, stderr := newTestContext(t)
		output := filepath.Join(tempDir, "nums.fixture.yaml")

		cmd := &GenerateCmd{Input: input, Driver: "sqlite", DSN: ":memory:", Output: output}
		assert.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "", stdout.String())
		assert.Contains(t, stderr.String(), "Fixture written to "+output)

		data, err := os.ReadFile(output)
		assert.NoError(t, err)
		assert.Contains(t, string(data), "expected_types:")
	})

	t.Run("Verbose", func(t *testing.T) {
		ctx, _, stderr := newTestContext(t)
		ctx.Verbose = true

		cmd := &GenerateCmd{Input: input, Driver: "sqlite", DSN: ":memory:"}
		assert.NoError(t, cmd.Run(ctx))
		assert.Contains(t, stderr.String(), "Dialect: sqlite")
		assert.Contains(t, stderr.String(), "Table nums: 1 column(s), 2 row(s)")
	})

	t.Run("FailureWritesNothing", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)
		bad := writeFile(t, tempDir, "bad.yaml", "query: SELECT value FROM missing\ntables:\n  - name: nums\n    data: [[value], [1]]\n")
		output := filepath.Join(tempDir, "bad.fixture.yaml")

		cmd := &GenerateCmd{Input: bad, Driver: "sqlite", DSN: ":memory:", Output: output}
		err := cmd.Run(ctx)
		assert.IsError(t, err, sqlfixture.ErrQueryExecution)
		assert.Equal(t, "", stdout.String())

		_, statErr := os.Stat(output)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("InsufficientData", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)
		bad := writeFile(t, tempDir, "short.yaml", "query: SELECT 1\ntables:\n  - name: t\n    data: [[a]]\n")

		cmd := &GenerateCmd{Input: bad, Driver: "sqlite", DSN: ":memory:"}
		assert.IsError(t, cmd.Run(ctx), sqlfixture.ErrInsufficientTableData)
		assert.Equal(t, "", stdout.String())
	})

	t.Run("InvalidDefinitionBeforeConnecting", func(t *testing.T) {
		// nothing listens on port 1, so reaching the database would fail with a connection error
		unreachable := "root@tcp(127.0.0.1:1)/test"

		tests := []struct {
			name    string
			content string
			target  error
		}{
			{"insufficient data", "query: SELECT 1\ntables:\n  - name: t\n    data: [[a]]\n", sqlfixture.ErrInsufficientTableData},
			{"null sample", "query: SELECT 1\ntables:\n  - name: t\n    data: [[a], [null]]\n", sqlfixture.ErrUnsupportedSampleValue},
			{"tables is a mapping", "query: SELECT 1\ntables:\n  t:\n    data: [[a], [1]]\n", sqlfixture.ErrConfigShape},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				ctx, stdout, _ := newTestContext(t)
				bad := writeFile(t, t.TempDir(), "bad.yaml", tt.content)

				cmd := &GenerateCmd{Input: bad, Driver: "mysql", DSN: unreachable}
				err := cmd.Run(ctx)
				assert.IsError(t, err, tt.target)
				assert.NotIsError(t, err, sqlfixture.ErrDatabaseConnection)
				assert.Equal(t, "", stdout.String())
			})
		}
	})

	t.Run("UnreachableDatabase", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &GenerateCmd{Input: input, Driver: "mysql", DSN: "root@tcp(127.0.0.1:1)/test"}
		assert.IsError(t, cmd.Run(ctx), sqlfixture.ErrDatabaseConnection)
		assert.Equal(t, "", stdout.String())
	})

	t.Run("MissingInput", func(t *testing.T) {
		ctx, _, _ := newTestContext(t)

		cmd := &GenerateCmd{Input: filepath.Join(tempDir, "nope.yaml"), Driver: "sqlite", DSN: ":memory:"}
		assert.IsError(t, cmd.Run(ctx), ErrInputFileRead)
	})
}

func TestGenerateCmd_ResolveDatabaseConnection(t *testing.T) {
	config := &sqlfixture.Config{
		Dialect: "mysql",
		Databases: map[string]sqlfixture.Database{
			"development": {Driver: "postgres", Connection: "postgres://localhost/dev"},
			"nodsn":       {Driver: "mysql"},
		},
	}

	t.Run("FromEnvironment", func(t *testing.T) {
		cmd := &GenerateCmd{Environment: "development"}

		dialect, dsn, err := cmd.resolveDatabaseConnection(config)
		assert.NoError(t, err)
		assert.Equal(t, sqlfixture.DialectPostgres, dialect)
		assert.Equal(t, "postgres://localhost/dev", dsn)
	})

	t.Run("FlagsOverride", func(t *testing.T) {
		cmd := &GenerateCmd{Environment: "development", DSN: "postgres://localhost/other"}

		dialect, dsn, err := cmd.resolveDatabaseConnection(config)
		assert.NoError(t, err)
		assert.Equal(t, sqlfixture.DialectPostgres, dialect)
		assert.Equal(t, "postgres://localhost/other", dsn)
	})

	t.Run("FlagsOnly", func(t *testing.T) {
		cmd := &GenerateCmd{Environment: "unknown", Driver: "sqlite3", DSN: ":memory:"}

		dialect, dsn, err := cmd.resolveDatabaseConnection(config)
		assert.NoError(t, err)
		assert.Equal(t, sqlfixture.DialectSQLite, dialect)
		assert.Equal(t, ":memory:", dsn)
	})

	t.Run("UnknownEnvironment", func(t *testing.T) {
		cmd := &GenerateCmd{Environment: "staging"}

		_, _, err := cmd.resolveDatabaseConnection(config)
		assert.IsError(t, err, sqlfixture.ErrUnknownEnvironment)
	})

	t.Run("EmptyConnection", func(t *testing.T) {
		cmd := &GenerateCmd{Environment: "nodsn"}

		_, _, err := cmd.resolveDatabaseConnection(config)
		assert.IsError(t, err, ErrEmptyConnectionString)
	})

	t.Run("UnsupportedDriver", func(t *testing.T) {
		cmd := &GenerateCmd{Driver: "oracle", DSN: "x"}

		_, _, err := cmd.resolveDatabaseConnection(config)
		assert.IsError(t, err, sqlfixture.ErrUnsupportedDialect)
	})
}

func TestPlanCmd(t *testing.T) {
	input := writeFile(t, t.TempDir(), "nums.yaml", numsDefinition)

	t.Run("PostgreSQL", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &PlanCmd{Input: input, Dialect: "postgres"}
		assert.NoError(t, cmd.Run(ctx))
		assert.Equal(t, strings.Join([]string{
			"DROP TABLE IF EXISTS nums;",
			"CREATE TABLE nums (value integer);",
			"INSERT INTO nums VALUES (2);",
			"INSERT INTO nums VALUES (1);",
			"SELECT value FROM nums ORDER BY value;",
			"",
		}, "\n"), stdout.String())
	})

	t.Run("DefaultDialect", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)

		cmd := &PlanCmd{Input: input}
		assert.NoError(t, cmd.Run(ctx))
		assert.Contains(t, stdout.String(), "CREATE TABLE nums (value int);")
	})

	t.Run("Verbose", func(t *testing.T) {
		ctx, stdout, stderr := newTestContext(t)
		ctx.Verbose = true

		cmd := &PlanCmd{Input: input, Dialect: "sqlite"}
		assert.NoError(t, cmd.Run(ctx))
		assert.Contains(t, stderr.String(), "Table nums: 1 column(s), 4 statement(s)")
		assert.Contains(t, stdout.String(), "SELECT value FROM nums ORDER BY value;")
	})

	t.Run("UnsupportedSample", func(t *testing.T) {
		ctx, stdout, _ := newTestContext(t)
		bad := writeFile(t, t.TempDir(), "bad.yaml", "query: SELECT 1\ntables:\n  - name: t\n    data: [[a], [[1]]]\n")

		cmd := &PlanCmd{Input: bad}
		assert.IsError(t, cmd.Run(ctx), sqlfixture.ErrUnsupportedSampleValue)
		assert.Equal(t, "", stdout.String())
	})
}

func TestVersionCmd(t *testing.T) {
	ctx, stdout, _ := newTestContext(t)

	assert.NoError(t, (&VersionCmd{}).Run(ctx))
	assert.Equal(t, "sqlfixture "+Version+"\n", stdout.String())
}

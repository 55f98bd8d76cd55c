package testhelper

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

var leadingTabs = regexp.MustCompile(`^(\t+)`)

// TrimIndent removes the common indentation of a raw string literal written
// inside test code. The first line (right after the opening backquote) is
// dropped, the indentation of the second line is removed from every line, and
// remaining leading tabs become two spaces each so the text is valid YAML.
func TrimIndent(t *testing.T, src string) string {
	t.Helper()

	lines := strings.Split(src, "\n")
	if len(lines) < 2 {
		return src
	}

	indent := lines[1][:len(lines[1])-len(strings.TrimLeft(lines[1], " \t"))]

	for i, line := range lines {
		line = strings.TrimPrefix(line, indent)
		lines[i] = leadingTabs.ReplaceAllStringFunc(line, func(match string) string {
			return strings.Repeat("  ", len(match))
		})
	}

	return strings.Join(lines[1:], "\n")
}

// OpenSQLite opens a private in-memory SQLite database closed at test cleanup.
// The pool is limited to one connection so every statement sees the same database.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	return db
}

// GetCaller returns the file and line of the caller, for table-driven test messages.
func GetCaller(t *testing.T) string {
	t.Helper()

	_, file, line, ok := runtime.Caller(1)
	if !ok {
		return "unknown"
	}

	return fmt.Sprintf("(%s:%d)", filepath.Base(file), line)
}

package fixturegen

import (
	"context"
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/sqlexec"
	"github.com/shibukawa/sqlfixture/value"
)

func twoTablePlan(t *testing.T) *Plan {
	t.Helper()

	config := &Config{
		Query: "SELECT * FROM a JOIN b ON a.id = b.id",
		Tables: []TableSpec{
			{Name: "a", Headers: []string{"id"}, Rows: [][]value.Value{{value.Integer(1)}, {value.Integer(2)}}},
			{Name: "b", Headers: []string{"id", "label"}, Rows: [][]value.Value{{value.Integer(1), value.String("x")}}},
		},
	}

	plan, err := BuildPlan(config, NewStatementBuilder(sqlfixture.DialectMySQL))
	assert.NoError(t, err)

	return plan
}

func TestPopulate(t *testing.T) {
	recorder := sqlexec.NewRecorder()

	err := Populate(context.Background(), recorder, twoTablePlan(t))
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS a",
		"CREATE TABLE a (id int)",
		"INSERT INTO a VALUES (1)",
		"INSERT INTO a VALUES (2)",
		"DROP TABLE IF EXISTS b",
		"CREATE TABLE b (id int, label text)",
		"INSERT INTO b VALUES (1, 'x')",
	}, recorder.Statements())
}

func TestPopulate_StopsAtFirstFailure(t *testing.T) {
	errDuplicate := errors.New("duplicate entry")

	recorder := sqlexec.NewRecorder()
	recorder.FailOn("INSERT INTO a VALUES (2)", errDuplicate)

	err := Populate(context.Background(), recorder, twoTablePlan(t))
	assert.IsError(t, err, sqlfixture.ErrTableSetup)
	assert.IsError(t, err, errDuplicate)

	var setupErr *TableSetupError
	assert.True(t, errors.As(err, &setupErr))
	assert.Equal(t, "a", setupErr.Table)
	assert.Equal(t, "INSERT INTO a VALUES (2)", setupErr.Statement)
	assert.Equal(t, 2, setupErr.Row)
	assert.Contains(t, err.Error(), `table "a" data[2]: INSERT INTO a VALUES (2): duplicate entry`)

	// nothing after the failing statement is sent
	assert.Equal(t, []string{
		"DROP TABLE IF EXISTS a",
		"CREATE TABLE a (id int)",
		"INSERT INTO a VALUES (1)",
		"INSERT INTO a VALUES (2)",
	}, recorder.Statements())
}

func TestPopulate_DDLFailure(t *testing.T) {
	recorder := sqlexec.NewRecorder()
	recorder.FailOn("CREATE TABLE b (id int, label text)", errors.New("permission denied"))

	err := Populate(context.Background(), recorder, twoTablePlan(t))
	assert.IsError(t, err, sqlfixture.ErrTableSetup)
	assert.Equal(t, `table setup failed: table "b": CREATE TABLE b (id int, label text): permission denied`, err.Error())
}

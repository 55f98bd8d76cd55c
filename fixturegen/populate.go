package fixturegen

import (
	"context"
	"fmt"

	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/sqlexec"
)

// TableSetupError reports the statement that failed while populating a table.
// It matches sqlfixture.ErrTableSetup with errors.Is.
type TableSetupError struct {
	Table     string
	Statement string
	// Row is the data index of a failed INSERT, 0 for DROP/CREATE.
	Row int
	Err error
}

func (e *TableSetupError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: table %q data[%d]: %s: %v", sqlfixture.ErrTableSetup, e.Table, e.Row, e.Statement, e.Err)
	}

	return fmt.Sprintf("%s: table %q: %s: %v", sqlfixture.ErrTableSetup, e.Table, e.Statement, e.Err)
}

func (e *TableSetupError) Unwrap() error { return e.Err }

func (e *TableSetupError) Is(target error) bool { return target == sqlfixture.ErrTableSetup }

// Populate drops, creates and fills every table of the plan in order.
// It stops at the first failing statement; nothing is rolled back.
func Populate(ctx context.Context, exec sqlexec.Executor, plan *Plan) error {
	for _, table := range plan.Tables {
		for _, stmt := range table.Statements {
			if err := exec.Execute(ctx, stmt.SQL); err != nil {
				return &TableSetupError{
					Table:     table.Name,
					Statement: stmt.SQL,
					Row:       stmt.Row,
					Err:       err,
				}
			}
		}
	}

	return nil
}

package fixturegen

import (
	"context"
	"io"

	"github.com/fatih/color"
	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/sqlexec"
	"github.com/shibukawa/sqlfixture/value"
)

var (
	stepFmt    = color.New(color.FgBlue).FprintfFunc()
	detailFmt  = color.New(color.Faint).FprintfFunc()
	successFmt = color.New(color.FgGreen).FprintfFunc()
)

// Generator runs the whole pipeline against one executor:
// extract, plan, populate, query, materialize, assemble.
type Generator struct {
	exec    sqlexec.Executor
	builder StatementBuilder
	verbose io.Writer
}

// NewGenerator creates a generator rendering statements for dialect.
func NewGenerator(exec sqlexec.Executor, dialect sqlfixture.Dialect) *Generator {
	return &Generator{
		exec:    exec,
		builder: NewStatementBuilder(dialect),
		verbose: io.Discard,
	}
}

// SetVerbose writes progress to w. Pass nil to disable.
func (g *Generator) SetVerbose(w io.Writer) {
	if w == nil {
		w = io.Discard
	}

	g.verbose = w
}

// PlanDefinition validates a parsed fixture definition and renders its
// statements for dialect without touching a database.
func PlanDefinition(root value.Value, dialect sqlfixture.Dialect) (*Plan, error) {
	return planWith(root, NewStatementBuilder(dialect))
}

func planWith(root value.Value, builder StatementBuilder) (*Plan, error) {
	config, err := ExtractConfig(root)
	if err != nil {
		return nil, err
	}

	return BuildPlan(config, builder)
}

// Plan validates a parsed fixture definition and renders its statements
// without executing anything.
func (g *Generator) Plan(root value.Value) (*Plan, error) {
	return planWith(root, g.builder)
}

// Generate plans the definition, then runs the plan.
// Any error aborts the run; no partial document is returned.
func (g *Generator) Generate(ctx context.Context, root value.Value) (*Document, error) {
	plan, err := g.Plan(root)
	if err != nil {
		return nil, err
	}

	return g.Run(ctx, plan)
}

// Run populates the database from a validated plan and returns the fixture
// for its query.
func (g *Generator) Run(ctx context.Context, plan *Plan) (*Document, error) {
	for _, table := range plan.Tables {
		stepFmt(g.verbose, "Table %s: %d column(s), %d row(s)\n", table.Name, len(table.Columns), len(table.Statements)-2)

		for _, c := range table.Columns {
			detailFmt(g.verbose, "  %s %s\n", c.Name, g.builder.TypeName(c.Type))
		}
	}

	if err := Populate(ctx, g.exec, plan); err != nil {
		return nil, err
	}

	stepFmt(g.verbose, "Running query\n")

	rs, err := RunQuery(ctx, g.exec, plan.Query)
	if err != nil {
		return nil, err
	}

	result, err := Materialize(rs)
	if err != nil {
		return nil, err
	}

	successFmt(g.verbose, "Fixture generated: %d column(s), %d row(s)\n", len(result.Names), len(result.Rows))

	return NewDocument(plan.Query, result), nil
}

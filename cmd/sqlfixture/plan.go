package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/fixturegen"
)

// PlanCmd represents the plan command
type PlanCmd struct {
	Input   string `arg:"" help:"Fixture definition file (YAML)"`
	Dialect string `help:"SQL dialect (mysql, postgres, sqlite); defaults to config"`
}

// Run executes the plan command. It prints every statement generate would
// send to the database, in order, without connecting to one.
func (cmd *PlanCmd) Run(ctx *Context) error {
	config, err := sqlfixture.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dialect, err := resolveDialect(cmd.Dialect, config)
	if err != nil {
		return err
	}

	root, err := readDefinition(cmd.Input)
	if err != nil {
		return err
	}

	plan, err := fixturegen.PlanDefinition(root, dialect)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		for _, table := range plan.Tables {
			color.New(color.FgBlue).Fprintf(ctx.stderr(), "Table %s: %d column(s), %d statement(s)\n", table.Name, len(table.Columns), len(table.Statements))
		}
	}

	for _, statement := range plan.Statements() {
		fmt.Fprintf(ctx.stdout(), "%s;\n", statement)
	}

	return nil
}

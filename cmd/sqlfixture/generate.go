package main

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/fixturegen"
	"github.com/shibukawa/sqlfixture/sqlexec"
)

// GenerateCmd represents the generate command
type GenerateCmd struct {
	Input       string `arg:"" help:"Fixture definition file (YAML)"`
	Environment string `help:"Database environment to use from config" short:"e" default:"development"`
	Driver      string `help:"Database driver (mysql, postgres, sqlite); overrides the environment"`
	DSN         string `help:"Database connection string; overrides the environment" name:"dsn"`
	Output      string `help:"Output file (default: stdout)" short:"o"`
}

// Run executes the generate command
func (cmd *GenerateCmd) Run(ctx *Context) error {
	config, err := sqlfixture.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	root, err := readDefinition(cmd.Input)
	if err != nil {
		return err
	}

	dialect, dsn, err := cmd.resolveDatabaseConnection(config)
	if err != nil {
		return err
	}

	// the definition is fully validated before any connection is made
	plan, err := fixturegen.PlanDefinition(root, dialect)
	if err != nil {
		return err
	}

	runCtx := context.Background()

	if config.Timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(runCtx, config.Timeout)
		defer cancel()
	}

	if ctx.Verbose {
		fmt.Fprintf(ctx.stderr(), "Input: %s\n", cmd.Input)
		fmt.Fprintf(ctx.stderr(), "Dialect: %s\n", dialect)

		if config.Timeout > 0 {
			fmt.Fprintf(ctx.stderr(), "Timeout: %s\n", config.Timeout)
		}
	}

	db, err := sqlexec.Open(runCtx, dialect, dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	generator := fixturegen.NewGenerator(db, dialect)
	if ctx.Verbose {
		generator.SetVerbose(ctx.stderr())
	}

	doc, err := generator.Run(runCtx, plan)
	if err != nil {
		return err
	}

	// encode fully before writing so a failure never leaves a partial fixture
	var buf bytes.Buffer
	if err := fixturegen.Encode(&buf, doc); err != nil {
		return err
	}

	if cmd.Output == "" {
		_, err := ctx.stdout().Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(cmd.Output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputFileCreation, err)
	}

	if !ctx.Quiet {
		color.New(color.FgGreen).Fprintf(ctx.stderr(), "Fixture written to %s\n", cmd.Output)
	}

	return nil
}

// resolveDatabaseConnection determines dialect and DSN from flags or config.
// Flags take precedence over the selected environment.
func (cmd *GenerateCmd) resolveDatabaseConnection(config *sqlfixture.Config) (sqlfixture.Dialect, string, error) {
	driver, dsn := cmd.Driver, cmd.DSN

	if driver == "" || dsn == "" {
		env, err := config.Environment(cmd.Environment)
		if err != nil {
			return "", "", err
		}

		if driver == "" {
			driver = env.Driver
		}

		if dsn == "" {
			dsn = env.Connection
		}
	}

	if driver == "" {
		driver = config.Dialect
	}

	dialect, err := sqlfixture.ParseDialect(driver)
	if err != nil {
		return "", "", err
	}

	if dsn == "" {
		return "", "", fmt.Errorf("%w: set --dsn or databases.%s.connection", ErrEmptyConnectionString, cmd.Environment)
	}

	return dialect, dsn, nil
}

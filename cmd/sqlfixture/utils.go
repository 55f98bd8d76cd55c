package main

import (
	"fmt"
	"os"

	"github.com/shibukawa/sqlfixture"
	"github.com/shibukawa/sqlfixture/value"
)

// readDefinition reads and parses a fixture definition file
func readDefinition(path string) (value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %w", ErrInputFileRead, err)
	}

	return value.Parse(data)
}

// resolveDialect picks the flag value when given, otherwise the configured dialect
func resolveDialect(flag string, config *sqlfixture.Config) (sqlfixture.Dialect, error) {
	if flag != "" {
		return sqlfixture.ParseDialect(flag)
	}

	return sqlfixture.ParseDialect(config.Dialect)
}

package sqlfixture

import "errors"

// Common errors used throughout the sqlfixture packages
var (
	// Fixture definition errors

	// ErrConfigShape is returned when the fixture definition does not have the expected structure.
	ErrConfigShape = errors.New("invalid fixture definition")
	// ErrInsufficientTableData indicates a table's data lacks the header row or the type-sample row.
	ErrInsufficientTableData = errors.New("table data must have a header row and at least one data row")
	// ErrUnsupportedSampleValue indicates the type-sample row holds a value no column type can be inferred from.
	ErrUnsupportedSampleValue = errors.New("unsupported value in type-sample row")
	// ErrUnsupportedRowValue indicates a data row holds a value that cannot be rendered as a SQL literal.
	ErrUnsupportedRowValue = errors.New("unsupported value in data row")
	// ErrDocumentSyntax indicates the fixture definition could not be read as a YAML document.
	ErrDocumentSyntax = errors.New("failed to parse fixture definition")

	// Database errors

	// ErrTableSetup indicates a DROP/CREATE/INSERT statement failed while populating a table.
	ErrTableSetup = errors.New("table setup failed")
	// ErrQueryExecution indicates the configured query failed.
	ErrQueryExecution = errors.New("query execution failed")
	// ErrUnsupportedResultValue indicates a result cell has a native type with no fixture representation.
	ErrUnsupportedResultValue = errors.New("unsupported value in query result")
	// ErrDatabaseConnection indicates the database could not be opened or reached.
	ErrDatabaseConnection = errors.New("database connection failed")

	// Tool configuration errors

	// ErrUnknownEnvironment indicates the requested database environment is not configured.
	ErrUnknownEnvironment = errors.New("database environment not found in config")
	// ErrUnsupportedDialect indicates a dialect or driver name sqlfixture does not know.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
)

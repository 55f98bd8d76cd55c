package sqlexec

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/shibukawa/sqlfixture"

	// DB drivers
	_ "github.com/jackc/pgx/v5/stdlib" // driver name "pgx" (postgres)
	_ "github.com/mattn/go-sqlite3"
)

// DB executes statements on a single pinned connection.
// It is not safe for concurrent use.
type DB struct {
	db   *sql.DB
	conn *sql.Conn
	own  bool
}

// Open connects to the database of the given dialect and pins one connection.
// For MySQL the DSN is rewritten to parse temporal columns into time.Time.
func Open(ctx context.Context, dialect sqlfixture.Dialect, dsn string) (*DB, error) {
	if dialect == sqlfixture.DialectMySQL {
		var err error

		dsn, err = mysqlDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", sqlfixture.ErrDatabaseConnection, err)
		}
	}

	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sqlfixture.ErrDatabaseConnection, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", sqlfixture.ErrDatabaseConnection, err)
	}

	exec, err := newDB(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	exec.own = true

	return exec, nil
}

// FromDB pins a connection of an existing pool. Close releases the connection
// but leaves the pool open.
func FromDB(ctx context.Context, db *sql.DB) (*DB, error) {
	return newDB(ctx, db)
}

func newDB(ctx context.Context, db *sql.DB) (*DB, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sqlfixture.ErrDatabaseConnection, err)
	}

	return &DB{db: db, conn: conn}, nil
}

func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid MySQL DSN: %w", err)
	}

	cfg.ParseTime = true

	return cfg.FormatDSN(), nil
}

// Execute implements Executor.
func (d *DB) Execute(ctx context.Context, statement string) error {
	_, err := d.conn.ExecContext(ctx, statement)
	return err
}

// Query implements Executor. Cells are scanned into any and classified with Classify.
func (d *DB) Query(ctx context.Context, statement string) (*ResultSet, error) {
	rows, err := d.conn.QueryContext(ctx, statement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to get column types: %w", err)
	}

	result := &ResultSet{
		Columns: make([]Column, len(colTypes)),
		Rows:    make([][]NativeValue, 0),
	}
	for i, ct := range colTypes {
		result.Columns[i] = Column{Name: ct.Name(), DatabaseType: ct.DatabaseTypeName()}
	}

	values := make([]any, len(colTypes))
	scanArgs := make([]any, len(colTypes))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]NativeValue, len(values))
		for i, v := range values {
			row[i] = Classify(v)
		}

		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return result, nil
}

// Close releases the pinned connection, and the pool when Open created it.
func (d *DB) Close() error {
	err := d.conn.Close()
	if d.own {
		if cerr := d.db.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"replmon/internal/config"
)

// TestTable is the replicated table whose row count and max id the monitor
// compares across regions. TxnTable holds the bulk seed data.
const (
	TestTable = "replication_test"
	TxnTable  = "transactions"
)

type dialect interface {
	driverName() string
	dsn(ep config.Endpoint) string
	seedStatements() []string
	insertTestRow() string
}

// Conn is one open connection to a configured endpoint.
type Conn struct {
	region  string
	db      *sql.DB
	dialect dialect
}

func Open(ep config.Endpoint) (*Conn, error) {
	d, err := dialectFor(ep.Type)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(d.driverName(), d.dsn(ep))
	if err != nil {
		return nil, fmt.Errorf("open %s connection for %s: %w", d.driverName(), ep.Region, err)
	}
	return &Conn{region: ep.Region, db: db, dialect: d}, nil
}

func dialectFor(dbType string) (dialect, error) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "postgres", "postgresql":
		return postgresDialect{}, nil
	case "mysql":
		return mysqlDialect{}, nil
	case "mssql", "sqlserver":
		return mssqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}
}

func (c *Conn) Region() string {
	return c.region
}

func (c *Conn) Ping(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w", c.region, err)
	}
	return nil
}

func (c *Conn) RecordCount(ctx context.Context, table string) (int64, error) {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", table)
	if err := c.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count rows in %s on %s: %w", table, c.region, err)
	}
	return count, nil
}

// MaxID reads the maximum id of table, returning 0 for an empty table.
func (c *Conn) MaxID(ctx context.Context, table string) (int64, error) {
	var max sql.NullInt64
	query := fmt.Sprintf("SELECT MAX(id) FROM %s", table)
	if err := c.db.QueryRowContext(ctx, query).Scan(&max); err != nil {
		return 0, fmt.Errorf("max id in %s on %s: %w", table, c.region, err)
	}
	if !max.Valid {
		return 0, nil
	}
	return max.Int64, nil
}

// Seed drops and recreates the monitor tables and inserts the bulk seed
// rows. Destructive; running it twice leaves the same state.
func (c *Conn) Seed(ctx context.Context) error {
	for _, stmt := range c.dialect.seedStatements() {
		if _, err := c.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("seed %s: %w", c.region, err)
		}
	}
	return nil
}

// InsertTestRows writes count timestamped rows into the replicated test
// table, one statement per row.
func (c *Conn) InsertTestRows(ctx context.Context, region string, count int) error {
	stmt := c.dialect.insertTestRow()
	for i := 0; i < count; i++ {
		data := fmt.Sprintf("Test data %d at %s", i, time.Now().Format(time.RFC3339Nano))
		if _, err := c.db.ExecContext(ctx, stmt, region, data); err != nil {
			return fmt.Errorf("insert test row on %s: %w", c.region, err)
		}
	}
	return nil
}

func (c *Conn) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

package store

import (
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"replmon/internal/config"
)

type postgresDialect struct{}

func (postgresDialect) driverName() string {
	return "postgres"
}

func (postgresDialect) dsn(ep config.Endpoint) string {
	port := ep.Port
	if port == 0 {
		port = 5432
	}
	sslMode := strings.ToLower(strings.TrimSpace(ep.SSLMode))
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", ep.Host, port, ep.User, ep.Password, ep.Database, sslMode)
}

func (postgresDialect) seedStatements() []string {
	return []string{
		"DROP TABLE IF EXISTS " + TestTable,
		"DROP TABLE IF EXISTS " + TxnTable,
		"CREATE TABLE " + TestTable + " (id SERIAL PRIMARY KEY, region VARCHAR(50), created_at TIMESTAMP DEFAULT NOW(), data TEXT)",
		"CREATE TABLE " + TxnTable + " (txn_id SERIAL PRIMARY KEY, amount DECIMAL(10,2), created_at TIMESTAMP DEFAULT NOW())",
		"INSERT INTO " + TxnTable + " (amount) SELECT (random() * 1000)::DECIMAL(10,2) FROM generate_series(1, 1000)",
	}
}

func (postgresDialect) insertTestRow() string {
	return "INSERT INTO " + TestTable + " (region, data) VALUES ($1, $2)"
}

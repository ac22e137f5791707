package store

import (
	"fmt"
	"net/url"
	"strings"

	_ "github.com/microsoft/go-mssqldb"

	"replmon/internal/config"
)

type mssqlDialect struct{}

func (mssqlDialect) driverName() string {
	return "sqlserver"
}

func (mssqlDialect) dsn(ep config.Endpoint) string {
	port := ep.Port
	if port == 0 {
		port = 1433
	}
	user := url.QueryEscape(ep.User)
	pass := url.QueryEscape(ep.Password)
	encrypt := "true"
	if strings.ToLower(strings.TrimSpace(ep.SSLMode)) == "disable" {
		encrypt = "disable"
	}
	return fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s&encrypt=%s", user, pass, ep.Host, port, ep.Database, encrypt)
}

func (mssqlDialect) seedStatements() []string {
	return []string{
		"IF OBJECT_ID('" + TestTable + "', 'U') IS NOT NULL DROP TABLE " + TestTable,
		"IF OBJECT_ID('" + TxnTable + "', 'U') IS NOT NULL DROP TABLE " + TxnTable,
		"CREATE TABLE " + TestTable + " (id INT IDENTITY(1,1) PRIMARY KEY, region VARCHAR(50), created_at DATETIME2 DEFAULT SYSUTCDATETIME(), data VARCHAR(MAX))",
		"CREATE TABLE " + TxnTable + " (txn_id INT IDENTITY(1,1) PRIMARY KEY, amount DECIMAL(10,2), created_at DATETIME2 DEFAULT SYSUTCDATETIME())",
		"INSERT INTO " + TxnTable + " (amount) SELECT CAST(ABS(CHECKSUM(NEWID())) % 100000 AS DECIMAL(10,2)) / 100 FROM GENERATE_SERIES(1, 1000)",
	}
}

func (mssqlDialect) insertTestRow() string {
	return "INSERT INTO " + TestTable + " (region, data) VALUES (@p1, @p2)"
}

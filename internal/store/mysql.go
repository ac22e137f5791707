package store

import (
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"replmon/internal/config"
)

type mysqlDialect struct{}

func (mysqlDialect) driverName() string {
	return "mysql"
}

func (mysqlDialect) dsn(ep config.Endpoint) string {
	port := ep.Port
	if port == 0 {
		port = 3306
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", ep.User, ep.Password, ep.Host, port, ep.Database)
	sslMode := strings.ToLower(strings.TrimSpace(ep.SSLMode))
	if sslMode == "disable" {
		dsn += "&tls=false"
	} else if sslMode != "" {
		dsn += "&tls=true"
	}
	return dsn
}

func (mysqlDialect) seedStatements() []string {
	return []string{
		"DROP TABLE IF EXISTS " + TestTable,
		"DROP TABLE IF EXISTS " + TxnTable,
		"CREATE TABLE " + TestTable + " (id INT AUTO_INCREMENT PRIMARY KEY, region VARCHAR(50), created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP, data TEXT)",
		"CREATE TABLE " + TxnTable + " (txn_id INT AUTO_INCREMENT PRIMARY KEY, amount DECIMAL(10,2), created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)",
		"INSERT INTO " + TxnTable + " (amount) WITH RECURSIVE seq (n) AS (SELECT 1 UNION ALL SELECT n + 1 FROM seq WHERE n < 1000) SELECT ROUND(RAND() * 1000, 2) FROM seq",
	}
}

func (mysqlDialect) insertTestRow() string {
	return "INSERT INTO " + TestTable + " (region, data) VALUES (?, ?)"
}

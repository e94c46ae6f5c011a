package database

import (
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Supported drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// OpenDB opens and pings a connection pool for the given driver.
// For "sqlite" the dsn is a file path (or ":memory:").
func OpenDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverMySQL:
		return OpenDBWithDSN(driver, dsn)
	case DriverSQLite:
		return OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// OpenSQLite opens a SQLite database file with WAL and a busy timeout.
func OpenSQLite(path string) (*sql.DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := path
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"
	}

	db, err := OpenDBWithDSN(DriverSQLite, dsn)
	if err != nil {
		return nil, err
	}

	// A single writer; this also keeps ":memory:" to one shared database.
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenDBWithDSN creates and configures a connection pool for any driver.
func OpenDBWithDSN(driver, dsn string) (*sql.DB, error) {
	// 1. Open a new connection pool.
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	// 2. Configure the connection pool settings.
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 3. Ping the database to verify the connection.
	if err := db.Ping(); err != nil {
		log.Printf("Error connecting to %s database: %v", driver, err)
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

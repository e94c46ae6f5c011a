package database

import (
	"context"
	"database/sql"
	"fmt"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		email VARCHAR(191) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		full_name VARCHAR(255) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		slug VARCHAR(191) NOT NULL UNIQUE,
		author VARCHAR(255) NOT NULL DEFAULT '',
		category VARCHAR(255) NOT NULL DEFAULT '',
		price DOUBLE NOT NULL DEFAULT 0,
		list_price DOUBLE NOT NULL DEFAULT 0,
		thumbnail_url TEXT NOT NULL,
		description TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id VARCHAR(64) PRIMARY KEY,
		user_id VARCHAR(64) NOT NULL,
		product_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		price DOUBLE NOT NULL,
		original_price DOUBLE NOT NULL,
		image TEXT NOT NULL,
		description TEXT NOT NULL,
		category VARCHAR(255) NOT NULL,
		brand VARCHAR(255) NOT NULL,
		quantity INT NOT NULL,
		added_at DATETIME NOT NULL,
		INDEX idx_carts_user (user_id)
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		full_name TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		author TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		price REAL NOT NULL DEFAULT 0,
		list_price REAL NOT NULL DEFAULT 0,
		thumbnail_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		original_price REAL NOT NULL,
		image TEXT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		brand TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		added_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_carts_user ON carts (user_id)`,
}

// EnsureSchema creates the backend tables (users, books, carts) if missing.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	statements := sqliteSchema
	if driver == DriverMySQL {
		statements = mysqlSchema
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

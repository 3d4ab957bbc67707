// Package database owns the PostgreSQL connection for the chat service.
package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config carries the connection settings. Entities declare their table
// names explicitly, so no naming strategy is applied here.
type Config struct {
	URL             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogQueries      bool
}

// Connect opens a pooled GORM connection, creating the target database
// first when it does not exist yet.
func Connect(cfg Config) (*gorm.DB, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}

	if err := createDatabaseIfMissing(cfg.URL); err != nil {
		return nil, fmt.Errorf("create database: %w", err)
	}

	level := gormlogger.Warn
	if cfg.LogQueries {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieve sql db: %w", err)
	}

	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	return db, nil
}

// createDatabaseIfMissing connects to the server's maintenance database
// and provisions the target database on first run. DSNs that are not
// URL shaped are left for the driver to reject.
func createDatabaseIfMissing(dsn string) error {
	parsed, err := url.Parse(dsn)
	if err != nil || parsed.Host == "" {
		return nil
	}

	name := strings.TrimPrefix(parsed.Path, "/")
	if name == "" || name == "postgres" {
		return nil
	}

	admin := *parsed
	admin.Path = "/postgres"

	conn, err := sql.Open("postgres", admin.String())
	if err != nil {
		return err
	}
	defer conn.Close()

	var found bool
	if err := conn.QueryRow(
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name,
	).Scan(&found); err != nil {
		return err
	}
	if found {
		return nil
	}

	_, err = conn.Exec("CREATE DATABASE " + pq.QuoteIdentifier(name))
	return err
}

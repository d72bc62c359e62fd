// Package database persists safepulse state in MySQL and applies the
// verification and journey transitions under per-row locks.
package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"

	"safepulse/config"
)

const maxConnectAttempts = 6

// Connect opens the MySQL pool and waits for the server to accept pings.
func Connect(cfg *config.Config) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetConnMaxLifetime(time.Minute * 3)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	waitInterval := 1 * time.Second
	for attempt := 1; ; attempt++ {
		err = db.Ping()
		if err == nil {
			break
		}
		if attempt == maxConnectAttempts {
			db.Close()
			return nil, fmt.Errorf("database unreachable after %d attempts: %w", attempt, err)
		}
		log.WithError(err).Warnf("Database connection failed, retrying in %v", waitInterval)
		time.Sleep(waitInterval)
		waitInterval *= 2
	}

	log.Info("Established db connection")
	return db, nil
}

// Service wraps the connection pool with per-entity queries.
type Service struct {
	db *sql.DB
}

// NewService creates a new database service
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Close closes the database connection
func (s *Service) Close() error {
	return s.db.Close()
}

// encodeStrings stores a string list as a JSON column value.
func encodeStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode string list: %w", err)
	}
	return string(raw), nil
}

// decodeStrings reads a JSON column value back into a string list. A
// malformed value decodes to an empty list.
func decodeStrings(raw string) []string {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		log.Warnf("Malformed string list column %q: %v", raw, err)
		return []string{}
	}
	if values == nil {
		return []string{}
	}
	return values
}

type scanner interface {
	Scan(dest ...interface{}) error
}

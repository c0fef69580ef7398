// database/query_log_store.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gewnthar/covidash/models"
)

const createQueryLogTable = `
CREATE TABLE IF NOT EXISTS query_log (
    id          CHAR(36)     NOT NULL PRIMARY KEY,
    regions     TEXT         NOT NULL,
    start_date  DATE         NOT NULL,
    end_date    DATE         NOT NULL,
    date_count  INT          NOT NULL,
    row_count   INT          NOT NULL,
    outcome     VARCHAR(32)  NOT NULL,
    created_at  DATETIME(3)  NOT NULL,
    INDEX idx_query_log_created_at (created_at)
)`

// QueryLogStore keeps a record of Update actions in MySQL.
type QueryLogStore struct {
	db *sql.DB
}

// NewQueryLogStore wraps db and makes sure the query_log table exists.
func NewQueryLogStore(ctx context.Context, db *sql.DB) (*QueryLogStore, error) {
	if _, err := db.ExecContext(ctx, createQueryLogTable); err != nil {
		return nil, fmt.Errorf("failed to create query_log table: %w", err)
	}
	return &QueryLogStore{db: db}, nil
}

// Ping checks the connection, for health checks.
func (s *QueryLogStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying pool.
func (s *QueryLogStore) Close() error {
	log.Println("Database: Connection closed.")
	return s.db.Close()
}

// SaveQueryLogEntry inserts one entry.
func (s *QueryLogStore) SaveQueryLogEntry(ctx context.Context, e models.QueryLogEntry) error {
	const q = `INSERT INTO query_log
        (id, regions, start_date, end_date, date_count, row_count, outcome, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		e.ID, joinRegions(e.Regions), e.StartDate, e.EndDate,
		e.DateCount, e.RowCount, e.Outcome, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert query log entry %s: %w", e.ID, err)
	}
	return nil
}

// RecentQueryLogEntries returns up to limit entries, newest first.
func (s *QueryLogStore) RecentQueryLogEntries(ctx context.Context, limit int) ([]models.QueryLogEntry, error) {
	const q = `SELECT id, regions, start_date, end_date, date_count, row_count, outcome, created_at
        FROM query_log ORDER BY created_at DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query query_log: %w", err)
	}
	defer rows.Close()

	entries := []models.QueryLogEntry{}
	for rows.Next() {
		var e models.QueryLogEntry
		if err := rows.Scan(&e.ID, &e.RegionsCSV, &e.StartDate, &e.EndDate,
			&e.DateCount, &e.RowCount, &e.Outcome, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan query_log row: %w", err)
		}
		e.Regions = splitRegions(e.RegionsCSV)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating query_log rows: %w", err)
	}
	return entries, nil
}

func joinRegions(regions []string) string {
	return strings.Join(regions, ",")
}

func splitRegions(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}

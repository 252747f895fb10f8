// Package storage persists the per-bank verification attempt log in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abenezerh/birr/internal/common"
	"github.com/abenezerh/birr/internal/model"
	"github.com/abenezerh/birr/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// maxEntriesPerBank caps the attempt log per bank; older rows are pruned on
// insert.
const maxEntriesPerBank = 50

const schema = `
CREATE TABLE IF NOT EXISTS verification_attempts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	bank TEXT NOT NULL,
	transaction_id TEXT NOT NULL DEFAULT '',
	account_number TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_kind TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_attempts_bank ON verification_attempts(bank, id DESC);
`

// SQLiteHistory implements service.HistoryStore using SQLite.
type SQLiteHistory struct {
	db *sql.DB
}

var _ service.HistoryStore = (*SQLiteHistory)(nil)

// NewSQLiteHistory opens (creating if needed) the history database at dbPath.
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("history database path is empty")
	}

	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteHistory{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteHistory) Close() error {
	return s.db.Close()
}

// Append records a new attempt and prunes the bank's log down to the cap.
func (s *SQLiteHistory) Append(ctx context.Context, entry model.HistoryEntry) (int64, error) {
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	status := entry.Status
	if status == "" {
		status = model.AttemptPending
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO verification_attempts (bank, transaction_id, account_number, status, error_kind, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Bank, entry.TransactionID, entry.AccountNumber, status, string(entry.ErrorKind), createdAt)
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read attempt id: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM verification_attempts
		 WHERE bank = ? AND id NOT IN (
			SELECT id FROM verification_attempts WHERE bank = ? ORDER BY id DESC LIMIT ?
		 )`,
		entry.Bank, entry.Bank, maxEntriesPerBank)
	if err != nil {
		return 0, fmt.Errorf("failed to prune attempts: %w", err)
	}
	return id, nil
}

// List returns the bank's attempts, most recent first.
func (s *SQLiteHistory) List(ctx context.Context, bank model.Bank) ([]model.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, bank, transaction_id, account_number, status, error_kind, created_at
		 FROM verification_attempts
		 WHERE bank = ?
		 ORDER BY id DESC
		 LIMIT ?`,
		bank, maxEntriesPerBank)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var entries []model.HistoryEntry
	for rows.Next() {
		var entry model.HistoryEntry
		var errorKind string
		if err := rows.Scan(&entry.ID, &entry.Bank, &entry.TransactionID, &entry.AccountNumber,
			&entry.Status, &errorKind, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		entry.ErrorKind = model.ErrorKind(errorKind)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read attempts: %w", err)
	}
	return entries, nil
}

// UpdateStatus resolves a pending attempt in place.
func (s *SQLiteHistory) UpdateStatus(ctx context.Context, bank model.Bank, id int64, status model.AttemptStatus, errorKind model.ErrorKind) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE verification_attempts SET status = ?, error_kind = ? WHERE bank = ? AND id = ?`,
		status, string(errorKind), bank, id)
	if err != nil {
		return fmt.Errorf("failed to update attempt %d: %w", id, err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("attempt %d for %s: %w", id, bank, common.ErrNotFound)
	}
	return nil
}

// RecentValues returns distinct non-empty values of a field for a bank, most
// recently used first, for autocomplete suggestions.
func (s *SQLiteHistory) RecentValues(ctx context.Context, bank model.Bank, field string, limit int) ([]string, error) {
	var column string
	switch field {
	case service.FieldTransactionID:
		column = "transaction_id"
	case service.FieldAccountNumber:
		column = "account_number"
	default:
		return nil, fmt.Errorf("unknown history field %q", field)
	}
	if limit <= 0 {
		limit = 10
	}

	query := fmt.Sprintf(
		`SELECT %s FROM verification_attempts
		 WHERE bank = ? AND %s != ''
		 GROUP BY %s
		 ORDER BY MAX(id) DESC
		 LIMIT ?`, column, column, column)

	rows, err := s.db.QueryContext(ctx, query, bank, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent values: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	return values, nil
}

// Clear removes a bank's attempt log.
func (s *SQLiteHistory) Clear(ctx context.Context, bank model.Bank) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM verification_attempts WHERE bank = ?`, bank)
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

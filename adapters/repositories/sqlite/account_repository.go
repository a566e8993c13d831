// Package sqlite exports the final ledger into a SQLite file
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DieracDelta/toy-txs/domain/models"
	"github.com/DieracDelta/toy-txs/domain/repositories"
)

// AccountRepository implements repositories.AccountRepository on SQLite.
// Balances are stored as text so no precision is lost.
type AccountRepository struct {
	db *sql.DB
}

var _ repositories.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository opens (or creates) the database at path
func NewAccountRepository(path string) (*AccountRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create tables if they don't exist
	if err := initializeDatabase(db); err != nil {
		db.Close()
		return nil, err
	}

	return &AccountRepository{db: db}, nil
}

func initializeDatabase(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			run_id TEXT NOT NULL,
			client INTEGER NOT NULL,
			available TEXT NOT NULL,
			held TEXT NOT NULL,
			total TEXT NOT NULL,
			locked INTEGER NOT NULL,
			exported_at TEXT NOT NULL,
			PRIMARY KEY (run_id, client)
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create accounts table: %w", err)
	}
	return nil
}

// SaveAll writes rows in a single transaction; a failure leaves nothing behind
func (r *AccountRepository) SaveAll(ctx context.Context, runID string, rows []models.AccountSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin export: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO accounts
		(run_id, client, available, held, total, locked, exported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare export: %w", err)
	}
	defer stmt.Close()

	exportedAt := time.Now().UTC().Format(time.RFC3339)
	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, runID, int(row.ClientID),
			row.Available.String(), row.Held.String(), row.Total.String(),
			row.Locked, exportedAt); err != nil {
			return fmt.Errorf("failed to export client %d: %w", row.ClientID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit export: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByRun(ctx context.Context, runID string) ([]models.AccountSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT client, available, held, total, locked
		FROM accounts WHERE run_id = ? ORDER BY client
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var result []models.AccountSnapshot
	for rows.Next() {
		var (
			client                 int
			available, held, total string
			locked                 bool
		)
		if err := rows.Scan(&client, &available, &held, &total, &locked); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		snap := models.AccountSnapshot{ClientID: uint16(client), Locked: locked}
		if snap.Available, err = models.ParseAmount(available); err != nil {
			return nil, fmt.Errorf("client %d available: %w", client, err)
		}
		if snap.Held, err = models.ParseAmount(held); err != nil {
			return nil, fmt.Errorf("client %d held: %w", client, err)
		}
		if snap.Total, err = models.ParseAmount(total); err != nil {
			return nil, fmt.Errorf("client %d total: %w", client, err)
		}
		result = append(result, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read accounts: %w", err)
	}
	return result, nil
}

// Close closes the database connection
func (r *AccountRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

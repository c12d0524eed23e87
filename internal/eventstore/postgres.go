package eventstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists event logs in an append-only account_events table.
//
// Expected schema:
//
//	CREATE TABLE account_events (
//	    id         UUID PRIMARY KEY,
//	    account_id TEXT NOT NULL,
//	    seq        BIGSERIAL,
//	    kind       TEXT NOT NULL,
//	    payload    JSONB NOT NULL,
//	    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//	CREATE INDEX account_events_account_seq ON account_events (account_id, seq);
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgres constructs a Postgres-backed event store.
func NewPostgres(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Append inserts a single event row. The insert commits or fails as a unit.
func (s *PostgresStore) Append(ctx context.Context, accountID string, rec Record) error {
	if accountID == "" {
		return ErrInvalidAccountID
	}

	_, err := s.db.Exec(ctx, `INSERT INTO account_events (id, account_id, kind, payload)
        VALUES ($1, $2, $3, $4)`, uuid.New(), accountID, rec.Kind, rec.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}
	return nil
}

// ReadAll returns the account's events ordered by insertion sequence.
func (s *PostgresStore) ReadAll(ctx context.Context, accountID string) ([]Record, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}

	rows, err := s.db.Query(ctx, `SELECT kind, payload FROM account_events
        WHERE account_id = $1 ORDER BY seq`, accountID)
	if err != nil {
		return nil, fmt.Errorf("read events %s: %w", accountID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.Kind, &rec.Data); err != nil {
			return nil, fmt.Errorf("scan event %s: %w", accountID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events %s: %w", accountID, err)
	}
	return records, nil
}

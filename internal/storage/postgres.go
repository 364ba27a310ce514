package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore persists snapshots in a PostgreSQL table.
type PostgresStore struct {
	db *sql.DB
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, err
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		key        TEXT PRIMARY KEY,
		version    INT NOT NULL,
		state      JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshots table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (ps *PostgresStore) Save(ctx context.Context, snap *Snapshot) error {
	_, err := ps.db.ExecContext(ctx,
		`INSERT INTO snapshots (key, version, state, updated_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO UPDATE SET
		   version = EXCLUDED.version,
		   state = EXCLUDED.state,
		   updated_at = EXCLUDED.updated_at`,
		snap.Key, snap.Version, []byte(snap.State), snap.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.Key, err)
	}
	return nil
}

func (ps *PostgresStore) Load(ctx context.Context, key string) (*Snapshot, error) {
	snap := &Snapshot{Key: key}
	var state []byte
	err := ps.db.QueryRowContext(ctx,
		"SELECT version, state, updated_at FROM snapshots WHERE key = $1",
		key,
	).Scan(&snap.Version, &state, &snap.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot %s: %w", key, err)
	}
	snap.State = state
	return snap, nil
}

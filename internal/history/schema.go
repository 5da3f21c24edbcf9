package history

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is stored in SQLite's user_version header field. A fresh
// database reports 0.
const schemaVersion = 1

// ErrSchemaMismatch is returned by Open when the ledger was written by a
// different storyreel release.
var ErrSchemaMismatch = errors.New("history schema version mismatch")

func (s *Store) initSchema(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read history schema version: %w", err)
	}
	switch version {
	case schemaVersion:
		return nil
	case 0:
		return s.createSchema(ctx)
	default:
		return fmt.Errorf("%w: %s has version %d, this build expects %d; move it aside to start a new history",
			ErrSchemaMismatch, s.path, version, schemaVersion)
	}
}

// createSchema runs the DDL and stamps the version in one transaction so a
// half-created ledger is never left behind.
func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("create history schema: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{schemaSQL, fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create history schema: %w", err)
		}
	}
	return tx.Commit()
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

type CaptureRepository struct {
	db *sql.DB
}

func NewCaptureRepository(db *sql.DB) *CaptureRepository {
	return &CaptureRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *CaptureRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026090101)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS captures (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	storage_path TEXT NOT NULL,
	location TEXT,
	status TEXT NOT NULL,
	error_message TEXT,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_captures_status ON captures(status);
CREATE INDEX IF NOT EXISTS idx_captures_created_at ON captures(created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *CaptureRepository) Create(ctx context.Context, capture *domain.Capture) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO captures (id, filename, mime_type, storage_path, location, status, error_message, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		capture.ID,
		capture.Filename,
		capture.MimeType,
		capture.StoragePath,
		capture.Location,
		string(capture.Status),
		capture.Error,
		capture.CreatedAt,
		capture.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert capture: %w", err)
	}
	return nil
}

func (r *CaptureRepository) GetByID(ctx context.Context, id string) (*domain.Capture, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, filename, mime_type, storage_path, COALESCE(location, ''), status, COALESCE(error_message, ''), created_at, updated_at
FROM captures
WHERE id = $1`, id)

	var capture domain.Capture
	var status string
	err := row.Scan(
		&capture.ID,
		&capture.Filename,
		&capture.MimeType,
		&capture.StoragePath,
		&capture.Location,
		&status,
		&capture.Error,
		&capture.CreatedAt,
		&capture.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.WrapError(domain.ErrCaptureNotFound, "get capture", err)
	}
	if err != nil {
		return nil, fmt.Errorf("scan capture: %w", err)
	}
	capture.Status = domain.CaptureStatus(status)
	return &capture, nil
}

func (r *CaptureRepository) UpdateStatus(ctx context.Context, id string, status domain.CaptureStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE captures
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1`,
		id, string(status), errMessage, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("update capture status: %w", err)
	}
	return r.requireRow(result, id)
}

func (r *CaptureRepository) MarkSaved(ctx context.Context, id, location string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE captures
SET status = $2, location = $3, error_message = '', updated_at = $4
WHERE id = $1`,
		id, string(domain.CaptureSaved), location, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("mark capture saved: %w", err)
	}
	return r.requireRow(result, id)
}

func (r *CaptureRepository) requireRow(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrCaptureNotFound, "update capture", fmt.Errorf("no capture %s", id))
	}
	return nil
}

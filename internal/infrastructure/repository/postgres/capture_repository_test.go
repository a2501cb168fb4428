package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

func newMockRepo(t *testing.T) (*CaptureRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCaptureRepository(db), mock
}

func TestCaptureRepositoryCreate(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	capture := &domain.Capture{
		ID:          "cap-1",
		Filename:    "leads.txt",
		MimeType:    "text/plain",
		StoragePath: "cap-1_leads.txt",
		Status:      domain.CaptureUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	mock.ExpectExec(`INSERT INTO captures`).
		WithArgs("cap-1", "leads.txt", "text/plain", "cap-1_leads.txt", "", "uploaded", "", now, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), capture); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCaptureRepositoryGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "filename", "mime_type", "storage_path", "location", "status", "error_message", "created_at", "updated_at",
	}).AddRow("cap-1", "leads.txt", "text/plain", "cap-1_leads.txt", "", "processing", "", now, now)

	mock.ExpectQuery(`SELECT .* FROM captures`).WithArgs("cap-1").WillReturnRows(rows)

	capture, err := repo.GetByID(context.Background(), "cap-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if capture.Status != domain.CaptureProcessing {
		t.Fatalf("status = %q, want processing", capture.Status)
	}
	if capture.Filename != "leads.txt" {
		t.Fatalf("filename = %q", capture.Filename)
	}
}

func TestCaptureRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM captures`).WithArgs("missing").WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCaptureNotFound) {
		t.Fatalf("err = %v, want ErrCaptureNotFound", err)
	}
}

func TestCaptureRepositoryUpdateStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE captures`).
		WithArgs("cap-1", "failed", "enrichment unavailable", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "cap-1", domain.CaptureFailed, "enrichment unavailable")
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
}

func TestCaptureRepositoryUpdateStatusNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE captures`).
		WithArgs("missing", "processing", "", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", domain.CaptureProcessing, "")
	if !errors.Is(err, domain.ErrCaptureNotFound) {
		t.Fatalf("err = %v, want ErrCaptureNotFound", err)
	}
}

func TestCaptureRepositoryMarkSaved(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE captures`).
		WithArgs("cap-1", "saved", "/data/exports/AI_Data_2026-09-01.xlsx", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkSaved(context.Background(), "cap-1", "/data/exports/AI_Data_2026-09-01.xlsx")
	if err != nil {
		t.Fatalf("MarkSaved: %v", err)
	}
}

package ports

import (
	"context"
	"io"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

// RecordAnalyzer is the inbound contract for turning raw text into a
// structured record. The caller holds the record and decides whether to
// discard it or hand it to a RecordSaver.
type RecordAnalyzer interface {
	Analyze(ctx context.Context, text string) (*domain.Record, error)
}

// RecordSaver appends one finalized record to the current period's table.
type RecordSaver interface {
	Save(ctx context.Context, record *domain.Record) (domain.SaveReceipt, error)
}

// StoreOpener resolves the table file for a period key. A blank key means
// the current period; the key actually opened is returned alongside the
// location so callers can report it.
type StoreOpener interface {
	OpenStore(ctx context.Context, periodKey string) (location, resolvedKey string, err error)
}

// CaptureIngestor is the inbound contract for raw document upload.
type CaptureIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Capture, error)
}

// CaptureReader is the inbound read model for capture state.
type CaptureReader interface {
	GetByID(ctx context.Context, id string) (*domain.Capture, error)
}

// CaptureProcessor runs the full pipeline for one stored capture.
type CaptureProcessor interface {
	ProcessByID(ctx context.Context, captureID string) error
}

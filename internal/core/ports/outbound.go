package ports

import (
	"context"
	"io"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

// LineParser extracts label:value candidates from individual lines.
type LineParser interface {
	Parse(text string) []domain.FieldCandidate
}

// PatternMatcher runs the rule-based matchers over the full input text.
type PatternMatcher interface {
	Match(text string) []domain.FieldCandidate
}

// EntityEnricher supplies additional field candidates from an external
// model. Its result is treated opaquely and never overrides fields already
// resolved by earlier strategies. Failures are soft.
type EntityEnricher interface {
	Enrich(ctx context.Context, text string) (map[string]string, error)
}

// TableStore appends one record to a period-scoped table.
type TableStore interface {
	Append(ctx context.Context, record *domain.Record, columns []string, periodKey string) (domain.SaveReceipt, error)
	// Locate returns the table file for a period key, or ErrStoreNotFound.
	Locate(periodKey string) (string, error)
}

// FieldLedger persists per-field observation counts and first-seen order
// so the schema survives process restarts.
type FieldLedger interface {
	Learn(fields []string) error
	Known() ([]string, error)
}

// CaptureRepository persists and reads capture state.
type CaptureRepository interface {
	Create(ctx context.Context, capture *domain.Capture) error
	GetByID(ctx context.Context, id string) (*domain.Capture, error)
	UpdateStatus(ctx context.Context, id string, status domain.CaptureStatus, errMessage string) error
	MarkSaved(ctx context.Context, id, location string) error
}

// ObjectStorage stores raw captured documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Path resolves a key to its on-disk location for readers that need
	// random access (PDF parsing).
	Path(key string) string
}

// MessageQueue publishes/consumes capture events.
type MessageQueue interface {
	PublishCaptureUploaded(ctx context.Context, captureID string) error
	SubscribeCaptureUploaded(ctx context.Context, handler func(context.Context, string) error) error
}

// TextSource loads raw UTF-8 text for a stored capture.
type TextSource interface {
	Load(ctx context.Context, capture *domain.Capture) (string, error)
}

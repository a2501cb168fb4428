package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput rejects blank text: user-correctable, no record is
	// produced and nothing is written.
	ErrEmptyInput = errors.New("empty input")
	// ErrEnrichmentUnavailable is soft: extraction proceeds with pattern
	// and key:value coverage only.
	ErrEnrichmentUnavailable = errors.New("enrichment unavailable")
	ErrStoreNotFound         = errors.New("store not found")
	ErrCaptureNotFound       = errors.New("capture not found")
	ErrInvalidInput          = errors.New("invalid input")
	ErrTemporary             = errors.New("temporary failure")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}

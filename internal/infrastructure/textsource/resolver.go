// Package textsource turns stored captures back into raw UTF-8 text.
// Plain text and PDF are supported; images/OCR and DOCX are out of scope
// and handled upstream by whoever produced the capture.
package textsource

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/ports"
)

// Resolver picks the loader by the capture's original file extension.
// Anything that is not a PDF is treated as plain text and validated as
// UTF-8.
type Resolver struct {
	storage ports.ObjectStorage
}

func NewResolver(storage ports.ObjectStorage) *Resolver {
	return &Resolver{storage: storage}
}

func (r *Resolver) Load(ctx context.Context, capture *domain.Capture) (string, error) {
	switch strings.ToLower(filepath.Ext(capture.Filename)) {
	case ".pdf":
		text, err := readPDF(r.storage.Path(capture.StoragePath))
		if err != nil {
			return "", fmt.Errorf("read pdf %s: %w", capture.Filename, err)
		}
		return text, nil
	default:
		return r.readPlain(ctx, capture)
	}
}

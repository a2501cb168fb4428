package usecase

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/ports"
)

type IngestCaptureUseCase struct {
	repo    ports.CaptureRepository
	storage ports.ObjectStorage
	queue   ports.MessageQueue
}

func NewIngestCaptureUseCase(
	repo ports.CaptureRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
) *IngestCaptureUseCase {
	return &IngestCaptureUseCase{
		repo:    repo,
		storage: storage,
		queue:   queue,
	}
}

func (uc *IngestCaptureUseCase) Upload(
	ctx context.Context,
	filename, mimeType string,
	body io.Reader,
) (*domain.Capture, error) {
	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))
	now := time.Now().UTC()

	if err := uc.storage.Save(ctx, storageKey, body); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	capture := &domain.Capture{
		ID:          id,
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: storageKey,
		Status:      domain.CaptureUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.repo.Create(ctx, capture); err != nil {
		return nil, fmt.Errorf("create capture metadata: %w", err)
	}

	if err := uc.queue.PublishCaptureUploaded(ctx, capture.ID); err != nil {
		return nil, fmt.Errorf("publish capture event: %w", err)
	}

	return capture, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "capture.bin"
	}
	return base
}

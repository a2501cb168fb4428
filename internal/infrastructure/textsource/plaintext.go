package textsource

import (
	"context"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

func (r *Resolver) readPlain(ctx context.Context, capture *domain.Capture) (string, error) {
	reader, err := r.storage.Open(ctx, capture.StoragePath)
	if err != nil {
		return "", fmt.Errorf("open capture: %w", err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("read capture: %w", err)
	}

	if !utf8.Valid(raw) {
		return "", domain.WrapError(domain.ErrInvalidInput, "read capture",
			fmt.Errorf("unsupported binary format: %s", capture.Filename))
	}
	return strings.TrimSpace(string(raw)), nil
}

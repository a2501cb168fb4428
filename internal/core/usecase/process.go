package usecase

import (
	"context"
	"fmt"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/ports"
)

// ProcessCaptureUseCase runs the full pipeline for one stored capture:
// load its text, analyze it into a record, append the record to the daily
// table, and track status transitions along the way.
type ProcessCaptureUseCase struct {
	repo     ports.CaptureRepository
	source   ports.TextSource
	analyzer ports.RecordAnalyzer
	saver    ports.RecordSaver
}

func NewProcessCaptureUseCase(
	repo ports.CaptureRepository,
	source ports.TextSource,
	analyzer ports.RecordAnalyzer,
	saver ports.RecordSaver,
) *ProcessCaptureUseCase {
	return &ProcessCaptureUseCase{
		repo:     repo,
		source:   source,
		analyzer: analyzer,
		saver:    saver,
	}
}

func (uc *ProcessCaptureUseCase) ProcessByID(ctx context.Context, captureID string) error {
	if err := uc.repo.UpdateStatus(ctx, captureID, domain.CaptureProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	receipt, err := uc.pipeline(ctx, captureID)
	if err != nil {
		if failErr := uc.markFailed(ctx, captureID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.MarkSaved(ctx, captureID, receipt.Location); err != nil {
		return fmt.Errorf("set status=saved: %w", err)
	}
	return nil
}

func (uc *ProcessCaptureUseCase) pipeline(ctx context.Context, captureID string) (domain.SaveReceipt, error) {
	capture, err := uc.repo.GetByID(ctx, captureID)
	if err != nil {
		return domain.SaveReceipt{}, fmt.Errorf("fetch capture by id: %w", err)
	}

	text, err := uc.source.Load(ctx, capture)
	if err != nil {
		return domain.SaveReceipt{}, fmt.Errorf("load capture text: %w", err)
	}

	record, err := uc.analyzer.Analyze(ctx, text)
	if err != nil {
		return domain.SaveReceipt{}, fmt.Errorf("analyze capture text: %w", err)
	}

	receipt, err := uc.saver.Save(ctx, record)
	if err != nil {
		return domain.SaveReceipt{}, fmt.Errorf("save extracted record: %w", err)
	}
	return receipt, nil
}

func (uc *ProcessCaptureUseCase) markFailed(ctx context.Context, captureID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.repo.UpdateStatus(ctx, captureID, domain.CaptureFailed, processErr.Error())
}

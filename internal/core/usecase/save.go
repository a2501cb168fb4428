package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/ports"
)

// SaveRecordUseCase appends a finalized record to the current day's table
// and feeds the field ledger so the schema survives restarts.
type SaveRecordUseCase struct {
	store  ports.TableStore
	ledger ports.FieldLedger
	schema *domain.Schema
	now    func() time.Time
}

func NewSaveRecordUseCase(
	store ports.TableStore,
	ledger ports.FieldLedger,
	schema *domain.Schema,
	now func() time.Time,
) *SaveRecordUseCase {
	if now == nil {
		now = time.Now
	}
	return &SaveRecordUseCase{
		store:  store,
		ledger: ledger,
		schema: schema,
		now:    now,
	}
}

func (uc *SaveRecordUseCase) Save(ctx context.Context, record *domain.Record) (domain.SaveReceipt, error) {
	if record == nil || record.Len() == 0 {
		return domain.SaveReceipt{}, domain.WrapError(domain.ErrEmptyInput, "save record", errors.New("record has no fields"))
	}

	uc.schema.Add(record.Fields()...)
	periodKey := uc.now().UTC().Format("2006-01-02")

	receipt, err := uc.store.Append(ctx, record, uc.schema.Columns(), periodKey)
	if err != nil {
		return domain.SaveReceipt{}, fmt.Errorf("append record: %w", err)
	}
	if receipt.Recovered {
		slog.Warn("recovered_from_corrupt_table",
			"location", receipt.Location,
			"period_key", receipt.PeriodKey,
		)
	}

	// Ledger persistence is soft: a failed write costs restart memory, not
	// the record itself.
	if err := uc.ledger.Learn(record.Fields()); err != nil {
		slog.Warn("field_ledger_write_failed", "error", err)
	}

	return receipt, nil
}

// OpenStore resolves the table file for a period key, defaulting to the
// current day when the key is blank. The resolved key is returned so the
// caller can name the period it actually opened.
func (uc *SaveRecordUseCase) OpenStore(_ context.Context, periodKey string) (string, string, error) {
	if periodKey == "" {
		periodKey = uc.now().UTC().Format("2006-01-02")
	}
	location, err := uc.store.Locate(periodKey)
	if err != nil {
		return "", "", fmt.Errorf("locate table for %s: %w", periodKey, err)
	}
	return location, periodKey, nil
}

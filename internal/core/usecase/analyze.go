package usecase

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/ports"
)

// AnalyzeTextUseCase turns raw unstructured text into a single record by
// running the extraction strategies in precedence order: explicit
// label:value lines first, then rule patterns, then the entity enricher.
// Earlier strategies always win a contested field.
type AnalyzeTextUseCase struct {
	lines    ports.LineParser
	patterns ports.PatternMatcher
	enricher ports.EntityEnricher
	schema   *domain.Schema
	now      func() time.Time
}

// NewAnalyzeTextUseCase wires the extraction pipeline. enricher may be nil,
// which disables the enrichment pass entirely.
func NewAnalyzeTextUseCase(
	lines ports.LineParser,
	patterns ports.PatternMatcher,
	enricher ports.EntityEnricher,
	schema *domain.Schema,
	now func() time.Time,
) *AnalyzeTextUseCase {
	if now == nil {
		now = time.Now
	}
	return &AnalyzeTextUseCase{
		lines:    lines,
		patterns: patterns,
		enricher: enricher,
		schema:   schema,
		now:      now,
	}
}

func (uc *AnalyzeTextUseCase) Analyze(ctx context.Context, text string) (*domain.Record, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, domain.WrapError(domain.ErrEmptyInput, "analyze text", errors.New("blank text"))
	}

	record := domain.NewRecord()
	for _, candidate := range uc.lines.Parse(trimmed) {
		record.SetIfAbsent(candidate.Field, candidate.Value)
	}
	for _, candidate := range uc.patterns.Match(trimmed) {
		record.SetIfAbsent(candidate.Field, candidate.Value)
	}
	uc.enrich(ctx, trimmed, record)

	// Date and Notes are stamped by the pipeline itself and overwrite
	// anything the strategies proposed under those names.
	record.Set(domain.FieldDate, uc.now().UTC().Format("2006-01-02"))
	record.Set(domain.FieldNotes, trimmed)

	uc.schema.Add(record.Fields()...)
	return record, nil
}

// enrich merges enricher output at the lowest precedence. Enricher failure
// never fails the analysis: the record keeps its deterministic coverage.
func (uc *AnalyzeTextUseCase) enrich(ctx context.Context, text string, record *domain.Record) {
	if uc.enricher == nil {
		return
	}
	fields, err := uc.enricher.Enrich(ctx, text)
	if err != nil {
		slog.Warn("enrichment_skipped", "error", err)
		return
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		record.SetIfAbsent(name, strings.TrimSpace(fields[name]))
	}
}

// Package excel persists extracted records as one workbook per period
// key. Appending is load-modify-rewrite: the xlsx format cannot be
// extended in place, so the whole table is rebuilt and swapped in with a
// rename.
package excel

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/kdworks/dataclerk/internal/core/domain"
)

const sheetName = "Sheet1"

type Store struct {
	dir    string
	prefix string
}

func New(dir, prefix string) (*Store, error) {
	if dir == "" {
		dir = "./data/exports"
	}
	if prefix == "" {
		prefix = "AI_Data_"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &Store{dir: dir, prefix: prefix}, nil
}

func (s *Store) path(periodKey string) string {
	return filepath.Join(s.dir, s.prefix+periodKey+".xlsx")
}

// Locate resolves the workbook for a period key.
func (s *Store) Locate(periodKey string) (string, error) {
	path := s.path(periodKey)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", domain.WrapError(domain.ErrStoreNotFound, "locate table", err)
		}
		return "", fmt.Errorf("stat table: %w", err)
	}
	return path, nil
}

// Append reconciles the existing header with the current schema, projects
// the record onto the union, and rewrites the workbook. A table that
// cannot be read is not fatal: the record becomes the sole row of a fresh
// table and the receipt carries the Recovered warning.
func (s *Store) Append(ctx context.Context, record *domain.Record, columns []string, periodKey string) (domain.SaveReceipt, error) {
	if err := ctx.Err(); err != nil {
		return domain.SaveReceipt{}, err
	}

	path := s.path(periodKey)
	header, rows, recovered := s.loadExisting(path)
	cols := unionColumns(header, columns)

	out := excelize.NewFile()
	defer out.Close()

	if err := out.SetSheetRow(sheetName, "A1", rowValues(cols)); err != nil {
		return domain.SaveReceipt{}, fmt.Errorf("write header: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := out.SetSheetRow(sheetName, cell, rowValues(row)); err != nil {
			return domain.SaveReceipt{}, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	lastCell := fmt.Sprintf("A%d", len(rows)+2)
	if err := out.SetSheetRow(sheetName, lastCell, rowValues(record.Project(cols))); err != nil {
		return domain.SaveReceipt{}, fmt.Errorf("write appended row: %w", err)
	}

	if err := s.rewrite(out, path); err != nil {
		return domain.SaveReceipt{}, err
	}
	return domain.SaveReceipt{
		Location:  path,
		PeriodKey: periodKey,
		Recovered: recovered,
	}, nil
}

// loadExisting returns the current header and data rows. Any read failure
// other than the file not existing means the table is treated as corrupt:
// recovered is reported true and prior rows are abandoned.
func (s *Store) loadExisting(path string) (header []string, rows [][]string, recovered bool) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, false
		}
		return nil, nil, true
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, true
	}
	defer f.Close()

	all, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, true
	}
	if len(all) == 0 {
		return nil, nil, false
	}
	return all[0], all[1:], false
}

func (s *Store) rewrite(f *excelize.File, path string) error {
	tmp := path + ".tmp.xlsx"
	if err := f.SaveAs(tmp); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace table: %w", err)
	}
	return nil
}

// unionColumns keeps the loaded header's order intact and appends any
// schema columns it does not already have. Existing columns are never
// reordered or dropped, so old and new records coexist in one table.
func unionColumns(header, schema []string) []string {
	out := make([]string, 0, len(header)+len(schema))
	seen := make(map[string]struct{}, len(header)+len(schema))
	for _, col := range header {
		if col == "" {
			continue
		}
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	for _, col := range schema {
		if _, ok := seen[col]; ok {
			continue
		}
		seen[col] = struct{}{}
		out = append(out, col)
	}
	return out
}

func rowValues(cells []string) *[]any {
	values := make([]any, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}
	return &values
}

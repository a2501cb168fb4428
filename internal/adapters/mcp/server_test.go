package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/usecase"
	"github.com/kdworks/dataclerk/internal/infrastructure/registry/jsonfile"
	"github.com/kdworks/dataclerk/internal/infrastructure/rules"
	"github.com/kdworks/dataclerk/internal/infrastructure/store/excel"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()

	store, err := excel.New(dir, "AI_Data_")
	if err != nil {
		t.Fatalf("excel.New: %v", err)
	}
	ledger, err := jsonfile.New(filepath.Join(dir, "learning_db.json"))
	if err != nil {
		t.Fatalf("jsonfile.New: %v", err)
	}

	clock := func() time.Time { return time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC) }
	cfg := rules.DefaultLabelConfig()
	schema := domain.NewSchema(domain.CoreFields()...)
	analyzeUC := usecase.NewAnalyzeTextUseCase(rules.NewLineParser(cfg), rules.NewLibrary(), nil, schema, clock)
	saveUC := usecase.NewSaveRecordUseCase(store, ledger, schema, clock)

	return NewServer(analyzeUC, saveUC)
}

func toolRequest(args map[string]any) mcptypes.CallToolRequest {
	req := mcptypes.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textContent(t *testing.T, result *mcptypes.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	text, ok := result.Content[0].(mcptypes.TextContent)
	if !ok {
		t.Fatalf("content type %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestAnalyzeTextTool(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleAnalyzeText(context.Background(), toolRequest(map[string]any{
		"text": "Name: Ravi Kumar\nPhone: 9876543210",
	}))
	if err != nil {
		t.Fatalf("handleAnalyzeText: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", textContent(t, result))
	}

	var resp struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal([]byte(textContent(t, result)), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Fields["Name"] != "Ravi Kumar" {
		t.Fatalf("Name = %q", resp.Fields["Name"])
	}
	if resp.Fields["Phone"] != "9876543210" {
		t.Fatalf("Phone = %q", resp.Fields["Phone"])
	}
}

func TestAnalyzeTextToolEmptyInput(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleAnalyzeText(context.Background(), toolRequest(map[string]any{"text": "   "}))
	if err != nil {
		t.Fatalf("handleAnalyzeText: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error for blank text")
	}
}

func TestSaveRecordTool(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleSaveRecord(context.Background(), toolRequest(map[string]any{
		"fields": map[string]any{"Name": "Asha", "Age": "29"},
	}))
	if err != nil {
		t.Fatalf("handleSaveRecord: %v", err)
	}
	if result.IsError {
		t.Fatalf("tool error: %s", textContent(t, result))
	}

	var receipt domain.SaveReceipt
	if err := json.Unmarshal([]byte(textContent(t, result)), &receipt); err != nil {
		t.Fatalf("decode receipt: %v", err)
	}
	if receipt.PeriodKey != "2026-09-01" {
		t.Fatalf("period key = %q", receipt.PeriodKey)
	}

	located, err := srv.handleOpenStore(context.Background(), toolRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handleOpenStore: %v", err)
	}
	if located.IsError {
		t.Fatalf("open store error: %s", textContent(t, located))
	}
	if !strings.HasSuffix(textContent(t, located), "AI_Data_2026-09-01.xlsx") {
		t.Fatalf("location = %q", textContent(t, located))
	}
}

func TestOpenStoreToolMissingTable(t *testing.T) {
	srv := newTestServer(t)

	result, err := srv.handleOpenStore(context.Background(), toolRequest(map[string]any{"period": "2026-08-31"}))
	if err != nil {
		t.Fatalf("handleOpenStore: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected tool error for missing table")
	}
}

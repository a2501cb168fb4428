// Package mcp exposes the extraction pipeline over the Model Context
// Protocol so desktop assistants can analyze text and file records through
// stdio tooling.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kdworks/dataclerk/internal/core/domain"
	"github.com/kdworks/dataclerk/internal/core/usecase"
)

type Server struct {
	analyzeUC *usecase.AnalyzeTextUseCase
	saveUC    *usecase.SaveRecordUseCase
}

func NewServer(analyzeUC *usecase.AnalyzeTextUseCase, saveUC *usecase.SaveRecordUseCase) *Server {
	return &Server{
		analyzeUC: analyzeUC,
		saveUC:    saveUC,
	}
}

// MCPServer builds the protocol server with every tool registered.
func (s *Server) MCPServer(version string) *server.MCPServer {
	if version == "" {
		version = "dev"
	}

	mcpServer := server.NewMCPServer(
		"dataclerk",
		version,
		server.WithToolCapabilities(false),
	)

	mcpServer.AddTool(mcp.NewTool("analyze_text",
		mcp.WithDescription("Extract a structured record from unstructured text. Returns field/value pairs without persisting anything."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw text to analyze"),
		),
	), s.handleAnalyzeText)

	mcpServer.AddTool(mcp.NewTool("save_record",
		mcp.WithDescription("Append a record of field/value pairs to the current day's export table."),
		mcp.WithObject("fields",
			mcp.Required(),
			mcp.Description("Field name to value mapping"),
		),
	), s.handleSaveRecord)

	mcpServer.AddTool(mcp.NewTool("open_store",
		mcp.WithDescription("Resolve the export table file for a period key (YYYY-MM-DD). Defaults to today."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("period",
			mcp.Description("Period key in YYYY-MM-DD form"),
		),
	), s.handleOpenStore)

	return mcpServer
}

// ServeStdio blocks serving the stdio transport until the process exits.
func (s *Server) ServeStdio(version string) error {
	return server.ServeStdio(s.MCPServer(version))
}

func (s *Server) handleAnalyzeText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text is required"), nil
	}

	record, err := s.analyzeUC.Analyze(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(map[string]any{
		"fields":      record.Map(),
		"field_order": record.Fields(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleSaveRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["fields"].(map[string]any)
	if !ok || len(raw) == 0 {
		return mcp.NewToolResultError("fields object is required"), nil
	}

	fields := make(map[string]string, len(raw))
	for name, value := range raw {
		text, ok := value.(string)
		if !ok {
			text = fmt.Sprintf("%v", value)
		}
		fields[name] = text
	}

	receipt, err := s.saveUC.Save(ctx, domain.RecordFromMap(fields))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	payload, err := json.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("marshal receipt: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func (s *Server) handleOpenStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	period := ""
	if p, err := req.RequireString("period"); err == nil {
		period = p
	}

	location, _, err := s.saveUC.OpenStore(ctx, period)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(location), nil
}

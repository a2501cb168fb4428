package main

import (
	"log"
	"log/slog"
	"os"

	mcpadapter "github.com/kdworks/dataclerk/internal/adapters/mcp"
	"github.com/kdworks/dataclerk/internal/bootstrap"
	"github.com/kdworks/dataclerk/internal/config"
)

var version = "dev"

func main() {
	cfg := config.Load()
	// stdout carries the protocol stream, so logs go to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)).With("service", "mcp"))

	core, err := bootstrap.NewCore(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	srv := mcpadapter.NewServer(core.AnalyzeUC, core.SaveUC)
	if err := srv.ServeStdio(version); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}

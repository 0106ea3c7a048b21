// Command indesign-mcp serves the InDesign text tools over stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"indesign-mcp/internal/indesign"
	"indesign-mcp/internal/server"
)

func main() {
	// stdout carries protocol frames; everything else goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bridge := indesign.New(cfg.Apps, cfg.ScriptTimeout, cfg.ScriptDir, nil)
	srv := server.NewStdio(server.NewToolset(bridge), os.Stdin, os.Stdout)

	slog.Info("indesign-mcp listening on stdio", "apps", len(bridge.Apps()))
	if err := srv.Serve(ctx); err != nil && ctx.Err() == nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

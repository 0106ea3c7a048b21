// Command indesign-mcp-http starts the MCP HTTP server.
package main

import (
	"log/slog"
	"net/http"
	"os"

	"indesign-mcp/internal/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}
	if cfg.Token == "" {
		slog.Warn("MCP_TOKEN not set; endpoints will be open. Set MCP_TOKEN to secure.")
	}

	srv := server.New(cfg)
	slog.Info("Starting MCP HTTP server", "port", cfg.Port)

	certFile := os.Getenv("TLS_CERT_FILE")
	keyFile := os.Getenv("TLS_KEY_FILE")
	if certFile != "" && keyFile != "" {
		slog.Info("TLS enabled: using provided certificate and key")
		err = http.ListenAndServeTLS(":"+cfg.Port, certFile, keyFile, srv.Router())
	} else {
		slog.Warn("TLS_CERT_FILE/TLS_KEY_FILE not set; serving plain HTTP. Run behind a TLS-terminating proxy for remote access.")
		err = http.ListenAndServe(":"+cfg.Port, srv.Router())
	}
	if err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

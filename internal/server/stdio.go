package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "indesign-mcp"
	serverVersion   = "1.0.0"
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

type rpcRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StdioServer carries the tool-calling protocol as newline-delimited
// JSON-RPC over a stdin/stdout pair. Logging must go to stderr; stdout is
// reserved for protocol frames.
type StdioServer struct {
	tools *Toolset
	in    io.Reader
	out   io.Writer
}

// NewStdio returns a stdio server for the given toolset and streams.
func NewStdio(tools *Toolset, in io.Reader, out io.Writer) *StdioServer {
	return &StdioServer{tools: tools, in: in, out: out}
}

// Serve reads requests until EOF or context cancellation. Requests without
// an id are notifications and get no response.
func (s *StdioServer) Serve(ctx context.Context) error {
	dec := json.NewDecoder(s.in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req rpcRequest
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			// A malformed frame poisons the decoder state; report and stop.
			s.writeError(nil, codeParseError, "parse error")
			return fmt.Errorf("decoding request: %w", err)
		}
		s.dispatch(ctx, req)
	}
}

func (s *StdioServer) dispatch(ctx context.Context, req rpcRequest) {
	notification := len(req.ID) == 0 || string(req.ID) == "null"

	switch req.Method {
	case "initialize":
		s.writeResult(req.ID, map[string]any{
			"protocolVersion": protocolVersion,
			"capabilities":    map[string]any{"tools": map[string]any{}},
			"serverInfo":      map[string]any{"name": serverName, "version": serverVersion},
		})
	case "notifications/initialized", "notifications/cancelled":
		// Notifications carry no response.
	case "ping":
		s.writeResult(req.ID, map[string]any{})
	case "tools/list":
		s.writeResult(req.ID, map[string]any{"tools": s.tools.List()})
	case "tools/call":
		var call CallRequest
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &call); err != nil {
				if !notification {
					s.writeError(req.ID, codeInvalidParams, "invalid params")
				}
				return
			}
		}
		text := s.tools.Call(ctx, call.Name, call.Args)
		slog.Info("tool call", "tool", call.Name)
		if !notification {
			s.writeResult(req.ID, textResult(text))
		}
	default:
		if !notification {
			s.writeError(req.ID, codeMethodNotFound, "method not found: "+req.Method)
		}
	}
}

func (s *StdioServer) writeResult(id json.RawMessage, result any) {
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *StdioServer) writeError(id json.RawMessage, code int, message string) {
	s.write(rpcResponse{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *StdioServer) write(resp rpcResponse) {
	if err := json.NewEncoder(s.out).Encode(resp); err != nil {
		slog.Error("writing response", "error", err)
	}
}

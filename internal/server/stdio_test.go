package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

type stdioResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

func serveStdio(t *testing.T, bridge scriptRunner, input string) []stdioResponse {
	t.Helper()
	var out bytes.Buffer
	srv := NewStdio(NewToolset(bridge), strings.NewReader(input), &out)
	if err := srv.Serve(context.Background()); err != nil {
		t.Fatalf("serve error: %v", err)
	}
	var responses []stdioResponse
	dec := json.NewDecoder(&out)
	for dec.More() {
		var resp stdioResponse
		if err := dec.Decode(&resp); err != nil {
			t.Fatalf("invalid response frame: %v", err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestStdioSession(t *testing.T) {
	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"indesign_status","arguments":{}}}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
	}, "\n") + "\n"

	responses := serveStdio(t, okBridge("=== InDesign Status ===\nDocuments open: 0"), input)
	if len(responses) != 4 {
		t.Fatalf("expected 4 responses (notification is silent), got %d", len(responses))
	}

	var init struct {
		ProtocolVersion string `json:"protocolVersion"`
		ServerInfo      struct {
			Name string `json:"name"`
		} `json:"serverInfo"`
	}
	if err := json.Unmarshal(responses[0].Result, &init); err != nil {
		t.Fatal(err)
	}
	if init.ProtocolVersion != "2024-11-05" || init.ServerInfo.Name != "indesign-mcp" {
		t.Errorf("unexpected initialize result: %+v", init)
	}

	var list struct {
		Tools []Tool `json:"tools"`
	}
	if err := json.Unmarshal(responses[1].Result, &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Tools) != 5 {
		t.Errorf("expected 5 tools, got %d", len(list.Tools))
	}

	var call CallResult
	if err := json.Unmarshal(responses[2].Result, &call); err != nil {
		t.Fatal(err)
	}
	if len(call.Content) != 1 || call.Content[0].Type != "text" {
		t.Fatalf("expected one text content block, got %+v", call.Content)
	}
	if call.Content[0].Text != "=== InDesign Status ===\nDocuments open: 0" {
		t.Errorf("unexpected call text %q", call.Content[0].Text)
	}
	if call.IsError {
		t.Error("tool results are always success-shaped")
	}

	if string(responses[3].Result) == "" {
		t.Error("ping should return an empty result object")
	}
}

func TestStdioUnknownToolIsTextResult(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"bogus","arguments":{}}}` + "\n"
	responses := serveStdio(t, okBridge("ok"), input)
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("unknown tools must not be protocol errors: %+v", responses[0].Error)
	}
	var call CallResult
	if err := json.Unmarshal(responses[0].Result, &call); err != nil {
		t.Fatal(err)
	}
	if call.Content[0].Text != "Unknown tool: bogus" {
		t.Errorf("unexpected text %q", call.Content[0].Text)
	}
}

func TestStdioBridgeFailureStaysSuccessShaped(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"indesign_status","arguments":{}}}` + "\n"
	responses := serveStdio(t, failBridge("Could not find InDesign application"), input)
	if responses[0].Error != nil {
		t.Fatalf("bridge failures must not be protocol errors: %+v", responses[0].Error)
	}
	var call CallResult
	if err := json.Unmarshal(responses[0].Result, &call); err != nil {
		t.Fatal(err)
	}
	if call.Content[0].Text != "Error checking InDesign status: Could not find InDesign application" {
		t.Errorf("unexpected text %q", call.Content[0].Text)
	}
}

func TestStdioUnknownMethod(t *testing.T) {
	input := `{"jsonrpc":"2.0","id":9,"method":"resources/list"}` + "\n"
	responses := serveStdio(t, okBridge("ok"), input)
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if responses[0].Error == nil || responses[0].Error.Code != codeMethodNotFound {
		t.Errorf("expected method-not-found error, got %+v", responses[0].Error)
	}
}

func TestStdioParseError(t *testing.T) {
	var out bytes.Buffer
	srv := NewStdio(NewToolset(okBridge("ok")), strings.NewReader("{not json\n"), &out)
	if err := srv.Serve(context.Background()); err == nil {
		t.Fatal("expected serve to report the malformed stream")
	}
	var resp stdioResponse
	if err := json.NewDecoder(&out).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error == nil || resp.Error.Code != codeParseError {
		t.Errorf("expected parse error response, got %+v", resp.Error)
	}
}

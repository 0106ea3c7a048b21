package server

import (
	"context"
	"fmt"
	"strings"

	"indesign-mcp/internal/indesign"
)

// scriptRunner is the seam between the tool handlers and the osascript
// bridge; tests substitute it to script outcomes without InDesign.
type scriptRunner interface {
	Run(ctx context.Context, script string) indesign.Outcome
}

// Toolset builds the ExtendScript command for each tool, runs it through the
// bridge, and formats the outcome as one human-readable text result.
type Toolset struct {
	bridge   scriptRunner
	handlers map[string]func(ctx context.Context, args map[string]any) string
}

// NewToolset wires the five tool handlers onto the given bridge.
func NewToolset(bridge scriptRunner) *Toolset {
	t := &Toolset{bridge: bridge}
	t.handlers = map[string]func(context.Context, map[string]any) string{
		"add_text":          t.addText,
		"update_text":       t.updateText,
		"remove_text":       t.removeText,
		"get_document_text": t.documentText,
		"indesign_status":   t.status,
	}
	return t
}

// List returns the tool descriptors in declaration order.
func (t *Toolset) List() []Tool {
	return []Tool{
		{
			Name:        "add_text",
			Description: "Add text to an InDesign document",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "The text to add to the document",
					},
					"position": map[string]any{
						"type":        "string",
						"description": "Position to add text (start, end, or after_selection)",
						"enum":        []string{"start", "end", "after_selection"},
						"default":     "end",
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "update_text",
			Description: "Update existing text in an InDesign document",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"find_text": map[string]any{
						"type":        "string",
						"description": "Text to find and replace",
					},
					"replace_text": map[string]any{
						"type":        "string",
						"description": "Text to replace with",
					},
					"all_occurrences": map[string]any{
						"type":        "boolean",
						"description": "Replace all occurrences or just the first",
						"default":     false,
					},
				},
				"required": []string{"find_text", "replace_text"},
			},
		},
		{
			Name:        "remove_text",
			Description: "Remove text from an InDesign document",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Text to remove from the document",
					},
					"all_occurrences": map[string]any{
						"type":        "boolean",
						"description": "Remove all occurrences or just the first",
						"default":     false,
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        "get_document_text",
			Description: "Get all text content from the active InDesign document",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "indesign_status",
			Description: "Check InDesign application status and document information",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}

// Call dispatches one invocation and always returns exactly one text result.
// Unknown tool names are an informational result, not an error.
func (t *Toolset) Call(ctx context.Context, name string, args map[string]any) string {
	handler, ok := t.handlers[name]
	if !ok {
		return fmt.Sprintf("Unknown tool: %s", name)
	}
	return handler(ctx, args)
}

func (t *Toolset) addText(ctx context.Context, args map[string]any) string {
	text, ok := stringArg(args, "text")
	if !ok {
		return `Error adding text: missing required argument "text"`
	}
	position := stringArgDefault(args, "position", indesign.PositionEnd)
	out := t.bridge.Run(ctx, indesign.AddTextScript(text, position))
	if msg, failed := failureText(out); failed {
		return "Error adding text: " + msg
	}
	return fmt.Sprintf("Successfully added text: '%s'", text)
}

func (t *Toolset) updateText(ctx context.Context, args map[string]any) string {
	find, ok := stringArg(args, "find_text")
	if !ok {
		return `Error updating text: missing required argument "find_text"`
	}
	replace, ok := stringArg(args, "replace_text")
	if !ok {
		return `Error updating text: missing required argument "replace_text"`
	}
	all := boolArgDefault(args, "all_occurrences", false)
	out := t.bridge.Run(ctx, indesign.UpdateTextScript(find, replace, all))
	if msg, failed := failureText(out); failed {
		return "Error updating text: " + msg
	}
	return "Successfully updated text: " + out.Output
}

func (t *Toolset) removeText(ctx context.Context, args map[string]any) string {
	text, ok := stringArg(args, "text")
	if !ok {
		return `Error removing text: missing required argument "text"`
	}
	all := boolArgDefault(args, "all_occurrences", false)
	out := t.bridge.Run(ctx, indesign.RemoveTextScript(text, all))
	if msg, failed := failureText(out); failed {
		return "Error removing text: " + msg
	}
	return "Successfully removed text: " + out.Output
}

func (t *Toolset) documentText(ctx context.Context, _ map[string]any) string {
	out := t.bridge.Run(ctx, indesign.DocumentTextScript())
	if msg, failed := failureText(out); failed {
		return "Error getting document text: " + msg
	}
	return "Document text content:\n" + out.Output
}

func (t *Toolset) status(ctx context.Context, _ map[string]any) string {
	out := t.bridge.Run(ctx, indesign.StatusScript())
	if !out.Success {
		return "Error checking InDesign status: " + out.Err
	}
	// The status script folds its own faults into the status text.
	return out.Output
}

// failureText folds bridge failures and script-reported errors into one
// error string. The second return is false when the operation succeeded.
func failureText(out indesign.Outcome) (string, bool) {
	if !out.Success {
		return out.Err, true
	}
	if strings.HasPrefix(out.Output, indesign.ScriptErrorPrefix) {
		return strings.TrimPrefix(out.Output, indesign.ScriptErrorPrefix), true
	}
	return "", false
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key].(string)
	return v, ok
}

func stringArgDefault(args map[string]any, key, def string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return def
}

func boolArgDefault(args map[string]any, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

// Package indesign builds ExtendScript commands for Adobe InDesign and
// executes them through the osascript automation bridge.
package indesign

import (
	"fmt"
	"strings"
)

// Insertion positions accepted by AddTextScript.
const (
	PositionStart          = "start"
	PositionEnd            = "end"
	PositionAfterSelection = "after_selection"
)

// ScriptErrorPrefix marks script output that reports a failure detected
// inside InDesign (precondition checks, scripting faults). The scripts
// evaluate to such a string instead of raising, so osascript still exits 0.
const ScriptErrorPrefix = "Error: "

var scriptEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeString makes s safe to embed in an ExtendScript double-quoted
// string literal.
func EscapeString(s string) string { return scriptEscaper.Replace(s) }

// AddTextScript builds a command that inserts text into the first story of
// the active document. "start" targets the first insertion point; "end" and
// "after_selection" both target the last one.
func AddTextScript(text, position string) string {
	point := "story.insertionPoints[-1]"
	if position == PositionStart {
		point = "story.insertionPoints[0]"
	}
	return fmt.Sprintf(`try {
    if (app.documents.length === 0) {
        throw new Error("No documents are open in InDesign. Please open a document first.");
    }
    var doc = app.activeDocument;
    if (!doc) {
        throw new Error("No active document found. Please make sure a document is active.");
    }
    if (doc.stories.length === 0) {
        throw new Error("Document has no text stories. Please add a text frame first.");
    }
    var story = doc.stories[0];
    var insertionPoint = %s;
    insertionPoint.contents = "%s";
    "Text added successfully to " + doc.name;
} catch (e) {
    "Error: " + e.message;
}`, point, EscapeString(text))
}

// UpdateTextScript builds a grep find/replace command over the active
// document. When all is false, changeGrep stops after the first match.
func UpdateTextScript(find, replace string, all bool) string {
	return grepScript(find, replace, all, "Replaced", "in")
}

// RemoveTextScript is UpdateTextScript with an empty replacement.
func RemoveTextScript(text string, all bool) string {
	return grepScript(text, "", all, "Removed", "from")
}

func grepScript(find, replace string, all bool, verb, preposition string) string {
	return fmt.Sprintf(`try {
    if (app.documents.length === 0) {
        throw new Error("No documents are open in InDesign. Please open a document first.");
    }
    var doc = app.activeDocument;
    if (!doc) {
        throw new Error("No active document found.");
    }
    app.findGrepPreferences = NothingEnum.nothing;
    app.changeGrepPreferences = NothingEnum.nothing;
    app.findGrepPreferences.findWhat = "%s";
    app.changeGrepPreferences.changeTo = "%s";
    var found = doc.changeGrep(%t);
    app.findGrepPreferences = NothingEnum.nothing;
    app.changeGrepPreferences = NothingEnum.nothing;
    "%s " + found.length + " occurrence(s) %s " + doc.name;
} catch (e) {
    "Error: " + e.message;
}`, EscapeString(find), EscapeString(replace), all, verb, preposition)
}

// DocumentTextScript builds a command that concatenates every story of the
// active document, each under a 1-based "Story N:" label. Documents without
// stories evaluate to a no-text-content message instead.
func DocumentTextScript() string {
	return `try {
    if (app.documents.length === 0) {
        throw new Error("No documents are open in InDesign. Please open a document first.");
    }
    var doc = app.activeDocument;
    if (!doc) {
        throw new Error("No active document found.");
    }
    if (doc.stories.length === 0) {
        "Document '" + doc.name + "' has no text content.";
    } else {
        var allText = "=== Content from '" + doc.name + "' ===\n\n";
        for (var i = 0; i < doc.stories.length; i++) {
            allText += "Story " + (i + 1) + ":\n";
            allText += doc.stories[i].contents + "\n\n";
        }
        allText;
    }
} catch (e) {
    "Error: " + e.message;
}`
}

// StatusScript builds a command that reports the application name and
// version, the open document count, and details of the active document when
// one is open. Scripting faults are folded into the status text rather than
// reported as errors.
func StatusScript() string {
	return `try {
    var status = "=== InDesign Status ===\n";
    status += "Application: " + app.name + " " + app.version + "\n";
    status += "Documents open: " + app.documents.length + "\n";

    if (app.documents.length > 0) {
        var doc = app.activeDocument;
        status += "Active document: " + doc.name + "\n";
        status += "Document stories: " + doc.stories.length + "\n";
        status += "Document pages: " + doc.pages.length + "\n";

        if (doc.stories.length > 0) {
            status += "\nFirst story preview: " + doc.stories[0].contents.substring(0, 100) + "...\n";
        }
    } else {
        status += "\nNo documents are currently open.\n";
        status += "Please open or create a document in InDesign.\n";
    }

    status;
} catch (e) {
    "Error checking InDesign status: " + e.message;
}`
}

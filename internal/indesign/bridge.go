package indesign

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultApps lists the candidate application identifiers tried in order.
// The process name varies by release year and edition; the plain name comes
// last as the catch-all.
var DefaultApps = []string{
	"Adobe InDesign 2025",
	"Adobe InDesign 2024",
	"Adobe InDesign 2023",
	"Adobe InDesign CC 2024",
	"Adobe InDesign CC 2023",
	"Adobe InDesign",
}

// DefaultTimeout bounds each candidate invocation.
const DefaultTimeout = 30 * time.Second

const noAppError = "Could not find InDesign application"

// Outcome is the single result of one script execution. Output is set on
// success, Err otherwise; exactly one Outcome is produced per invocation.
type Outcome struct {
	Success bool
	Output  string
	Err     string
}

// Runner executes one external command and returns captured stdout and
// stderr. It exists so tests can exercise the candidate fallback without a
// running InDesign.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)

// Bridge executes ExtendScript in InDesign by writing the script to a
// per-invocation temp file and asking each candidate application in turn to
// run it via osascript.
type Bridge struct {
	apps      []string
	timeout   time.Duration
	scriptDir string
	runner    Runner
}

// New returns a Bridge. Zero values fall back to the defaults; runner may be
// nil to use the real osascript invocation.
func New(apps []string, timeout time.Duration, scriptDir string, runner Runner) *Bridge {
	if len(apps) == 0 {
		apps = DefaultApps
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if scriptDir == "" {
		scriptDir = os.TempDir()
	}
	if runner == nil {
		runner = runCommand
	}
	return &Bridge{apps: apps, timeout: timeout, scriptDir: scriptDir, runner: runner}
}

// Apps returns the candidate list the bridge tries, in order.
func (b *Bridge) Apps() []string { return append([]string(nil), b.apps...) }

// Run executes the script and folds whatever happens, including faults in
// the attempt sequence itself, into exactly one Outcome. The temp file is
// removed on every path.
func (b *Bridge) Run(ctx context.Context, script string) Outcome {
	path := filepath.Join(b.scriptDir, "indesign_script_"+uuid.NewString()+".jsx")
	if err := os.WriteFile(path, []byte(script), 0o600); err != nil {
		return Outcome{Err: "writing script file: " + err.Error()}
	}
	defer os.Remove(path)

	var lastErr string
	for _, app := range b.apps {
		attemptCtx, cancel := context.WithTimeout(ctx, b.timeout)
		stdout, stderr, err := b.runner(attemptCtx, "osascript", "-e", doScriptCommand(app, path))
		cancel()
		if err == nil {
			return Outcome{Success: true, Output: strings.TrimSpace(stdout)}
		}
		slog.Debug("candidate application failed", "app", app, "error", err)
		if msg := strings.TrimSpace(stderr); msg != "" {
			lastErr = msg
		}
		if ctx.Err() != nil {
			return Outcome{Err: "script execution timed out"}
		}
	}
	if lastErr == "" {
		lastErr = noAppError
	}
	return Outcome{Err: lastErr}
}

func doScriptCommand(app, path string) string {
	return fmt.Sprintf("tell application %q to do script alias POSIX file %q language javascript", app, path)
}

func runCommand(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolateConfigDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func runCapture(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(args, strings.NewReader(input), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunWithoutArgsPrintsUsage(t *testing.T) {
	out, _, err := runCapture(t, "")
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out, "taskmaster usage:") {
		t.Fatalf("expected usage in output: %q", out)
	}
}

func TestRunUnknownCommandFails(t *testing.T) {
	_, errOut, err := runCapture(t, "", "frobnicate")
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if !strings.Contains(errOut, "taskmaster usage:") {
		t.Fatalf("expected usage on stderr: %q", errOut)
	}
}

func TestRunUIPreviewShowsSeedData(t *testing.T) {
	isolateConfigDir(t)

	out, _, err := runCapture(t, "", "ui", "--preview")
	if err != nil {
		t.Fatalf("ui --preview failed: %v", err)
	}
	for _, want := range []string{"TaskMaster", "[ Tasks ]", "Initialize frontend", "total=1 done=0 low=0 medium=0 high=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRunUIPreviewNoSeedWithSQLBackends(t *testing.T) {
	isolateConfigDir(t)

	out, _, err := runCapture(t, "",
		"ui", "--preview", "--no-seed",
		"--task-backend", "sqlite",
		"--user-backend", "gorm",
		"--filter", "medium",
	)
	if err != nil {
		t.Fatalf("ui --preview failed: %v", err)
	}
	if !strings.Contains(out, "no tasks") {
		t.Fatalf("expected empty-state in output: %q", out)
	}
	if !strings.Contains(out, "[ Medium ]") {
		t.Fatalf("expected medium filter tab active: %q", out)
	}
}

func TestRunUIInteractiveScript(t *testing.T) {
	isolateConfigDir(t)

	script := "add-task high 2025-11 Write tests\nfilter high\nusers\nrm-user 1\nq\n"
	out, _, err := runCapture(t, script, "ui", "--task-backend", "sqlite")
	if err != nil {
		t.Fatalf("ui run failed: %v", err)
	}
	if !strings.Contains(out, "Write tests (high, due 2025-11)") {
		t.Fatalf("expected added task in output: %q", out)
	}
	if strings.Count(out, "command>") != 5 {
		t.Fatalf("expected five prompts, got %q", out)
	}
}

func TestRunUIRejectsBadBackend(t *testing.T) {
	isolateConfigDir(t)

	_, _, err := runCapture(t, "", "ui", "--preview", "--task-backend", "redis")
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Fatalf("expected unknown backend error, got %v", err)
	}
}

func TestRunUIRejectsMissingExplicitConfig(t *testing.T) {
	isolateConfigDir(t)

	_, _, err := runCapture(t, "", "ui", "--preview", "--config", filepath.Join(t.TempDir(), "nope.json"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Fatalf("expected config not found error, got %v", err)
	}
}

func TestRunConfigInitThenPrint(t *testing.T) {
	dir := isolateConfigDir(t)

	out, _, err := runCapture(t, "", "config", "init")
	if err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	wantPath := filepath.Join(dir, "taskmaster", "config.json")
	if !strings.Contains(out, "config_path="+wantPath) {
		t.Fatalf("expected config path in output: %q", out)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected config file written: %v", err)
	}

	if _, _, err := runCapture(t, "", "config", "init"); err == nil {
		t.Fatalf("expected second init without --force to fail")
	}

	out, _, err = runCapture(t, "", "config", "print", "--filter", "low", "--no-seed")
	if err != nil {
		t.Fatalf("config print failed: %v", err)
	}

	var printed struct {
		TaskBackend   string `json:"task_backend"`
		UserBackend   string `json:"user_backend"`
		Seed          bool   `json:"seed"`
		DefaultFilter string `json:"default_filter"`
	}
	if err := json.Unmarshal([]byte(out), &printed); err != nil {
		t.Fatalf("json.Unmarshal failed: %v (output=%q)", err, out)
	}
	if printed.TaskBackend != "memory" || printed.UserBackend != "memory" || printed.Seed || printed.DefaultFilter != "low" {
		t.Fatalf("unexpected printed config: %#v", printed)
	}
}

func TestRunConfigPrintReadsFile(t *testing.T) {
	isolateConfigDir(t)

	path := filepath.Join(t.TempDir(), "custom.json")
	if err := os.WriteFile(path, []byte(`{"user_backend": "gorm", /* c */ "seed": false}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	out, _, err := runCapture(t, "", "config", "print", "--config", path)
	if err != nil {
		t.Fatalf("config print failed: %v", err)
	}
	if !strings.Contains(out, `"user_backend": "gorm"`) || !strings.Contains(out, `"seed": false`) {
		t.Fatalf("expected file values in output: %q", out)
	}
}

func TestRunUIHelpIsNotAnError(t *testing.T) {
	_, errOut, err := runCapture(t, "", "ui", "--help")
	if err != nil {
		t.Fatalf("expected --help to succeed, got %v", err)
	}
	if !strings.Contains(errOut, "--task-backend") {
		t.Fatalf("expected flag defaults on stderr: %q", errOut)
	}
}

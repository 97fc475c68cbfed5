package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andyrewlee/reqtty/internal/config"
	"github.com/andyrewlee/reqtty/internal/data"
)

const ordersYAML = `openapi: 3.0.0
info:
  title: Orders
  version: "1"
servers:
  - url: http://localhost:8080
paths:
  /orders:
    get:
      summary: List orders
    post:
      summary: Create order
      requestBody:
        content:
          application/json:
            example: {"sku": "A1"}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestPathsFromConfigFlag(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name         string
		opts         options
		wantConfig   string
		wantRequests string
	}{
		{
			name:         "directory",
			opts:         options{config: dir},
			wantConfig:   filepath.Join(dir, "config.json"),
			wantRequests: filepath.Join(dir, "requests.json"),
		},
		{
			name:         "config file",
			opts:         options{config: filepath.Join(dir, "alt.json")},
			wantConfig:   filepath.Join(dir, "alt.json"),
			wantRequests: filepath.Join(dir, "requests.json"),
		},
		{
			name:         "requests override",
			opts:         options{config: dir, requests: filepath.Join(dir, "api", "reqs.json")},
			wantConfig:   filepath.Join(dir, "config.json"),
			wantRequests: filepath.Join(dir, "api", "reqs.json"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths, err := tt.opts.paths()
			if err != nil {
				t.Fatal(err)
			}
			if paths.ConfigPath != tt.wantConfig {
				t.Errorf("ConfigPath = %q, want %q", paths.ConfigPath, tt.wantConfig)
			}
			if paths.RequestsPath != tt.wantRequests {
				t.Errorf("RequestsPath = %q, want %q", paths.RequestsPath, tt.wantRequests)
			}
		})
	}
}

func TestLoadConfigAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"command": "vim", "list_width": 30}`), 0o644); err != nil {
		t.Fatal(err)
	}
	opts := options{config: dir, command: " less ", requestPane: "Editor"}
	cfg, err := opts.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Command != "less" {
		t.Errorf("Command = %q, want less", cfg.Command)
	}
	if cfg.RequestPane != config.RequestPaneEditor {
		t.Errorf("RequestPane = %q", cfg.RequestPane)
	}
	if cfg.ListWidth != 30 {
		t.Errorf("ListWidth = %d, want value from config.json", cfg.ListWidth)
	}
	if _, err := os.Stat(cfg.Paths.LogsRoot); err != nil {
		t.Errorf("logs dir not created: %v", err)
	}
}

func TestLoadConfigRejectsUnknownPane(t *testing.T) {
	opts := options{config: t.TempDir(), requestPane: "browser"}
	if _, err := opts.loadConfig(); err == nil {
		t.Fatal("expected an error for an unknown request pane")
	}
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "orders.yaml")
	if err := os.WriteFile(doc, []byte(ordersYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", dir, "import", doc)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(out, "imported 2 requests") {
		t.Fatalf("output = %q", out)
	}

	store := data.NewStore(filepath.Join(dir, "requests.json"))
	if err := store.Load(); err != nil {
		t.Fatal(err)
	}
	// The seeded default request stays first.
	if store.Len() != 3 {
		t.Fatalf("store has %d requests, want 3", store.Len())
	}
	created, _ := store.Get(2)
	if created.Method != "POST" || created.URL != "http://localhost:8080/orders" {
		t.Fatalf("imported request = %+v", created)
	}
	if !strings.Contains(created.Body, `"sku": "A1"`) {
		t.Fatalf("body = %q", created.Body)
	}
}

func TestImportCommandNeedsOneArgument(t *testing.T) {
	if _, err := execute(t, "--config", t.TempDir(), "import"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestImportMissingFile(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--config", dir, "import", filepath.Join(dir, "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "nope.yaml") {
		t.Fatalf("err = %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	SetVersionInfo("1.2.3", "abc", "today")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "reqtty 1.2.3 (commit: abc, built: today)" {
		t.Fatalf("version output = %q", out)
	}
}

func TestDashboardNeedsTerminal(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })
	isTerminal = func(uintptr) bool { return false }

	dir := t.TempDir()
	_, err := execute(t, "--config", dir)
	if !errors.Is(err, errNotTerminal) {
		t.Fatalf("err = %v, want errNotTerminal", err)
	}
	// The requests file is seeded before the terminal check.
	if _, err := os.Stat(filepath.Join(dir, "requests.json")); err != nil {
		t.Fatalf("requests.json not seeded: %v", err)
	}
}

func TestRootRejectsArguments(t *testing.T) {
	if _, err := execute(t, "--config", t.TempDir(), "extra"); err == nil {
		t.Fatal("expected an error for a stray argument")
	}
}

func TestImportWarnsAboutRelativeServer(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "rel.yaml")
	relative := strings.Replace(ordersYAML, "http://localhost:8080", "/api", 1)
	if err := os.WriteFile(doc, []byte(relative), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := execute(t, "--config", dir, "import", doc)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if strings.Count(out, "warning:") != 2 || !strings.Contains(out, "imported 2 requests") {
		t.Fatalf("output = %q", out)
	}
}

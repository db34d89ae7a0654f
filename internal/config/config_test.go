package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	t.Setenv("HOME", dir)
	for _, kv := range os.Environ() {
		if strings.HasPrefix(kv, EnvPrefix+"_") {
			key := kv[:strings.IndexByte(kv, '=')]
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
	return dir
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	state := filepath.Join(dir, "state", "fmgr")
	if cfg.OnConflict != PolicyPrompt {
		t.Errorf("OnConflict = %q, want prompt", cfg.OnConflict)
	}
	if cfg.LockPath != filepath.Join(state, "fmgr.lock") {
		t.Errorf("LockPath = %q", cfg.LockPath)
	}
	if cfg.ClipboardPath != filepath.Join(state, "clipboard.yaml") {
		t.Errorf("ClipboardPath = %q", cfg.ClipboardPath)
	}
	if cfg.JournalPath != filepath.Join(state, "journal.db") {
		t.Errorf("JournalPath = %q", cfg.JournalPath)
	}
	if cfg.MetricsTextfile != "" {
		t.Errorf("MetricsTextfile = %q, want disabled", cfg.MetricsTextfile)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want error", cfg.Logging.Level)
	}
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "config", "fmgr", "config.yaml"), `
on_conflict: skip
chunk_size: 4096
logging:
  level: debug
  development: true
`)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OnConflict != PolicySkip || cfg.ChunkSize != 4096 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Development {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeConfig(t, path, "on_conflict: skip\nchunk_size: 4096\njournal_path: /from/file.db\n")
	t.Setenv("FMGR_ON_CONFLICT", "abort")
	t.Setenv("FMGR_LOGGING_LEVEL", "info")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OnConflict != PolicyAbort {
		t.Errorf("OnConflict = %q, want abort", cfg.OnConflict)
	}
	if cfg.ChunkSize != 4096 {
		t.Errorf("ChunkSize = %d, want file value 4096", cfg.ChunkSize)
	}
	if cfg.JournalPath != "/from/file.db" {
		t.Errorf("JournalPath = %q, want file value", cfg.JournalPath)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		wantSub string
	}{
		{name: "bad policy", content: "on_conflict: sometimes\n", wantSub: "on_conflict"},
		{name: "negative chunk", content: "chunk_size: -1\n", wantSub: "chunk_size"},
		{name: "huge chunk", content: "chunk_size: 999999999\n", wantSub: "chunk_size"},
		{name: "bad level", content: "logging:\n  level: loud\n", wantSub: "logging.level"},
		{name: "malformed yaml", content: "on_conflict: [\n", wantSub: "parsing config"},
		{name: "bad env value", content: "", env: map[string]string{"FMGR_CHUNK_SIZE": "lots"}, wantSub: "environment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "c.yaml")
			writeConfig(t, path, tt.content)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	if _, err := Load(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"prompt", "overwrite", "skip", "abort"} {
		if p, err := ParsePolicy(s); err != nil || string(p) != s {
			t.Errorf("ParsePolicy(%q) = %q, %v", s, p, err)
		}
	}
	if _, err := ParsePolicy("yes"); err == nil {
		t.Error("ParsePolicy(yes) should fail")
	}
}

func TestDefault(t *testing.T) {
	isolate(t)
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

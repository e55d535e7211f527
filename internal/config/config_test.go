package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Journal.DB != nil || cfg.Notation.Strict != nil || cfg.Report.Limit != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `[journal]
db = "/tmp/j.db"
source = "lichess"

[notation]
strict = true

[report]
limit = 5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Journal.DB == nil || *cfg.Journal.DB != "/tmp/j.db" {
		t.Fatalf("unexpected db: %v", cfg.Journal.DB)
	}
	if cfg.Journal.Source == nil || *cfg.Journal.Source != "lichess" {
		t.Fatalf("unexpected source: %v", cfg.Journal.Source)
	}
	if cfg.Notation.Strict == nil || !*cfg.Notation.Strict {
		t.Fatalf("expected strict=true")
	}
	if cfg.Report.Limit == nil || *cfg.Report.Limit != 5 {
		t.Fatalf("unexpected limit: %v", cfg.Report.Limit)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[journal]\ndatabase = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "journal.database") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tcm", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/data", "tcm", "journal.db") {
		t.Fatalf("unexpected db path: %s", got)
	}
}

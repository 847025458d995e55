package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BPMMON_DATA_DIR", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageSize != 10 {
		t.Errorf("expected default page size 10, got %d", cfg.PageSize)
	}
	if cfg.Database != filepath.Join(dir, "audit.db") {
		t.Errorf("unexpected database path %s", cfg.Database)
	}
	if !cfg.Docker.Enabled || cfg.Docker.ServerLabel == "" {
		t.Errorf("unexpected docker defaults %+v", cfg.Docker)
	}
}

func TestLoadYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BPMMON_DATA_DIR", dir)
	t.Setenv("BPMMON_OTEL_EXPORTER", "stdout")

	path := filepath.Join(dir, "custom.yaml")
	yml := `
page_size: 25
retention: 72h
node_types: [HumanTaskNode, EndNode]
docker:
  enabled: false
  timeout: 5s
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.PageSize != 25 || cfg.Retention != 72*time.Hour {
		t.Errorf("yaml values not applied: %+v", cfg)
	}
	if len(cfg.NodeTypes) != 2 || cfg.NodeTypes[0] != "HumanTaskNode" {
		t.Errorf("unexpected node types %v", cfg.NodeTypes)
	}
	if cfg.Docker.Enabled || cfg.Docker.Timeout != 5*time.Second {
		t.Errorf("unexpected docker config %+v", cfg.Docker)
	}
	if cfg.Tracing.Exporter != "stdout" {
		t.Errorf("env override not applied, exporter=%s", cfg.Tracing.Exporter)
	}
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	t.Setenv("BPMMON_DATA_DIR", t.TempDir())

	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing explicit config")
	}
}

func TestValidateRejectsBadPageSize(t *testing.T) {
	t.Setenv("BPMMON_DATA_DIR", t.TempDir())
	t.Setenv("BPMMON_PAGE_SIZE", "0")

	if _, err := Load(""); err == nil {
		t.Fatalf("expected validation error")
	}
}

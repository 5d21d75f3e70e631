package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "patchctl.yaml")

	configContent := `workspace:
  root: "` + tmpDir + `"
logging:
  path: "patchctl.log"
  development: true
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	wantRoot, _ := filepath.Abs(tmpDir)
	if cfg.Workspace.Root != wantRoot {
		t.Errorf("Workspace.Root = %q, want %q", cfg.Workspace.Root, wantRoot)
	}
	if cfg.Logging.Path != "patchctl.log" {
		t.Errorf("Logging.Path = %q, want %q", cfg.Logging.Path, "patchctl.log")
	}
	if !cfg.Logging.Development {
		t.Error("Logging.Development should be true")
	}
}

func TestLoad_DefaultsRootToCwd(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "patchctl.yaml")

	if err := os.WriteFile(configPath, []byte("logging:\n  path: \"\"\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Workspace.Root == "" {
		t.Error("Workspace.Root should default to the working directory")
	}
	if !filepath.IsAbs(cfg.Workspace.Root) {
		t.Errorf("Workspace.Root should be absolute, got %q", cfg.Workspace.Root)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() should error on a missing file")
	}
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if cfg.Workspace.Root == "" {
		t.Error("Default() should set Workspace.Root")
	}
}

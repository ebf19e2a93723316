package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/droidai/internal/domain"
)

func TestLoadWritesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	loader := NewFileLoader(path)

	cfg, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if cfg.Preferences.DefaultMessagingApp != "whatsapp" {
		t.Fatalf("DefaultMessagingApp = %q", cfg.Preferences.DefaultMessagingApp)
	}
	if cfg.Intent.ConfidentThreshold != domain.DefaultConfidentThreshold {
		t.Fatalf("ConfidentThreshold = %v", cfg.Intent.ConfidentThreshold)
	}
}

func TestLoadHydratesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := "preferences:\n  default_messaging_app: telegram\n"
	if err := os.WriteFile(path, []byte(partial), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := NewFileLoader(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Preferences.DefaultMessagingApp != "telegram" {
		t.Fatalf("override lost: %q", cfg.Preferences.DefaultMessagingApp)
	}
	if cfg.Classifier.ModelID == "" || cfg.Intent.TopK == 0 || cfg.Device.AdbPath == "" {
		t.Fatalf("defaults not hydrated: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\tnot yaml"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("Load accepted malformed YAML")
	}
}

func TestLoadRejectsMisorderedThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	bad := "intent:\n  confident_threshold: 0.2\n  uncertain_threshold: 0.8\n"
	if err := os.WriteFile(path, []byte(bad), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := NewFileLoader(path).Load(context.Background()); err == nil {
		t.Fatal("Load accepted misordered thresholds")
	}
}

func TestEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	t.Setenv("DROIDAI_CONFIG", path)

	loader := NewFileLoader("")
	if got := loader.Path(); got != path {
		t.Fatalf("Path = %q, want %q", got, path)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spacedatanetwork/sdn-vcard/internal/vcard"
)

func TestLoadMissingReturnsDefault(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	cfg, err := Load(filepath.Join(tmpDir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.QR.Size != 256 || !cfg.XML.AddProdID || cfg.Text.Version != "4.0" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "nested", "config.yaml")
	cfg := Default()
	cfg.Text.Version = "3.0"
	cfg.XML.Indent = -1
	cfg.API.Listen = ":9000"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.XML.Indent != -1 || loaded.API.Listen != ":9000" {
		t.Errorf("loaded config mismatch: %+v", loaded)
	}
	v, err := loaded.TextVersion()
	if err != nil || v != vcard.V3_0 {
		t.Errorf("TextVersion = %v, %v", v, err)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("qr:\n  size: 512\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.QR.Size != 512 || cfg.JSON.Indent != 2 {
		t.Errorf("partial load = %+v", cfg)
	}
}

func TestLoadInvalidVersion(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(path, []byte("text:\n  version: \"5.0\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); !errors.Is(err, vcard.ErrUnknownVersion) {
		t.Errorf("expected ErrUnknownVersion, got %v", err)
	}
}

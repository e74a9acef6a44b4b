package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != "8080" {
		t.Errorf("server defaults: got %s:%s", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Import.MaxBytes != 16<<20 {
		t.Errorf("import max_bytes: got %d", cfg.Import.MaxBytes)
	}
	if !cfg.Import.Validate {
		t.Error("validation should default on")
	}
	if cfg.Fetch.Attempts != 3 || cfg.Fetch.TimeoutSeconds != 30 {
		t.Errorf("fetch defaults: got %d attempts, %ds timeout", cfg.Fetch.Attempts, cfg.Fetch.TimeoutSeconds)
	}
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	content := string(data)
	if !strings.HasPrefix(content, "# Folio configuration") {
		t.Error("missing header comment")
	}
	for _, key := range []string{"server:", "store:", "import:", "fetch:"} {
		if !strings.Contains(content, key) {
			t.Errorf("missing section %q in written config", key)
		}
	}
}

func TestManagerLoadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `server:
  host: 0.0.0.0
  port: "9090"
import:
  max_bytes: 1024
  validate: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}

	cfg := cm.Get()
	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != "9090" {
		t.Errorf("server: got %s:%s", cfg.Server.Host, cfg.Server.Port)
	}
	if cfg.Import.MaxBytes != 1024 {
		t.Errorf("max_bytes: got %d", cfg.Import.MaxBytes)
	}
	if cfg.Import.Validate {
		t.Error("validate should be off")
	}
	// Unset keys fall back to defaults.
	if cfg.Fetch.Attempts != 3 {
		t.Errorf("fetch attempts: got %d, want default 3", cfg.Fetch.Attempts)
	}
}

package main

import (
	"path/filepath"
	"testing"

	"github.com/vango-dev/reactor/internal/config"
	"github.com/vango-dev/reactor/internal/errors"
)

func TestRunInit(t *testing.T) {
	dir := t.TempDir()

	if err := runInit(dir, false, false); err != nil {
		t.Fatalf("runInit: %v", err)
	}
	if _, err := config.LoadFile(filepath.Join(dir, config.ConfigFileName)); err != nil {
		t.Errorf("written file should load: %v", err)
	}

	if err := runInit(dir, false, false); errors.Code(err) != "X002" {
		t.Errorf("expected X002 for an existing file, got %v", err)
	}
	if err := runInit(dir, false, true); err != nil {
		t.Errorf("--force should overwrite: %v", err)
	}

	if err := runInit(dir, true, false); err != nil {
		t.Fatalf("runInit --yaml: %v", err)
	}
	cfg, err := config.LoadFile(filepath.Join(dir, "reactor.yaml"))
	if err != nil {
		t.Fatalf("written yaml should load: %v", err)
	}
	if cfg.Server.Addr != config.DefaultAddr {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

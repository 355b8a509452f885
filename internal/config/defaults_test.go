package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigUsesConstants(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := DefaultConfig()

	if cfg.Server.Listen != DefaultListenAddr {
		t.Fatalf("Listen = %q, want %q", cfg.Server.Listen, DefaultListenAddr)
	}
	if cfg.Server.BasePath != DefaultBasePath {
		t.Fatalf("BasePath = %q, want %q", cfg.Server.BasePath, DefaultBasePath)
	}
	if !cfg.Server.RequireLogin {
		t.Fatalf("RequireLogin should default to true")
	}
	expectedUsers := filepath.Join(home, DefaultConfigDirName, DefaultUsersFileName)
	if cfg.Server.UsersFile != expectedUsers {
		t.Fatalf("UsersFile = %q, want %q", cfg.Server.UsersFile, expectedUsers)
	}
	if cfg.Terminal.Term != DefaultTerminalTerm {
		t.Fatalf("Terminal.Term = %q, want %q", cfg.Terminal.Term, DefaultTerminalTerm)
	}
	if cfg.Terminal.Cols != 80 || cfg.Terminal.Rows != 25 {
		t.Fatalf("Terminal size = %dx%d", cfg.Terminal.Cols, cfg.Terminal.Rows)
	}
	if cfg.Terminal.Scrollback != DefaultScrollback {
		t.Fatalf("Terminal.Scrollback = %d", cfg.Terminal.Scrollback)
	}
}

func TestLoaderReadsFileAndEnvironment(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("server:\n  listen: 0.0.0.0:9000\nterminal:\n  term: vt100\n  cols: 132\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TERMFRAME_TERMINAL_ROWS", "43")

	loader := NewLoader()
	loader.SetConfigFile(path)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != "0.0.0.0:9000" {
		t.Fatalf("Listen = %q", cfg.Server.Listen)
	}
	if cfg.Terminal.Term != "vt100" || cfg.Terminal.Cols != 132 {
		t.Fatalf("Terminal = %+v", cfg.Terminal)
	}
	if cfg.Terminal.Rows != 43 {
		t.Fatalf("Rows = %d, want env override 43", cfg.Terminal.Rows)
	}
	if cfg.Server.BasePath != DefaultBasePath || !cfg.Server.RequireLogin {
		t.Fatalf("defaults lost: %+v", cfg.Server)
	}
}

func TestLoaderRejectsHalfTLS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  tls:\n    cert_file: cert.pem\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	loader := NewLoader()
	loader.SetConfigFile(path)
	if _, err := loader.Load(); err == nil {
		t.Fatalf("expected tls validation error")
	}
}

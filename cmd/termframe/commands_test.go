package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/termframe"
	"pkt.systems/termframe/internal/auth"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	root := NewRootCommand(termframe.NewLoader())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestUsersAddListDelete(t *testing.T) {
	usersFile := filepath.Join(t.TempDir(), "users.yaml")

	out, err := run(t, "users", "--users-file", usersFile, "add", "alice")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	for _, want := range []string{"username: alice", "password: ", "totp_secret: ", "otpauth_url: otpauth://"} {
		if !strings.Contains(out, want) {
			t.Fatalf("add output missing %q:\n%s", want, out)
		}
	}
	store, err := auth.LoadStore(usersFile)
	if err != nil {
		t.Fatalf("load store: %v", err)
	}
	if _, ok := store.Get("alice"); !ok {
		t.Fatalf("alice not saved")
	}

	if _, err := run(t, "users", "--users-file", usersFile, "add", "alice"); err == nil || err.Error() != "user already exists" {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	out, err = run(t, "users", "--users-file", usersFile, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "alice") {
		t.Fatalf("list output missing alice:\n%s", out)
	}

	if _, err := run(t, "users", "--users-file", usersFile, "delete", "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, "users", "--users-file", usersFile, "delete", "alice"); err == nil || err.Error() != "user not found" {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTermcapShow(t *testing.T) {
	out, err := run(t, "termcap", "show", "vt100")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "vt100") || !strings.Contains(out, "cm") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if _, err := run(t, "termcap", "show", "no-such-terminal"); err == nil {
		t.Fatalf("expected error for unknown terminal")
	}
}

func TestEndpointFor(t *testing.T) {
	cfg := termframe.DefaultConfig()
	if got := endpointFor(cfg); got != "http://"+termframe.DefaultListenAddr {
		t.Fatalf("endpoint = %q", got)
	}
	cfg.Server.BasePath = "/console"
	cfg.Server.TLS = termframe.TLSConfig{CertFile: "c.pem", KeyFile: "k.pem"}
	if got := endpointFor(cfg); got != "https://"+termframe.DefaultListenAddr+"/console" {
		t.Fatalf("endpoint = %q", got)
	}
}

package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", t.TempDir()}, args...))
	err := root.Execute()
	return out.String(), err
}

func useTempDB(t *testing.T) {
	t.Helper()
	t.Setenv("BENCH_AUTH_SIGNING_KEY", "cli-test-key")
	t.Setenv("BENCH_DB_PATH", filepath.Join(t.TempDir(), "bench.db"))
}

func TestUserAdd(t *testing.T) {
	useTempDB(t)

	out, err := runCLI(t, "", "user", "add", "shift.lead", "--password", "hunter22")
	if err != nil {
		t.Fatalf("user add: %v (%s)", err, out)
	}
	if !strings.Contains(out, `created user "shift.lead" with id 1`) {
		t.Fatalf("output=%q", out)
	}

	if _, err := runCLI(t, "", "user", "add", "shift.lead", "-p", "hunter22"); err == nil {
		t.Fatalf("duplicate operator accepted")
	}
}

func TestUserAdd_PasswordFromStdin(t *testing.T) {
	useTempDB(t)

	out, err := runCLI(t, "hunter22\n", "user", "add", "tech")
	if err != nil {
		t.Fatalf("user add: %v (%s)", err, out)
	}
	if !strings.Contains(out, `created user "tech"`) {
		t.Fatalf("output=%q", out)
	}
}

func TestLogsCommands(t *testing.T) {
	useTempDB(t)

	out, err := runCLI(t, "", "logs", "stats")
	if err != nil {
		t.Fatalf("logs stats: %v", err)
	}
	if !strings.Contains(out, "entries: 0") {
		t.Fatalf("stats output=%q", out)
	}

	if _, err := runCLI(t, "", "logs", "purge"); !errors.Is(err, errPurgeUnconfirmed) {
		t.Fatalf("purge without --yes: %v", err)
	}
	out, err = runCLI(t, "", "logs", "purge", "--yes")
	if err != nil {
		t.Fatalf("logs purge: %v", err)
	}
	if !strings.Contains(out, "deleted 0 entries") {
		t.Fatalf("purge output=%q", out)
	}
}

func TestMissingSigningKeyFailsBeforeRunning(t *testing.T) {
	t.Setenv("BENCH_AUTH_SIGNING_KEY", "")
	if _, err := runCLI(t, "", "logs", "stats"); err == nil {
		t.Fatalf("expected config validation error")
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runArgs(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestRunSingleProgram(t *testing.T) {
	stdout, _, err := runArgs(t, "", "x => x.a.filter(y => y.b).map(y => y.c)")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if expected := ".a | map(select(.b)) | map(.c)\n"; stdout != expected {
		t.Fatalf("expected %q, got %q", expected, stdout)
	}
}

func TestRunSingleProgramError(t *testing.T) {
	stdout, _, err := runArgs(t, "", "x => x.foo()")
	if err == nil || err.Error() != "unrecognized method: foo" {
		t.Fatalf("expected unrecognized method error, got %v", err)
	}
	if stdout != "" {
		t.Fatalf("expected no output, got %q", stdout)
	}
}

func TestRunFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lambdas.txt")
	content := "# filters\nx => x.a\nx => x.foo()\n\nx => x.slice(1)\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("cannot write file: %v", err)
	}

	stdout, stderr, err := runArgs(t, "", "-file", path)
	if err == nil || err.Error() != "1 of 3 programs failed to translate" {
		t.Fatalf("expected a failure summary, got %v", err)
	}

	if expected := ".a\n.[1:]\n"; stdout != expected {
		t.Fatalf("expected %q, got %q", expected, stdout)
	}
	if expected := path + ":3: unrecognized method: foo\n"; !strings.Contains(stderr, expected) {
		t.Fatalf("expected stderr to contain %q, got %q", expected, stderr)
	}
}

func TestRunStdin(t *testing.T) {
	stdout, stderr, err := runArgs(t, "x => x.a\nx => x.b\n", "-file", "-")
	if err != nil {
		t.Fatalf("run returned error: %v (%s)", err, stderr)
	}
	if expected := ".a\n.b\n"; stdout != expected {
		t.Fatalf("expected %q, got %q", expected, stdout)
	}
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()

	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("logger: {level: debug, type: json}\nbatch: {workers_count: 1}\n"), 0o644); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}

	stdout, stderr, err := runArgs(t, "x => x.a\n", "-config", cfgPath, "-file", "-")
	if err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if stdout != ".a\n" {
		t.Fatalf("expected .a, got %q", stdout)
	}
	if !strings.Contains(stderr, `"msg":"job translated"`) {
		t.Fatalf("expected debug logs on stderr, got %q", stderr)
	}

	badPath := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badPath, []byte("logger: {level: loud}\n"), 0o644); err != nil {
		t.Fatalf("cannot write config: %v", err)
	}
	if _, _, err := runArgs(t, "", "-config", badPath, "-file", "-"); err == nil {
		t.Fatalf("expected an error for an invalid config")
	}
}

func TestRunUsageErrors(t *testing.T) {
	tests := map[string][]string{
		"expected exactly one program argument":            {},
		"-watch requires -file":                            {"-watch", "x => x"},
		"-file cannot be combined with a program argument": {"-file", "a.txt", "x => x"},
		"-watch cannot be used with standard input":        {"-file", "-", "-watch"},
		"flag provided but not defined: -nope":             {"-nope"},
	}

	for expected, args := range tests {
		_, _, err := runArgs(t, "", args...)
		if err == nil || err.Error() != expected {
			t.Fatalf("run(%q): expected error %q, got %v", args, expected, err)
		}
	}

	if _, _, err := runArgs(t, "", "-h"); err != nil {
		t.Fatalf("expected -h to succeed, got %v", err)
	}
}

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	// --- Arrange ---
	// A syntax error makes app.NewApp panic during loading.
	invalidHCL := `
		graph "broken" {
			start = "a"
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tempDir, "main.hcl"), []byte(invalidHCL), 0600)
	require.NoError(t, err, "failed to set up test file")

	args := []string{"-catalog", ":memory:", tempDir}
	out := &bytes.Buffer{}

	// --- Act ---
	runErr := run(context.Background(), out, strings.NewReader(""), args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")
	require.Contains(t, runErr.Error(), "application startup panicked")
	require.Contains(t, runErr.Error(), "failed to parse")
}

func TestRun_ShouldExit(t *testing.T) {
	out := &bytes.Buffer{}

	err := run(context.Background(), out, strings.NewReader(""), []string{"-h"})

	require.NoError(t, err, "run() should return a nil error when help is requested")
	require.Contains(t, out.String(), "Usage:")
}

func TestRun_ParseError(t *testing.T) {
	err := run(context.Background(), &bytes.Buffer{}, strings.NewReader(""), []string{"--this-is-not-a-valid-flag"})

	require.Error(t, err)
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_BuiltinGridsConsole(t *testing.T) {
	out := &bytes.Buffer{}
	in := strings.NewReader("no\nno\nhuman\nmage\nBram\nI talk to the innkeeper\ndungeon\n")

	err := run(context.Background(), out, in, []string{"-catalog", ":memory:", "-log-level", "error"})

	require.NoError(t, err)
	require.Contains(t, out.String(), "Bram the Human Mage")
}

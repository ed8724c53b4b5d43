package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(args ...string) (int, string, string) {
	return runCLIWithInput("", args...)
}

func runCLIWithInput(input string, args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(input), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Usage(t *testing.T) {
	code, _, stderr := runCLI()
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "exactly one citation PDF")

	code, _, _ = runCLI("a.pdf", "b.pdf")
	assert.Equal(t, exitError, code)

	code, _, stderr = runCLI("--bogus")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unknown flag")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI("--version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "mbft-audit dev")
}

func TestRun_MissingFile(t *testing.T) {
	code, _, stderr := runCLI(filepath.Join(t.TempDir(), "none.pdf"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "cannot access citation")
}

func TestRun_UnknownFormat(t *testing.T) {
	code, _, stderr := runCLI("--format=docx", "ait.pdf")
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr, "unknown format")
}

func TestRun_UnreadableCitationHasNoRulebook(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ait.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not really a pdf"), 0o644))

	code, stdout, _ := runCLI("--no-color", "--rulebooks", dir, path)
	assert.Equal(t, exitNoRulebook, code)
	assert.Contains(t, stdout, "CÓDIGO DA INFRAÇÃO: não localizado")

	code, stdout, _ = runCLI("--format", "yaml", "--rulebooks", dir, path)
	assert.Equal(t, exitNoRulebook, code)
	assert.Contains(t, stdout, "status: no_rulebook")
}

func TestRun_CitationFromStdin(t *testing.T) {
	dir := t.TempDir()

	code, stdout, stderr := runCLIWithInput("not really a pdf", "--format", "yaml", "--rulebooks", dir, "-")
	assert.Equal(t, exitNoRulebook, code)
	assert.NotContains(t, stderr, "cannot access citation")
	assert.Contains(t, stdout, "source: stdin")
	assert.Contains(t, stdout, "status: no_rulebook")
}

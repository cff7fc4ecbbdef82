package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetArgs(nil) })

	require.NoError(t, Execute())
	assert.Equal(t, "resumectl version: unknown\n", out.String())
}

func TestParseRejectsMissingFile(t *testing.T) {
	rootCmd.SetArgs([]string{"parse", "--text-only", filepath.Join(t.TempDir(), "missing.pdf")})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetErr(nil) })

	err := Execute()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPrintJSONIndents(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printJSON(&out, map[string]int{"pages": 2}))
	assert.Equal(t, "{\n  \"pages\": 2\n}\n", out.String())
}

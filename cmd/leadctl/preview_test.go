package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executePreview(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"preview"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestPreview_CSV(t *testing.T) {
	path := writeTempFile(t, "leads.csv", "Name,Phone,Email\nAnn,5551,ann@example.com\nBo,5552,\n,5553,x@example.com\n")

	out, err := executePreview(t, path, "--agents", "2", "--placeholder-domain", "example.invalid")
	require.NoError(t, err)

	assert.Contains(t, out, "accepted: 2")
	assert.Contains(t, out, "rejected: 1")
	assert.Contains(t, out, "ann@example.com")
	assert.Contains(t, out, "@example.invalid")
	assert.Contains(t, out, "Missing required field(s)")
	assert.Contains(t, out, "agent 1: 1")
	assert.Contains(t, out, "agent 2: 1")
}

func TestPreview_Errors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		_, err := executePreview(t, writeTempFile(t, "leads.txt", "Name\nAnn\n"))
		assert.ErrorIs(t, err, ingest.ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := executePreview(t, filepath.Join(t.TempDir(), "absent.csv"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("requires exactly one file", func(t *testing.T) {
		_, err := executePreview(t)
		assert.Error(t, err)
	})
}

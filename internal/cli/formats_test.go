package cli

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/formatconform/internal/format/builtin"
	"github.com/roach88/formatconform/internal/testutil"
)

func TestFormats_Builtins(t *testing.T) {
	out, _, err := executeCommand(t, "formats")
	require.NoError(t, err)

	for _, name := range builtin.Registry().Names() {
		assert.Contains(t, out, name+"\n")
	}
}

func TestFormats_Coverage(t *testing.T) {
	dir := testutil.FixtureDir(t, DefaultPrefix, map[string]string{
		"ipv4": ipv4Fixture,
		"ipv9": unsupportedFixture,
	})

	out, _, err := executeCommand(t, "formats", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ ipv4\n")
	assert.Contains(t, out, "- email (no fixture)\n")
	assert.Contains(t, out, "✗ ipv9 (no attribute)\n")
}

func TestFormats_JSON(t *testing.T) {
	dir := testutil.FixtureDir(t, "draftv4", map[string]string{"uuid": unsupportedFixture})

	out, _, err := executeCommand(t, "formats", dir, "--prefix", "draftv4", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Formats []FormatEntry `json:"formats"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data.Formats, len(builtin.Registry().Names()))

	for _, e := range resp.Data.Formats {
		assert.True(t, e.Supported, e.Name)
		assert.Equal(t, e.Name == "uuid", e.Fixture, e.Name)
	}
}

func TestFormats_MissingDirectory(t *testing.T) {
	_, _, err := executeCommand(t, "formats", "/nonexistent/fixtures")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFixture writes content to <root>/format/<prefix>/<formatName>.json
// and returns the file path. Parent directories are created as needed.
func WriteFixture(t testing.TB, root, prefix, formatName, content string) string {
	t.Helper()

	dir := filepath.Join(root, "format", prefix)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	path := filepath.Join(dir, formatName+".json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// FixtureDir creates a temporary fixture root holding one fixture per
// entry of fixtures, keyed by format name.
func FixtureDir(t testing.TB, prefix string, fixtures map[string]string) string {
	t.Helper()

	root := t.TempDir()
	for name, content := range fixtures {
		WriteFixture(t, root, prefix, name, content)
	}
	return root
}

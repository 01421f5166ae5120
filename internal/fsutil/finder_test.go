package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))
	for _, name := range []string{"b.yml", "a.hcl", "nested/c.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o600))
	}

	files, err := FindFilesByExtension(root, ".yml", ".yaml")
	require.NoError(t, err)
	require.Equal(t, []string{
		filepath.Join(root, "b.yml"),
		filepath.Join(root, "nested", "c.yaml"),
	}, files)

	single, err := FindFilesByExtension(filepath.Join(root, "a.hcl"), ".hcl")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(root, "a.hcl")}, single)

	_, err = FindFilesByExtension(filepath.Join(root, "missing"), ".hcl")
	require.Error(t, err)
}

func TestNonEmpty(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty")
	full := filepath.Join(dir, "full")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	require.NoError(t, os.WriteFile(full, []byte(">seq\nACGT\n"), 0o600))

	for path, want := range map[string]bool{empty: false, full: true, dir: false, filepath.Join(dir, "nope"): false} {
		got, err := NonEmpty(path)
		require.NoError(t, err)
		require.Equal(t, want, got, path)
	}
}

package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileDriver(t *testing.T) (*FileDriver, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "left-pad")
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewFileDriver(dir, logger), dir
}

func TestFileDriver_Location(t *testing.T) {
	d, dir := newTestFileDriver(t)
	assert.Equal(t, dir, d.Location())
}

func TestFileDriver_WriteRead(t *testing.T) {
	d, _ := newTestFileDriver(t)
	ctx := context.Background()

	// Directory is created lazily on the first write
	require.NoError(t, d.WriteFile(ctx, "package.json", []byte(`{"name":"left-pad"}`)))

	data, err := d.ReadFile(ctx, "package.json")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"left-pad"}`, string(data))
}

func TestFileDriver_WriteReplacesContent(t *testing.T) {
	d, _ := newTestFileDriver(t)
	ctx := context.Background()

	require.NoError(t, d.WriteFile(ctx, "data.bin", []byte("old")))
	require.NoError(t, d.WriteFile(ctx, "data.bin", []byte("new")))

	data, err := d.ReadFile(ctx, "data.bin")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestFileDriver_ReadMissing(t *testing.T) {
	d, _ := newTestFileDriver(t)

	_, err := d.ReadFile(context.Background(), "missing.tgz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileDriver_Delete(t *testing.T) {
	d, _ := newTestFileDriver(t)
	ctx := context.Background()

	require.NoError(t, d.WriteFile(ctx, "pkg-1.0.0.tgz", []byte("tarball")))
	require.NoError(t, d.DeleteFile(ctx, "pkg-1.0.0.tgz"))

	_, err := d.ReadFile(ctx, "pkg-1.0.0.tgz")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, d.DeleteFile(ctx, "pkg-1.0.0.tgz"), ErrNotFound)
}

func TestFileDriver_ListFiles(t *testing.T) {
	d, _ := newTestFileDriver(t)
	ctx := context.Background()

	// Missing directory means an empty package, not an error
	names, err := d.ListFiles(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, d.WriteFile(ctx, "package.json", []byte("{}")))
	require.NoError(t, d.WriteFile(ctx, "pkg-1.0.0.tgz", []byte("tarball")))

	names, err = d.ListFiles(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"package.json", "pkg-1.0.0.tgz"}, names)
}

func TestFileDriver_RejectsTraversal(t *testing.T) {
	d, _ := newTestFileDriver(t)
	ctx := context.Background()

	for _, name := range []string{"", "..", "sub/file", `sub\file`} {
		assert.Error(t, d.WriteFile(ctx, name, []byte("x")), "name %q", name)
		_, err := d.ReadFile(ctx, name)
		assert.Error(t, err, "name %q", name)
	}
}

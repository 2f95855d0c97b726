package archive

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/mwantia/modtree/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	name    string
	content string
	method  uint16
}

func writeArchive(t *testing.T, entries []entry) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "modules.zip")
	out, err := os.Create(file)
	require.NoError(t, err)
	defer out.Close()

	writer := zip.NewWriter(out)
	writer.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor())

	for _, e := range entries {
		w, err := writer.CreateHeader(&zip.FileHeader{
			Name:   e.name,
			Method: e.method,
		})
		require.NoError(t, err)

		_, err = io.WriteString(w, e.content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return file
}

func openArchive(t *testing.T, entries []entry) *ArchiveBackend {
	t.Helper()

	ab, err := NewArchiveBackend(writeArchive(t, entries))
	require.NoError(t, err)
	require.NoError(t, ab.Open(t.Context()))
	t.Cleanup(func() { _ = ab.Close(t.Context()) })

	return ab
}

func TestArchiveBackend_Index(t *testing.T) {
	ctx := t.Context()
	ab := openArchive(t, []entry{
		{name: "top.js", content: "top", method: zip.Store},
		{name: "a/", method: zip.Store},
		{name: "a/x.txt", content: "x", method: zip.Deflate},
		{name: "a/b/y.txt", content: "y", method: zstd.ZipMethodWinZip},
		{name: "empty/", method: zip.Store},
		{name: "../escape.txt", content: "nope", method: zip.Store},
	})

	assert.Equal(t, 5, ab.Len())

	objects, prefixes, err := ab.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"top.js"}, objects)
	assert.Equal(t, []string{"a", "empty"}, prefixes)

	objects, prefixes, err = ab.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"x.txt"}, objects)
	assert.Equal(t, []string{"b"}, prefixes)

	exists, err := ab.Stat(ctx, "a/")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = ab.HasPrefix(ctx, "empty/")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestArchiveBackend_Get(t *testing.T) {
	ctx := t.Context()
	ab := openArchive(t, []entry{
		{name: "lib/deflate.js", content: "deflated content", method: zip.Deflate},
		{name: "lib/zstd.js", content: "zstd content", method: zstd.ZipMethodWinZip},
	})

	for key, want := range map[string]string{
		"lib/deflate.js": "deflated content",
		"lib/zstd.js":    "zstd content",
	} {
		rc, err := ab.Get(ctx, key)
		require.NoError(t, err, key)

		data, err := io.ReadAll(rc)
		require.NoError(t, err, key)
		require.NoError(t, rc.Close())
		assert.Equal(t, want, string(data), key)
	}

	_, err := ab.Get(ctx, "lib/missing.js")
	assert.ErrorIs(t, err, backend.ErrNotExist)
}

func TestArchiveBackend_Lifecycle(t *testing.T) {
	ctx := t.Context()

	ab, err := NewArchiveBackend(filepath.Join(t.TempDir(), "missing.zip"))
	require.NoError(t, err)
	assert.ErrorIs(t, ab.Open(ctx), backend.ErrOpenFailed)

	_, err = ab.Stat(ctx, "x")
	assert.ErrorIs(t, err, backend.ErrNotOpen)

	ab = openArchive(t, []entry{{name: "x", content: "x", method: zip.Store}})
	require.NoError(t, ab.Close(ctx))
	require.NoError(t, ab.Close(ctx))
	assert.Equal(t, 0, ab.Len())

	store, err := ab.Root(ctx)
	require.NoError(t, err)
	assert.Contains(t, store.Path(), "modules.zip!/")
}

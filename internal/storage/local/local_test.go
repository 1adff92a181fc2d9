package local

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ondrasimku/edrive-go/internal/storage"
)

func TestPutOpenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, 0)
	ctx := context.Background()

	content := []byte("hello ephemeral world")
	name, size, err := s.Put(ctx, bytes.NewReader(content), "notes.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), size)
	assert.True(t, strings.HasSuffix(name, ".txt"))
	assert.NotContains(t, name, "notes")

	rc, gotSize, err := s.Open(ctx, name)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, int64(len(content)), gotSize)

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestPutRejectsOversizedContent(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, 10)
	ctx := context.Background()

	_, _, err := s.Put(ctx, strings.NewReader("this is more than ten bytes"), "big.bin")
	assert.ErrorIs(t, err, storage.ErrPayloadTooLarge)

	// Nothing committed.
	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestPutAtExactLimit(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, 10)
	ctx := context.Background()

	name, size, err := s.Put(ctx, strings.NewReader("exactly 10"), "ok.bin")
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)

	rc, _, err := s.Open(ctx, name)
	require.NoError(t, err)
	rc.Close()
}

func TestOpenMissing(t *testing.T) {
	s := New(t.TempDir(), 0)
	_, _, err := s.Open(context.Background(), "no-such-blob.bin")
	assert.ErrorIs(t, err, storage.ErrBlobMissing)
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	s := New(t.TempDir(), 0)
	_, _, err := s.Open(context.Background(), "../secret.txt")
	assert.ErrorIs(t, err, storage.ErrBlobMissing)
}

func TestDeleteIdempotent(t *testing.T) {
	dir := t.TempDir()
	s := New(dir, 0)
	ctx := context.Background()

	name, _, err := s.Put(ctx, strings.NewReader("bye"), "bye.txt")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, name))
	_, _, err = s.Open(ctx, name)
	assert.ErrorIs(t, err, storage.ErrBlobMissing)

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(ctx, name))
}

func TestSafeExt(t *testing.T) {
	assert.Equal(t, ".txt", safeExt("report.txt"))
	assert.Equal(t, ".pdf", safeExt("dir/report.pdf"))
	assert.Equal(t, "", safeExt("noext"))
	assert.Equal(t, "", safeExt("weird.superlongextension"))
}

package storage

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrPayloadTooLarge is returned by Put when the content exceeds the
	// per-file size ceiling. Nothing is left on disk in that case.
	ErrPayloadTooLarge = errors.New("payload exceeds size limit")

	// ErrBlobMissing is returned by Open when no blob exists under the
	// given storage name. For a live artifact this means external tampering
	// or a prior partial failure and must be treated as a server error, not
	// a routine not-found.
	ErrBlobMissing = errors.New("blob not found")
)

// BlobStore persists raw file bytes under generated names.
type BlobStore interface {
	// Put writes the content under a freshly generated storage name. The
	// declared name is never used as a path component; at most its
	// extension is kept.
	Put(ctx context.Context, r io.Reader, declaredName string) (storageName string, size int64, err error)

	// Open returns the blob's content and size, or ErrBlobMissing.
	Open(ctx context.Context, storageName string) (io.ReadSeekCloser, int64, error)

	// Delete removes the blob. Deleting an absent blob is not an error; a
	// previous interrupted sweep may already have removed it.
	Delete(ctx context.Context, storageName string) error
}

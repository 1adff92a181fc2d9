package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/ondrasimku/edrive-go/internal/storage"
)

// DefaultMaxSize is the per-file ceiling applied when none is configured.
const DefaultMaxSize int64 = 100 << 20 // 100 MiB

// Store keeps blobs as flat files inside one managed directory, named by
// uuid plus the declared name's extension.
type Store struct {
	baseDir string
	maxSize int64
}

func New(baseDir string, maxSize int64) *Store {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Store{baseDir: baseDir, maxSize: maxSize}
}

func (s *Store) Put(ctx context.Context, r io.Reader, declaredName string) (string, int64, error) {
	name := uuid.New().String() + safeExt(declaredName)

	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", 0, fmt.Errorf("create storage directory: %w", err)
	}

	path := filepath.Join(s.baseDir, name)
	file, err := os.Create(path)
	if err != nil {
		return "", 0, fmt.Errorf("create blob file: %w", err)
	}

	// Read one byte past the ceiling so oversized content is detected
	// without buffering it all.
	size, err := io.Copy(file, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		file.Close()
		os.Remove(path)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}
	if size > s.maxSize {
		file.Close()
		os.Remove(path)
		return "", 0, storage.ErrPayloadTooLarge
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", 0, fmt.Errorf("close blob file: %w", err)
	}
	return name, size, nil
}

func (s *Store) Open(ctx context.Context, storageName string) (io.ReadSeekCloser, int64, error) {
	if storageName == "" || storageName != filepath.Base(storageName) {
		return nil, 0, storage.ErrBlobMissing
	}
	file, err := os.Open(filepath.Join(s.baseDir, storageName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, 0, storage.ErrBlobMissing
	}
	if err != nil {
		return nil, 0, fmt.Errorf("open blob: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, 0, fmt.Errorf("stat blob: %w", err)
	}
	return file, stat.Size(), nil
}

func (s *Store) Delete(ctx context.Context, storageName string) error {
	if storageName == "" || storageName != filepath.Base(storageName) {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, storageName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// safeExt keeps a short extension from the declared name so downloads open
// with sensible defaults, without ever trusting the name as a path.
func safeExt(declaredName string) string {
	ext := filepath.Ext(filepath.Base(declaredName))
	if len(ext) > 10 {
		return ""
	}
	return ext
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ondrasimku/edrive-go/internal/code"
	"github.com/ondrasimku/edrive-go/internal/domain"
	"github.com/ondrasimku/edrive-go/internal/registry"
	"github.com/ondrasimku/edrive-go/internal/storage"
)

var (
	// ErrNotFound covers invalid codes, expired artifacts and selector
	// misses alike; callers never learn whether a code once existed.
	ErrNotFound = errors.New("file not found or expired")

	// ErrSelectorRequired is returned when a batch artifact is downloaded
	// without choosing one of its files.
	ErrSelectorRequired = errors.New("batch download requires a file selection")
)

// Auto-generated codes are retried on the rare collision; custom codes fail
// immediately with ErrDuplicateCode.
const codeAttempts = 5

// UploadEntry carries one incoming file. Size is the declared size from the
// client; the recorded size is whatever the blob store actually wrote.
type UploadEntry struct {
	Reader      io.Reader
	DisplayName string
	MimeType    string
	Size        int64
}

// Service owns the upload and retrieval flows: blobs are committed first,
// then the registry insert; when the insert fails the written blobs are
// rolled back.
type Service struct {
	registry registry.Registry
	blobs    storage.BlobStore
	logger   *slog.Logger
	now      func() time.Time
}

func New(reg registry.Registry, blobs storage.BlobStore, logger *slog.Logger) *Service {
	return &Service{
		registry: reg,
		blobs:    blobs,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateSingle uploads one file and returns the registered artifact,
// including its access code and expiration.
func (s *Service) CreateSingle(ctx context.Context, upload UploadEntry, durationToken, customCode string) (*domain.Artifact, error) {
	return s.create(ctx, domain.KindSingle, []UploadEntry{upload}, durationToken, customCode)
}

// CreateBatch uploads a group of files as one artifact sharing a single
// access code and expiration clock.
func (s *Service) CreateBatch(ctx context.Context, uploads []UploadEntry, durationToken, customCode string) (*domain.Artifact, error) {
	return s.create(ctx, domain.KindBatch, uploads, durationToken, customCode)
}

func (s *Service) create(ctx context.Context, kind domain.Kind, uploads []UploadEntry, durationToken, customCode string) (*domain.Artifact, error) {
	if len(uploads) == 0 {
		return nil, errors.New("at least one file is required")
	}

	entries := make([]domain.ContentEntry, 0, len(uploads))
	var total int64
	for _, u := range uploads {
		storageName, size, err := s.blobs.Put(ctx, u.Reader, u.DisplayName)
		if err != nil {
			s.discard(ctx, entries)
			return nil, err
		}
		mimeType := u.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		entries = append(entries, domain.ContentEntry{
			StorageName: storageName,
			DisplayName: u.DisplayName,
			Size:        size,
			MimeType:    mimeType,
		})
		total += size
	}

	now := s.now()
	artifact := &domain.Artifact{
		ID:        uuid.NewString(),
		Kind:      kind,
		Entries:   entries,
		TotalSize: total,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.Lifetime(durationToken)),
	}

	if custom := code.Normalize(customCode); custom != "" {
		artifact.AccessCode = custom
		if err := s.registry.Insert(ctx, artifact); err != nil {
			s.discard(ctx, entries)
			return nil, err
		}
		return artifact, nil
	}

	for attempt := 0; attempt < codeAttempts; attempt++ {
		artifact.AccessCode = code.Generate()
		err := s.registry.Insert(ctx, artifact)
		if err == nil {
			return artifact, nil
		}
		if !errors.Is(err, registry.ErrDuplicateCode) {
			s.discard(ctx, entries)
			return nil, err
		}
		s.logger.Warn("generated access code collided, retrying", "attempt", attempt+1)
	}
	s.discard(ctx, entries)
	return nil, fmt.Errorf("could not allocate a unique access code after %d attempts", codeAttempts)
}

// Lookup resolves an access code to its artifact, case-insensitively.
func (s *Service) Lookup(ctx context.Context, accessCode string) (*domain.Artifact, error) {
	a, err := s.registry.FindLive(ctx, accessCode)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

// Fetch opens the content of one entry of an artifact. For single-file
// artifacts the selector is ignored; for batches it must name exactly one
// entry by storage name.
func (s *Service) Fetch(ctx context.Context, artifactID, entrySelector string) (io.ReadCloser, *domain.ContentEntry, error) {
	a, err := s.registry.FindByID(ctx, artifactID)
	if err != nil {
		return nil, nil, err
	}
	if a == nil {
		return nil, nil, ErrNotFound
	}

	var entry *domain.ContentEntry
	if a.Kind == domain.KindBatch {
		if entrySelector == "" {
			return nil, nil, ErrSelectorRequired
		}
		entry = a.Entry(entrySelector)
		if entry == nil {
			return nil, nil, ErrNotFound
		}
	} else {
		entry = &a.Entries[0]
	}

	rc, _, err := s.blobs.Open(ctx, entry.StorageName)
	if err != nil {
		if errors.Is(err, storage.ErrBlobMissing) {
			s.logger.Error("blob missing for live artifact",
				"artifactId", a.ID, "storageName", entry.StorageName)
		}
		return nil, nil, err
	}
	return rc, entry, nil
}

// discard removes blobs written for an upload whose registry insert never
// committed.
func (s *Service) discard(ctx context.Context, entries []domain.ContentEntry) {
	for _, e := range entries {
		if err := s.blobs.Delete(ctx, e.StorageName); err != nil {
			s.logger.Error("failed to roll back blob", "storageName", e.StorageName, "error", err)
		}
	}
}

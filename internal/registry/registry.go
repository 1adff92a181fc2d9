package registry

import (
	"context"
	"errors"
	"time"

	"github.com/ondrasimku/edrive-go/internal/domain"
)

var (
	// ErrDuplicateCode is returned when an insert would reuse an access code
	// that is still stored, live or not.
	ErrDuplicateCode = errors.New("access code already in use")

	// ErrStorageUnavailable is returned when the backing store cannot be
	// reached, so callers can tell "does not exist" from "could not check".
	ErrStorageUnavailable = errors.New("registry storage unavailable")
)

// Registry is the authoritative record of every artifact, keyed by access
// code with a secondary id index. Lookups return (nil, nil) on a miss,
// including for records whose expiration has passed but that have not been
// swept yet.
type Registry interface {
	// Insert atomically checks code uniqueness and persists the artifact.
	// Concurrent inserts racing on the same code yield exactly one success
	// and one ErrDuplicateCode.
	Insert(ctx context.Context, a *domain.Artifact) error

	// FindLive looks up an artifact by access code, case-insensitively.
	FindLive(ctx context.Context, accessCode string) (*domain.Artifact, error)

	// FindByID looks up an artifact by its id, liveness-filtered like
	// FindLive.
	FindByID(ctx context.Context, id string) (*domain.Artifact, error)

	// DeleteExpiredBefore returns and removes every record with
	// ExpiresAt <= now. It is the only bulk operation and exists for the
	// sweeper alone.
	DeleteExpiredBefore(ctx context.Context, now time.Time) ([]*domain.Artifact, error)
}

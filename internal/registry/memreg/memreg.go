package memreg

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ondrasimku/edrive-go/internal/domain"
	"github.com/ondrasimku/edrive-go/internal/registry"
)

// Store is an in-process Registry guarded by an RWMutex, used for tests and
// single-node runs without redis. Artifacts are copied on insert and on
// return so callers cannot mutate registry state through shared slices.
type Store struct {
	mu     sync.RWMutex
	byCode map[string]*domain.Artifact
	byID   map[string]string // artifact id -> access code
	now    func() time.Time
}

// New returns an empty in-memory registry.
func New() *Store {
	return &Store{
		byCode: make(map[string]*domain.Artifact),
		byID:   make(map[string]string),
		now:    time.Now,
	}
}

func (s *Store) Insert(ctx context.Context, a *domain.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byCode[a.AccessCode]; exists {
		return registry.ErrDuplicateCode
	}
	cp := clone(a)
	s.byCode[cp.AccessCode] = cp
	s.byID[cp.ID] = cp.AccessCode
	return nil
}

func (s *Store) FindLive(ctx context.Context, accessCode string) (*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.byCode[strings.ToUpper(accessCode)]
	if !ok || !a.Live(s.now()) {
		return nil, nil
	}
	return clone(a), nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.byID[id]
	if !ok {
		return nil, nil
	}
	a, ok := s.byCode[code]
	if !ok || !a.Live(s.now()) {
		return nil, nil
	}
	return clone(a), nil
}

func (s *Store) DeleteExpiredBefore(ctx context.Context, now time.Time) ([]*domain.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var expired []*domain.Artifact
	for code, a := range s.byCode {
		if a.Live(now) {
			continue
		}
		expired = append(expired, a)
		delete(s.byCode, code)
		delete(s.byID, a.ID)
	}
	return expired, nil
}

func clone(a *domain.Artifact) *domain.Artifact {
	cp := *a
	cp.Entries = make([]domain.ContentEntry, len(a.Entries))
	copy(cp.Entries, a.Entries)
	return &cp
}

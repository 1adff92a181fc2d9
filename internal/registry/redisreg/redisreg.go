package redisreg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ondrasimku/edrive-go/internal/domain"
	"github.com/ondrasimku/edrive-go/internal/registry"
)

const expiryKey = "edrive:expiry"

// The code key, id index and expiry member must commit together: a record
// without its expiry member would be invisible to the sweeper and block its
// code forever. The script also doubles as the uniqueness guard, since redis
// runs it atomically.
var insertScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return 0
end
redis.call("SET", KEYS[1], ARGV[1])
redis.call("SET", KEYS[2], ARGV[2])
redis.call("ZADD", KEYS[3], ARGV[3], ARGV[2])
return 1
`)

// Store implements the artifact registry on redis. Records live under the
// code key with a secondary id index and an expiry-ordered sorted set for
// the sweeper. Keys carry no redis TTL on purpose: letting redis expire a
// record would leave its blobs on disk with nothing pointing at them, so
// liveness filtering at read time plus the sweeper do all the work.
type Store struct {
	client *redis.Client
	now    func() time.Time
}

// New connects to redis at the given URL and returns a registry backed by it.
func New(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &Store{client: client, now: time.Now}, nil
}

// Close closes the underlying redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Insert(ctx context.Context, a *domain.Artifact) error {
	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	created, err := insertScript.Run(ctx, s.client,
		[]string{codeKey(a.AccessCode), idKey(a.ID), expiryKey},
		payload, a.AccessCode, a.ExpiresAt.UnixMilli(),
	).Int()
	if err != nil {
		return unavailable(err)
	}
	if created == 0 {
		return registry.ErrDuplicateCode
	}
	return nil
}

func (s *Store) FindLive(ctx context.Context, accessCode string) (*domain.Artifact, error) {
	a, err := s.getByCode(ctx, strings.ToUpper(accessCode))
	if err != nil || a == nil {
		return nil, err
	}
	if !a.Live(s.now()) {
		return nil, nil
	}
	return a, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*domain.Artifact, error) {
	accessCode, err := s.client.Get(ctx, idKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}
	a, err := s.getByCode(ctx, accessCode)
	if err != nil || a == nil {
		return nil, err
	}
	if !a.Live(s.now()) {
		return nil, nil
	}
	return a, nil
}

func (s *Store) DeleteExpiredBefore(ctx context.Context, now time.Time) ([]*domain.Artifact, error) {
	codes, err := s.client.ZRangeByScore(ctx, expiryKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", now.UnixMilli()),
	}).Result()
	if err != nil {
		return nil, unavailable(err)
	}
	var expired []*domain.Artifact
	for _, c := range codes {
		a, err := s.getByCode(ctx, c)
		if err != nil {
			return expired, err
		}
		pipe := s.client.TxPipeline()
		pipe.Del(ctx, codeKey(c))
		pipe.ZRem(ctx, expiryKey, c)
		if a != nil {
			pipe.Del(ctx, idKey(a.ID))
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return expired, unavailable(err)
		}
		if a != nil {
			expired = append(expired, a)
		}
	}
	return expired, nil
}

func (s *Store) getByCode(ctx context.Context, accessCode string) (*domain.Artifact, error) {
	data, err := s.client.Get(ctx, codeKey(accessCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable(err)
	}
	var a domain.Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal artifact %s: %w", accessCode, err)
	}
	return &a, nil
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %v", registry.ErrStorageUnavailable, err)
}

func codeKey(accessCode string) string {
	return "edrive:code:" + accessCode
}

func idKey(id string) string {
	return "edrive:id:" + id
}

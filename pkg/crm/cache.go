package crm

import (
	"context"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/fields"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/redis"
)

// DefaultCacheTTL bounds staleness of cached member reads.
const DefaultCacheTTL = 5 * time.Minute

// CachedStore decorates a Store with a Redis read cache for Get. Save and
// Delete invalidate; Find always goes to the store since query results
// cannot be invalidated per key.
type CachedStore struct {
	Store

	cache  *redis.Client
	schema *fields.Config
	ttl    time.Duration
	logger ectologger.Logger
}

// NewCachedStore wraps a store with a member read cache.
func NewCachedStore(store Store, cache *redis.Client, schema *fields.Config, ttl time.Duration, logger ectologger.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{
		Store:  store,
		cache:  cache,
		schema: schema,
		ttl:    ttl,
		logger: logger,
	}
}

func cacheKey(id string) string {
	return "member:" + id
}

func (s *CachedStore) Get(ctx context.Context, id string) (*models.Member, error) {
	cached, err := s.cache.Get(ctx, cacheKey(id))
	if err == nil {
		if m, decodeErr := DecodeMember([]byte(cached), s.schema); decodeErr == nil {
			return m, nil
		}
		// Unreadable entries fall through to the store and get rewritten.
	} else if !redis.IsMiss(err) {
		s.logger.WithContext(ctx).WithError(err).Warnf("Member cache read failed for %s", id)
	}

	m, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.put(ctx, m)
	return m, nil
}

func (s *CachedStore) Save(ctx context.Context, m *models.Member) (*models.Member, error) {
	saved, err := s.Store.Save(ctx, m)
	if err != nil {
		return nil, err
	}
	s.put(ctx, saved)
	return saved, nil
}

func (s *CachedStore) Delete(ctx context.Context, id string) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.Del(ctx, cacheKey(id)); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warnf("Member cache invalidation failed for %s", id)
	}
	return nil
}

func (s *CachedStore) put(ctx context.Context, m *models.Member) {
	if m.ID == "" {
		return
	}
	data, err := EncodeMember(m)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(m.ID), data, s.ttl); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warnf("Member cache write failed for %s", m.ID)
	}
}

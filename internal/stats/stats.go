// Package stats serves the platform counters shown on the landing page.
package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/wxllspace/wxllspace-backend/internal/logging"
	"github.com/wxllspace/wxllspace-backend/internal/metrics"
)

const cacheKey = "stats:counts"

// Stats are the three landing-page counters. Walls counts wall-owner
// records, each of which carries one wall.
type Stats struct {
	Artists   int64     `json:"artists_count"`
	Walls     int64     `json:"walls_count"`
	Projects  int64     `json:"projects_count"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Counter interface {
	Count(ctx context.Context) (Stats, error)
}

// PGCounter reads all three counts in one round trip.
type PGCounter struct {
	db *pgxpool.Pool
}

func NewPGCounter(db *pgxpool.Pool) *PGCounter {
	return &PGCounter{db: db}
}

func (c *PGCounter) Count(ctx context.Context) (Stats, error) {
	const q = `
select
  (select count(*) from artists),
  (select count(*) from wall_owners),
  (select count(*) from projects)
`
	var s Stats
	if err := c.db.QueryRow(ctx, q).Scan(&s.Artists, &s.Walls, &s.Projects); err != nil {
		return Stats{}, fmt.Errorf("count stats: %w", err)
	}
	return s, nil
}

// Service caches the counts in Redis. Reads never fail: when the counts
// cannot be obtained the zero Stats is returned and the failure is logged.
type Service struct {
	counter Counter
	client  redis.UniversalClient
	ttl     time.Duration
	now     func() time.Time
}

func NewService(counter Counter, client redis.UniversalClient, ttl time.Duration) *Service {
	return &Service{counter: counter, client: client, ttl: ttl, now: time.Now}
}

// Get returns the cached counts, counting on a miss.
func (s *Service) Get(ctx context.Context) Stats {
	log := logging.NewLogger(ctx)

	data, err := s.client.Get(ctx, cacheKey).Bytes()
	switch {
	case err == nil:
		var st Stats
		if err := json.Unmarshal(data, &st); err == nil {
			return st
		}
		log.LogWarn("stats.Get", "discarding unreadable cache entry")
	case !errors.Is(err, redis.Nil):
		log.LogError("stats.Get", err)
	}

	st, err := s.Refresh(ctx)
	if err != nil {
		return Stats{}
	}
	return st
}

// Refresh recounts and overwrites the cache. A cache write failure still
// returns the fresh counts.
func (s *Service) Refresh(ctx context.Context) (st Stats, err error) {
	log := logging.NewLogger(ctx)
	defer func() { metrics.StatsRefreshes.WithLabelValues(metrics.Result(err)).Inc() }()

	st, err = s.counter.Count(ctx)
	if err != nil {
		log.LogError("stats.Refresh", err)
		return Stats{}, err
	}
	st.UpdatedAt = s.now().UTC()

	data, err := json.Marshal(st)
	if err != nil {
		return st, err
	}
	if err := s.client.Set(ctx, cacheKey, data, s.ttl).Err(); err != nil {
		log.LogError("stats.Refresh", fmt.Errorf("cache counts: %w", err))
	}
	return st, nil
}

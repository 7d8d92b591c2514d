// ABOUTME: Insight report cache keyed by user, with pluggable backends.
// ABOUTME: Backend read failures surface as misses so a report is always computable.
package cache

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"
	"time"

	"github.com/harperreed/wellsync/internal/models"
)

// KeyPrefix namespaces cache keys in shared backends.
const KeyPrefix = "wellsync:insights:"

// DefaultTTL bounds how long a report may be served without a write.
const DefaultTTL = 24 * time.Hour

// ErrStale is returned by Put when the user was invalidated after the
// generation passed to it was read.
var ErrStale = errors.New("cache generation changed")

// Cache stores the most recent insight report per user.
//
// Every Invalidate advances the user's generation in the backend itself, so
// processes sharing a backend agree on it. A caller reads Generation before
// computing a report and hands it back to Put, which refuses to store the
// report if any Invalidate happened in between.
type Cache interface {
	// Get returns the cached report. Backend errors are reported as a miss.
	Get(ctx context.Context, userID string) (*models.InsightReport, bool)
	// Generation returns the user's current invalidation generation.
	Generation(ctx context.Context, userID string) (uint64, error)
	// Put stores the user's report if the generation is still gen, and
	// returns ErrStale otherwise.
	Put(ctx context.Context, userID string, gen uint64, report *models.InsightReport) error
	// Invalidate drops the user's report and advances their generation.
	Invalidate(ctx context.Context, userID string) error
	Close() error
}

// Key returns the backend key for a user.
func Key(userID string) string {
	return KeyPrefix + userID
}

// GenerationKey returns the backend key holding a user's generation.
func GenerationKey(userID string) string {
	return KeyPrefix + "gen:" + userID
}

// memoryShards is the number of generation counters Memory keeps. Users
// hashing to the same shard share a counter.
const memoryShards = 64

type memoryEntry struct {
	report  *models.InsightReport
	expires time.Time
}

// Memory is an in-process cache for tests and single-process deployments.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	gens    [memoryShards]uint64
	ttl     time.Duration
	now     func() time.Time
}

var _ Cache = (*Memory)(nil)

// NewMemory creates a memory cache. A ttl of zero keeps entries until invalidated.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, userID string) (*models.InsightReport, bool) {
	m.mu.RLock()
	e, ok := m.entries[userID]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expires.IsZero() && !m.now().Before(e.expires) {
		m.mu.Lock()
		if cur, ok := m.entries[userID]; ok && cur.expires == e.expires {
			delete(m.entries, userID)
		}
		m.mu.Unlock()
		return nil, false
	}
	return e.report, true
}

func (m *Memory) Generation(_ context.Context, userID string) (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gens[shard(userID)], nil
}

func (m *Memory) Put(_ context.Context, userID string, gen uint64, report *models.InsightReport) error {
	e := memoryEntry{report: report}
	if m.ttl > 0 {
		e.expires = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gens[shard(userID)] != gen {
		return ErrStale
	}
	m.entries[userID] = e
	return nil
}

func (m *Memory) Invalidate(_ context.Context, userID string) error {
	m.mu.Lock()
	delete(m.entries, userID)
	m.gens[shard(userID)]++
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error {
	return nil
}

func shard(userID string) int {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return int(h.Sum32() % memoryShards)
}

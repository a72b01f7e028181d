package limiter

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// visitor tracks the token bucket of a single client
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Store is a thread-safe set of per-client token buckets.
// Buckets idle for longer than ttl are dropped by a background sweep.
type Store struct {
	visitors map[string]*visitor
	mutex    sync.Mutex

	limit rate.Limit
	burst int
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

// NewStore creates a store allowing perMinute requests per key with the given burst
func NewStore(perMinute, burst int, ttl time.Duration) *Store {
	if burst <= 0 {
		burst = perMinute
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	s := &Store{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go s.cleanupIdle()

	return s
}

// Allow reports whether a request for key may proceed now
func (s *Store) Allow(key string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	v, exists := s.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = s.now()

	return v.limiter.AllowN(v.lastSeen, 1)
}

// Close stops the cleanup goroutine
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

// cleanupIdle removes idle visitors periodically
func (s *Store) cleanupIdle() {
	ticker := time.NewTicker(s.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep()
		case <-s.stop:
			return
		}
	}
}

func (s *Store) sweep() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := s.now().Add(-s.ttl)
	for key, v := range s.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(s.visitors, key)
		}
	}
}

// Size returns the number of tracked clients (for debugging/monitoring)
func (s *Store) Size() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.visitors)
}

package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// defaultLinger keeps a settled entry registered briefly so a burst of
	// near-simultaneous duplicate calls reuses the resolved result instead
	// of re-invoking the fetcher.
	defaultLinger = 100 * time.Millisecond

	// defaultMaxInFlightAge bounds how long an unsettled entry may occupy
	// the map. A fetcher that never returns gets its entry evicted so later
	// callers retry fresh; callers already waiting keep waiting on the
	// fetcher's own timeout.
	defaultMaxInFlightAge = 2 * time.Minute
)

type inflightCall struct {
	wg      sync.WaitGroup
	val     any
	err     error
	settled bool // guarded by Coalescer.mu
	started time.Time
}

// Coalescer deduplicates concurrent identical fetches within one process:
// at most one execution of the fetcher runs per key at any instant, and all
// callers sharing the key observe the same result or the same error. It
// guards against concurrent duplicate work; the durable Store guards against
// duplicate work over time.
type Coalescer struct {
	mu       sync.Mutex
	inflight map[string]*inflightCall
	linger   time.Duration
	maxAge   time.Duration
	logger   *zap.Logger
}

// NewCoalescer creates a coalescer with the default linger and eviction bound
func NewCoalescer(logger *zap.Logger) *Coalescer {
	return NewCoalescerWithLinger(logger, defaultLinger, defaultMaxInFlightAge)
}

// NewCoalescerWithLinger lets callers override the post-settlement linger and
// the forced-eviction age for unsettled entries
func NewCoalescerWithLinger(logger *zap.Logger, linger, maxAge time.Duration) *Coalescer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if linger <= 0 {
		linger = defaultLinger
	}
	if maxAge <= 0 {
		maxAge = defaultMaxInFlightAge
	}
	return &Coalescer{
		inflight: make(map[string]*inflightCall),
		linger:   linger,
		maxAge:   maxAge,
		logger:   logger,
	}
}

// GenerateKey builds a deterministic cache key from an endpoint name and its
// parameters: parameter names are sorted lexicographically and joined as
// name:value pairs, so the same parameter set always yields the same key
// regardless of map iteration order.
func GenerateKey(endpoint string, params map[string]string) string {
	if len(params) == 0 {
		return endpoint
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(endpoint)
	for _, name := range names {
		b.WriteString("|")
		b.WriteString(name)
		b.WriteString(":")
		b.WriteString(params[name])
	}
	return b.String()
}

// Do executes fn ensuring at most one concurrent execution per key. A caller
// arriving while an identical request is in flight waits for it and receives
// the same value or error. The registration is removed a fixed linger after
// fn settles, not immediately, so request storms that land just after
// completion still reuse the already-resolved result.
func (c *Coalescer) Do(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if call, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		call.wg.Wait()
		return call.val, call.err
	}

	call := &inflightCall{started: time.Now()}
	call.wg.Add(1)
	c.inflight[key] = call
	c.mu.Unlock()

	// Evict if fn never settles, so the key doesn't stay poisoned forever
	evict := time.AfterFunc(c.maxAge, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if current, ok := c.inflight[key]; ok && current == call && !call.settled {
			delete(c.inflight, key)
			c.logger.Warn("Evicting stuck in-flight request",
				zap.String("key", key),
				zap.Duration("age", time.Since(call.started)),
			)
		}
	})

	call.val, call.err = fn()

	c.mu.Lock()
	call.settled = true
	c.mu.Unlock()
	evict.Stop()
	call.wg.Done()

	time.AfterFunc(c.linger, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if current, ok := c.inflight[key]; ok && current == call {
			delete(c.inflight, key)
		}
	})

	return call.val, call.err
}

// Forget drops the registration for key immediately, letting the next call
// execute fresh. Used when a cache entry is explicitly invalidated.
func (c *Coalescer) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, key)
}

// InFlight returns the number of currently registered requests
func (c *Coalescer) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.inflight)
}

// Deduplicate is a typed wrapper around Coalescer.Do
func Deduplicate[T any](c *Coalescer, key string, fn func() (T, error)) (T, error) {
	v, err := c.Do(key, func() (any, error) {
		return fn()
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

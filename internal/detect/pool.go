package detect

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// Pool sizing defaults.
const (
	// DefaultWarmCount is the number of instances created up front per category.
	DefaultWarmCount = 2

	// DefaultMaxPerCategory is the hard instance cap per category.
	DefaultMaxPerCategory = 16

	// DefaultAcquireTimeout bounds how long Acquire blocks on an exhausted pool.
	DefaultAcquireTimeout = 2 * time.Second
)

// Sentinel pool errors.
var (
	// ErrPoolTimeout is returned when no instance became available within the
	// acquire timeout. Recoverable: the caller records a warning and moves on.
	ErrPoolTimeout = errors.New("detect: pool acquire timed out")

	// ErrUnknownCategory is returned for a category no detector exists for.
	ErrUnknownCategory = errors.New("detect: unknown detector category")
)

// PoolConfig tunes the per-category pools.
type PoolConfig struct {
	Warm           int
	Max            int
	AcquireTimeout time.Duration
	Detector       Config

	// Factory constructs detector instances. Nil selects the built-in
	// detector set; callers substitute it to run custom detectors.
	Factory func(Category, Config) (Detector, error)
}

// withDefaults fills unset pool parameters.
func (c PoolConfig) withDefaults() PoolConfig {
	if c.Warm <= 0 {
		c.Warm = DefaultWarmCount
	}

	if c.Max <= 0 {
		c.Max = DefaultMaxPerCategory
	}

	if c.Warm > c.Max {
		c.Warm = c.Max
	}

	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = DefaultAcquireTimeout
	}

	if c.Factory == nil {
		c.Factory = newDetector
	}

	c.Detector = c.Detector.withDefaults()

	return c
}

// Instance is one pooled detector, owned by the pool except while checked
// out to exactly one worker.
type Instance struct {
	Detector

	lastUsed time.Time
}

// categoryPool holds one category's instances. Each category has its own
// lock and semaphore, so contention never crosses categories.
type categoryPool struct {
	mu      sync.Mutex
	idle    []*Instance
	created int

	// slots is a counting semaphore with one token per permitted
	// checked-out instance.
	slots chan struct{}

	// Diagnostics (atomic for lock-free reads).
	acquires   atomic.Int64
	reuses     atomic.Int64
	timeouts   atomic.Int64
	totalWaitN atomic.Int64 // Nanoseconds spent waiting in Acquire.
}

// Pool owns one bounded detector pool per category. It is passed by handle
// from the orchestrator, never held as global state, and it never resizes
// on its own.
type Pool struct {
	cfg  PoolConfig
	cats map[Category]*categoryPool
}

// NewPool creates warm pools for every detector category.
func NewPool(cfg PoolConfig) (*Pool, error) {
	cfg = cfg.withDefaults()

	p := &Pool{
		cfg:  cfg,
		cats: make(map[Category]*categoryPool, len(Categories())),
	}

	for _, cat := range Categories() {
		cp := &categoryPool{
			slots: make(chan struct{}, cfg.Max),
		}

		for range cfg.Warm {
			det, err := cfg.Factory(cat, cfg.Detector)
			if err != nil {
				return nil, err
			}

			cp.idle = append(cp.idle, &Instance{Detector: det})
			cp.created++
		}

		p.cats[cat] = cp
	}

	return p, nil
}

// Acquire checks out a detector instance for the category, blocking up to
// the configured timeout when the pool is exhausted. Growth past the warm
// count is lazy and capped at the maximum.
func (p *Pool) Acquire(ctx context.Context, cat Category) (*Instance, error) {
	cp, ok := p.cats[cat]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
	}

	cp.acquires.Add(1)

	start := time.Now()

	timer := time.NewTimer(p.cfg.AcquireTimeout)
	defer timer.Stop()

	select {
	case cp.slots <- struct{}{}:
		cp.totalWaitN.Add(time.Since(start).Nanoseconds())
	case <-timer.C:
		cp.timeouts.Add(1)

		return nil, fmt.Errorf("%w: category %s after %s", ErrPoolTimeout, cat, p.cfg.AcquireTimeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	cp.mu.Lock()
	defer cp.mu.Unlock()

	if n := len(cp.idle); n > 0 {
		inst := cp.idle[n-1]
		cp.idle = cp.idle[:n-1]
		inst.lastUsed = time.Now()
		cp.reuses.Add(1)

		return inst, nil
	}

	// Holding a slot token guarantees created < max here: a discarded
	// instance released its token along with its created count.
	det, err := p.cfg.Factory(cat, p.cfg.Detector)
	if err != nil {
		<-cp.slots

		return nil, err
	}

	cp.created++

	return &Instance{Detector: det, lastUsed: time.Now()}, nil
}

// Release returns a healthy instance to its category pool after clearing
// its scratch state.
func (p *Pool) Release(cat Category, inst *Instance) {
	cp, ok := p.cats[cat]
	if !ok || inst == nil {
		return
	}

	inst.Reset()

	cp.mu.Lock()
	cp.idle = append(cp.idle, inst)
	cp.mu.Unlock()

	<-cp.slots
}

// Discard drops an instance that failed during use. The pool creates a
// replacement lazily on the next Acquire.
func (p *Pool) Discard(cat Category, inst *Instance) {
	cp, ok := p.cats[cat]
	if !ok || inst == nil {
		return
	}

	cp.mu.Lock()
	cp.created--
	cp.mu.Unlock()

	<-cp.slots
}

// PoolStats describes one category pool's behavior.
type PoolStats struct {
	Category Category
	Created  int
	Idle     int
	Acquires int64
	Timeouts int64
	HitRate  float64       // Share of acquires served by a reused instance.
	AvgWait  time.Duration // Mean time spent blocked in Acquire.
}

// Stats returns diagnostics for one category.
func (p *Pool) Stats(cat Category) PoolStats {
	cp, ok := p.cats[cat]
	if !ok {
		return PoolStats{Category: cat}
	}

	cp.mu.Lock()
	created, idle := cp.created, len(cp.idle)
	cp.mu.Unlock()

	acquires := cp.acquires.Load()
	stats := PoolStats{
		Category: cat,
		Created:  created,
		Idle:     idle,
		Acquires: acquires,
		Timeouts: cp.timeouts.Load(),
	}

	if acquires > 0 {
		stats.HitRate = float64(cp.reuses.Load()) / float64(acquires)
		stats.AvgWait = time.Duration(cp.totalWaitN.Load() / acquires)
	}

	return stats
}

// the query package caches the results of API calls for the ui.
//
// Entries are keyed by resource and serialized parameters. A fresh entry is served without a network
// call, concurrent fetches of the same key share one request, failed fetches are retried with
// exponential backoff, and entries nobody observes are evicted after the GC time.
//
// Observers (see Subscribe) are refreshed when the refetch interval elapses and when Focus is called.
// Each Cache is independent: build one at startup, pass it to the handlers and Close it on shutdown.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	povodb "github.com/povodb/povodb-ui"
)

// ErrClosed is returned by queries run after Close
var ErrClosed = errors.New("query cache closed")

// Fetcher loads the data for one key. It is called with a context that is not canceled when the
// requesting caller goes away, so that the shared result can still be cached.
type Fetcher[T any] func(ctx context.Context) (T, error)

type Config struct {
	StaleTime       time.Duration
	RefetchInterval time.Duration
	GCTime          time.Duration
	Retry           int
	Logger          *slog.Logger
}

// DefaultConfig returns the default policy: 5m staleness, 10m background refresh, 5m GC and 2 retries
func DefaultConfig() Config {
	return Config{
		StaleTime:       povodb.DefaultStaleTime,
		RefetchInterval: povodb.DefaultRefetchInterval,
		GCTime:          povodb.DefaultGCTime,
		Retry:           povodb.DefaultRetry,
	}
}

// CacheOption replaces the clock and the retry sleep, used by tests
type CacheOption func(*Cache)

func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) { c.now = now }
}

// WithSleep replaces the wait between retries. sleep must return early with ctx.Err() when ctx ends.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) CacheOption {
	return func(c *Cache) { c.sleep = sleep }
}

type Cache struct {
	mu      sync.Mutex
	entries map[Key]*entry
	closed  bool

	group    singleflight.Group
	defaults Options
	gcTime   time.Duration
	logger   *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	// ctx is canceled by Close and stops in-flight fetches
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// entry is guarded by Cache.mu
type entry struct {
	key       Key
	data      any
	err       error
	status    Status
	updatedAt time.Time
	stale     bool

	// the most recent fetcher and options, used for background refetches
	fetch func(ctx context.Context) (any, error)
	opts  Options

	// inUse counts callers currently inside Fetch. Together with observers it keeps the entry alive.
	inUse     int
	observers map[*observer]struct{}

	gcTimer       *time.Timer
	intervalTimer *time.Timer
}

func (e *entry) observed() bool {
	return len(e.observers) > 0
}

func (e *entry) unused() bool {
	return e.inUse == 0 && len(e.observers) == 0
}

func New(cfg Config, opts ...CacheOption) *Cache {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache{
		entries: make(map[Key]*entry),
		defaults: Options{
			StaleTime:       cfg.StaleTime,
			RefetchInterval: cfg.RefetchInterval,
			Retry:           cfg.Retry,
			RetryDelay:      DefaultRetryDelay,
			Enabled:         true,
			RefetchOnFocus:  true,
		},
		gcTime: cfg.GCTime,
		logger: logger,
		now:    time.Now,
		sleep:  sleepContext,
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Defaults returns the options applied to every query before per-query options
func (c *Cache) Defaults() Options {
	return c.defaults
}

func (c *Cache) options(opts []Option) Options {
	o := c.defaults
	for _, opt := range opts {
		opt(&o)
	}
	if o.RetryDelay == nil {
		o.RetryDelay = DefaultRetryDelay
	}
	return o
}

// Fetch returns the result for key, calling fn when there is no fresh entry.
//
// Disabled queries return an idle result without calling fn.
// Concurrent calls for the same key share one call to fn. When ctx ends before the shared call
// completes, Fetch returns ctx.Err() and the shared call carries on and updates the cache.
// Failures are retried per Options.Retry, unless marked with Permanent. Fetch never panics on
// behalf of fn: a panic is returned as a *PanicError.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn Fetcher[T], opts ...Option) Result[T] {
	o := c.options(opts)
	if !o.Enabled {
		return Result[T]{Key: key, Status: StatusIdle}
	}

	e, err := c.acquire(key, o, erase(fn))
	if err != nil {
		return Result[T]{Key: key, Status: StatusError, Err: err}
	}
	defer c.release(e)

	if res, ok := c.fresh(e, o); ok {
		return convert[T](res)
	}

	ch := c.group.DoChan(key.String(), func() (any, error) {
		return c.run(ctx, e, o)
	})

	select {
	case <-ctx.Done():
		return Result[T]{Key: key, Status: StatusError, Err: ctx.Err()}
	case r := <-ch:
		s := c.snapshot(e)
		if s.status == StatusLoading {
			// joined a fetch that stored into an entry since evicted
			s = snapshot{key: key, data: r.Val, err: r.Err, status: StatusSuccess, updatedAt: c.now()}
			if r.Err != nil {
				s.data = nil
				s.status = StatusError
			}
		}
		return convert[T](s)
	}
}

// erase adapts a typed fetcher to the untyped form stored in the entry
func erase[T any](fn Fetcher[T]) func(ctx context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

func convert[T any](s snapshot) Result[T] {
	res := Result[T]{
		Key:       s.key,
		Status:    s.status,
		Err:       s.err,
		UpdatedAt: s.updatedAt,
	}
	if s.data == nil {
		return res
	}
	data, ok := s.data.(T)
	if !ok {
		var zero T
		res.Status = StatusError
		res.Err = fmt.Errorf("cached data for %s is %T, not %T", s.key, s.data, zero)
		return res
	}
	res.Data = data
	return res
}

// snapshot is an untyped copy of an entry's state
type snapshot struct {
	key       Key
	data      any
	err       error
	status    Status
	updatedAt time.Time
}

func (c *Cache) snapshot(e *entry) snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshotLocked(e)
}

func snapshotLocked(e *entry) snapshot {
	return snapshot{
		key:       e.key,
		data:      e.data,
		err:       e.err,
		status:    e.status,
		updatedAt: e.updatedAt,
	}
}

// acquire returns the entry for key, creating it when needed, and marks it in use
func (c *Cache) acquire(key Key, o Options, fetch func(ctx context.Context) (any, error)) (*entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, ErrClosed
	}

	e, ok := c.entries[key]
	if !ok {
		e = &entry{
			key:       key,
			status:    StatusLoading,
			observers: make(map[*observer]struct{}),
		}
		c.entries[key] = e
	}
	e.fetch = fetch
	e.opts = o
	e.inUse++
	if e.gcTimer != nil {
		e.gcTimer.Stop()
		e.gcTimer = nil
	}
	return e, nil
}

// release undoes acquire and schedules garbage collection when nothing uses the entry
func (c *Cache) release(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e.inUse--
	c.scheduleGCLocked(e)
}

func (c *Cache) scheduleGCLocked(e *entry) {
	if c.closed || !e.unused() || c.entries[e.key] != e {
		return
	}
	if e.gcTimer != nil {
		e.gcTimer.Stop()
	}
	if c.gcTime <= 0 {
		c.evictLocked(e)
		return
	}
	e.gcTimer = time.AfterFunc(c.gcTime, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if e.unused() && c.entries[e.key] == e {
			c.evictLocked(e)
		}
	})
}

func (c *Cache) evictLocked(e *entry) {
	delete(c.entries, e.key)
	if e.gcTimer != nil {
		e.gcTimer.Stop()
		e.gcTimer = nil
	}
	c.logger.Debug("query evicted", slog.String("key", e.key.String()))
}

// fresh returns the cached result when it is a success within the staleness window
func (c *Cache) fresh(e *entry, o Options) (snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if o.Refetch || e.status != StatusSuccess || e.stale {
		return snapshot{}, false
	}
	if c.now().Sub(e.updatedAt) >= o.StaleTime {
		return snapshot{}, false
	}
	return snapshotLocked(e), true
}

// run calls the entry fetcher with retries and stores the outcome. It is only called through
// c.group, so there is at most one run per key at a time.
func (c *Cache) run(ctx context.Context, e *entry, o Options) (any, error) {
	// the shared call outlives the caller that started it but not the cache
	fetchCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	c.mu.Lock()
	fetch := e.fetch
	c.mu.Unlock()

	var (
		data any
		err  error
	)
	for attempt := 0; ; attempt++ {
		data, err = attemptFetch(fetchCtx, fetch)
		if err == nil {
			break
		}
		if attempt >= o.Retry || IsPermanent(err) || fetchCtx.Err() != nil {
			break
		}

		delay := o.RetryDelay(attempt)
		c.logger.Debug("query failed, retrying",
			slog.String("key", e.key.String()),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		if sleepErr := c.sleep(fetchCtx, delay); sleepErr != nil {
			break
		}
	}

	c.store(e, data, err)
	return data, err
}

func attemptFetch(ctx context.Context, fetch func(ctx context.Context) (any, error)) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = &PanicError{Value: r}
		}
	}()
	return fetch(ctx)
}

// store records the outcome of a fetch and notifies the observers.
// Entries evicted or replaced while the fetch was running are not updated.
func (c *Cache) store(e *entry, data any, err error) {
	c.mu.Lock()
	if c.entries[e.key] != e {
		c.mu.Unlock()
		return
	}
	if err != nil {
		e.err = err
		e.status = StatusError
		c.logger.Debug("query failed", slog.String("key", e.key.String()), slog.Any("error", err))
	} else {
		e.data = data
		e.err = nil
		e.status = StatusSuccess
		e.updatedAt = c.now()
		e.stale = false
	}
	snap := snapshotLocked(e)
	observers := make([]*observer, 0, len(e.observers))
	for o := range e.observers {
		observers = append(observers, o)
	}
	c.mu.Unlock()

	for _, o := range observers {
		o.send(snap)
	}
}

// refetch runs the entry fetcher in the background, sharing any fetch already in flight
func (c *Cache) refetch(e *entry) {
	c.mu.Lock()
	if c.closed || e.fetch == nil {
		c.mu.Unlock()
		return
	}
	o := e.opts
	c.wg.Add(1)
	c.mu.Unlock()

	go func() {
		defer c.wg.Done()
		_, _, _ = c.group.Do(e.key.String(), func() (any, error) {
			return c.run(c.ctx, e, o)
		})
	}()
}

// Focus is called when the user returns to the page: observed entries are refetched and the
// others are marked stale so that their next Fetch goes to the network.
// When resources are given only their entries (and those of their sub-resources) are affected.
// It returns the number of entries refetched.
func (c *Cache) Focus(resources ...string) int {
	c.mu.Lock()
	var refetch []*entry
	for key, e := range c.entries {
		if !matchesAny(key, resources) {
			continue
		}
		if e.observed() && e.opts.RefetchOnFocus {
			refetch = append(refetch, e)
			continue
		}
		e.stale = true
	}
	c.mu.Unlock()

	for _, e := range refetch {
		c.refetch(e)
	}
	return len(refetch)
}

func matchesAny(key Key, resources []string) bool {
	if len(resources) == 0 {
		return true
	}
	for _, r := range resources {
		if key.Matches(r) {
			return true
		}
	}
	return false
}

// Invalidate marks every entry of resource (and its sub-resources) stale and refetches the observed ones.
// It returns the number of entries invalidated.
func (c *Cache) Invalidate(resource string) int {
	c.mu.Lock()
	var refetch []*entry
	n := 0
	for key, e := range c.entries {
		if !key.Matches(resource) {
			continue
		}
		n++
		e.stale = true
		if e.observed() {
			refetch = append(refetch, e)
		}
	}
	c.mu.Unlock()

	for _, e := range refetch {
		c.refetch(e)
	}
	return n
}

// Len returns the number of cached entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Keys returns the keys of the cached entries with their status, in no particular order
func (c *Cache) Keys() map[Key]Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make(map[Key]Status, len(c.entries))
	for k, e := range c.entries {
		keys[k] = e.status
	}
	return keys
}

// Close stops every timer, cancels in-flight fetches and waits for background refetches to return.
// Observers receive no further updates. Queries run after Close fail with ErrClosed.
func (c *Cache) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	var observers []*observer
	for _, e := range c.entries {
		if e.gcTimer != nil {
			e.gcTimer.Stop()
		}
		if e.intervalTimer != nil {
			e.intervalTimer.Stop()
		}
		for o := range e.observers {
			observers = append(observers, o)
		}
	}
	c.entries = make(map[Key]*entry)
	c.mu.Unlock()

	for _, o := range observers {
		o.close()
	}
	c.cancel()
	c.wg.Wait()
}

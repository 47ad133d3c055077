package query

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// observer receives the snapshots stored for one entry until it is closed
type observer struct {
	mu      sync.Mutex
	closed  bool
	deliver func(s snapshot)
}

func (o *observer) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.closed = true
}

func (o *observer) send(s snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return
	}
	o.deliver(s)
}

// Subscription keeps an entry observed: it is refetched on Focus and every refetch interval, and is
// not garbage collected until the subscription is closed.
type Subscription struct {
	cache *Cache
	key   Key
	obs   *observer
	once  sync.Once
}

// Close detaches the observer. No update is delivered once Close has returned.
// Close must not be called from inside the notify function.
func (s *Subscription) Close() {
	if s == nil || s.obs == nil {
		return
	}
	s.once.Do(func() {
		s.obs.close()
		s.cache.detach(s.key, s.obs)
	})
}

// Subscribe fetches key like Fetch and then keeps it observed, calling notify with every result
// stored for the key until the subscription is closed.
//
// A disabled query returns an idle result and a subscription that never notifies.
func Subscribe[T any](ctx context.Context, c *Cache, key Key, fn Fetcher[T], notify func(Result[T]), opts ...Option) (*Subscription, Result[T]) {
	o := c.options(opts)
	if !o.Enabled {
		return &Subscription{}, Result[T]{Key: key, Status: StatusIdle}
	}

	obs := &observer{
		deliver: func(s snapshot) {
			notify(convert[T](s))
		},
	}
	if err := c.attach(key, o, erase(fn), obs); err != nil {
		return &Subscription{}, Result[T]{Key: key, Status: StatusError, Err: err}
	}
	sub := &Subscription{cache: c, key: key, obs: obs}

	return sub, Fetch(ctx, c, key, fn, opts...)
}

func (c *Cache) attach(key Key, o Options, fetch func(ctx context.Context) (any, error), obs *observer) error {
	e, err := c.acquire(key, o, fetch)
	if err != nil {
		return err
	}

	c.mu.Lock()
	e.observers[obs] = struct{}{}
	first := len(e.observers) == 1
	c.mu.Unlock()

	if first {
		c.scheduleInterval(e)
	}
	c.release(e)
	return nil
}

func (c *Cache) detach(key Key, obs *observer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(e.observers, obs)
	if !e.observed() && e.intervalTimer != nil {
		e.intervalTimer.Stop()
		e.intervalTimer = nil
	}
	c.scheduleGCLocked(e)
}

// scheduleInterval refetches e every RefetchInterval for as long as it is observed
func (c *Cache) scheduleInterval(e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	interval := e.opts.RefetchInterval
	if c.closed || interval <= 0 || !e.observed() || c.entries[e.key] != e {
		return
	}
	if e.intervalTimer != nil {
		e.intervalTimer.Stop()
	}
	e.intervalTimer = time.AfterFunc(interval, func() {
		c.logger.Debug("refetch interval elapsed", slog.String("key", e.key.String()))
		c.refetch(e)
		c.scheduleInterval(e)
	})
}

package timeline

import (
	"log/slog"
	"sync"
)

// registry is an observer list for one event channel. Subscribers are
// notified synchronously in subscription order. A callback that panics is
// logged and skipped so it cannot break the clock or the remaining
// subscribers, and a subscriber disposed mid-notification is never
// invoked afterwards.
type registry[T any] struct {
	mu     sync.Mutex
	logger *slog.Logger
	subs   []*subscriber[T]
}

type subscriber[T any] struct {
	fn       func(T)
	disposed bool
}

func newRegistry[T any](logger *slog.Logger) *registry[T] {
	return &registry[T]{logger: logger}
}

// subscribe registers fn and returns its disposer. Disposing twice is a
// no-op.
func (r *registry[T]) subscribe(fn func(T)) func() {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &subscriber[T]{fn: fn}
	r.subs = append(r.subs, s)

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if s.disposed {
			return
		}
		s.disposed = true
		for i, cur := range r.subs {
			if cur == s {
				r.subs = append(r.subs[:i], r.subs[i+1:]...)
				break
			}
		}
	}
}

func (r *registry[T]) notify(v T) {
	r.mu.Lock()
	snapshot := make([]*subscriber[T], len(r.subs))
	copy(snapshot, r.subs)
	r.mu.Unlock()

	for _, s := range snapshot {
		r.mu.Lock()
		disposed := s.disposed
		r.mu.Unlock()
		if disposed {
			continue
		}
		r.invoke(s.fn, v)
	}
}

func (r *registry[T]) invoke(fn func(T), v T) {
	defer func() {
		if rec := recover(); rec != nil && r.logger != nil {
			r.logger.Error("observer callback panicked", "error", rec)
		}
	}()
	fn(v)
}

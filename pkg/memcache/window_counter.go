package mem

import (
	"context"
	"sync"
	"time"
)

// WindowCounter is an in-process fixed window counter. It backs the rate
// limiter when no Redis is configured, so limits are per instance only.
type WindowCounter struct {
	mu   sync.Mutex
	data map[string]entry
	now  func() time.Time
}

type entry struct {
	count     int64
	expiresAt time.Time
}

func NewWindowCounter() *WindowCounter {
	return &WindowCounter{
		data: make(map[string]entry),
		now:  time.Now,
	}
}

// Increment bumps the counter for key and returns the new value. A key whose
// window has elapsed starts again at 1.
func (s *WindowCounter) Increment(_ context.Context, key string, window time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	e, ok := s.data[key]
	if !ok || !now.Before(e.expiresAt) {
		e = entry{expiresAt: now.Add(window)}
	}
	e.count++
	s.data[key] = e

	if len(s.data) > 4096 {
		s.sweep(now)
	}
	return e.count, nil
}

func (s *WindowCounter) sweep(now time.Time) {
	for k, e := range s.data {
		if !now.Before(e.expiresAt) {
			delete(s.data, k)
		}
	}
}

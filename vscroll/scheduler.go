// ABOUTME: Frame scheduling used to coalesce scroll-driven recomputation
// ABOUTME: SyncScheduler runs work immediately, FrameScheduler queues it until the next Flush

package vscroll

import "sync"

// Scheduler defers a callback to the next frame
type Scheduler interface {
	ScheduleOnce(fn func())
}

// SyncScheduler runs callbacks immediately
type SyncScheduler struct{}

// ScheduleOnce runs fn now
func (SyncScheduler) ScheduleOnce(fn func()) {
	fn()
}

// FrameScheduler queues callbacks until Flush is called, once per frame
type FrameScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewFrameScheduler creates an empty frame scheduler
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// ScheduleOnce queues fn for the next Flush
func (s *FrameScheduler) ScheduleOnce(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued callbacks
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queue)
}

// Flush runs every queued callback and returns how many ran
// Callbacks scheduled during the flush wait for the next one.
func (s *FrameScheduler) Flush() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		fn()
	}

	return len(queue)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scheduler maintains recurring triggers for saved searches. Each
// trigger fires a callback on its interval until cancelled; re-registering a
// trigger under the same name replaces its timing.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"
)

// Callback is invoked when a trigger fires, with the search ID the trigger
// was registered for.
type Callback func(ctx context.Context, id int64)

// Scheduler owns the trigger goroutines. All methods are safe for
// concurrent use.
type Scheduler struct {
	callback Callback

	mu       sync.Mutex
	triggers map[string]chan struct{} // name → cancel channel
	wg       sync.WaitGroup
	stopped  bool
}

// New returns a scheduler that fires callback for each due trigger.
func New(callback Callback) *Scheduler {
	return &Scheduler{
		callback: callback,
		triggers: make(map[string]chan struct{}),
	}
}

// Register installs a recurring trigger. The first firing happens after
// delay, subsequent firings every interval. An existing trigger with the
// same name is cancelled first, so saves are idempotent.
func (s *Scheduler) Register(ctx context.Context, name string, id int64, delay, interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	if cancel, ok := s.triggers[name]; ok {
		close(cancel)
	}
	cancel := make(chan struct{})
	s.triggers[name] = cancel

	if delay < 0 {
		delay = 0
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-cancel:
				return
			case <-timer.C:
			}

			s.callback(ctx, id)
			timer.Reset(interval)
		}
	}()
	log.Printf("scheduler: trigger %s registered (first run in %s, every %s)",
		name, delay.Round(time.Second), interval)
}

// Cancel removes a trigger. Cancelling an unknown name is a no-op.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.triggers[name]; ok {
		close(cancel)
		delete(s.triggers, name)
		log.Printf("scheduler: trigger %s cancelled", name)
	}
}

// Stop cancels all triggers and waits for their goroutines to exit. The
// scheduler cannot be reused afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	for name, cancel := range s.triggers {
		close(cancel)
		delete(s.triggers, name)
	}
	s.mu.Unlock()

	s.wg.Wait()
}

// Active returns the number of registered triggers.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

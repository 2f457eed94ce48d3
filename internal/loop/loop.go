// apps/go-server/internal/loop/loop.go
//
// Single-threaded cooperative event loop for one live game session.
// Responsibilities:
//   - Run player actions and timer callbacks one at a time, in arrival order.
//   - Provide delayed (After) and periodic (Every) callbacks that are delivered
//     through the same queue, so engine state is only ever touched by the loop
//     goroutine.
//   - Cancel every outstanding timer on Close, so no recurring callback
//     outlives its session.
//
// Loop satisfies game.Scheduler.

package loop

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by Do after the loop has been closed.
var ErrClosed = errors.New("loop closed")

// Loop serialises work onto a single goroutine.
type Loop struct {
	queue chan func()
	done  chan struct{}

	mu     sync.Mutex
	closed bool
	timers map[int]*time.Timer
	nextID int
}

// New starts a loop. Call Close to stop it.
func New() *Loop {
	l := &Loop{
		queue:  make(chan func(), 64),
		done:   make(chan struct{}),
		timers: make(map[int]*time.Timer),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case fn := <-l.queue:
			fn()
		case <-l.done:
			return
		}
	}
}

// Do runs fn on the loop and waits for it to return.
// Must not be called from inside a loop callback.
func (l *Loop) Do(fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrClosed
	}
}

// Post enqueues fn without waiting. It reports false once the loop is closed.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return false
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Now returns the wall-clock time.
func (l *Loop) Now() time.Time { return time.Now() }

// After delivers fn on the loop once d has elapsed.
func (l *Loop) After(d time.Duration, fn func()) (stop func()) {
	return l.arm(d, fn, false)
}

// Every delivers fn on the loop each time d elapses, until stopped.
func (l *Loop) Every(d time.Duration, fn func()) (stop func()) {
	return l.arm(d, fn, true)
}

func (l *Loop) arm(d time.Duration, fn func(), repeat bool) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return func() {}
	}
	id := l.nextID
	l.nextID++

	fire := func() {
		l.mu.Lock()
		t, ok := l.timers[id]
		if ok && repeat {
			t.Reset(d)
		}
		l.mu.Unlock()
		if !ok {
			return
		}
		l.Post(func() {
			// Entries removed by stop between firing and delivery are dropped.
			l.mu.Lock()
			_, live := l.timers[id]
			if live && !repeat {
				delete(l.timers, id)
			}
			l.mu.Unlock()
			if live {
				fn()
			}
		})
	}
	l.timers[id] = time.AfterFunc(d, fire)

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if t, ok := l.timers[id]; ok {
			t.Stop()
			delete(l.timers, id)
		}
	}
}

// Pending reports the number of armed timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Close cancels all timers and stops the loop. Queued work is discarded.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
	l.mu.Unlock()
	close(l.done)
}

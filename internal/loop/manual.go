package loop

import (
	"sort"
	"time"
)

// Manual is a virtual-time scheduler. Nothing fires until Advance is called,
// and callbacks run on the caller's goroutine in due-time order (ties in
// scheduling order). Used by tests and by offline replays.
type Manual struct {
	now    time.Time
	seq    int
	events []*event
}

type event struct {
	at     time.Time
	seq    int
	every  time.Duration
	fn     func()
	active bool
}

// NewManual returns a Manual whose clock starts at start.
func NewManual(start time.Time) *Manual { return &Manual{now: start} }

// Now returns the virtual time.
func (m *Manual) Now() time.Time { return m.now }

// After schedules fn at now+d.
func (m *Manual) After(d time.Duration, fn func()) (stop func()) {
	return m.add(d, 0, fn)
}

// Every schedules fn at now+d, now+2d, ... until stopped.
func (m *Manual) Every(d time.Duration, fn func()) (stop func()) {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.add(d, d, fn)
}

func (m *Manual) add(d, every time.Duration, fn func()) func() {
	e := &event{at: m.now.Add(d), seq: m.seq, every: every, fn: fn, active: true}
	m.seq++
	m.events = append(m.events, e)
	return func() { e.active = false }
}

// Advance moves the clock forward by d, firing every callback that falls due.
// Callbacks may schedule or stop other callbacks.
func (m *Manual) Advance(d time.Duration) {
	target := m.now.Add(d)
	for {
		e := m.next(target)
		if e == nil {
			break
		}
		m.now = e.at
		if e.every > 0 {
			e.at = e.at.Add(e.every)
			e.seq = m.seq
			m.seq++
		} else {
			e.active = false
		}
		e.fn()
	}
	m.now = target
}

// next returns the earliest active event due at or before target.
func (m *Manual) next(target time.Time) *event {
	live := m.events[:0]
	for _, e := range m.events {
		if e.active {
			live = append(live, e)
		}
	}
	m.events = live
	sort.SliceStable(m.events, func(i, j int) bool {
		if !m.events[i].at.Equal(m.events[j].at) {
			return m.events[i].at.Before(m.events[j].at)
		}
		return m.events[i].seq < m.events[j].seq
	})
	if len(m.events) == 0 || m.events[0].at.After(target) {
		return nil
	}
	return m.events[0]
}

// Pending reports the number of armed callbacks.
func (m *Manual) Pending() int {
	n := 0
	for _, e := range m.events {
		if e.active {
			n++
		}
	}
	return n
}

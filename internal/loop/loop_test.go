package loop

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/softskill/apps/go-server/internal/game"
)

var (
	_ game.Scheduler = (*Loop)(nil)
	_ game.Scheduler = (*Manual)(nil)
)

func TestLoop_DoRunsInOrder(t *testing.T) {
	l := New()
	defer l.Close()

	var got []int
	for i := 0; i < 50; i++ {
		i := i
		require.NoError(t, l.Do(func() { got = append(got, i) }))
	}
	require.Len(t, got, 50)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_AfterDeliversOnLoop(t *testing.T) {
	l := New()
	defer l.Close()

	fired := make(chan struct{})
	l.After(10*time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("after callback did not fire")
	}
	assert.Eventually(t, func() bool { return l.Pending() == 0 }, time.Second, 5*time.Millisecond)
}

func TestLoop_StopPreventsDelivery(t *testing.T) {
	l := New()
	defer l.Close()

	var n atomic.Int32
	stop := l.After(20*time.Millisecond, func() { n.Add(1) })
	stop()
	stop()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), n.Load())
	assert.Equal(t, 0, l.Pending())
}

func TestLoop_EveryRepeatsUntilStopped(t *testing.T) {
	l := New()
	defer l.Close()

	var n atomic.Int32
	stop := l.Every(5*time.Millisecond, func() { n.Add(1) })
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, time.Millisecond)
	stop()
	// Let an in-flight delivery drain.
	time.Sleep(20 * time.Millisecond)
	seen := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, seen, n.Load())
}

func TestLoop_CloseCancelsTimers(t *testing.T) {
	l := New()
	var n atomic.Int32
	l.Every(5*time.Millisecond, func() { n.Add(1) })
	l.After(5*time.Millisecond, func() { n.Add(1) })
	l.Close()
	l.Close()

	assert.Equal(t, 0, l.Pending())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), n.Load())
	assert.ErrorIs(t, l.Do(func() {}), ErrClosed)
	assert.False(t, l.Post(func() {}))

	stop := l.After(time.Millisecond, func() { n.Add(1) })
	stop()
}

func TestManual_FiresInOrder(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(start)

	var got []string
	m.After(1500*time.Millisecond, func() { got = append(got, "b") })
	m.After(time.Second, func() { got = append(got, "a") })
	stopTick := m.Every(time.Second, func() { got = append(got, "tick") })

	m.Advance(999 * time.Millisecond)
	assert.Empty(t, got)

	m.Advance(time.Millisecond)
	assert.Equal(t, []string{"a", "tick"}, got)
	assert.Equal(t, start.Add(time.Second), m.Now())

	m.Advance(time.Second)
	assert.Equal(t, []string{"a", "tick", "b", "tick"}, got)
	assert.Equal(t, 1, m.Pending())

	stopTick()
	m.Advance(10 * time.Second)
	assert.Len(t, got, 4)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CallbackSchedulesMore(t *testing.T) {
	m := NewManual(time.Unix(0, 0))
	var at []time.Duration
	m.After(time.Second, func() {
		at = append(at, m.Now().Sub(time.Unix(0, 0)))
		m.After(time.Second, func() { at = append(at, m.Now().Sub(time.Unix(0, 0))) })
	})
	m.Advance(5 * time.Second)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, at)
}

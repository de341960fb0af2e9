// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"container/heap"
	"time"
)

// TimerService provides one-shot "resume after duration" registrations.
// fire is invoked at most once, on the scheduler goroutine.
// A nil token means the registration was refused.
type TimerService interface {
	After(d time.Duration, fire func()) TimerToken
}

// TimerToken releases a timer registration.
// Cancel reports whether it prevented a not-yet-fired callback.
type TimerToken interface {
	Cancel() bool
}

// poller is implemented by timer services the scheduler must poll from its
// own goroutine, such as [Timers].
type poller interface {
	Poll() int
}

// Clock reads the current time.
type Clock interface {
	Now() time.Time
}

// WallClock reads time.Now.
type WallClock struct{}

// Now returns the wall-clock time.
func (WallClock) Now() time.Time { return time.Now() }

// ManualClock is a [Clock] that only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock returns a clock reading start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Set moves the clock to t.
func (c *ManualClock) Set(t time.Time) { c.now = t }

// Timers is a [TimerService] ordering registrations by deadline, then by
// start sequence. Registrations with equal deadlines fire in start order.
// Callbacks run only from Poll, so they stay on the polling goroutine.
type Timers struct {
	clock Clock
	seq   uint64
	queue timerHeap
}

// NewTimers returns a timer service reading clock.
func NewTimers(clock Clock) *Timers {
	return &Timers{clock: clock}
}

// After registers fire to run once d has elapsed.
func (ts *Timers) After(d time.Duration, fire func()) TimerToken {
	ts.seq++
	e := &timerEntry{
		owner:    ts,
		deadline: ts.clock.Now().Add(d),
		seq:      ts.seq,
		fire:     fire,
	}
	heap.Push(&ts.queue, e)
	return e
}

// Poll fires every due registration in (deadline, sequence) order and
// returns how many fired. Registrations made by a firing callback that are
// already due fire in the same Poll.
func (ts *Timers) Poll() int {
	now := ts.clock.Now()
	n := 0
	for len(ts.queue) > 0 && !ts.queue[0].deadline.After(now) {
		e := heap.Pop(&ts.queue).(*timerEntry)
		fire := e.fire
		e.fire = nil
		fire()
		n++
	}
	return n
}

// Len returns the number of outstanding registrations.
func (ts *Timers) Len() int { return len(ts.queue) }

// Next returns the earliest outstanding deadline.
func (ts *Timers) Next() (time.Time, bool) {
	if len(ts.queue) == 0 {
		return time.Time{}, false
	}
	return ts.queue[0].deadline, true
}

type timerEntry struct {
	owner    *Timers
	deadline time.Time
	seq      uint64
	fire     func()
	index    int
}

// Cancel removes the registration if it has not fired yet.
func (e *timerEntry) Cancel() bool {
	if e.index < 0 {
		return false
	}
	heap.Remove(&e.owner.queue, e.index)
	e.fire = nil
	return true
}

// timerHeap is a min-heap of entries keyed by (deadline, seq).
type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

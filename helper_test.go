// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga_test

import (
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"
)

// action mirrors the host application's dispatched events.
type action struct {
	Type  string
	Label string
}

func started(label string) action { return action{Type: "STARTED", Label: label} }

func stopped(label string) action { return action{Type: "STOPPED", Label: label} }

// recorder is a Bridge that keeps every dispatched event.
type recorder struct {
	events  []any
	onEvent func(any)
}

func (r *recorder) Accept(ev any) {
	r.events = append(r.events, ev)
	if r.onEvent != nil {
		r.onEvent(ev)
	}
}

// actions returns the recorded events that are actions, in order.
func (r *recorder) actions() []action {
	out := make([]action, 0, len(r.events))
	for _, ev := range r.events {
		if a, ok := ev.(action); ok {
			out = append(out, a)
		}
	}
	return out
}

// env is a scheduler on a manual clock with a recording bridge.
type env struct {
	s      *saga.Scheduler
	clock  *saga.ManualClock
	timers *saga.Timers
	rec    *recorder
}

func setup(opts ...saga.Option) *env {
	clock := saga.NewManualClock(time.Unix(0, 0))
	e := &env{
		clock:  clock,
		timers: saga.NewTimers(clock),
		rec:    &recorder{},
	}
	opts = append([]saga.Option{saga.WithBridge(e.rec), saga.WithTimer(e.timers)}, opts...)
	e.s = saga.New(opts...)
	return e
}

// advance moves the clock by d and runs everything that became ready.
func (e *env) advance(d time.Duration) int {
	e.clock.Advance(d)
	return e.s.Flush()
}

const leafDelay = 100 * time.Millisecond

// leafFor dispatches STARTED, waits d, and dispatches STOPPED.
func leafFor(label string, d time.Duration) func() kont.Expr[struct{}] {
	return func() kont.Expr[struct{}] {
		return saga.ExprPutThen(started(label),
			saga.ExprDelayThen(d,
				saga.ExprPut(stopped(label)),
			),
		)
	}
}

func leaf(label string) func() kont.Expr[struct{}] { return leafFor(label, leafDelay) }

func sagaA() kont.Expr[[]kont.Erased] {
	return saga.ExprAll(saga.InvokeOf(leaf("a1")), saga.InvokeOf(leaf("a2")))
}

func sagaB() kont.Expr[[]kont.Erased] {
	return saga.ExprAll(saga.InvokeOf(leaf("b1")), saga.InvokeOf(leaf("b2")))
}

func rootSaga() kont.Expr[[]kont.Erased] {
	return saga.ExprAll(saga.InvokeOf(sagaA), saga.InvokeOf(sagaB))
}

// failAfter waits d and then fails with err.
func failAfter(d time.Duration, err error) func() kont.Expr[struct{}] {
	return func() kont.Expr[struct{}] {
		return saga.ExprDelayThen(d, kont.ExprThrowError[error, struct{}](err))
	}
}

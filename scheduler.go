// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
	"go.uber.org/zap"
)

// Scheduler drives tasks cooperatively on a single logical thread.
// Exactly one task runs at any instant; all methods must be called from the
// goroutine that owns the scheduler. Independent schedulers share nothing.
type Scheduler struct {
	bridge  Bridge
	timer   TimerService
	log     Logger
	monitor Monitor
	tasks   map[TaskID]*task
	ready   readyQueue
	ids     serial
	qcap    int
}

// Option configures a [Scheduler].
type Option func(*Scheduler)

// WithBridge sets the sink receiving dispatched events.
func WithBridge(b Bridge) Option {
	return func(s *Scheduler) { s.bridge = b }
}

// WithTimer sets the timer service backing [Suspend].
func WithTimer(ts TimerService) Option {
	return func(s *Scheduler) { s.timer = ts }
}

// WithClock backs [Suspend] with a [Timers] service reading c.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.timer = NewTimers(c) }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithMonitor sets the lifecycle monitor.
func WithMonitor(m Monitor) Option {
	return func(s *Scheduler) { s.monitor = m }
}

// WithQueueCapacity sets the ring size of the ready queue fast path.
// It is rounded up to a power of two and clamped to [MaxQueueCapacity].
func WithQueueCapacity(n int) Option {
	return func(s *Scheduler) { s.qcap = min(n, MaxQueueCapacity) }
}

// New creates a scheduler. Without options, dispatched events are
// discarded and [Suspend] runs on wall-clock [Timers].
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		bridge:  discardBridge{},
		log:     zap.NewNop(),
		monitor: nopMonitor{},
		tasks:   make(map[TaskID]*task),
		qcap:    defaultQueueCapacity,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ready.init(s.qcap)
	if s.timer == nil {
		s.timer = NewTimers(WallClock{})
	}
	return s
}

// Pending returns the number of unsettled tasks.
func (s *Scheduler) Pending() int {
	return len(s.tasks)
}

// newTask registers a task in the arena.
func (s *Scheduler) newTask(parent TaskID) *task {
	t := &task{id: s.ids.next(), parent: parent}
	s.tasks[t.id] = t
	return t
}

// start drives a created task to its first suspension or settlement.
func (s *Scheduler) start(t *task, routine func() kont.Expr[kont.Erased]) {
	s.monitor.TaskStarted(t.id, t.parent)
	s.log.Debug("task started", zap.Uint32("task", t.id), zap.Uint32("parent", t.parent))
	t.setState(StatusRunning)
	var (
		result kont.Erased
		susp   *kont.Suspension[kont.Erased]
	)
	if err := protect(t.id, func() { result, susp = kont.StepExpr(routine()) }); err != nil {
		s.fail(t, err)
		return
	}
	s.drive(t, result, susp)
}

// resume continues a suspended task with the value it was waiting for.
func (s *Scheduler) resume(t *task, v kont.Resumed) {
	susp := t.susp
	t.susp = nil
	t.join = nil
	t.timer = nil
	t.setState(StatusRunning)
	var (
		result kont.Erased
		next   *kont.Suspension[kont.Erased]
	)
	if err := protect(t.id, func() { result, next = susp.Resume(v) }); err != nil {
		s.fail(t, err)
		return
	}
	s.drive(t, result, next)
}

// drive interprets yielded effects until the routine returns, fails, or
// waits on a pending outcome.
func (s *Scheduler) drive(t *task, result kont.Erased, susp *kont.Suspension[kont.Erased]) {
	for susp != nil {
		if t.state().Settled() {
			susp.Discard()
			return
		}
		out := s.interpret(t, susp.Op())
		if t.state().Settled() {
			susp.Discard()
			return
		}
		switch out.kind {
		case outcomePending:
			t.susp = susp
			t.setState(StatusSuspended)
			return
		case outcomeFailed:
			susp.Discard()
			s.fail(t, out.err)
			return
		}
		v := out.value
		if err := protect(t.id, func() { result, susp = susp.Resume(v) }); err != nil {
			s.fail(t, err)
			return
		}
	}
	s.complete(t, result)
}

// wake queues the resumption of a suspended task.
func (s *Scheduler) wake(id TaskID, v kont.Resumed) {
	s.ready.push(readyItem{task: id, value: v})
}

func (s *Scheduler) complete(t *task, result kont.Erased) {
	if t.state().Settled() {
		return
	}
	t.result = result
	t.setState(StatusCompleted)
	s.settle(t)
}

// fail settles t as Failed after cancelling its in-flight children.
func (s *Scheduler) fail(t *task, err error) {
	if t.state().Settled() {
		return
	}
	t.err = err
	t.setState(StatusFailed)
	s.release(t)
	s.settle(t)
}

// cancel settles t as Cancelled, cancelling every in-flight descendant and
// releasing any timer registration. The routine is not resumed again.
func (s *Scheduler) cancel(t *task) {
	if t.state().Settled() {
		return
	}
	t.setState(StatusCancelled)
	s.release(t)
	s.settle(t)
}

// release drops everything a settling task is waiting on.
// Children are cancelled in declared order.
func (s *Scheduler) release(t *task) {
	t.join = nil
	children := t.children
	t.children = nil
	for _, id := range children {
		if c, ok := s.tasks[id]; ok {
			s.cancel(c)
		}
	}
	if t.timer != nil {
		t.timer.Cancel()
		t.timer = nil
	}
	if t.susp != nil {
		t.susp.Discard()
		t.susp = nil
	}
}

// settle removes t from the arena and notifies its observer.
func (s *Scheduler) settle(t *task) {
	delete(s.tasks, t.id)
	st := t.state()
	s.monitor.TaskSettled(t.id, st, t.err)
	switch {
	case st == StatusFailed && t.parent == 0:
		s.log.Warn("root task failed", zap.Uint32("task", t.id), zap.Error(t.err))
	case st == StatusFailed:
		s.log.Debug("task failed", zap.Uint32("task", t.id), zap.Error(t.err))
	default:
		s.log.Debug("task settled", zap.Uint32("task", t.id), zap.Stringer("status", st))
	}
	if obs := t.observer; obs != nil {
		t.observer = nil
		obs(t)
	}
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"time"

	"code.hybscloud.com/kont"
)

// Effect is an inert effect descriptor.
// The set is closed: [Invoke], [Dispatch], [Suspend] and [Parallel].
// Every descriptor knows how the scheduler interprets it and how to run
// it as the routine of a child task inside a [Parallel].
type Effect interface {
	interpret(s *Scheduler, t *task) outcome
	routine() kont.Expr[kont.Erased]
	rescue(err error) (kont.Erased, bool)
}

// routineHolder is implemented by effects that run a user routine.
// fork rejects a nil routine before any child is spawned.
type routineHolder interface {
	hasRoutine() bool
}

// unit is the pre-boxed resume value of effects without a payload.
var unit kont.Resumed = struct{}{}

func eraseResult[R any](r R) kont.Erased { return r }

// Invoke is the effect operation for running a routine as a child task.
// Perform(Invoke[R]{Routine: f}) resumes with the child's result once it
// completes, or fails the caller with a [*ChildError] once it fails.
//
// When Recover is set, a child failure is mapped through Recover and the
// caller resumes with that value instead of failing.
type Invoke[R any] struct {
	kont.Phantom[R]
	Routine func() kont.Expr[R]
	Recover func(error) R
}

func (op Invoke[R]) interpret(s *Scheduler, t *task) outcome {
	return s.fork(t, []Effect{op}, true)
}

func (op Invoke[R]) routine() kont.Expr[kont.Erased] {
	return kont.ExprMap(op.Routine(), eraseResult[R])
}

func (op Invoke[R]) hasRoutine() bool { return op.Routine != nil }

func (op Invoke[R]) rescue(err error) (kont.Erased, bool) {
	if op.Recover == nil {
		return nil, false
	}
	return op.Recover(err), true
}

// Dispatch is the effect operation for handing an event to the [Bridge].
// Perform(Dispatch[E]{Event: e}) delivers e synchronously and resumes
// immediately. It never yields control back to the scheduler.
type Dispatch[E any] struct {
	kont.Phantom[struct{}]
	Event E
}

func (op Dispatch[E]) interpret(s *Scheduler, t *task) outcome {
	s.dispatch(t, op.Event)
	return resolved(unit)
}

func (op Dispatch[E]) routine() kont.Expr[kont.Erased] {
	return kont.ExprMap(kont.ExprPerform(op), eraseResult[struct{}])
}

func (Dispatch[E]) rescue(error) (kont.Erased, bool) { return nil, false }

// Suspend is the effect operation for pausing until Duration elapses.
// Perform(Suspend{Duration: d}) registers a one-shot timer and resumes when
// it fires. Cancelling the owning task releases the registration.
type Suspend struct {
	kont.Phantom[struct{}]
	Duration time.Duration
}

func (op Suspend) interpret(s *Scheduler, t *task) outcome {
	return s.suspend(t, op.Duration)
}

func (op Suspend) routine() kont.Expr[kont.Erased] {
	return kont.ExprMap(kont.ExprPerform(op), eraseResult[struct{}])
}

func (Suspend) rescue(error) (kont.Erased, bool) { return nil, false }

// Parallel is the effect operation for fork-join over Children.
// All children are spawned eagerly in declared order before any is awaited.
// Perform(Parallel{Children: cs}) resumes with the child results,
// index-aligned with cs, once every child completed. The first child
// failure cancels the remaining siblings and fails the caller.
type Parallel struct {
	kont.Phantom[[]kont.Erased]
	Children []Effect
}

func (op Parallel) interpret(s *Scheduler, t *task) outcome {
	return s.fork(t, op.Children, false)
}

func (op Parallel) routine() kont.Expr[kont.Erased] {
	return kont.ExprMap(kont.ExprPerform(op), eraseResult[[]kont.Erased])
}

func (Parallel) rescue(error) (kont.Erased, bool) { return nil, false }

// InvokeOf returns an [Invoke] descriptor for use as a [Parallel] child.
func InvokeOf[R any](routine func() kont.Expr[R]) Effect {
	return Invoke[R]{Routine: routine}
}

// CallOf returns an [Invoke] descriptor for a Cont-world routine.
func CallOf[R any](routine func() kont.Eff[R]) Effect {
	return Invoke[R]{Routine: reified(routine)}
}

// DispatchOf returns a [Dispatch] descriptor for use as a [Parallel] child.
func DispatchOf[E any](event E) Effect {
	return Dispatch[E]{Event: event}
}

// SuspendOf returns a [Suspend] descriptor for use as a [Parallel] child.
func SuspendOf(d time.Duration) Effect {
	return Suspend{Duration: d}
}

// ParallelOf returns a nested [Parallel] descriptor.
func ParallelOf(children ...Effect) Effect {
	return Parallel{Children: children}
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
)

// Status is the lifecycle state of a task.
//
//	Created → Running ⇄ Suspended → Completed | Failed | Cancelled
type Status uint32

const (
	StatusCreated Status = iota
	StatusRunning
	StatusSuspended
	StatusCompleted
	StatusFailed
	StatusCancelled
)

// Settled reports whether st is terminal.
func (st Status) Settled() bool { return st >= StatusCompleted }

func (st Status) String() string {
	switch st {
	case StatusCreated:
		return "created"
	case StatusRunning:
		return "running"
	case StatusSuspended:
		return "suspended"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

// task is one in-flight routine execution.
// A task holds its continuation, the join it is waiting on, and the ids of
// its in-flight children. It refers to its parent by id only.
type task struct {
	id       TaskID
	parent   TaskID
	status   atomix.Uint32
	susp     *kont.Suspension[kont.Erased]
	children []TaskID
	join     *join
	timer    TimerToken
	result   kont.Erased
	err      error
	observer func(*task)
}

func (t *task) state() Status { return Status(t.status.Load()) }

func (t *task) setState(st Status) { t.status.Store(uint32(st)) }

// dropChild removes id from the in-flight children, preserving order.
func (t *task) dropChild(id TaskID) {
	for i, c := range t.children {
		if c == id {
			t.children = append(t.children[:i], t.children[i+1:]...)
			return
		}
	}
}

// Handle observes and controls a root task.
type Handle[R any] struct {
	s *Scheduler
	t *task
}

// ID returns the task identity.
func (h *Handle[R]) ID() TaskID { return h.t.id }

// Status returns the current task status.
func (h *Handle[R]) Status() Status { return h.t.state() }

// Done reports whether the task has settled.
func (h *Handle[R]) Done() bool { return h.t.state().Settled() }

// Result returns the outcome of the task.
// Completed yields (value, nil), Failed yields (zero, failure), Cancelled
// yields (zero, [ErrCancelled]). Before settlement it returns
// iox.ErrWouldBlock.
func (h *Handle[R]) Result() (R, error) {
	var zero R
	switch h.t.state() {
	case StatusCompleted:
		r, _ := h.t.result.(R)
		return r, nil
	case StatusFailed:
		return zero, h.t.err
	case StatusCancelled:
		return zero, ErrCancelled
	}
	return zero, iox.ErrWouldBlock
}

// Err returns the failure of a Failed task, or nil.
func (h *Handle[R]) Err() error {
	if h.t.state() == StatusFailed {
		return h.t.err
	}
	return nil
}

// Cancel cancels the task and every in-flight descendant.
// Cancelling a settled task has no effect.
func (h *Handle[R]) Cancel() {
	h.s.cancel(h.t)
}

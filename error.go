// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"fmt"

	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
)

var (
	// ErrCancelled is reported by [Handle.Result] for a cancelled task.
	// Cancellation is a terminal outcome, not a failure: [Handle.Err] stays nil.
	ErrCancelled = errors.New("saga: task cancelled")

	// ErrTimeout is the failure of [Timeout] when the duration elapses first.
	ErrTimeout = errors.New("saga: timeout")

	// ErrTimerService is the failure of a task whose [TimerService]
	// refused a [Suspend] registration.
	ErrTimerService = errors.New("saga: timer service refused registration")
)

// RoutineError is a failure raised by a routine's own computation: an error
// thrown through kont's error effect, or a recovered panic.
type RoutineError struct {
	Task  TaskID
	Err   error
	Panic any
}

func (e *RoutineError) Error() string {
	return fmt.Sprintf("saga: task %d: %v", e.Task, e.Err)
}

func (e *RoutineError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer.
func (e *RoutineError) Cause() error { return e.Err }

// ChildError is a failure propagated from an awaited child task.
type ChildError struct {
	Task TaskID
	Err  error
}

func (e *ChildError) Error() string {
	return fmt.Sprintf("saga: child task %d: %v", e.Task, e.Err)
}

func (e *ChildError) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer.
func (e *ChildError) Cause() error { return e.Err }

// errorDispatcher is the structural interface of kont's error operations.
// Throw sets ctx.HasErr; Catch runs its pure body and resumes normally.
type errorDispatcher interface {
	DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
}

// dispatchError evaluates an error operation eagerly.
// A thrown error fails the owning task as a [*RoutineError].
func dispatchError(t *task, eop errorDispatcher) outcome {
	var ctx kont.ErrorContext[error]
	v, _ := eop.DispatchError(&ctx)
	if ctx.HasErr {
		err := ctx.Err
		if err == nil {
			err = errors.New("saga: nil error thrown")
		}
		return failed(&RoutineError{Task: t.id, Err: err})
	}
	return resolved(v)
}

// protect runs f, converting a panic raised by routine code into a
// [*RoutineError] for task id.
func protect(id TaskID, f func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = errors.Errorf("panic: %v", r)
			}
			err = &RoutineError{Task: id, Err: errors.WithStack(cause), Panic: r}
		}
	}()
	f()
	return nil
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"time"

	"code.hybscloud.com/kont"
)

// Call runs routine as a child task and resumes with its result.
// Fuses Perform(Invoke[R]{...}).
func Call[R any](routine func() kont.Eff[R]) kont.Eff[R] {
	return kont.Perform(Invoke[R]{Routine: reified(routine)})
}

// CallWith runs fn(arg) as a child task and resumes with its result.
func CallWith[A, R any](fn func(A) kont.Eff[R], arg A) kont.Eff[R] {
	return Call(func() kont.Eff[R] { return fn(arg) })
}

// CallBind runs routine as a child task and passes its result to f.
// Fuses Call + Bind.
func CallBind[R, B any](routine func() kont.Eff[R], f func(R) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(Call(routine), f)
}

// Attempt runs routine as a child task. A child failure resumes the caller
// with Left(err) instead of failing it; success resumes with Right(result).
func Attempt[R any](routine func() kont.Eff[R]) kont.Eff[kont.Either[error, R]] {
	return kont.Perform(attemptOf(reified(routine)))
}

// Put dispatches event to the bridge.
// Fuses Perform(Dispatch[E]{Event: event}).
func Put[E any](event E) kont.Eff[struct{}] {
	return kont.Perform(Dispatch[E]{Event: event})
}

// PutThen dispatches event and then continues with next.
// Fuses Put + Then.
func PutThen[E, B any](event E, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(Put(event), next)
}

// Delay suspends the calling task until d elapses.
// Fuses Perform(Suspend{Duration: d}).
func Delay(d time.Duration) kont.Eff[struct{}] {
	return kont.Perform(Suspend{Duration: d})
}

// DelayThen suspends for d and then continues with next.
// Fuses Delay + Then.
func DelayThen[B any](d time.Duration, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(Delay(d), next)
}

// All runs every child concurrently and resumes with their results in
// declared order. Fuses Perform(Parallel{Children: children}).
func All(children ...Effect) kont.Eff[[]kont.Erased] {
	return kont.Perform(Parallel{Children: children})
}

// AllBind runs every child concurrently and passes the results to f.
// Fuses All + Bind.
func AllBind[B any](f func([]kont.Erased) kont.Eff[B], children ...Effect) kont.Eff[B] {
	return kont.Bind(All(children...), f)
}

// attemptOf wraps routine in an Invoke that maps failure to Left.
func attemptOf[R any](routine func() kont.Expr[R]) Invoke[kont.Either[error, R]] {
	if routine == nil {
		panic("saga: nil routine in Attempt")
	}
	return Invoke[kont.Either[error, R]]{
		Routine: func() kont.Expr[kont.Either[error, R]] {
			return kont.ExprMap(routine(), func(r R) kont.Either[error, R] {
				return kont.Right[error, R](r)
			})
		},
		Recover: func(err error) kont.Either[error, R] {
			return kont.Left[error, R](err)
		},
	}
}

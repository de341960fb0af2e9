// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"time"

	"code.hybscloud.com/kont"
)

// Pre-allocated frame to avoid boxing an empty struct into kont.Frame on
// every fused construction.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
func identityResume(v kont.Erased) kont.Erased { return v }

// exprThen suspends on op, discards its result, and continues with next.
func exprThen[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// ExprCall runs routine as a child task and resumes with its result.
func ExprCall[R any](routine func() kont.Expr[R]) kont.Expr[R] {
	return kont.ExprPerform(Invoke[R]{Routine: routine})
}

// ExprCallWith runs fn(arg) as a child task and resumes with its result.
func ExprCallWith[A, R any](fn func(A) kont.Expr[R], arg A) kont.Expr[R] {
	return ExprCall(func() kont.Expr[R] { return fn(arg) })
}

func callBindUnwind[R, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(R) kont.Expr[B])
	r, _ := current.(R)
	result := f(r)
	return kont.Erased(result.Value), result.Frame
}

// ExprCallBind runs routine as a child task and passes its result to f.
// Fuses ExprCall + ExprBind.
func ExprCallBind[R, B any](routine func() kont.Expr[R], f func(R) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = callBindUnwind[R, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Invoke[R]{Routine: routine}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprAttempt runs routine as a child task, resuming with Left(err) on
// failure and Right(result) on success.
func ExprAttempt[R any](routine func() kont.Expr[R]) kont.Expr[kont.Either[error, R]] {
	return kont.ExprPerform(attemptOf(routine))
}

// ExprPut dispatches event to the bridge.
func ExprPut[E any](event E) kont.Expr[struct{}] {
	return kont.ExprPerform(Dispatch[E]{Event: event})
}

// ExprPutThen dispatches event and then continues with next.
// Fuses ExprPut + ExprThen.
func ExprPutThen[E, B any](event E, next kont.Expr[B]) kont.Expr[B] {
	return exprThen(Dispatch[E]{Event: event}, next)
}

// ExprDelay suspends the calling task until d elapses.
func ExprDelay(d time.Duration) kont.Expr[struct{}] {
	return kont.ExprPerform(Suspend{Duration: d})
}

// ExprDelayThen suspends for d and then continues with next.
// Fuses ExprDelay + ExprThen.
func ExprDelayThen[B any](d time.Duration, next kont.Expr[B]) kont.Expr[B] {
	return exprThen(Suspend{Duration: d}, next)
}

// ExprAll runs every child concurrently and resumes with their results in
// declared order.
func ExprAll(children ...Effect) kont.Expr[[]kont.Erased] {
	return kont.ExprPerform(Parallel{Children: children})
}

func allBindUnwind[B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func([]kont.Erased) kont.Expr[B])
	result := f(current.([]kont.Erased))
	return kont.Erased(result.Value), result.Frame
}

// ExprAllBind runs every child concurrently and passes the results to f.
// Fuses ExprAll + ExprBind.
func ExprAllBind[B any](f func([]kont.Erased) kont.Expr[B], children ...Effect) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = allBindUnwind[B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = Parallel{Children: children}
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

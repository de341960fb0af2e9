// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// RunExpr starts an Expr-world routine as a root task on s.
// The task is driven synchronously to its first suspension point before
// RunExpr returns, so every effect that resolves immediately, such as the
// dispatches at the head of the routine, has been observed by then.
func RunExpr[R any](s *Scheduler, routine func() kont.Expr[R]) *Handle[R] {
	if routine == nil {
		panic("saga: nil routine in RunExpr")
	}
	t := s.newTask(0)
	h := &Handle[R]{s: s, t: t}
	s.start(t, func() kont.Expr[kont.Erased] {
		return kont.ExprMap(routine(), eraseResult[R])
	})
	return h
}

// Run starts a Cont-world routine as a root task on s.
// See [RunExpr].
func Run[R any](s *Scheduler, routine func() kont.Eff[R]) *Handle[R] {
	if routine == nil {
		panic("saga: nil routine in Run")
	}
	return RunExpr(s, reified(routine))
}

// RunWith starts fn(arg) as a root task on s.
func RunWith[A, R any](s *Scheduler, fn func(A) kont.Expr[R], arg A) *Handle[R] {
	if fn == nil {
		panic("saga: nil routine in RunWith")
	}
	return RunExpr(s, func() kont.Expr[R] { return fn(arg) })
}

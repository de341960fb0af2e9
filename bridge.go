// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// Bridge is the sink receiving dispatched events.
// Accept is called synchronously from the scheduler goroutine and must not
// block. Events are forwarded verbatim.
type Bridge interface {
	Accept(event any)
}

// BridgeFunc adapts a function to [Bridge].
type BridgeFunc func(event any)

// Accept calls f(event).
func (f BridgeFunc) Accept(event any) { f(event) }

type discardBridge struct{}

func (discardBridge) Accept(any) {}

// Reify turns a Cont-world routine body into the Expr-world form a task
// steps, so closure-built sagas can be returned from [RunExpr] or
// [InvokeOf] factories. Saga effects inside it are kept as suspensions.
func Reify[A any](body kont.Eff[A]) kont.Expr[A] {
	return kont.Reify(body)
}

// Reflect turns an Expr-world routine body into Cont-world, for use inside
// [Call], [All] or [Loop] compositions.
func Reflect[A any](body kont.Expr[A]) kont.Eff[A] {
	return kont.Reflect(body)
}

// reified lifts a Cont-world routine factory to Expr-world.
func reified[R any](routine func() kont.Eff[R]) func() kont.Expr[R] {
	if routine == nil {
		return nil
	}
	return func() kont.Expr[R] { return kont.Reify(routine()) }
}

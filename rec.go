// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// Loop runs a watcher-style routine (Cont-world): each iteration may
// dispatch, delay, or call children, and every effect it performs is
// interpreted by the task running the loop. Cancelling that task stops
// the loop at its current suspension.
// step returns Left(nextState) to go round again or Right(result) to settle.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(iter kont.Either[S, A]) kont.Eff[A] {
		if iter.IsLeft() {
			state, _ := iter.GetLeft()
			return Loop(state, step)
		}
		done, _ := iter.GetRight()
		return kont.Pure(done)
	})
}

// ExprLoop runs a recursive routine (Expr-world).
// Each iteration is reflected into the Cont-world [Loop] and the whole
// loop is reified back, so suspensions inside step stay one-shot.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	return kont.Reify(Loop(initial, func(s S) kont.Eff[kont.Either[S, A]] {
		return kont.Reflect(step(s))
	}))
}

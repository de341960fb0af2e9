// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"time"

	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
)

// raceWon carries the guarded routine's result out of the race through the
// failure path, which is what cancels the losing sibling.
type raceWon struct {
	value kont.Erased
}

func (*raceWon) Error() string { return "saga: race won" }

// Timeout runs routine against a [Suspend] of d (Cont-world).
// The first to settle cancels the other: if routine completes first its
// result is returned and the timer is released; if d elapses first routine
// is cancelled and Timeout fails with [ErrTimeout]. A failure of routine
// fails the caller wrapped in the race's [*ChildError] chain; errors.Is
// still matches the original cause.
//
// The race is a [Parallel] of two [Invoke] children under [Attempt].
func Timeout[R any](d time.Duration, routine func() kont.Eff[R]) kont.Eff[R] {
	guarded := func() kont.Eff[struct{}] {
		return kont.Bind(routine(), func(r R) kont.Eff[struct{}] {
			return kont.ThrowError[error, struct{}](&raceWon{value: r})
		})
	}
	deadline := func() kont.Eff[struct{}] {
		return DelayThen(d, kont.ThrowError[error, struct{}](ErrTimeout))
	}
	race := func() kont.Eff[[]kont.Erased] {
		return All(CallOf(guarded), CallOf(deadline))
	}
	return kont.Bind(Attempt(race), func(e kont.Either[error, []kont.Erased]) kont.Eff[R] {
		err, ok := e.GetLeft()
		if !ok || err == nil {
			return kont.ThrowError[error, R](errors.New("saga: race settled without a winner"))
		}
		var won *raceWon
		if errors.As(err, &won) {
			r, _ := won.value.(R)
			return kont.Pure(r)
		}
		if errors.Is(err, ErrTimeout) {
			return kont.ThrowError[error, R](ErrTimeout)
		}
		return kont.ThrowError[error, R](err)
	})
}

// ExprTimeout runs routine against a [Suspend] of d (Expr-world).
// See [Timeout].
func ExprTimeout[R any](d time.Duration, routine func() kont.Expr[R]) kont.Expr[R] {
	return kont.Reify(Timeout(d, func() kont.Eff[R] {
		return kont.Reflect(routine())
	}))
}

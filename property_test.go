// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga_test

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"
)

// randomTree builds a nested saga from seed: each node is either a leaf
// with a delay in [0, 50ms) or a Parallel of up to three subtrees.
func randomTree(seed int64) func() kont.Expr[[]kont.Erased] {
	rng := rand.New(rand.NewSource(seed))
	next := 0
	var node func(depth int) saga.Effect
	node = func(depth int) saga.Effect {
		if depth >= 3 || rng.Intn(3) == 0 {
			label := fmt.Sprintf("n%d", next)
			next++
			return saga.InvokeOf(leafFor(label, time.Duration(rng.Intn(50))*time.Millisecond))
		}
		children := make([]saga.Effect, 1+rng.Intn(3))
		for i := range children {
			children[i] = node(depth + 1)
		}
		return saga.ParallelOf(children...)
	}
	root := node(0)
	return func() kont.Expr[[]kont.Erased] { return saga.ExprAll(root) }
}

func runToEnd(routine func() kont.Expr[[]kont.Erased]) ([]action, bool) {
	e := setup()
	h := saga.RunExpr(e.s, routine)
	for i := 0; i < 60 && !h.Done(); i++ {
		e.advance(time.Millisecond)
	}
	return e.rec.actions(), h.Status() == saga.StatusCompleted && e.s.Pending() == 0
}

// TestPropertyDeterministicOrder checks that two fresh schedulers on
// manual clocks dispatch the same sequence for the same tree.
func TestPropertyDeterministicOrder(t *testing.T) {
	property := func(seed int64) bool {
		tree := randomTree(seed)
		first, ok1 := runToEnd(tree)
		second, ok2 := runToEnd(tree)
		return ok1 && ok2 && reflect.DeepEqual(first, second)
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyStartedBeforeStopped checks that a fan-out of n leaves
// dispatches every STARTED, in declared order, before any STOPPED.
func TestPropertyStartedBeforeStopped(t *testing.T) {
	property := func(fanout uint8) bool {
		n := 1 + int(fanout%16)
		children := make([]saga.Effect, n)
		for i := range children {
			children[i] = saga.InvokeOf(leafFor(fmt.Sprint(i), time.Duration(n-i)*time.Millisecond))
		}
		got, ok := runToEnd(func() kont.Expr[[]kont.Erased] { return saga.ExprAll(children...) })
		if !ok || len(got) != 2*n {
			return false
		}
		for i := 0; i < n; i++ {
			if got[i] != started(fmt.Sprint(i)) {
				return false
			}
			if got[n+i].Type != "STOPPED" {
				return false
			}
		}
		return true
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

// TestPropertyCancelLeavesNothing checks that cancelling a random tree at
// an arbitrary time releases every task and timer registration.
func TestPropertyCancelLeavesNothing(t *testing.T) {
	property := func(seed int64, at uint8) bool {
		e := setup()
		h := saga.RunExpr(e.s, randomTree(seed))
		e.advance(time.Duration(at%60) * time.Millisecond)
		h.Cancel()
		before := len(e.rec.actions())
		e.advance(time.Second)
		return e.s.Pending() == 0 && e.timers.Len() == 0 && len(e.rec.actions()) == before
	}
	if err := quick.Check(property, nil); err != nil {
		t.Error(err)
	}
}

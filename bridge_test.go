// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga_test

import (
	"reflect"
	"testing"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"
)

func TestReifyContToExpr(t *testing.T) {
	// Cont routine → Reify → RunExpr
	e := setup()
	cont := saga.PutThen(started("r"), saga.DelayThen(time.Millisecond, kont.Pure(1)))
	h := saga.RunExpr(e.s, func() kont.Expr[int] { return saga.Reify(cont) })
	e.advance(time.Millisecond)
	if v, err := h.Result(); err != nil || v != 1 {
		t.Fatalf("result got (%d, %v), want (1, nil)", v, err)
	}
}

func TestReflectExprToCont(t *testing.T) {
	// Expr routine → Reflect → Run
	e := setup()
	h := saga.Run(e.s, func() kont.Eff[int] {
		return saga.Reflect(saga.ExprPutThen(started("r"), saga.ExprDelayThen(time.Millisecond, kont.ExprReturn(2))))
	})
	e.advance(time.Millisecond)
	if v, err := h.Result(); err != nil || v != 2 {
		t.Fatalf("result got (%d, %v), want (2, nil)", v, err)
	}
}

func TestBridgeFunc(t *testing.T) {
	var got []any
	s := saga.New(saga.WithBridge(saga.BridgeFunc(func(ev any) { got = append(got, ev) })))
	saga.RunExpr(s, func() kont.Expr[struct{}] {
		return saga.ExprPutThen("one", saga.ExprPutThen(2, saga.ExprPut(started("three"))))
	})
	want := []any{"one", 2, started("three")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("events got %v, want %v", got, want)
	}
}

func TestDefaultBridgeDiscards(t *testing.T) {
	s := saga.New()
	h := saga.RunExpr(s, func() kont.Expr[struct{}] { return saga.ExprPut(started("x")) })
	if !h.Done() {
		t.Fatalf("status got %v, want completed", h.Status())
	}
}

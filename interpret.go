// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"time"

	"code.hybscloud.com/kont"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type outcomeKind uint8

const (
	outcomeResolved outcomeKind = iota
	outcomePending
	outcomeFailed
)

// outcome is the result of interpreting one effect: resolved with a value,
// pending until the task is woken, or failed.
type outcome struct {
	kind  outcomeKind
	value kont.Resumed
	err   error
}

func resolved(v kont.Resumed) outcome { return outcome{kind: outcomeResolved, value: v} }

func pending() outcome { return outcome{kind: outcomePending} }

func failed(err error) outcome { return outcome{kind: outcomeFailed, err: err} }

// interpret maps the operation a routine suspended on to its execution.
// Dispatch order: saga effects → kont error effects.
func (s *Scheduler) interpret(t *task, op kont.Operation) outcome {
	if eff, ok := op.(Effect); ok {
		s.monitor.EffectTriggered(t.id, eff)
		return eff.interpret(s, t)
	}
	if eop, ok := op.(errorDispatcher); ok {
		return dispatchError(t, eop)
	}
	panic("saga: unhandled effect in Task")
}

// dispatch hands event to the bridge in the calling task's order.
func (s *Scheduler) dispatch(t *task, event any) {
	s.log.Debug("event dispatched", zap.Uint32("task", t.id))
	s.bridge.Accept(event)
}

// suspend registers a one-shot timer that wakes t.
func (s *Scheduler) suspend(t *task, d time.Duration) outcome {
	id := t.id
	tok := s.timer.After(d, func() { s.wake(id, unit) })
	if tok == nil {
		s.log.Error("timer registration refused", zap.Uint32("task", id), zap.Duration("duration", d))
		return failed(errors.WithStack(ErrTimerService))
	}
	t.timer = tok
	return pending()
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/kont"
)

// join tracks the children a task awaits for one Invoke or Parallel.
// results is index-aligned with effects.
type join struct {
	effects   []Effect
	results   []kont.Erased
	remaining int
	single    bool
	err       error
}

// value is the resume value once every child completed.
func (j *join) value() kont.Resumed {
	if j.single {
		return j.results[0]
	}
	return j.results
}

// fork spawns one child per effect in declared order, all within the
// current step, then settles the join or leaves t waiting on it.
// A synchronous child failure stops the remaining spawns.
func (s *Scheduler) fork(t *task, effects []Effect, single bool) outcome {
	if len(effects) == 0 {
		return resolved([]kont.Erased{})
	}
	j := &join{
		effects:   effects,
		results:   make([]kont.Erased, len(effects)),
		remaining: len(effects),
		single:    single,
	}
	for _, eff := range effects {
		if r, ok := eff.(routineHolder); ok && !r.hasRoutine() {
			panic("saga: nil routine in Invoke")
		}
	}
	t.join = j
	for i, eff := range effects {
		child := s.newTask(t.id)
		t.children = append(t.children, child.id)
		child.observer = s.observeChild(t.id, j, i)
		s.start(child, eff.routine)
		if j.err != nil || t.state().Settled() {
			break
		}
	}
	switch {
	case t.state().Settled():
		return pending()
	case j.err != nil:
		return failed(j.err)
	case j.remaining == 0:
		t.join = nil
		return resolved(j.value())
	}
	return pending()
}

// observeChild returns the settlement observer of child i of j.
// While the parent is still spawning (Running) the join only records;
// once the parent is Suspended, completion wakes it through the ready
// queue, while failure propagates immediately. A cancelled child is never
// observed here: only release cancels children, and it detaches the join
// first.
func (s *Scheduler) observeChild(parent TaskID, j *join, i int) func(*task) {
	return func(c *task) {
		p, ok := s.tasks[parent]
		if !ok || p.join != j {
			return
		}
		p.dropChild(c.id)
		switch c.state() {
		case StatusCompleted:
			j.results[i] = c.result
			j.remaining--
		case StatusFailed:
			var (
				v  kont.Erased
				ok bool
			)
			if err := protect(parent, func() { v, ok = j.effects[i].rescue(c.err) }); err != nil {
				j.err = &ChildError{Task: c.id, Err: err}
				break
			}
			if ok {
				j.results[i] = v
				j.remaining--
				break
			}
			j.err = &ChildError{Task: c.id, Err: c.err}
		default:
			return
		}
		if p.state() != StatusSuspended {
			return
		}
		switch {
		case j.err != nil:
			s.fail(p, j.err)
		case j.remaining == 0:
			p.join = nil
			s.wake(p.id, j.value())
		}
	}
}

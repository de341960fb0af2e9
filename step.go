// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

// Step runs the oldest queued resumption.
// Returns iox.ErrWouldBlock when nothing is ready. A resumption whose task
// has settled in the meantime is consumed without effect.
func (s *Scheduler) Step() error {
	it, err := s.ready.pop()
	if err != nil {
		return err
	}
	t, ok := s.tasks[it.task]
	if !ok || t.state() != StatusSuspended {
		return nil
	}
	s.resume(t, it.value)
	return nil
}

// Flush polls the timer service and drains the ready queue until neither
// makes progress. Returns the number of resumptions consumed.
func (s *Scheduler) Flush() int {
	n := 0
	for {
		if p, ok := s.timer.(poller); ok {
			p.Poll()
		}
		progress := false
		for s.Step() == nil {
			n++
			progress = true
		}
		if !progress {
			return n
		}
	}
}

// Ready returns the number of queued resumptions.
func (s *Scheduler) Ready() int {
	return s.ready.len()
}

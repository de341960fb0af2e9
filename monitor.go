// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

// Monitor observes task lifecycle and effect interpretation.
// Callbacks run synchronously on the scheduler goroutine and must not call
// back into the scheduler.
type Monitor interface {
	TaskStarted(task, parent TaskID)
	EffectTriggered(task TaskID, eff Effect)
	TaskSettled(task TaskID, status Status, err error)
}

// MonitorFuncs adapts optional functions to [Monitor].
type MonitorFuncs struct {
	OnTaskStarted     func(task, parent TaskID)
	OnEffectTriggered func(task TaskID, eff Effect)
	OnTaskSettled     func(task TaskID, status Status, err error)
}

func (m MonitorFuncs) TaskStarted(task, parent TaskID) {
	if m.OnTaskStarted != nil {
		m.OnTaskStarted(task, parent)
	}
}

func (m MonitorFuncs) EffectTriggered(task TaskID, eff Effect) {
	if m.OnEffectTriggered != nil {
		m.OnEffectTriggered(task, eff)
	}
}

func (m MonitorFuncs) TaskSettled(task TaskID, status Status, err error) {
	if m.OnTaskSettled != nil {
		m.OnTaskSettled(task, status, err)
	}
}

type nopMonitor struct{}

func (nopMonitor) TaskStarted(TaskID, TaskID) {}

func (nopMonitor) EffectTriggered(TaskID, Effect) {}

func (nopMonitor) TaskSettled(TaskID, Status, error) {}

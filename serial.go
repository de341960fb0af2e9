// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import "code.hybscloud.com/atomix"

// TaskID is a monotonically increasing task identifier, unique within a
// [Scheduler]. Zero is never assigned and marks the absence of a parent.
type TaskID = uint32

// serial hands out task ids for one scheduler.
type serial struct {
	counter atomix.Uint32
}

// next returns the next monotonically increasing id.
func (s *serial) next() TaskID {
	return s.counter.Add(1)
}

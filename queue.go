// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/lfq"
)

const (
	// defaultQueueCapacity is the ring size of the ready queue fast path.
	defaultQueueCapacity = 64
	// MaxQueueCapacity bounds the ring size. Larger requests are clamped.
	MaxQueueCapacity = 1 << 20
)

// readyItem is a queued resumption of a suspended task.
type readyItem struct {
	task  TaskID
	value kont.Resumed
}

// readyQueue is the FIFO of resumptions. Producer and consumer are both the
// scheduler goroutine, so the SPSC ring is the fast path; once the ring is
// full, items spill into an ordered slice and keep going there until the
// spill has drained, which preserves FIFO order across both.
type readyQueue struct {
	ring  lfq.SPSC[readyItem]
	spill []readyItem
	size  int
}

func (q *readyQueue) init(capacity int) {
	q.ring.Init(ceilPow2(capacity))
}

func (q *readyQueue) push(it readyItem) {
	q.size++
	if len(q.spill) == 0 {
		if err := q.ring.Enqueue(&it); err == nil {
			return
		}
	}
	q.spill = append(q.spill, it)
}

// pop returns the oldest item, or iox.ErrWouldBlock when empty.
func (q *readyQueue) pop() (readyItem, error) {
	it, err := q.ring.Dequeue()
	if err == nil {
		q.size--
		return it, nil
	}
	if len(q.spill) == 0 {
		return readyItem{}, iox.ErrWouldBlock
	}
	it = q.spill[0]
	q.spill[0] = readyItem{}
	q.spill = q.spill[1:]
	q.size--
	return it, nil
}

func (q *readyQueue) len() int { return q.size }

func ceilPow2(n int) int {
	if n < 2 {
		return 2
	}
	if n > MaxQueueCapacity {
		return MaxQueueCapacity
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga

import (
	"context"

	"code.hybscloud.com/iox"
)

// Await drives s on the calling goroutine until h settles or ctx ends.
// Waits between polls with adaptive backoff (iox.Backoff), without spawning
// goroutines or creating channels.
func Await[R any](ctx context.Context, s *Scheduler, h *Handle[R]) (R, error) {
	var bo iox.Backoff
	for !h.Done() {
		if err := ctx.Err(); err != nil {
			var zero R
			return zero, err
		}
		if s.Flush() > 0 {
			bo.Reset()
			continue
		}
		bo.Wait()
	}
	return h.Result()
}

// Wait drives s on the calling goroutine until every task has settled or
// ctx ends.
func (s *Scheduler) Wait(ctx context.Context) error {
	var bo iox.Backoff
	for s.Pending() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.Flush() > 0 {
			bo.Reset()
			continue
		}
		bo.Wait()
	}
	return nil
}

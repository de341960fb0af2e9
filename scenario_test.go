// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package saga_test

import (
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Nested sagas", func() {
	var (
		e *env
		h *saga.Handle[[]kont.Erased]
	)

	BeforeEach(func() {
		e = setup()
		h = saga.RunExpr(e.s, rootSaga)
	})

	It("dispatches every STARTED synchronously in declared order", func() {
		Expect(e.rec.actions()).To(Equal([]action{
			started("a1"), started("a2"), started("b1"), started("b2"),
		}))
		Expect(h.Status()).To(Equal(saga.StatusSuspended))
	})

	It("dispatches nothing more before the leaf delay elapses", func() {
		e.advance(leafDelay - time.Millisecond)
		Expect(e.rec.actions()).To(HaveLen(4))
	})

	It("dispatches every STOPPED in the same order once the delay elapses", func() {
		e.advance(110 * time.Millisecond)
		Expect(e.rec.actions()[4:]).To(Equal([]action{
			stopped("a1"), stopped("a2"), stopped("b1"), stopped("b2"),
		}))
		Expect(h.Status()).To(Equal(saga.StatusCompleted))
		Expect(e.s.Pending()).To(BeZero())
	})

	Context("when the root is cancelled mid-flight", func() {
		BeforeEach(func() {
			e.advance(50 * time.Millisecond)
			h.Cancel()
		})

		It("settles the root as cancelled", func() {
			Expect(h.Status()).To(Equal(saga.StatusCancelled))
			_, err := h.Result()
			Expect(err).To(MatchError(saga.ErrCancelled))
		})

		It("releases every task and timer", func() {
			Expect(e.s.Pending()).To(BeZero())
			Expect(e.timers.Len()).To(BeZero())
		})

		It("dispatches no STOPPED afterwards", func() {
			e.advance(time.Second)
			Expect(e.rec.actions()).To(HaveLen(4))
		})
	})
})

var _ = Describe("Config", func() {
	It("accepts an empty document", func() {
		c, err := saga.ParseConfig(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(saga.Config{}))
	})

	It("rejects unknown keys", func() {
		_, err := saga.ParseConfig([]byte("queue_size: 3\n"))
		Expect(err).To(HaveOccurred())
	})
})

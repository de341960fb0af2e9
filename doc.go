// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package saga provides a single-threaded cooperative effect runtime for
// routines written with [code.hybscloud.com/kont].
//
// A routine never performs side effects itself. It yields inert effect
// descriptors, and a [Scheduler] interprets them on its behalf, driving each
// routine one suspension at a time.
//
// # Architecture
//
//   - Effects: [Invoke], [Dispatch], [Suspend] and [Parallel] form a closed set of descriptors.
//   - Tasks: each routine runs as a task held in a per-scheduler arena. Parents hold child ids; children hold only their parent id.
//   - Ready queue: resumptions are queued FIFO on a bounded [code.hybscloud.com/lfq] SPSC ring with an ordered spill.
//   - Timers: [Timers] orders deadlines by (deadline, start sequence) and is polled from the scheduler goroutine.
//   - Errors: routines fail through kont's error effect; failures propagate to parents as [*ChildError].
//
// # API Topologies
//
//   - Cont-world: [Call], [CallWith], [CallBind], [Attempt], [Put], [PutThen], [Delay], [DelayThen], [All], [AllBind].
//   - Expr-world: [ExprCall], [ExprCallWith], [ExprCallBind], [ExprAttempt], [ExprPut], [ExprPutThen], [ExprDelay], [ExprDelayThen], [ExprAll], [ExprAllBind].
//   - Descriptors for [Parallel] children: [InvokeOf], [CallOf], [DispatchOf], [SuspendOf], [ParallelOf].
//   - Composition: [Timeout]/[ExprTimeout] race a routine against a [Suspend]; [Loop]/[ExprLoop] iterate.
//
// # Integration
//
//   - Entry: [RunExpr], [Run] and [RunWith] start a root task and drive it to its first suspension before returning.
//   - Stepping: [Scheduler.Step] runs one queued resumption or returns [code.hybscloud.com/iox.ErrWouldBlock]; [Scheduler.Flush] polls timers and drains.
//   - Blocking: [Await] and [Scheduler.Wait] drive the scheduler with adaptive backoff until settlement.
//
// # Example
//
//	s := saga.New(saga.WithBridge(saga.BridgeFunc(func(ev any) { fmt.Println(ev) })))
//	leaf := func() kont.Expr[struct{}] {
//		return saga.ExprPutThen("started",
//			saga.ExprDelayThen(100*time.Millisecond, saga.ExprPut("stopped")))
//	}
//	h := saga.RunExpr(s, func() kont.Expr[[]kont.Erased] {
//		return saga.ExprAll(saga.InvokeOf(leaf), saga.InvokeOf(leaf))
//	})
//	_, err := saga.Await(context.Background(), s, h)
package saga

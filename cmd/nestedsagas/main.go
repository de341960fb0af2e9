// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command nestedsagas runs a tree of nested parallel sagas and logs every
// dispatched event:
//
//	root ─┬─ a ─┬─ a1
//	      │     └─ a2
//	      └─ b ─┬─ b1
//	            └─ b2
//
// Each leaf dispatches STARTED, waits, and dispatches STOPPED.
package main

import (
	"context"
	"os"
	"time"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/saga"
	"go.uber.org/zap"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app         = kingpin.New("nestedsagas", "Run nested parallel sagas and print dispatched events.")
	delay       = app.Flag("delay", "How long each leaf saga waits between STARTED and STOPPED.").Default("100ms").Duration()
	cancelAfter = app.Flag("cancel-after", "Cancel the root saga after this long (0 disables).").Default("0s").Duration()
	configPath  = app.Flag("config", "Path to a YAML scheduler config.").String()
)

type action struct {
	Type  string
	Label string
}

func (a action) String() string { return a.Type + " " + a.Label }

func leaf(label string, d time.Duration) func() kont.Expr[struct{}] {
	return func() kont.Expr[struct{}] {
		return saga.ExprPutThen(action{Type: "STARTED", Label: label},
			saga.ExprDelayThen(d,
				saga.ExprPut(action{Type: "STOPPED", Label: label}),
			),
		)
	}
}

func pair(x, y string, d time.Duration) func() kont.Expr[[]kont.Erased] {
	return func() kont.Expr[[]kont.Erased] {
		return saga.ExprAll(saga.InvokeOf(leaf(x, d)), saga.InvokeOf(leaf(y, d)))
	}
}

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger, err := zap.NewDevelopment()
	app.FatalIfError(err, "logger")
	defer logger.Sync()

	opts := []saga.Option{saga.WithLogger(logger)}
	if *configPath != "" {
		cfg, err := saga.LoadConfig(*configPath)
		app.FatalIfError(err, "config")
		fromFile, err := cfg.Options()
		app.FatalIfError(err, "config")
		opts = append(opts, fromFile...)
	}

	start := time.Now()
	opts = append(opts, saga.WithBridge(saga.BridgeFunc(func(ev any) {
		logger.Info("event dispatched",
			zap.Any("event", ev),
			zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)),
		)
	})))
	s := saga.New(opts...)

	d := *delay
	h := saga.RunExpr(s, func() kont.Expr[[]kont.Erased] {
		return saga.ExprAll(saga.InvokeOf(pair("a1", "a2", d)), saga.InvokeOf(pair("b1", "b2", d)))
	})

	ctx := context.Background()
	if *cancelAfter > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *cancelAfter)
		defer cancel()
	}
	if _, err := saga.Await(ctx, s, h); err != nil {
		if ctx.Err() != nil {
			h.Cancel()
			logger.Info("root saga cancelled", zap.Duration("after", *cancelAfter), zap.Stringer("status", h.Status()))
			return
		}
		logger.Error("root saga failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("root saga completed", zap.Duration("elapsed", time.Since(start)))
}

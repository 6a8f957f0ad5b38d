package workergroup

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Run executes independent units under a fixed worker budget and
// reports how many of them did new work.
//
// Each worker provisions its own resources exactly once through
// newWorker (transport handles and store connections are not safe to
// share across workers) and releases them with the returned cleanup.
// A unit's error or panic is logged and counted against that unit
// alone; sibling units keep running.
func Run[U any, W any](
	ctx context.Context,
	workers int,
	units []U,
	newWorker func(ctx context.Context) (W, func(), error),
	work func(ctx context.Context, w W, unit U) (bool, error),
) int {
	if workers <= 0 {
		workers = 1
	}
	if workers > len(units) {
		workers = len(units)
	}

	// buffered so a worker that fails to provision can bail out
	// without stranding units; its siblings take the whole queue
	queue := make(chan U, len(units))
	for _, unit := range units {
		queue <- unit
	}
	close(queue)

	var succeeded atomic.Int64
	wg := sync.WaitGroup{}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w, cleanup, err := newWorker(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "failed to provision worker", "err", err)
				return
			}
			defer cleanup()

			for unit := range queue {
				if runUnit(ctx, w, unit, work) {
					succeeded.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	return int(succeeded.Load())
}

func runUnit[U any, W any](
	ctx context.Context,
	w W,
	unit U,
	work func(ctx context.Context, w W, unit U) (bool, error),
) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic in worker unit", "panic", r)
			ok = false
		}
	}()

	did, err := work(ctx, w, unit)
	if err != nil {
		slog.WarnContext(ctx, "unit of work failed", "err", err)
		return false
	}
	return did
}

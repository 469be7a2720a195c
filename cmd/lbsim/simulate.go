package main

import (
	"context"
	"runtime"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/ydmxcz/nodebalance"
)

// simulate performs selections calls to sel spread over workers goroutines
// and returns how often each node ID was picked. A worker that finds the
// selector busy yields and tries again.
func simulate(ctx context.Context, sel nodebalance.Selector, selections, workers int) (map[string]int, error) {
	if workers < 1 {
		workers = 1
	}
	var (
		left   = atomic.NewInt64(int64(selections))
		mtx    sync.Mutex
		counts = make(map[string]int)
	)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			local := make(map[string]int)
			defer func() {
				mtx.Lock()
				for id, c := range local {
					counts[id] += c
				}
				mtx.Unlock()
			}()

			for left.Dec() >= 0 {
				for {
					if err := ctx.Err(); err != nil {
						return err
					}
					n, err := sel.SelectNode()
					if err != nil {
						return err
					}
					if n != nil {
						local[n.ID()]++
						break
					}
					runtime.Gosched()
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}

package engine

import (
	"context"

	channerics "github.com/niceyeti/channerics/channels"
	"golang.org/x/sync/errgroup"
)

// tileWorker computes NextState for a contiguous band of rows
// [yStart,yEnd) and signals completion by closing its returned
// channel. Each worker owns a disjoint row range, so writes into the
// grid's NextState fields never race -- the fan-in below only waits
// for completion, mirroring reinforcement.Train's agent_worker
// goroutines merged with channerics.Merge.
func tileWorker(done <-chan struct{}, e *Engine, stepIdx, yStart, yEnd int) <-chan struct{} {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < e.grid.Width; x++ {
				select {
				case <-done:
					return
				default:
				}
				e.grid.at(x, y).NextState = e.decideCell(x, y, stepIdx)
			}
		}
	}()
	return out
}

// runDecisionPhase partitions the grid into row tiles, one per
// worker, and blocks until every tile's decisions are written. With
// nworkers <= 1 it still goes through the same tiling code path with
// a single tile, keeping Step() single-threaded-safe without a
// separate sequential implementation to drift out of sync.
func runDecisionPhase(ctx context.Context, e *Engine, stepIdx, nworkers int) error {
	height := e.grid.Height
	if nworkers < 1 {
		nworkers = 1
	}
	if nworkers > height {
		nworkers = height
	}

	g, gctx := errgroup.WithContext(ctx)
	rowsPerWorker := (height + nworkers - 1) / nworkers

	var workers []<-chan struct{}
	for i := 0; i < nworkers; i++ {
		yStart := i * rowsPerWorker
		yEnd := yStart + rowsPerWorker
		if yEnd > height {
			yEnd = height
		}
		if yStart >= yEnd {
			continue
		}
		workers = append(workers, tileWorker(gctx.Done(), e, stepIdx, yStart, yEnd))
	}

	merged := channerics.Merge(gctx.Done(), workers...)
	g.Go(func() error {
		for range merged {
		}
		return nil
	})

	return g.Wait()
}

package stopping

import (
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ComputeBatch evaluates every energy and returns the points in input order.
// The first failing energy in index order aborts the batch with the error
// ComputeDEDX reports for it; no partial result is returned.
func (e *Engine) ComputeBatch(energies []float64) ([]Point, error) {
	points := make([]Point, len(energies))
	if len(energies) == 0 {
		return points, nil
	}

	var (
		firstBad atomic.Int64
		errs     = make([]error, len(energies))
	)
	firstBad.Store(int64(len(energies)))

	ParallelFor(len(energies), e.minChunk, e.workers, func(start, end int) {
		for i := start; i < end; i++ {
			if int64(i) > firstBad.Load() {
				return
			}
			p, err := e.point(energies[i])
			if err != nil {
				errs[i] = err
				lowerFirstBad(&firstBad, int64(i))
				return
			}
			points[i] = p
		}
	})

	if idx := firstBad.Load(); idx < int64(len(energies)) {
		return nil, errs[idx]
	}
	return points, nil
}

func lowerFirstBad(v *atomic.Int64, idx int64) {
	for {
		cur := v.Load()
		if idx >= cur || v.CompareAndSwap(cur, idx) {
			return
		}
	}
}

// ParallelFor runs fn over [0, n) split into contiguous chunks of at least
// minChunk indices, on at most workers goroutines.
func ParallelFor(n, minChunk, workers int, fn func(start, end int)) {
	if minChunk < 1 {
		minChunk = 1
	}
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	chunks := n / minChunk
	if chunks > workers*4 {
		chunks = workers * 4
	}
	chunkSize := (n + chunks - 1) / chunks

	var g errgroup.Group
	g.SetLimit(workers)

	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		s, e := start, end
		g.Go(func() error {
			fn(s, e)
			return nil
		})
	}

	_ = g.Wait()
}

package pricing

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MinChunk is the smallest number of contracts handed to one worker.
const MinChunk = 1024

// PriceOptionsParallel prices b across up to workers goroutines. Each worker
// owns a contiguous index range, so the result is identical to PriceOptions.
// workers <= 0 means runtime.GOMAXPROCS(0).
func PriceOptionsParallel(ctx context.Context, b ContractBatch, rate, volatility float64, workers int) (PriceBatch, error) {
	out := NewPriceBatch(b.Len())
	if err := validate(b, rate, volatility, out); err != nil {
		return PriceBatch{}, err
	}
	if err := priceChunks(ctx, b, rate, volatility, out, workers); err != nil {
		return PriceBatch{}, err
	}
	return out, nil
}

func priceChunks(ctx context.Context, b ContractBatch, rate, volatility float64, out PriceBatch, workers int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := b.Len()
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	size := (n + workers - 1) / workers
	if size < MinChunk {
		size = MinChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for from := 0; from < n; from += size {
		to := min(from+size, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return priceRange(b.Slice(from, to), rate, volatility, out.slice(from, to), from)
		})
	}
	return g.Wait()
}

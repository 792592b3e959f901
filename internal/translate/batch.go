package translate

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mgpai22/cuedit/internal/logging"
)

// one API request's worth of items
type batchFunc func(ctx context.Context, items []TranslationItem) ([]TranslationResult, error)

// batcher splits items into batches and runs them on a bounded worker pool.
// Providers embed it and supply their own batchFunc.
type batcher struct {
	options Options
	limiter *rate.Limiter
	log     *logging.Logger
}

func newBatcher(opts Options) batcher {
	b := batcher{options: opts, log: logging.Nop()}
	if opts.RateLimitPerMin > 0 {
		b.limiter = rate.NewLimiter(rate.Limit(float64(opts.RateLimitPerMin)/60.0), 1)
	}
	return b
}

// SetLogger attaches a logger for per-batch progress.
func (b *batcher) SetLogger(log *logging.Logger) {
	b.log = logging.OrNop(log)
}

func splitBatches(items []TranslationItem, size int) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		batches = append(batches, items[i:end])
	}
	return batches
}

// run translates items with up to concurrency batches in flight. The first
// failing batch cancels the others. Results come back sorted by index.
func (b *batcher) run(
	ctx context.Context,
	items []TranslationItem,
	concurrency int,
	fn batchFunc,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if concurrency <= 0 {
		concurrency = 3
	}

	batches := splitBatches(items, b.options.batchSize())
	perBatch := make([][]TranslationResult, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, batch := range batches {
		g.Go(func() error {
			if b.limiter != nil {
				if err := b.limiter.Wait(gctx); err != nil {
					return fmt.Errorf("rate limiter: %w", err)
				}
			}

			b.log.Debugw("Translating batch",
				"batch", fmt.Sprintf("%d/%d", i+1, len(batches)),
				"items", len(batch),
			)

			results, err := fn(gctx, batch)
			if err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			perBatch[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	allResults := make([]TranslationResult, 0, len(items))
	for _, results := range perBatch {
		allResults = append(allResults, results...)
	}

	sort.Slice(allResults, func(i, j int) bool {
		return allResults[i].Index < allResults[j].Index
	})

	return allResults, nil
}

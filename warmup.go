package raptor

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// CacheBuilder materializes one derived, read-only structure a
// TransitData implementation wants ready before traffic arrives -
// a patterns-by-stop index, a transfer graph, a spatial index for
// access/egress snapping. It must not mutate anything another builder
// touches concurrently.
type CacheBuilder func(ctx context.Context) error

// WarmCaches runs every builder against a shared TransitData instance,
// bounded to maxConcurrency simultaneous builders. The core itself
// never does this - C1 is handed over already built (§1) - this is a
// host-side convenience for the one place that legitimately needs
// bounded concurrency around a shared, read-only provider (§5),
// unlike the single-threaded-per-request core.
func WarmCaches(ctx context.Context, maxConcurrency int64, builders []CacheBuilder) error {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	sem := semaphore.NewWeighted(maxConcurrency)
	errs := make(chan error, len(builders))

	launched := 0
	var acquireErr error
	for _, build := range builders {
		if err := sem.Acquire(ctx, 1); err != nil {
			acquireErr = err
			break
		}
		launched++
		go func(build CacheBuilder) {
			defer sem.Release(1)
			errs <- build(ctx)
		}(build)
	}

	var first error
	for i := 0; i < launched; i++ {
		if err := <-errs; err != nil && first == nil {
			first = err
		}
	}
	if first == nil {
		first = acquireErr
	}
	return first
}

package wikipedia

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"
)

// dispatchQueue bounds outbound load on the upstream API: at most
// maxConcurrent requests in flight, and a minimum delay between dispatches.
// Callers block until their request has been drained and completed.
type dispatchQueue struct {
	workers *pool.Pool
	limiter *rate.Limiter
}

func newDispatchQueue(maxConcurrent int, dispatchDelay time.Duration) *dispatchQueue {
	return &dispatchQueue{
		workers: pool.New().WithMaxGoroutines(maxConcurrent),
		limiter: rate.NewLimiter(rate.Every(dispatchDelay), 1),
	}
}

type queueResult struct {
	body []byte
	err  error
}

// Do enqueues fn and waits for its result. The rate limiter is consulted
// inside the worker slot, so the delay applies between dispatches, not
// between enqueues.
func (q *dispatchQueue) Do(ctx context.Context, fn func() ([]byte, error)) ([]byte, error) {
	ch := make(chan queueResult, 1)
	q.workers.Go(func() {
		if err := q.limiter.Wait(ctx); err != nil {
			ch <- queueResult{err: err}
			return
		}
		body, err := fn()
		ch <- queueResult{body: body, err: err}
	})

	select {
	case r := <-ch:
		return r.body, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close waits for in-flight work to drain.
func (q *dispatchQueue) Close() {
	q.workers.Wait()
}

// Package dispatch runs a per-item pipeline over a bounded worker pool and
// aggregates findings and failures thread-safely.
package dispatch

import (
	"context"
	"errors"
	"sync"

	"github.com/issuehound/issuehound/internal/atlassian"
	"github.com/issuehound/issuehound/internal/types"
)

// Pipeline fetches, normalizes, and scans one item.
type Pipeline func(ctx context.Context, ref types.ItemRef) ([]types.Finding, error)

// Result aggregates everything the pool produced. On cancellation it holds
// whatever completed before the stop.
type Result struct {
	Findings []types.Finding
	Failures []types.Failure
}

const defaultConcurrency = 8

// Run fans refs out over at most concurrency workers and joins before
// returning. Recoverable errors become Failures and the run continues; an
// AuthError from any worker cancels the rest and is returned alongside the
// partial result.
func Run(ctx context.Context, refs []types.ItemRef, pipe Pipeline, concurrency int) (*Result, error) {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if concurrency > len(refs) && len(refs) > 0 {
		concurrency = len(refs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu     sync.Mutex
		res    Result
		fatal  error
		wg     sync.WaitGroup
		refsCh = make(chan types.ItemRef)
	)

	worker := func() {
		defer wg.Done()
		for ref := range refsCh {
			findings, err := pipe(ctx, ref)
			mu.Lock()
			switch {
			case err == nil:
				res.Findings = append(res.Findings, findings...)
			case isFatal(err):
				if fatal == nil {
					fatal = err
				}
				mu.Unlock()
				cancel()
				return
			default:
				res.Failures = append(res.Failures, types.Failure{Ref: ref, Err: err, Msg: err.Error()})
			}
			mu.Unlock()
		}
	}

	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go worker()
	}

feed:
	for _, ref := range refs {
		select {
		case refsCh <- ref:
		case <-ctx.Done():
			break feed
		}
	}
	close(refsCh)
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if fatal != nil {
		return &res, fatal
	}
	if err := ctx.Err(); err != nil {
		return &res, err
	}
	return &res, nil
}

func isFatal(err error) bool {
	var authErr *atlassian.AuthError
	return errors.As(err, &authErr)
}

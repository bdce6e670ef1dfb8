package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kestrel-labs/toolcore/internal/toolerr"
)

// CallFunc performs a single tool call. ToolRegistry.Execute satisfies
// this signature and is what strategies are driven with in practice.
type CallFunc func(ctx context.Context, req ToolCallRequest) (any, *toolerr.CallError)

// Strategy is an execution strategy (C6): given a batch of requests and a
// way to perform one call, it returns outcomes in input order. All
// strategies preserve order (invariant #1) and never let one request's
// failure abort its siblings.
type Strategy interface {
	Run(ctx context.Context, requests []ToolCallRequest, call CallFunc) []CallOutcome
}

func runOne(ctx context.Context, req ToolCallRequest, call CallFunc) CallOutcome {
	started := time.Now()
	value, callErr := call(ctx, req)
	return CallOutcome{
		Value:      value,
		Err:        callErr,
		StartedAt:  started.UnixNano(),
		FinishedAt: time.Now().UnixNano(),
	}
}

// sequentialStrategy processes requests one at a time; each request's
// completion precedes the next's start.
type sequentialStrategy struct{}

// Sequential is the default strategy: requests run one by one.
func Sequential() Strategy { return sequentialStrategy{} }

func (sequentialStrategy) Run(ctx context.Context, requests []ToolCallRequest, call CallFunc) []CallOutcome {
	out := make([]CallOutcome, len(requests))
	for i, req := range requests {
		out[i] = runOne(ctx, req, call)
	}
	return out
}

// parallelStrategy launches every request concurrently and gathers
// results preserving input order.
type parallelStrategy struct{}

// Parallel launches all requests concurrently.
func Parallel() Strategy { return parallelStrategy{} }

func (parallelStrategy) Run(ctx context.Context, requests []ToolCallRequest, call CallFunc) []CallOutcome {
	out := make([]CallOutcome, len(requests))
	var wg sync.WaitGroup
	wg.Add(len(requests))
	for i, req := range requests {
		go func(i int, req ToolCallRequest) {
			defer wg.Done()
			out[i] = runOne(ctx, req, call)
		}(i, req)
	}
	wg.Wait()
	return out
}

// parallelWithLimitStrategy processes requests in chunks of size limit,
// fully draining each chunk (via the Parallel strategy) before starting
// the next.
type parallelWithLimitStrategy struct {
	limit int
}

// ParallelWithLimit builds a strategy that runs at most n requests
// concurrently at a time, draining each chunk before starting the next.
// n must be >= 1 (invariant #7); n <= 0 is a construction-time error.
func ParallelWithLimit(n int) (Strategy, error) {
	if n <= 0 {
		return nil, fmt.Errorf("agent: ParallelWithLimit requires n >= 1, got %d", n)
	}
	return parallelWithLimitStrategy{limit: n}, nil
}

func (s parallelWithLimitStrategy) Run(ctx context.Context, requests []ToolCallRequest, call CallFunc) []CallOutcome {
	out := make([]CallOutcome, len(requests))
	parallel := Parallel()
	for start := 0; start < len(requests); start += s.limit {
		end := start + s.limit
		if end > len(requests) {
			end = len(requests)
		}
		chunk := requests[start:end]
		results := parallel.Run(ctx, chunk, call)
		copy(out[start:end], results)
	}
	return out
}

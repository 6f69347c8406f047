package audit

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"git.home.luguber.info/inful/resourcescan/internal/foundation/errors"
)

// BatchResult pairs one input with the outcome of its run.
type BatchResult struct {
	Input   string
	Output  string
	Outcome *Outcome
	Err     error
}

// OutputPath returns the report path for input inside outDir: the input's base name
// with its extension replaced by the report format's.
func OutputPath(outDir, input, ext string) string {
	base := filepath.Base(input)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outDir, base+ext)
}

// Batch audits every input with at most workers runs in flight. Results keep input
// order. After the first fatal failure no new runs start; runs that never started
// report the cancellation.
func (a *Auditor) Batch(ctx context.Context, baseURL, outDir string, inputs []string, workers int) ([]BatchResult, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	outputs := make(map[string]string, len(inputs))
	for _, in := range inputs {
		out := OutputPath(outDir, in, a.format.Extension())
		if prev, dup := outputs[out]; dup {
			return nil, errors.ValidationError("inputs map to the same report file").
				WithContext("output", out).
				WithContext("inputs", []string{prev, in}).
				Build()
		}
		outputs[out] = in
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		firstErr error
		errOnce  sync.Once
	)
	results := runOrdered(inputs, workers, func(in string) BatchResult {
		res := BatchResult{Input: in, Output: OutputPath(outDir, in, a.format.Extension())}
		if err := ctx.Err(); err != nil {
			res.Err = errors.WrapError(err, errors.CategoryInternal, "batch aborted").Build()
			return res
		}
		res.Outcome, res.Err = a.Run(ctx, Request{BaseURL: baseURL, Input: in, Output: res.Output})
		if res.Err != nil && isFatal(res.Err) {
			errOnce.Do(func() {
				firstErr = res.Err
				cancel()
			})
		}
		return res
	})

	return results, firstErr
}

func isFatal(err error) bool {
	if classified, ok := errors.AsClassified(err); ok {
		return classified.IsFatal()
	}
	return true
}

// runOrdered applies fn to items with a fixed pool of workers. Items are dispatched in
// order, so a single worker processes them sequentially.
func runOrdered[T any, R any](items []T, concurrency int, fn func(T) R) []R {
	if len(items) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(items) {
		concurrency = len(items)
	}

	indexes := make(chan int)
	results := make([]R, len(items))

	var wg sync.WaitGroup
	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = fn(items[i])
			}
		}()
	}
	for i := range items {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return results
}

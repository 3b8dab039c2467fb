package eval

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"graphir/internal/ir"
)

// RowEvent reports a row of RunAll as it starts or finishes.
type RowEvent struct {
	Index  int
	Done   bool
	Result ir.Const
	Err    error
}

// RunAll evaluates fn once per row of inputs, in parallel. The graph is only
// read, so every worker gets its own Interpreter over the same graph.
// Results are returned in input order. Output is not shared between workers
// and is ignored.
func RunAll(ctx context.Context, g *ir.Graph, fn *ir.Function, inputs [][]ir.Const, opts Options, jobs int) ([]ir.Const, error) {
	return RunAllNotify(ctx, g, fn, inputs, opts, jobs, nil)
}

// RunAllNotify is RunAll with a callback invoked from the worker goroutines
// when each row starts and finishes. notify must be safe for concurrent use.
func RunAllNotify(ctx context.Context, g *ir.Graph, fn *ir.Function, inputs [][]ir.Const, opts Options, jobs int, notify func(RowEvent)) ([]ir.Const, error) {
	if notify == nil {
		notify = func(RowEvent) {}
	}
	if len(inputs) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	opts.Output = nil

	results := make([]ir.Const, len(inputs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(min(jobs, len(inputs)))

	for i, args := range inputs {
		grp.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			notify(RowEvent{Index: i})
			res, err := New(g, opts).Call(gctx, fn, args...)
			notify(RowEvent{Index: i, Done: true, Result: res, Err: err})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Package driver orchestrates legalization over many functions and caches
// results on disk.
package driver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/DarkDrek/cretonne/internal/flowgraph"
	"github.com/DarkDrek/cretonne/internal/ir"
	"github.com/DarkDrek/cretonne/internal/legalizer"
	"github.com/DarkDrek/cretonne/internal/target"
)

// Legalize runs the legalizer over every function, at most NumCPU functions
// at a time. Each function is processed by a single goroutine; the pass
// itself is strictly sequential over its function. A function failing
// validation afterwards aborts the whole run.
func Legalize(ctx context.Context, fns []*ir.Function, spec target.Spec) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, fn := range fns {
		fn := fn
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg := flowgraph.Compute(fn)
			legalizer.LegalizeFunction(fn, cfg, spec)
			return ir.ValidateFunction(fn)
		})
	}
	return g.Wait()
}

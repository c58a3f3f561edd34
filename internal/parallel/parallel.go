// Package parallel splits independent work into chunks and runs them on a
// bounded number of goroutines.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 8, // A gradient evaluation is far heavier than a tensor element.
	}
}

// Sequential returns a Config that runs everything on the calling goroutine.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// Range is a half-open interval [Start, End).
type Range struct {
	Start, End int
}

// Chunks splits [0, n) into contiguous ranges, one per worker at most.
// Disabled configs and small inputs yield a single range.
func Chunks(n int, cfg Config) []Range {
	if n <= 0 {
		return nil
	}
	workers := max(cfg.NumWorkers, 1)
	if !cfg.Enabled || workers == 1 || n < cfg.MinChunkSize {
		return []Range{{0, n}}
	}

	chunkSize := max((n+workers-1)/workers, cfg.MinChunkSize, 1)
	out := make([]Range, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		out = append(out, Range{start, min(start+chunkSize, n)})
	}
	return out
}

// For runs fn once per chunk of [0, n). The first error cancels the context
// passed to the remaining chunks and is returned.
// A single chunk runs on the calling goroutine.
func For(ctx context.Context, n int, cfg Config, fn func(ctx context.Context, r Range) error) error {
	chunks := Chunks(n, cfg)
	switch len(chunks) {
	case 0:
		return nil
	case 1:
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(ctx, chunks[0])
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.NumWorkers, 1))
	for _, r := range chunks {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			return fn(gCtx, r)
		})
	}
	return g.Wait()
}

// ForEach runs fn(i) for i in [0, n), honoring cancellation between items.
func ForEach(ctx context.Context, n int, cfg Config, fn func(i int) error) error {
	return For(ctx, n, cfg, func(ctx context.Context, r Range) error {
		for i := r.Start; i < r.End; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	})
}

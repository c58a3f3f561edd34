// Package selfcheck verifies every registered operation's partials against
// central finite differences over a grid of points.
package selfcheck

import (
	"context"
	"log/slog"
	"sync"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/gradient"
	"github.com/born-ml/gradtape/internal/metrics"
	"github.com/born-ml/gradtape/internal/parallel"
)

// Result is the check of one operation at one point.
type Result struct {
	Op         string
	Point      []float64
	Value      float64
	Gradient   []float64
	FiniteDiff []float64
	MaxError   float64
	Err        error
}

// Report collects every Result of a run.
type Report struct {
	Results []Result
	Failed  int
	Stats   autodiff.Stats // Merged over all worker contexts
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	return r.Failed == 0
}

// Runner checks operations according to a Config.
type Runner struct {
	cfg    Config
	logger *slog.Logger
	stats  *metrics.Snapshot
}

// NewRunner creates a Runner. A nil logger discards output; a nil snapshot
// disables stats publishing.
func NewRunner(cfg Config, logger *slog.Logger, stats *metrics.Snapshot) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{cfg: cfg, logger: logger, stats: stats}
}

// Run checks every configured operation. The error is non-nil only when ctx
// is canceled; failed checks are reported in the Report.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	ops := r.cfg.ops()
	perOp := make([][]Result, len(ops))

	var (
		mu     sync.Mutex
		merged autodiff.Stats
	)
	opts := gradient.Options{Epsilon: r.cfg.Epsilon, Tolerance: r.cfg.Tolerance}

	err := parallel.For(ctx, len(ops), r.cfg.parallelConfig(), func(ctx context.Context, rg parallel.Range) error {
		var ctxOpts []autodiff.Option
		if r.cfg.BlockSize > 0 {
			ctxOpts = append(ctxOpts, autodiff.WithBlockSize(r.cfg.BlockSize))
		}
		c := autodiff.New(append(ctxOpts, autodiff.WithLogger(r.logger))...)

		for i := rg.Start; i < rg.End; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			perOp[i] = r.checkOp(c, ops[i], opts)
		}

		mu.Lock()
		merged = mergeStats(merged, c.Stats())
		if r.stats != nil {
			r.stats.Update(merged)
		}
		mu.Unlock()
		return nil
	})
	if err != nil {
		return Report{}, err
	}

	rep := Report{Stats: merged}
	for _, results := range perOp {
		for _, res := range results {
			if res.Err != nil {
				rep.Failed++
			}
			rep.Results = append(rep.Results, res)
		}
	}
	r.logger.Info("self-check finished", "checks", len(rep.Results), "failed", rep.Failed)
	return rep, nil
}

func (r *Runner) checkOp(c *autodiff.Context, op Op, opts gradient.Options) []Result {
	out := make([]Result, 0, len(op.Points))
	worst := 0.0
	for _, p := range op.Points {
		rep, err := gradient.Check(c, op.Func, p, opts)
		res := Result{
			Op:         op.Name,
			Point:      p,
			Value:      rep.Value,
			Gradient:   rep.Gradient,
			FiniteDiff: rep.FiniteDiff,
			MaxError:   rep.MaxError,
			Err:        err,
		}
		if err != nil {
			r.logger.Warn("gradient mismatch", "op", op.Name, "point", p, "err", err)
		}
		worst = max(worst, rep.MaxError)
		out = append(out, res)
		c.Reset()
	}
	r.logger.Debug("checked operation", "op", op.Name, "points", len(op.Points), "max_error", worst)
	return out
}

// mergeStats sums counters and sizes and keeps the deepest scope depth.
func mergeStats(a, b autodiff.Stats) autodiff.Stats {
	return autodiff.Stats{
		Nodes:         a.Nodes + b.Nodes,
		NodeCapacity:  a.NodeCapacity + b.NodeCapacity,
		ArenaInUse:    a.ArenaInUse + b.ArenaInUse,
		ArenaReserved: a.ArenaReserved + b.ArenaReserved,
		ArenaPeak:     a.ArenaPeak + b.ArenaPeak,
		Blocks:        a.Blocks + b.Blocks,
		Depth:         max(a.Depth, b.Depth),
		Passes:        a.Passes + b.Passes,
		Recoveries:    a.Recoveries + b.Recoveries,
		Resets:        a.Resets + b.Resets,
	}
}

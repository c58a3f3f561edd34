// Package gradient evaluates functions of several variables together with
// their gradients and Jacobians, and checks them against finite differences.
package gradient

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/parallel"
)

// ErrGradientMismatch is returned by Check when an AD partial disagrees with
// its finite-difference estimate.
var ErrGradientMismatch = errors.New("gradient mismatch")

// Func is a scalar function of x recorded on c.
type Func func(c *autodiff.Context, x []autodiff.Var) autodiff.Var

// VectorFunc is a vector-valued function of x recorded on c.
type VectorFunc func(c *autodiff.Context, x []autodiff.Var) []autodiff.Var

// Compute evaluates f at x and returns f(x) and ∇f(x).
// Everything f records is recovered before Compute returns, and the adjoints
// of nodes already on the tape are restored.
func Compute(c *autodiff.Context, f Func, x []float64) (fx float64, grad []float64) {
	defer c.RestoreAdjoints(c.SaveAdjoints())
	_ = c.Nested(func() error {
		xs := c.Vars(x)
		y := f(c, xs)
		fx = y.Val()
		c.Grad(y)
		grad = autodiff.Adjoints(xs)
		return nil
	})
	return fx, grad
}

// Jacobian evaluates f at x and returns f(x) and the Jacobian, one row per
// output. Each row takes its own reverse pass with freshly zeroed adjoints.
// Like Compute, it leaves the outer tape's adjoints untouched.
func Jacobian(c *autodiff.Context, f VectorFunc, x []float64) (fx []float64, jac [][]float64) {
	defer c.RestoreAdjoints(c.SaveAdjoints())
	_ = c.Nested(func() error {
		xs := c.Vars(x)
		ys := f(c, xs)
		fx = autodiff.Values(ys)
		jac = make([][]float64, len(ys))
		for i, y := range ys {
			jac[i] = c.Gradient(y, xs)
		}
		return nil
	})
	return fx, jac
}

// Value evaluates f at x without running a reverse pass.
func Value(c *autodiff.Context, f Func, x []float64) float64 {
	var fx float64
	_ = c.Nested(func() error {
		fx = f(c, c.Vars(x)).Val()
		return nil
	})
	return fx
}

// FiniteDiff estimates ∇f(x) with central differences of step h, using
// forward values only. A non-positive h selects 1e-6.
func FiniteDiff(c *autodiff.Context, f Func, x []float64, h float64) []float64 {
	if h <= 0 {
		h = 1e-6
	}
	grad := make([]float64, len(x))
	xp := append([]float64(nil), x...)
	for i := range x {
		step := h * math.Max(1, math.Abs(x[i]))
		xp[i] = x[i] + step
		up := Value(c, f, xp)
		xp[i] = x[i] - step
		down := Value(c, f, xp)
		xp[i] = x[i]
		grad[i] = (up - down) / (2 * step)
	}
	return grad
}

// Options configures Check.
type Options struct {
	Epsilon   float64 // Finite-difference step
	Tolerance float64 // Allowed error, relative to max(1, |fd|)
}

// DefaultOptions returns the options used when Check gets a zero Options.
func DefaultOptions() Options {
	return Options{Epsilon: 1e-6, Tolerance: 1e-5}
}

// Report is the outcome of Check.
type Report struct {
	Value      float64
	Gradient   []float64 // Reverse-mode gradient
	FiniteDiff []float64 // Finite-difference estimate
	MaxError   float64   // Largest scaled disagreement
}

// Check compares ∇f(x) from the reverse pass with central differences.
// The report is always filled in; the error wraps ErrGradientMismatch and
// names the first component outside the tolerance.
func Check(c *autodiff.Context, f Func, x []float64, opts Options) (Report, error) {
	def := DefaultOptions()
	if opts.Epsilon <= 0 {
		opts.Epsilon = def.Epsilon
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = def.Tolerance
	}

	fx, grad := Compute(c, f, x)
	fd := FiniteDiff(c, f, x, opts.Epsilon)
	r := Report{Value: fx, Gradient: grad, FiniteDiff: fd}

	var first error
	for i := range grad {
		diff := math.Abs(grad[i]-fd[i]) / math.Max(1, math.Abs(fd[i]))
		if math.IsNaN(diff) {
			diff = math.Inf(1)
		}
		r.MaxError = math.Max(r.MaxError, diff)
		if diff > opts.Tolerance && first == nil {
			first = fmt.Errorf("%w: component %d: reverse %g, finite difference %g", ErrGradientMismatch, i, grad[i], fd[i])
		}
	}
	return r, first
}

// Result is one point of a Batch evaluation.
type Result struct {
	Value    float64
	Gradient []float64
}

// Batch evaluates f and its gradient at every point. Points are split into
// chunks by cfg and each chunk runs on its own Context, so f must not share
// Vars across calls. Options are applied to every worker context.
func Batch(ctx context.Context, f Func, points [][]float64, cfg parallel.Config, opts ...autodiff.Option) ([]Result, error) {
	out := make([]Result, len(points))
	err := parallel.For(ctx, len(points), cfg, func(ctx context.Context, r parallel.Range) error {
		c := autodiff.New(opts...)
		for i := r.Start; i < r.End; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fx, grad := Compute(c, f, points[i])
			out[i] = Result{Value: fx, Gradient: grad}
			c.Reset()
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("gradient batch: %w", err)
	}
	return out, nil
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package gradient computes gradients and Jacobians of functions of several
// variables and checks them against finite differences.
//
// Example:
//
//	f := func(c *autodiff.Context, x []autodiff.Var) autodiff.Var {
//	    return c.Dot(x, x)
//	}
//	fx, grad := gradient.Compute(autodiff.New(), f, []float64{1, 2})
//	// fx = 5, grad = [2 4]
package gradient

import (
	"context"

	"github.com/born-ml/gradtape/autodiff"
	"github.com/born-ml/gradtape/internal/gradient"
	"github.com/born-ml/gradtape/internal/parallel"
)

// Func is a scalar function recorded on a Context.
type Func = gradient.Func

// VectorFunc is a vector-valued function recorded on a Context.
type VectorFunc = gradient.VectorFunc

// Options configures Check.
type Options = gradient.Options

// Report is the outcome of Check.
type Report = gradient.Report

// Result is one point of a Batch evaluation.
type Result = gradient.Result

// ParallelConfig controls how Batch spreads points across goroutines.
type ParallelConfig = parallel.Config

// ErrGradientMismatch is returned by Check on disagreement.
var ErrGradientMismatch = gradient.ErrGradientMismatch

// Compute returns f(x) and its gradient. The tape is left as it was found.
func Compute(c *autodiff.Context, f Func, x []float64) (float64, []float64) {
	return gradient.Compute(c, f, x)
}

// Jacobian returns f(x) and the Jacobian of f, one row per output.
func Jacobian(c *autodiff.Context, f VectorFunc, x []float64) ([]float64, [][]float64) {
	return gradient.Jacobian(c, f, x)
}

// FiniteDiff estimates the gradient of f with central differences.
func FiniteDiff(c *autodiff.Context, f Func, x []float64, h float64) []float64 {
	return gradient.FiniteDiff(c, f, x, h)
}

// Check compares the reverse-mode gradient of f with finite differences.
func Check(c *autodiff.Context, f Func, x []float64, opts Options) (Report, error) {
	return gradient.Check(c, f, x, opts)
}

// DefaultParallelConfig sizes Batch workers from the CPU count.
func DefaultParallelConfig() ParallelConfig {
	return parallel.DefaultConfig()
}

// Batch evaluates f and its gradient at every point, one Context per worker.
func Batch(ctx context.Context, f Func, points [][]float64, cfg ParallelConfig, opts ...autodiff.Option) ([]Result, error) {
	return gradient.Batch(ctx, f, points, cfg, opts...)
}

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation of scalar
// functions.
//
// Every operation on a Var records one node on its Context's tape. A reverse
// pass walks the tape backwards, accumulating adjoints into every node that
// contributed to the output.
//
// Example:
//
//	import "github.com/born-ml/gradtape/autodiff"
//
//	func main() {
//	    c := autodiff.New()
//	    a, b := c.Var(2), c.Var(3)
//
//	    // y = a*b + sin(a)
//	    y := a.Mul(b).Add(autodiff.Sin(a))
//	    c.Grad(y)
//
//	    fmt.Println(a.Adj()) // 3 + cos(2)
//	    fmt.Println(b.Adj()) // 2
//
//	    // Reclaim the tape before the next evaluation.
//	    c.Reset()
//	}
//
// Nested evaluations run inside a scope that is recovered afterwards,
// leaving the outer tape untouched:
//
//	err := c.Nested(func() error {
//	    x := c.Var(1.5)
//	    c.Grad(autodiff.Exp(x))
//	    inner = x.Adj()
//	    return nil
//	})
//
// A Context is not safe for concurrent use. Run independent evaluations on
// separate contexts instead.
package autodiff

import (
	"log/slog"

	"github.com/born-ml/gradtape/internal/autodiff"
)

// Context records operations and runs reverse passes over them.
type Context = autodiff.Context

// Var is a handle to a node on a Context's tape.
type Var = autodiff.Var

// Scope marks a point on the tape that can be returned to.
type Scope = autodiff.Scope

// Stats describes the memory usage of a Context.
type Stats = autodiff.Stats

// Kind identifies the variant of a tape node.
type Kind = autodiff.Kind

// Node kinds.
const (
	KindLeaf   = autodiff.KindLeaf
	KindUnary  = autodiff.KindUnary
	KindBinary = autodiff.KindBinary
	KindNary   = autodiff.KindNary
	KindSum    = autodiff.KindSum
)

// Errors used as panic values on misuse.
var (
	ErrNilVar          = autodiff.ErrNilVar
	ErrStaleVar        = autodiff.ErrStaleVar
	ErrContextMismatch = autodiff.ErrContextMismatch
	ErrScopeOrder      = autodiff.ErrScopeOrder
	ErrLengthMismatch  = autodiff.ErrLengthMismatch
	ErrEmpty           = autodiff.ErrEmpty
)

// Option configures a Context.
type Option = autodiff.Option

// New creates an empty Context.
//
// Example:
//
//	c := autodiff.New(autodiff.WithBlockSize(4096))
func New(opts ...Option) *Context {
	return autodiff.New(opts...)
}

// WithBlockSize sets the number of elements per arena block.
func WithBlockSize(n int) Option {
	return autodiff.WithBlockSize(n)
}

// WithInitialNodes pre-allocates room for n tape nodes.
func WithInitialNodes(n int) Option {
	return autodiff.WithInitialNodes(n)
}

// WithLogger sets the logger used for tape lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return autodiff.WithLogger(l)
}

// Values returns the forward values of xs.
func Values(xs []Var) []float64 {
	return autodiff.Values(xs)
}

// Adjoints returns the adjoints of xs.
func Adjoints(xs []Var) []float64 {
	return autodiff.Adjoints(xs)
}

// Map applies f to every element of xs.
func Map(xs []Var, f func(Var) Var) []Var {
	return autodiff.Map(xs, f)
}

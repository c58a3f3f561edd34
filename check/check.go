// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package check validates arguments of numerical functions.
//
// Checks accept float64 values and autodiff.Var handles alike. Checking a Var
// reads its value and never records a node.
//
// Example:
//
//	func normalLpdf(c *autodiff.Context, y, mu, sigma autodiff.Var) (autodiff.Var, error) {
//	    if err := check.PositiveFinite("normal_lpdf", "sigma", sigma); err != nil {
//	        return autodiff.Var{}, err
//	    }
//	    ...
//	}
package check

import "github.com/born-ml/gradtape/internal/check"

// Real is a scalar that can be validated: float64 or autodiff.Var.
type Real = check.Real

// DomainError reports an argument outside the domain of a function.
type DomainError = check.DomainError

// SizeError reports arguments whose lengths disagree.
type SizeError = check.SizeError

// Size names the length of one argument for ConsistentSizes.
type Size = check.Size

// Errors matched by errors.Is.
var (
	ErrDomain          = check.ErrDomain
	ErrInvalidArgument = check.ErrInvalidArgument
)

// Bounded checks low <= y <= high. NaN anywhere fails.
func Bounded[T, L, H Real](function, name string, y T, low L, high H) error {
	return check.Bounded(function, name, y, low, high)
}

// BoundedSlice applies Bounded to every element of ys.
func BoundedSlice[T, L, H Real](function, name string, ys []T, low L, high H) error {
	return check.BoundedSlice(function, name, ys, low, high)
}

// Finite checks that y is neither NaN nor infinite.
func Finite[T Real](function, name string, y T) error {
	return check.Finite(function, name, y)
}

// FiniteSlice applies Finite to every element of ys.
func FiniteSlice[T Real](function, name string, ys []T) error {
	return check.FiniteSlice(function, name, ys)
}

// NotNaN checks that y is not NaN.
func NotNaN[T Real](function, name string, y T) error {
	return check.NotNaN(function, name, y)
}

// Positive checks y > 0.
func Positive[T Real](function, name string, y T) error {
	return check.Positive(function, name, y)
}

// PositiveFinite checks 0 < y < +Inf.
func PositiveFinite[T Real](function, name string, y T) error {
	return check.PositiveFinite(function, name, y)
}

// Nonnegative checks y >= 0.
func Nonnegative[T Real](function, name string, y T) error {
	return check.Nonnegative(function, name, y)
}

// Less checks y < high.
func Less[T, H Real](function, name string, y T, high H) error {
	return check.Less(function, name, y, high)
}

// LessOrEqual checks y <= high.
func LessOrEqual[T, H Real](function, name string, y T, high H) error {
	return check.LessOrEqual(function, name, y, high)
}

// Greater checks y > low.
func Greater[T, L Real](function, name string, y T, low L) error {
	return check.Greater(function, name, y, low)
}

// GreaterOrEqual checks y >= low.
func GreaterOrEqual[T, L Real](function, name string, y T, low L) error {
	return check.GreaterOrEqual(function, name, y, low)
}

// ConsistentSizes checks that every argument has the same length.
func ConsistentSizes(function string, sizes ...Size) error {
	return check.ConsistentSizes(function, sizes...)
}

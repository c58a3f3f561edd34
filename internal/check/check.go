// Package check validates function arguments before they enter a computation.
//
// Every check accepts plain float64 values as well as autodiff.Var handles and
// only reads forward values, so checking a Var never records a node.
// A failed check returns a *DomainError naming the function and argument.
package check

import (
	"fmt"
	"math"

	"github.com/born-ml/gradtape/internal/autodiff"
)

// Real is a scalar that can be validated.
type Real interface {
	float64 | autodiff.Var
}

func value[T Real](x T) float64 {
	switch v := any(x).(type) {
	case float64:
		return v
	case autodiff.Var:
		return v.Val()
	}
	panic("unreachable")
}

func fail(function, name string, index int, v float64, msg string) error {
	return &DomainError{Function: function, Argument: name, Index: index, Value: v, Msg: msg}
}

// Bounded checks low <= y <= high. Infinite bounds are allowed; a NaN in y,
// low or high fails.
func Bounded[T, L, H Real](function, name string, y T, low L, high H) error {
	return bounded(function, name, -1, value(y), value(low), value(high))
}

// BoundedSlice applies Bounded to every element of ys.
func BoundedSlice[T, L, H Real](function, name string, ys []T, low L, high H) error {
	lo, hi := value(low), value(high)
	for i, y := range ys {
		if err := bounded(function, name, i, value(y), lo, hi); err != nil {
			return err
		}
	}
	return nil
}

func bounded(function, name string, index int, y, low, high float64) error {
	if low <= y && y <= high {
		return nil
	}
	return fail(function, name, index, y, fmt.Sprintf("in the interval [%g, %g]", low, high))
}

// Finite checks that y is neither NaN nor infinite.
func Finite[T Real](function, name string, y T) error {
	return finite(function, name, -1, value(y))
}

// FiniteSlice applies Finite to every element of ys.
func FiniteSlice[T Real](function, name string, ys []T) error {
	for i, y := range ys {
		if err := finite(function, name, i, value(y)); err != nil {
			return err
		}
	}
	return nil
}

func finite(function, name string, index int, y float64) error {
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return fail(function, name, index, y, "finite")
	}
	return nil
}

// NotNaN checks that y is not NaN.
func NotNaN[T Real](function, name string, y T) error {
	if v := value(y); math.IsNaN(v) {
		return fail(function, name, -1, v, "not nan")
	}
	return nil
}

// Positive checks y > 0.
func Positive[T Real](function, name string, y T) error {
	if v := value(y); !(v > 0) {
		return fail(function, name, -1, v, "positive")
	}
	return nil
}

// PositiveFinite checks 0 < y < +Inf.
func PositiveFinite[T Real](function, name string, y T) error {
	if v := value(y); !(v > 0) || math.IsInf(v, 1) {
		return fail(function, name, -1, v, "positive finite")
	}
	return nil
}

// Nonnegative checks y >= 0.
func Nonnegative[T Real](function, name string, y T) error {
	if v := value(y); !(v >= 0) {
		return fail(function, name, -1, v, "nonnegative")
	}
	return nil
}

// Less checks y < high.
func Less[T, H Real](function, name string, y T, high H) error {
	v, h := value(y), value(high)
	if !(v < h) {
		return fail(function, name, -1, v, fmt.Sprintf("less than %g", h))
	}
	return nil
}

// LessOrEqual checks y <= high.
func LessOrEqual[T, H Real](function, name string, y T, high H) error {
	v, h := value(y), value(high)
	if !(v <= h) {
		return fail(function, name, -1, v, fmt.Sprintf("less than or equal to %g", h))
	}
	return nil
}

// Greater checks y > low.
func Greater[T, L Real](function, name string, y T, low L) error {
	v, l := value(y), value(low)
	if !(v > l) {
		return fail(function, name, -1, v, fmt.Sprintf("greater than %g", l))
	}
	return nil
}

// GreaterOrEqual checks y >= low.
func GreaterOrEqual[T, L Real](function, name string, y T, low L) error {
	v, l := value(y), value(low)
	if !(v >= l) {
		return fail(function, name, -1, v, fmt.Sprintf("greater than or equal to %g", l))
	}
	return nil
}

// Size names the length of one argument for ConsistentSizes.
type Size struct {
	Name string
	Len  int
}

// ConsistentSizes checks that every argument has the same length as the first.
func ConsistentSizes(function string, sizes ...Size) error {
	if len(sizes) == 0 {
		return nil
	}
	first := sizes[0]
	for _, s := range sizes[1:] {
		if s.Len != first.Len {
			return &SizeError{
				Function: function,
				Argument: s.Name,
				Len:      s.Len,
				Expected: first.Len,
				Against:  first.Name,
			}
		}
	}
	return nil
}

package autodiff_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/stretchr/testify/assert"
)

// numericalGradient computes the derivative of f at x by central differences.
// The step is scaled with |x| so large magnitudes keep enough precision.
func numericalGradient(f func(float64) float64, x float64) float64 {
	h := 1e-6 * math.Max(1, math.Abs(x))
	return (f(x+h) - f(x-h)) / (2 * h)
}

// forward evaluates a unary AD function on plain values.
func forward(f func(autodiff.Var) autodiff.Var) func(float64) float64 {
	return func(x float64) float64 {
		c := autodiff.New(autodiff.WithInitialNodes(4))
		return f(c.Var(x)).Val()
	}
}

// closeEnough compares with a tolerance relative to the larger magnitude.
func closeEnough(t *testing.T, want, got float64, msgAndArgs ...any) {
	t.Helper()
	tol := 1e-5 * math.Max(1, math.Max(math.Abs(want), math.Abs(got)))
	assert.InDelta(t, want, got, tol, msgAndArgs...)
}

type unaryCase struct {
	name   string
	f      func(autodiff.Var) autodiff.Var
	points []float64
}

func unaryCases() []unaryCase {
	return []unaryCase{
		{"neg", autodiff.Var.Neg, []float64{-2, 0, 3}},
		{"add_const", func(x autodiff.Var) autodiff.Var { return x.AddConst(2.5) }, []float64{-1, 0, 4}},
		{"sub_const", func(x autodiff.Var) autodiff.Var { return x.SubConst(2.5) }, []float64{-1, 0, 4}},
		{"mul_const", func(x autodiff.Var) autodiff.Var { return x.MulConst(-3) }, []float64{-1, 0, 4}},
		{"div_const", func(x autodiff.Var) autodiff.Var { return x.DivConst(8) }, []float64{-1, 0, 4}},
		{"const_sub", func(x autodiff.Var) autodiff.Var { return autodiff.ConstSub(1, x) }, []float64{-1, 0, 4}},
		{"const_div", func(x autodiff.Var) autodiff.Var { return autodiff.ConstDiv(3, x) }, []float64{-2, 0.5, 4}},
		{"sin", autodiff.Sin, []float64{-2, -0.5, 0, 0.5, 1.3, 1e3}},
		{"cos", autodiff.Cos, []float64{-2, -0.5, 0, 0.5, 1.3, 1e3}},
		{"tan", autodiff.Tan, []float64{-1.2, 0, 0.7}},
		{"asin", autodiff.Asin, []float64{-0.5, 0, 0.9}},
		{"acos", autodiff.Acos, []float64{-0.5, 0, 0.9}},
		{"atan", autodiff.Atan, []float64{-10, 0, 2}},
		{"sinh", autodiff.Sinh, []float64{-2, 0, 1.5}},
		{"cosh", autodiff.Cosh, []float64{-2, 0, 1.5}},
		{"tanh", autodiff.Tanh, []float64{-2, 0, 1.5}},
		{"asinh", autodiff.Asinh, []float64{-3, 0, 2}},
		{"acosh", autodiff.Acosh, []float64{1.5, 10}},
		{"atanh", autodiff.Atanh, []float64{-0.5, 0, 0.9}},
		{"exp", autodiff.Exp, []float64{-5, 0, 1, 700}},
		{"exp2", autodiff.Exp2, []float64{-3, 0, 2.5}},
		{"expm1", autodiff.Expm1, []float64{-1, 0, 2}},
		{"log", autodiff.Log, []float64{1e-3, 0.5, 1, 10, 1e300}},
		{"log2", autodiff.Log2, []float64{0.5, 3}},
		{"log10", autodiff.Log10, []float64{0.5, 3}},
		{"log1p", autodiff.Log1p, []float64{-0.5, 0, 3}},
		{"sqrt", autodiff.Sqrt, []float64{0.01, 1, 4, 1e300}},
		{"cbrt", autodiff.Cbrt, []float64{-8, 0.5, 27}},
		{"square", autodiff.Square, []float64{-3, 0, 2, 1e150}},
		{"inv", autodiff.Inv, []float64{-2, 0.5, 4}},
		{"inv_sqrt", autodiff.InvSqrt, []float64{0.25, 4}},
		{"pow_const", func(x autodiff.Var) autodiff.Var { return autodiff.PowConst(x, 2.5) }, []float64{0.5, 3}},
		{"const_pow", func(x autodiff.Var) autodiff.Var { return autodiff.ConstPow(3, x) }, []float64{-1, 0, 2}},
		{"abs", autodiff.Abs, []float64{-3, 2}},
		{"floor", autodiff.Floor, []float64{-1.5, 0.3, 2.7}},
		{"ceil", autodiff.Ceil, []float64{-1.5, 0.3, 2.7}},
		{"round", autodiff.Round, []float64{-1.3, 0.3, 2.7}},
		{"trunc", autodiff.Trunc, []float64{-1.5, 0.3, 2.7}},
		{"erf", autodiff.Erf, []float64{-2, 0, 1.5}},
		{"erfc", autodiff.Erfc, []float64{-2, 0, 1.5}},
		{"phi", autodiff.Phi, []float64{-2, 0, 1.5}},
		{"lgamma", autodiff.Lgamma, []float64{-0.5, 0.5, 1, 3.5, 10}},
		{"gamma", autodiff.Gamma, []float64{0.5, 2.5, 5}},
		{"inv_logit", autodiff.InvLogit, []float64{-30, -1, 0, 2, 30}},
		{"logit", autodiff.Logit, []float64{0.1, 0.5, 0.9}},
		{"log1p_exp", autodiff.Log1pExp, []float64{-40, -1, 0, 3, 40}},
	}
}

// TestNumericalGradient_Unary compares every unary partial with central differences.
func TestNumericalGradient_Unary(t *testing.T) {
	for _, tc := range unaryCases() {
		for _, x0 := range tc.points {
			t.Run(fmt.Sprintf("%s(%g)", tc.name, x0), func(t *testing.T) {
				c := autodiff.New()
				x := c.Var(x0)
				y := tc.f(x)
				c.Grad(y)

				want := numericalGradient(forward(tc.f), x0)
				closeEnough(t, want, x.Adj(), "autodiff vs finite difference")
			})
		}
	}
}

type binaryCase struct {
	name   string
	f      func(a, b autodiff.Var) autodiff.Var
	points [][2]float64
}

func binaryCases() []binaryCase {
	return []binaryCase{
		{"add", autodiff.Var.Add, [][2]float64{{1, 2}, {-3, 0}}},
		{"sub", autodiff.Var.Sub, [][2]float64{{1, 2}, {-3, 0}}},
		{"mul", autodiff.Var.Mul, [][2]float64{{1.5, 2}, {-3, 0}, {1e150, 1e-150}}},
		{"div", autodiff.Var.Div, [][2]float64{{1.5, 2}, {-3, 0.25}, {0, 4}}},
		{"pow", autodiff.Pow, [][2]float64{{2, 3}, {0.5, -1.5}, {3, 0.5}}},
		{"atan2", autodiff.Atan2, [][2]float64{{1, 2}, {-1, -0.5}, {0, 3}}},
		{"hypot", autodiff.Hypot, [][2]float64{{3, 4}, {-1, 0.5}}},
		{"fmax", autodiff.Fmax, [][2]float64{{3, 4}, {5, -1}}},
		{"fmin", autodiff.Fmin, [][2]float64{{3, 4}, {5, -1}}},
		{"fdim", autodiff.Fdim, [][2]float64{{3, 4}, {5, -1}}},
		{"fmod", autodiff.Fmod, [][2]float64{{5.5, 2}, {-7.3, 2.1}}},
		{"log_sum_exp", autodiff.LogSumExp2, [][2]float64{{0, 0}, {-2, 3}, {1000, 999}}},
	}
}

// TestNumericalGradient_Binary compares both partials of every binary operation.
func TestNumericalGradient_Binary(t *testing.T) {
	for _, tc := range binaryCases() {
		for _, p := range tc.points {
			t.Run(fmt.Sprintf("%s(%g,%g)", tc.name, p[0], p[1]), func(t *testing.T) {
				c := autodiff.New()
				a, b := c.Var(p[0]), c.Var(p[1])
				c.Grad(tc.f(a, b))

				fa := forward(func(x autodiff.Var) autodiff.Var { return tc.f(x, x.Context().Var(p[1])) })
				fb := forward(func(x autodiff.Var) autodiff.Var { return tc.f(x.Context().Var(p[0]), x) })

				closeEnough(t, numericalGradient(fa, p[0]), a.Adj(), "d/da")
				closeEnough(t, numericalGradient(fb, p[1]), b.Adj(), "d/db")
			})
		}
	}
}

func TestNumericalGradient_Fma(t *testing.T) {
	c := autodiff.New()
	x, y, z := c.Var(1.5), c.Var(-2), c.Var(0.25)

	r := autodiff.Fma(x, y, z)
	c.Grad(r)

	assert.Equal(t, 1.5*-2+0.25, r.Val())
	assert.Equal(t, []float64{-2, 1.5, 1}, autodiff.Adjoints([]autodiff.Var{x, y, z}))
	assert.Equal(t, autodiff.KindNary, r.Kind())
}

// TestNumericalGradient_Composite tests f(x) = x³ - 2x² + x at x = 2.
func TestNumericalGradient_Composite(t *testing.T) {
	f := func(x autodiff.Var) autodiff.Var {
		x2 := x.Mul(x)
		return x2.Mul(x).Sub(x2.MulConst(2)).Add(x)
	}

	c := autodiff.New()
	x := c.Var(2)
	c.Grad(f(x))

	// df/dx = 3x² - 4x + 1 = 5
	assert.InDelta(t, 5.0, x.Adj(), 1e-12)
	closeEnough(t, numericalGradient(forward(f), 2), x.Adj())
}

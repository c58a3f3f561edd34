package selfcheck

import (
	"sort"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/born-ml/gradtape/internal/gradient"
)

// Op is one operation checked against finite differences.
type Op struct {
	Name   string
	Arity  int // Inputs per point; 0 means any length
	Func   gradient.Func
	Points [][]float64
}

func unary(name string, f func(autodiff.Var) autodiff.Var, xs ...float64) Op {
	points := make([][]float64, len(xs))
	for i, x := range xs {
		points[i] = []float64{x}
	}
	return Op{
		Name:   name,
		Arity:  1,
		Func:   func(_ *autodiff.Context, v []autodiff.Var) autodiff.Var { return f(v[0]) },
		Points: points,
	}
}

func binary(name string, f func(a, b autodiff.Var) autodiff.Var, points ...[]float64) Op {
	return Op{
		Name:   name,
		Arity:  2,
		Func:   func(_ *autodiff.Context, v []autodiff.Var) autodiff.Var { return f(v[0], v[1]) },
		Points: points,
	}
}

func vector(name string, f func(c *autodiff.Context, xs []autodiff.Var) autodiff.Var) Op {
	return Op{
		Name:   name,
		Func:   f,
		Points: [][]float64{{0.5}, {-1, 2}, {0.3, -0.7, 1.1, 2.4}},
	}
}

// Grid points avoid the kinks of piecewise functions, where central
// differences disagree with the one-sided policy.
var registry = []Op{
	unary("neg", autodiff.Var.Neg, -2, 0, 3),
	unary("sin", autodiff.Sin, -2, 0, 0.5, 1e3),
	unary("cos", autodiff.Cos, -2, 0, 0.5, 1e3),
	unary("tan", autodiff.Tan, -1.2, 0, 0.7),
	unary("asin", autodiff.Asin, -0.5, 0, 0.9),
	unary("acos", autodiff.Acos, -0.5, 0, 0.9),
	unary("atan", autodiff.Atan, -10, 0, 2),
	unary("sinh", autodiff.Sinh, -2, 0, 1.5),
	unary("cosh", autodiff.Cosh, -2, 0, 1.5),
	unary("tanh", autodiff.Tanh, -2, 0, 1.5),
	unary("asinh", autodiff.Asinh, -3, 0, 2),
	unary("acosh", autodiff.Acosh, 1.5, 10),
	unary("atanh", autodiff.Atanh, -0.5, 0, 0.9),
	unary("exp", autodiff.Exp, -5, 0, 1, 700),
	unary("exp2", autodiff.Exp2, -3, 0, 2.5),
	unary("expm1", autodiff.Expm1, -1, 0, 2),
	unary("log", autodiff.Log, 1e-3, 0.5, 10, 1e300),
	unary("log2", autodiff.Log2, 0.5, 3),
	unary("log10", autodiff.Log10, 0.5, 3),
	unary("log1p", autodiff.Log1p, -0.5, 0, 3),
	unary("sqrt", autodiff.Sqrt, 0.01, 4, 1e300),
	unary("cbrt", autodiff.Cbrt, -8, 0.5, 27),
	unary("square", autodiff.Square, -3, 0, 2, 1e150),
	unary("inv", autodiff.Inv, -2, 0.5, 4),
	unary("inv_sqrt", autodiff.InvSqrt, 0.25, 4),
	unary("abs", autodiff.Abs, -3, 2),
	unary("floor", autodiff.Floor, -1.5, 0.3, 2.7),
	unary("ceil", autodiff.Ceil, -1.5, 0.3, 2.7),
	unary("round", autodiff.Round, -1.3, 0.3, 2.7),
	unary("trunc", autodiff.Trunc, -1.5, 0.3, 2.7),
	unary("erf", autodiff.Erf, -2, 0, 1.5),
	unary("erfc", autodiff.Erfc, -2, 0, 1.5),
	unary("phi", autodiff.Phi, -2, 0, 1.5),
	unary("lgamma", autodiff.Lgamma, -0.5, 0.5, 3.5, 10),
	unary("gamma", autodiff.Gamma, 0.5, 2.5, 5),
	unary("inv_logit", autodiff.InvLogit, -30, 0, 2, 30),
	unary("logit", autodiff.Logit, 0.1, 0.5, 0.9),
	unary("log1p_exp", autodiff.Log1pExp, -40, 0, 3, 40),

	binary("add", autodiff.Var.Add, []float64{1, 2}, []float64{-3, 0}),
	binary("sub", autodiff.Var.Sub, []float64{1, 2}, []float64{-3, 0}),
	binary("mul", autodiff.Var.Mul, []float64{1.5, 2}, []float64{-3, 0}),
	binary("div", autodiff.Var.Div, []float64{1.5, 2}, []float64{0, 4}),
	binary("pow", autodiff.Pow, []float64{2, 3}, []float64{0.5, -1.5}),
	binary("atan2", autodiff.Atan2, []float64{1, 2}, []float64{-1, -0.5}),
	binary("hypot", autodiff.Hypot, []float64{3, 4}, []float64{-1, 0.5}),
	binary("fmax", autodiff.Fmax, []float64{3, 4}, []float64{5, -1}),
	binary("fmin", autodiff.Fmin, []float64{3, 4}, []float64{5, -1}),
	binary("fdim", autodiff.Fdim, []float64{3, 4}, []float64{5, -1}),
	binary("fmod", autodiff.Fmod, []float64{5.5, 2}, []float64{-7.3, 2.1}),
	binary("log_sum_exp2", autodiff.LogSumExp2, []float64{0, 0}, []float64{1000, 999}),

	vector("sum", (*autodiff.Context).Sum),
	vector("mean", (*autodiff.Context).Mean),
	vector("squared_norm", (*autodiff.Context).SquaredNorm),
	vector("norm", (*autodiff.Context).Norm),
	vector("log_sum_exp", (*autodiff.Context).LogSumExp),
	vector("dot", func(c *autodiff.Context, xs []autodiff.Var) autodiff.Var { return c.Dot(xs, xs) }),
	{
		Name:   "variance",
		Func:   (*autodiff.Context).Variance,
		Points: [][]float64{{-1, 2}, {0.3, -0.7, 1.1, 2.4}},
	},
}

// Lookup returns the registered operation with the given name.
func Lookup(name string) (Op, bool) {
	for _, op := range registry {
		if op.Name == name {
			return op, true
		}
	}
	return Op{}, false
}

// Names returns every registered operation name, sorted.
func Names() []string {
	names := make([]string, len(registry))
	for i, op := range registry {
		names[i] = op.Name
	}
	sort.Strings(names)
	return names
}

package autodiff

import "math"

const (
	twoOverSqrtPi = 2 / math.SqrtPi
	invSqrtTwoPi  = 1 / (math.Sqrt2 * math.SqrtPi)
	negInvSqrtTwo = -1 / math.Sqrt2
	ln2           = math.Ln2
	ln10          = math.Ln10
)

// Trigonometric functions.

// Sin returns sin(x). Partial: cos(x).
func Sin(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Sin(v), math.Cos(v))
}

// Cos returns cos(x). Partial: -sin(x).
func Cos(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Cos(v), -math.Sin(v))
}

// Tan returns tan(x). Partial: 1 + tan²(x).
func Tan(x Var) Var {
	y := math.Tan(x.Val())
	return x.ctx().unary(x, y, 1+y*y)
}

// Asin returns asin(x). Partial: 1/√(1-x²).
func Asin(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Asin(v), 1/math.Sqrt(1-v*v))
}

// Acos returns acos(x). Partial: -1/√(1-x²).
func Acos(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Acos(v), -1/math.Sqrt(1-v*v))
}

// Atan returns atan(x). Partial: 1/(1+x²).
func Atan(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Atan(v), 1/(1+v*v))
}

// Atan2 returns atan2(y, x).
//
// Partials: d/dy = x/(x²+y²), d/dx = -y/(x²+y²).
func Atan2(y, x Var) Var {
	a, b := y.Val(), x.Val()
	r := a*a + b*b
	return y.ctx().binary(y, x, math.Atan2(a, b), b/r, -a/r)
}

// Hyperbolic functions.

// Sinh returns sinh(x). Partial: cosh(x).
func Sinh(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Sinh(v), math.Cosh(v))
}

// Cosh returns cosh(x). Partial: sinh(x).
func Cosh(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Cosh(v), math.Sinh(v))
}

// Tanh returns tanh(x). Partial: 1 - tanh²(x).
func Tanh(x Var) Var {
	y := math.Tanh(x.Val())
	return x.ctx().unary(x, y, 1-y*y)
}

// Asinh returns asinh(x). Partial: 1/√(x²+1).
func Asinh(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Asinh(v), 1/math.Sqrt(v*v+1))
}

// Acosh returns acosh(x). Partial: 1/√(x²-1).
func Acosh(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Acosh(v), 1/math.Sqrt(v*v-1))
}

// Atanh returns atanh(x). Partial: 1/(1-x²).
func Atanh(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Atanh(v), 1/(1-v*v))
}

// Exponentials and logarithms.

// Exp returns eˣ.
func Exp(x Var) Var {
	y := math.Exp(x.Val())
	return x.ctx().unary(x, y, y)
}

// Exp2 returns 2ˣ.
func Exp2(x Var) Var {
	y := math.Exp2(x.Val())
	return x.ctx().unary(x, y, y*ln2)
}

// Expm1 returns eˣ - 1, accurate near zero.
func Expm1(x Var) Var {
	y := math.Expm1(x.Val())
	return x.ctx().unary(x, y, y+1)
}

// Log returns ln(x).
func Log(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Log(v), 1/v)
}

// Log2 returns log₂(x).
func Log2(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Log2(v), 1/(v*ln2))
}

// Log10 returns log₁₀(x).
func Log10(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Log10(v), 1/(v*ln10))
}

// Log1p returns ln(1+x), accurate near zero.
func Log1p(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Log1p(v), 1/(1+v))
}

// Powers and roots.

// Sqrt returns √x. Partial: 1/(2√x).
func Sqrt(x Var) Var {
	y := math.Sqrt(x.Val())
	return x.ctx().unary(x, y, 0.5/y)
}

// Cbrt returns ∛x. Partial: 1/(3∛x²).
func Cbrt(x Var) Var {
	y := math.Cbrt(x.Val())
	return x.ctx().unary(x, y, 1/(3*y*y))
}

// Square returns x².
func Square(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, v*v, 2*v)
}

// Inv returns 1/x.
func Inv(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, 1/v, -1/(v*v))
}

// InvSqrt returns 1/√x. Partial: -1/(2x√x).
func InvSqrt(x Var) Var {
	v := x.Val()
	y := 1 / math.Sqrt(v)
	return x.ctx().unary(x, y, -0.5*y/v)
}

// Pow returns xʸ.
//
// Partials: d/dx = y·xʸ⁻¹, d/dy = xʸ·ln(x). When x == 0 the partial with
// respect to y is taken as 0; when y == 0 the partial with respect to x is 0.
func Pow(x, y Var) Var {
	a, b := x.Val(), y.Val()
	val := math.Pow(a, b)
	da := 0.0
	if b != 0 {
		da = b * math.Pow(a, b-1)
	}
	db := 0.0
	if a != 0 {
		db = val * math.Log(a)
	}
	return x.ctx().binary(x, y, val, da, db)
}

// PowConst returns xᵏ.
func PowConst(x Var, k float64) Var {
	v := x.Val()
	da := 0.0
	if k != 0 {
		da = k * math.Pow(v, k-1)
	}
	return x.ctx().unary(x, math.Pow(v, k), da)
}

// ConstPow returns kˣ. When k == 0 the partial is taken as 0.
func ConstPow(k float64, x Var) Var {
	y := math.Pow(k, x.Val())
	da := 0.0
	if k != 0 {
		da = y * math.Log(k)
	}
	return x.ctx().unary(x, y, da)
}

// Hypot returns √(x²+y²) without undue overflow.
func Hypot(x, y Var) Var {
	a, b := x.Val(), y.Val()
	h := math.Hypot(a, b)
	return x.ctx().binary(x, y, h, a/h, b/h)
}

// Fma returns x*y + z as a single node.
func Fma(x, y, z Var) Var {
	c := x.ctx()
	a, b := x.Val(), y.Val()
	partials := c.partials.Alloc(3)
	partials[0], partials[1], partials[2] = b, a, 1
	return c.nary([]Var{x, y, z}, math.FMA(a, b, z.Val()), partials)
}

// Piecewise functions. Non-differentiable points follow fixed conventions
// documented on each function.

// Abs returns |x|. At x == 0 the right derivative (+1) is used.
func Abs(x Var) Var {
	v := x.Val()
	d := 1.0
	if v < 0 {
		d = -1
	}
	return x.ctx().unary(x, math.Abs(v), d)
}

// Floor returns ⌊x⌋. Partial: 0.
func Floor(x Var) Var {
	return x.ctx().unary(x, math.Floor(x.Val()), 0)
}

// Ceil returns ⌈x⌉. Partial: 0.
func Ceil(x Var) Var {
	return x.ctx().unary(x, math.Ceil(x.Val()), 0)
}

// Round returns x rounded half away from zero. Partial: 0.
func Round(x Var) Var {
	return x.ctx().unary(x, math.Round(x.Val()), 0)
}

// Trunc returns the integer part of x. Partial: 0.
func Trunc(x Var) Var {
	return x.ctx().unary(x, math.Trunc(x.Val()), 0)
}

// Fmax returns the larger of x and y.
//
// A NaN operand is ignored in favour of the other one. If both are NaN the
// result is NaN with NaN partials. Ties select y.
func Fmax(x, y Var) Var {
	c := x.ctx()
	c.same(y)
	a, b := x.Val(), y.Val()
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return c.binary(x, y, nan, nan, nan)
	case math.IsNaN(a):
		return c.unary(y, b, 1)
	case math.IsNaN(b), a > b:
		return c.unary(x, a, 1)
	default:
		return c.unary(y, b, 1)
	}
}

// Fmin returns the smaller of x and y with the same NaN and tie rules as Fmax.
func Fmin(x, y Var) Var {
	c := x.ctx()
	c.same(y)
	a, b := x.Val(), y.Val()
	switch {
	case math.IsNaN(a) && math.IsNaN(b):
		return c.binary(x, y, nan, nan, nan)
	case math.IsNaN(a):
		return c.unary(y, b, 1)
	case math.IsNaN(b), a < b:
		return c.unary(x, a, 1)
	default:
		return c.unary(y, b, 1)
	}
}

// Fdim returns x - y when x > y and 0 otherwise.
func Fdim(x, y Var) Var {
	a, b := x.Val(), y.Val()
	if a > b {
		return x.ctx().binary(x, y, a-b, 1, -1)
	}
	val := 0.0
	if math.IsNaN(a) || math.IsNaN(b) {
		val = nan
	}
	return x.ctx().binary(x, y, val, 0, 0)
}

// Fmod returns the floating-point remainder of x/y.
//
// Partials: d/dx = 1, d/dy = -trunc(x/y).
func Fmod(x, y Var) Var {
	a, b := x.Val(), y.Val()
	return x.ctx().binary(x, y, math.Mod(a, b), 1, -math.Trunc(a/b))
}

// Special functions.

// Erf returns the error function of x.
func Erf(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Erf(v), twoOverSqrtPi*math.Exp(-v*v))
}

// Erfc returns the complementary error function of x.
func Erfc(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Erfc(v), -twoOverSqrtPi*math.Exp(-v*v))
}

// Phi returns the standard normal cumulative distribution function.
func Phi(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, 0.5*math.Erfc(negInvSqrtTwo*v), invSqrtTwoPi*math.Exp(-0.5*v*v))
}

// Lgamma returns ln|Γ(x)|. Partial: ψ(x).
func Lgamma(x Var) Var {
	v := x.Val()
	y, _ := math.Lgamma(v)
	return x.ctx().unary(x, y, Digamma(v))
}

// Gamma returns Γ(x). Partial: Γ(x)·ψ(x).
func Gamma(x Var) Var {
	v := x.Val()
	y := math.Gamma(v)
	return x.ctx().unary(x, y, y*Digamma(v))
}

// InvLogit returns the logistic sigmoid 1/(1+e⁻ˣ).
func InvLogit(x Var) Var {
	y := invLogit(x.Val())
	return x.ctx().unary(x, y, y*(1-y))
}

// Logit returns ln(x/(1-x)).
func Logit(x Var) Var {
	v := x.Val()
	return x.ctx().unary(x, math.Log(v)-math.Log1p(-v), 1/(v-v*v))
}

// Log1pExp returns ln(1+eˣ) without overflow. Partial: the logistic sigmoid.
func Log1pExp(x Var) Var {
	v := x.Val()
	var y float64
	if v > 0 {
		y = v + math.Log1p(math.Exp(-v))
	} else {
		y = math.Log1p(math.Exp(v))
	}
	return x.ctx().unary(x, y, invLogit(v))
}

// LogSumExp2 returns ln(eˣ + eʸ) without overflow.
func LogSumExp2(x, y Var) Var {
	a, b := x.Val(), y.Val()
	val := logSumExp(a, b)
	if math.IsInf(val, 1) {
		w := infWeight(a) + infWeight(b)
		return x.ctx().binary(x, y, val, infWeight(a)/w, infWeight(b)/w)
	}
	return x.ctx().binary(x, y, val, math.Exp(a-val), math.Exp(b-val))
}

// infWeight is 1 for +Inf and 0 otherwise. An infinite log-sum-exp splits
// its gradient evenly between the +Inf operands.
func infWeight(v float64) float64 {
	if math.IsInf(v, 1) {
		return 1
	}
	return 0
}

func invLogit(v float64) float64 {
	if v >= 0 {
		return 1 / (1 + math.Exp(-v))
	}
	e := math.Exp(v)
	return e / (1 + e)
}

func logSumExp(a, b float64) float64 {
	if math.IsNaN(a) || math.IsNaN(b) {
		return nan
	}
	m := math.Max(a, b)
	if math.IsInf(m, 0) {
		return m
	}
	return m + math.Log(math.Exp(a-m)+math.Exp(b-m))
}

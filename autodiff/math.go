// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package autodiff

import "github.com/born-ml/gradtape/internal/autodiff"

// Sin returns sin(x).
func Sin(x Var) Var {
	return autodiff.Sin(x)
}

// Cos returns cos(x).
func Cos(x Var) Var {
	return autodiff.Cos(x)
}

// Tan returns tan(x).
func Tan(x Var) Var {
	return autodiff.Tan(x)
}

// Asin returns asin(x).
func Asin(x Var) Var {
	return autodiff.Asin(x)
}

// Acos returns acos(x).
func Acos(x Var) Var {
	return autodiff.Acos(x)
}

// Atan returns atan(x).
func Atan(x Var) Var {
	return autodiff.Atan(x)
}

// Sinh returns sinh(x).
func Sinh(x Var) Var {
	return autodiff.Sinh(x)
}

// Cosh returns cosh(x).
func Cosh(x Var) Var {
	return autodiff.Cosh(x)
}

// Tanh returns tanh(x).
func Tanh(x Var) Var {
	return autodiff.Tanh(x)
}

// Asinh returns asinh(x).
func Asinh(x Var) Var {
	return autodiff.Asinh(x)
}

// Acosh returns acosh(x).
func Acosh(x Var) Var {
	return autodiff.Acosh(x)
}

// Atanh returns atanh(x).
func Atanh(x Var) Var {
	return autodiff.Atanh(x)
}

// Exp returns eˣ.
func Exp(x Var) Var {
	return autodiff.Exp(x)
}

// Exp2 returns 2ˣ.
func Exp2(x Var) Var {
	return autodiff.Exp2(x)
}

// Expm1 returns eˣ - 1.
func Expm1(x Var) Var {
	return autodiff.Expm1(x)
}

// Log returns ln(x).
func Log(x Var) Var {
	return autodiff.Log(x)
}

// Log2 returns log₂(x).
func Log2(x Var) Var {
	return autodiff.Log2(x)
}

// Log10 returns log₁₀(x).
func Log10(x Var) Var {
	return autodiff.Log10(x)
}

// Log1p returns ln(1+x).
func Log1p(x Var) Var {
	return autodiff.Log1p(x)
}

// Sqrt returns √x.
func Sqrt(x Var) Var {
	return autodiff.Sqrt(x)
}

// Cbrt returns ∛x.
func Cbrt(x Var) Var {
	return autodiff.Cbrt(x)
}

// Square returns x².
func Square(x Var) Var {
	return autodiff.Square(x)
}

// Inv returns 1/x.
func Inv(x Var) Var {
	return autodiff.Inv(x)
}

// InvSqrt returns 1/√x.
func InvSqrt(x Var) Var {
	return autodiff.InvSqrt(x)
}

// Abs returns |x|, using +1 as the derivative at 0.
func Abs(x Var) Var {
	return autodiff.Abs(x)
}

// Floor returns ⌊x⌋.
func Floor(x Var) Var {
	return autodiff.Floor(x)
}

// Ceil returns ⌈x⌉.
func Ceil(x Var) Var {
	return autodiff.Ceil(x)
}

// Round returns x rounded half away from zero.
func Round(x Var) Var {
	return autodiff.Round(x)
}

// Trunc returns the integer part of x.
func Trunc(x Var) Var {
	return autodiff.Trunc(x)
}

// Erf returns the error function of x.
func Erf(x Var) Var {
	return autodiff.Erf(x)
}

// Erfc returns the complementary error function of x.
func Erfc(x Var) Var {
	return autodiff.Erfc(x)
}

// Phi returns the standard normal CDF at x.
func Phi(x Var) Var {
	return autodiff.Phi(x)
}

// Lgamma returns ln|Γ(x)|.
func Lgamma(x Var) Var {
	return autodiff.Lgamma(x)
}

// Gamma returns Γ(x).
func Gamma(x Var) Var {
	return autodiff.Gamma(x)
}

// InvLogit returns 1/(1+e⁻ˣ).
func InvLogit(x Var) Var {
	return autodiff.InvLogit(x)
}

// Logit returns ln(x/(1-x)).
func Logit(x Var) Var {
	return autodiff.Logit(x)
}

// Log1pExp returns ln(1+eˣ).
func Log1pExp(x Var) Var {
	return autodiff.Log1pExp(x)
}

// Atan2 returns atan2(y, x).
func Atan2(y, x Var) Var {
	return autodiff.Atan2(y, x)
}

// Pow returns xʸ.
func Pow(x, y Var) Var {
	return autodiff.Pow(x, y)
}

// Hypot returns √(x²+y²).
func Hypot(x, y Var) Var {
	return autodiff.Hypot(x, y)
}

// Fmax returns the larger of x and y; ties select y and a NaN operand is ignored.
func Fmax(x, y Var) Var {
	return autodiff.Fmax(x, y)
}

// Fmin returns the smaller of x and y; ties select y and a NaN operand is ignored.
func Fmin(x, y Var) Var {
	return autodiff.Fmin(x, y)
}

// Fdim returns max(x-y, 0).
func Fdim(x, y Var) Var {
	return autodiff.Fdim(x, y)
}

// Fmod returns the remainder of x/y.
func Fmod(x, y Var) Var {
	return autodiff.Fmod(x, y)
}

// LogSumExp2 returns ln(eˣ + eʸ).
func LogSumExp2(x, y Var) Var {
	return autodiff.LogSumExp2(x, y)
}

// PowConst returns xᵏ for a constant exponent.
func PowConst(x Var, k float64) Var {
	return autodiff.PowConst(x, k)
}

// ConstPow returns kˣ for a constant base.
func ConstPow(k float64, x Var) Var {
	return autodiff.ConstPow(k, x)
}

// Fma returns x*y + z as a single node.
func Fma(x, y, z Var) Var {
	return autodiff.Fma(x, y, z)
}

// ConstAdd returns k + v.
func ConstAdd(k float64, v Var) Var {
	return autodiff.ConstAdd(k, v)
}

// ConstSub returns k - v.
func ConstSub(k float64, v Var) Var {
	return autodiff.ConstSub(k, v)
}

// ConstMul returns k * v.
func ConstMul(k float64, v Var) Var {
	return autodiff.ConstMul(k, v)
}

// ConstDiv returns k / v.
func ConstDiv(k float64, v Var) Var {
	return autodiff.ConstDiv(k, v)
}

// Digamma returns ψ(x), the derivative of ln Γ(x).
func Digamma(x float64) float64 {
	return autodiff.Digamma(x)
}

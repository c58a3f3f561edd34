package autodiff

import "math"

// Digamma returns ψ(x), the logarithmic derivative of the gamma function.
//
// Poles at non-positive integers return NaN. Negative arguments use the
// reflection formula; small positive arguments are shifted up with the
// recurrence ψ(x) = ψ(x+1) - 1/x before the asymptotic series is applied.
func Digamma(x float64) float64 {
	switch {
	case math.IsNaN(x), math.IsInf(x, -1):
		return math.NaN()
	case math.IsInf(x, 1):
		return x
	case x <= 0 && x == math.Floor(x):
		return math.NaN()
	case x < 0:
		return Digamma(1-x) - math.Pi/math.Tan(math.Pi*x)
	}

	result := 0.0
	for x < 10 {
		result -= 1 / x
		x++
	}
	f := 1 / (x * x)
	series := f * (-1.0/12 + f*(1.0/120+f*(-1.0/252+f*(1.0/240+f*(-1.0/132)))))
	return result + math.Log(x) - 0.5/x + series
}

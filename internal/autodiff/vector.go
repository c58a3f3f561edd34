package autodiff

import "math"

// Vector functions record a single n-ary node whose operand count equals the
// input length, instead of a chain of binary nodes.

// Sum returns Σ xs. An empty input yields a leaf holding 0.
func (c *Context) Sum(xs []Var) Var {
	if len(xs) == 0 {
		return c.Var(0)
	}
	total := 0.0
	for _, x := range xs {
		total += x.Val()
	}
	return c.sum(xs, total)
}

// Mean returns the arithmetic mean of xs. Panics on an empty input.
func (c *Context) Mean(xs []Var) Var {
	if len(xs) == 0 {
		panic(ErrEmpty)
	}
	n := float64(len(xs))
	total := 0.0
	partials := c.partials.Alloc(len(xs))
	for i, x := range xs {
		total += x.Val()
		partials[i] = 1 / n
	}
	return c.nary(xs, total/n, partials)
}

// Variance returns the unbiased sample variance of xs.
// An empty input yields a leaf holding NaN. A single element records a node
// whose value and partial are NaN.
func (c *Context) Variance(xs []Var) Var {
	switch len(xs) {
	case 0:
		return c.Var(nan)
	case 1:
		partials := c.partials.Alloc(1)
		fillNaN(partials)
		return c.nary(xs, nan, partials)
	}
	n := float64(len(xs))
	mean := 0.0
	for _, x := range xs {
		mean += x.Val()
	}
	mean /= n

	ss := 0.0
	partials := c.partials.Alloc(len(xs))
	for i, x := range xs {
		d := x.Val() - mean
		ss += d * d
		partials[i] = 2 * d / (n - 1)
	}
	return c.nary(xs, ss/(n-1), partials)
}

// Dot returns Σ xs[i]*ys[i]. Both slices must have the same length.
func (c *Context) Dot(xs, ys []Var) Var {
	if len(xs) != len(ys) {
		panic(ErrLengthMismatch)
	}
	if len(xs) == 0 {
		return c.Var(0)
	}
	operands := make([]Var, 0, 2*len(xs))
	operands = append(operands, xs...)
	operands = append(operands, ys...)

	total := 0.0
	partials := c.partials.Alloc(2 * len(xs))
	for i := range xs {
		a, b := xs[i].Val(), ys[i].Val()
		total += a * b
		partials[i] = b
		partials[len(xs)+i] = a
	}
	return c.nary(operands, total, partials)
}

// DotConst returns Σ xs[i]*w[i] for constant weights w.
func (c *Context) DotConst(xs []Var, w []float64) Var {
	if len(xs) != len(w) {
		panic(ErrLengthMismatch)
	}
	if len(xs) == 0 {
		return c.Var(0)
	}
	total := 0.0
	partials := c.partials.Alloc(len(xs))
	for i, x := range xs {
		total += x.Val() * w[i]
		partials[i] = w[i]
	}
	return c.nary(xs, total, partials)
}

// SquaredNorm returns Σ xs[i]².
func (c *Context) SquaredNorm(xs []Var) Var {
	if len(xs) == 0 {
		return c.Var(0)
	}
	total := 0.0
	partials := c.partials.Alloc(len(xs))
	for i, x := range xs {
		v := x.Val()
		total += v * v
		partials[i] = 2 * v
	}
	return c.nary(xs, total, partials)
}

// Norm returns the Euclidean norm of xs. At the origin the partials are 0.
func (c *Context) Norm(xs []Var) Var {
	if len(xs) == 0 {
		return c.Var(0)
	}
	total := 0.0
	for _, x := range xs {
		v := x.Val()
		total += v * v
	}
	norm := math.Sqrt(total)

	partials := c.partials.Alloc(len(xs))
	if norm != 0 {
		for i, x := range xs {
			partials[i] = x.Val() / norm
		}
	}
	return c.nary(xs, norm, partials)
}

// LogSumExp returns ln Σ exp(xs[i]) without overflow. An empty input yields
// a leaf holding -Inf. With +Inf operands the result is +Inf and the gradient
// is split evenly between them.
func (c *Context) LogSumExp(xs []Var) Var {
	if len(xs) == 0 {
		return c.Var(math.Inf(-1))
	}
	m, infs := math.Inf(-1), 0.0
	for _, x := range xs {
		v := x.Val()
		if math.IsNaN(v) || math.IsNaN(m) {
			m = nan
			continue
		}
		m = math.Max(m, v)
		infs += infWeight(v)
	}

	partials := c.partials.Alloc(len(xs))
	if math.IsInf(m, 1) {
		for i, x := range xs {
			partials[i] = infWeight(x.Val()) / infs
		}
		return c.nary(xs, m, partials)
	}

	var val float64
	if math.IsInf(m, -1) || math.IsNaN(m) {
		val = m
	} else {
		total := 0.0
		for _, x := range xs {
			total += math.Exp(x.Val() - m)
		}
		val = m + math.Log(total)
	}

	for i, x := range xs {
		partials[i] = math.Exp(x.Val() - val)
	}
	return c.nary(xs, val, partials)
}

// Map applies f to every element, returning one result per input.
func Map(xs []Var, f func(Var) Var) []Var {
	out := make([]Var, len(xs))
	for i, x := range xs {
		out[i] = f(x)
	}
	return out
}

package autodiff

// Arithmetic on Vars. Each operation records exactly one node; mixed
// Var/constant forms record a unary node because constants carry no adjoint.

// Add returns v + w.
//
// Partials: d/dv = 1, d/dw = 1.
func (v Var) Add(w Var) Var {
	return v.ctx().binary(v, w, v.Val()+w.Val(), 1, 1)
}

// Sub returns v - w.
//
// Partials: d/dv = 1, d/dw = -1.
func (v Var) Sub(w Var) Var {
	return v.ctx().binary(v, w, v.Val()-w.Val(), 1, -1)
}

// Mul returns v * w.
//
// Partials: d/dv = w, d/dw = v.
func (v Var) Mul(w Var) Var {
	a, b := v.Val(), w.Val()
	return v.ctx().binary(v, w, a*b, b, a)
}

// Div returns v / w.
//
// Partials: d/dv = 1/w, d/dw = -v/w².
func (v Var) Div(w Var) Var {
	a, b := v.Val(), w.Val()
	return v.ctx().binary(v, w, a/b, 1/b, -a/(b*b))
}

// Neg returns -v.
func (v Var) Neg() Var {
	return v.ctx().unary(v, -v.Val(), -1)
}

// AddConst returns v + k.
func (v Var) AddConst(k float64) Var {
	return v.ctx().unary(v, v.Val()+k, 1)
}

// SubConst returns v - k.
func (v Var) SubConst(k float64) Var {
	return v.ctx().unary(v, v.Val()-k, 1)
}

// MulConst returns v * k.
func (v Var) MulConst(k float64) Var {
	return v.ctx().unary(v, v.Val()*k, k)
}

// DivConst returns v / k.
func (v Var) DivConst(k float64) Var {
	return v.ctx().unary(v, v.Val()/k, 1/k)
}

// ConstAdd returns k + v.
func ConstAdd(k float64, v Var) Var {
	return v.AddConst(k)
}

// ConstSub returns k - v.
func ConstSub(k float64, v Var) Var {
	return v.ctx().unary(v, k-v.Val(), -1)
}

// ConstMul returns k * v.
func ConstMul(k float64, v Var) Var {
	return v.MulConst(k)
}

// ConstDiv returns k / v.
//
// Partial: d/dv = -k/v².
func ConstDiv(k float64, v Var) Var {
	x := v.Val()
	return v.ctx().unary(v, k/x, -k/(x*x))
}

package autodiff

import (
	"fmt"
	"strconv"
)

// Var is a handle to a node on a Context's tape.
//
// Vars are small values meant to be copied freely. Copies alias the same
// node. A Var does not keep its node alive: once the scope that created it is
// recovered (or the context is Reset) the handle is stale and any use panics.
type Var struct {
	c      *Context
	i      int32
	serial uint64
}

// node returns the node v refers to, panicking if v is stale.
func (c *Context) node(v Var) *node {
	if v.c == nil {
		panic(ErrNilVar)
	}
	if int(v.i) >= len(c.nodes) || c.nodes[v.i].serial != v.serial {
		panic(ErrStaleVar)
	}
	return &c.nodes[v.i]
}

// same panics unless v belongs to c.
func (c *Context) same(v Var) Var {
	if v.c == nil {
		panic(ErrNilVar)
	}
	if v.c != c {
		panic(ErrContextMismatch)
	}
	return v
}

// ctx returns the owning context, panicking on the zero Var.
func (v Var) ctx() *Context {
	if v.c == nil {
		panic(ErrNilVar)
	}
	return v.c
}

// Context returns the context that owns v.
func (v Var) Context() *Context {
	return v.c
}

// Val returns the forward value.
func (v Var) Val() float64 {
	return v.ctx().node(v).val
}

// Adj returns the accumulated adjoint.
func (v Var) Adj() float64 {
	return v.ctx().node(v).adj
}

// SetAdj overwrites the adjoint. It is meant for seeding custom reverse passes.
func (v Var) SetAdj(adj float64) {
	v.ctx().node(v).adj = adj
}

// Kind returns the node variant.
func (v Var) Kind() Kind {
	return v.ctx().node(v).kind
}

// IsLeaf reports whether v is an independent variable.
func (v Var) IsLeaf() bool {
	return v.Kind() == KindLeaf
}

// Index returns the position of v's node on the tape.
func (v Var) Index() int {
	return int(v.i)
}

// Valid reports whether v still refers to a live node.
func (v Var) Valid() bool {
	if v.c == nil || int(v.i) >= len(v.c.nodes) {
		return false
	}
	return v.c.nodes[v.i].serial == v.serial
}

// String formats v as its value, matching how a float64 prints.
func (v Var) String() string {
	if !v.Valid() {
		return "<invalid>"
	}
	return strconv.FormatFloat(v.Val(), 'g', -1, 64)
}

// GoString includes the adjoint and node kind.
func (v Var) GoString() string {
	if !v.Valid() {
		return "autodiff.Var{<invalid>}"
	}
	n := v.c.nodes[v.i]
	return fmt.Sprintf("autodiff.Var{val: %g, adj: %g, kind: %s, index: %d}", n.val, n.adj, n.kind, v.i)
}

// Values returns the forward values of xs.
func Values(xs []Var) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x.Val()
	}
	return out
}

// Adjoints returns the adjoints of xs.
func Adjoints(xs []Var) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = x.Adj()
	}
	return out
}

// Comparisons read forward values only and never record a node.

// Less reports v < w.
func (v Var) Less(w Var) bool { return v.Val() < w.Val() }

// LessEq reports v <= w.
func (v Var) LessEq(w Var) bool { return v.Val() <= w.Val() }

// Greater reports v > w.
func (v Var) Greater(w Var) bool { return v.Val() > w.Val() }

// GreaterEq reports v >= w.
func (v Var) GreaterEq(w Var) bool { return v.Val() >= w.Val() }

// Equal reports v == w by value.
func (v Var) Equal(w Var) bool { return v.Val() == w.Val() }

// NotEqual reports v != w by value.
func (v Var) NotEqual(w Var) bool { return v.Val() != w.Val() }

// LessConst reports v < k.
func (v Var) LessConst(k float64) bool { return v.Val() < k }

// LessEqConst reports v <= k.
func (v Var) LessEqConst(k float64) bool { return v.Val() <= k }

// GreaterConst reports v > k.
func (v Var) GreaterConst(k float64) bool { return v.Val() > k }

// GreaterEqConst reports v >= k.
func (v Var) GreaterEqConst(k float64) bool { return v.Val() >= k }

// EqualConst reports v == k.
func (v Var) EqualConst(k float64) bool { return v.Val() == k }

// NotEqualConst reports v != k.
func (v Var) NotEqualConst(k float64) bool { return v.Val() != k }

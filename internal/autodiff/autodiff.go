// Package autodiff implements reverse-mode automatic differentiation over
// scalar float64 expressions.
//
// Architecture:
//   - Context: owns the tape (nodes in allocation order), two arenas for
//     variable-length operand and partial storage, and a stack of scopes
//   - Node: tagged variant (leaf, unary, binary, n-ary, sum) holding the forward
//     value, the adjoint and the local partials captured at construction
//   - Var: a cheap handle referring to one node by index
//   - Reverse pass: walks the tape backwards from the output applying the chain rule
//
// Usage:
//
//	c := autodiff.New()
//	a, b := c.Var(2), c.Var(3)
//	y := a.Mul(b).Add(autodiff.Sin(a)) // y = a*b + sin(a)
//	c.Grad(y)
//	fmt.Println(a.Adj(), b.Adj()) // 3+cos(2), 2
//	c.Reset()
//
// A Context is not safe for concurrent use. Goroutines that evaluate
// gradients in parallel must each own a Context.
package autodiff

import "errors"

// Misuse errors. They are raised as panic values because they indicate a
// programming error rather than a recoverable condition.
var (
	ErrNilVar          = errors.New("autodiff: use of zero Var")
	ErrStaleVar        = errors.New("autodiff: Var refers to a node reclaimed by Recover or Reset")
	ErrContextMismatch = errors.New("autodiff: Vars belong to different contexts")
	ErrScopeOrder      = errors.New("autodiff: scope recovered out of LIFO order")
	ErrLengthMismatch  = errors.New("autodiff: operand slices have different lengths")
	ErrEmpty           = errors.New("autodiff: empty operand slice")
)

// Kind identifies the variant of a tape node.
type Kind uint8

// Node kinds.
const (
	KindLeaf   Kind = iota // independent variable, no operands
	KindUnary              // one operand, one partial
	KindBinary             // two operands, two partials
	KindNary               // n operands with n stored partials
	KindSum                // n operands, every partial is 1
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindUnary:
		return "unary"
	case KindBinary:
		return "binary"
	case KindNary:
		return "nary"
	case KindSum:
		return "sum"
	default:
		return "unknown"
	}
}

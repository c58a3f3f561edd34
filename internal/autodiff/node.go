package autodiff

import "math"

var nan = math.NaN()

// node is one recorded elementary operation.
//
// Operand references are tape indices that are always smaller than the
// node's own index, so iterating the tape backwards visits every consumer
// before its operands.
type node struct {
	val    float64
	adj    float64
	serial uint64
	kind   Kind

	// KindUnary / KindBinary.
	a, b   int32
	da, db float64

	// KindNary / KindSum. Both slices are carved from the context arenas.
	args     []int32
	partials []float64
}

// propagate pushes n.adj onto the operands of n and marks them reached.
// It only mutates adjoints of operands; forward values are never touched.
// The caller decides which nodes to visit: a reached node is propagated even
// when its adjoint is 0, so 0·Inf partials yield NaN as IEEE arithmetic says.
func propagate(nodes []node, n *node, reached []bool) {
	switch n.kind {
	case KindLeaf:
	case KindUnary:
		nodes[n.a].adj += n.adj * n.da
		reached[n.a] = true
	case KindBinary:
		nodes[n.a].adj += n.adj * n.da
		nodes[n.b].adj += n.adj * n.db
		reached[n.a], reached[n.b] = true, true
	case KindNary:
		for i, arg := range n.args {
			nodes[arg].adj += n.adj * n.partials[i]
			reached[arg] = true
		}
	case KindSum:
		for _, arg := range n.args {
			nodes[arg].adj += n.adj
			reached[arg] = true
		}
	}
}

// nanGuard returns NaN in place of partial when the operand value is NaN.
// Constant partials (add, sub, sum) would otherwise hide a NaN input.
func nanGuard(operand, partial float64) float64 {
	if math.IsNaN(operand) {
		return math.NaN()
	}
	return partial
}

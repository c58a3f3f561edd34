package autodiff

// Grad runs a reverse pass seeded with 1 at y.
// After it returns, every leaf's Adj holds ∂y/∂leaf (plus whatever the leaf
// had accumulated from earlier passes).
func (c *Context) Grad(y Var) {
	c.PropagateFrom(y, 1)
}

// PropagateFrom runs a reverse pass seeded with seed at y.
//
// Algorithm:
//  1. Clear the adjoints of non-leaf nodes at or below y's position
//  2. Add seed to y's adjoint
//  3. Walk the tape from y down to the first node, applying the chain rule once per node
//
// Nodes recorded after y cannot influence it and are skipped. Leaf adjoints
// are not cleared, so repeated passes accumulate into them; call ZeroAdjoints
// between passes to obtain independent gradients.
func (c *Context) PropagateFrom(y Var, seed float64) {
	c.PropagateSeeds([]Var{y}, []float64{seed})
}

// PropagateSeeds runs a single reverse pass seeded at several outputs, which
// computes the vector-Jacobian product Σ seeds[k]·∇ys[k].
func (c *Context) PropagateSeeds(ys []Var, seeds []float64) {
	if len(ys) != len(seeds) {
		panic(ErrLengthMismatch)
	}
	if len(ys) == 0 {
		return
	}

	top := int32(-1)
	for _, y := range ys {
		c.node(c.same(y))
		top = max(top, y.i)
	}

	c.clearIntermediate(int(top))
	for k, y := range ys {
		c.nodes[y.i].adj += seeds[k]
	}
	c.chain(int(top))
}

// Chain walks the whole tape backwards without clearing or seeding anything.
// Callers seed outputs with Var.SetAdj first.
func (c *Context) Chain() {
	c.chain(len(c.nodes) - 1)
}

// chain applies propagate to nodes top..0 in strictly decreasing order.
// Only nodes reachable from a nonzero adjoint are visited, so partials of
// nodes outside the output's graph (NaN or not) never reach shared operands.
func (c *Context) chain(top int) {
	nodes := c.nodes
	if cap(c.reached) < top+1 {
		c.reached = make([]bool, top+1)
	}
	reached := c.reached[:top+1]
	clear(reached)
	for i := top; i >= 0; i-- {
		n := &nodes[i]
		if !reached[i] && n.adj == 0 {
			continue
		}
		propagate(nodes, n, reached)
	}
	c.passes++
}

// clearIntermediate zeroes the adjoint of every non-leaf node up to top.
func (c *Context) clearIntermediate(top int) {
	for i := 0; i <= top; i++ {
		if c.nodes[i].kind != KindLeaf {
			c.nodes[i].adj = 0
		}
	}
}

// ZeroAdjoints sets every adjoint on the tape to zero.
func (c *Context) ZeroAdjoints() {
	for i := range c.nodes {
		c.nodes[i].adj = 0
	}
}

// SaveAdjoints returns a copy of every adjoint on the tape, in tape order.
func (c *Context) SaveAdjoints() []float64 {
	saved := make([]float64, len(c.nodes))
	for i := range c.nodes {
		saved[i] = c.nodes[i].adj
	}
	return saved
}

// RestoreAdjoints writes saved back onto the first len(saved) nodes. The tape
// must hold at least that many nodes.
func (c *Context) RestoreAdjoints(saved []float64) {
	if len(saved) > len(c.nodes) {
		panic(ErrLengthMismatch)
	}
	for i, adj := range saved {
		c.nodes[i].adj = adj
	}
}

// Gradient zeroes all adjoints, runs a reverse pass from y and returns
// ∂y/∂xs[i] for each input.
func (c *Context) Gradient(y Var, xs []Var) []float64 {
	c.ZeroAdjoints()
	c.Grad(y)
	return Adjoints(xs)
}

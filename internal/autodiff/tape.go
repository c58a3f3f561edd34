package autodiff

import (
	"log/slog"
	"math"

	"github.com/born-ml/gradtape/internal/arena"
)

// Context records operations during the forward pass and runs the reverse
// pass over them. It owns every node created through it.
//
// Usage:
//
//	c := New()
//	x := c.Var(3)
//	y := x.Mul(x)
//	c.Grad(y)
//	_ = x.Adj() // 6
//	c.Reset()   // reclaim everything for the next evaluation
type Context struct {
	nodes    []node               // tape, in allocation order
	args     *arena.Arena[int32]  // operand indices of n-ary nodes
	partials *arena.Arena[float64] // partials of n-ary nodes
	scopes   []Scope
	serial   uint64
	reached  []bool // reverse-pass scratch

	passes     uint64
	recoveries uint64
	resets     uint64

	initialNodes int
	logger       *slog.Logger
}

// Option configures a Context.
type Option func(*config)

type config struct {
	blockSize    int
	initialNodes int
	logger       *slog.Logger
}

// WithBlockSize sets the number of elements per arena block.
func WithBlockSize(n int) Option {
	return func(c *config) {
		c.blockSize = n
	}
}

// WithInitialNodes pre-allocates room for n tape nodes.
func WithInitialNodes(n int) Option {
	return func(c *config) {
		c.initialNodes = n
	}
}

// WithLogger sets the logger used for lifecycle events.
// By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// New creates an empty Context.
func New(opts ...Option) *Context {
	cfg := config{
		blockSize:    arena.DefaultBlockSize,
		initialNodes: 256,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}

	c := &Context{
		nodes:        make([]node, 0, cfg.initialNodes),
		args:         arena.New[int32](cfg.blockSize),
		partials:     arena.New[float64](cfg.blockSize),
		initialNodes: cfg.initialNodes,
		logger:       cfg.logger,
	}
	c.args.OnGrow = func(blocks, capacity int) {
		c.logger.Debug("arena grew", "arena", "args", "blocks", blocks, "capacity", capacity)
	}
	c.partials.OnGrow = func(blocks, capacity int) {
		c.logger.Debug("arena grew", "arena", "partials", "blocks", blocks, "capacity", capacity)
	}
	return c
}

// Len returns the number of nodes on the tape.
func (c *Context) Len() int {
	return len(c.nodes)
}

// push appends n to the tape and returns a handle to it.
func (c *Context) push(n node) Var {
	c.serial++
	n.serial = c.serial
	idx := int32(len(c.nodes))
	c.nodes = append(c.nodes, n)
	return Var{c: c, i: idx, serial: c.serial}
}

// Var creates a leaf node holding v.
func (c *Context) Var(v float64) Var {
	return c.push(node{val: v, kind: KindLeaf})
}

// Vars creates one leaf per value.
func (c *Context) Vars(vs []float64) []Var {
	out := make([]Var, len(vs))
	for i, v := range vs {
		out[i] = c.Var(v)
	}
	return out
}

// unary records y = f(a) with partial da = dy/da.
func (c *Context) unary(a Var, val, da float64) Var {
	an := c.node(a)
	return c.push(node{
		val:  val,
		kind: KindUnary,
		a:    a.i,
		da:   nanGuard(an.val, da),
	})
}

// binary records y = f(a, b) with partials da, db.
func (c *Context) binary(a, b Var, val, da, db float64) Var {
	c.same(b)
	an, bn := c.node(a), c.node(b)
	if math.IsNaN(an.val) || math.IsNaN(bn.val) {
		da, db = nan, nan
	}
	return c.push(node{
		val:  val,
		kind: KindBinary,
		a:    a.i,
		b:    b.i,
		da:   da,
		db:   db,
	})
}

// nary records y = f(xs...) with one partial per operand. The partials slice
// must come from c.partials and is retained by the node.
func (c *Context) nary(xs []Var, val float64, partials []float64) Var {
	args := c.args.Alloc(len(xs))
	anyNaN := false
	for i, x := range xs {
		n := c.node(c.same(x))
		args[i] = x.i
		anyNaN = anyNaN || math.IsNaN(n.val)
	}
	if anyNaN {
		fillNaN(partials)
	}
	return c.push(node{
		val:      val,
		kind:     KindNary,
		args:     args,
		partials: partials,
	})
}

// sum records y = Σ xs without partial storage. A NaN operand turns the
// node into an n-ary node with NaN partials.
func (c *Context) sum(xs []Var, val float64) Var {
	args := c.args.Alloc(len(xs))
	anyNaN := false
	for i, x := range xs {
		n := c.node(c.same(x))
		args[i] = x.i
		anyNaN = anyNaN || math.IsNaN(n.val)
	}
	if anyNaN {
		partials := c.partials.Alloc(len(xs))
		fillNaN(partials)
		return c.push(node{val: val, kind: KindNary, args: args, partials: partials})
	}
	return c.push(node{
		val:  val,
		kind: KindSum,
		args: args,
	})
}

// fillNaN overwrites every element with NaN.
func fillNaN(s []float64) {
	for i := range s {
		s[i] = nan
	}
}

// Stats describes the current memory usage of a Context.
type Stats struct {
	Nodes         int    // nodes on the tape
	NodeCapacity  int    // nodes that fit without reallocating the tape
	ArenaInUse    int    // bytes handed out by the arenas
	ArenaReserved int    // bytes owned by the arenas
	ArenaPeak     int    // high-water mark of ArenaInUse
	Blocks        int    // arena blocks
	Depth         int    // open scopes
	Passes        uint64 // reverse passes run
	Recoveries    uint64 // scopes recovered
	Resets        uint64 // Reset and Free calls
}

// Stats returns a snapshot of the context's memory usage.
func (c *Context) Stats() Stats {
	argSize, partSize := c.args.ElemSize(), c.partials.ElemSize()
	return Stats{
		Nodes:         len(c.nodes),
		NodeCapacity:  cap(c.nodes),
		ArenaInUse:    c.args.Len()*argSize + c.partials.Len()*partSize,
		ArenaReserved: c.args.Cap()*argSize + c.partials.Cap()*partSize,
		ArenaPeak:     c.args.Peak()*argSize + c.partials.Peak()*partSize,
		Blocks:        c.args.Blocks() + c.partials.Blocks(),
		Depth:         len(c.scopes),
		Passes:        c.passes,
		Recoveries:    c.recoveries,
		Resets:        c.resets,
	}
}

package autodiff

import (
	"fmt"

	"github.com/born-ml/gradtape/internal/arena"
)

// Scope is a checkpoint of a Context: tape length and arena positions.
// Scopes nest and must be recovered in LIFO order.
type Scope struct {
	c        *Context
	depth    int
	nodes    int
	args     arena.Mark
	partials arena.Mark
}

// Depth returns the nesting level of s, starting at 0 for the outermost scope.
func (s Scope) Depth() int {
	return s.depth
}

// Checkpoint opens a new scope at the current tape position.
func (c *Context) Checkpoint() Scope {
	s := Scope{
		c:        c,
		depth:    len(c.scopes),
		nodes:    len(c.nodes),
		args:     c.args.Mark(),
		partials: c.partials.Mark(),
	}
	c.scopes = append(c.scopes, s)
	return s
}

// Recover truncates the tape and arenas back to s and closes it.
//
// Every Var created after the checkpoint becomes stale. Recovering a scope
// that is not the innermost open one panics with ErrScopeOrder.
func (c *Context) Recover(s Scope) {
	if s.c != c || len(c.scopes) == 0 || s.depth != len(c.scopes)-1 || c.scopes[s.depth] != s {
		panic(fmt.Errorf("%w: depth %d, open scopes %d", ErrScopeOrder, s.depth, len(c.scopes)))
	}
	c.scopes = c.scopes[:s.depth]
	c.truncate(s.nodes)
	c.args.Release(s.args)
	c.partials.Release(s.partials)
	c.recoveries++
}

// Nested runs fn inside a fresh scope and recovers it afterwards, even if fn
// panics. Vars created by fn must not escape it. Scopes that fn leaves open
// on a normal return are a usage error and panic with ErrScopeOrder.
func (c *Context) Nested(fn func() error) error {
	s := c.Checkpoint()
	defer func() {
		if r := recover(); r != nil {
			if len(c.scopes) > s.depth+1 {
				c.scopes = c.scopes[:s.depth+1]
			}
			c.Recover(s)
			panic(r)
		}
		c.Recover(s)
	}()
	return fn()
}

// Depth returns the number of open scopes.
func (c *Context) Depth() int {
	return len(c.scopes)
}

// Reset discards every node and closes all scopes while keeping the
// allocated memory for the next evaluation.
func (c *Context) Reset() {
	c.logger.Debug("resetting tape",
		"nodes", len(c.nodes),
		"scopes", len(c.scopes),
		"arena_blocks", c.args.Blocks()+c.partials.Blocks())
	c.scopes = c.scopes[:0]
	c.truncate(0)
	c.args.Reset()
	c.partials.Reset()
	c.resets++
}

// Free is Reset followed by releasing all arena blocks and shrinking the
// tape back to its initial capacity.
func (c *Context) Free() {
	c.Reset()
	c.logger.Debug("releasing tape memory",
		"node_capacity", cap(c.nodes),
		"arena_bytes", c.args.Cap()*c.args.ElemSize()+c.partials.Cap()*c.partials.ElemSize())
	c.nodes = make([]node, 0, c.initialNodes)
	c.reached = nil
	c.args.Free()
	c.partials.Free()
}

// truncate drops nodes at index n and above. Dropped slots are cleared so
// stale arena slices are not kept reachable.
func (c *Context) truncate(n int) {
	clear(c.nodes[n:])
	c.nodes = c.nodes[:n]
}

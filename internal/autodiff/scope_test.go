package autodiff_test

import (
	"errors"
	"testing"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckpointRecover_RoundTrip(t *testing.T) {
	c := autodiff.New(autodiff.WithBlockSize(8))
	base := c.Vars([]float64{1, 2, 3})
	c.Sum(base)
	before := c.Stats()

	s := c.Checkpoint()
	assert.Equal(t, 1, c.Depth())
	assert.Equal(t, 0, s.Depth())

	xs := c.Vars([]float64{4, 5, 6, 7, 8, 9})
	y := c.Dot(xs, xs)
	for range 20 {
		y = autodiff.Sin(y).Add(c.Sum(xs))
	}
	require.Greater(t, c.Len(), before.Nodes)

	c.Recover(s)
	after := c.Stats()

	assert.Equal(t, before.Nodes, after.Nodes)
	assert.Equal(t, before.ArenaInUse, after.ArenaInUse)
	assert.Equal(t, 0, c.Depth())
	assert.Equal(t, uint64(1), after.Recoveries)
	assert.False(t, y.Valid())

	// Vars from before the checkpoint are untouched.
	assert.Equal(t, []float64{1, 2, 3}, autodiff.Values(base))

	// The next node takes the first reclaimed slot.
	next := c.Var(0)
	assert.Equal(t, before.Nodes, next.Index())
	assert.Equal(t, before.ArenaReserved, c.Stats().ArenaReserved, "no new memory reserved for reused region")
}

func TestRecover_OuterWhileInnerOpenPanics(t *testing.T) {
	c := autodiff.New()
	outer := c.Checkpoint()
	inner := c.Checkpoint()

	assert.Panics(t, func() { c.Recover(outer) })

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, autodiff.ErrScopeOrder))
	}()
	c.Recover(inner)
	c.Recover(outer)
	c.Recover(outer) // already closed
}

func TestRecover_ForeignScopePanics(t *testing.T) {
	c1, c2 := autodiff.New(), autodiff.New()
	s := c1.Checkpoint()
	c2.Checkpoint()

	assert.Panics(t, func() { c2.Recover(s) })
}

func TestNested_RecoversAndReturnsError(t *testing.T) {
	c := autodiff.New()
	x := c.Var(3)
	want := errors.New("boom")

	var inside autodiff.Var
	err := c.Nested(func() error {
		inside = x.Mul(x)
		c.Grad(inside)
		return want
	})

	assert.ErrorIs(t, err, want)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.Depth())
	assert.False(t, inside.Valid())
	assert.Equal(t, 6.0, x.Adj(), "leaf adjoints outlive the scope")
}

func TestNested_RecoversOnPanic(t *testing.T) {
	c := autodiff.New()
	c.Var(1)

	assert.PanicsWithValue(t, "bad", func() {
		_ = c.Nested(func() error {
			c.Var(2)
			c.Checkpoint() // left open by the panic
			panic("bad")
		})
	})
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.Depth())
}

func TestNested_LeftOpenScopePanics(t *testing.T) {
	c := autodiff.New()
	assert.Panics(t, func() {
		_ = c.Nested(func() error {
			c.Checkpoint()
			return nil
		})
	})
}

func TestReset_ReusesMemory(t *testing.T) {
	c := autodiff.New(autodiff.WithBlockSize(32))
	eval := func() float64 {
		xs := c.Vars([]float64{1, 2, 3, 4})
		y := c.LogSumExp(xs)
		c.Grad(y)
		return xs[0].Adj()
	}

	first := eval()
	reserved := c.Stats().ArenaReserved

	for range 100 {
		c.Reset()
		assert.InDelta(t, first, eval(), 1e-15)
	}

	s := c.Stats()
	assert.Equal(t, reserved, s.ArenaReserved, "arena must not grow across resets")
	assert.Equal(t, uint64(100), s.Resets)
}

func TestReset_ClosesScopes(t *testing.T) {
	c := autodiff.New()
	c.Checkpoint()
	c.Checkpoint()
	c.Var(1)

	c.Reset()
	assert.Equal(t, 0, c.Depth())
	assert.Equal(t, 0, c.Len())
}

func TestFree_ReleasesMemory(t *testing.T) {
	c := autodiff.New(autodiff.WithBlockSize(4), autodiff.WithInitialNodes(2))
	xs := c.Vars(make([]float64, 50))
	c.SquaredNorm(xs)
	require.Positive(t, c.Stats().ArenaReserved)

	c.Free()
	s := c.Stats()
	assert.Equal(t, 0, s.Nodes)
	assert.Equal(t, 0, s.ArenaReserved)
	assert.Equal(t, 0, s.Blocks)
	assert.Equal(t, 2, s.NodeCapacity)
	assert.Positive(t, s.ArenaPeak)

	x := c.Var(2)
	c.Grad(autodiff.Square(x))
	assert.Equal(t, 4.0, x.Adj())
}

func TestScopes_Nest(t *testing.T) {
	c := autodiff.New()
	a := c.Var(1)

	outer := c.Checkpoint()
	b := a.AddConst(1)

	inner := c.Checkpoint()
	d := b.MulConst(3)
	assert.Equal(t, 1, inner.Depth())
	c.Recover(inner)

	assert.False(t, d.Valid())
	assert.True(t, b.Valid())

	c.Recover(outer)
	assert.False(t, b.Valid())
	assert.True(t, a.Valid())
}

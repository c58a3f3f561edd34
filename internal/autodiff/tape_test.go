package autodiff_test

import (
	"bytes"
	"log/slog"
	"math"
	"testing"

	"github.com/born-ml/gradtape/internal/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContext_LeavesAndLen(t *testing.T) {
	c := autodiff.New()
	assert.Equal(t, 0, c.Len())

	a := c.Var(5)
	assert.Equal(t, 1, c.Len())
	assert.True(t, a.IsLeaf())
	assert.Equal(t, autodiff.KindLeaf, a.Kind())
	assert.Equal(t, 0, a.Index())
	assert.Same(t, c, a.Context())
	assert.Equal(t, 0.0, a.Adj(), "adjoint starts at zero")
}

func TestContext_OneNodePerOperation(t *testing.T) {
	c := autodiff.New()
	a, b := c.Var(1), c.Var(2)

	y := a.Mul(b)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, autodiff.KindBinary, y.Kind())

	z := autodiff.Exp(y)
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, autodiff.KindUnary, z.Kind())

	w := z.AddConst(1)
	assert.Equal(t, 5, c.Len())
	assert.Equal(t, autodiff.KindUnary, w.Kind())
	assert.Greater(t, w.Index(), z.Index())
}

func TestVar_CopiesAlias(t *testing.T) {
	c := autodiff.New()
	x := c.Var(2)
	alias := x

	c.Grad(x.Mul(alias))
	assert.Equal(t, 4.0, x.Adj())
	assert.Equal(t, x.Adj(), alias.Adj())
}

func TestComparisons_DoNotRecord(t *testing.T) {
	c := autodiff.New()
	a, b := c.Var(1), c.Var(2)
	n := c.Len()

	assert.True(t, a.Less(b))
	assert.True(t, a.LessEq(b))
	assert.False(t, a.Greater(b))
	assert.False(t, a.GreaterEq(b))
	assert.False(t, a.Equal(b))
	assert.True(t, a.NotEqual(b))
	assert.True(t, a.LessConst(1.5))
	assert.True(t, a.LessEqConst(1))
	assert.True(t, b.GreaterConst(1.5))
	assert.True(t, b.GreaterEqConst(2))
	assert.True(t, b.EqualConst(2))
	assert.True(t, b.NotEqualConst(3))

	assert.Equal(t, n, c.Len())
}

func TestVar_ZeroValuePanics(t *testing.T) {
	var v autodiff.Var
	assert.PanicsWithValue(t, autodiff.ErrNilVar, func() { v.Val() })
	assert.False(t, v.Valid())
	assert.Equal(t, "<invalid>", v.String())
}

func TestVar_ContextMismatchPanics(t *testing.T) {
	c1, c2 := autodiff.New(), autodiff.New()
	a, b := c1.Var(1), c2.Var(2)

	assert.PanicsWithValue(t, autodiff.ErrContextMismatch, func() { a.Add(b) })
	assert.PanicsWithValue(t, autodiff.ErrContextMismatch, func() { c1.Sum([]autodiff.Var{a, b}) })
}

func TestVar_StaleAfterReset(t *testing.T) {
	c := autodiff.New()
	x := c.Var(1)
	c.Reset()

	assert.False(t, x.Valid())
	assert.PanicsWithValue(t, autodiff.ErrStaleVar, func() { x.Val() })

	// Same index, different node.
	y := c.Var(2)
	assert.Equal(t, x.Index(), y.Index())
	assert.PanicsWithValue(t, autodiff.ErrStaleVar, func() { x.Adj() })
	assert.Equal(t, 2.0, y.Val())
}

func TestVar_String(t *testing.T) {
	c := autodiff.New()
	x := c.Var(1.25)
	assert.Equal(t, "1.25", x.String())
	assert.Contains(t, x.GoString(), "kind: leaf")
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "leaf", autodiff.KindLeaf.String())
	assert.Equal(t, "unary", autodiff.KindUnary.String())
	assert.Equal(t, "binary", autodiff.KindBinary.String())
	assert.Equal(t, "nary", autodiff.KindNary.String())
	assert.Equal(t, "sum", autodiff.KindSum.String())
	assert.Equal(t, "unknown", autodiff.Kind(99).String())
}

func TestStats(t *testing.T) {
	c := autodiff.New(autodiff.WithBlockSize(16), autodiff.WithInitialNodes(8))
	xs := c.Vars([]float64{1, 2, 3})
	c.Dot(xs, xs)

	s := c.Stats()
	assert.Equal(t, 4, s.Nodes)
	assert.GreaterOrEqual(t, s.NodeCapacity, 4)
	// 6 operand indices (int32) + 6 partials (float64).
	assert.Equal(t, 6*4+6*8, s.ArenaInUse)
	assert.Equal(t, 16*4+16*8, s.ArenaReserved)
	assert.Equal(t, 2, s.Blocks)
	assert.Equal(t, 0, s.Depth)
}

func TestWithLogger_LogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := autodiff.New(autodiff.WithLogger(logger), autodiff.WithBlockSize(4))
	xs := c.Vars([]float64{1, 2, 3})
	c.Sum(xs)
	c.Reset()
	c.Free()

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "arena grew")
	assert.Contains(t, out, "resetting tape")
	assert.Contains(t, out, "releasing tape memory")
}

func TestNaN_PropagatesThroughConstantPartials(t *testing.T) {
	c := autodiff.New()
	a, b := c.Var(math.NaN()), c.Var(1)

	y := a.Add(b)
	c.Grad(y)

	assert.True(t, math.IsNaN(y.Val()))
	assert.True(t, math.IsNaN(a.Adj()))
	assert.True(t, math.IsNaN(b.Adj()), "NaN operand poisons every partial of the node")
}

func TestNaN_UnaryAndSum(t *testing.T) {
	c := autodiff.New()
	x := c.Var(math.NaN())
	k := c.Var(2)

	c.Grad(x.AddConst(3))
	assert.True(t, math.IsNaN(x.Adj()))

	c.ZeroAdjoints()
	s := c.Sum([]autodiff.Var{x, k})
	assert.Equal(t, autodiff.KindNary, s.Kind())
	c.Grad(s)
	assert.True(t, math.IsNaN(x.Adj()))
	assert.True(t, math.IsNaN(k.Adj()))
}

func TestNaN_UnrelatedNodeDoesNotLeak(t *testing.T) {
	c := autodiff.New()
	x := c.Var(0)
	_ = autodiff.Log(x).Mul(x) // 0 * -Inf partials, not part of y
	y := x.MulConst(2)

	c.Grad(y)
	assert.Equal(t, 2.0, x.Adj())
}

func TestAbs_RightDerivativeAtZero(t *testing.T) {
	c := autodiff.New()
	x := c.Var(0)
	c.Grad(autodiff.Abs(x))
	assert.Equal(t, 1.0, x.Adj())

	c.ZeroAdjoints()
	n := c.Var(math.NaN())
	c.Grad(autodiff.Abs(n))
	assert.True(t, math.IsNaN(n.Adj()))
}

func TestFmax_TiesAndNaN(t *testing.T) {
	c := autodiff.New()
	a, b := c.Var(1), c.Var(1)
	assert.Equal(t, []float64{0, 1}, c.Gradient(autodiff.Fmax(a, b), []autodiff.Var{a, b}), "ties select the second operand")
	assert.Equal(t, []float64{0, 1}, c.Gradient(autodiff.Fmin(a, b), []autodiff.Var{a, b}))

	nanV := c.Var(math.NaN())
	m := autodiff.Fmax(nanV, b)
	assert.Equal(t, 1.0, m.Val())
	assert.Equal(t, []float64{0, 1}, c.Gradient(m, []autodiff.Var{nanV, b}))

	both := autodiff.Fmin(nanV, c.Var(math.NaN()))
	assert.True(t, math.IsNaN(both.Val()))
}

func TestPow_ZeroBase(t *testing.T) {
	c := autodiff.New()
	x, y := c.Var(0), c.Var(2)
	g := c.Gradient(autodiff.Pow(x, y), []autodiff.Var{x, y})
	assert.Equal(t, []float64{0, 0}, g)

	x1, y0 := c.Var(3), c.Var(0)
	g = c.Gradient(autodiff.Pow(x1, y0), []autodiff.Var{x1, y0})
	assert.Equal(t, 0.0, g[0])
	assert.InDelta(t, math.Log(3), g[1], 1e-15)
}

func TestDigamma(t *testing.T) {
	const eulerGamma = 0.5772156649015329
	tests := []struct {
		x, want float64
	}{
		{1, -eulerGamma},
		{0.5, -eulerGamma - 2*math.Ln2},
		{10, 2.251752589066721},
		{-0.5, 0.03648997397857652},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, autodiff.Digamma(tt.x), 1e-12, "digamma(%g)", tt.x)
	}
	assert.True(t, math.IsNaN(autodiff.Digamma(0)))
	assert.True(t, math.IsNaN(autodiff.Digamma(-2)))
	assert.True(t, math.IsInf(autodiff.Digamma(math.Inf(1)), 1))
}

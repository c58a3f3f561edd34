package autodiff_test

import (
	"math"
	"testing"

	"github.com/born-ml/gradtape/autodiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicAPI_Example(t *testing.T) {
	c := autodiff.New()
	a, b := c.Var(2), c.Var(3)

	y := a.Mul(b).Add(autodiff.Sin(a))
	c.Grad(y)

	assert.InDelta(t, 6+math.Sin(2), y.Val(), 1e-15)
	assert.InDelta(t, 3+math.Cos(2), a.Adj(), 1e-15)
	assert.Equal(t, 2.0, b.Adj())
}

func TestPublicAPI_Nested(t *testing.T) {
	c := autodiff.New(autodiff.WithBlockSize(64))
	outer := c.Var(1)

	var inner float64
	err := c.Nested(func() error {
		x := c.Var(1.5)
		c.Grad(autodiff.Exp(x))
		inner = x.Adj()
		return nil
	})
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(1.5), inner, 1e-15)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, autodiff.KindLeaf, outer.Kind())
}

func TestPublicAPI_Wrappers(t *testing.T) {
	c := autodiff.New()
	xs := c.Vars([]float64{0.5, 2})

	y := autodiff.Fma(xs[0], xs[1], autodiff.ConstMul(2, autodiff.PowConst(xs[0], 2)))
	assert.InDelta(t, 1.5, y.Val(), 1e-15)
	assert.Equal(t, []float64{0.5, 2}, autodiff.Values(xs))

	ys := autodiff.Map(xs, autodiff.Square)
	assert.Equal(t, []float64{0.25, 4}, autodiff.Values(ys))

	assert.PanicsWithValue(t, autodiff.ErrEmpty, func() { c.Mean(nil) })
	assert.InDelta(t, -0.5772156649015329, autodiff.Digamma(1), 1e-12)
}

package symbolic_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots/symbolic"
)

func TestSubst(t *testing.T) {
	e := symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.N(1))
	assert.Equal(t, "10", symbolic.Subst(e, "x", symbolic.N(3)).String())
	assert.Equal(t, "y^2 + 1", symbolic.Subst(e, "x", symbolic.S("y")).String())
	assert.Equal(t, "x^2 + 1", symbolic.Subst(e, "z", symbolic.N(3)).String())
	assert.Equal(t, "0", symbolic.Subst(symbolic.SinOf(x), "x", symbolic.N(0)).String())
}

func TestBind(t *testing.T) {
	e := symbolic.MustParse("a*x^2 - b")

	got, err := symbolic.Bind(e, map[string]float64{"a": 3, "b": 2})
	require.NoError(t, err)
	assert.Equal(t, "3*x^2 - 2", got.String())

	got, err = symbolic.Bind(e, map[string]float64{"a": 0.5})
	require.NoError(t, err)
	assert.Equal(t, "1/2*x^2 - b", got.String())

	got, err = symbolic.Bind(e, nil)
	require.NoError(t, err)
	assert.Same(t, e, got)
}

func TestBind_Errors(t *testing.T) {
	e := symbolic.MustParse("a*x - pi")

	_, err := symbolic.Bind(e, map[string]float64{"pi": 3})
	assert.EqualError(t, err, `cannot bind "pi": it is a built-in constant`)

	_, err = symbolic.Bind(e, map[string]float64{"a": math.NaN()})
	assert.EqualError(t, err, "parameter a: NaN is not a finite number")

	_, err = symbolic.Bind(e, map[string]float64{"a": math.Inf(1)})
	assert.EqualError(t, err, "parameter a: +Inf is not a finite number")
}

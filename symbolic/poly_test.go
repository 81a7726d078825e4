package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots/symbolic"
)

func TestFreeSymbols(t *testing.T) {
	syms := symbolic.FreeSymbols(symbolic.MustParse("pi*x + 2y"))
	assert.Equal(t, map[string]struct{}{"x": {}, "y": {}}, syms)
	assert.Empty(t, symbolic.FreeSymbols(symbolic.N(5)))
}

func TestPolynomial(t *testing.T) {
	tests := []struct {
		src  string
		want []float64
	}{
		{"(x-1)(x-2)(x-3)", []float64{-6, 11, -6, 1}},
		{"(x+1)(x+2)", []float64{2, 3, 1}},
		{"x^3 - x - 2", []float64{-2, -1, 0, 1}},
		{"x^2 - x^2 + x", []float64{0, 1}},
		{"x/4 - 1/2", []float64{-0.5, 0.25}},
		{"(2x - 1)^2", []float64{1, -4, 4}},
		{"3", []float64{3}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, err := symbolic.Polynomial(symbolic.MustParse(tt.src), "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPolynomial_Rejects(t *testing.T) {
	for _, src := range []string{"x^2 + sin(x)", "1/x", "a*x^2 + x", "sqrt(x)", "2^x"} {
		_, err := symbolic.Polynomial(symbolic.MustParse(src), "x")
		assert.ErrorIs(t, err, symbolic.ErrNotPolynomial, src)
	}
}

func TestPolynomial_DegreeLimit(t *testing.T) {
	got, err := symbolic.Polynomial(symbolic.MustParse("x^1000 - 1"), "x")
	require.NoError(t, err)
	assert.Len(t, got, symbolic.MaxDegree+1)

	for _, src := range []string{"x^1001", "(x^2 + 1)^600", "x^9223372036854775807"} {
		_, err := symbolic.Polynomial(symbolic.MustParse(src), "x")
		assert.ErrorIs(t, err, symbolic.ErrNotPolynomial, src)
		assert.ErrorContains(t, err, "degree exceeds 1000", src)
	}
}

func TestCauchyBound(t *testing.T) {
	b, err := symbolic.CauchyBound([]float64{-6, 11, -6, 1})
	require.NoError(t, err)
	assert.Equal(t, 12.0, b)

	// leading coefficient -1/2: max |a_i/a_n| = 4
	b, err = symbolic.CauchyBound([]float64{2, 0, -0.5})
	require.NoError(t, err)
	assert.Equal(t, 5.0, b)

	_, err = symbolic.CauchyBound([]float64{3})
	assert.ErrorIs(t, err, symbolic.ErrNotPolynomial)
	_, err = symbolic.CauchyBound([]float64{1, 0})
	assert.ErrorIs(t, err, symbolic.ErrNotPolynomial)
}

func TestExpand(t *testing.T) {
	e := symbolic.MustParse("(x+1)(x+2)")
	expanded := symbolic.Expand(e)
	assert.IsType(t, &symbolic.Mul{}, e)
	assert.IsType(t, &symbolic.Add{}, expanded)

	f, err := symbolic.Lambdify(e, "x")
	require.NoError(t, err)
	g, err := symbolic.Lambdify(expanded, "x")
	require.NoError(t, err)
	for _, at := range []float64{-3, -0.5, 0, 1.25, 7} {
		assert.InDelta(t, f(at), g(at), 1e-12)
	}

	assert.Equal(t, "x^2 + 2*x + 1", symbolic.Expand(symbolic.MustParse("(x+1)^2")).String())
	// high powers of sums are left alone
	assert.Equal(t, "(x + 1)^20", symbolic.Expand(symbolic.MustParse("(x+1)^20")).String())
}

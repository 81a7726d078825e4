package symbolic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/njchilds90/goroots/symbolic"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		expr symbolic.Expr
		want string
	}{
		{symbolic.N(5), "0"},
		{x, "1"},
		{symbolic.S("y"), "0"},
		{symbolic.PowOf(x, symbolic.N(2)), "2*x"},
		{symbolic.PowOf(x, symbolic.N(3)), "3*x^2"},
		{symbolic.AddOf(symbolic.PowOf(x, symbolic.N(2)), symbolic.MulOf(symbolic.N(3), x), symbolic.N(1)), "2*x + 3"},
		{symbolic.SinOf(x), "cos(x)"},
		{symbolic.CosOf(x), "-sin(x)"},
		{symbolic.ExpOf(x), "exp(x)"},
		{symbolic.LnOf(x), "x^(-1)"},
		{symbolic.SinOf(symbolic.MulOf(symbolic.N(2), x)), "2*cos(2*x)"},
		{symbolic.MulOf(x, symbolic.SinOf(x)), "cos(x)*x + sin(x)"},
		{symbolic.PowOf(symbolic.N(2), x), "2^x*ln(2)"},
		{symbolic.PowOf(x, x), "(ln(x) + 1)*x^x"},
	}
	for _, tt := range tests {
		t.Run(tt.expr.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, symbolic.Diff(tt.expr, "x").String())
		})
	}
}

func TestDiff_TreatsOtherSymbolsAsConstants(t *testing.T) {
	e := symbolic.MustParse("k*sin(x) + y^2")
	assert.Equal(t, "k*cos(x)", symbolic.Diff(e, "x").String())
	assert.Equal(t, "2*y", symbolic.Diff(e, "y").String())
}

func TestDiffN(t *testing.T) {
	x4 := symbolic.PowOf(x, symbolic.N(4))
	assert.Equal(t, "24", symbolic.DiffN(x4, "x", 4).String())
	assert.Equal(t, "0", symbolic.DiffN(x4, "x", 5).String())
	assert.Equal(t, "6*x", symbolic.DiffN(symbolic.PowOf(x, symbolic.N(3)), "x", 2).String())
	assert.Same(t, x4, symbolic.DiffN(x4, "x", 0))
}

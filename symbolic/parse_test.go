package symbolic_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots/symbolic"
)

func TestParse(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"x^3 - 6x^2 + 11*x - 6", "x^3 - 6*x^2 + 11*x - 6"},
		{"2(x+1)", "2*(x + 1)"},
		{"x(x+1)", "x*(x + 1)"},
		{"x ** 2", "x^2"},
		{"-x^2", "-x^2"},
		{"2^3^2", "512"},
		{"x/2", "1/2*x"},
		{"1.5x", "3/2*x"},
		{"1e-4", "1/10000"},
		{"x = 3", "x - 3"},
		{"log(x)", "ln(x)"},
		{"sqrt(x)", "x^(1/2)"},
		{"+sin(x)", "sin(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := symbolic.Parse(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.want, e.String())
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		pos  int
		want string
	}{
		{"x +", 3, "unexpected end of input"},
		{"(x", 2, "unexpected end of input"},
		{"", 0, "unexpected end of input"},
		{"x $ 1", 2, `unexpected character '$'`},
		{"x)", 1, `unexpected ")"`},
		{"*x", 0, `unexpected "*"`},
		{"1.2.3", 0, `invalid number "1.2.3"`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := symbolic.Parse(tt.src)
			var perr *symbolic.ParseError
			require.True(t, errors.As(err, &perr), "got %v", err)
			assert.Equal(t, tt.pos, perr.Pos)
			assert.Equal(t, tt.want, perr.Msg)
		})
	}
}

func TestParse_NestingLimit(t *testing.T) {
	nest := func(n int) string {
		return strings.Repeat("(", n) + "x" + strings.Repeat(")", n)
	}
	e, err := symbolic.Parse(nest(200))
	require.NoError(t, err)
	assert.Equal(t, "x", e.String())

	_, err = symbolic.Parse(nest(100000))
	var perr *symbolic.ParseError
	require.True(t, errors.As(err, &perr), "got %v", err)
	assert.Equal(t, "expression nested too deeply", perr.Msg)
	assert.Equal(t, 256, perr.Pos)
}

func TestParseError_Message(t *testing.T) {
	_, err := symbolic.Parse("x +")
	assert.EqualError(t, err, "parse error at offset 3: unexpected end of input")
}

func TestMustParse(t *testing.T) {
	assert.Equal(t, "x + 1", symbolic.MustParse("x + 1").String())
	assert.Panics(t, func() { symbolic.MustParse("(") })
}

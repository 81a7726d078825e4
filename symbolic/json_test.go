package symbolic_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots/symbolic"
)

func generic(t *testing.T, s string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestEncode(t *testing.T) {
	b, err := json.Marshal(symbolic.Encode(symbolic.F(3, 2)))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"num","value":"3/2"}`, string(b))

	b, err = json.Marshal(symbolic.Encode(symbolic.MustParse("sin(x) + 1")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"add","terms":[
		{"type":"func","name":"sin","arg":{"type":"sym","name":"x"}},
		{"type":"num","value":"1"}]}`, string(b))
}

func TestDecode_RoundTrip(t *testing.T) {
	for _, src := range []string{
		"x^3 - 6x^2 + 11*x - 6",
		"sqrt(x) + 3/4",
		"ln(x + 1)",
		"2*cos(2x)",
		"e^x",
	} {
		t.Run(src, func(t *testing.T) {
			original := symbolic.MustParse(src)
			b, err := json.Marshal(symbolic.Encode(original))
			require.NoError(t, err)
			rebuilt, err := symbolic.Decode(generic(t, string(b)))
			require.NoError(t, err)
			assert.True(t, original.Equal(rebuilt), "%s != %s", original, rebuilt)
		})
	}
}

func TestDecode_Canonicalizes(t *testing.T) {
	e, err := symbolic.Decode(generic(t, `{"type":"add","terms":[
		{"type":"sym","name":"x"},{"type":"sym","name":"x"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "2*x", e.String())

	e, err = symbolic.Decode(generic(t, `{"type":"func","name":"log","arg":{"type":"num","value":"1"}}`))
	require.NoError(t, err)
	assert.Equal(t, "0", e.String())
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{}`, "node type is required"},
		{`null`, "node type is required"},
		{`{"type":"bogus"}`, `unknown node type "bogus"`},
		{`{"type":"num"}`, "num: value is required"},
		{`{"type":"num","value":"abc"}`, `num: invalid value "abc"`},
		{`{"type":"sym"}`, "sym: name is required"},
		{`{"type":"add","terms":[]}`, "add: terms are required"},
		{`{"type":"mul","factors":[{"type":"sym","name":"x"},{"type":"num"}]}`, "mul.factors[1]: num: value is required"},
		{`{"type":"pow","base":{"type":"sym","name":"x"}}`, "pow: exp is required"},
		{`{"type":"func","name":"gamma","arg":{"type":"sym","name":"x"}}`, `func: unknown function "gamma"`},
		{`{"type":"func","name":"sin","arg":{"type":"what"}}`, `func.arg: unknown node type "what"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := symbolic.Decode(generic(t, tt.in))
			assert.EqualError(t, err, tt.want)
		})
	}

	_, err := symbolic.Decode(generic(t, `{"type":"add","terms":{}}`))
	assert.ErrorContains(t, err, "expression tree: ")
}

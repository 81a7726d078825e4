package symbolic

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Lambdify compiles expr into a closure of varName. The tree is walked once;
// the returned function only does float64 arithmetic and is safe for
// concurrent use.
//
// Any free symbol other than varName is an error.
func Lambdify(expr Expr, varName string) (func(float64) float64, error) {
	if IsConstant(varName) {
		return nil, fmt.Errorf("variable name %q is reserved for a constant", varName)
	}
	var extra []string
	for name := range FreeSymbols(expr) {
		if name != varName {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return nil, fmt.Errorf("expression has free symbols other than %s: %s", varName, strings.Join(extra, ", "))
	}
	return compile(expr, varName), nil
}

func compile(e Expr, varName string) func(float64) float64 {
	if n, ok := fold(e); ok {
		c := n.Float64()
		return func(float64) float64 { return c }
	}
	switch v := e.(type) {
	case *Sym:
		if c, ok := constants[v.name]; ok {
			return func(float64) float64 { return c }
		}
		return func(x float64) float64 { return x }
	case *Add:
		terms := make([]func(float64) float64, len(v.terms))
		for i, t := range v.terms {
			terms[i] = compile(t, varName)
		}
		return func(x float64) float64 {
			s := 0.0
			for _, t := range terms {
				s += t(x)
			}
			return s
		}
	case *Mul:
		factors := make([]func(float64) float64, len(v.factors))
		for i, f := range v.factors {
			factors[i] = compile(f, varName)
		}
		return func(x float64) float64 {
			p := 1.0
			for _, f := range factors {
				p *= f(x)
			}
			return p
		}
	case *Pow:
		return compilePow(v, varName)
	case *Func:
		fn := mathFuncs[v.name]
		arg := compile(v.arg, varName)
		return func(x float64) float64 { return fn(arg(x)) }
	}
	return func(float64) float64 { return math.NaN() }
}

func compilePow(p *Pow, varName string) func(float64) float64 {
	base := compile(p.base, varName)
	if n, ok := p.exp.(*Num); ok {
		if k, ok := n.int64(); ok {
			return func(x float64) float64 { return intPow(base(x), k) }
		}
		if n.Equal(F(1, 2)) {
			return func(x float64) float64 { return math.Sqrt(base(x)) }
		}
		e := n.Float64()
		return func(x float64) float64 { return math.Pow(base(x), e) }
	}
	exp := compile(p.exp, varName)
	return func(x float64) float64 { return math.Pow(base(x), exp(x)) }
}

// intPow computes b^k by repeated squaring. The magnitude of k is taken in
// uint64 so math.MinInt64 does not overflow.
func intPow(b float64, k int64) float64 {
	n := uint64(k)
	if k < 0 {
		n = -n
	}
	r := 1.0
	for n > 0 {
		if n&1 == 1 {
			r *= b
		}
		b *= b
		n >>= 1
	}
	if k < 0 {
		return 1 / r
	}
	return r
}

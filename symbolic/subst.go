package symbolic

import (
	"fmt"
	"math"
	"sort"
)

// Subst replaces every occurrence of the symbol name with value.
func Subst(e Expr, name string, value Expr) Expr {
	switch n := e.(type) {
	case *Sym:
		if n.name == name {
			return value
		}
	case *Add:
		return AddOf(substAll(n.terms, name, value)...)
	case *Mul:
		return MulOf(substAll(n.factors, name, value)...)
	case *Pow:
		return PowOf(Subst(n.base, name, value), Subst(n.exp, name, value))
	case *Func:
		return apply(n.name, Subst(n.arg, name, value))
	}
	return e
}

func substAll(es []Expr, name string, value Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = Subst(e, name, value)
	}
	return out
}

// Bind substitutes the exact value of each parameter into e, so that
// "a*x^2 - 2" with a=3 becomes "3*x^2 - 2". The constants pi and e cannot be
// rebound.
func Bind(e Expr, params map[string]float64) (Expr, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if IsConstant(name) {
			return nil, fmt.Errorf("cannot bind %q: it is a built-in constant", name)
		}
		v, ok := nFloatOK(params[name])
		if !ok {
			return nil, fmt.Errorf("parameter %s: %v is not a finite number", name, params[name])
		}
		e = Subst(e, name, v)
	}
	return e, nil
}

// fold evaluates a tree without free symbols. Sums and products of
// rationals stay exact; powers and functions go through float64. It fails
// on free symbols and on non-finite results.
func fold(e Expr) (*Num, bool) {
	switch n := e.(type) {
	case *Num:
		return n, true
	case *Sym:
		if c, ok := constants[n.name]; ok {
			return NFloat(c), true
		}
	case *Add:
		acc := N(0)
		for _, t := range n.terms {
			v, ok := fold(t)
			if !ok {
				return nil, false
			}
			acc = acc.plus(v)
		}
		return acc, true
	case *Mul:
		acc := N(1)
		for _, f := range n.factors {
			v, ok := fold(f)
			if !ok {
				return nil, false
			}
			acc = acc.times(v)
		}
		return acc, true
	case *Pow:
		b, ok := fold(n.base)
		if !ok {
			return nil, false
		}
		k, ok := fold(n.exp)
		if !ok {
			return nil, false
		}
		return nFloatOK(math.Pow(b.Float64(), k.Float64()))
	case *Func:
		a, ok := fold(n.arg)
		if !ok {
			return nil, false
		}
		return nFloatOK(mathFuncs[n.name](a.Float64()))
	}
	return nil, false
}

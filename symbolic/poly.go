package symbolic

import (
	"errors"
	"fmt"
	"math"
	"math/big"
)

// ErrNotPolynomial is returned when an expression is not a polynomial with
// numeric coefficients in the requested variable.
var ErrNotPolynomial = errors.New("not a polynomial")

// MaxDegree is the highest degree Polynomial accepts.
const MaxDegree = 1000

// maxExpandPower bounds the integer powers of sums that Expand multiplies
// out.
const maxExpandPower = 10

// FreeSymbols returns the names of the symbols in e, excluding constants.
func FreeSymbols(e Expr) map[string]struct{} {
	out := map[string]struct{}{}
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Sym:
			if !IsConstant(n.name) {
				out[n.name] = struct{}{}
			}
		case *Add:
			for _, t := range n.terms {
				walk(t)
			}
		case *Mul:
			for _, f := range n.factors {
				walk(f)
			}
		case *Pow:
			walk(n.base)
			walk(n.exp)
		case *Func:
			walk(n.arg)
		}
	}
	walk(e)
	return out
}

func dependsOn(e Expr, v string) bool {
	_, ok := FreeSymbols(e)[v]
	return ok
}

// Expand multiplies products out over sums and unrolls powers of sums up to
// the tenth.
func Expand(e Expr) Expr {
	switch n := e.(type) {
	case *Add:
		terms := make([]Expr, len(n.terms))
		for i, t := range n.terms {
			terms[i] = Expand(t)
		}
		return AddOf(terms...)
	case *Mul:
		acc := []Expr{N(1)}
		for _, f := range n.factors {
			acc = distribute(acc, summands(Expand(f)))
		}
		return AddOf(acc...)
	case *Pow:
		base := Expand(n.base)
		k, ok := n.exp.(*Num)
		if _, isSum := base.(*Add); isSum && ok {
			if times, ok := k.int64(); ok && times > 1 && times <= maxExpandPower {
				acc := []Expr{N(1)}
				for i := int64(0); i < times; i++ {
					acc = distribute(acc, summands(base))
				}
				return AddOf(acc...)
			}
		}
		return PowOf(base, Expand(n.exp))
	case *Func:
		return apply(n.name, Expand(n.arg))
	}
	return e
}

// distribute multiplies the sum of xs by the sum of ys and returns the
// collected terms.
func distribute(xs, ys []Expr) []Expr {
	out := make([]Expr, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			out = append(out, MulOf(x, y))
		}
	}
	return summands(AddOf(out...))
}

func summands(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// Polynomial returns the coefficients of e in v, lowest degree first, with
// trailing zeros trimmed. It fails with ErrNotPolynomial on a negative or
// fractional power of v, on v inside a function, on a non-numeric
// coefficient, or when the degree exceeds MaxDegree.
func Polynomial(e Expr, v string) ([]float64, error) {
	p, err := ratPoly(e, v)
	if err != nil {
		return nil, err
	}
	for len(p) > 1 && p[len(p)-1].Sign() == 0 {
		p = p[:len(p)-1]
	}
	out := make([]float64, len(p))
	for i, c := range p {
		out[i], _ = c.Float64()
	}
	return out, nil
}

// rpoly holds exact coefficients indexed by degree.
type rpoly []*big.Rat

func ratPoly(e Expr, v string) (rpoly, error) {
	if !dependsOn(e, v) {
		c, ok := fold(e)
		if !ok {
			return nil, fmt.Errorf("%w: coefficient %s is not numeric", ErrNotPolynomial, e)
		}
		return rpoly{c.val}, nil
	}
	switch n := e.(type) {
	case *Sym:
		return rpoly{new(big.Rat), big.NewRat(1, 1)}, nil
	case *Add:
		sum := rpoly{new(big.Rat)}
		for _, t := range n.terms {
			p, err := ratPoly(t, v)
			if err != nil {
				return nil, err
			}
			sum = sum.add(p)
		}
		return sum, nil
	case *Mul:
		prod := rpoly{big.NewRat(1, 1)}
		for _, f := range n.factors {
			p, err := ratPoly(f, v)
			if err != nil {
				return nil, err
			}
			if prod, err = prod.mul(p); err != nil {
				return nil, err
			}
		}
		return prod, nil
	case *Pow:
		k, ok := n.exp.(*Num)
		if !ok {
			return nil, fmt.Errorf("%w: %s has a non-constant exponent", ErrNotPolynomial, e)
		}
		exp, ok := k.int64()
		if !ok || exp < 0 {
			return nil, fmt.Errorf("%w: %s is not a non-negative integer power", ErrNotPolynomial, e)
		}
		if exp > MaxDegree {
			return nil, fmt.Errorf("%w: degree exceeds %d", ErrNotPolynomial, MaxDegree)
		}
		base, err := ratPoly(n.base, v)
		if err != nil {
			return nil, err
		}
		out := rpoly{big.NewRat(1, 1)}
		for i := int64(0); i < exp; i++ {
			if out, err = out.mul(base); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotPolynomial, e)
}

func (p rpoly) add(q rpoly) rpoly {
	if len(q) > len(p) {
		p, q = q, p
	}
	out := make(rpoly, len(p))
	for i := range p {
		out[i] = new(big.Rat).Set(p[i])
		if i < len(q) {
			out[i].Add(out[i], q[i])
		}
	}
	return out
}

func (p rpoly) mul(q rpoly) (rpoly, error) {
	deg := len(p) + len(q) - 2
	if deg > MaxDegree {
		return nil, fmt.Errorf("%w: degree exceeds %d", ErrNotPolynomial, MaxDegree)
	}
	out := make(rpoly, deg+1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	t := new(big.Rat)
	for i, a := range p {
		if a.Sign() == 0 {
			continue
		}
		for j, b := range q {
			out[i+j].Add(out[i+j], t.Mul(a, b))
		}
	}
	return out, nil
}

// CauchyBound returns 1 + max|a_i/a_n| for coefficients ordered lowest
// degree first. Every real root lies in [-bound, bound].
func CauchyBound(coeffs []float64) (float64, error) {
	n := len(coeffs) - 1
	if n < 1 || coeffs[n] == 0 {
		return 0, fmt.Errorf("%w: degree must be at least 1", ErrNotPolynomial)
	}
	m := 0.0
	for _, c := range coeffs[:n] {
		m = math.Max(m, math.Abs(c/coeffs[n]))
	}
	return 1 + m, nil
}

package symbolic

// Diff returns d/dv of e.
func Diff(e Expr, v string) Expr {
	switch n := e.(type) {
	case *Sym:
		if n.name == v {
			return N(1)
		}
	case *Add:
		terms := make([]Expr, len(n.terms))
		for i, t := range n.terms {
			terms[i] = Diff(t, v)
		}
		return AddOf(terms...)
	case *Mul:
		// product rule: sum over i of f_i' * prod_{j != i} f_j
		terms := make([]Expr, 0, len(n.factors))
		for i, fi := range n.factors {
			d := Diff(fi, v)
			if z, ok := d.(*Num); ok && z.isZero() {
				continue
			}
			prod := make([]Expr, 0, len(n.factors))
			prod = append(prod, d)
			prod = append(prod, n.factors[:i]...)
			prod = append(prod, n.factors[i+1:]...)
			terms = append(terms, MulOf(prod...))
		}
		return AddOf(terms...)
	case *Pow:
		return diffPow(n, v)
	case *Func:
		du := Diff(n.arg, v)
		if z, ok := du.(*Num); ok && z.isZero() {
			return N(0)
		}
		return MulOf(outerDerivative[n.name](n.arg), du)
	}
	return N(0)
}

func diffPow(p *Pow, v string) Expr {
	_, baseVaries := FreeSymbols(p.base)[v]
	_, expVaries := FreeSymbols(p.exp)[v]
	switch {
	case !baseVaries && !expVaries:
		return N(0)
	case !expVaries:
		// k * u^(k-1) * u'
		return MulOf(p.exp, PowOf(p.base, AddOf(p.exp, N(-1))), Diff(p.base, v))
	case !baseVaries:
		// b^w * ln(b) * w'
		return MulOf(p, LnOf(p.base), Diff(p.exp, v))
	}
	// u^w * (w' ln(u) + w u'/u)
	return MulOf(p, AddOf(
		MulOf(Diff(p.exp, v), LnOf(p.base)),
		MulOf(p.exp, Diff(p.base, v), PowOf(p.base, N(-1))),
	))
}

// outerDerivative maps a function name to f'(u) as an expression in u.
var outerDerivative = map[string]func(u Expr) Expr{
	"sin": CosOf,
	"cos": func(u Expr) Expr { return MulOf(N(-1), SinOf(u)) },
	"tan": func(u Expr) Expr { return AddOf(N(1), PowOf(TanOf(u), N(2))) },
	"exp": ExpOf,
	"ln":  func(u Expr) Expr { return PowOf(u, N(-1)) },
	"abs": func(u Expr) Expr { return MulOf(u, PowOf(AbsOf(u), N(-1))) },
	"asin": func(u Expr) Expr {
		return PowOf(SubOf(N(1), PowOf(u, N(2))), F(-1, 2))
	},
	"acos": func(u Expr) Expr {
		return MulOf(N(-1), PowOf(SubOf(N(1), PowOf(u, N(2))), F(-1, 2)))
	},
	"atan": func(u Expr) Expr { return PowOf(AddOf(N(1), PowOf(u, N(2))), N(-1)) },
	"sinh": CoshOf,
	"cosh": SinhOf,
	"tanh": func(u Expr) Expr { return SubOf(N(1), PowOf(TanhOf(u), N(2))) },
}

// DiffN returns the n-th derivative. n <= 0 returns e unchanged.
func DiffN(e Expr, v string, n int) Expr {
	for i := 0; i < n; i++ {
		e = Diff(e, v)
	}
	return e
}

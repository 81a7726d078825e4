// Package symbolic is the expression kernel behind goroots.
//
// Trees are immutable and always canonical: the constructors (AddOf, MulOf,
// PowOf, FuncOf and friends) fold constants, flatten nested sums and
// products, and collect like terms as they build. Everything else in the
// package (Diff, Subst, Expand, Polynomial, Lambdify) is a function over the
// tree rather than a method on it.
//
// Constants are exact rationals (math/big.Rat) until Lambdify compiles a
// tree into a float64 closure.
package symbolic

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strings"
)

// Expr is a node of an expression tree.
type Expr interface {
	String() string
	LaTeX() string
	Equal(other Expr) bool
	node()
}

// ============================================================
// Numbers
// ============================================================

// Num is an exact rational constant.
type Num struct{ val *big.Rat }

// N returns the integer n.
func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

// F returns the fraction p/q. It panics when q is zero.
func F(p, q int64) *Num {
	if q == 0 {
		panic("symbolic: denominator is zero")
	}
	return &Num{val: big.NewRat(p, q)}
}

// NFloat returns the exact rational value of f. It panics on NaN and ±Inf.
func NFloat(f float64) *Num {
	n, ok := nFloatOK(f)
	if !ok {
		panic(fmt.Sprintf("symbolic: %v is not a finite number", f))
	}
	return n
}

func nFloatOK(f float64) (*Num, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &Num{val: new(big.Rat).SetFloat64(f)}, true
}

func nRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func (*Num) node() {}

// Float64 returns the nearest float64.
func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }

func (n *Num) isZero() bool     { return n.val.Sign() == 0 }
func (n *Num) isNegative() bool { return n.val.Sign() < 0 }
func (n *Num) isInt() bool      { return n.val.IsInt() }
func (n *Num) isOne() bool      { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) isMinusOne() bool { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == -1 }

// int64 returns n when it is an integer that fits in an int64.
func (n *Num) int64() (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	return n.val.Num().Int64(), true
}

func (n *Num) plus(o *Num) *Num  { return &Num{val: new(big.Rat).Add(n.val, o.val)} }
func (n *Num) times(o *Num) *Num { return &Num{val: new(big.Rat).Mul(n.val, o.val)} }

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	num := new(big.Int).Abs(n.val.Num())
	s := fmt.Sprintf(`\frac{%s}{%s}`, num, n.val.Denom())
	if n.isNegative() {
		return "-" + s
	}
	return s
}

// ratPow returns b^k exactly. b must be non-zero when k is negative.
func ratPow(b *big.Rat, k int64) *big.Rat {
	neg := k < 0
	e := big.NewInt(k)
	e.Abs(e)
	num := new(big.Int).Exp(b.Num(), e, nil)
	den := new(big.Int).Exp(b.Denom(), e, nil)
	if neg {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den)
}

// ============================================================
// Symbols
// ============================================================

// constants are symbols with a fixed value. They are never free.
var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

// IsConstant reports whether name is a built-in constant such as pi.
func IsConstant(name string) bool {
	_, ok := constants[name]
	return ok
}

// Sym is a variable, a parameter, or one of the named constants.
type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (*Sym) node()            {}
func (s *Sym) String() string { return s.name }

func (s *Sym) LaTeX() string {
	if s.name == "pi" {
		return `\pi`
	}
	return s.name
}

func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}

// ============================================================
// Sums
// ============================================================

// Add is a sum of at least two terms. Terms keep the order in which they
// first appeared, the numeric constant (if any) last.
type Add struct{ terms []Expr }

func (*Add) node() {}

// AddOf returns the canonical sum of terms. Like terms are collected by
// their non-numeric part: x + 2*x is 3*x.
func AddOf(terms ...Expr) Expr {
	constant := N(0)
	var order []string
	groups := map[string]*likeTerm{}

	var visit func(Expr)
	visit = func(t Expr) {
		switch v := t.(type) {
		case *Num:
			constant = constant.plus(v)
			return
		case *Add:
			for _, inner := range v.terms {
				visit(inner)
			}
			return
		}
		coeff, rest := splitCoeff(t)
		key := rest.String()
		g, ok := groups[key]
		if !ok {
			g = &likeTerm{coeff: N(0), rest: rest}
			groups[key] = g
			order = append(order, key)
		}
		g.coeff = g.coeff.plus(coeff)
	}
	for _, t := range terms {
		visit(t)
	}

	out := make([]Expr, 0, len(order)+1)
	for _, key := range order {
		g := groups[key]
		switch {
		case g.coeff.isZero():
		case g.coeff.isOne():
			out = append(out, g.rest)
		default:
			out = append(out, MulOf(g.coeff, g.rest))
		}
	}
	if !constant.isZero() {
		out = append(out, constant)
	}
	switch len(out) {
	case 0:
		return N(0)
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

type likeTerm struct {
	coeff *Num
	rest  Expr
}

// splitCoeff separates the numeric coefficient of a product.
func splitCoeff(e Expr) (*Num, Expr) {
	m, ok := e.(*Mul)
	if !ok {
		return N(1), e
	}
	c, ok := m.factors[0].(*Num)
	if !ok {
		return N(1), e
	}
	if len(m.factors) == 2 {
		return c, m.factors[1]
	}
	return c, &Mul{factors: m.factors[1:]}
}

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, MulOf(N(-1), b)) }

func (a *Add) String() string {
	var b strings.Builder
	for i, t := range a.terms {
		s := t.String()
		switch {
		case i == 0:
		case strings.HasPrefix(s, "-"):
			b.WriteString(" - ")
			s = s[1:]
		default:
			b.WriteString(" + ")
		}
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) LaTeX() string {
	var b strings.Builder
	for i, t := range a.terms {
		s := t.LaTeX()
		if i > 0 {
			if strings.HasPrefix(s, "-") {
				b.WriteString(" - ")
				s = s[1:]
			} else {
				b.WriteString(" + ")
			}
		}
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalLists(a.terms, o.terms)
}

// ============================================================
// Products
// ============================================================

// Mul is a product of at least two factors. A numeric coefficient other
// than 1 comes first; the remaining factors are ordered by their text.
type Mul struct{ factors []Expr }

func (*Mul) node() {}

// MulOf returns the canonical product of factors. Integer powers of the same
// base are merged: x*x is x^2 and x*x^(-1) is 1.
func MulOf(factors ...Expr) Expr {
	coeff := N(1)
	var order []string
	powers := map[string]*basePower{}
	var opaque []Expr

	var visit func(Expr)
	visit = func(f Expr) {
		switch v := f.(type) {
		case *Num:
			coeff = coeff.times(v)
			return
		case *Mul:
			for _, inner := range v.factors {
				visit(inner)
			}
			return
		}
		base, k, ok := intPower(f)
		if !ok {
			opaque = append(opaque, f)
			return
		}
		key := base.String()
		bp, seen := powers[key]
		if !seen {
			bp = &basePower{base: base, exp: N(0)}
			powers[key] = bp
			order = append(order, key)
		}
		bp.exp = bp.exp.plus(k)
	}
	for _, f := range factors {
		visit(f)
	}
	if coeff.isZero() {
		return N(0)
	}

	rest := opaque
	for _, key := range order {
		bp := powers[key]
		switch p := PowOf(bp.base, bp.exp).(type) {
		case *Num:
			coeff = coeff.times(p)
		default:
			rest = append(rest, p)
		}
	}
	if coeff.isZero() {
		return N(0)
	}
	if len(rest) == 0 {
		return coeff
	}

	keys := make([]string, len(rest))
	idx := make([]int, len(rest))
	for i, f := range rest {
		keys[i] = f.String()
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })
	sorted := make([]Expr, 0, len(rest)+1)
	if !coeff.isOne() {
		sorted = append(sorted, coeff)
	}
	for _, i := range idx {
		sorted = append(sorted, rest[i])
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	return &Mul{factors: sorted}
}

type basePower struct {
	base Expr
	exp  *Num
}

// intPower views f as base^k with an integer k. Bare factors have k = 1.
func intPower(f Expr) (Expr, *Num, bool) {
	p, ok := f.(*Pow)
	if !ok {
		return f, N(1), true
	}
	if k, ok := p.exp.(*Num); ok && k.isInt() {
		return p.base, k, true
	}
	return nil, nil, false
}

// DivOf returns a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

func (m *Mul) String() string {
	parts := make([]string, 0, len(m.factors))
	sign := ""
	for i, f := range m.factors {
		if n, ok := f.(*Num); ok && i == 0 && n.isMinusOne() {
			sign = "-"
			continue
		}
		s := f.String()
		if _, ok := f.(*Add); ok {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return sign + strings.Join(parts, "*")
}

func (m *Mul) LaTeX() string {
	parts := make([]string, len(m.factors))
	for i, f := range m.factors {
		parts[i] = f.LaTeX()
		if _, ok := f.(*Add); ok {
			parts[i] = `\left(` + parts[i] + `\right)`
		}
	}
	return strings.Join(parts, ` \cdot `)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalLists(m.factors, o.factors)
}

// ============================================================
// Powers
// ============================================================

// Pow is base^exp.
type Pow struct{ base, exp Expr }

func (*Pow) node() {}

// maxFoldExponent bounds the integer powers of rationals that are folded
// exactly.
const maxFoldExponent = 64

// PowOf returns the canonical base^exp. Rational bases with small integer
// exponents are folded. (b^m)^k collapses to b^(m*k) only for integer k, so
// sqrt(x^2) keeps its sign behaviour.
func PowOf(base, exp Expr) Expr {
	k, expIsNum := exp.(*Num)
	if expIsNum && k.isZero() {
		return N(1)
	}
	if expIsNum && k.isOne() {
		return base
	}
	if b, ok := base.(*Num); ok {
		switch {
		case b.isOne():
			return N(1)
		case b.isZero():
			if expIsNum && !k.isNegative() {
				return N(0)
			}
		case expIsNum:
			if e, ok := k.int64(); ok && e >= -maxFoldExponent && e <= maxFoldExponent {
				return &Num{val: ratPow(b.val, e)}
			}
		}
	}
	if inner, ok := base.(*Pow); ok && expIsNum && k.isInt() {
		return PowOf(inner.base, MulOf(inner.exp, k))
	}
	return &Pow{base: base, exp: exp}
}

// SqrtOf returns arg^(1/2).
func SqrtOf(arg Expr) Expr { return PowOf(arg, F(1, 2)) }

func (p *Pow) String() string {
	return wrapOperand(p.base, p.base.String()) + "^" + wrapOperand(p.exp, p.exp.String())
}

// wrapOperand parenthesizes compound operands of ^ and signed or fractional
// constants.
func wrapOperand(e Expr, s string) string {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return "(" + s + ")"
	case *Num:
		if v.isNegative() || !v.isInt() {
			return "(" + s + ")"
		}
	}
	return s
}

func (p *Pow) LaTeX() string {
	base := p.base.LaTeX()
	switch p.base.(type) {
	case *Add, *Mul, *Pow:
		base = `\left(` + base + `\right)`
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

// ============================================================
// Functions
// ============================================================

// Func applies one of the built-in functions to an argument.
type Func struct {
	name string
	arg  Expr
}

func (*Func) node() {}

// mathFuncs are the functions the kernel can differentiate and evaluate.
var mathFuncs = map[string]func(float64) float64{
	"sin":  math.Sin,
	"cos":  math.Cos,
	"tan":  math.Tan,
	"exp":  math.Exp,
	"ln":   math.Log,
	"abs":  math.Abs,
	"asin": math.Asin,
	"acos": math.Acos,
	"atan": math.Atan,
	"sinh": math.Sinh,
	"cosh": math.Cosh,
	"tanh": math.Tanh,
}

// FuncOf applies the function called name. "sqrt" and "log" are accepted
// as aliases for arg^(1/2) and ln.
func FuncOf(name string, arg Expr) (Expr, error) {
	switch name {
	case "sqrt":
		return SqrtOf(arg), nil
	case "log":
		name = "ln"
	}
	if _, ok := mathFuncs[name]; !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return apply(name, arg), nil
}

// apply builds name(arg) for a known name, folding the exact identities
// sin(0), cos(0), tan(0), exp(0), ln(1), abs of a constant, and ln/exp
// inverses.
func apply(name string, arg Expr) Expr {
	if n, ok := arg.(*Num); ok {
		switch {
		case n.isZero() && (name == "sin" || name == "tan" || name == "sinh" || name == "tanh"):
			return N(0)
		case n.isZero() && (name == "cos" || name == "exp" || name == "cosh"):
			return N(1)
		case n.isOne() && name == "ln":
			return N(0)
		case name == "abs":
			return &Num{val: new(big.Rat).Abs(n.val)}
		}
	}
	if inner, ok := arg.(*Func); ok {
		if name == "ln" && inner.name == "exp" || name == "exp" && inner.name == "ln" {
			return inner.arg
		}
	}
	return &Func{name: name, arg: arg}
}

func SinOf(arg Expr) Expr  { return apply("sin", arg) }
func CosOf(arg Expr) Expr  { return apply("cos", arg) }
func TanOf(arg Expr) Expr  { return apply("tan", arg) }
func ExpOf(arg Expr) Expr  { return apply("exp", arg) }
func LnOf(arg Expr) Expr   { return apply("ln", arg) }
func AbsOf(arg Expr) Expr  { return apply("abs", arg) }
func SinhOf(arg Expr) Expr { return apply("sinh", arg) }
func CoshOf(arg Expr) Expr { return apply("cosh", arg) }
func TanhOf(arg Expr) Expr { return apply("tanh", arg) }

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.name {
	case "abs":
		return `\left|` + arg + `\right|`
	case "asin", "acos", "atan":
		return `\arc` + f.name[1:] + `\left(` + arg + `\right)`
	}
	return `\` + f.name + `\left(` + arg + `\right)`
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

// ============================================================
// Equations
// ============================================================

// Equation is lhs = rhs.
type Equation struct{ LHS, RHS Expr }

func Eq(lhs, rhs Expr) *Equation { return &Equation{LHS: lhs, RHS: rhs} }

func (e *Equation) String() string { return e.LHS.String() + " = " + e.RHS.String() }

// Residual returns lhs - rhs, whose roots solve the equation.
func (e *Equation) Residual() Expr { return SubOf(e.LHS, e.RHS) }

func equalLists(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

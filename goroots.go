// Package goroots locates real roots of a single-variable function over a
// bounded domain.
//
// The domain is cut into fixed-width sub-intervals; each one that brackets a
// sign change of f (or of f') is searched with bisection, Newton-Raphson or
// the secant method, and roots closer than epsilon collapse into one.
//
//   - Pure numeric core: no I/O, no logging, no goroutines
//   - Failures are sentinel errors, never panics
//   - Symbolic input via the symbolic package; plain Go funcs via FuncPair
package goroots

import (
	"errors"
	"fmt"

	"github.com/njchilds90/goroots/symbolic"
)

// ============================================================
// Errors
// ============================================================

var (
	// ErrNoBracket: f(a) and f(b) do not have opposite signs.
	ErrNoBracket = errors.New("interval does not bracket a sign change")
	// ErrZeroDerivative: Newton's tangent step is undefined.
	ErrZeroDerivative = errors.New("derivative is zero")
	// ErrZeroDenominator: the secant line is horizontal.
	ErrZeroDenominator = errors.New("secant denominator is zero")
	// ErrOutOfBounds: an iterate left the caller's interval.
	ErrOutOfBounds = errors.New("iterate left the search interval")
	// ErrNonConvergence: the iteration cap was reached.
	ErrNonConvergence = errors.New("did not converge")
	// ErrNonFinite: f produced NaN or ±Inf.
	ErrNonFinite = errors.New("function value is not finite")

	ErrInvalidMethod = errors.New("invalid method")
	ErrInvalidConfig = errors.New("invalid scan configuration")
)

// ============================================================
// Evaluators
// ============================================================

// Func is a real function of one variable.
type Func func(float64) float64

// Evaluator yields f and f' at a point. Implementations must be pure.
type Evaluator interface {
	Eval(x float64) float64
	EvalDeriv(x float64) float64
}

// FuncPair adapts two plain functions to Evaluator.
type FuncPair struct {
	F  Func
	DF Func
}

func (p FuncPair) Eval(x float64) float64      { return p.F(x) }
func (p FuncPair) EvalDeriv(x float64) float64 { return p.DF(x) }

// SymbolicEvaluator holds an expression, its derivative, and their compiled
// forms. Build it once per expression.
type SymbolicEvaluator struct {
	Var   string
	Expr  symbolic.Expr
	Deriv symbolic.Expr
	f     Func
	df    Func
}

// NewSymbolicEvaluator differentiates expr with respect to varName and
// compiles both. expr must not contain other free symbols.
func NewSymbolicEvaluator(expr symbolic.Expr, varName string) (*SymbolicEvaluator, error) {
	f, err := symbolic.Lambdify(expr, varName)
	if err != nil {
		return nil, err
	}
	deriv := symbolic.Diff(expr, varName)
	df, err := symbolic.Lambdify(deriv, varName)
	if err != nil {
		return nil, fmt.Errorf("derivative: %w", err)
	}
	return &SymbolicEvaluator{Var: varName, Expr: expr, Deriv: deriv, f: f, df: df}, nil
}

// ParseEvaluator parses src, binds params, and builds its evaluator. params
// may be nil; it must not bind varName itself.
func ParseEvaluator(src, varName string, params map[string]float64) (*SymbolicEvaluator, error) {
	expr, err := symbolic.Parse(src)
	if err != nil {
		return nil, err
	}
	if expr, err = BindParams(expr, varName, params); err != nil {
		return nil, err
	}
	return NewSymbolicEvaluator(expr, varName)
}

// BindParams substitutes params into expr, rejecting a binding for varName.
func BindParams(expr symbolic.Expr, varName string, params map[string]float64) (symbolic.Expr, error) {
	if _, ok := params[varName]; ok {
		return nil, fmt.Errorf("cannot bind %s: it is the variable being solved for", varName)
	}
	return symbolic.Bind(expr, params)
}

func (s *SymbolicEvaluator) Eval(x float64) float64      { return s.f(x) }
func (s *SymbolicEvaluator) EvalDeriv(x float64) float64 { return s.df(x) }

// F returns the compiled function.
func (s *SymbolicEvaluator) F() Func { return s.f }

// DF returns the compiled derivative.
func (s *SymbolicEvaluator) DF() Func { return s.df }

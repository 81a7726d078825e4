package goroots

import (
	"fmt"
	"math"
)

// DefaultEpsilon and DefaultMaxIter apply when a caller passes zero.
const (
	DefaultEpsilon = 1e-4
	DefaultMaxIter = 1000
)

// Result is a converged root and the number of iterations it took.
type Result struct {
	Root       float64 `json:"root"`
	Iterations int     `json:"iterations"`
}

// Option tunes the open methods (Newton-Raphson, secant).
type Option func(*options)

type options struct {
	unbounded bool
}

// WithUnbounded lets iterates leave [a, b]. A root found this way may lie
// outside the interval it was searched from.
func WithUnbounded() Option {
	return func(o *options) { o.unbounded = true }
}

func loadOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ============================================================
// Bisection
// ============================================================

// Bisection halves [a, b] until |f(mid)| < eps or the half-width drops to
// eps. f(a) and f(b) must have opposite signs. There is no iteration cap;
// the loop runs about log2((b-a)/eps) times, and stops early once a and b
// are adjacent floats.
func Bisection(f Func, a, b, eps float64) (Result, error) {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	fa, fb := f(a), f(b)
	if !finite(fa) || !finite(fb) {
		return Result{}, fmt.Errorf("bisection on [%g, %g]: %w", a, b, ErrNonFinite)
	}
	if fa*fb >= 0 {
		return Result{}, fmt.Errorf("bisection on [%g, %g]: %w", a, b, ErrNoBracket)
	}

	iterations := 0
	for (b-a)/2 > eps {
		mid := (a + b) / 2
		if mid <= a || mid >= b {
			break
		}
		iterations++
		fm := f(mid)
		if math.Abs(fm) < eps {
			return Result{Root: mid, Iterations: iterations}, nil
		}
		// invariant: f(a)*f(b) < 0
		if fa*fm < 0 {
			b = mid
		} else {
			a, fa = mid, fm
		}
	}
	return Result{Root: (a + b) / 2, Iterations: iterations}, nil
}

// ============================================================
// Newton-Raphson
// ============================================================

// NewtonRaphson starts at the midpoint of [a, b] and follows tangents until
// |f(x)| <= eps. By default an iterate outside [a, b] aborts the search with
// ErrOutOfBounds; see WithUnbounded.
func NewtonRaphson(f, df Func, a, b, eps float64, maxIter int, opts ...Option) (Result, error) {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	o := loadOptions(opts)

	guess := (a + b) / 2
	fg := f(guess)
	iterations := 0
	for math.Abs(fg) > eps && iterations < maxIter {
		iterations++
		d := df(guess)
		if d == 0 {
			return Result{}, fmt.Errorf("newton-raphson at x=%g: %w", guess, ErrZeroDerivative)
		}
		guess -= fg / d
		if !finite(guess) {
			return Result{}, fmt.Errorf("newton-raphson on [%g, %g]: %w", a, b, ErrNonFinite)
		}
		if !o.unbounded && (guess < a || guess > b) {
			return Result{}, fmt.Errorf("newton-raphson on [%g, %g]: x=%g: %w", a, b, guess, ErrOutOfBounds)
		}
		fg = f(guess)
	}
	if !finite(fg) {
		return Result{}, fmt.Errorf("newton-raphson at x=%g: %w", guess, ErrNonFinite)
	}
	if math.Abs(fg) > eps {
		return Result{}, fmt.Errorf("newton-raphson on [%g, %g] after %d iterations: %w", a, b, iterations, ErrNonConvergence)
	}
	return Result{Root: guess, Iterations: iterations}, nil
}

// ============================================================
// Secant
// ============================================================

// Secant iterates from x0=a, x1=b along secant lines until |f(x1)| <= eps.
// Bounds handling matches NewtonRaphson.
func Secant(f Func, a, b, eps float64, maxIter int, opts ...Option) (Result, error) {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	o := loadOptions(opts)

	x0, x1 := a, b
	f0, f1 := f(x0), f(x1)
	iterations := 0
	for math.Abs(f1) > eps && iterations < maxIter {
		iterations++
		den := f1 - f0
		if den == 0 {
			return Result{}, fmt.Errorf("secant at x=%g: %w", x1, ErrZeroDenominator)
		}
		next := x1 - f1*(x1-x0)/den
		if !finite(next) {
			return Result{}, fmt.Errorf("secant on [%g, %g]: %w", a, b, ErrNonFinite)
		}
		x0, f0 = x1, f1
		x1 = next
		if !o.unbounded && (x1 < a || x1 > b) {
			return Result{}, fmt.Errorf("secant on [%g, %g]: x=%g: %w", a, b, x1, ErrOutOfBounds)
		}
		f1 = f(x1)
	}
	if !finite(f1) {
		return Result{}, fmt.Errorf("secant at x=%g: %w", x1, ErrNonFinite)
	}
	if math.Abs(f1) > eps {
		return Result{}, fmt.Errorf("secant on [%g, %g] after %d iterations: %w", a, b, iterations, ErrNonConvergence)
	}
	return Result{Root: x1, Iterations: iterations}, nil
}

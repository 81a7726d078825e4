package goroots

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/goroots/symbolic"
)

func mustEvaluator(t *testing.T, src string) *SymbolicEvaluator {
	t.Helper()
	ev, err := ParseEvaluator(src, "x", nil)
	require.NoError(t, err)
	return ev
}

func collect(reps *[]IntervalReport) ScanOption {
	return WithIntervalHook(func(r IntervalReport) { *reps = append(*reps, r) })
}

func TestScan_CubicBisection(t *testing.T) {
	var reps []IntervalReport
	res, err := Scan(mustEvaluator(t, "x^3 - x - 2"),
		ScanConfig{Start: 0, End: 4, Step: 0.1, Method: MethodBisection}, collect(&reps))
	require.NoError(t, err)

	require.Len(t, res.Roots, 1)
	assert.InDelta(t, 1.52138, res.Roots[0].X, 2e-4)
	assert.False(t, res.Roots[0].Exact)
	assert.Len(t, reps, 40)
	assert.Equal(t, 40, res.Stats.Intervals)

	// f' = 3x^2 - 1 changes sign in [0.5, 0.6] but f does not, so bisection
	// has no bracket there
	assert.Equal(t, ReasonDerivSignChange, reps[5].Reason)
	assert.Equal(t, OutcomeFailed, reps[5].Outcome)
	assert.ErrorIs(t, reps[5].Err, ErrNoBracket)
	assert.Equal(t, ReasonSignChange, reps[15].Reason)
	assert.Equal(t, OutcomeFound, reps[15].Outcome)
}

func TestScan_ExactIntegerRoots(t *testing.T) {
	for _, src := range []string{"(x-1)(x-2)(x-3)", "x^3 - 6x^2 + 11x - 6"} {
		for _, m := range Methods {
			t.Run(src+"/"+m.String(), func(t *testing.T) {
				res, err := Scan(mustEvaluator(t, src),
					ScanConfig{Start: 0, End: 4, Step: 0.5, Method: m})
				require.NoError(t, err)
				require.Len(t, res.Roots, 3)
				for i, want := range []float64{1, 2, 3} {
					assert.Equal(t, want, res.Roots[i].X)
					assert.True(t, res.Roots[i].Exact)
					assert.Zero(t, res.Roots[i].Iterations)
				}
			})
		}
	}
}

func TestScan_Sine(t *testing.T) {
	res, err := ScanExpr(symbolic.MustParse("sin(x)"), "x",
		ScanConfig{Start: -1, End: 7, Step: 0.3, Epsilon: 1e-8, Method: MethodNewtonRaphson})
	require.NoError(t, err)
	require.Len(t, res.Roots, 3)
	for i, want := range []float64{0, math.Pi, 2 * math.Pi} {
		assert.InDelta(t, want, res.Roots[i].X, 1e-7)
	}
	// the extrema at pi/2 and 3pi/2 send Newton out of their intervals
	assert.Equal(t, 2, res.Stats.Failed)
}

func TestScan_RootsAreUniqueAndOrdered(t *testing.T) {
	for _, m := range Methods {
		res, err := Scan(mustEvaluator(t, "x^2 - 2"), ScanConfig{Start: -3, End: 3, Step: 0.25, Method: m})
		require.NoError(t, err, m)
		require.Len(t, res.Roots, 2, m)
		assert.InDelta(t, -math.Sqrt2, res.Roots[0].X, 1e-4, m)
		assert.InDelta(t, math.Sqrt2, res.Roots[1].X, 1e-4, m)
		for i := 1; i < len(res.Roots); i++ {
			assert.GreaterOrEqual(t, math.Abs(res.Roots[i].X-res.Roots[i-1].X), DefaultEpsilon)
		}
	}
}

func TestScan_DuplicateIsDropped(t *testing.T) {
	// 1 and 3 are recorded as exact edges; the secant searches triggered by
	// f' in [1, 1.5] and [2.5, 3] land on them again
	var reps []IntervalReport
	res, err := Scan(mustEvaluator(t, "(x-1)(x-2)(x-3)"),
		ScanConfig{Start: 0, End: 4, Step: 0.5, Method: MethodSecant}, collect(&reps))
	require.NoError(t, err)
	require.Len(t, res.Roots, 3)
	assert.Equal(t, Stats{Intervals: 8, Searched: 2, Duplicates: 2, Iterations: 1}, res.Stats)

	assert.Equal(t, OutcomeDuplicate, reps[2].Outcome)
	assert.Equal(t, ReasonDerivSignChange, reps[2].Reason)
	assert.Equal(t, 1.0, reps[2].Root.X)
	assert.Equal(t, OutcomeDuplicate, reps[5].Outcome)
	assert.Equal(t, []float64{3}, reps[5].Exact)
	assert.Equal(t, 3.0, reps[5].Root.X)
}

func TestScan_Idempotent(t *testing.T) {
	cfg := ScanConfig{Start: -2, End: 5, Step: 0.3, Method: MethodSecant}
	a, err := Scan(mustEvaluator(t, "x^3 - 4x^2 + x + 6"), cfg)
	require.NoError(t, err)
	b, err := Scan(mustEvaluator(t, "x^3 - 4x^2 + x + 6"), cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScan_ClipsLastInterval(t *testing.T) {
	var reps []IntervalReport
	_, err := Scan(mustEvaluator(t, "x - 10"), ScanConfig{Start: 0, End: 1, Step: 0.3, Method: MethodBisection}, collect(&reps))
	require.NoError(t, err)
	require.Len(t, reps, 4)
	assert.InDelta(t, 0.9, reps[3].Low, 1e-12)
	assert.Equal(t, 1.0, reps[3].High)
	for i, r := range reps {
		assert.Equal(t, i, r.Index)
		assert.LessOrEqual(t, r.High, 1.0)
	}
}

func TestScan_StepLargerThanDomain(t *testing.T) {
	var reps []IntervalReport
	res, err := Scan(mustEvaluator(t, "x - 0.3"), ScanConfig{Start: 0, End: 1, Step: 5, Method: MethodBisection}, collect(&reps))
	require.NoError(t, err)
	require.Len(t, reps, 1)
	assert.Equal(t, 1.0, reps[0].High)
	require.Len(t, res.Roots, 1)
	assert.InDelta(t, 0.3, res.Roots[0].X, 1e-4)
}

func TestScan_BoundaryExactRoot(t *testing.T) {
	res, err := Scan(mustEvaluator(t, "x^2 - 4"), ScanConfig{Start: 2, End: 3, Step: 0.5, Method: MethodBisection})
	require.NoError(t, err)
	require.Len(t, res.Roots, 1)
	assert.Equal(t, Root{X: 2, Exact: true, Low: 2, High: 2.5}, res.Roots[0])

	res, err = Scan(mustEvaluator(t, "x^2 - 4"), ScanConfig{Start: 1, End: 2, Step: 0.5, Method: MethodBisection})
	require.NoError(t, err)
	require.Len(t, res.Roots, 1)
	assert.Equal(t, 2.0, res.Roots[0].X)
}

func TestScan_TriggerSignChangeSkipsExtrema(t *testing.T) {
	// x^2 + 1 never changes sign; only f' does, at 0
	cfg := ScanConfig{Start: -1, End: 1, Step: 0.3, Method: MethodBisection}
	res, err := Scan(mustEvaluator(t, "x^2 + 1"), cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Roots)
	assert.Equal(t, 1, res.Stats.Searched)
	assert.Equal(t, 1, res.Stats.Failed)

	cfg.Trigger = TriggerSignChange
	res, err = Scan(mustEvaluator(t, "x^2 + 1"), cfg)
	require.NoError(t, err)
	assert.Zero(t, res.Stats.Searched)
}

func TestScan_Unbounded(t *testing.T) {
	// Newton from the midpoint of the interval around the minimum of
	// x^2 - 1 jumps far outside it
	cfg := ScanConfig{Start: -0.45, End: 0.45, Step: 0.9, Method: MethodNewtonRaphson}
	ev := mustEvaluator(t, "x^2 - 1")

	res, err := Scan(ev, cfg)
	require.NoError(t, err)
	assert.Empty(t, res.Roots)

	cfg.Start, cfg.End = -0.4, 0.5
	var reps []IntervalReport
	res, err = Scan(ev, cfg, collect(&reps))
	require.NoError(t, err)
	assert.ErrorIs(t, reps[0].Err, ErrOutOfBounds)
	assert.Empty(t, res.Roots)

	cfg.Unbounded = true
	res, err = Scan(ev, cfg)
	require.NoError(t, err)
	require.Len(t, res.Roots, 1)
	assert.InDelta(t, 1, math.Abs(res.Roots[0].X), 1e-4)
}

func TestScan_NoTriggerNoSearch(t *testing.T) {
	calls := 0
	ev := FuncPair{
		F:  func(x float64) float64 { calls++; return x + 10 },
		DF: func(float64) float64 { return 1 },
	}
	res, err := Scan(ev, ScanConfig{Start: 0, End: 1, Step: 0.25, Method: MethodBisection})
	require.NoError(t, err)
	assert.Empty(t, res.Roots)
	assert.NotNil(t, res.Roots)
	assert.Zero(t, res.Stats.Searched)
	// two edge evaluations per interval and nothing else
	assert.Equal(t, 8, calls)
}

func TestScan_Context(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var seen int
	res, err := Scan(mustEvaluator(t, "x - 3.05"), ScanConfig{Start: 0, End: 10, Step: 0.1, Method: MethodBisection},
		WithContext(ctx),
		WithIntervalHook(func(r IntervalReport) {
			seen++
			if r.Outcome == OutcomeFound {
				cancel()
			}
		}))
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, res.Roots, 1)
	assert.InDelta(t, 3.05, res.Roots[0].X, 1e-4)
	assert.Equal(t, 31, seen)
}

func TestScan_InvalidConfig(t *testing.T) {
	ev := mustEvaluator(t, "x")
	tests := []struct {
		name string
		cfg  ScanConfig
		want string
	}{
		{"reversed", ScanConfig{Start: 1, End: 0, Step: 0.1, Method: MethodBisection}, "end must be greater than start"},
		{"empty", ScanConfig{Start: 1, End: 1, Step: 0.1, Method: MethodBisection}, "end must be greater than start"},
		{"zero step", ScanConfig{Start: 0, End: 1, Method: MethodBisection}, "step must be greater than 0"},
		{"negative epsilon", ScanConfig{Start: 0, End: 1, Step: 0.1, Epsilon: -1, Method: MethodBisection}, "epsilon must be greater than 0"},
		{"no method", ScanConfig{Start: 0, End: 1, Step: 0.1}, "method must be at least 1"},
		{"bad method", ScanConfig{Start: 0, End: 1, Step: 0.1, Method: 4}, "method must be at most 3"},
		{"negative max iter", ScanConfig{Start: 0, End: 1, Step: 0.1, Method: MethodSecant, MaxIter: -1}, "maxiter must be at least 0"},
		{"huge max iter", ScanConfig{Start: 0, End: 1, Step: 0.1, Method: MethodNewtonRaphson, MaxIter: MaxIterations + 1}, "maxiter must be at most 1000000"},
		{"bad trigger", ScanConfig{Start: 0, End: 1, Step: 0.1, Method: MethodSecant, Trigger: 5}, "trigger must be at most 1"},
		{"infinite", ScanConfig{Start: math.Inf(-1), End: 1, Step: 0.1, Method: MethodBisection}, "start and end must be finite"},
		{"too many intervals", ScanConfig{Start: 0, End: 1, Step: 1e-9, Method: MethodBisection}, "sub-intervals"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Scan(ev, tt.cfg)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := Scan(nil, ScanConfig{Start: 0, End: 1, Step: 0.1, Method: MethodBisection})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestScanConfig_WithDefaults(t *testing.T) {
	c := ScanConfig{}.WithDefaults()
	assert.Equal(t, DefaultEpsilon, c.Epsilon)
	assert.Equal(t, DefaultMaxIter, c.MaxIter)
	assert.Equal(t, TriggerExtended, c.Trigger)
}

func TestParseEvaluator_Params(t *testing.T) {
	ev, err := ParseEvaluator("a*x^2 - b", "x", map[string]float64{"a": 2, "b": 8})
	require.NoError(t, err)
	assert.Equal(t, "2*x^2 - 8", ev.Expr.String())

	res, err := Scan(ev, ScanConfig{Start: -3, End: 3.5, Step: 0.5, Epsilon: 1e-8, Method: MethodNewtonRaphson})
	require.NoError(t, err)
	require.Len(t, res.Roots, 2)
	assert.InDelta(t, -2, res.Roots[0].X, 1e-8)
	assert.InDelta(t, 2, res.Roots[1].X, 1e-8)

	_, err = ParseEvaluator("a*x", "x", map[string]float64{"x": 1})
	assert.ErrorContains(t, err, "cannot bind x")
	_, err = ParseEvaluator("a*x", "x", nil)
	assert.ErrorContains(t, err, "free symbols other than x: a")
	_, err = ParseEvaluator("pi*x", "x", map[string]float64{"pi": 3})
	assert.ErrorContains(t, err, "built-in constant")
}

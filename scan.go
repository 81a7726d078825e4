package goroots

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/njchilds90/goroots/symbolic"
)

// MaxSubIntervals bounds (end-start)/step and MaxIterations bounds MaxIter.
const (
	MaxSubIntervals = 10_000_000
	MaxIterations   = 1_000_000
)

var validate = validator.New()

// ============================================================
// Configuration
// ============================================================

// ScanConfig describes one scan. Zero Epsilon and MaxIter take the package
// defaults; the zero Trigger is TriggerExtended.
type ScanConfig struct {
	Start     float64 `json:"start" yaml:"start"`
	End       float64 `json:"end" yaml:"end" validate:"gtfield=Start"`
	Step      float64 `json:"step" yaml:"step" validate:"gt=0"`
	Epsilon   float64 `json:"epsilon" yaml:"epsilon" validate:"gt=0"`
	Method    Method  `json:"method" yaml:"method" validate:"min=1,max=3"`
	MaxIter   int     `json:"max_iter" yaml:"max_iter" validate:"gte=0,lte=1000000"`
	Trigger   Trigger `json:"trigger" yaml:"trigger" validate:"min=0,max=1"`
	Unbounded bool    `json:"unbounded" yaml:"unbounded"`
}

// WithDefaults fills zero Epsilon and MaxIter.
func (c ScanConfig) WithDefaults() ScanConfig {
	if c.Epsilon == 0 {
		c.Epsilon = DefaultEpsilon
	}
	if c.MaxIter == 0 {
		c.MaxIter = DefaultMaxIter
	}
	return c
}

// Validate reports every violated constraint in a single ErrInvalidConfig.
func (c ScanConfig) Validate() error {
	var problems []string
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describeField(fe))
		}
	}
	if !finite(c.Start) || !finite(c.End) {
		problems = append(problems, "start and end must be finite")
	} else if c.Step > 0 && (c.End-c.Start)/c.Step > MaxSubIntervals {
		problems = append(problems, fmt.Sprintf("more than %d sub-intervals", MaxSubIntervals))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func describeField(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", name, strings.ToLower(fe.Param()))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte", "min":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	}
	return fmt.Sprintf("%s failed %s", name, fe.Tag())
}

// subIntervals returns how many sub-intervals cover [Start, End]. The last
// one is clipped to End.
func (c ScanConfig) subIntervals() int {
	n := int(math.Ceil((c.End - c.Start) / c.Step))
	for n > 1 && c.Start+float64(n-1)*c.Step >= c.End {
		n--
	}
	return n
}

func (c ScanConfig) search(ev Evaluator, lo, hi float64) (Result, error) {
	var opts []Option
	if c.Unbounded {
		opts = append(opts, WithUnbounded())
	}
	switch c.Method {
	case MethodBisection:
		return Bisection(ev.Eval, lo, hi, c.Epsilon)
	case MethodNewtonRaphson:
		return NewtonRaphson(ev.Eval, ev.EvalDeriv, lo, hi, c.Epsilon, c.MaxIter, opts...)
	case MethodSecant:
		return Secant(ev.Eval, lo, hi, c.Epsilon, c.MaxIter, opts...)
	}
	return Result{}, fmt.Errorf("%w: %d", ErrInvalidMethod, int(c.Method))
}

// ============================================================
// Reports
// ============================================================

// Root is one entry of a scan result. Exact roots sit on a sub-interval edge
// and carry no iteration count.
type Root struct {
	X          float64 `json:"x"`
	Iterations int     `json:"iterations,omitempty"`
	Exact      bool    `json:"exact"`
	Low        float64 `json:"low"`
	High       float64 `json:"high"`
}

// Reason says why a sub-interval was searched.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonSignChange
	ReasonDerivSignChange
)

func (r Reason) String() string {
	switch r {
	case ReasonSignChange:
		return "sign-change"
	case ReasonDerivSignChange:
		return "derivative-sign-change"
	}
	return "none"
}

func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Outcome is what happened in a sub-interval.
type Outcome int

const (
	OutcomeSkipped Outcome = iota
	OutcomeFound
	OutcomeDuplicate
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeFailed:
		return "failed"
	}
	return "skipped"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// IntervalReport describes one visited sub-interval.
type IntervalReport struct {
	Index   int       `json:"index"`
	Low     float64   `json:"low"`
	High    float64   `json:"high"`
	FLow    float64   `json:"-"`
	FHigh   float64   `json:"-"`
	DLow    float64   `json:"-"`
	DHigh   float64   `json:"-"`
	Exact   []float64 `json:"exact,omitempty"`
	Reason  Reason    `json:"reason"`
	Outcome Outcome   `json:"outcome"`
	Root    *Root     `json:"root,omitempty"`
	Err     error     `json:"-"`
}

// Stats counts sub-interval outcomes over a scan.
type Stats struct {
	Intervals  int `json:"intervals"`
	Searched   int `json:"searched"`
	Failed     int `json:"failed"`
	Duplicates int `json:"duplicates"`
	Iterations int `json:"iterations"`
}

// ScanResult holds the unique roots in the order they were found.
type ScanResult struct {
	Roots []Root `json:"roots"`
	Stats Stats  `json:"stats"`
}

// Xs returns the root locations.
func (r ScanResult) Xs() []float64 {
	out := make([]float64, len(r.Roots))
	for i, root := range r.Roots {
		out[i] = root.X
	}
	return out
}

// ============================================================
// Scan
// ============================================================

// ScanOption tunes a single Scan call.
type ScanOption func(*scanOptions)

type scanOptions struct {
	ctx  context.Context
	hook func(IntervalReport)
}

// WithContext lets ctx stop the scan between sub-intervals.
func WithContext(ctx context.Context) ScanOption {
	return func(o *scanOptions) { o.ctx = ctx }
}

// WithIntervalHook calls fn once per sub-interval, in scan order.
func WithIntervalHook(fn func(IntervalReport)) ScanOption {
	return func(o *scanOptions) { o.hook = fn }
}

type scanner struct {
	ev    Evaluator
	cfg   ScanConfig
	roots []Root
	stats Stats
}

// Scan walks [cfg.Start, cfg.End] in steps of cfg.Step and returns the
// roots it finds. Only a bad configuration or a cancelled context produces
// an error; a sub-interval whose search fails is reported through the hook
// and skipped. On cancellation the roots found so far are returned.
func Scan(ev Evaluator, cfg ScanConfig, opts ...ScanOption) (ScanResult, error) {
	if ev == nil {
		return ScanResult{}, fmt.Errorf("%w: nil evaluator", ErrInvalidConfig)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return ScanResult{}, err
	}
	so := scanOptions{ctx: context.Background()}
	for _, opt := range opts {
		opt(&so)
	}

	s := &scanner{ev: ev, cfg: cfg, roots: []Root{}}
	n := cfg.subIntervals()
	for i := 0; i < n; i++ {
		if err := so.ctx.Err(); err != nil {
			return s.result(), err
		}
		lo := cfg.Start + float64(i)*cfg.Step
		hi := math.Min(cfg.Start+float64(i+1)*cfg.Step, cfg.End)
		rep := s.visit(i, lo, hi)
		if so.hook != nil {
			so.hook(rep)
		}
	}
	return s.result(), nil
}

// ScanExpr builds an evaluator for expr and scans it.
func ScanExpr(expr symbolic.Expr, varName string, cfg ScanConfig, opts ...ScanOption) (ScanResult, error) {
	ev, err := NewSymbolicEvaluator(expr, varName)
	if err != nil {
		return ScanResult{}, err
	}
	return Scan(ev, cfg, opts...)
}

func (s *scanner) result() ScanResult {
	return ScanResult{Roots: s.roots, Stats: s.stats}
}

// known reports whether x is within epsilon of a recorded root.
func (s *scanner) known(x float64) bool {
	for _, r := range s.roots {
		if math.Abs(x-r.X) < s.cfg.Epsilon {
			return true
		}
	}
	return false
}

func (s *scanner) visit(i int, lo, hi float64) IntervalReport {
	eps := s.cfg.Epsilon
	rep := IntervalReport{
		Index: i,
		Low:   lo,
		High:  hi,
		FLow:  s.ev.Eval(lo),
		FHigh: s.ev.Eval(hi),
		DLow:  s.ev.EvalDeriv(lo),
		DHigh: s.ev.EvalDeriv(hi),
	}
	s.stats.Intervals++

	for _, edge := range [2]struct{ x, fx float64 }{{lo, rep.FLow}, {hi, rep.FHigh}} {
		if math.Abs(edge.fx) < eps && !s.known(edge.x) {
			s.roots = append(s.roots, Root{X: edge.x, Exact: true, Low: lo, High: hi})
			rep.Exact = append(rep.Exact, edge.x)
		}
	}

	switch {
	case rep.FLow*rep.FHigh < 0:
		rep.Reason = ReasonSignChange
	case s.cfg.Trigger == TriggerExtended && rep.DLow*rep.DHigh < 0:
		rep.Reason = ReasonDerivSignChange
	default:
		return rep
	}

	s.stats.Searched++
	res, err := s.cfg.search(s.ev, lo, hi)
	if err != nil {
		s.stats.Failed++
		rep.Outcome = OutcomeFailed
		rep.Err = err
		return rep
	}
	s.stats.Iterations += res.Iterations
	root := Root{X: res.Root, Iterations: res.Iterations, Low: lo, High: hi}
	rep.Root = &root
	if s.known(res.Root) {
		s.stats.Duplicates++
		rep.Outcome = OutcomeDuplicate
		return rep
	}
	s.roots = append(s.roots, root)
	rep.Outcome = OutcomeFound
	return rep
}

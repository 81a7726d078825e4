package goroots

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"

	"github.com/njchilds90/goroots/symbolic"
)

// ============================================================
// Tool Interface
// ============================================================

type ToolRequest struct {
	Tool   string                 `json:"tool"`
	Params map[string]interface{} `json:"params"`
}

type ToolResponse struct {
	Result interface{} `json:"result,omitempty"`
	LaTeX  string      `json:"latex,omitempty"`
	String string      `json:"string,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// toolParams reads typed values out of a request's params.
type toolParams map[string]interface{}

// expr accepts either source text or the JSON tree form.
func (p toolParams) expr(key string) (symbolic.Expr, error) {
	v, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("missing param: %s", key)
	}
	switch val := v.(type) {
	case string:
		return symbolic.Parse(val)
	case map[string]interface{}:
		return symbolic.Decode(val)
	}
	return nil, fmt.Errorf("param %s must be a string or expression object", key)
}

func (p toolParams) str(key, def string) (string, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("param %s must be a string", key)
	}
	return s, nil
}

func (p toolParams) number(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("missing param: %s", key)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("param %s must be a number", key)
	}
	return f, nil
}

func (p toolParams) numberOr(key string, def float64) (float64, error) {
	if _, ok := p[key]; !ok {
		return def, nil
	}
	return p.number(key)
}

// intIn reads an integer param within [lo, hi].
func (p toolParams) intIn(key string, def, lo, hi int) (int, error) {
	f, err := p.numberOr(key, float64(def))
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("param %s must be an integer", key)
	}
	if f < float64(lo) || f > float64(hi) {
		return 0, fmt.Errorf("param %s must be between %d and %d", key, lo, hi)
	}
	return int(f), nil
}

func (p toolParams) boolOr(key string, def bool) (bool, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("param %s must be a boolean", key)
	}
	return b, nil
}

// method accepts 1..3 or a method name.
func (p toolParams) method(key string, def Method) (Method, error) {
	v, ok := p[key]
	if !ok {
		return def, nil
	}
	switch val := v.(type) {
	case float64:
		n, err := p.intIn(key, 0, int(MethodBisection), int(MethodSecant))
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrInvalidMethod, err)
		}
		return Method(n), nil
	case string:
		return ParseMethod(val)
	}
	return 0, fmt.Errorf("param %s must be a number or string", key)
}

// bindings reads the "params" object of parameter values.
func (p toolParams) bindings() (map[string]float64, error) {
	v, ok := p["params"]
	if !ok {
		return nil, nil
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("param params must be an object")
	}
	out := make(map[string]float64, len(obj))
	for name, raw := range obj {
		f, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("params.%s must be a number", name)
		}
		out[name] = f
	}
	return out, nil
}

// boundExpr reads "expr" and "var" and substitutes "params".
func (p toolParams) boundExpr() (symbolic.Expr, string, error) {
	e, err := p.expr("expr")
	if err != nil {
		return nil, "", err
	}
	v, err := p.str("var", "x")
	if err != nil {
		return nil, "", err
	}
	params, err := p.bindings()
	if err != nil {
		return nil, "", err
	}
	if e, err = BindParams(e, v, params); err != nil {
		return nil, "", err
	}
	return e, v, nil
}

func (p toolParams) evaluator() (*SymbolicEvaluator, error) {
	e, v, err := p.boundExpr()
	if err != nil {
		return nil, err
	}
	return NewSymbolicEvaluator(e, v)
}

// interval reads a, b, epsilon and max_iter for the single-interval tools.
func (p toolParams) interval() (a, b, eps float64, maxIter int, err error) {
	if a, err = p.number("a"); err != nil {
		return
	}
	if b, err = p.number("b"); err != nil {
		return
	}
	if a >= b {
		err = fmt.Errorf("param a must be less than b")
		return
	}
	if eps, err = p.numberOr("epsilon", DefaultEpsilon); err != nil {
		return
	}
	maxIter, err = p.intIn("max_iter", DefaultMaxIter, 0, MaxIterations)
	return
}

func (p toolParams) scanConfig() (ScanConfig, error) {
	var cfg ScanConfig
	var err error
	if cfg.Start, err = p.number("start"); err != nil {
		return cfg, err
	}
	if cfg.End, err = p.number("end"); err != nil {
		return cfg, err
	}
	if cfg.Step, err = p.number("step"); err != nil {
		return cfg, err
	}
	if cfg.Epsilon, err = p.numberOr("epsilon", DefaultEpsilon); err != nil {
		return cfg, err
	}
	if cfg.Method, err = p.method("method", MethodBisection); err != nil {
		return cfg, err
	}
	if cfg.MaxIter, err = p.intIn("max_iter", DefaultMaxIter, 0, MaxIterations); err != nil {
		return cfg, err
	}
	trigger, err := p.str("trigger", "")
	if err != nil {
		return cfg, err
	}
	if cfg.Trigger, err = ParseTrigger(trigger); err != nil {
		return cfg, err
	}
	cfg.Unbounded, err = p.boolOr("unbounded", false)
	return cfg, err
}

func toolError(err error) ToolResponse { return ToolResponse{Error: err.Error()} }

func respondExpr(e symbolic.Expr) ToolResponse {
	return ToolResponse{Result: symbolic.Encode(e), String: e.String(), LaTeX: e.LaTeX()}
}

func respondResult(res Result) ToolResponse {
	return ToolResponse{Result: res, String: fmt.Sprintf("x = %g (%d iterations)", res.Root, res.Iterations)}
}

// HandleToolCall dispatches a JSON tool call. Failures are reported in
// ToolResponse.Error; HandleToolCall never panics on malformed input.
// scanOpts apply to the find_roots scan.
func HandleToolCall(req ToolRequest, scanOpts ...ScanOption) (resp ToolResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = ToolResponse{Error: fmt.Sprintf("internal error: %v", r)}
		}
	}()
	p := toolParams(req.Params)

	switch req.Tool {
	case "find_roots":
		ev, err := p.evaluator()
		if err != nil {
			return toolError(err)
		}
		cfg, err := p.scanConfig()
		if err != nil {
			return toolError(err)
		}
		res, err := Scan(ev, cfg, scanOpts...)
		if err != nil {
			return toolError(err)
		}
		return ToolResponse{Result: res, String: fmt.Sprintf("%d root(s): %v", len(res.Roots), res.Xs())}

	case "bisection", "newton_raphson", "secant":
		ev, err := p.evaluator()
		if err != nil {
			return toolError(err)
		}
		a, b, eps, maxIter, err := p.interval()
		if err != nil {
			return toolError(err)
		}
		unbounded, err := p.boolOr("unbounded", false)
		if err != nil {
			return toolError(err)
		}
		var opts []Option
		if unbounded {
			opts = append(opts, WithUnbounded())
		}
		var res Result
		switch req.Tool {
		case "bisection":
			res, err = Bisection(ev.Eval, a, b, eps)
		case "newton_raphson":
			res, err = NewtonRaphson(ev.Eval, ev.EvalDeriv, a, b, eps, maxIter, opts...)
		default:
			res, err = Secant(ev.Eval, a, b, eps, maxIter, opts...)
		}
		if err != nil {
			return toolError(err)
		}
		return respondResult(res)

	case "diff":
		e, v, err := p.boundExpr()
		if err != nil {
			return toolError(err)
		}
		return respondExpr(symbolic.Diff(e, v))

	case "evaluate":
		ev, err := p.evaluator()
		if err != nil {
			return toolError(err)
		}
		x, err := p.number("at")
		if err != nil {
			return toolError(err)
		}
		fx, dfx := ev.Eval(x), ev.EvalDeriv(x)
		if !finite(fx) || !finite(dfx) {
			return toolError(fmt.Errorf("at x=%g: %w", x, ErrNonFinite))
		}
		return ToolResponse{
			Result: map[string]float64{"f": fx, "df": dfx},
			String: fmt.Sprintf("f(%g) = %g, f'(%g) = %g", x, fx, x, dfx),
		}

	case "poly_info":
		e, v, err := p.boundExpr()
		if err != nil {
			return toolError(err)
		}
		coeffs, err := symbolic.Polynomial(e, v)
		if err != nil {
			return toolError(err)
		}
		info := map[string]interface{}{"degree": len(coeffs) - 1, "coeffs": coeffs}
		if bound, err := symbolic.CauchyBound(coeffs); err == nil {
			info["root_bound"] = bound
		}
		return ToolResponse{Result: info, String: symbolic.Expand(e).String()}

	case "tool_spec":
		return ToolResponse{Result: ToolSpec(), String: "tool specification"}
	}

	return ToolResponse{Error: fmt.Sprintf("unknown tool: %s", req.Tool)}
}

// ============================================================
// Tool schema
// ============================================================

// ToolSpec returns the JSON schema of every tool HandleToolCall accepts.
func ToolSpec() string {
	interval := map[string]string{
		"expr": "string", "var": "string", "a": "number", "b": "number",
		"epsilon": "number", "max_iter": "integer", "unbounded": "boolean", "params": "object",
	}
	tools := []map[string]interface{}{
		ts("find_roots", "Scan [start,end] in fixed steps and return the unique real roots. method: 1|2|3 or bisection|newton|secant",
			[]string{"expr", "start", "end", "step"},
			map[string]string{
				"expr": "string", "var": "string", "start": "number", "end": "number", "step": "number",
				"epsilon": "number", "method": "string", "max_iter": "integer", "trigger": "string", "unbounded": "boolean",
				"params": "object",
			}),
		ts("bisection", "Bisection on [a,b]; f(a) and f(b) must differ in sign", []string{"expr", "a", "b"}, interval),
		ts("newton_raphson", "Newton-Raphson from the midpoint of [a,b]", []string{"expr", "a", "b"}, interval),
		ts("secant", "Secant method seeded with a and b", []string{"expr", "a", "b"}, interval),
		ts("diff", "First derivative d/dvar", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "params": "object"}),
		ts("evaluate", "Evaluate f and f' at a point", []string{"expr", "at"}, map[string]string{"expr": "string", "var": "string", "at": "number", "params": "object"}),
		ts("poly_info", "Degree, coefficients and Cauchy root bound of a polynomial", []string{"expr"}, map[string]string{"expr": "string", "var": "string", "params": "object"}),
		ts("tool_spec", "Return this tool schema", []string{}, map[string]string{}),
	}
	spec := map[string]interface{}{"tools": tools}
	b, _ := json.MarshalIndent(spec, "", "  ")
	return string(b)
}

func ts(name, description string, required []string, props map[string]string) map[string]interface{} {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	properties := map[string]interface{}{}
	for _, k := range keys {
		properties[k] = map[string]interface{}{"type": props[k]}
	}
	return map[string]interface{}{
		"name":        name,
		"description": description,
		"inputSchema": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   required,
		},
	}
}

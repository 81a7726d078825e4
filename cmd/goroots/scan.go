package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/config"
	"github.com/njchilds90/goroots/internal/prompt"
	"github.com/njchilds90/goroots/internal/report"
	"github.com/njchilds90/goroots/symbolic"
)

// autoDomainIntervals is the sub-interval count used when --auto-domain
// picks the domain and no step is given.
const autoDomainIntervals = 200

var (
	flagExpr       string
	flagVar        string
	flagStart      float64
	flagEnd        float64
	flagStep       float64
	flagEpsilon    float64
	flagMethod     string
	flagMaxIter    int
	flagTrigger    string
	flagUnbounded  bool
	flagAutoDomain bool
	flagParams     []string
)

func init() {
	cmd := &cobra.Command{
		Use:   "scan [expr]",
		Short: "Scan an interval for roots",
		Long: `Scan [start, end] in steps of --step. Each sub-interval where f or f'
changes sign is searched with the chosen method; roots closer than
--epsilon are reported once. Without --method the method is prompted for.`,
		Example: `  goroots scan --expr "x^3 - x - 2" --start 0 --end 4 --step 0.1 --method bisection
  goroots scan "(x-1)(x-2)(x-3)" --auto-domain --method 2 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScan,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagExpr, "expr", "e", "", "function of one variable, e.g. \"x^3 - x - 2\"")
	cmd.Flags().StringVar(&flagVar, "var", "x", "variable name")
	cmd.Flags().Float64Var(&flagStart, "start", 0, "start of the domain")
	cmd.Flags().Float64Var(&flagEnd, "end", 0, "end of the domain")
	cmd.Flags().Float64Var(&flagStep, "step", 0, "sub-interval width")
	cmd.Flags().Float64Var(&flagEpsilon, "epsilon", goroots.DefaultEpsilon, "tolerance")
	cmd.Flags().StringVarP(&flagMethod, "method", "m", "", "1|2|3 or bisection|newton|secant (prompted when empty)")
	cmd.Flags().IntVar(&flagMaxIter, "max-iter", goroots.DefaultMaxIter, "iteration cap for newton and secant")
	cmd.Flags().StringVar(&flagTrigger, "trigger", "extended", "search trigger: extended|sign-change")
	cmd.Flags().BoolVar(&flagUnbounded, "unbounded", false, "let newton and secant iterates leave the sub-interval")
	cmd.Flags().BoolVar(&flagAutoDomain, "auto-domain", false, "use the Cauchy root bound of a polynomial as the domain")
	cmd.Flags().StringArrayVarP(&flagParams, "param", "p", nil, "bind a parameter, e.g. -p a=2 (repeatable)")
}

// cliLayer holds only the flags the user actually set, so that an explicit
// zero still overrides the files.
func cliLayer(cmd *cobra.Command, args []string) (config.FileConfig, error) {
	var fc config.FileConfig
	set := cmd.Flags().Changed
	if len(args) == 1 {
		fc.Expr = config.Ptr(args[0])
	} else if set("expr") {
		fc.Expr = config.Ptr(flagExpr)
	}
	if set("var") {
		fc.Var = config.Ptr(flagVar)
	}
	if set("start") {
		fc.Start = config.Ptr(flagStart)
	}
	if set("end") {
		fc.End = config.Ptr(flagEnd)
	}
	if set("step") {
		fc.Step = config.Ptr(flagStep)
	}
	if set("epsilon") {
		fc.Epsilon = config.Ptr(flagEpsilon)
	}
	if set("method") {
		fc.Method = config.Ptr(flagMethod)
	}
	if set("max-iter") {
		fc.MaxIter = config.Ptr(flagMaxIter)
	}
	if set("trigger") {
		fc.Trigger = config.Ptr(flagTrigger)
	}
	if set("unbounded") {
		fc.Unbounded = config.Ptr(flagUnbounded)
	}
	if set("auto-domain") {
		fc.AutoDomain = config.Ptr(flagAutoDomain)
	}
	if set("param") {
		params, err := parseParams(flagParams)
		if err != nil {
			return fc, err
		}
		fc.Params = params
	}
	return fc, nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cli, err := cliLayer(cmd, args)
	if err != nil {
		return err
	}
	layers, err := loadLayers()
	if err != nil {
		return err
	}
	fc := config.Merge(append([]config.FileConfig{cli}, layers...)...)

	log, err := newLogger(cmd, fc)
	if err != nil {
		return err
	}
	if fc.Expr == nil || *fc.Expr == "" {
		return errors.New("no expression: pass --expr or set expr in a config file")
	}
	varName := fc.VarName()
	ev, err := goroots.ParseEvaluator(*fc.Expr, varName, fc.Params)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"f": ev.Expr.String(), "df": ev.Deriv.String()}).Debug("compiled expression")

	cfg, err := fc.ScanConfig()
	if err != nil {
		return err
	}
	if fc.AutoDomain != nil && *fc.AutoDomain {
		if err := applyAutoDomain(&cfg, ev.Expr, varName, fc.Step == nil); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"start": cfg.Start, "end": cfg.End, "step": cfg.Step}).Info("domain from Cauchy bound")
	} else if !fc.HasDomain() {
		return errors.New("no domain: pass --start and --end, or --auto-domain")
	}

	out := cmd.OutOrStdout()
	if cfg.Method == 0 {
		// keep stdout pure JSON
		promptOut := out
		if flagJSON {
			promptOut = cmd.ErrOrStderr()
		}
		m, err := askMethod(cmd.InOrStdin(), promptOut)
		if err != nil {
			return err
		}
		cfg.Method = m
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	text := report.NewText(out, colorFor(out, fc), flagQuiet || flagJSON)
	hook := func(rep goroots.IntervalReport) {
		text.Interval(rep)
		entry := log.WithFields(logrus.Fields{
			"interval": rep.Index,
			"low":      rep.Low,
			"high":     rep.High,
			"reason":   rep.Reason.String(),
			"outcome":  rep.Outcome.String(),
		})
		if rep.Err != nil {
			entry = entry.WithError(rep.Err)
		}
		entry.Debug("interval")
	}

	res, err := goroots.Scan(ev, cfg, goroots.WithContext(ctx), goroots.WithIntervalHook(hook))
	if err != nil && !errors.Is(err, ctx.Err()) {
		return err
	}
	log.WithFields(logrus.Fields{
		"roots":      len(res.Roots),
		"intervals":  res.Stats.Intervals,
		"searched":   res.Stats.Searched,
		"failed":     res.Stats.Failed,
		"duplicates": res.Stats.Duplicates,
	}).Info("scan finished")

	if flagJSON {
		if jerr := report.JSON(out, res); jerr != nil {
			return jerr
		}
	} else {
		text.Summary(res)
	}
	return err
}

// applyAutoDomain sets the domain to the Cauchy bound of a polynomial
// expression. When defaultStep is set the domain is cut into
// autoDomainIntervals pieces.
func applyAutoDomain(cfg *goroots.ScanConfig, expr symbolic.Expr, varName string, defaultStep bool) error {
	coeffs, err := symbolic.Polynomial(expr, varName)
	if err != nil {
		return fmt.Errorf("--auto-domain: %w", err)
	}
	bound, err := symbolic.CauchyBound(coeffs)
	if err != nil {
		return fmt.Errorf("--auto-domain: %w", err)
	}
	cfg.Start, cfg.End = -bound, bound
	if defaultStep {
		cfg.Step = 2 * bound / autoDomainIntervals
	}
	return nil
}

// askMethod prompts on a terminal with a select form and otherwise reads a
// numbered choice from in.
func askMethod(in io.Reader, out io.Writer) (goroots.Method, error) {
	if f, ok := in.(*os.File); ok {
		return prompt.Method(f, out)
	}
	return prompt.Choose(in, out)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/report"
)

var (
	flagEvalVar    string
	flagEvalParams []string
	flagAt         []float64
)

func init() {
	cmd := &cobra.Command{
		Use:     "eval <expr>",
		Short:   "Evaluate f and f' at points",
		Example: `  goroots eval "x^2 - 2" --at 1 --at 1.5`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := parseParams(flagEvalParams)
			if err != nil {
				return err
			}
			ev, err := goroots.ParseEvaluator(args[0], flagEvalVar, params)
			if err != nil {
				return err
			}
			type point struct {
				X  float64 `json:"x"`
				F  float64 `json:"f"`
				DF float64 `json:"df"`
			}
			points := make([]point, 0, len(flagAt))
			for _, x := range flagAt {
				points = append(points, point{X: x, F: ev.Eval(x), DF: ev.EvalDeriv(x)})
			}
			out := cmd.OutOrStdout()
			if flagJSON {
				return report.JSON(out, points)
			}
			fmt.Fprintf(out, "f(%s)  = %s\nf'(%s) = %s\n", ev.Var, ev.Expr, ev.Var, ev.Deriv)
			for _, p := range points {
				fmt.Fprintf(out, "x = %g: f = %g, f' = %g\n", p.X, p.F, p.DF)
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagEvalVar, "var", "x", "variable name")
	cmd.Flags().StringArrayVarP(&flagEvalParams, "param", "p", nil, "bind a parameter, e.g. -p a=2 (repeatable)")
	cmd.Flags().Float64SliceVar(&flagAt, "at", nil, "point to evaluate at (repeatable)")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/report"
	"github.com/njchilds90/goroots/symbolic"
)

var (
	flagDiffVar    string
	flagDiffOrder  int
	flagDiffParams []string
	flagLaTeX      bool
)

func init() {
	cmd := &cobra.Command{
		Use:     "diff <expr>",
		Short:   "Differentiate an expression",
		Example: `  goroots diff "x^3 - x - 2"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, err := symbolic.Parse(args[0])
			if err != nil {
				return err
			}
			if flagDiffOrder < 1 {
				return fmt.Errorf("--order must be at least 1, got %d", flagDiffOrder)
			}
			params, err := parseParams(flagDiffParams)
			if err != nil {
				return err
			}
			if expr, err = goroots.BindParams(expr, flagDiffVar, params); err != nil {
				return err
			}
			d := symbolic.DiffN(expr, flagDiffVar, flagDiffOrder)
			out := cmd.OutOrStdout()
			switch {
			case flagJSON:
				return report.JSON(out, symbolic.Encode(d))
			case flagLaTeX:
				fmt.Fprintln(out, d.LaTeX())
			default:
				fmt.Fprintln(out, d.String())
			}
			return nil
		},
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&flagDiffVar, "var", "x", "variable to differentiate by")
	cmd.Flags().IntVarP(&flagDiffOrder, "order", "n", 1, "derivative order")
	cmd.Flags().StringArrayVarP(&flagDiffParams, "param", "p", nil, "bind a parameter, e.g. -p a=2 (repeatable)")
	cmd.Flags().BoolVar(&flagLaTeX, "latex", false, "print LaTeX")
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/njchilds90/goroots"
	"github.com/njchilds90/goroots/internal/report"
)

func init() {
	cmd := &cobra.Command{
		Use:   "tool [request.json]",
		Short: "Run one JSON tool call from a file or stdin",
		Example: `  echo '{"tool":"find_roots","params":{"expr":"x^2-2","start":0,"end":2,"step":0.5}}' | goroots tool
  goroots tool --spec`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if spec, _ := cmd.Flags().GetBool("spec"); spec {
				fmt.Fprintln(out, goroots.ToolSpec())
				return nil
			}
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			var req goroots.ToolRequest
			if err := json.NewDecoder(in).Decode(&req); err != nil {
				return fmt.Errorf("decode tool request: %w", err)
			}
			resp := goroots.HandleToolCall(req, goroots.WithContext(cmd.Context()))
			if err := report.JSON(out, resp); err != nil {
				return err
			}
			if resp.Error != "" {
				return fmt.Errorf("%s: %s", req.Tool, resp.Error)
			}
			return nil
		},
	}
	cmd.Flags().Bool("spec", false, "print the tool schema and exit")
	rootCmd.AddCommand(cmd)
}

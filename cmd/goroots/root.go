package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/njchilds90/goroots/internal/config"
	"github.com/njchilds90/goroots/internal/logging"
	"github.com/njchilds90/goroots/internal/report"
)

var (
	flagJSON      bool
	flagQuiet     bool
	flagNoColor   bool
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string

	version = "0.1.0"
)

// rootCmd is the base command for the goroots CLI.
var rootCmd = &cobra.Command{
	Use:           "goroots",
	Short:         "Find the real roots of a function over an interval",
	Long:          "goroots scans a domain in fixed steps and runs bisection, Newton-Raphson or the secant method wherever a root may hide.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits 2 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "print only the summary")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./.goroots.yml, then $XDG_CONFIG_HOME/goroots/config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format (text|json)")
}

// loadLayers returns the file layers below the CLI, highest precedence
// first. An explicit --config replaces the local file; a missing one is an
// error.
func loadLayers() ([]config.FileConfig, error) {
	var layers []config.FileConfig
	if flagConfig != "" {
		c, err := config.LoadFile(flagConfig)
		if err != nil {
			return nil, err
		}
		layers = append(layers, c)
	} else if wd, err := os.Getwd(); err == nil {
		if c, err := config.LoadLocal(wd); err == nil {
			layers = append(layers, c)
		}
	}
	if c, err := config.LoadGlobal(); err == nil {
		layers = append(layers, c)
	}
	return layers, nil
}

func newLogger(cmd *cobra.Command, fc config.FileConfig) (*logrus.Logger, error) {
	level, format := flagLogLevel, flagLogFormat
	if level == "" && fc.LogLevel != nil {
		level = *fc.LogLevel
	}
	if format == "" && fc.LogFormat != nil {
		format = *fc.LogFormat
	}
	return logging.New(cmd.ErrOrStderr(), level, format)
}

// colorFor reports whether w gets styled output.
func colorFor(w io.Writer, fc config.FileConfig) bool {
	if flagNoColor || (fc.NoColor != nil && *fc.NoColor) {
		return false
	}
	f, ok := w.(*os.File)
	return ok && report.ColorEnabled(f)
}

// parseParams reads repeated --param name=value flags.
func parseParams(raw []string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for _, kv := range raw {
		name, val, ok := strings.Cut(kv, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("--param %q: want name=value", kv)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("--param %s: %q is not a number", name, val)
		}
		out[name] = f
	}
	return out, nil
}

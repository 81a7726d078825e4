// Package report renders scan progress and results as styled text or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/njchilds90/goroots"
)

// ColorEnabled reports whether output to f should be styled. NO_COLOR
// disables styling.
func ColorEnabled(f *os.File) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

type styles struct {
	dim     lipgloss.Style
	found   lipgloss.Style
	warn    lipgloss.Style
	heading lipgloss.Style
}

func newStyles(r *lipgloss.Renderer, color bool) styles {
	if !color {
		plain := r.NewStyle()
		return styles{dim: plain, found: plain, warn: plain, heading: plain}
	}
	return styles{
		dim:     r.NewStyle().Foreground(lipgloss.Color("245")),
		found:   r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color("214")),
		heading: r.NewStyle().Bold(true).Underline(true),
	}
}

// Text writes the line-oriented report.
type Text struct {
	w     io.Writer
	s     styles
	quiet bool
}

// NewText returns a text renderer. Quiet suppresses the per-interval lines
// and keeps the summary.
func NewText(w io.Writer, color, quiet bool) *Text {
	return &Text{w: w, s: newStyles(lipgloss.NewRenderer(w), color), quiet: quiet}
}

func num(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// Interval prints what happened in one sub-interval. Duplicates and skipped
// intervals print only the header line.
func (t *Text) Interval(rep goroots.IntervalReport) {
	if t.quiet {
		return
	}
	fmt.Fprintln(t.w, t.s.dim.Render(fmt.Sprintf("Checking interval: [%.2f, %.2f]", rep.Low, rep.High)))
	for _, x := range rep.Exact {
		fmt.Fprintln(t.w, t.s.found.Render(fmt.Sprintf("Root found at x = %s (exact root).", num(x))))
	}
	switch rep.Outcome {
	case goroots.OutcomeFound:
		fmt.Fprintln(t.w, t.s.found.Render(fmt.Sprintf("Root found in interval [%s, %s]: %s in %d iterations.",
			num(rep.Low), num(rep.High), num(rep.Root.X), rep.Root.Iterations)))
	case goroots.OutcomeFailed:
		fmt.Fprintln(t.w, t.s.warn.Render(fmt.Sprintf("Method did not converge in interval [%s, %s].",
			num(rep.Low), num(rep.High))))
	}
}

// Summary prints the numbered list of roots.
func (t *Text) Summary(res goroots.ScanResult) {
	fmt.Fprintln(t.w)
	fmt.Fprintln(t.w, t.s.heading.Render("Summary of found roots:"))
	if len(res.Roots) == 0 {
		fmt.Fprintln(t.w, t.s.dim.Render("No roots found."))
		return
	}
	for i, r := range res.Roots {
		line := fmt.Sprintf("Root %d: x = %s", i+1, num(r.X))
		if r.Exact {
			line += " (exact)"
		}
		fmt.Fprintln(t.w, line)
	}
}

// JSON writes v as indented JSON followed by a newline.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

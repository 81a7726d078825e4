// Package prompt asks the user which root-finding method to run.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/njchilds90/goroots"
)

var (
	// ErrInvalidInput: the answer was not an integer.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidChoice: the answer was an integer outside the menu.
	ErrInvalidChoice = errors.New("invalid choice")
)

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Method asks for a method on in/out. A terminal gets a select form; any
// other reader gets the numbered menu.
func Method(in *os.File, out io.Writer) (goroots.Method, error) {
	if IsTerminal(in) {
		return Select(in, out)
	}
	return Choose(in, out)
}

// Select shows a huh select form.
func Select(in io.Reader, out io.Writer) (goroots.Method, error) {
	m := goroots.MethodBisection
	opts := make([]huh.Option[goroots.Method], 0, len(goroots.Methods))
	for _, gm := range goroots.Methods {
		opts = append(opts, huh.NewOption(gm.Title(), gm))
	}
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[goroots.Method]().
			Title("Choose a method to find roots").
			Options(opts...).
			Value(&m),
	)).WithInput(in).WithOutput(out)
	if err := form.Run(); err != nil {
		return 0, err
	}
	return m, nil
}

// Choose prints the numbered menu and reads a single line. A rejected
// answer is reported on out before the error is returned.
func Choose(in io.Reader, out io.Writer) (goroots.Method, error) {
	fmt.Fprintln(out, "Choose a method to find roots:")
	for _, m := range goroots.Methods {
		fmt.Fprintf(out, "%d. %s\n", int(m), m.Title())
	}
	fmt.Fprint(out, "Enter your choice (1/2/3): ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return 0, reject(out, ErrInvalidInput)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, reject(out, ErrInvalidInput)
	}
	m := goroots.Method(n)
	if !m.Valid() {
		return 0, reject(out, ErrInvalidChoice)
	}
	return m, nil
}

var rejectText = map[error]string{
	ErrInvalidInput:  "Invalid input.",
	ErrInvalidChoice: "Invalid choice.",
}

func reject(out io.Writer, err error) error {
	fmt.Fprintf(out, "\n%s\n", rejectText[err])
	return err
}

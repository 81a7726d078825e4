package goroots

import (
	"fmt"
	"strings"
)

// Method selects the root finder used inside each sub-interval. The numeric
// values match the menu shown by the CLI.
type Method int

const (
	MethodBisection Method = iota + 1
	MethodNewtonRaphson
	MethodSecant
)

// Methods lists every method in menu order.
var Methods = []Method{MethodBisection, MethodNewtonRaphson, MethodSecant}

func (m Method) String() string {
	switch m {
	case MethodBisection:
		return "bisection"
	case MethodNewtonRaphson:
		return "newton-raphson"
	case MethodSecant:
		return "secant"
	}
	return fmt.Sprintf("method(%d)", int(m))
}

// Title is the human-readable menu label.
func (m Method) Title() string {
	switch m {
	case MethodBisection:
		return "Bisection Method"
	case MethodNewtonRaphson:
		return "Newton-Raphson Method"
	case MethodSecant:
		return "Secant Method"
	}
	return m.String()
}

func (m Method) Valid() bool { return m >= MethodBisection && m <= MethodSecant }

// ParseMethod accepts a menu number ("1".."3") or a method name.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "bisection":
		return MethodBisection, nil
	case "2", "newton", "newton-raphson", "newton_raphson":
		return MethodNewtonRaphson, nil
	case "3", "secant":
		return MethodSecant, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMethod, s)
}

// MarshalText and UnmarshalText let a Method appear by name in YAML and
// JSON documents.
func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMethod, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(b []byte) error {
	v, err := ParseMethod(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Trigger decides which sub-intervals are searched.
type Trigger int

const (
	// TriggerExtended searches on a sign change of f or of f'. A sign change
	// of f' marks an extremum that may touch zero without f changing sign.
	TriggerExtended Trigger = iota
	// TriggerSignChange searches only when f changes sign.
	TriggerSignChange
)

func (t Trigger) String() string {
	switch t {
	case TriggerExtended:
		return "extended"
	case TriggerSignChange:
		return "sign-change"
	}
	return fmt.Sprintf("trigger(%d)", int(t))
}

// ParseTrigger accepts "extended" or "sign-change". The empty string is
// TriggerExtended.
func ParseTrigger(s string) (Trigger, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "extended":
		return TriggerExtended, nil
	case "sign-change", "sign_change", "minimal":
		return TriggerSignChange, nil
	}
	return 0, fmt.Errorf("%w: unknown trigger %q", ErrInvalidConfig, s)
}

func (t Trigger) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Trigger) UnmarshalText(b []byte) error {
	v, err := ParseTrigger(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

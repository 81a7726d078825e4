package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/njchilds90/goroots"
)

// FileConfig is the on-disk YAML shape of a scan profile. Nil fields are
// unset and fall through to the next layer.
type FileConfig struct {
	Expr      *string  `yaml:"expr"`
	Var       *string  `yaml:"var"`
	Start     *float64 `yaml:"start"`
	End       *float64 `yaml:"end"`
	Step      *float64 `yaml:"step"`
	Epsilon   *float64 `yaml:"epsilon"`
	Method    *string  `yaml:"method"`
	MaxIter   *int     `yaml:"max_iter"`
	Trigger   *string  `yaml:"trigger"`
	Unbounded *bool    `yaml:"unbounded"`

	// AutoDomain replaces start/end with the Cauchy bound of a polynomial.
	AutoDomain *bool `yaml:"auto_domain"`

	// Params binds the free symbols of expr other than var. The map is taken
	// whole from the first layer that sets it.
	Params map[string]float64 `yaml:"params"`

	NoColor   *bool   `yaml:"no_color"`
	LogLevel  *string `yaml:"log_level"`
	LogFormat *string `yaml:"log_format"`
}

var localNames = []string{".goroots.yml", ".goroots.yaml", "goroots.yml", "goroots.yaml"}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadLocal searches dir for .goroots.yml/.yaml or goroots.yml/.yaml, in
// that order.
func LoadLocal(dir string) (FileConfig, error) {
	for _, name := range localNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return FileConfig{}, errors.New("no local config")
}

// LoadGlobal loads $XDG_CONFIG_HOME/goroots/config.yml, falling back to
// ~/.config.
func LoadGlobal() (FileConfig, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return FileConfig{}, errors.New("no config dir")
	}
	p := filepath.Join(base, "goroots", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return FileConfig{}, errors.New("no global config")
}

// Merge returns the field-wise first non-nil value across layers, highest
// precedence first.
func Merge(layers ...FileConfig) FileConfig {
	var out FileConfig
	for _, l := range layers {
		out.Expr = pick(out.Expr, l.Expr)
		out.Var = pick(out.Var, l.Var)
		out.Start = pick(out.Start, l.Start)
		out.End = pick(out.End, l.End)
		out.Step = pick(out.Step, l.Step)
		out.Epsilon = pick(out.Epsilon, l.Epsilon)
		out.Method = pick(out.Method, l.Method)
		out.MaxIter = pick(out.MaxIter, l.MaxIter)
		out.Trigger = pick(out.Trigger, l.Trigger)
		out.Unbounded = pick(out.Unbounded, l.Unbounded)
		out.AutoDomain = pick(out.AutoDomain, l.AutoDomain)
		if out.Params == nil {
			out.Params = l.Params
		}
		out.NoColor = pick(out.NoColor, l.NoColor)
		out.LogLevel = pick(out.LogLevel, l.LogLevel)
		out.LogFormat = pick(out.LogFormat, l.LogFormat)
	}
	return out
}

func pick[T any](have, next *T) *T {
	if have != nil {
		return have
	}
	return next
}

// ScanConfig converts the profile into a goroots.ScanConfig. An unset method
// is left as zero so the caller can prompt for it; nothing is validated here
// beyond the method and trigger names.
func (fc FileConfig) ScanConfig() (goroots.ScanConfig, error) {
	var cfg goroots.ScanConfig
	cfg.Start = deref(fc.Start)
	cfg.End = deref(fc.End)
	cfg.Step = deref(fc.Step)
	cfg.Epsilon = deref(fc.Epsilon)
	cfg.MaxIter = deref(fc.MaxIter)
	cfg.Unbounded = deref(fc.Unbounded)
	if fc.Method != nil && *fc.Method != "" {
		m, err := goroots.ParseMethod(*fc.Method)
		if err != nil {
			return cfg, err
		}
		cfg.Method = m
	}
	t, err := goroots.ParseTrigger(deref(fc.Trigger))
	if err != nil {
		return cfg, err
	}
	cfg.Trigger = t
	return cfg, nil
}

// VarName returns the variable name, "x" when unset.
func (fc FileConfig) VarName() string {
	if fc.Var == nil || *fc.Var == "" {
		return "x"
	}
	return *fc.Var
}

// HasDomain reports whether both start and end are set.
func (fc FileConfig) HasDomain() bool { return fc.Start != nil && fc.End != nil }

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Ptr returns a pointer to v. Flag code uses it to build the CLI layer.
func Ptr[T any](v T) *T { return &v }

// Package logging configures the logrus logger shared by the goroots
// binaries.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Levels lists the accepted --log-level values.
var Levels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}

// Formats lists the accepted --log-format values.
var Formats = []string{"text", "json"}

// New returns a logger writing to w at the given level and format. Empty
// level means warn and empty format means text.
func New(w io.Writer, level, format string) (*logrus.Logger, error) {
	if level == "" {
		level = "warn"
	}
	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("log level %q is not supported, choose from: %s", level, strings.Join(Levels, ", "))
	}

	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(lvl)
	switch strings.ToLower(format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("log format %q is not supported, choose from: %s", format, strings.Join(Formats, ", "))
	}
	return log, nil
}

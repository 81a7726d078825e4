// Package config loads goroots scan profiles from local and global YAML files
// with precedence rules. CLI code layers flag values on top and converts the
// result into a goroots.ScanConfig.
package config

// Package config provides configuration management for the leaptable CLI.
//
// Configuration is layered with koanf: built-in defaults, then
// leaptable.yaml, then LEAPTABLE_* environment variables, then flags that
// were set explicitly on the command line.
package config

import (
	"github.com/leapstack-labs/leaptable/pkg/core"
)

// TargetConfig is an alias for the shared target configuration.
// This allows CLI code to use config.TargetConfig without importing pkg/core.
type TargetConfig = core.TargetConfig

// Config holds all CLI configuration options.
type Config struct {
	Environment       string               `koanf:"environment"`
	Verbose           bool                 `koanf:"verbose"`
	OutputFormat      string               `koanf:"output"`
	StrictIdentifiers bool                 `koanf:"strict_identifiers"`
	Target            *TargetConfig        `koanf:"target"`
	Environments      map[string]EnvConfig `koanf:"environments"`

	// ProjectRoot is the directory relative database paths resolve against.
	ProjectRoot string `koanf:"-"`
}

// EnvConfig holds environment-specific configuration overrides.
type EnvConfig struct {
	Target *TargetConfig `koanf:"target"`
}

// Default configuration values.
const (
	DefaultEnv    = "dev"
	DefaultOutput = "auto" // Auto-detect: TTY=table, non-TTY=markdown
	DefaultStrict = true
)

// OutputFormats lists the accepted values of the output setting.
var OutputFormats = []string{"auto", "table", "json", "csv", "md"}

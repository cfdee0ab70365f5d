// Package config provides the target configuration rules shared by the CLI
// config loader and anything else that resolves a leaptable.yaml.
package config

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/adapter"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"github.com/leapstack-labs/leaptable/pkg/dialect"
)

// DefaultSchemaForType returns the default schema for a database type.
// It looks up the dialect in the registry; types without a default schema
// (mysql uses the connected database) return "".
func DefaultSchemaForType(dbType string) string {
	if d, ok := dialect.Get(dbType); ok {
		return d.DefaultSchema
	}
	return ""
}

// ValidateTarget checks if the target configuration is valid.
// It uses the adapter registry to determine which adapter types are available.
func ValidateTarget(t *core.TargetConfig) error {
	if t == nil {
		return fmt.Errorf("target is required")
	}
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}

	// Use adapter registry as single source of truth
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}

	if IsNetworkType(t.Type) && t.Database == "" {
		return fmt.Errorf("target.database is required for %s", t.Type)
	}
	return nil
}

// IsFileType reports whether the target stores its data in a local file.
func IsFileType(dbType string) bool {
	switch strings.ToLower(dbType) {
	case "sqlite", "duckdb":
		return true
	}
	return false
}

// IsNetworkType reports whether the target is reached over the network.
func IsNetworkType(dbType string) bool {
	switch strings.ToLower(dbType) {
	case "postgres", "mysql":
		return true
	}
	return false
}

package config

import (
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// Default target values.
const (
	DefaultType         = "sqlite"
	DefaultPostgresPort = 5432
	DefaultMySQLPort    = 3306
	MemoryDatabase      = ":memory:"
)

// ApplyTargetDefaults applies default values to a TargetConfig based on the target type.
func ApplyTargetDefaults(t *core.TargetConfig) {
	if t == nil {
		return
	}

	if t.Type == "" {
		t.Type = DefaultType
	}
	t.Type = strings.ToLower(t.Type)

	// Apply default schema based on type
	if t.Schema == "" {
		t.Schema = DefaultSchemaForType(t.Type)
	}

	// Apply type-specific defaults
	switch t.Type {
	case "postgres":
		if t.Port == 0 {
			t.Port = DefaultPostgresPort
		}
	case "mysql":
		if t.Port == 0 {
			t.Port = DefaultMySQLPort
		}
	case "sqlite", "duckdb":
		if t.Database == "" {
			t.Database = MemoryDatabase
		}
	}
}

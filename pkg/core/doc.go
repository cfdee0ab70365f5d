// Package core defines the shared language of leaptable.
//
// This package contains:
//   - The scalar value model (Value, ColumnValueSet, ConditionSet, Row)
//   - Generated statements and query results (Statement, ResultSet)
//   - Error kinds shared by the generator and the table service
//   - Configuration types (AdapterConfig, TargetConfig, DialectConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib and yaml.v3.
// All other packages depend on core, not the reverse.
package core

// Package dialect describes the per-database details the table service needs:
// placeholder style, default schema, the SQL of the two existence probes and
// whether read-only transactions are supported.
package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leaptable/pkg/core"
)

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	core.DialectConfig
}

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	d *Dialect
}

// NewDialect starts building a dialect with question-mark placeholders.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{DialectConfig: core.DialectConfig{
		Name:        name,
		Placeholder: core.PlaceholderQuestion,
	}}}
}

// DefaultSchema sets the schema used for unqualified table names.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.d.DefaultSchema = schema
	return b
}

// PlaceholderStyle sets how query parameters are formatted.
func (b *Builder) PlaceholderStyle(style core.PlaceholderStyle) *Builder {
	b.d.Placeholder = style
	return b
}

// Probes sets the describe and listing probes used by existence checks.
// describe is a format string with one %s verb for the table name.
func (b *Builder) Probes(describe, list string) *Builder {
	b.d.DescribeProbe = describe
	b.d.ListProbe = list
	return b
}

// ListBySchema makes the listing probe take the schema as a second parameter.
func (b *Builder) ListBySchema() *Builder {
	b.d.ListBySchema = true
	return b
}

// ReadOnlyTx marks the dialect as accepting read-only transactions.
func (b *Builder) ReadOnlyTx(ok bool) *Builder {
	b.d.ReadOnlyTx = ok
	return b
}

// Build returns the dialect.
func (b *Builder) Build() *Dialect {
	return b.d
}

// FormatPlaceholder returns a placeholder for the given parameter index (1-based).
// Returns "?" for PlaceholderQuestion style, "$1", "$2" etc. for PlaceholderDollar style.
func (d *Dialect) FormatPlaceholder(index int) string {
	switch d.Placeholder {
	case core.PlaceholderDollar:
		return "$" + strconv.Itoa(index)
	default: // PlaceholderQuestion
		return "?"
	}
}

// Rebind rewrites the ? placeholders of query into the dialect's style.
// Question marks inside quoted literals, quoted identifiers, line comments
// and block comments are left alone.
func (d *Dialect) Rebind(query string) string {
	if d == nil || d.Placeholder == core.PlaceholderQuestion {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		c := query[i]
		end := -1
		switch {
		case c == '\'' || c == '"' || c == '`':
			if j := strings.IndexByte(query[i+1:], c); j >= 0 {
				end = i + 1 + j + 1
			} else {
				end = len(query)
			}
		case c == '-' && strings.HasPrefix(query[i:], "--"):
			if j := strings.IndexByte(query[i:], '\n'); j >= 0 {
				end = i + j + 1
			} else {
				end = len(query)
			}
		case c == '/' && strings.HasPrefix(query[i:], "/*"):
			if j := strings.Index(query[i+2:], "*/"); j >= 0 {
				end = i + 2 + j + 2
			} else {
				end = len(query)
			}
		case c == '?':
			n++
			sb.WriteString(d.FormatPlaceholder(n))
			continue
		}
		if end >= 0 {
			sb.WriteString(query[i:end])
			i = end - 1
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// DescribeSQL returns the describe probe for table.
func (d *Dialect) DescribeSQL(table string) string {
	return fmt.Sprintf(d.DescribeProbe, table)
}

// ListSQL returns the listing probe and its arguments for table. Dialects
// without ListBySchema match qualified names on their table part only.
func (d *Dialect) ListSQL(table string) (string, []any) {
	schema, name, qualified := strings.Cut(table, ".")
	if !qualified {
		name = table
	}
	if !d.ListBySchema {
		return d.ListProbe, []any{name}
	}
	if !qualified {
		return d.ListProbe, []any{name, nil}
	}
	return d.ListProbe, []any{name, schema}
}

// ParseQualifiedName splits a table reference into schema and name.
// Uses the dialect's default schema if not specified.
func ParseQualifiedName(table string, d *Dialect) (schema, name string) {
	if parts := strings.Split(table, "."); len(parts) == 2 {
		return parts[0], parts[1]
	}
	if d == nil {
		return "", table
	}
	return d.DefaultSchema, table
}

package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/leaptable/pkg/core"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// RenderResultSet writes rs in the renderer's mode. JSON output is an array
// of objects whose keys keep the column order.
func (r *Renderer) RenderResultSet(rs *core.ResultSet) error {
	if rs == nil {
		rs = &core.ResultSet{}
	}

	switch r.mode {
	case ModeJSON:
		return r.RenderJSON(rowObjects(rs))
	case ModeCSV:
		return r.renderCSV(rs)
	case ModeMarkdown:
		return r.renderTable(rs, true)
	default:
		return r.renderTable(rs, false)
	}
}

// RenderJSON writes v as indented JSON.
func (r *Renderer) RenderJSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RenderMetadata writes column metadata for a table.
func (r *Renderer) RenderMetadata(meta *core.TableMetadata) error {
	if r.mode == ModeJSON {
		return r.RenderJSON(meta)
	}

	rs := &core.ResultSet{Columns: []string{"column", "type", "nullable", "primary_key"}}
	for _, col := range meta.Columns {
		rs.Rows = append(rs.Rows, core.Row{
			core.String(col.Name),
			core.String(col.Type),
			core.Bool(col.Nullable),
			core.Bool(col.PrimaryKey),
		})
	}

	if r.mode != ModeCSV {
		name := meta.Name
		if meta.Schema != "" {
			name = meta.Schema + "." + meta.Name
		}
		r.Header(1, fmt.Sprintf("Table %s (%d rows)", name, meta.RowCount))
		r.Println("")
	}
	return r.RenderResultSet(rs)
}

// StatusLabel returns a title-cased label such as "Exists".
func StatusLabel(s string) string {
	return titleCaser.String(s)
}

func (r *Renderer) renderTable(rs *core.ResultSet, markdown bool) error {
	if len(rs.Columns) == 0 {
		r.Println("(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(rs.Columns))
	for i, col := range rs.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range rs.Rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v.String()
		}
		t.AppendRow(tr)
	}

	if markdown {
		t.RenderMarkdown()
	} else {
		t.Render()
	}
	r.Println(rowCount(len(rs.Rows)))
	return nil
}

func (r *Renderer) renderCSV(rs *core.ResultSet) error {
	cw := csv.NewWriter(r.w)
	if err := cw.Write(rs.Columns); err != nil {
		return err
	}
	for _, row := range rs.Rows {
		rec := make([]string, len(row))
		for i, v := range row {
			if v.IsNull() {
				continue
			}
			rec[i] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func rowCount(n int) string {
	if n == 1 {
		return "(1 row)"
	}
	return "(" + strconv.Itoa(n) + " rows)"
}

// rowObjects converts rows to ordered column sets so JSON keys follow the
// column order.
func rowObjects(rs *core.ResultSet) []*core.ColumnValueSet {
	out := make([]*core.ColumnValueSet, 0, len(rs.Rows))
	for _, row := range rs.Rows {
		set := &core.ColumnValueSet{}
		for i, col := range rs.Columns {
			if i < len(row) {
				_ = set.Set(col, row[i])
			}
		}
		out = append(out, set)
	}
	return out
}

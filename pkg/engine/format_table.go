package engine

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/bisegni/jframe/pkg/frame"
)

// FormatTableRows renders a table as aligned text with a leading row number column
func FormatTableRows(t *frame.Table) string {
	tableHeaders := table.Row{""}
	for _, name := range t.Names() {
		tableHeaders = append(tableHeaders, name)
	}

	var tableRows []table.Row
	for i := 0; i < t.Height(); i++ {
		row := table.Row{i + 1}
		for _, v := range t.Row(i) {
			row = append(row, formatCell(v))
		}
		tableRows = append(tableRows, row)
	}

	tw := table.NewWriter()
	tw.AppendHeader(tableHeaders)
	tw.AppendRows(tableRows)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	tw.Style().Options.DrawBorder = false
	tw.SuppressTrailingSpaces()
	return tw.Render() + "\n"
}

// FormatSchema renders row count, the schema tree and null counts of a table
func FormatSchema(t *frame.Table) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("rows: %d\n", t.Height()))
	sb.WriteString(frame.FormatSchema(t.Schema()))

	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"column", "type", "nulls"})
	for _, col := range t.Columns() {
		tw.AppendRow(table.Row{col.Name(), col.DataType(), col.NullN()})
	}
	tw.SetStyle(table.StyleLight)
	tw.Style().Format = table.FormatOptions{
		Footer: text.FormatDefault,
		Header: text.FormatDefault,
		Row:    text.FormatDefault,
	}
	tw.Style().Options.DrawBorder = false
	tw.SuppressTrailingSpaces()
	sb.WriteString(tw.Render())
	sb.WriteString("\n")
	return sb.String()
}

func formatCell(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return "null"
	case *frame.Column:
		b, err := x.MarshalJSON()
		if err != nil {
			return x.String()
		}
		return string(b)
	case frame.OrderedMap:
		return x.String()
	}
	return v
}

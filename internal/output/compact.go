package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MetricsCompact renders per-column metrics one line per column.
func MetricsCompact(w io.Writer, rows []MetricsRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No columns found.")
		return
	}

	for _, r := range rows {
		m := r.Metrics
		line := columnLabel(r.ID, r.Title) +
			" cards:" + strconv.Itoa(m.CardCount) +
			" avg:" + strconv.FormatFloat(m.AvgCardTitleLength, 'f', 1, 64) +
			" complexity:" + strconv.FormatFloat(m.ComplexityScore, 'f', 1, 64) +
			" optimal:" + strconv.Itoa(r.OptimalWidth)
		if flags := flagNames(m); len(flags) > 0 {
			line += " (" + strings.Join(flags, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// WidthsCompact renders a widths report one line per column after a summary.
func WidthsCompact(w io.Writer, r WidthReport) {
	summary := "available:" + strconv.Itoa(r.Available) + " optimal:" + strconv.Itoa(r.Optimal)
	if r.Overflow {
		summary += " overflow"
	}
	fmt.Fprintln(w, summary)

	for _, c := range r.Columns {
		fmt.Fprintf(w, "%s %d -> %d\n", columnLabel(c.ID, c.Title), c.Optimal, c.Distributed)
	}
}

// LayoutCompact renders the verdict on one line, then one line per column.
func LayoutCompact(w io.Writer, r LayoutReport) {
	line := r.Layout.Mode.String() +
		" viewport:" + strconv.Itoa(r.Viewport.Width) +
		" per_row:" + strconv.Itoa(r.Layout.ColumnsPerRow) +
		" row_width:" + strconv.Itoa(r.RowWidth)
	if r.Layout.Mode.Uniform() {
		line += " column_width:" + strconv.FormatFloat(r.Layout.ColumnWidth, 'f', -1, 64)
	}
	fmt.Fprintln(w, line)

	for _, c := range r.Columns {
		d := c.Dimensions
		fmt.Fprintf(w, "%s %d [%d..%d] content:%d\n",
			columnLabel(c.ID, c.Title), d.CalculatedWidth, d.MinWidth, d.MaxWidth, d.ContentWidth)
	}
}

// ClassifyCompact renders a classifier verdict on one line.
func ClassifyCompact(w io.Writer, r ClassifyReport) {
	fmt.Fprintf(w, "%s per_row:%d column_width:%s\n",
		r.Mode, r.ColumnsPerRow, strconv.FormatFloat(r.ColumnWidth, 'f', -1, 64))
}

// columnLabel prints the ID, and the title when it differs.
func columnLabel(id, title string) string {
	if title == "" || title == id {
		return id
	}
	return id + " [" + truncate(title, maxTitle) + "]"
}

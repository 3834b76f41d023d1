package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/antopolskiy/kanban-layout/internal/layout"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
)

const maxTitle = 32

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	warnStyle = lipgloss.NewStyle()
}

// MetricsTable renders per-column content metrics.
func MetricsTable(w io.Writer, rows []MetricsRow) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No columns found.")
		return
	}

	colW := len("COLUMN")
	for _, r := range rows {
		colW = max(colW, lipgloss.Width(truncate(r.Title, maxTitle)))
	}

	header := strings.Join([]string{
		pad("COLUMN", colW), padLeft("CARDS", 5), padLeft("AVG TITLE", 9),
		padLeft("COMPLEXITY", 10), padLeft("OPTIMAL", 7), "FLAGS",
	}, "  ")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, r := range rows {
		m := r.Metrics
		fmt.Fprintln(w, strings.Join([]string{
			pad(truncate(r.Title, maxTitle), colW),
			padLeft(strconv.Itoa(m.CardCount), 5),
			padLeft(strconv.FormatFloat(m.AvgCardTitleLength, 'f', 1, 64), 9),
			padLeft(strconv.FormatFloat(m.ComplexityScore, 'f', 1, 64), 10),
			padLeft(strconv.Itoa(r.OptimalWidth), 7),
			flagsOrDash(m),
		}, "  "))
	}
}

// WidthsTable renders optimal and distributed widths for a budget.
func WidthsTable(w io.Writer, r WidthReport) {
	if len(r.Columns) == 0 {
		fmt.Fprintln(os.Stderr, "No columns found.")
		return
	}

	colW := len("COLUMN")
	for _, c := range r.Columns {
		colW = max(colW, lipgloss.Width(truncate(c.Title, maxTitle)))
	}

	header := strings.Join([]string{pad("COLUMN", colW), padLeft("OPTIMAL", 7), padLeft("WIDTH", 7)}, "  ")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, c := range r.Columns {
		width := strconv.Itoa(c.Distributed)
		if c.Distributed < c.Optimal {
			width = warnStyle.Render(width)
		}
		fmt.Fprintln(w, strings.Join([]string{
			pad(truncate(c.Title, maxTitle), colW),
			padLeft(strconv.Itoa(c.Optimal), 7),
			padLeft(width, 7),
		}, "  "))
	}

	fmt.Fprintln(w)
	summary := fmt.Sprintf("Optimal total %dpx, available %dpx", r.Optimal, r.Available)
	if r.Overflow {
		summary += " " + warnStyle.Render("(overflow, scaled down)")
	}
	fmt.Fprintln(w, summary)
}

// LayoutTable renders a full recomputation: the classifier verdict followed
// by the dimensions of every column.
func LayoutTable(w io.Writer, r LayoutReport) {
	if r.Board != "" {
		fmt.Fprintln(w, titleStyle.Render(r.Board))
	}
	printField(w, "Layout", r.Layout.Mode.String())
	printField(w, "Viewport", viewportString(r.Viewport))
	printField(w, "Per row", strconv.Itoa(r.Layout.ColumnsPerRow))
	if r.Layout.Mode.Uniform() {
		printField(w, "Col width", formatPixels(r.Layout.ColumnWidth))
	}
	printField(w, "Row width", strconv.Itoa(r.RowWidth)+"px")

	if len(r.Columns) == 0 {
		return
	}
	fmt.Fprintln(w)

	colW := len("COLUMN")
	for _, c := range r.Columns {
		colW = max(colW, lipgloss.Width(truncate(c.Title, maxTitle)))
	}
	header := strings.Join([]string{
		pad("COLUMN", colW), padLeft("MIN", 5), padLeft("MAX", 5),
		padLeft("WIDTH", 5), padLeft("CONTENT", 7),
	}, "  ")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, c := range r.Columns {
		d := c.Dimensions
		content := strconv.Itoa(d.ContentWidth)
		if d.ContentWidth == d.CalculatedWidth {
			content = dimStyle.Render(content)
		}
		fmt.Fprintln(w, strings.Join([]string{
			pad(truncate(c.Title, maxTitle), colW),
			padLeft(strconv.Itoa(d.MinWidth), 5),
			padLeft(strconv.Itoa(d.MaxWidth), 5),
			padLeft(strconv.Itoa(d.CalculatedWidth), 5),
			padLeft(content, 7),
		}, "  "))
	}
}

// ClassifyTable renders a classifier verdict with its inputs.
func ClassifyTable(w io.Writer, r ClassifyReport) {
	printField(w, "Columns", strconv.Itoa(r.Columns))
	printField(w, "Viewport", viewportString(r.Viewport))
	printField(w, "Layout", titleStyle.Render(r.Mode.String()))
	printField(w, "Per row", strconv.Itoa(r.ColumnsPerRow))
	printField(w, "Col width", formatPixels(r.ColumnWidth))
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

func viewportString(vp layout.Viewport) string {
	s := strconv.Itoa(vp.Width) + "px"
	var hints []string
	if vp.Mobile {
		hints = append(hints, "mobile")
	}
	if vp.Landscape {
		hints = append(hints, "landscape")
	}
	if len(hints) > 0 {
		s += " " + dimStyle.Render("("+strings.Join(hints, ", ")+")")
	}
	return s
}

// formatPixels prints whole pixel counts without a fraction.
func formatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// flagNames lists the content flags that are set, in a fixed order.
func flagNames(m layout.ContentMetrics) []string {
	var flags []string
	if m.HasLongDescriptions {
		flags = append(flags, "long-desc")
	}
	if m.HasMultipleTags {
		flags = append(flags, "tags")
	}
	if m.HasAssignees {
		flags = append(flags, "assignees")
	}
	if m.HasDueDates {
		flags = append(flags, "due")
	}
	return flags
}

func flagsOrDash(m layout.ContentMetrics) string {
	flags := flagNames(m)
	if len(flags) == 0 {
		return dimStyle.Render("--")
	}
	return strings.Join(flags, ",")
}

// pad right-pads s to width visible cells; ANSI sequences do not count.
func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func padLeft(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return strings.Repeat(" ", gap) + s
	}
	return s
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	const ellipsis = 3
	return string(r[:n-ellipsis]) + "..."
}

package layout

import (
	"math"
	"time"

	"github.com/antopolskiy/kanban-layout/internal/debounce"
)

// ColumnDimensions is the sizing triple a renderer applies to one column,
// plus the content-driven width for reference.
type ColumnDimensions struct {
	MinWidth        int `json:"min_width"`
	MaxWidth        int `json:"max_width"`
	CalculatedWidth int `json:"calculated_width"`
	ContentWidth    int `json:"content_width"`
}

// ColumnResult pairs a column with its metrics and dimensions.
type ColumnResult struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Metrics    ContentMetrics   `json:"metrics"`
	Dimensions ColumnDimensions `json:"dimensions"`
}

// Result is the output of one recomputation. Columns keep input order.
type Result struct {
	Layout  ResponsiveLayout `json:"layout"`
	Columns []ColumnResult   `json:"columns"`
}

// TotalWidth is the pixel width of the widest rendered row, gaps included.
// Desktop boards never wrap, so all columns form one row.
func (r Result) TotalWidth(gap int) int {
	perRow := max(r.Layout.ColumnsPerRow, 1)
	if r.Layout.Mode == ModeDesktop {
		perRow = max(len(r.Columns), 1)
	}

	widest, row := 0, 0
	for i, c := range r.Columns {
		if i%perRow == 0 {
			row = 0
		} else {
			row += gap
		}
		row += c.Dimensions.CalculatedWidth
		widest = max(widest, row)
	}
	return widest
}

// Recompute classifies the viewport and sizes every column.
//
// Uniform modes give every column the classifier's width. In desktop mode
// each column is sized from its content and the widths are reconciled with
// the available width (viewport minus padding). Gaps are not charged to
// the columns; TotalWidth accounts for them.
func Recompute(cols []Column, vp Viewport, opts LayoutOptions) Result {
	rl := GetResponsiveLayout(len(cols), vp, opts)
	res := Result{Layout: rl, Columns: make([]ColumnResult, len(cols))}

	optimal := make([]int, len(cols))
	for i, col := range cols {
		m := AnalyzeColumnContent(col)
		optimal[i] = CalculateOptimalWidth(m, opts.Width)
		res.Columns[i] = ColumnResult{ID: col.ID, Title: col.Title, Metrics: m}
	}

	if rl.Mode.Uniform() {
		w := int(math.Floor(rl.ColumnWidth))
		for i := range res.Columns {
			res.Columns[i].Dimensions = ColumnDimensions{
				MinWidth:        w,
				MaxWidth:        w,
				CalculatedWidth: w,
				ContentWidth:    optimal[i],
			}
		}
		return res
	}

	widths := distribute(optimal, max(vp.Width-opts.Padding, 0), opts.Width.MinWidth)
	minW := int(math.Ceil(opts.Width.MinWidth))
	maxW := int(math.Floor(opts.Width.MaxWidth))
	for i := range res.Columns {
		res.Columns[i].Dimensions = ColumnDimensions{
			MinWidth:        minW,
			MaxWidth:        maxW,
			CalculatedWidth: widths[i],
			ContentWidth:    optimal[i],
		}
	}
	return res
}

// NewDebouncedCalculator returns a trigger that coalesces bursts of calls
// into one invocation of fn, delay after the last call.
func NewDebouncedCalculator(fn func(), delay time.Duration) func() {
	return debounce.New(delay, fn).Trigger
}

package output

import "github.com/antopolskiy/kanban-layout/internal/layout"

// MetricsRow is one column of an analyze report.
type MetricsRow struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Metrics      layout.ContentMetrics `json:"metrics"`
	OptimalWidth int                   `json:"optimal_width"`
}

// WidthRow is one column of a widths report.
type WidthRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Optimal     int    `json:"optimal"`
	Distributed int    `json:"distributed"`
}

// WidthReport compares optimal widths with their distribution over a budget.
type WidthReport struct {
	Available int        `json:"available"`
	Optimal   int        `json:"optimal_total"`
	Overflow  bool       `json:"overflow"`
	Columns   []WidthRow `json:"columns"`
}

// LayoutReport is a full recomputation for one board and viewport.
type LayoutReport struct {
	Board      string          `json:"board,omitempty"`
	Viewport   layout.Viewport `json:"viewport"`
	RowWidth   int             `json:"total_width"`
	layout.Result
}

// ClassifyReport is the classifier verdict with the inputs that produced it.
type ClassifyReport struct {
	Columns  int             `json:"columns"`
	Viewport layout.Viewport `json:"viewport"`
	layout.ResponsiveLayout
}

// NewMetricsRows analyzes every column and attaches its optimal width.
func NewMetricsRows(cols []layout.Column, cfg layout.WidthConfig) []MetricsRow {
	rows := make([]MetricsRow, len(cols))
	for i, col := range cols {
		m := layout.AnalyzeColumnContent(col)
		rows[i] = MetricsRow{
			ID:           col.ID,
			Title:        col.Title,
			Metrics:      m,
			OptimalWidth: layout.CalculateOptimalWidth(m, cfg),
		}
	}
	return rows
}

// NewWidthReport pairs each column's optimal width with its share of
// available.
func NewWidthReport(cols []layout.Column, available int, cfg layout.WidthConfig) WidthReport {
	optimal := layout.OptimalWidths(cols, cfg)
	distributed := layout.DistributeWidthProportionally(cols, available, cfg)

	r := WidthReport{Available: available, Columns: make([]WidthRow, len(cols))}
	for i, col := range cols {
		r.Optimal += optimal[col.ID]
		r.Columns[i] = WidthRow{
			ID:          col.ID,
			Title:       col.Title,
			Optimal:     optimal[col.ID],
			Distributed: distributed[col.ID],
		}
	}
	r.Overflow = r.Optimal > available
	return r
}

// NewLayoutReport recomputes the layout of a board for one viewport.
func NewLayoutReport(name string, cols []layout.Column, vp layout.Viewport, opts layout.LayoutOptions) LayoutReport {
	res := layout.Recompute(cols, vp, opts)
	return LayoutReport{
		Board:    name,
		Viewport: vp,
		RowWidth: res.TotalWidth(opts.Gap),
		Result:   res,
	}
}

// NewClassifyReport classifies vp for a board of columns columns.
func NewClassifyReport(columns int, vp layout.Viewport, opts layout.LayoutOptions) ClassifyReport {
	return ClassifyReport{
		Columns:          columns,
		Viewport:         vp,
		ResponsiveLayout: layout.GetResponsiveLayout(columns, vp, opts),
	}
}

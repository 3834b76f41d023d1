package layout

import "math"

// OptimalWidths returns each column's content-driven width, keyed by ID.
func OptimalWidths(cols []Column, cfg WidthConfig) map[string]int {
	out := make(map[string]int, len(cols))
	for _, col := range cols {
		out[col.ID] = CalculateOptimalWidth(AnalyzeColumnContent(col), cfg)
	}
	return out
}

// DistributeWidthProportionally fits the columns' optimal widths into the
// available pixel budget.
//
// When everything fits, every column keeps its optimal width and the spare
// space is left to the renderer. Otherwise columns shrink in proportion to
// their optimal widths but never below cfg.MinWidth, so the result may still
// exceed available when there are many columns.
func DistributeWidthProportionally(cols []Column, available int, cfg WidthConfig) map[string]int {
	optimal := make([]int, len(cols))
	for i, col := range cols {
		optimal[i] = CalculateOptimalWidth(AnalyzeColumnContent(col), cfg)
	}

	widths := distribute(optimal, available, cfg.MinWidth)
	out := make(map[string]int, len(cols))
	for i, col := range cols {
		out[col.ID] = widths[i]
	}
	return out
}

// distribute is the positional core of DistributeWidthProportionally.
func distribute(optimal []int, available int, minWidth float64) []int {
	out := make([]int, len(optimal))
	total := 0
	for _, w := range optimal {
		total += w
	}

	if total <= available {
		copy(out, optimal)
		return out
	}

	floor := int(math.Ceil(minWidth))
	budget := float64(max(available, 0))
	for i, w := range optimal {
		share := 0
		if total > 0 {
			share = int(math.Round(budget * float64(w) / float64(total)))
		}
		out[i] = max(floor, share)
	}
	return out
}

// Package layout computes adaptive kanban column widths and responsive
// layout modes from a read-only snapshot of board columns.
//
// Everything in this package is pure: no I/O, no shared mutable state, and
// identical input always produces identical output. The rendering surfaces
// (terminal preview, HTTP service, CLI) own the snapshot and apply the
// returned dimensions.
package layout

import "unicode/utf8"

// Card flag thresholds. A card "counts" toward a flag when it passes the
// per-card predicate; the column flag is set when the share of such cards is
// strictly greater than the ratio.
const (
	longDescriptionChars = 100
	multipleTagsCount    = 2

	longDescriptionRatio = 0.3
	multipleTagsRatio    = 0.2
	assigneesRatio       = 0.5
	dueDatesRatio        = 0.3
)

// Card is a unit of work on the board. Only lengths and presence are read.
type Card struct {
	Title       string   `json:"title" yaml:"title" toml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`
	Assignee    string   `json:"assignee,omitempty" yaml:"assignee,omitempty" toml:"assignee"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty" toml:"tags"`
	Due         string   `json:"due,omitempty" yaml:"due,omitempty" toml:"due"`
}

// Column is a named lane holding an ordered list of cards.
type Column struct {
	ID    string `json:"id" yaml:"id" toml:"id"`
	Title string `json:"title" yaml:"title" toml:"title"`
	Cards []Card `json:"cards" yaml:"cards" toml:"cards"`
}

// ContentMetrics summarizes how heavy a column's content is.
type ContentMetrics struct {
	TitleLength         int     `json:"title_length"`
	CardCount           int     `json:"card_count"`
	AvgCardTitleLength  float64 `json:"avg_card_title_length"`
	ComplexityScore     float64 `json:"complexity_score"`
	HasLongDescriptions bool    `json:"has_long_descriptions"`
	HasMultipleTags     bool    `json:"has_multiple_tags"`
	HasAssignees        bool    `json:"has_assignees"`
	HasDueDates         bool    `json:"has_due_dates"`
}

// AnalyzeColumnContent reduces a column to its content metrics.
//
// The complexity weights always come from DefaultWidthConfig, whatever
// configuration the caller later passes to CalculateOptimalWidth. Content
// classification stays global; only the pixel mapping is configurable.
func AnalyzeColumnContent(col Column) ContentMetrics {
	m := ContentMetrics{
		TitleLength: utf8.RuneCountInString(col.Title),
		CardCount:   len(col.Cards),
	}
	if m.CardCount == 0 {
		return m
	}

	w := DefaultWidthConfig()

	var (
		titleTotal int
		longDescs  int
		multiTags  int
		assignees  int
		dueDates   int
		complexity float64
	)
	for _, c := range col.Cards {
		titleLen := utf8.RuneCountInString(c.Title)
		descLen := utf8.RuneCountInString(c.Description)
		titleTotal += titleLen

		complexity += float64(titleLen) * w.TitleWeight
		complexity += float64(descLen) * w.DescriptionWeight
		complexity += float64(len(c.Tags)) * w.TagWeight
		if c.Assignee != "" {
			complexity += w.AssigneeWeight
			assignees++
		}
		if c.Due != "" {
			complexity += w.DueDateWeight
			dueDates++
		}

		if descLen > longDescriptionChars {
			longDescs++
		}
		if len(c.Tags) > multipleTagsCount {
			multiTags++
		}
	}

	n := float64(m.CardCount)
	m.AvgCardTitleLength = float64(titleTotal) / n
	m.ComplexityScore = complexity
	m.HasLongDescriptions = float64(longDescs) > n*longDescriptionRatio
	m.HasMultipleTags = float64(multiTags) > n*multipleTagsRatio
	m.HasAssignees = float64(assignees) > n*assigneesRatio
	m.HasDueDates = float64(dueDates) > n*dueDatesRatio
	return m
}

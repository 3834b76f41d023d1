package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWidthConfig is wrapped by WidthConfig.Validate failures.
var ErrInvalidWidthConfig = errors.New("invalid width config")

// Fixed heuristics of the width formula. They are deliberately not part of
// WidthConfig.
const (
	absoluteMinWidth   = 200
	titlePadding       = 100
	cardTitleCharWidth = 6
	cardPadding        = 120
	complexityFactor   = 0.1
	cardCountThreshold = 5
	maxCardCountBonus  = 50
	longDescBonus      = 20
	multipleTagsBonus  = 15
	assigneesBonus     = 10
	dueDatesBonus      = 10
)

// WidthConfig holds the weights and bounds of the width formula, in pixels.
type WidthConfig struct {
	MinWidth           float64 `json:"min_width" yaml:"min_width"`
	MaxWidth           float64 `json:"max_width" yaml:"max_width"`
	BaseWidthPerChar   float64 `json:"base_width_per_char" yaml:"base_width_per_char"`
	TitleWeight        float64 `json:"title_weight" yaml:"title_weight"`
	DescriptionWeight  float64 `json:"description_weight" yaml:"description_weight"`
	TagWeight          float64 `json:"tag_weight" yaml:"tag_weight"`
	AssigneeWeight     float64 `json:"assignee_weight" yaml:"assignee_weight"`
	DueDateWeight      float64 `json:"due_date_weight" yaml:"due_date_weight"`
	CardCountBonus     float64 `json:"card_count_bonus" yaml:"card_count_bonus"`
	MaxComplexityBonus float64 `json:"max_complexity_bonus" yaml:"max_complexity_bonus"`
}

// DefaultWidthConfig returns the canonical configuration. Each call returns a
// fresh value, so callers cannot alter the defaults seen by others.
func DefaultWidthConfig() WidthConfig {
	return WidthConfig{
		MinWidth:           280,
		MaxWidth:           400,
		BaseWidthPerChar:   8,
		TitleWeight:        2,
		DescriptionWeight:  0.5,
		TagWeight:          10,
		AssigneeWeight:     15,
		DueDateWeight:      10,
		CardCountBonus:     5,
		MaxComplexityBonus: 100,
	}
}

// Validate checks bounds ordering and that no weight is negative.
func (c WidthConfig) Validate() error {
	if c.MinWidth > c.MaxWidth {
		return fmt.Errorf("%w: min_width %g exceeds max_width %g", ErrInvalidWidthConfig, c.MinWidth, c.MaxWidth)
	}
	fields := []struct {
		name string
		v    float64
	}{
		{"min_width", c.MinWidth},
		{"base_width_per_char", c.BaseWidthPerChar},
		{"title_weight", c.TitleWeight},
		{"description_weight", c.DescriptionWeight},
		{"tag_weight", c.TagWeight},
		{"assignee_weight", c.AssigneeWeight},
		{"due_date_weight", c.DueDateWeight},
		{"card_count_bonus", c.CardCountBonus},
		{"max_complexity_bonus", c.MaxComplexityBonus},
	}
	for _, f := range fields {
		if f.v < 0 || math.IsNaN(f.v) {
			return fmt.Errorf("%w: %s must be >= 0", ErrInvalidWidthConfig, f.name)
		}
	}
	return nil
}

// CalculateOptimalWidth maps content metrics to a column width in pixels,
// always within [cfg.MinWidth, cfg.MaxWidth].
func CalculateOptimalWidth(m ContentMetrics, cfg WidthConfig) int {
	width := math.Max(absoluteMinWidth, float64(m.TitleLength)*cfg.BaseWidthPerChar+titlePadding)

	if m.CardCount > 0 {
		cardBased := m.AvgCardTitleLength*cardTitleCharWidth + cardPadding
		width = math.Max(width, cardBased)

		width += math.Min(m.ComplexityScore*complexityFactor, cfg.MaxComplexityBonus)

		if m.CardCount > cardCountThreshold {
			width += math.Min(float64(m.CardCount-cardCountThreshold)*cfg.CardCountBonus, maxCardCountBonus)
		}

		if m.HasLongDescriptions {
			width += longDescBonus
		}
		if m.HasMultipleTags {
			width += multipleTagsBonus
		}
		if m.HasAssignees {
			width += assigneesBonus
		}
		if m.HasDueDates {
			width += dueDatesBonus
		}
	}

	w := int(math.Round(clamp(width, cfg.MinWidth, cfg.MaxWidth)))
	// Rounding must not step outside fractional bounds.
	if float64(w) < cfg.MinWidth {
		w = int(math.Ceil(cfg.MinWidth))
	}
	if float64(w) > cfg.MaxWidth && cfg.MaxWidth >= cfg.MinWidth {
		w = int(math.Floor(cfg.MaxWidth))
	}
	return w
}

// clamp bounds v to [lo, hi]. The lower bound wins when lo > hi.
func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

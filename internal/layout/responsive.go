package layout

import (
	"fmt"
	"math"
)

// Viewport breakpoints in pixels. Both are exclusive upper bounds of the
// narrower mode: 768 is already tablet, 1024 is already desktop.
const (
	TabletBreakpoint  = 768
	DesktopBreakpoint = 1024
)

// Preferred tablet columns per row by orientation.
const (
	tabletPortraitColumns  = 2
	tabletLandscapeColumns = 3
)

// Mode is one of the four mutually exclusive responsive layout strategies.
type Mode int

const (
	// ModeMobileStack shows a single full-width column.
	ModeMobileStack Mode = iota
	// ModeMobileScroll shows one column per page with horizontal scrolling.
	ModeMobileScroll
	// ModeTabletWrap wraps uniform columns into rows.
	ModeTabletWrap
	// ModeDesktop sizes every column from its own content.
	ModeDesktop
)

var modeNames = [...]string{
	ModeMobileStack:  "mobile-stack",
	ModeMobileScroll: "mobile-scroll",
	ModeTabletWrap:   "tablet-wrap",
	ModeDesktop:      "desktop",
}

// String returns the mode's wire name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// Uniform reports whether every column shares the classifier's width.
func (m Mode) Uniform() bool {
	return m != ModeDesktop
}

// ParseMode converts a wire name back into a Mode.
func ParseMode(s string) (Mode, error) {
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layout mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Viewport describes the rendering surface. Width is in pixels.
type Viewport struct {
	Width     int  `json:"width" yaml:"width"`
	Mobile    bool `json:"mobile,omitempty" yaml:"mobile,omitempty"`
	Landscape bool `json:"landscape,omitempty" yaml:"landscape,omitempty"`
}

// ResponsiveLayout is the classifier's verdict for one viewport.
type ResponsiveLayout struct {
	Mode          Mode    `json:"layout"`
	ColumnsPerRow int     `json:"columns_per_row"`
	ColumnWidth   float64 `json:"column_width"`
}

// LayoutOptions bundles the sizing inputs shared by the classifier and the
// distributor.
type LayoutOptions struct {
	Width          WidthConfig `json:"width" yaml:"width"`
	MinColumnWidth int         `json:"min_column_width" yaml:"min_column_width"`
	Gap            int         `json:"gap" yaml:"gap"`
	Padding        int         `json:"padding" yaml:"padding"`
}

// DefaultLayoutOptions returns the canonical sizing options.
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		Width:          DefaultWidthConfig(),
		MinColumnWidth: 280, //nolint:mnd // matches DefaultWidthConfig().MinWidth
		Gap:            24,  //nolint:mnd // inter-column gap
		Padding:        48,  //nolint:mnd // horizontal board padding
	}
}

// GetResponsiveLayout classifies vp for a board of columnCount columns.
func GetResponsiveLayout(columnCount int, vp Viewport, opts LayoutOptions) ResponsiveLayout {
	return Classify(columnCount, vp.Width, opts.MinColumnWidth, opts.Gap, opts.Padding, vp.Mobile, vp.Landscape)
}

// Classify picks the layout mode from scratch; nothing is remembered between
// calls. The mobile hint does not influence the verdict: width and
// orientation alone decide.
func Classify(columnCount, viewportWidth, minColumnWidth, gap, padding int, _, isLandscape bool) ResponsiveLayout {
	available := max(viewportWidth-padding, 0)

	switch {
	case viewportWidth < TabletBreakpoint:
		if isLandscape || available >= minColumnWidth {
			return ResponsiveLayout{
				Mode:          ModeMobileScroll,
				ColumnsPerRow: 1,
				ColumnWidth:   float64(max(minColumnWidth, available)),
			}
		}
		return ResponsiveLayout{
			Mode:          ModeMobileStack,
			ColumnsPerRow: 1,
			ColumnWidth:   float64(available),
		}

	case viewportWidth < DesktopBreakpoint:
		preferred := tabletPortraitColumns
		if isLandscape {
			preferred = tabletLandscapeColumns
		}
		fit := maxColumnsPerRow(available, minColumnWidth, gap, columnCount)
		perRow := max(1, min(columnCount, max(preferred, min(fit, preferred))))
		return ResponsiveLayout{
			Mode:          ModeTabletWrap,
			ColumnsPerRow: perRow,
			ColumnWidth:   uniformWidth(available, perRow, minColumnWidth, gap),
		}

	default:
		fit := maxColumnsPerRow(available, minColumnWidth, gap, columnCount)
		perRow := max(1, min(columnCount, fit))
		return ResponsiveLayout{
			Mode:          ModeDesktop,
			ColumnsPerRow: perRow,
			ColumnWidth:   uniformWidth(available, perRow, minColumnWidth, gap),
		}
	}
}

// maxColumnsPerRow is how many minimum-width columns physically fit.
func maxColumnsPerRow(available, minColumnWidth, gap, columnCount int) int {
	step := minColumnWidth + gap
	if step <= 0 {
		return columnCount
	}
	return (available + gap) / step
}

func uniformWidth(available, perRow, minColumnWidth, gap int) float64 {
	w := float64(available-(perRow-1)*gap) / float64(perRow)
	return math.Max(float64(minColumnWidth), w)
}

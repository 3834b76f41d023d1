// Package tui implements an interactive terminal preview of a board's
// computed layout.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/antopolskiy/kanban-layout/internal/board"
	"github.com/antopolskiy/kanban-layout/internal/layout"
)

// view represents the current screen state.
type view int

const (
	viewBoard view = iota
	viewHelp
)

// Layout constants.
const (
	titleLines     = 2
	tagMaxFraction = 2 // tags get at most 1/N of card width
	boardChrome    = 2 // blank line + status bar below the column area
	minColumnCells = 12
	defaultCells   = 8
)

// Preview is the top-level bubbletea model. It renders the board with the
// widths the layout engine computes for the terminal's size.
type Preview struct {
	snap      *board.Snapshot
	loader    func() (*board.Snapshot, error)
	opts      layout.LayoutOptions
	cellWidth int
	trigger   func()

	viewport   layout.Viewport
	result     layout.Result
	computed   bool
	recomputes int

	activeCol int
	view      view
	width     int
	height    int
	err       error
}

// NewPreview creates a preview of snap. cellWidth is the number of pixels one
// terminal cell stands for.
func NewPreview(snap *board.Snapshot, opts layout.LayoutOptions, cellWidth int) *Preview {
	if cellWidth < 1 {
		cellWidth = defaultCells
	}
	return &Preview{snap: snap, opts: opts, cellWidth: cellWidth}
}

// SetTrigger installs the debounced trigger called on window resizes. The
// trigger must eventually deliver a RecomputeMsg to the program. Without a
// trigger, resizes recompute immediately.
func (p *Preview) SetTrigger(fn func()) {
	p.trigger = fn
}

// SetLoader installs the function used to reload the snapshot on ReloadMsg.
func (p *Preview) SetLoader(fn func() (*board.Snapshot, error)) {
	p.loader = fn
}

// SetViewportHints sets the mobile and landscape hints passed to the
// classifier.
func (p *Preview) SetViewportHints(mobile, landscape bool) {
	p.viewport.Mobile = mobile
	p.viewport.Landscape = landscape
}

// Result returns the most recent layout computation.
func (p *Preview) Result() layout.Result {
	return p.result
}

// Viewport returns the viewport of the most recent computation.
func (p *Preview) Viewport() layout.Viewport {
	return p.viewport
}

// Recomputes returns how many times the layout has been computed.
func (p *Preview) Recomputes() int {
	return p.recomputes
}

// ActiveColumn returns the index of the highlighted column.
func (p *Preview) ActiveColumn() int {
	return p.activeCol
}

// --- Messages ---

// RecomputeMsg asks the preview to recompute the layout for the current
// viewport. The debounced trigger sends it once a resize burst settles.
type RecomputeMsg struct{}

// ReloadMsg is sent by the file watcher to reload the snapshot.
type ReloadMsg struct{}

// Init implements tea.Model.
func (p *Preview) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return p.handleKey(msg)
	case tea.WindowSizeMsg:
		return p.handleResize(msg)
	case RecomputeMsg:
		p.recompute()
		return p, nil
	case ReloadMsg:
		p.reload()
		return p, nil
	}
	return p, nil
}

func (p *Preview) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	p.width = msg.Width
	p.height = msg.Height
	p.viewport.Width = msg.Width * p.cellWidth

	// The first size is applied at once so the board never renders
	// without a layout.
	if !p.computed {
		p.recompute()
		return p, nil
	}
	if p.trigger != nil {
		p.trigger()
		return p, nil
	}
	return p, func() tea.Msg { return RecomputeMsg{} }
}

func (p *Preview) recompute() {
	p.result = layout.Recompute(p.snap.Columns, p.viewport, p.opts)
	p.computed = true
	p.recomputes++
	p.clampActive()
}

func (p *Preview) reload() {
	if p.loader == nil {
		return
	}
	snap, err := p.loader()
	if err != nil {
		p.err = err
		return
	}
	p.snap = snap
	p.err = nil
	p.recompute()
}

func (p *Preview) clampActive() {
	if p.activeCol >= len(p.snap.Columns) {
		p.activeCol = len(p.snap.Columns) - 1
	}
	if p.activeCol < 0 {
		p.activeCol = 0
	}
}

// keyMap holds the preview's key bindings. Their help text feeds the help
// dialog.
type keyMap struct {
	Prev      key.Binding
	Next      key.Binding
	Recompute key.Binding
	Landscape key.Binding
	Mobile    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

var keys = keyMap{
	Prev:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "Previous column")),
	Next:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "Next column")),
	Recompute: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Recompute layout now")),
	Landscape: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "Toggle landscape orientation")),
	Mobile:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "Toggle mobile hint")),
	Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Show this help")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("esc/q", "Quit")),
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "Force quit")),
}

func (k keyMap) bindings() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Recompute, k.Landscape, k.Mobile, k.Help, k.Quit, k.ForceQuit}
}

func (p *Preview) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return p, tea.Quit
	}
	if p.view == viewHelp {
		p.view = viewBoard
		return p, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return p, tea.Quit
	case key.Matches(msg, keys.Help):
		p.view = viewHelp
	case key.Matches(msg, keys.Prev):
		if p.activeCol > 0 {
			p.activeCol--
		}
	case key.Matches(msg, keys.Next):
		if p.activeCol < len(p.snap.Columns)-1 {
			p.activeCol++
		}
	case key.Matches(msg, keys.Recompute):
		p.recompute()
	case key.Matches(msg, keys.Landscape):
		p.viewport.Landscape = !p.viewport.Landscape
		p.recompute()
	case key.Matches(msg, keys.Mobile):
		p.viewport.Mobile = !p.viewport.Mobile
		p.recompute()
	}
	return p, nil
}

// --- Styles ---

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	assigneeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("44")).Bold(true)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

// View implements tea.Model.
func (p *Preview) View() string {
	if p.width == 0 {
		return "Loading..."
	}
	if p.view == viewHelp {
		return p.viewHelp()
	}
	return p.viewBoard()
}

func (p *Preview) viewBoard() string {
	if len(p.snap.Columns) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, "No columns.", "", p.renderStatusBar())
	}

	var body string
	if p.result.Layout.Mode.Uniform() {
		body = p.viewRows()
	} else {
		body = p.viewDesktop()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", p.renderStatusBar())
}

// viewDesktop lays all columns out in one row at their content widths,
// scrolled horizontally so the active column is visible.
func (p *Preview) viewDesktop() string {
	widths := make([]int, len(p.result.Columns))
	for i, c := range p.result.Columns {
		widths[i] = p.cells(c.Dimensions.CalculatedWidth)
	}
	gap := p.gapCells()
	start, end := visibleRange(widths, gap, p.activeCol, p.width)

	parts := make([]string, 0, 2*(end-start)) //nolint:mnd // column + gap
	for i := start; i < end; i++ {
		if i > start && gap > 0 {
			parts = append(parts, strings.Repeat(" ", gap))
		}
		parts = append(parts, p.renderColumn(i, widths[i], p.height-boardChrome))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// viewRows wraps uniform columns into rows of ColumnsPerRow, starting at the
// row that holds the active column. Mobile scroll shows one column per page.
func (p *Preview) viewRows() string {
	rl := p.result.Layout
	perRow := max(rl.ColumnsPerRow, 1)
	width := p.cells(int(rl.ColumnWidth))
	gap := p.gapCells()

	first := (p.activeCol / perRow) * perRow
	last := len(p.snap.Columns)
	if rl.Mode == layout.ModeMobileScroll {
		last = first + 1
	}

	budget := p.height - boardChrome
	var rows []string
	used := 0
	for rowStart := first; rowStart < last; rowStart += perRow {
		rowHeight := budget - used
		if rowHeight < 1 && len(rows) > 0 {
			break
		}
		var parts []string
		for i := rowStart; i < min(rowStart+perRow, last); i++ {
			if i > rowStart && gap > 0 {
				parts = append(parts, strings.Repeat(" ", gap))
			}
			parts = append(parts, p.renderColumn(i, width, rowHeight))
		}
		row := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
		rows = append(rows, row)
		used += lipgloss.Height(row) + 1
	}
	if rl.Mode == layout.ModeMobileScroll && len(p.snap.Columns) > 1 {
		rows = append(rows, dimStyle.Render(fmt.Sprintf("  page %d/%d", first+1, len(p.snap.Columns))))
	}
	return strings.Join(rows, "\n\n")
}

// visibleRange returns the half-open range of columns to draw so that the
// active column is on screen.
func visibleRange(widths []int, gap, active, screen int) (int, int) {
	if len(widths) == 0 {
		return 0, 0
	}
	start := 0
	for {
		end, used := start, 0
		for end < len(widths) {
			need := widths[end]
			if end > start {
				need += gap
			}
			if used+need > screen && end > start {
				break
			}
			used += need
			end++
		}
		if active < end || start >= active {
			return start, end
		}
		start++
	}
}

func (p *Preview) renderColumn(colIdx, width, height int) string {
	col := p.snap.Columns[colIdx]

	headerText := fmt.Sprintf("%s (%d)", col.Title, len(col.Cards))
	// Truncate to fit within padding (1 left + 1 right).
	const headerPad = 2
	headerText = truncate(headerText, width-headerPad)

	var header string
	if colIdx == p.activeCol {
		header = activeColumnHeaderStyle.Width(width).Render(headerText)
	} else {
		header = columnHeaderStyle.Width(width).Render(headerText)
	}

	parts := []string{header}
	if len(col.Cards) == 0 {
		parts = append(parts, dimStyle.Width(width).Render("  (empty)"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	maxVis := visibleCards(height, len(col.Cards))
	for i := range min(maxVis, len(col.Cards)) {
		parts = append(parts, p.renderCard(col.Cards[i], colIdx == p.activeCol && i == 0, width))
	}
	if rest := len(col.Cards) - maxVis; rest > 0 {
		indicator := fmt.Sprintf("  ↓ %d more", rest)
		parts = append(parts, dimStyle.Width(width).Render(truncate(indicator, width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// cardHeight is the height of a card in lines:
// top border + title lines + 1 detail line + bottom border.
func cardHeight() int {
	return titleLines + 3 //nolint:mnd // borders(2) + detail line(1)
}

// visibleCards returns how many cards fit in height lines below the column
// header, leaving room for the "↓ N more" indicator when needed.
func visibleCards(height, total int) int {
	avail := height - 1
	n := max(avail/cardHeight(), 1)
	if n < total {
		n = max((avail-1)/cardHeight(), 1)
	}
	return n
}

func (p *Preview) renderCard(c layout.Card, active bool, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	cardWidth := max(width-cardChrome, 1)

	contentLines := wrapTitle(c.Title, cardWidth, titleLines)
	// Pad to exactly titleLines for uniform card height.
	for len(contentLines) < titleLines {
		contentLines = append(contentLines, "")
	}

	var details []string
	if len(c.Tags) > 0 {
		tagStr := truncate(strings.Join(c.Tags, ","), cardWidth/tagMaxFraction)
		details = append(details, dimStyle.Render(tagStr))
	}
	if c.Assignee != "" {
		details = append(details, assigneeStyle.Render("@"+c.Assignee))
	}
	if c.Due != "" {
		details = append(details, dimStyle.Render("due:"+c.Due))
	}
	if len(details) == 0 {
		details = append(details, dimStyle.Render("--"))
	}
	contentLines = append(contentLines, strings.Join(details, " "))

	style := cardStyle
	if active {
		style = activeCardStyle
	}
	return style.Width(width - 2).Render(strings.Join(contentLines, "\n")) //nolint:mnd // border width
}

// wrapTitle splits a title across maxLines lines, word-wrapping at word
// boundaries. Each line is at most maxWidth characters.
func wrapTitle(title string, maxWidth, maxLines int) []string {
	if maxLines < 1 {
		maxLines = 1
	}
	if len(title) <= maxWidth || maxLines == 1 {
		return []string{truncate(title, maxWidth)}
	}

	words := strings.Fields(title)
	lines := make([]string, 0, maxLines)
	var current strings.Builder

	for i, word := range words {
		if current.Len() == 0 {
			current.WriteString(word)
			continue
		}
		if current.Len()+1+len(word) <= maxWidth {
			current.WriteByte(' ')
			current.WriteString(word)
		} else {
			lines = append(lines, truncate(current.String(), maxWidth))
			current.Reset()
			current.WriteString(word)
			if len(lines) == maxLines-1 {
				// Last line: append all remaining words.
				for _, w := range words[i+1:] {
					current.WriteByte(' ')
					current.WriteString(w)
				}
				break
			}
		}
	}
	if current.Len() > 0 {
		lines = append(lines, truncate(current.String(), maxWidth))
	}
	return lines
}

func (p *Preview) renderStatusBar() string {
	rl := p.result.Layout
	parts := []string{
		" " + rl.Mode.String() + viewportHints(p.viewport),
		strconv.Itoa(rl.ColumnsPerRow) + "/row",
		strconv.Itoa(p.viewport.Width) + "px",
	}
	if p.activeCol < len(p.result.Columns) {
		c := p.result.Columns[p.activeCol]
		d := c.Dimensions
		parts = append(parts, fmt.Sprintf("%s: %dpx [%d..%d] content %d",
			c.Title, d.CalculatedWidth, d.MinWidth, d.MaxWidth, d.ContentWidth))
	}
	parts = append(parts, "h/l:column r:recompute o:landscape m:mobile ?:help q:quit")
	status := truncate(strings.Join(parts, " | "), p.width)

	if p.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+p.err.Error(), p.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}
	return statusBarStyle.Render(status)
}

func viewportHints(vp layout.Viewport) string {
	var hints []string
	if vp.Mobile {
		hints = append(hints, "mobile")
	}
	if vp.Landscape {
		hints = append(hints, "landscape")
	}
	if len(hints) == 0 {
		return ""
	}
	return " (" + strings.Join(hints, ",") + ")"
}

func (p *Preview) viewHelp() string {
	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	keyStyle := lipgloss.NewStyle().Bold(true).Width(12) //nolint:mnd // key column width
	for _, b := range keys.bindings() {
		h := b.Help()
		lines = append(lines, keyStyle.Render(h.Key)+"  "+h.Desc)
	}

	lines = append(lines, "")
	lines = append(lines, dimStyle.Render("Press any key to close"))

	return dialogStyle.Render(strings.Join(lines, "\n"))
}

// cells converts a pixel width into terminal cells.
func (p *Preview) cells(px int) int {
	return max(px/p.cellWidth, minColumnCells)
}

func (p *Preview) gapCells() int {
	return p.opts.Gap / p.cellWidth
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

package layout_test

import (
	"strings"
	"testing"

	"github.com/antopolskiy/kanban-layout/internal/layout"
)

func emptyColumns(ids ...string) []layout.Column {
	cols := make([]layout.Column, len(ids))
	for i, id := range ids {
		cols[i] = layout.Column{ID: id, Title: id}
	}
	return cols
}

func TestDistribute_FitsKeepsOptimal(t *testing.T) {
	cfg := layout.DefaultWidthConfig()
	cols := []layout.Column{
		{ID: "a", Title: "A"},
		{ID: "b", Title: strings.Repeat("b", 30)}, // 340
	}

	got := layout.DistributeWidthProportionally(cols, 1000, cfg)
	want := layout.OptimalWidths(cols, cfg)
	if len(got) != len(want) {
		t.Fatalf("got %d widths, want %d", len(got), len(want))
	}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("width[%s] = %d, want optimal %d", id, got[id], w)
		}
	}
	if got["b"] != 340 {
		t.Errorf("width[b] = %d, want 340", got["b"])
	}
}

func TestDistribute_ExactFitIsNotOverflow(t *testing.T) {
	cfg := layout.DefaultWidthConfig()
	got := layout.DistributeWidthProportionally(emptyColumns("a", "b"), 560, cfg)
	if got["a"] != 280 || got["b"] != 280 {
		t.Errorf("got %v, want 280 each", got)
	}
}

func TestDistribute_OverflowShrinksProportionally(t *testing.T) {
	cfg := wideOpen()
	cols := []layout.Column{
		{ID: "a", Title: "A"},                      // 200
		{ID: "b", Title: strings.Repeat("b", 30)}, // 340
	}

	got := layout.DistributeWidthProportionally(cols, 270, cfg)
	if got["a"] != 100 {
		t.Errorf("width[a] = %d, want 100", got["a"])
	}
	if got["b"] != 170 {
		t.Errorf("width[b] = %d, want 170", got["b"])
	}
}

func TestDistribute_OverflowRespectsMinWidth(t *testing.T) {
	cfg := layout.DefaultWidthConfig()
	cols := emptyColumns("a", "b", "c", "d", "e")

	got := layout.DistributeWidthProportionally(cols, 600, cfg)
	sum := 0
	for id, w := range got {
		if float64(w) < cfg.MinWidth {
			t.Errorf("width[%s] = %d, below min %v", id, w, cfg.MinWidth)
		}
		sum += w
	}
	// The floor wins over the budget; the sum exceeding the budget is expected.
	if sum <= 600 {
		t.Errorf("sum = %d, expected the min-width floor to push it past 600", sum)
	}
}

func TestDistribute_NonPositiveBudget(t *testing.T) {
	cfg := layout.DefaultWidthConfig()
	for _, avail := range []int{0, -100} {
		got := layout.DistributeWidthProportionally(emptyColumns("a", "b"), avail, cfg)
		if got["a"] != 280 || got["b"] != 280 {
			t.Errorf("available %d: got %v, want min widths", avail, got)
		}
	}
}

func TestDistribute_NoColumns(t *testing.T) {
	for _, avail := range []int{0, 800, -5} {
		got := layout.DistributeWidthProportionally(nil, avail, layout.DefaultWidthConfig())
		if got == nil || len(got) != 0 {
			t.Errorf("available %d: got %v, want empty non-nil map", avail, got)
		}
	}
}

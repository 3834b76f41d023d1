package layout_test

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/antopolskiy/kanban-layout/internal/layout"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		viewport  int
		landscape bool
		wantMode  layout.Mode
		wantPer   int
		wantWidth float64
	}{
		{"just below tablet scrolls", 3, 767, false, layout.ModeMobileScroll, 1, 719},
		{"tablet starts at 768", 3, 768, false, layout.ModeTabletWrap, 2, 348},
		{"tablet landscape prefers three", 3, 768, true, layout.ModeTabletWrap, 3, 280},
		{"tablet capped by column count", 1, 900, true, layout.ModeTabletWrap, 1, 852},
		{"just below desktop", 3, 1023, false, layout.ModeTabletWrap, 2, 475.5},
		{"desktop starts at 1024", 3, 1024, false, layout.ModeDesktop, 3, 928.0 / 3.0},
		{"desktop capped by column count", 2, 1920, false, layout.ModeDesktop, 2, 924},
		{"desktop capped by fit", 10, 1024, false, layout.ModeDesktop, 3, 928.0 / 3.0},
		{"narrow portrait stacks", 3, 300, false, layout.ModeMobileStack, 1, 252},
		{"narrow landscape scrolls", 3, 300, true, layout.ModeMobileScroll, 1, 280},
		{"zero viewport", 3, 0, false, layout.ModeMobileStack, 1, 0},
		{"negative viewport", 3, -50, false, layout.ModeMobileStack, 1, 0},
		{"zero columns desktop", 0, 1280, false, layout.ModeDesktop, 1, 1232},
		{"zero columns tablet", 0, 800, false, layout.ModeTabletWrap, 1, 752},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := layout.Classify(tt.count, tt.viewport, 280, 24, 48, false, tt.landscape)
			if got.Mode != tt.wantMode {
				t.Errorf("Mode = %s, want %s", got.Mode, tt.wantMode)
			}
			if got.ColumnsPerRow != tt.wantPer {
				t.Errorf("ColumnsPerRow = %d, want %d", got.ColumnsPerRow, tt.wantPer)
			}
			if math.Abs(got.ColumnWidth-tt.wantWidth) > 1e-9 {
				t.Errorf("ColumnWidth = %v, want %v", got.ColumnWidth, tt.wantWidth)
			}
		})
	}
}

func TestClassify_MobileHintDoesNotChangeMode(t *testing.T) {
	for _, vw := range []int{0, 320, 767, 768, 1023, 1024, 2560} {
		a := layout.Classify(4, vw, 280, 24, 48, false, false)
		b := layout.Classify(4, vw, 280, 24, 48, true, false)
		if a != b {
			t.Errorf("viewport %d: mobile hint changed layout %+v -> %+v", vw, a, b)
		}
	}
}

func TestClassify_ColumnsPerRowAtLeastOne(t *testing.T) {
	for _, count := range []int{0, 1, 5} {
		for vw := -100; vw <= 3000; vw += 37 {
			got := layout.Classify(count, vw, 280, 24, 48, false, vw%2 == 0)
			if got.ColumnsPerRow < 1 {
				t.Fatalf("count %d viewport %d: ColumnsPerRow = %d", count, vw, got.ColumnsPerRow)
			}
			if count > 0 && got.ColumnsPerRow > count {
				t.Fatalf("count %d viewport %d: ColumnsPerRow %d exceeds column count", count, vw, got.ColumnsPerRow)
			}
		}
	}
}

func TestGetResponsiveLayout_UsesOptions(t *testing.T) {
	opts := layout.DefaultLayoutOptions()
	vp := layout.Viewport{Width: 767}
	got := layout.GetResponsiveLayout(3, vp, opts)
	want := layout.Classify(3, 767, 280, 24, 48, false, false)
	if got != want {
		t.Errorf("GetResponsiveLayout = %+v, want %+v", got, want)
	}
}

func TestMode_Strings(t *testing.T) {
	for _, m := range []layout.Mode{layout.ModeMobileStack, layout.ModeMobileScroll, layout.ModeTabletWrap, layout.ModeDesktop} {
		parsed, err := layout.ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m.String(), parsed, m)
		}
	}
	if _, err := layout.ParseMode("grid"); err == nil {
		t.Error("ParseMode(grid) succeeded, want error")
	}
	if got := layout.Mode(42).String(); got != "unknown" {
		t.Errorf("Mode(42).String() = %q", got)
	}
	if !layout.ModeTabletWrap.Uniform() || layout.ModeDesktop.Uniform() {
		t.Error("only desktop should be non-uniform")
	}
}

func TestResponsiveLayout_JSON(t *testing.T) {
	data, err := json.Marshal(layout.ResponsiveLayout{Mode: layout.ModeTabletWrap, ColumnsPerRow: 2, ColumnWidth: 348})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"layout":"tablet-wrap"`) {
		t.Errorf("JSON = %s, want wire mode name", data)
	}

	var back layout.ResponsiveLayout
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Mode != layout.ModeTabletWrap || back.ColumnsPerRow != 2 {
		t.Errorf("round trip = %+v", back)
	}
}

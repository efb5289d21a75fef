package ui

import (
	"strings"
	"testing"

	"github.com/samuli/blockdive/internal/blockmap"
	"github.com/samuli/blockdive/internal/model"
)

func testInfo(total int) model.BlockInfo {
	return model.BlockInfo{
		TotalBlocks: total,
		FreeBlocks:  total,
		BlockSize:   4096,
		Bitmap:      make([]bool, total),
	}
}

func newTestMapPanel(total, w, h int) MapPanel {
	m := NewMapPanel()
	info := testInfo(total)
	m.SetSize(w, h)
	m.SetSnapshot(info, blockmap.NewResolver(info, nil, nil, ""))
	return m
}

func TestBlockAtScreenMatchesGrid(t *testing.T) {
	m := newTestMapPanel(100, 52, 27) // content 50x25
	m.SetOrigin(0, 0)

	// Top-left content cell is block 0
	if got := m.BlockAtScreen(1, 1); got != 0 {
		t.Errorf("BlockAtScreen(1,1) = %d, want 0", got)
	}

	// The same cell through the engine directly must agree
	grid := m.Grid()
	for _, cell := range [][2]int{{0, 0}, {7, 3}, {49, 24}, {13, 0}} {
		want := blockmap.BlockAt(float64(cell[0]), float64(cell[1]), m.Camera(), grid, 100)
		got := m.BlockAtScreen(cell[0]+1, cell[1]+1)
		if got != want {
			t.Errorf("cell (%d,%d): panel says %d, engine says %d", cell[0], cell[1], got, want)
		}
	}
}

func TestBlockAtScreenOutsidePanel(t *testing.T) {
	m := newTestMapPanel(100, 52, 27)
	m.SetOrigin(10, 5)

	if got := m.BlockAtScreen(0, 0); got != -1 {
		t.Errorf("click outside panel hit block %d", got)
	}
	if got := m.BlockAtScreen(10, 5); got != -1 {
		t.Errorf("click on the border hit block %d", got)
	}
	if got := m.BlockAtScreen(11, 6); got != 0 {
		t.Errorf("first content cell = %d, want 0", got)
	}
}

func TestBlockAtScreenAfterZoomAndPan(t *testing.T) {
	m := newTestMapPanel(400, 82, 42)
	m.SetOrigin(0, 0)
	m.ZoomIn()
	m.ZoomIn()
	m.Pan(-7, -3)

	grid := m.Grid()
	for cy := 0; cy < 40; cy += 7 {
		for cx := 0; cx < 80; cx += 11 {
			want := blockmap.BlockAt(float64(cx), float64(cy), m.Camera(), grid, 400)
			got := m.BlockAtScreen(cx+1, cy+1)
			if got != want {
				t.Fatalf("cell (%d,%d) after zoom+pan: panel %d, engine %d", cx, cy, got, want)
			}
		}
	}
}

func TestDragPansAndSuppressesHover(t *testing.T) {
	m := newTestMapPanel(100, 52, 27)
	m.SetOrigin(0, 0)

	m.HandleMotion(5, 5)
	if m.resolver.Hovered() < 0 {
		t.Fatal("motion did not set hover")
	}

	m.StartDrag(10, 10)
	if m.resolver.Hovered() != -1 {
		t.Error("starting a drag kept the hover highlight")
	}

	before := m.Camera()
	m.HandleMotion(14, 12)
	after := m.Camera()
	if after.OffsetX == before.OffsetX && after.OffsetY == before.OffsetY {
		t.Error("drag motion did not pan the camera")
	}
	if m.resolver.Hovered() != -1 {
		t.Error("drag motion re-enabled hover")
	}

	if m.EndDrag() {
		t.Error("a moved drag reported itself as a click")
	}
}

func TestClickWithoutMovement(t *testing.T) {
	m := newTestMapPanel(100, 52, 27)
	m.SetOrigin(0, 0)

	m.StartDrag(10, 10)
	if !m.EndDrag() {
		t.Error("press+release without motion was not a click")
	}
}

func TestHoverLabelContext(t *testing.T) {
	info := testInfo(10)
	info.Bitmap[3] = true
	info.UsedBlocks = 1
	info.FreeBlocks = 9
	ownership := model.BlockOwnership{3: {Filename: "a.txt"}}

	m := NewMapPanel()
	m.SetSize(22, 12)
	m.SetOrigin(0, 0)
	m.SetSnapshot(info, blockmap.NewResolver(info, nil, ownership, ""))

	m.resolver.SetHovered(3)
	label := m.HoverLabel()
	if !strings.Contains(label, "Block 3") || !strings.Contains(label, "a.txt") {
		t.Errorf("hover label %q lacks block index or owner", label)
	}

	m.resolver.SetHovered(-1)
	if m.HoverLabel() != "" {
		t.Error("label shown with nothing hovered")
	}
}

func TestViewLineCount(t *testing.T) {
	m := newTestMapPanel(64, 40, 20)
	view := m.View()
	if got := strings.Count(view, "\n"); got != 19 {
		t.Errorf("view has %d newlines, want 19", got)
	}
}

func TestListPanelClickMapping(t *testing.T) {
	l := NewListPanel()
	info := testInfo(2500)
	l.SetSize(120, 40)
	l.SetOrigin(0, 0)
	l.SetSnapshot(info, blockmap.NewResolver(info, nil, nil, ""))

	cols := l.Pager().Columns()

	// First cell of the grid is block 0
	if got := l.BlockAtScreen(2, 1+listHeaderLines); got != 0 {
		t.Errorf("first cell = %d, want 0", got)
	}
	// Second column, second row
	x := 2 + listCellWidth
	y := 2 + listHeaderLines
	if got := l.BlockAtScreen(x, y); got != cols+1 {
		t.Errorf("cell (1,1) = %d, want %d", got, cols+1)
	}

	// Page 3 offsets indices by the page start
	if !l.SetPage(3) {
		t.Fatal("SetPage(3) rejected")
	}
	if got := l.BlockAtScreen(2, 1+listHeaderLines); got != 2000 {
		t.Errorf("first cell of page 3 = %d, want 2000", got)
	}

	if got := l.BlockAtScreen(0, 0); got != -1 {
		t.Errorf("header click hit block %d", got)
	}
}

func TestListPanelPageClamping(t *testing.T) {
	l := NewListPanel()
	info := testInfo(2500)
	l.SetSnapshot(info, blockmap.NewResolver(info, nil, nil, ""))

	if l.SetPage(0) || l.SetPage(4) {
		t.Error("out-of-range page accepted")
	}
	l.LastPage()
	l.NextPage()
	if l.Pager().Page != 2 {
		t.Errorf("page after Last+Next = %d, want 2", l.Pager().Page)
	}

	// Shrinking device pulls the page back into range
	l.SetSnapshot(testInfo(500), nil)
	if l.Pager().Page != 0 {
		t.Errorf("page after shrink = %d, want 0", l.Pager().Page)
	}
}

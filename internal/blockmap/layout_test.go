package blockmap

import "testing"

func TestComputeLayoutInvariants(t *testing.T) {
	viewports := []struct{ w, h float64 }{
		{80, 24},
		{200, 50},
		{40, 10},
		{10, 40},
		{1, 1},
	}
	counts := []int{1, 2, 10, 100, 999, 1000, 24414, 1 << 20}

	for _, vp := range viewports {
		for _, n := range counts {
			g := ComputeLayout(n, vp.w, vp.h)

			if g.BlocksPerRow < 1 {
				t.Errorf("n=%d vp=%.0fx%.0f: BlocksPerRow=%d, want >= 1",
					n, vp.w, vp.h, g.BlocksPerRow)
			}
			wantRows := (n + g.BlocksPerRow - 1) / g.BlocksPerRow
			if g.TotalRows != wantRows {
				t.Errorf("n=%d vp=%.0fx%.0f: TotalRows=%d, want ceil(n/bpr)=%d",
					n, vp.w, vp.h, g.TotalRows, wantRows)
			}
			if g.BlockSize < BaseBlockSize {
				t.Errorf("n=%d vp=%.0fx%.0f: BlockSize=%.2f below base %.2f",
					n, vp.w, vp.h, g.BlockSize, BaseBlockSize)
			}
			// Grown blocks must not overflow either axis
			if g.BlockSize > BaseBlockSize {
				if got := float64(g.BlocksPerRow) * g.Span(); got > vp.w+1e-9 {
					t.Errorf("n=%d vp=%.0fx%.0f: grid width %.2f overflows viewport",
						n, vp.w, vp.h, got)
				}
				if got := float64(g.TotalRows) * g.Span(); got > vp.h+1e-9 {
					t.Errorf("n=%d vp=%.0fx%.0f: grid height %.2f overflows viewport",
						n, vp.w, vp.h, got)
				}
			}
		}
	}
}

func TestComputeLayoutDeterministic(t *testing.T) {
	a := ComputeLayout(24414, 200, 50)
	b := ComputeLayout(24414, 200, 50)
	if a != b {
		t.Errorf("identical inputs produced different layouts: %+v vs %+v", a, b)
	}
	t.Logf("layout for 24414 blocks at 200x50: %+v", a)
}

func TestComputeLayoutGrowsSmallGrids(t *testing.T) {
	// 100 blocks in a big viewport should grow well past the base size
	g := ComputeLayout(100, 160, 48)
	t.Logf("100 blocks at 160x48: %+v", g)
	if g.BlockSize <= BaseBlockSize {
		t.Errorf("expected grown blocks, got BlockSize=%.2f", g.BlockSize)
	}
}

func TestComputeLayoutDegenerate(t *testing.T) {
	g := ComputeLayout(0, 80, 24)
	if g.BlocksPerRow != 1 || g.TotalRows != 0 {
		t.Errorf("zero blocks: got %+v", g)
	}
	g = ComputeLayout(10, 0, 0)
	if g.BlocksPerRow != 1 {
		t.Errorf("zero viewport: got %+v", g)
	}
}

func TestBlockAt(t *testing.T) {
	cam := NewCamera()
	grid := GridLayout{BlocksPerRow: 10, TotalRows: 10, BlockSize: 2}

	tests := []struct {
		name   string
		sx, sy float64
		want   int
	}{
		{"origin", 0.5, 0.5, 0},
		{"second column", 2.5, 0.5, 1},
		{"second row", 0.5, 2.5, 10},
		{"middle", 10.5, 10.5, 55},
		{"negative x", -1, 0.5, -1},
		{"negative y", 0.5, -1, -1},
		{"past last column", 20.5, 0.5, -1},
	}
	for _, tt := range tests {
		if got := BlockAt(tt.sx, tt.sy, cam, grid, 100); got != tt.want {
			t.Errorf("%s: BlockAt(%.1f, %.1f) = %d, want %d",
				tt.name, tt.sx, tt.sy, got, tt.want)
		}
	}

	// Index past the block count is dead space even inside the grid
	if got := BlockAt(19.5, 19.5, cam, grid, 95); got != -1 {
		t.Errorf("index past total: got %d, want -1", got)
	}
}

func TestBlockAtMatchesDrawTransform(t *testing.T) {
	// The center of every block's drawn rect must hit-test back to the
	// same index, for a non-trivial camera.
	cam := NewCamera()
	cam.ZoomIn()
	cam.Pan(7, -3)

	grid := GridLayout{BlocksPerRow: 8, TotalRows: 13, BlockSize: 3}
	total := 100

	for i := 0; i < total; i++ {
		row, col := grid.Pos(i)
		wx := float64(col)*grid.Span() + grid.BlockSize/2
		wy := float64(row)*grid.Span() + grid.BlockSize/2
		sx, sy := cam.WorldToScreen(wx, wy)
		if got := BlockAt(sx, sy, cam, grid, total); got != i {
			t.Fatalf("block %d (row %d col %d): hit-test returned %d", i, row, col, got)
		}
	}
}

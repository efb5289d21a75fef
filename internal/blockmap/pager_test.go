package blockmap

import (
	"testing"

	"github.com/samuli/blockdive/internal/model"
)

func TestPagerCoverage(t *testing.T) {
	// The union of all pages' ranges must equal [0, total) with no
	// overlap and no gap.
	cases := []struct{ total, pageSize int }{
		{2500, 1000},
		{1000, 1000},
		{999, 1000},
		{1, 1000},
		{0, 1000},
		{100001, 1000},
		{7, 3},
	}
	for _, c := range cases {
		p := NewPager(c.total, c.pageSize)
		next := 0
		for page := 0; page < p.TotalPages(); page++ {
			p.Page = page
			start, end := p.Range()
			if start != next {
				t.Errorf("total=%d size=%d page %d: starts at %d, want %d",
					c.total, c.pageSize, page, start, next)
			}
			if end < start {
				t.Errorf("total=%d size=%d page %d: inverted range [%d,%d)",
					c.total, c.pageSize, page, start, end)
			}
			next = end
		}
		if next != c.total {
			t.Errorf("total=%d size=%d: pages cover up to %d", c.total, c.pageSize, next)
		}
	}
}

func TestPagerScenario2500(t *testing.T) {
	p := NewPager(2500, 1000)
	if got := p.TotalPages(); got != 3 {
		t.Fatalf("TotalPages = %d, want 3", got)
	}
	if !p.SetPage(3) {
		t.Fatal("SetPage(3) rejected")
	}
	start, end := p.Range()
	if start != 2000 || end != 2500 {
		t.Errorf("page 3 covers [%d,%d), want [2000,2500)", start, end)
	}
}

func TestPagerSetPageRejectsInvalid(t *testing.T) {
	p := NewPager(2500, 1000)
	p.SetPage(2)
	for _, n := range []int{0, -1, 4, 100} {
		if p.SetPage(n) {
			t.Errorf("SetPage(%d) accepted", n)
		}
		if p.Page != 1 {
			t.Errorf("SetPage(%d) mutated current page to %d", n, p.Page)
		}
	}
}

func TestPagerNavigationClamps(t *testing.T) {
	p := NewPager(2500, 1000)
	p.Prev()
	if p.Page != 0 {
		t.Errorf("Prev on first page moved to %d", p.Page)
	}
	p.Last()
	p.Next()
	if p.Page != 2 {
		t.Errorf("Next on last page moved to %d", p.Page)
	}
	p.First()
	p.Jump(5)
	if p.Page != 2 {
		t.Errorf("Jump(5) from first page landed on %d, want clamp to 2", p.Page)
	}
	p.Jump(-5)
	if p.Page != 0 {
		t.Errorf("Jump(-5) landed on %d, want 0", p.Page)
	}
}

func TestPagerColumns(t *testing.T) {
	p := NewPager(10000, 1000)
	// ceil(sqrt(1000*1.5)) = 39
	if got := p.Columns(); got != 39 {
		t.Errorf("Columns for page size 1000 = %d, want 39", got)
	}
	p = NewPager(10000, 5000)
	if got := p.Columns(); got != maxListColumns {
		t.Errorf("Columns for page size 5000 = %d, want cap %d", got, maxListColumns)
	}
}

func TestPagerSummarize(t *testing.T) {
	info := blockInfo(10, 1, 2, 3)
	fb := &model.FileBlocks{Filename: "f", Blocks: []int{2, 4}, BlockCount: 2}
	r := NewResolver(info, fb, nil, "")

	p := NewPager(10, 10)
	s := p.Summarize(info, r)
	// 2 and 4 are selected (2 also used, selected wins); 1 and 3 used;
	// the rest free.
	if s.Selected != 2 || s.Used != 2 || s.Free != 6 {
		t.Errorf("summary = %+v, want selected=2 used=2 free=6", s)
	}
}

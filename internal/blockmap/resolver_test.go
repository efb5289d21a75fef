package blockmap

import (
	"testing"

	"github.com/samuli/blockdive/internal/model"
)

func blockInfo(total int, used ...int) model.BlockInfo {
	bitmap := make([]bool, total)
	for _, i := range used {
		bitmap[i] = true
	}
	return model.BlockInfo{
		TotalBlocks: total,
		UsedBlocks:  len(used),
		FreeBlocks:  total - len(used),
		BlockSize:   4096,
		Bitmap:      bitmap,
	}
}

func TestResolveAllFree(t *testing.T) {
	r := NewResolver(blockInfo(100), nil, nil, "")
	for i := 0; i < 100; i++ {
		res := r.Resolve(i)
		if res.State != StateFree {
			t.Fatalf("block %d resolved to %s, want free", i, res.State)
		}
	}
}

func TestResolveSelectedBeatsUsed(t *testing.T) {
	info := blockInfo(10, 2, 4, 6, 8)
	fb := &model.FileBlocks{
		Filename:       "report.docx",
		Blocks:         []int{2, 4, 6},
		AllocationType: model.Linked,
		BlockCount:     3,
	}
	r := NewResolver(info, fb, nil, "")

	for _, i := range []int{2, 4, 6} {
		if res := r.Resolve(i); res.State != StateSelected {
			t.Errorf("block %d: got %s, want selected", i, res.State)
		}
	}
	if res := r.Resolve(8); res.State != StateUsed {
		t.Errorf("block 8: got %s, want used", res.State)
	}
	for _, i := range []int{0, 1, 3, 5, 7, 9} {
		if res := r.Resolve(i); res.State != StateFree {
			t.Errorf("block %d: got %s, want free", i, res.State)
		}
	}
}

func TestResolveHoverBeatsEverything(t *testing.T) {
	info := blockInfo(10, 3)
	fb := &model.FileBlocks{Filename: "a.txt", Blocks: []int{3}, BlockCount: 1}
	r := NewResolver(info, fb, nil, "")
	r.SetHovered(3)

	res := r.Resolve(3)
	if res.State != StateHover {
		t.Fatalf("hovered block: got %s, want hover", res.State)
	}
	// Contextual label keeps the underlying state's text
	if res.Filename != "a.txt" {
		t.Errorf("hover label lost context: %+v", res)
	}

	// A hovered free block is hover, not free
	r.SetHovered(7)
	if res := r.Resolve(7); res.State != StateHover {
		t.Errorf("hovered free block: got %s, want hover", res.State)
	}
	if res := r.Resolve(3); res.State != StateSelected {
		t.Errorf("unhovered block fell back wrong: got %s", res.State)
	}
}

func TestResolveSearchMatch(t *testing.T) {
	info := blockInfo(20, 5, 10, 15)
	fb := &model.FileBlocks{Filename: "photo.jpg", Blocks: []int{5}, BlockCount: 1}
	own := model.BlockOwnership{
		10: {Filename: "music.mp3", FileType: model.TypeAudio},
		15: {Filename: "photo_old.jpg", FileType: model.TypeImage},
	}

	// Search matching the selected file: its blocks become matches
	r := NewResolver(info, fb, own, "photo")
	if res := r.Resolve(5); res.State != StateSearchMatch {
		t.Errorf("block 5: got %s, want search match", res.State)
	}
	// Ownership entry matching the term also becomes a match
	if res := r.Resolve(15); res.State != StateSearchMatch || res.Filename != "photo_old.jpg" {
		t.Errorf("block 15: got %+v, want search match for photo_old.jpg", r.Resolve(15))
	}
	// Non-matching owned block stays used
	if res := r.Resolve(10); res.State != StateUsed {
		t.Errorf("block 10: got %s, want used", res.State)
	}

	// Empty search term: selected file wins again
	r = NewResolver(info, fb, own, "")
	if res := r.Resolve(5); res.State != StateSelected {
		t.Errorf("no search: block 5 got %s, want selected", res.State)
	}

	// Case-insensitive matching
	r = NewResolver(info, fb, own, "PHOTO")
	if res := r.Resolve(5); res.State != StateSearchMatch {
		t.Errorf("uppercase search: got %s, want search match", res.State)
	}
}

func TestResolveScenarioLinkedFile(t *testing.T) {
	// total_blocks=10, blocks [2,4,6] linked, empty search
	info := blockInfo(10, 1, 2, 4, 6)
	fb := &model.FileBlocks{
		Filename:       "chain.bin",
		Blocks:         []int{2, 4, 6},
		AllocationType: model.Linked,
		BlockCount:     3,
	}
	r := NewResolver(info, fb, nil, "")

	want := map[int]BlockState{
		0: StateFree, 1: StateUsed, 2: StateSelected, 3: StateFree,
		4: StateSelected, 5: StateFree, 6: StateSelected, 7: StateFree,
		8: StateFree, 9: StateFree,
	}
	for i, w := range want {
		if got := r.Resolve(i).State; got != w {
			t.Errorf("block %d: got %s, want %s", i, got, w)
		}
	}
}

func TestResolveSkipsOutOfRangeFileBlocks(t *testing.T) {
	info := blockInfo(10)
	fb := &model.FileBlocks{Filename: "bad.bin", Blocks: []int{2, 500, -3}, BlockCount: 3}
	r := NewResolver(info, fb, nil, "")

	if res := r.Resolve(2); res.State != StateSelected {
		t.Errorf("in-range block: got %s, want selected", res.State)
	}
	// The defective indices must not panic or leak into results
	for i := 0; i < 10; i++ {
		if i != 2 && r.Resolve(i).State != StateFree {
			t.Errorf("block %d: got %s, want free", i, r.Resolve(i).State)
		}
	}
}

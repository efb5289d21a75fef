package core

import (
	"context"
	"errors"
	"testing"

	"github.com/samuli/blockdive/internal/model"
)

// fakeBackend is a scriptable backend for controller tests
type fakeBackend struct {
	info      model.BlockInfo
	files     []model.FileEntry
	blocks    map[string][]int
	failFiles map[string]bool
	infoErr   error
}

func newFakeBackend(total int) *fakeBackend {
	return &fakeBackend{
		info: model.BlockInfo{
			TotalBlocks: total,
			FreeBlocks:  total,
			BlockSize:   4096,
			Bitmap:      make([]bool, total),
		},
		blocks:    map[string][]int{},
		failFiles: map[string]bool{},
	}
}

func (f *fakeBackend) BlockInfo(ctx context.Context) (model.BlockInfo, error) {
	return f.info, f.infoErr
}

func (f *fakeBackend) FileBlocks(ctx context.Context, name string) (*model.FileBlocks, string, error) {
	if f.failFiles[name] {
		return nil, "", errors.New("fetch failed")
	}
	blocks, ok := f.blocks[name]
	if !ok {
		return nil, "File '" + name + "' not found", nil
	}
	return &model.FileBlocks{
		Filename:       name,
		Blocks:         blocks,
		AllocationType: model.Indexed,
		BlockCount:     len(blocks),
	}, "", nil
}

func (f *fakeBackend) SetStrategy(ctx context.Context, t model.AllocationType) (string, error) {
	return "Allocation strategy set to " + string(t), nil
}

func (f *fakeBackend) ListDir(ctx context.Context) ([]model.FileEntry, error) {
	return f.files, nil
}

func (f *fakeBackend) Pwd(ctx context.Context) (string, error) { return "/home/user", nil }

func (f *fakeBackend) Exec(ctx context.Context, line string) (string, error) {
	return "ok: " + line, nil
}

func TestRefreshCommitsSnapshot(t *testing.T) {
	b := newFakeBackend(100)
	b.files = []model.FileEntry{{Name: "a.txt", FileType: model.TypeText}}
	b.blocks["a.txt"] = []int{1, 2, 3}
	c := NewController(b)

	gen := c.BeginRefresh()
	ev := c.Refresh(context.Background(), gen)

	se, ok := ev.(SnapshotEvent)
	if !ok {
		t.Fatalf("got %T, want SnapshotEvent", ev)
	}
	if se.Snap.Info.TotalBlocks != 100 {
		t.Errorf("TotalBlocks = %d", se.Snap.Info.TotalBlocks)
	}
	if len(se.Snap.Ownership) != 3 {
		t.Errorf("ownership has %d entries, want 3", len(se.Snap.Ownership))
	}
	if o := se.Snap.Ownership[2]; o.Filename != "a.txt" {
		t.Errorf("block 2 owned by %q", o.Filename)
	}
	if got := c.Snapshot(); got.Generation != gen {
		t.Errorf("committed generation = %d, want %d", got.Generation, gen)
	}
}

func TestStaleRefreshDropped(t *testing.T) {
	b := newFakeBackend(10)
	c := NewController(b)

	oldGen := c.BeginRefresh()
	newGen := c.BeginRefresh()

	// The newer request completes first
	if ev := c.Refresh(context.Background(), newGen); ev == nil {
		t.Fatal("newest refresh did not commit")
	} else if _, ok := ev.(SnapshotEvent); !ok {
		t.Fatalf("newest refresh got %T", ev)
	}

	// The slow old response must be dropped, not overwrite fresh state
	ev := c.Refresh(context.Background(), oldGen)
	if _, ok := ev.(StaleSnapshotEvent); !ok {
		t.Fatalf("stale refresh got %T, want StaleSnapshotEvent", ev)
	}
	if got := c.Snapshot().Generation; got != newGen {
		t.Errorf("snapshot generation = %d, want %d", got, newGen)
	}
}

func TestRefreshErrorKeepsPriorSnapshot(t *testing.T) {
	b := newFakeBackend(10)
	c := NewController(b)

	gen := c.BeginRefresh()
	c.Refresh(context.Background(), gen)
	prior := c.Snapshot()

	b.infoErr = errors.New("backend down")
	gen = c.BeginRefresh()
	ev := c.Refresh(context.Background(), gen)
	if _, ok := ev.(ErrorEvent); !ok {
		t.Fatalf("got %T, want ErrorEvent", ev)
	}
	if got := c.Snapshot(); got.Generation != prior.Generation {
		t.Error("failed refresh replaced the prior snapshot")
	}
}

func TestOwnershipSkipsFailuresAndOutOfRange(t *testing.T) {
	b := newFakeBackend(10)
	b.files = []model.FileEntry{
		{Name: "good.txt"},
		{Name: "bad.txt"},
		{Name: "dir", IsDir: true},
	}
	b.blocks["good.txt"] = []int{0, 99, -1, 5} // 99 and -1 are defects
	b.blocks["bad.txt"] = []int{1}
	b.failFiles["bad.txt"] = true
	c := NewController(b)

	ev := c.Refresh(context.Background(), c.BeginRefresh())
	se, ok := ev.(SnapshotEvent)
	if !ok {
		t.Fatalf("got %T", ev)
	}
	if len(se.Snap.Ownership) != 2 {
		t.Errorf("ownership = %v, want blocks 0 and 5 only", se.Snap.Ownership)
	}
	if _, ok := se.Snap.Ownership[0]; !ok {
		t.Error("block 0 missing from ownership")
	}
	if _, ok := se.Snap.Ownership[1]; ok {
		t.Error("failed file leaked into ownership")
	}
}

func TestSelectFileMiss(t *testing.T) {
	b := newFakeBackend(10)
	c := NewController(b)
	c.Refresh(context.Background(), c.BeginRefresh())

	ev := c.SelectFile(context.Background(), "ghost.txt")
	fe, ok := ev.(FileSelectedEvent)
	if !ok {
		t.Fatalf("got %T", ev)
	}
	if fe.File != nil {
		t.Error("miss returned a file")
	}
	if fe.Message == "" {
		t.Error("miss carried no message")
	}
	if c.Snapshot().File != nil {
		t.Error("miss left a selection in the snapshot")
	}
}

func TestSelectFileRevalidatesIndices(t *testing.T) {
	b := newFakeBackend(10)
	b.blocks["f.bin"] = []int{2, 500, 7}
	c := NewController(b)
	c.Refresh(context.Background(), c.BeginRefresh())

	ev := c.SelectFile(context.Background(), "f.bin")
	fe := ev.(FileSelectedEvent)
	if fe.File == nil {
		t.Fatal("no file selected")
	}
	if fe.File.BlockCount != 2 || len(fe.File.Blocks) != 2 {
		t.Errorf("blocks = %v, want the two in-range indices", fe.File.Blocks)
	}
}

func TestResolveClick(t *testing.T) {
	b := newFakeBackend(100)
	b.files = []model.FileEntry{{Name: "owned.bin", Size: 8192, FileType: model.TypeBinary}}
	b.blocks["owned.bin"] = []int{50, 51}
	c := NewController(b)
	c.Refresh(context.Background(), c.BeginRefresh())

	// Scenario: all-free device, clicking block 50 reports free except
	// ownership knows about it
	d, ok := c.ResolveClick(50, "free")
	if !ok {
		t.Fatal("in-range click rejected")
	}
	if d.BlockIndex != 50 || d.IsUsed || d.IsSelected {
		t.Errorf("detail = %+v", d)
	}
	if d.Owner == nil || d.Owner.Filename != "owned.bin" {
		t.Errorf("owner = %+v", d.Owner)
	}

	if _, ok := c.ResolveClick(1000, "free"); ok {
		t.Error("out-of-range click accepted")
	}
	if _, ok := c.ResolveClick(-1, "free"); ok {
		t.Error("negative click accepted")
	}
}

func TestResolveClickAllFreeScenario(t *testing.T) {
	// total_blocks=100, bitmap all false, no selection: block 50 is
	// {blockIndex:50, status:"free", isUsed:false, isSelected:false}
	b := newFakeBackend(100)
	c := NewController(b)
	c.Refresh(context.Background(), c.BeginRefresh())

	d, ok := c.ResolveClick(50, "free")
	if !ok {
		t.Fatal("click rejected")
	}
	if d.BlockIndex != 50 || d.Status != "free" || d.IsUsed || d.IsSelected {
		t.Errorf("detail = %+v", d)
	}
}

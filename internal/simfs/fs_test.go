package simfs

import (
	"strings"
	"testing"

	"github.com/samuli/blockdive/internal/model"
)

func newEmptyFS(t *testing.T, strategy model.AllocationType) *FileSystem {
	t.Helper()
	return New(Options{
		TotalBytes: 1024 * 1024, // 256 blocks of 4KB
		BlockSize:  4096,
		Strategy:   strategy,
		RandSeed:   42,
		NoSamples:  true,
	})
}

func TestBlockInfoSnapshotConsistency(t *testing.T) {
	fs := newEmptyFS(t, model.Indexed)
	fs.Exec("touch a.bin 10000")
	fs.Exec("touch b.bin 5000")

	info := fs.BlockInfoSnapshot()
	if info.TotalBlocks != 256 {
		t.Fatalf("TotalBlocks = %d, want 256", info.TotalBlocks)
	}
	if info.UsedBlocks+info.FreeBlocks != info.TotalBlocks {
		t.Errorf("used %d + free %d != total %d",
			info.UsedBlocks, info.FreeBlocks, info.TotalBlocks)
	}
	// 10000 bytes -> 3 blocks, 5000 bytes -> 2 blocks
	if info.UsedBlocks != 5 {
		t.Errorf("UsedBlocks = %d, want 5", info.UsedBlocks)
	}

	count := 0
	for _, u := range info.Bitmap {
		if u {
			count++
		}
	}
	if count != info.UsedBlocks {
		t.Errorf("bitmap has %d used bits, UsedBlocks says %d", count, info.UsedBlocks)
	}

	// Snapshot must be a copy: mutating it cannot touch the device
	info.Bitmap[0] = !info.Bitmap[0]
	again := fs.BlockInfoSnapshot()
	if again.Bitmap[0] == info.Bitmap[0] {
		t.Error("snapshot bitmap aliases internal state")
	}
}

func TestContiguousAllocationIsARun(t *testing.T) {
	fs := newEmptyFS(t, model.Contiguous)
	fs.Exec("touch run.bin 20000") // 5 blocks

	fb, msg := fs.FileBlocks("run.bin")
	if fb == nil {
		t.Fatalf("no file blocks: %s", msg)
	}
	if fb.AllocationType != model.Contiguous {
		t.Errorf("allocation type = %s", fb.AllocationType)
	}
	if fb.BlockCount != 5 || len(fb.Blocks) != 5 {
		t.Fatalf("block count = %d, want 5", fb.BlockCount)
	}
	if fb.StartBlock != fb.Blocks[0] {
		t.Errorf("StartBlock %d != first block %d", fb.StartBlock, fb.Blocks[0])
	}
	for i := 1; i < len(fb.Blocks); i++ {
		if fb.Blocks[i] != fb.Blocks[i-1]+1 {
			t.Fatalf("blocks not contiguous: %v", fb.Blocks)
		}
	}
}

func TestContiguousBestFit(t *testing.T) {
	fs := newEmptyFS(t, model.Contiguous)
	// Carve the free space into runs: a 3-block hole and the large tail
	fs.Exec("touch a.bin 12000") // blocks 0-2
	fs.Exec("touch b.bin 12000") // blocks 3-5
	fs.Exec("rm a.bin")          // hole [0,2]

	// A 2-block file should land in the small hole, not the tail
	fs.Exec("touch c.bin 8000")
	fb, _ := fs.FileBlocks("c.bin")
	if fb == nil {
		t.Fatal("c.bin has no blocks")
	}
	if fb.StartBlock != 0 {
		t.Errorf("best fit start = %d, want 0 (the small hole)", fb.StartBlock)
	}
}

func TestLinkedAllocationDeterministicWithSeed(t *testing.T) {
	a := newEmptyFS(t, model.Linked)
	b := newEmptyFS(t, model.Linked)
	a.Exec("touch x.bin 20000")
	b.Exec("touch x.bin 20000")

	fa, _ := a.FileBlocks("x.bin")
	fb, _ := b.FileBlocks("x.bin")
	if fa == nil || fb == nil {
		t.Fatal("missing file blocks")
	}
	if len(fa.Blocks) != len(fb.Blocks) {
		t.Fatalf("lengths differ: %d vs %d", len(fa.Blocks), len(fb.Blocks))
	}
	for i := range fa.Blocks {
		if fa.Blocks[i] != fb.Blocks[i] {
			t.Fatalf("same seed produced different chains: %v vs %v", fa.Blocks, fb.Blocks)
		}
	}
	if fa.StartBlock != -1 {
		t.Errorf("linked StartBlock = %d, want -1", fa.StartBlock)
	}
}

func TestIndexedTakesFirstFree(t *testing.T) {
	fs := newEmptyFS(t, model.Indexed)
	fs.Exec("touch a.bin 4096")
	fs.Exec("touch b.bin 8192")

	fb, _ := fs.FileBlocks("b.bin")
	if fb == nil {
		t.Fatal("b.bin has no blocks")
	}
	if fb.Blocks[0] != 1 || fb.Blocks[1] != 2 {
		t.Errorf("indexed blocks = %v, want [1 2]", fb.Blocks)
	}
}

func TestRmFreesBlocks(t *testing.T) {
	fs := newEmptyFS(t, model.Indexed)
	fs.Exec("touch a.bin 40000")
	before := fs.BlockInfoSnapshot()
	if before.UsedBlocks == 0 {
		t.Fatal("no blocks allocated")
	}

	fs.Exec("rm a.bin")
	after := fs.BlockInfoSnapshot()
	if after.UsedBlocks != 0 {
		t.Errorf("blocks leaked after rm: %d still used", after.UsedBlocks)
	}
	if after.FreeBlocks != after.TotalBlocks {
		t.Errorf("free %d != total %d", after.FreeBlocks, after.TotalBlocks)
	}
}

func TestRecursiveRmFreesSubtree(t *testing.T) {
	fs := newEmptyFS(t, model.Indexed)
	fs.Exec("mkdir d")
	fs.Exec("cd d")
	fs.Exec("touch a.bin 40000")
	fs.Exec("touch b.bin 40000")
	fs.Exec("cd ..")

	if out := fs.Exec("rm d"); !strings.Contains(out, "use -r") {
		t.Errorf("rm on non-empty dir should demand -r, got %q", out)
	}
	fs.Exec("rm -r d")
	info := fs.BlockInfoSnapshot()
	if info.UsedBlocks != 0 {
		t.Errorf("recursive rm leaked %d blocks", info.UsedBlocks)
	}
}

func TestFileBlocksMissing(t *testing.T) {
	fs := newEmptyFS(t, model.Indexed)
	fb, msg := fs.FileBlocks("ghost.txt")
	if fb != nil {
		t.Fatal("expected nil FileBlocks for missing file")
	}
	if !strings.Contains(msg, "not found") {
		t.Errorf("message = %q", msg)
	}

	fs.Exec("mkdir d")
	if fb, msg = fs.FileBlocks("d"); fb != nil || !strings.Contains(msg, "not a file") {
		t.Errorf("directory query: fb=%v msg=%q", fb, msg)
	}
}

func TestFragmentationIndex(t *testing.T) {
	fs := newEmptyFS(t, model.Contiguous)
	if got := fs.BlockInfoSnapshot().FragmentationIndex; got != 0 {
		t.Errorf("empty device fragmentation = %d, want 0", got)
	}

	fs.Exec("touch a.bin 40000")
	if got := fs.BlockInfoSnapshot().FragmentationIndex; got != 0 {
		t.Errorf("single run fragmentation = %d, want 0", got)
	}

	// Punch a hole to create two runs
	fs.Exec("touch b.bin 4096")
	fs.Exec("touch c.bin 4096")
	fs.Exec("rm b.bin")
	if got := fs.BlockInfoSnapshot().FragmentationIndex; got <= 0 {
		t.Errorf("two runs fragmentation = %d, want > 0", got)
	}
}

func TestDiskFull(t *testing.T) {
	fs := newEmptyFS(t, model.Indexed)
	if out := fs.Exec("touch huge.bin 2000000"); !strings.Contains(out, "Disk full") {
		t.Errorf("expected disk full, got %q", out)
	}
	if info := fs.BlockInfoSnapshot(); info.UsedBlocks != 0 {
		t.Errorf("failed create leaked %d blocks", info.UsedBlocks)
	}
}

func TestChmodOctalAndRwx(t *testing.T) {
	fs := newEmptyFS(t, model.Indexed)
	fs.Exec("touch f.txt 100")

	if out := fs.Exec("chmod 755 f.txt"); !strings.Contains(out, "rwxr-xr-x") {
		t.Errorf("chmod 755: %q", out)
	}
	if out := fs.Exec("chmod rw-r--r-- f.txt"); !strings.Contains(out, "rw-r--r--") {
		t.Errorf("chmod rwx form: %q", out)
	}
	if out := fs.Exec("chmod 9x f.txt"); !strings.Contains(out, "invalid mode") {
		t.Errorf("bad mode accepted: %q", out)
	}
}

func TestNavigationAndPaths(t *testing.T) {
	fs := New(Options{RandSeed: 42})
	if got := fs.Pwd(); got != "/home/user" {
		t.Errorf("initial pwd = %q, want /home/user", got)
	}
	fs.Exec("cd /etc")
	if got := fs.Pwd(); got != "/etc" {
		t.Errorf("pwd after cd /etc = %q", got)
	}
	fs.Exec("cd ..")
	if got := fs.Pwd(); got != "/" {
		t.Errorf("pwd after cd .. = %q", got)
	}
	if out := fs.Exec("cd nowhere"); !strings.Contains(out, "No such file") {
		t.Errorf("cd to missing dir: %q", out)
	}
}

func TestSampleTreeOwnership(t *testing.T) {
	fs := New(Options{RandSeed: 42})
	entries := fs.ListDir()
	if len(entries) == 0 {
		t.Fatal("sample tree has no entries in /home/user")
	}

	var sawFile bool
	for _, e := range entries {
		if e.IsDir {
			continue
		}
		sawFile = true
		fb, msg := fs.FileBlocks(e.Name)
		if fb == nil {
			t.Errorf("sample file %s has no blocks: %s", e.Name, msg)
			continue
		}
		info := fs.BlockInfoSnapshot()
		for _, b := range fb.Blocks {
			if !info.InRange(b) {
				t.Errorf("%s: block %d out of range", e.Name, b)
			} else if !info.Bitmap[b] {
				t.Errorf("%s: block %d not marked used", e.Name, b)
			}
		}
	}
	if !sawFile {
		t.Error("no files in sample directory")
	}
}

func TestImageRoundTrip(t *testing.T) {
	fs := New(Options{RandSeed: 42})
	fs.Exec("touch extra.bin 50000")
	before := fs.BlockInfoSnapshot()

	img := fs.Image()
	restored := Restore(img)
	after := restored.BlockInfoSnapshot()

	if after.TotalBlocks != before.TotalBlocks {
		t.Fatalf("TotalBlocks %d != %d", after.TotalBlocks, before.TotalBlocks)
	}
	if after.UsedBlocks != before.UsedBlocks {
		t.Errorf("UsedBlocks %d != %d", after.UsedBlocks, before.UsedBlocks)
	}
	for i := range before.Bitmap {
		if before.Bitmap[i] != after.Bitmap[i] {
			t.Fatalf("bitmap diverges at block %d", i)
		}
	}
	if restored.Pwd() != fs.Pwd() {
		t.Errorf("cwd %q != %q", restored.Pwd(), fs.Pwd())
	}

	fb, _ := restored.FileBlocks("extra.bin")
	if fb == nil || fb.BlockCount == 0 {
		t.Error("extra.bin lost its blocks through the round trip")
	}
}

package model

import "time"

// AllocationType is the strategy by which a file's blocks are chosen
type AllocationType string

const (
	Contiguous AllocationType = "contiguous"
	Linked     AllocationType = "linked"
	Indexed    AllocationType = "indexed"
)

// Valid reports whether t is a known allocation strategy
func (t AllocationType) Valid() bool {
	switch t {
	case Contiguous, Linked, Indexed:
		return true
	}
	return false
}

// BlockInfo is an immutable snapshot of the device's allocation state.
// It is replaced wholesale on refresh, never patched in place.
type BlockInfo struct {
	TotalBlocks int
	UsedBlocks  int
	FreeBlocks  int
	BlockSize   int64 // bytes
	Bitmap      []bool // len == TotalBlocks, true = used
	// FragmentationIndex is 0-100, informational only
	FragmentationIndex int
}

// InRange reports whether i is a valid block index for this snapshot
func (b BlockInfo) InRange(i int) bool {
	return i >= 0 && i < b.TotalBlocks
}

// Used reports whether block i is marked used in the bitmap.
// Out-of-range indices read as free.
func (b BlockInfo) Used(i int) bool {
	return i >= 0 && i < len(b.Bitmap) && b.Bitmap[i]
}

// FileBlocks is the block set of the currently selected file.
// A nil *FileBlocks means no file is selected.
type FileBlocks struct {
	Filename       string
	Size           int64
	Blocks         []int // indices need not be sorted
	AllocationType AllocationType
	StartBlock     int // first block for contiguous allocation, -1 otherwise
	BlockCount     int // == len(Blocks)
}

// Owner describes the file owning a block
type Owner struct {
	Filename       string
	FileType       string
	Size           int64
	AllocationType AllocationType
}

// BlockOwnership maps block index to its owning file. It is a
// best-effort cache: entries are only as fresh as the last rebuild.
type BlockOwnership map[int]Owner

// FileEntry is one row of a directory listing
type FileEntry struct {
	Name        string
	Size        int64
	IsDir       bool
	FileType    string
	Permissions string
	Owner       string
	Modified    time.Time
}

package core

import "github.com/samuli/blockdive/internal/model"

// Snapshot is the last-committed view of the backend: block info,
// directory listing, the selected file's blocks and the ownership map.
// It is replaced as a whole, never patched, so the renderer and the
// hit-testing always see a consistent state.
type Snapshot struct {
	Generation uint64
	Info       model.BlockInfo
	Files      []model.FileEntry
	Dir        string
	File       *model.FileBlocks
	Ownership  model.BlockOwnership
}

// BlockDetail is delivered to the host application when a block is
// clicked
type BlockDetail struct {
	BlockIndex int
	Status     string
	IsUsed     bool
	IsSelected bool
	Filename   string
	Owner      *model.Owner
}

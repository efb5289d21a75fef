package simfs

import (
	"fmt"

	"github.com/samuli/blockdive/internal/model"
)

// allocate assigns blocks to a file according to the active strategy.
// Caller must hold fs.mu.
func (fs *FileSystem) allocate(n *Node, sizeNeeded int64) error {
	blocks := int((sizeNeeded + fs.blockSize - 1) / fs.blockSize)
	if blocks == 0 {
		blocks = 1 // every file occupies at least one block
	}

	var err error
	switch fs.strategy {
	case model.Contiguous:
		err = fs.allocateContiguous(n, blocks)
	case model.Linked:
		err = fs.allocateLinked(n, blocks)
	default:
		err = fs.allocateIndexed(n, blocks)
	}
	return err
}

// allocateContiguous finds the smallest free run that fits (best fit)
func (fs *FileSystem) allocateContiguous(n *Node, blocks int) error {
	bestStart, bestLen := -1, 0
	runStart, runLen := -1, 0

	for i := 0; i <= fs.totalBlocks; i++ {
		if i < fs.totalBlocks && !fs.bitmap[i] {
			if runStart < 0 {
				runStart = i
			}
			runLen++
			continue
		}
		if runLen >= blocks && (bestStart < 0 || runLen < bestLen) {
			bestStart, bestLen = runStart, runLen
		}
		runStart, runLen = -1, 0
	}

	if bestStart < 0 {
		return fmt.Errorf("not enough contiguous space for file of %d bytes",
			int64(blocks)*fs.blockSize)
	}

	allocated := make([]int, blocks)
	for i := range allocated {
		allocated[i] = bestStart + i
	}
	fs.claim(n, allocated)
	n.Blocks = allocated
	n.StartBlock = bestStart
	n.AllocationType = model.Contiguous
	return nil
}

// allocateLinked picks random free blocks, chain order = pick order
func (fs *FileSystem) allocateLinked(n *Node, blocks int) error {
	if fs.freeCount < blocks {
		return fmt.Errorf("not enough space for file of %d bytes",
			int64(blocks)*fs.blockSize)
	}

	free := make([]int, 0, fs.freeCount)
	for i, used := range fs.bitmap {
		if !used {
			free = append(free, i)
		}
	}

	allocated := make([]int, 0, blocks)
	for len(allocated) < blocks {
		j := fs.rng.Intn(len(free))
		allocated = append(allocated, free[j])
		free[j] = free[len(free)-1]
		free = free[:len(free)-1]
	}

	fs.claim(n, allocated)
	n.Blocks = allocated
	n.StartBlock = -1
	n.AllocationType = model.Linked
	return nil
}

// allocateIndexed takes the first free blocks in index order
func (fs *FileSystem) allocateIndexed(n *Node, blocks int) error {
	if fs.freeCount < blocks {
		return fmt.Errorf("not enough space for file of %d bytes",
			int64(blocks)*fs.blockSize)
	}

	allocated := make([]int, 0, blocks)
	for i := 0; i < fs.totalBlocks && len(allocated) < blocks; i++ {
		if !fs.bitmap[i] {
			allocated = append(allocated, i)
		}
	}

	fs.claim(n, allocated)
	n.Blocks = allocated
	n.StartBlock = -1
	n.AllocationType = model.Indexed
	return nil
}

// claim marks blocks used and records ownership. Caller must hold fs.mu.
func (fs *FileSystem) claim(n *Node, blocks []int) {
	for _, b := range blocks {
		fs.bitmap[b] = true
		fs.blockOwner[b] = n
	}
	fs.freeCount -= len(blocks)
}

// release frees all blocks held by a file. Caller must hold fs.mu.
func (fs *FileSystem) release(n *Node) {
	for _, b := range n.Blocks {
		if b < 0 || b >= fs.totalBlocks || !fs.bitmap[b] {
			continue
		}
		fs.bitmap[b] = false
		delete(fs.blockOwner, b)
		fs.freeCount++
	}
	n.Blocks = nil
	n.StartBlock = -1
}

// releaseTree frees blocks for every file in a subtree
func (fs *FileSystem) releaseTree(n *Node) {
	n.walk(func(c *Node) {
		if !c.IsDir {
			fs.release(c)
		}
	})
}

// fragmentation scores how scattered the used blocks are, 0-100.
// 0 = one contiguous run; 100 = worst case alternation. Caller must
// hold fs.mu.
func (fs *FileSystem) fragmentation() int {
	used := fs.totalBlocks - fs.freeCount
	if used == 0 {
		return 0
	}

	runs := 0
	inRun := false
	for _, u := range fs.bitmap {
		if u {
			if !inRun {
				runs++
				inRun = true
			}
		} else {
			inRun = false
		}
	}

	maxRuns := used
	if fs.freeCount+1 < maxRuns {
		maxRuns = fs.freeCount + 1
	}
	if maxRuns <= 1 {
		return 0
	}

	frac := float64(runs-1) / float64(maxRuns-1) * 100
	return int(frac + 0.5)
}

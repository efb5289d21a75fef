// Package core holds the UI-free application logic: the backend
// contract, refresh sequencing and snapshot management.
package core

import (
	"context"
	"sync"

	"github.com/samuli/blockdive/internal/logging"
	"github.com/samuli/blockdive/internal/model"
)

// Backend is the filesystem-simulation collaborator the engine
// consumes. All block data flows through these read-only calls; Exec
// and SetStrategy are the only mutating entry points.
type Backend interface {
	BlockInfo(ctx context.Context) (model.BlockInfo, error)
	// FileBlocks returns the block list for a named file, or an
	// informational message when the file is missing or unallocated.
	FileBlocks(ctx context.Context, name string) (*model.FileBlocks, string, error)
	SetStrategy(ctx context.Context, t model.AllocationType) (string, error)
	ListDir(ctx context.Context) ([]model.FileEntry, error)
	Pwd(ctx context.Context) (string, error)
	Exec(ctx context.Context, line string) (string, error)
}

// Controller owns the committed snapshot and guards refreshes with a
// generation counter: a slow response that arrives after a newer
// request is dropped instead of overwriting fresher state.
type Controller struct {
	mu      sync.RWMutex
	backend Backend
	snap    Snapshot
	gen     uint64
}

// NewController creates a controller over the given backend
func NewController(backend Backend) *Controller {
	return &Controller{backend: backend}
}

// Snapshot returns the last committed snapshot
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// BeginRefresh stamps a new refresh generation. The returned value
// must be passed to Refresh; only the newest generation may commit.
func (c *Controller) BeginRefresh() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	return c.gen
}

// Refresh fetches a complete snapshot from the backend and commits it
// if gen is still the newest refresh. The ownership map is rebuilt
// with one concurrent fetch per file; individual failures are skipped
// so a half-populated map is never shown.
func (c *Controller) Refresh(ctx context.Context, gen uint64) Event {
	info, err := c.backend.BlockInfo(ctx)
	if err != nil {
		return ErrorEvent{Err: err}
	}
	files, err := c.backend.ListDir(ctx)
	if err != nil {
		return ErrorEvent{Err: err}
	}
	dir, err := c.backend.Pwd(ctx)
	if err != nil {
		return ErrorEvent{Err: err}
	}

	ownership := c.buildOwnership(ctx, info, files)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		logging.Debug.Printf("[core] dropping stale refresh gen=%d newest=%d", gen, c.gen)
		return StaleSnapshotEvent{Generation: gen}
	}

	// Carry the selected file over, revalidated against the new info
	file := c.snap.File
	if file != nil {
		file = revalidate(file, info)
	}

	c.snap = Snapshot{
		Generation: gen,
		Info:       info,
		Files:      files,
		Dir:        dir,
		File:       file,
		Ownership:  ownership,
	}
	return SnapshotEvent{Snap: c.snap}
}

// buildOwnership queries every file in the listing concurrently and
// assembles the block ownership map. All fetches complete (or fail and
// are skipped) before the map is returned.
func (c *Controller) buildOwnership(ctx context.Context, info model.BlockInfo, files []model.FileEntry) model.BlockOwnership {
	type result struct {
		entry model.FileEntry
		fb    *model.FileBlocks
	}

	results := make(chan result, len(files))
	var wg sync.WaitGroup
	for _, f := range files {
		if f.IsDir {
			continue
		}
		wg.Add(1)
		go func(entry model.FileEntry) {
			defer wg.Done()
			fb, _, err := c.backend.FileBlocks(ctx, entry.Name)
			if err != nil {
				logging.Debug.Printf("[core] ownership fetch failed for %s: %v", entry.Name, err)
				return
			}
			results <- result{entry: entry, fb: fb}
		}(f)
	}
	wg.Wait()
	close(results)

	ownership := make(model.BlockOwnership)
	for r := range results {
		if r.fb == nil {
			continue
		}
		owner := model.Owner{
			Filename:       r.entry.Name,
			FileType:       r.entry.FileType,
			Size:           r.entry.Size,
			AllocationType: r.fb.AllocationType,
		}
		for _, b := range r.fb.Blocks {
			if !info.InRange(b) {
				logging.Debug.Printf("[core] ownership: skipping out-of-range block %d of %s", b, r.entry.Name)
				continue
			}
			ownership[b] = owner
		}
	}
	return ownership
}

// revalidate drops out-of-range indices from a carried-over file block
// list after the device was replaced underneath it
func revalidate(file *model.FileBlocks, info model.BlockInfo) *model.FileBlocks {
	valid := file.Blocks[:0:0]
	for _, b := range file.Blocks {
		if info.InRange(b) {
			valid = append(valid, b)
		}
	}
	if len(valid) == len(file.Blocks) {
		return file
	}
	logging.Debug.Printf("[core] dropped %d out-of-range blocks of %s", len(file.Blocks)-len(valid), file.Filename)
	clone := *file
	clone.Blocks = valid
	clone.BlockCount = len(valid)
	return &clone
}

// SelectFile fetches the block list for a file and stores it in the
// snapshot. A semantic miss (no blocks) clears the selection and is
// reported as a message, not an error.
func (c *Controller) SelectFile(ctx context.Context, name string) Event {
	fb, msg, err := c.backend.FileBlocks(ctx, name)
	if err != nil {
		return ErrorEvent{Err: err}
	}

	c.mu.Lock()
	if fb != nil {
		fb = revalidate(fb, c.snap.Info)
	}
	c.snap.File = fb
	c.mu.Unlock()

	return FileSelectedEvent{File: fb, Message: msg}
}

// ClearSelection drops the selected file
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	c.snap.File = nil
	c.mu.Unlock()
}

// SetStrategy switches the backend allocation strategy
func (c *Controller) SetStrategy(ctx context.Context, t model.AllocationType) Event {
	msg, err := c.backend.SetStrategy(ctx, t)
	if err != nil {
		return ErrorEvent{Err: err}
	}
	return StrategyChangedEvent{Strategy: t, Message: msg}
}

// Exec runs a shell command against the backend
func (c *Controller) Exec(ctx context.Context, line string) Event {
	out, err := c.backend.Exec(ctx, line)
	if err != nil {
		return ErrorEvent{Err: err}
	}
	return CommandResultEvent{Command: line, Output: out}
}

// ResolveClick assembles the block-detail payload for a clicked block
// against the committed snapshot. Returns false for out-of-range
// indices (the click landed in dead space).
func (c *Controller) ResolveClick(i int, status string) (BlockDetail, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.snap.Info.InRange(i) {
		return BlockDetail{}, false
	}

	detail := BlockDetail{
		BlockIndex: i,
		Status:     status,
		IsUsed:     c.snap.Info.Used(i),
	}
	if c.snap.File != nil {
		for _, b := range c.snap.File.Blocks {
			if b == i {
				detail.IsSelected = true
				detail.Filename = c.snap.File.Filename
				break
			}
		}
	}
	if o, ok := c.snap.Ownership[i]; ok {
		owner := o
		detail.Owner = &owner
		if detail.Filename == "" {
			detail.Filename = o.Filename
		}
	}
	return detail, true
}

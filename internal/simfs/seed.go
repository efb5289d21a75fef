package simfs

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"github.com/samuli/blockdive/internal/logging"
	"github.com/samuli/blockdive/internal/model"
)

// seedWorkers bounds fastwalk's parallelism during seeding
const seedWorkers = 8

// seedEntry is a flat record collected during the walk
type seedEntry struct {
	rel   string
	name  string
	size  int64
	isDir bool
	real  string
}

// SeedResult summarizes a seeding run
type SeedResult struct {
	Files   int
	Dirs    int
	Skipped int // files that no longer fit on the device
	Bytes   int64
}

// Seed populates the simulated filesystem from a real directory tree:
// names, sizes and directory structure are mirrored, contents are not
// read (only sniffed for type detection). Files that exceed the
// remaining device capacity are skipped, not fatal.
func (fsim *FileSystem) Seed(dir string) (SeedResult, error) {
	var res SeedResult

	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return res, err
	}

	entryChan := make(chan seedEntry, 4096)
	var entries []seedEntry
	var collectWg sync.WaitGroup
	collectWg.Add(1)
	go func() {
		defer collectWg.Done()
		for e := range entryChan {
			entries = append(entries, e)
		}
	}()

	conf := &fastwalk.Config{
		Follow:     false,
		NumWorkers: seedWorkers,
	}
	walkErr := fastwalk.Walk(conf, absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped
		}
		if path == absRoot {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return nil
		}

		var size int64
		if !d.IsDir() {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			size = info.Size()
		}

		entryChan <- seedEntry{
			rel:   filepath.ToSlash(rel),
			name:  d.Name(),
			size:  size,
			isDir: d.IsDir(),
			real:  path,
		}
		return nil
	})

	close(entryChan)
	collectWg.Wait()
	if walkErr != nil {
		return res, walkErr
	}

	// Parents sort before children, so the tree builds in one pass
	sort.Slice(entries, func(i, j int) bool { return entries[i].rel < entries[j].rel })

	fsim.mu.Lock()
	defer fsim.mu.Unlock()

	nodes := map[string]*Node{"": fsim.root}
	for _, e := range entries {
		parentRel := ""
		if i := strings.LastIndexByte(e.rel, '/'); i >= 0 {
			parentRel = e.rel[:i]
		}
		parent, ok := nodes[parentRel]
		if !ok {
			continue // parent was skipped
		}

		if e.isDir {
			node := newNode(e.name, true, parent, fsim.now())
			parent.Children = append(parent.Children, node)
			nodes[e.rel] = node
			res.Dirs++
			continue
		}

		node := newNode(e.name, false, parent, fsim.now())
		node.Size = e.size
		if node.FileType == model.TypeBinary || node.FileType == model.TypeText {
			// Extension said little; sniff the real content
			node.FileType = model.DetectFileTypeAt(e.real, e.name)
		}

		if fsim.usedBytes+e.size > fsim.totalBytes {
			res.Skipped++
			continue
		}
		if err := fsim.allocate(node, e.size); err != nil {
			logging.Debug.Printf("[simfs] seed: skipping %s: %v", e.rel, err)
			res.Skipped++
			continue
		}

		parent.Children = append(parent.Children, node)
		fsim.usedBytes += e.size
		res.Files++
		res.Bytes += e.size
	}

	fsim.refreshUsage()
	if home := fsim.root.child("home"); home == nil {
		fsim.cwd = fsim.root
	}
	logging.Debug.Printf("[simfs] seeded %d files, %d dirs, %d skipped, %s",
		res.Files, res.Dirs, res.Skipped, formatSize(res.Bytes))
	return res, nil
}

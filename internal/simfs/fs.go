// Package simfs simulates a fixed-size block storage device with a
// filesystem on top: a tree of files and directories, a block bitmap,
// and three allocation strategies. It is the backend the visualization
// engine renders; no real disk I/O happens here.
package simfs

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/samuli/blockdive/internal/logging"
	"github.com/samuli/blockdive/internal/model"
)

// Defaults matching a 100 MB device with 4 KB blocks
const (
	DefaultTotalBytes = 100 * 1000 * 1000
	DefaultBlockSize  = 4096
)

// Options configures a new simulated filesystem
type Options struct {
	TotalBytes int64
	BlockSize  int64
	Strategy   model.AllocationType
	RandSeed   int64 // linked allocation placement; 0 means time-based
	NoSamples  bool  // skip the sample tree
}

// FileSystem is the simulated device and its directory tree. All
// exported methods are safe for concurrent use; snapshot accessors
// return copies, never internal state.
type FileSystem struct {
	mu sync.RWMutex

	root *Node
	cwd  *Node

	totalBytes int64
	usedBytes  int64
	blockSize  int64

	totalBlocks int
	bitmap      []bool
	freeCount   int
	blockOwner  map[int]*Node

	strategy model.AllocationType
	rng      *rand.Rand
	now      func() time.Time
}

// New creates a filesystem with the given options and, unless disabled,
// a small sample tree for demonstration.
func New(opts Options) *FileSystem {
	if opts.TotalBytes <= 0 {
		opts.TotalBytes = DefaultTotalBytes
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if !opts.Strategy.Valid() {
		opts.Strategy = model.Indexed
	}
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	totalBlocks := int((opts.TotalBytes + opts.BlockSize - 1) / opts.BlockSize)

	now := time.Now
	fs := &FileSystem{
		totalBytes:  opts.TotalBytes,
		blockSize:   opts.BlockSize,
		totalBlocks: totalBlocks,
		bitmap:      make([]bool, totalBlocks),
		freeCount:   totalBlocks,
		blockOwner:  make(map[int]*Node),
		strategy:    opts.Strategy,
		rng:         rand.New(rand.NewSource(seed)),
		now:         now,
	}
	fs.root = newNode("/", true, nil, now())
	fs.cwd = fs.root

	if !opts.NoSamples {
		fs.populateSamples()
	}
	fs.root.computeSizes()
	fs.usedBytes = fs.root.Size
	return fs
}

// populateSamples builds the default demonstration tree
func (fs *FileSystem) populateSamples() {
	fs.mkdirAt(fs.root, "home")
	home := fs.root.child("home")
	fs.mkdirAt(home, "user")
	user := home.child("user")

	fs.touchAt(user, "readme.txt", 0,
		"This is a sample readme file.\nWelcome to the block device simulator!")
	fs.touchAt(user, "notes.md", 0,
		"# My Notes\n\n- Important task 1\n- Important task 2")
	fs.touchAt(user, "photo.jpg", 0, "")
	fs.touchAt(user, "screenshot.png", 0, "")
	fs.touchAt(user, "document.pdf", 0, "")
	fs.touchAt(user, "presentation.pptx", 0, "")

	fs.mkdirAt(user, "documents")
	if docs := user.child("documents"); docs != nil {
		fs.touchAt(docs, "report.docx", 0, "")
		fs.touchAt(docs, "spreadsheet.xlsx", 0, "")
	}
	fs.mkdirAt(user, "media")
	if media := user.child("media"); media != nil {
		fs.touchAt(media, "video.mp4", 0, "")
		fs.touchAt(media, "music.mp3", 0, "")
	}

	fs.mkdirAt(fs.root, "etc")
	fs.mkdirAt(fs.root, "var")
	fs.mkdirAt(fs.root, "tmp")

	fs.cwd = user
}

// defaultSizeFor picks a plausible size for a file of the given type
func (fs *FileSystem) defaultSizeFor(fileType string) int64 {
	in := func(lo, hi int64) int64 { return lo + fs.rng.Int63n(hi-lo+1) }
	switch fileType {
	case model.TypeText:
		return in(100, 5_000)
	case model.TypeImage:
		return in(50_000, 2_000_000)
	case model.TypeVideo:
		return in(5_000_000, 50_000_000)
	case model.TypeAudio:
		return in(1_000_000, 10_000_000)
	case model.TypeDocument:
		return in(10_000, 500_000)
	case model.TypeArchive:
		return in(100_000, 10_000_000)
	case model.TypeExecutable:
		return in(1_000_000, 100_000_000)
	default:
		return in(1_000, 50_000)
	}
}

// findByPath resolves an absolute or relative path to a node
func (fs *FileSystem) findByPath(path string) *Node {
	if path == "" || path == "." {
		return fs.cwd
	}
	cur := fs.cwd
	if strings.HasPrefix(path, "/") {
		cur = fs.root
	}
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if cur.Parent != nil {
				cur = cur.Parent
			}
		default:
			if !cur.IsDir {
				return nil
			}
			next := cur.child(part)
			if next == nil {
				return nil
			}
			cur = next
		}
	}
	return cur
}

func (fs *FileSystem) refreshUsage() {
	fs.usedBytes = fs.root.computeSizes()
}

// BlockInfoSnapshot returns an immutable copy of the device allocation
// state
func (fs *FileSystem) BlockInfoSnapshot() model.BlockInfo {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	bitmap := make([]bool, len(fs.bitmap))
	copy(bitmap, fs.bitmap)
	used := fs.totalBlocks - fs.freeCount
	return model.BlockInfo{
		TotalBlocks:        fs.totalBlocks,
		UsedBlocks:         used,
		FreeBlocks:         fs.freeCount,
		BlockSize:          fs.blockSize,
		Bitmap:             bitmap,
		FragmentationIndex: fs.fragmentation(),
	}
}

// FileBlocks returns the block list of a file in the current directory.
// A missing or unallocated file yields a nil FileBlocks and an
// informational message, not an error.
func (fs *FileSystem) FileBlocks(name string) (*model.FileBlocks, string) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	target := fs.cwd.child(name)
	if target == nil {
		return nil, fmt.Sprintf("File '%s' not found", name)
	}
	if target.IsDir {
		return nil, fmt.Sprintf("'%s' is not a file", name)
	}
	if len(target.Blocks) == 0 {
		return nil, fmt.Sprintf("File '%s' has no block allocation information", name)
	}

	blocks := make([]int, len(target.Blocks))
	copy(blocks, target.Blocks)
	return &model.FileBlocks{
		Filename:       name,
		Size:           target.Size,
		Blocks:         blocks,
		AllocationType: target.AllocationType,
		StartBlock:     target.StartBlock,
		BlockCount:     len(blocks),
	}, ""
}

// SetStrategy sets the allocation strategy for new files
func (fs *FileSystem) SetStrategy(t model.AllocationType) (string, error) {
	if !t.Valid() {
		return "", fmt.Errorf("invalid allocation strategy %q: choose from contiguous, linked, indexed", t)
	}
	fs.mu.Lock()
	fs.strategy = t
	fs.mu.Unlock()
	logging.Debug.Printf("[simfs] allocation strategy set to %s", t)
	return fmt.Sprintf("Allocation strategy set to %s", t), nil
}

// Strategy returns the active allocation strategy
func (fs *FileSystem) Strategy() model.AllocationType {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.strategy
}

// ListDir lists the current directory for the file selector and the
// ownership-map rebuild
func (fs *FileSystem) ListDir() []model.FileEntry {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	entries := make([]model.FileEntry, 0, len(fs.cwd.Children))
	for _, c := range fs.cwd.Children {
		entries = append(entries, model.FileEntry{
			Name:        c.Name,
			Size:        c.Size,
			IsDir:       c.IsDir,
			FileType:    c.FileType,
			Permissions: c.Permissions,
			Owner:       c.Owner,
			Modified:    c.Modified,
		})
	}
	return entries
}

// Pwd returns the current working directory path
func (fs *FileSystem) Pwd() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.cwd.path()
}

// Usage returns used and total bytes of the device
func (fs *FileSystem) Usage() (used, total int64) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.usedBytes, fs.totalBytes
}

// BlockSize returns the device block size in bytes
func (fs *FileSystem) BlockSize() int64 {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.blockSize
}

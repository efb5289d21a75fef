package simfs

import (
	"time"

	"github.com/samuli/blockdive/internal/logging"
	"github.com/samuli/blockdive/internal/model"
)

// ImageNode is the serializable form of a Node: no parent pointer, so
// it can be gob-encoded without cycles.
type ImageNode struct {
	Name           string
	IsDir          bool
	Size           int64
	Created        time.Time
	Modified       time.Time
	Permissions    string
	Owner          string
	Content        string
	FileType       string
	Blocks         []int
	StartBlock     int
	AllocationType model.AllocationType
	Children       []ImageNode
}

// Image is a full serializable snapshot of the simulated filesystem
type Image struct {
	Root       ImageNode
	Cwd        string
	TotalBytes int64
	BlockSize  int64
	Strategy   model.AllocationType
}

// Image captures the filesystem state for persistence
func (fs *FileSystem) Image() Image {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return Image{
		Root:       toImageNode(fs.root),
		Cwd:        fs.cwd.path(),
		TotalBytes: fs.totalBytes,
		BlockSize:  fs.blockSize,
		Strategy:   fs.strategy,
	}
}

func toImageNode(n *Node) ImageNode {
	img := ImageNode{
		Name:           n.Name,
		IsDir:          n.IsDir,
		Size:           n.Size,
		Created:        n.Created,
		Modified:       n.Modified,
		Permissions:    n.Permissions,
		Owner:          n.Owner,
		Content:        n.Content,
		FileType:       n.FileType,
		Blocks:         n.Blocks,
		StartBlock:     n.StartBlock,
		AllocationType: n.AllocationType,
	}
	for _, c := range n.Children {
		img.Children = append(img.Children, toImageNode(c))
	}
	return img
}

// Restore rebuilds a filesystem from a saved image. The block bitmap
// is reconstructed from the tree's block lists; out-of-range indices
// in a damaged image are skipped, not fatal.
func Restore(img Image) *FileSystem {
	fs := New(Options{
		TotalBytes: img.TotalBytes,
		BlockSize:  img.BlockSize,
		Strategy:   img.Strategy,
		NoSamples:  true,
	})

	fs.root = fromImageNode(img.Root, nil, fs)
	fs.cwd = fs.root
	if cwd := fs.findByPath(img.Cwd); cwd != nil && cwd.IsDir {
		fs.cwd = cwd
	}
	fs.refreshUsage()
	return fs
}

func fromImageNode(img ImageNode, parent *Node, fs *FileSystem) *Node {
	n := &Node{
		Name:           img.Name,
		IsDir:          img.IsDir,
		Size:           img.Size,
		Parent:         parent,
		Created:        img.Created,
		Modified:       img.Modified,
		Permissions:    img.Permissions,
		Owner:          img.Owner,
		Content:        img.Content,
		FileType:       img.FileType,
		StartBlock:     img.StartBlock,
		AllocationType: img.AllocationType,
	}
	if !n.IsDir {
		var blocks []int
		for _, b := range img.Blocks {
			if b < 0 || b >= fs.totalBlocks {
				logging.Debug.Printf("[simfs] restore: dropping out-of-range block %d of %s", b, n.Name)
				continue
			}
			blocks = append(blocks, b)
		}
		n.Blocks = blocks
		fs.claim(n, blocks)
	}
	for _, c := range img.Children {
		n.Children = append(n.Children, fromImageNode(c, n, fs))
	}
	return n
}

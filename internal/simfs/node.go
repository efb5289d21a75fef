package simfs

import (
	"strings"
	"time"

	"github.com/samuli/blockdive/internal/model"
)

// Node is a file or directory in the simulated tree
type Node struct {
	Name        string
	IsDir       bool
	Size        int64
	Parent      *Node
	Children    []*Node
	Created     time.Time
	Modified    time.Time
	Permissions string
	Owner       string
	Content     string
	FileType    string // empty for directories

	// Block allocation, files only
	Blocks         []int
	StartBlock     int // first block for contiguous allocation, -1 otherwise
	AllocationType model.AllocationType
}

func newNode(name string, isDir bool, parent *Node, now time.Time) *Node {
	n := &Node{
		Name:        name,
		IsDir:       isDir,
		Parent:      parent,
		Created:     now,
		Modified:    now,
		Permissions: "rwxr-xr-x",
		Owner:       "user",
		StartBlock:  -1,
	}
	if !isDir {
		n.FileType = model.DetectFileType(name)
	}
	return n
}

// child returns the direct child with the given name, or nil
func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// path returns the absolute path of the node
func (n *Node) path() string {
	if n.Parent == nil {
		return "/"
	}
	var parts []string
	for cur := n; cur.Parent != nil; cur = cur.Parent {
		parts = append(parts, cur.Name)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// computeSizes recalculates directory sizes bottom-up and returns the
// total
func (n *Node) computeSizes() int64 {
	if !n.IsDir {
		return n.Size
	}
	var total int64
	for _, c := range n.Children {
		total += c.computeSizes()
	}
	n.Size = total
	return total
}

// walk visits every node in the subtree, n included
func (n *Node) walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.walk(fn)
	}
}

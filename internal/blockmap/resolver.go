package blockmap

import (
	"fmt"
	"strings"

	"github.com/samuli/blockdive/internal/model"
)

// BlockState is the single display state resolved for a block
type BlockState int

const (
	StateFree BlockState = iota
	StateUsed
	StateSelected
	StateSearchMatch
	StateHover
)

// String returns the wire-friendly status name
func (s BlockState) String() string {
	switch s {
	case StateFree:
		return "free"
	case StateUsed:
		return "used"
	case StateSelected:
		return "selected"
	case StateSearchMatch:
		return "search"
	case StateHover:
		return "hover"
	}
	return "unknown"
}

// Resolution is the resolved display state of one block
type Resolution struct {
	State    BlockState
	Label    string
	Filename string // owning or matched file, if any
}

// Resolver resolves block indices to display states against one
// committed snapshot. Build a new Resolver whenever any input changes;
// the selected file's block set is indexed once at construction.
type Resolver struct {
	info      model.BlockInfo
	file      *model.FileBlocks
	fileSet   map[int]struct{}
	ownership model.BlockOwnership
	search    string
	fileMatch bool // selected file's name matches the search term
	hovered   int
}

// NewResolver builds a resolver for the given snapshot. Out-of-range
// indices in the file's block list are skipped; they are an ignorable
// data defect, not a render failure.
func NewResolver(info model.BlockInfo, file *model.FileBlocks, ownership model.BlockOwnership, search string) *Resolver {
	r := &Resolver{
		info:      info,
		file:      file,
		ownership: ownership,
		search:    strings.ToLower(strings.TrimSpace(search)),
		hovered:   -1,
	}
	if file != nil {
		r.fileSet = make(map[int]struct{}, len(file.Blocks))
		for _, b := range file.Blocks {
			if info.InRange(b) {
				r.fileSet[b] = struct{}{}
			}
		}
		if r.search != "" {
			r.fileMatch = strings.Contains(strings.ToLower(file.Filename), r.search)
		}
	}
	return r
}

// SetHovered updates the hovered block index (-1 for none)
func (r *Resolver) SetHovered(i int) {
	r.hovered = i
}

// Hovered returns the current hovered block index, -1 if none
func (r *Resolver) Hovered() int {
	return r.hovered
}

// Resolve returns the display state of block i. Precedence, highest
// first: hover, search match, selected file, used, free. A block that
// is both used and in the selected file resolves to selected; a
// hovered free block resolves to hover with a contextual label.
func (r *Resolver) Resolve(i int) Resolution {
	base := r.resolveBase(i)
	if i == r.hovered && i >= 0 {
		return Resolution{State: StateHover, Label: base.Label, Filename: base.Filename}
	}
	return base
}

func (r *Resolver) resolveBase(i int) Resolution {
	if r.search != "" {
		if r.fileMatch {
			if _, ok := r.fileSet[i]; ok {
				return Resolution{
					State:    StateSearchMatch,
					Label:    fmt.Sprintf("Match: %s", r.file.Filename),
					Filename: r.file.Filename,
				}
			}
		}
		if o, ok := r.ownership[i]; ok && strings.Contains(strings.ToLower(o.Filename), r.search) {
			return Resolution{
				State:    StateSearchMatch,
				Label:    fmt.Sprintf("Match: %s", o.Filename),
				Filename: o.Filename,
			}
		}
	}

	if _, ok := r.fileSet[i]; ok {
		return Resolution{
			State:    StateSelected,
			Label:    fmt.Sprintf("Block of %s (%s)", r.file.Filename, r.file.AllocationType),
			Filename: r.file.Filename,
		}
	}

	if r.info.Used(i) {
		res := Resolution{State: StateUsed, Label: "Used block"}
		if o, ok := r.ownership[i]; ok {
			res.Label = fmt.Sprintf("Used by %s", o.Filename)
			res.Filename = o.Filename
		}
		return res
	}

	return Resolution{State: StateFree, Label: "Free block"}
}

// InSelectedFile reports whether block i belongs to the selected file
func (r *Resolver) InSelectedFile(i int) bool {
	_, ok := r.fileSet[i]
	return ok
}

// Owner returns the ownership entry for block i, if known
func (r *Resolver) Owner(i int) (model.Owner, bool) {
	o, ok := r.ownership[i]
	return o, ok
}

package blockmap

import (
	"math"

	"github.com/samuli/blockdive/internal/model"
)

// DefaultPageSize is the block count per page in the list fallback
const DefaultPageSize = 1000

// maxListColumns caps the column count of a rendered page
const maxListColumns = 50

// Pager partitions the block index space [0, total) into fixed-size
// pages for the list fallback view. Page is zero-based internally;
// SetPage takes the one-based number users type.
type Pager struct {
	Total    int
	PageSize int
	Page     int
}

// NewPager creates a pager positioned on the first page
func NewPager(total, pageSize int) Pager {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Pager{Total: total, PageSize: pageSize}
}

// TotalPages returns the page count, at least 1
func (p Pager) TotalPages() int {
	if p.Total <= 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Range returns the half-open index range [start, end) of the current
// page. The union of all pages' ranges covers [0, Total) exactly.
func (p Pager) Range() (start, end int) {
	start = p.Page * p.PageSize
	end = start + p.PageSize
	if end > p.Total {
		end = p.Total
	}
	if start > end {
		start = end
	}
	return start, end
}

// Next advances one page, clamped to the last page
func (p *Pager) Next() { p.jumpTo(p.Page + 1) }

// Prev goes back one page, clamped to the first page
func (p *Pager) Prev() { p.jumpTo(p.Page - 1) }

// Jump moves by delta pages, clamping at both ends
func (p *Pager) Jump(delta int) { p.jumpTo(p.Page + delta) }

// First moves to the first page
func (p *Pager) First() { p.Page = 0 }

// Last moves to the last page
func (p *Pager) Last() { p.Page = p.TotalPages() - 1 }

// SetPage moves to a one-based page number. Numbers outside
// [1, TotalPages] are a no-op and return false.
func (p *Pager) SetPage(n int) bool {
	if n < 1 || n > p.TotalPages() {
		return false
	}
	p.Page = n - 1
	return true
}

func (p *Pager) jumpTo(page int) {
	last := p.TotalPages() - 1
	if page < 0 {
		page = 0
	}
	if page > last {
		page = last
	}
	p.Page = page
}

// Columns chooses the column count for rendering one page: wide enough
// to keep pages compact, capped so individual blocks stay legible.
func (p Pager) Columns() int {
	c := int(math.Ceil(math.Sqrt(float64(p.PageSize) * 1.5)))
	if c > maxListColumns {
		c = maxListColumns
	}
	if c < 1 {
		c = 1
	}
	return c
}

// PageSummary holds per-page block counts shown above the page
type PageSummary struct {
	Free     int
	Used     int
	Selected int
}

// Summarize counts free/used/selected blocks in the current page by
// filtering its index range against the bitmap and the selected file's
// block set.
func (p Pager) Summarize(info model.BlockInfo, r *Resolver) PageSummary {
	var s PageSummary
	start, end := p.Range()
	for i := start; i < end; i++ {
		switch {
		case r != nil && r.InSelectedFile(i):
			s.Selected++
		case info.Used(i):
			s.Used++
		default:
			s.Free++
		}
	}
	return s
}

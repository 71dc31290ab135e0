// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import (
	"fmt"

	"github.com/erptab/erptab/internal/model1"
)

// DefaultPageSize is the page limit used when none is configured.
const DefaultPageSize = 50

// Pagination tracks a page window. Offset stays a multiple of Limit
// through Next and Prev. Offset+Limit may exceed Count on the last page.
type Pagination struct {
	Offset int
	Limit  int
	Count  int
}

// NewPagination returns a first page window of the given size.
func NewPagination(limit int) Pagination {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	return Pagination{Limit: limit}
}

// CanNext reports whether a later page exists.
func (p Pagination) CanNext() bool {
	return p.Offset+p.Limit < p.Count
}

// CanPrev reports whether an earlier page exists.
func (p Pagination) CanPrev() bool {
	return p.Offset > 0
}

// Next advances one page. It is a no-op on the last page.
func (p *Pagination) Next() bool {
	if !p.CanNext() {
		return false
	}
	p.Offset += p.Limit
	return true
}

// Prev goes back one page, flooring at the first page.
func (p *Pagination) Prev() bool {
	if !p.CanPrev() {
		return false
	}
	p.Offset = max(p.Offset-p.Limit, 0)
	return true
}

// SetLimit changes the page size and returns to the first page.
func (p *Pagination) SetLimit(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: page limit must be positive, got %d", ErrInvalidArgument, n)
	}
	p.Limit, p.Offset = n, 0
	return nil
}

// LastPage moves to the last page holding rows given the current count.
func (p *Pagination) LastPage() bool {
	if p.Count <= 0 {
		if p.Offset == 0 {
			return false
		}
		p.Offset = 0
		return true
	}
	last := ((p.Count - 1) / p.Limit) * p.Limit
	if last == p.Offset {
		return false
	}
	p.Offset = last
	return true
}

// PageNumber returns the 1-based current page.
func (p Pagination) PageNumber() int {
	return p.Offset/p.Limit + 1
}

// PageCount returns the number of pages, at least 1.
func (p Pagination) PageCount() int {
	if p.Count <= 0 {
		return 1
	}
	return (p.Count + p.Limit - 1) / p.Limit
}

// Info converts to the snapshot form.
func (p Pagination) Info() model1.PageInfo {
	return model1.PageInfo{Offset: p.Offset, Limit: p.Limit, Count: p.Count}
}

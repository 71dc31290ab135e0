// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import (
	"fmt"

	"github.com/erptab/erptab/internal/model1"
)

// DefaultMaxPinned caps pinned columns per side.
const DefaultMaxPinned = 3

// ColumnModel tracks order, visibility and pinning over a declared
// header. Declared columns never change; only their presentation does.
// It is not safe for concurrent use; the engine guards it.
type ColumnModel struct {
	header    model1.Header
	order     []string
	visible   map[string]bool
	pins      map[string]model1.PinSide
	maxPinned int
}

// NewColumnModel returns a model with order, visibility and pins
// defaulted from the header.
func NewColumnModel(h model1.Header, maxPinned int) (*ColumnModel, error) {
	if err := h.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidColumn, err)
	}
	if maxPinned <= 0 {
		maxPinned = DefaultMaxPinned
	}

	c := ColumnModel{
		header:    h.Clone(),
		order:     h.ColumnNames(),
		visible:   make(map[string]bool, len(h)),
		pins:      make(map[string]model1.PinSide, len(h)),
		maxPinned: maxPinned,
	}
	for _, col := range h {
		c.visible[col.Name] = !col.Hide
	}
	for _, col := range h {
		if col.Pin == model1.PinNone {
			continue
		}
		if err := c.Pin(col.Name, col.Pin); err != nil {
			return nil, err
		}
	}

	return &c, nil
}

// Header returns the declared header.
func (c *ColumnModel) Header() model1.Header {
	return c.header
}

// Column returns the declared column and its index.
func (c *ColumnModel) Column(key string) (model1.HeaderColumn, int, bool) {
	idx, ok := c.header.IndexOf(key)
	if !ok {
		return model1.HeaderColumn{}, -1, false
	}
	return c.header[idx], idx, true
}

// Order returns the ordered column keys.
func (c *ColumnModel) Order() []string {
	return append([]string(nil), c.order...)
}

// SetOrder replaces the column order. Keys left out keep their relative
// order and are appended.
func (c *ColumnModel) SetOrder(keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := c.header.IndexOf(k); !ok {
			return fmt.Errorf("%w: unknown key %q", ErrInvalidColumn, k)
		}
		if _, ok := seen[k]; ok {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidColumn, k)
		}
		seen[k] = struct{}{}
	}

	order := make([]string, 0, len(c.order))
	order = append(order, keys...)
	for _, k := range c.order {
		if _, ok := seen[k]; !ok {
			order = append(order, k)
		}
	}
	c.order = order

	return nil
}

// SetVisible toggles a column. Unknown keys are ignored.
func (c *ColumnModel) SetVisible(key string, visible bool) {
	if _, ok := c.visible[key]; !ok {
		return
	}
	c.visible[key] = visible
}

// IsVisible reports whether a column is shown.
func (c *ColumnModel) IsVisible(key string) bool {
	return c.visible[key]
}

// Pin pins a column to a side. PinNone unpins.
func (c *ColumnModel) Pin(key string, side model1.PinSide) error {
	if _, ok := c.header.IndexOf(key); !ok {
		return fmt.Errorf("%w: unknown key %q", ErrInvalidColumn, key)
	}
	if side == model1.PinNone {
		delete(c.pins, key)
		return nil
	}
	if c.pins[key] == side {
		return nil
	}
	if n := c.pinnedCount(side); n >= c.maxPinned {
		return fmt.Errorf("%w: %s side already has %d pinned columns", ErrInvalidArgument, side, n)
	}
	c.pins[key] = side

	return nil
}

// Unpin releases a pinned column.
func (c *ColumnModel) Unpin(key string) {
	delete(c.pins, key)
}

// PinSide returns the pin side of a column.
func (c *ColumnModel) PinSide(key string) model1.PinSide {
	return c.pins[key]
}

// Pinned returns the column keys pinned to a side, in column order.
func (c *ColumnModel) Pinned(side model1.PinSide) []string {
	var kk []string
	for _, k := range c.order {
		if c.pins[k] == side && side != model1.PinNone {
			kk = append(kk, k)
		}
	}
	return kk
}

func (c *ColumnModel) pinnedCount(side model1.PinSide) int {
	var n int
	for _, s := range c.pins {
		if s == side {
			n++
		}
	}
	return n
}

// VisibleIndexes returns declared header indexes in display order: left
// pinned, unpinned, then right pinned. Hidden columns are skipped.
func (c *ColumnModel) VisibleIndexes() []int {
	cols := make([]int, 0, len(c.order))
	for _, side := range []model1.PinSide{model1.PinLeft, model1.PinNone, model1.PinRight} {
		for _, k := range c.order {
			if !c.visible[k] || c.pins[k] != side {
				continue
			}
			idx, _ := c.header.IndexOf(k)
			cols = append(cols, idx)
		}
	}
	return cols
}

// VisibleColumns returns the visible columns in display order, with each
// column's pin side reflecting the current state.
func (c *ColumnModel) VisibleColumns() model1.Header {
	idxs := c.VisibleIndexes()
	h := make(model1.Header, 0, len(idxs))
	for _, i := range idxs {
		col := c.header[i].Clone()
		col.Pin = c.pins[col.Name]
		h = append(h, col)
	}
	return h
}

// Clone returns a deep copy.
func (c *ColumnModel) Clone() *ColumnModel {
	cc := ColumnModel{
		header:    c.header,
		order:     c.Order(),
		visible:   make(map[string]bool, len(c.visible)),
		pins:      make(map[string]model1.PinSide, len(c.pins)),
		maxPinned: c.maxPinned,
	}
	for k, v := range c.visible {
		cc.visible[k] = v
	}
	for k, v := range c.pins {
		cc.pins[k] = v
	}
	return &cc
}

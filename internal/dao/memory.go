// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package dao

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/erptab/erptab/internal/model1"
)

// MemorySource serves rows held in memory. It backs demos and tests.
type MemorySource struct {
	header   model1.Header
	rows     model1.Rows
	readOnly bool
	mx       sync.RWMutex
}

// NewMemorySource returns a source over a copy of rows.
func NewMemorySource(h model1.Header, rows model1.Rows) *MemorySource {
	return &MemorySource{
		header: h,
		rows:   rows.Clone(),
	}
}

// SetReadOnly toggles write refusal.
func (m *MemorySource) SetReadOnly(b bool) {
	m.mx.Lock()
	defer m.mx.Unlock()
	m.readOnly = b
}

// List filters, sorts and pages the rows.
func (m *MemorySource) List(ctx context.Context, q Query) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}

	m.mx.RLock()
	defer m.mx.RUnlock()

	f := q.Filter.Resolve(func(k string) bool {
		_, ok := m.header.IndexOf(k)
		return ok
	})
	matched := make(model1.Rows, 0, len(m.rows))
	for _, r := range m.rows {
		if m.matches(r, f) {
			matched = append(matched, r)
		}
	}

	if idx, ok := m.header.IndexOf(q.Sort.Column); ok {
		col := m.header[idx]
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := matched[i], matched[j]
			if q.Sort.Desc {
				a, b = b, a
			}
			return model1.Less(col.Kind, a.ID, b.ID, col.Value(a, idx), col.Value(b, idx))
		})
	}

	count := len(matched)
	start := min(max(q.Offset, 0), count)
	end := count
	if q.Limit > 0 {
		end = min(start+q.Limit, count)
	}

	return Page{
		Rows:  matched[start:end].Clone(),
		Count: count,
	}, nil
}

func (m *MemorySource) matches(r model1.Row, f Filter) bool {
	if text := strings.ToLower(strings.TrimSpace(f.Text)); text != "" {
		found := false
		for i, c := range m.header {
			if model1.Contains(c.Value(r, i), text) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	for k, v := range f.Columns {
		idx, _ := m.header.IndexOf(k)
		if !model1.Contains(m.header[idx].Value(r, idx), strings.ToLower(v)) {
			return false
		}
	}
	return true
}

// PersistCell updates a single cell.
func (m *MemorySource) PersistCell(ctx context.Context, rowID, column string, value any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mx.Lock()
	defer m.mx.Unlock()

	if m.readOnly {
		return ErrReadOnly
	}
	idx, ok := m.header.IndexOf(column)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	for i := range m.rows {
		if m.rows[i].ID == rowID {
			m.rows[i].Fields[idx] = value
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrRowNotFound, rowID)
}

// Delete removes rows by identity.
func (m *MemorySource) Delete(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mx.Lock()
	defer m.mx.Unlock()

	if m.readOnly {
		return ErrReadOnly
	}
	victims := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		victims[id] = struct{}{}
	}
	kept := m.rows[:0]
	for _, r := range m.rows {
		if _, ok := victims[r.ID]; !ok {
			kept = append(kept, r)
		}
	}
	m.rows = kept
	return nil
}

// Rows returns a copy of all rows.
func (m *MemorySource) Rows() model1.Rows {
	m.mx.RLock()
	defer m.mx.RUnlock()
	return m.rows.Clone()
}

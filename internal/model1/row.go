// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1

import "reflect"

// Fields represents the cell values of a row, positioned by header index.
type Fields []any

// At returns the value at index i or nil when out of range.
func (f Fields) At(i int) any {
	if i < 0 || i >= len(f) {
		return nil
	}
	return f[i]
}

func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	copy(out, f)
	return out
}

func (f Fields) Diff(o Fields) bool {
	if len(f) != len(o) {
		return true
	}
	for i := range f {
		if !reflect.DeepEqual(f[i], o[i]) {
			return true
		}
	}
	return false
}

// Row represents a collection of columns
type Row struct {
	ID     string
	Fields Fields
}

func NewRow(size int) Row {
	return Row{Fields: make(Fields, size)}
}

// Customize projects the row onto the given header positions, resolving
// derived columns through their accessor.
func (r Row) Customize(h Header, cols []int) Row {
	out := NewRow(len(cols))
	for i, c := range cols {
		if c < 0 || c >= len(h) {
			continue
		}
		out.Fields[i] = h[c].Value(r, c)
	}
	out.ID = r.ID
	return out
}

func (r Row) Diff(ro Row) bool {
	if r.ID != ro.ID {
		return true
	}
	return r.Fields.Diff(ro.Fields)
}

func (r Row) Clone() Row {
	return Row{
		ID:     r.ID,
		Fields: r.Fields.Clone(),
	}
}

func (r Row) Len() int {
	return len(r.Fields)
}

// Rows represents a collection of rows
type Rows []Row

func (r Rows) Clone() Rows {
	out := make(Rows, len(r))
	for i, row := range r {
		out[i] = row.Clone()
	}
	return out
}

// IDs returns the row identities in order.
func (r Rows) IDs() []string {
	ids := make([]string, len(r))
	for i, row := range r {
		ids[i] = row.ID
	}
	return ids
}

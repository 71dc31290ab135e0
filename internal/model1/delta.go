// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1

import "reflect"

// DeltaRow records previous values of changed fields, keyed by field index.
type DeltaRow map[int]any

func NewDeltaRow(o, n Row) DeltaRow {
	deltas := make(DeltaRow)
	for i, old := range o.Fields {
		if i >= len(n.Fields) {
			continue
		}
		if !reflect.DeepEqual(old, n.Fields[i]) {
			deltas[i] = old
		}
	}
	return deltas
}

func (d DeltaRow) Diff(r DeltaRow) bool {
	if len(d) != len(r) {
		return true
	}
	return !reflect.DeepEqual(d, r)
}

// Customize re-keys the deltas onto the given header positions.
func (d DeltaRow) Customize(cols []int) DeltaRow {
	if d.IsBlank() {
		return nil
	}
	out := make(DeltaRow)
	for i, c := range cols {
		if v, ok := d[c]; ok {
			out[i] = v
		}
	}
	return out
}

// Has reports whether field i changed.
func (d DeltaRow) Has(i int) bool {
	_, ok := d[i]
	return ok
}

func (d DeltaRow) IsBlank() bool {
	return len(d) == 0
}

func (d DeltaRow) Clone() DeltaRow {
	if d == nil {
		return nil
	}
	res := make(DeltaRow, len(d))
	for k, v := range d {
		res[k] = v
	}
	return res
}

// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1

import "fmt"

// RowEvent tracks a cached row and its local state.
type RowEvent struct {
	Kind   ResEvent
	Row    Row
	Deltas DeltaRow
}

func NewRowEvent(kind ResEvent, row Row) RowEvent {
	return RowEvent{
		Kind: kind,
		Row:  row,
	}
}

func NewRowEventWithDeltas(kind ResEvent, row Row, delta DeltaRow) RowEvent {
	return RowEvent{
		Kind:   kind,
		Row:    row,
		Deltas: delta,
	}
}

func (r RowEvent) Clone() RowEvent {
	return RowEvent{
		Kind:   r.Kind,
		Row:    r.Row.Clone(),
		Deltas: r.Deltas.Clone(),
	}
}

func (r RowEvent) Customize(h Header, cols []int) RowEvent {
	return RowEvent{
		Kind:   r.Kind,
		Deltas: r.Deltas.Customize(cols),
		Row:    r.Row.Customize(h, cols),
	}
}

func (r RowEvent) Diff(re RowEvent) bool {
	if r.Kind != re.Kind {
		return true
	}
	if r.Deltas.Diff(re.Deltas) {
		return true
	}
	return r.Row.Diff(re.Row)
}

// RowEvents a collection of row events indexed by row identity.
type RowEvents struct {
	events []RowEvent
	index  map[string]int
}

func NewRowEvents(size int) *RowEvents {
	return &RowEvents{
		events: make([]RowEvent, 0, size),
		index:  make(map[string]int, size),
	}
}

// NewRowEventsFrom builds a collection from rows with the given kind.
func NewRowEventsFrom(kind ResEvent, rows Rows) *RowEvents {
	out := NewRowEvents(len(rows))
	for _, r := range rows {
		out.Add(NewRowEvent(kind, r.Clone()))
	}
	return out
}

func (r *RowEvents) reindex() {
	for k := range r.index {
		delete(r.index, k)
	}
	for i, e := range r.events {
		r.index[e.Row.ID] = i
	}
}

func (r *RowEvents) At(i int) (RowEvent, bool) {
	if i < 0 || i >= len(r.events) {
		return RowEvent{}, false
	}
	return r.events[i], true
}

func (r *RowEvents) Set(i int, re RowEvent) {
	r.events[i] = re
	r.index[re.Row.ID] = i
}

func (r *RowEvents) Add(re RowEvent) {
	r.events = append(r.events, re)
	r.index[re.Row.ID] = len(r.events) - 1
}

func (r *RowEvents) Len() int {
	return len(r.events)
}

func (r *RowEvents) Empty() bool {
	return len(r.events) == 0
}

func (r *RowEvents) Clear() {
	r.events = r.events[:0]
	for k := range r.index {
		delete(r.index, k)
	}
}

func (r *RowEvents) Get(id string) (RowEvent, bool) {
	i, ok := r.index[id]
	if !ok {
		return RowEvent{}, false
	}
	return r.At(i)
}

func (r *RowEvents) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

func (r *RowEvents) FindIndex(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

func (r *RowEvents) Upsert(re RowEvent) {
	if idx, ok := r.FindIndex(re.Row.ID); ok {
		r.events[idx] = re
	} else {
		r.Add(re)
	}
}

func (r *RowEvents) Delete(id string) error {
	victim, ok := r.FindIndex(id)
	if !ok {
		return fmt.Errorf("unable to delete row with id: %q", id)
	}
	r.events = append(r.events[0:victim], r.events[victim+1:]...)
	r.reindex()
	return nil
}

func (r *RowEvents) Clone() *RowEvents {
	out := NewRowEvents(len(r.events))
	for _, e := range r.events {
		out.Add(e.Clone())
	}
	return out
}

func (r *RowEvents) Range(f func(int, RowEvent) bool) {
	for i, e := range r.events {
		if !f(i, e) {
			return
		}
	}
}

// IDs returns the row identities in cache order.
func (r *RowEvents) IDs() []string {
	ids := make([]string, len(r.events))
	for i, e := range r.events {
		ids[i] = e.Row.ID
	}
	return ids
}

// Rows returns clones of the cached rows.
func (r *RowEvents) Rows() Rows {
	rows := make(Rows, len(r.events))
	for i, e := range r.events {
		rows[i] = e.Row.Clone()
	}
	return rows
}

// Count returns the number of events.
func (r *RowEvents) Count() int {
	return len(r.events)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import "sort"

// Selection holds selected row identities. It is not safe for concurrent
// use; the engine guards it.
type Selection struct {
	marks map[string]struct{}
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{marks: make(map[string]struct{})}
}

// Toggle flips a row's membership.
func (s *Selection) Toggle(id string) {
	if _, ok := s.marks[id]; ok {
		delete(s.marks, id)
		return
	}
	s.marks[id] = struct{}{}
}

// SelectAll adds every id.
func (s *Selection) SelectAll(ids []string) {
	for _, id := range ids {
		s.marks[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.marks = make(map[string]struct{})
}

// IsSelected checks membership.
func (s *Selection) IsSelected(id string) bool {
	_, ok := s.marks[id]
	return ok
}

// Len returns the selection size.
func (s *Selection) Len() int {
	return len(s.marks)
}

// Retain drops every id not in ids.
func (s *Selection) Retain(ids []string) {
	keep := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.marks[id]; ok {
			keep[id] = struct{}{}
		}
	}
	s.marks = keep
}

// Aggregate summarizes the selection state of a page.
func (s *Selection) Aggregate(pageIDs []string) SelectState {
	var n int
	for _, id := range pageIDs {
		if s.IsSelected(id) {
			n++
		}
	}
	switch {
	case n == 0:
		return SelectNone
	case n == len(pageIDs):
		return SelectAll
	default:
		return SelectSome
	}
}

// IDs returns the selected ids, sorted.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.marks))
	for id := range s.marks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

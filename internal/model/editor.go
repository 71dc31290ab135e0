// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import (
	"fmt"

	"github.com/erptab/erptab/internal/model1"
)

// EditState is the inline edit controller state.
type EditState int

const (
	// EditIdle no edit in progress.
	EditIdle EditState = iota

	// EditEditing a draft is being edited.
	EditEditing

	// EditCommitting a draft is being persisted.
	EditCommitting
)

func (s EditState) String() string {
	switch s {
	case EditEditing:
		return "editing"
	case EditCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// Ticket identifies one commit in flight.
type Ticket struct {
	Ref      model1.CellRef
	Index    int
	Previous any
	Draft    any
	seq      uint64
}

// Editor is the inline edit state machine. It holds at most one edit
// target. It is not safe for concurrent use; the engine guards it.
type Editor struct {
	state    EditState
	ref      model1.CellRef
	idx      int
	draft    any
	previous any
	seq      uint64
}

// NewEditor returns an idle editor.
func NewEditor() *Editor {
	return &Editor{}
}

// State returns the current state.
func (e *Editor) State() EditState {
	return e.state
}

// Position returns the edit target and draft while editing or committing.
func (e *Editor) Position() (*model1.CellRef, any) {
	if e.state == EditIdle {
		return nil, nil
	}
	ref := e.ref
	return &ref, e.draft
}

// Begin starts editing a cell. prev seeds the draft.
func (e *Editor) Begin(rowID string, col model1.HeaderColumn, idx int, prev any) error {
	if e.state != EditIdle {
		return fmt.Errorf("%w: %s.%s is %s", ErrAlreadyEditing, e.ref.RowID, e.ref.Column, e.state)
	}
	if !col.Editable {
		return fmt.Errorf("%w: %s", ErrNotEditable, col.Name)
	}
	e.state = EditEditing
	e.ref = model1.CellRef{RowID: rowID, Column: col.Name}
	e.idx, e.draft, e.previous = idx, prev, prev

	return nil
}

// Update replaces the draft.
func (e *Editor) Update(v any) error {
	if e.state != EditEditing {
		return ErrNotEditing
	}
	e.draft = v
	return nil
}

// Commit moves to committing and returns the ticket to persist.
func (e *Editor) Commit() (Ticket, error) {
	if e.state != EditEditing {
		return Ticket{}, ErrNotEditing
	}
	e.state = EditCommitting
	e.seq++

	return Ticket{
		Ref:      e.ref,
		Index:    e.idx,
		Previous: e.previous,
		Draft:    e.draft,
		seq:      e.seq,
	}, nil
}

// Resolve settles a commit and returns to idle. Stale tickets are ignored.
func (e *Editor) Resolve(t Ticket) bool {
	if e.state != EditCommitting || t.seq != e.seq {
		return false
	}
	e.reset()
	return true
}

// Cancel discards the draft.
func (e *Editor) Cancel() error {
	if e.state != EditEditing {
		return ErrNotEditing
	}
	e.reset()
	return nil
}

// Abandon drops an edit in the editing state. Commits keep going.
func (e *Editor) Abandon() bool {
	if e.state != EditEditing {
		return false
	}
	e.reset()
	return true
}

func (e *Editor) reset() {
	e.state = EditIdle
	e.ref = model1.CellRef{}
	e.idx, e.draft, e.previous = 0, nil, nil
}

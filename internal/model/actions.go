// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import (
	"context"
	"sync"

	"github.com/erptab/erptab/internal/model1"
)

// ActionScope tells which rows an action receives.
type ActionScope int

const (
	// ScopeBulk actions receive the selected rows.
	ScopeBulk ActionScope = iota

	// ScopeRow actions receive a single row.
	ScopeRow
)

// Action is a caller supplied operation over table rows.
type Action struct {
	Name        string // Display name and lookup key
	Description string // Short description
	Scope       ActionScope
	Dangerous   bool // Requires confirmation
	Refresh     bool // Refetch the page on success
	Disabled    func(model1.Rows) bool
	Execute     func(ctx context.Context, rows model1.Rows) error
}

// BoundAction is an action with its predicate evaluated.
type BoundAction struct {
	Action
	IsDisabled bool
}

func (a Action) bind(rows model1.Rows) BoundAction {
	disabled := a.Execute == nil
	if a.Scope == ScopeBulk && len(rows) == 0 {
		disabled = true
	}
	if !disabled && a.Disabled != nil {
		disabled = a.Disabled(rows)
	}
	return BoundAction{Action: a, IsDisabled: disabled}
}

var (
	actionRegistry = map[string][]Action{}
	actionMx       sync.RWMutex
)

// RegisterActions registers actions for a table.
func RegisterActions(table string, actions []Action) {
	actionMx.Lock()
	defer actionMx.Unlock()
	actionRegistry[table] = append([]Action(nil), actions...)
}

// ActionsFor returns registered actions for a table.
func ActionsFor(table string) []Action {
	actionMx.RLock()
	defer actionMx.RUnlock()
	return append([]Action(nil), actionRegistry[table]...)
}

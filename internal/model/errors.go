// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidColumn is returned for unknown or duplicated column keys.
	ErrInvalidColumn = errors.New("invalid column")

	// ErrInvalidArgument is returned for out of range arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotEditable is returned when editing a read-only column.
	ErrNotEditable = errors.New("column is not editable")

	// ErrAlreadyEditing is returned when an edit is already in progress.
	ErrAlreadyEditing = errors.New("edit already in progress")

	// ErrNotEditing is returned when no edit is in progress.
	ErrNotEditing = errors.New("no edit in progress")

	// ErrRowNotFound is returned when a row is not in the current page.
	ErrRowNotFound = errors.New("row not found")

	// ErrUnknownAction is returned for unregistered actions.
	ErrUnknownAction = errors.New("unknown action")

	// ErrActionDisabled is returned when an action's predicate disables it.
	ErrActionDisabled = errors.New("action disabled")

	// ErrClosed is returned once the engine is closed.
	ErrClosed = errors.New("engine closed")

	// ErrFetchFailed tags data source fetch failures.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCommitFailed tags cell persistence failures.
	ErrCommitFailed = errors.New("commit failed")
)

// FetchError reports a failed page fetch.
type FetchError struct {
	Table string
	Query string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s [%s]: %v", ErrFetchFailed, e.Table, e.Query, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Err}
}

// CommitError reports a rejected inline edit. The cell has been reverted
// to Previous by the time it is delivered.
type CommitError struct {
	RowID     string
	Column    string
	Previous  any
	Attempted any
	Err       error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("%s: %s.%s: %v", ErrCommitFailed, e.RowID, e.Column, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *CommitError) Unwrap() []error {
	return []error{ErrCommitFailed, e.Err}
}

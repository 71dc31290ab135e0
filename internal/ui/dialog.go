// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// DialogCallback is called when dialog is dismissed.
type DialogCallback func()

// Dialog represents a single button message modal.
type Dialog struct {
	*tview.Modal

	overlay Overlay
	pageID  string
	onDone  DialogCallback
}

// NewDialog creates a new dialog.
func NewDialog(o Overlay, pageID, msg string) *Dialog {
	d := Dialog{
		Modal:   tview.NewModal(),
		overlay: o,
		pageID:  pageID,
	}
	d.SetBackgroundColor(tcell.ColorDefault)
	d.SetTextColor(tcell.ColorWhite)
	d.SetText(msg)
	d.AddButtons([]string{"OK"})
	d.SetDoneFunc(func(int, string) { d.Dismiss() })

	return &d
}

// SetDoneCallback sets the callback for when dialog closes.
func (d *Dialog) SetDoneCallback(fn DialogCallback) *Dialog {
	d.onDone = fn
	return d
}

// SetColors configures dialog colors.
func (d *Dialog) SetColors(text, btnBg, btnText tcell.Color) *Dialog {
	d.SetTextColor(text)
	d.SetButtonBackgroundColor(btnBg)
	d.SetButtonTextColor(btnText)
	return d
}

// Show displays the dialog as a modal overlay.
func (d *Dialog) Show() {
	if d.overlay != nil {
		d.overlay.ShowModal(d.pageID, d)
	}
}

// Dismiss removes the dialog from display.
func (d *Dialog) Dismiss() {
	if d.overlay != nil {
		d.overlay.DismissModal(d.pageID)
	}
	if d.onDone != nil {
		d.onDone()
	}
}

// PageID returns the dialog's page identifier.
func (d *Dialog) PageID() string {
	return d.pageID
}

// InfoDialog creates a simple info dialog.
func InfoDialog(o Overlay, msg string) *Dialog {
	return NewDialog(o, "info-dialog", msg)
}

// ErrorDialog creates a styled error dialog.
func ErrorDialog(o Overlay, msg string) *Dialog {
	return NewDialog(o, "error-dialog", msg).
		SetColors(tcell.ColorRed, tcell.ColorRed, tcell.ColorWhite)
}

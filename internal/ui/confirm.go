// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

const (
	confirmPage = "confirm-dialog"
	confirmYes  = "Yes"
	confirmNo   = "No"
)

// ConfirmFunc is called when user confirms action.
type ConfirmFunc func()

// Confirm represents a confirmation dialog.
type Confirm struct {
	*tview.Modal

	dangerous bool
	onConfirm ConfirmFunc
	onCancel  func()
	overlay   Overlay
}

// NewConfirm creates a new confirmation dialog.
func NewConfirm(o Overlay) *Confirm {
	c := Confirm{
		Modal:   tview.NewModal(),
		overlay: o,
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	c.AddButtons([]string{confirmYes, confirmNo})
	c.SetDoneFunc(c.handleButton)
	c.SetInputCapture(c.keyboard)
	c.updateStyle()

	return &c
}

// SetMessage sets the confirmation message.
func (c *Confirm) SetMessage(msg string) *Confirm {
	c.Modal.SetText(msg)
	return c
}

// SetDangerous styles the dialog for destructive operations.
func (c *Confirm) SetDangerous(dangerous bool) *Confirm {
	c.dangerous = dangerous
	c.updateStyle()
	return c
}

// SetOnConfirm sets the callback for when user confirms.
func (c *Confirm) SetOnConfirm(fn ConfirmFunc) *Confirm {
	c.onConfirm = fn
	return c
}

// SetOnCancel sets the callback for when user cancels.
func (c *Confirm) SetOnCancel(fn func()) *Confirm {
	c.onCancel = fn
	return c
}

// Show displays the dialog.
func (c *Confirm) Show() {
	if c.overlay != nil {
		c.overlay.ShowModal(confirmPage, c)
	}
}

// Dismiss removes the dialog.
func (c *Confirm) Dismiss() {
	if c.overlay != nil {
		c.overlay.DismissModal(confirmPage)
	}
}

// Answer dismisses the dialog and runs the matching callback.
func (c *Confirm) Answer(yes bool) {
	c.Dismiss()

	if yes {
		if c.onConfirm != nil {
			c.onConfirm()
		}
		return
	}
	if c.onCancel != nil {
		c.onCancel()
	}
}

func (c *Confirm) handleButton(_ int, label string) {
	c.Answer(label == confirmYes)
}

func (c *Confirm) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	switch AsKey(evt) {
	case KeyY:
		c.Answer(true)
	case KeyN, tcell.KeyEsc:
		c.Answer(false)
	default:
		return evt
	}
	return nil
}

func (c *Confirm) updateStyle() {
	if c.dangerous {
		c.SetTextColor(tcell.ColorRed)
		c.SetButtonBackgroundColor(tcell.ColorRed)
		c.SetButtonTextColor(tcell.ColorWhite)
		return
	}
	c.SetTextColor(tcell.ColorWhite)
	c.SetButtonBackgroundColor(tcell.ColorBlue)
	c.SetButtonTextColor(tcell.ColorWhite)
}

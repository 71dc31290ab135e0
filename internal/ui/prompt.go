// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/erptab/erptab/internal/model1"
)

const (
	promptPage  = "prompt"
	promptWidth = 60
)

// Prompt is a single line input shown over the content, used for cell
// edits and pickers.
type Prompt struct {
	*tview.InputField

	overlay  Overlay
	active   bool
	doneFn   func(string) error
	cancelFn func()
	changeFn func(string)
}

// NewPrompt returns a new prompt.
func NewPrompt(o Overlay) *Prompt {
	p := Prompt{
		InputField: tview.NewInputField(),
		overlay:    o,
	}
	p.SetBorder(true)
	p.SetBorderPadding(0, 0, 1, 1)
	p.SetBackgroundColor(tcell.ColorDefault)
	p.SetFieldBackgroundColor(tcell.ColorDefault)
	p.SetFieldTextColor(tcell.ColorWhite)
	p.SetLabelColor(tcell.ColorAqua)
	p.SetDoneFunc(p.done)
	p.SetChangedFunc(func(text string) {
		p.SetBorderColor(tcell.ColorWhite)
		if p.changeFn != nil {
			p.changeFn(text)
		}
	})

	return &p
}

// SetDoneFn sets the callback for a submitted value. An error keeps the
// prompt open.
func (p *Prompt) SetDoneFn(fn func(string) error) {
	p.doneFn = fn
}

// SetCancelFn sets the callback for a cancelled prompt.
func (p *Prompt) SetCancelFn(fn func()) {
	p.cancelFn = fn
}

// SetChangeFn sets the callback for text changes.
func (p *Prompt) SetChangeFn(fn func(string)) {
	p.changeFn = fn
}

// IsActive returns whether the prompt is shown.
func (p *Prompt) IsActive() bool {
	return p.active
}

// Activate shows the prompt with a title and initial text.
func (p *Prompt) Activate(title, text string) {
	p.active = true
	p.SetTitle(" " + title + " ")
	p.SetBorderColor(tcell.ColorWhite)
	p.SetText(text)
	if p.overlay != nil {
		p.overlay.ShowModal(promptPage, Centered(p, promptWidth, 3))
	}
}

// Deactivate hides the prompt.
func (p *Prompt) Deactivate() {
	if !p.active {
		return
	}
	p.active = false
	if p.overlay != nil {
		p.overlay.DismissModal(promptPage)
	}
}

// Submit runs the done callback on the current text.
func (p *Prompt) Submit() error {
	if p.doneFn != nil {
		if err := p.doneFn(p.GetText()); err != nil {
			p.SetBorderColor(tcell.ColorRed)
			return err
		}
	}
	p.Deactivate()
	return nil
}

// Cancel hides the prompt and runs the cancel callback.
func (p *Prompt) Cancel() {
	p.Deactivate()
	if p.cancelFn != nil {
		p.cancelFn()
	}
}

func (p *Prompt) done(key tcell.Key) {
	switch key {
	case tcell.KeyEnter:
		_ = p.Submit()
	case tcell.KeyEsc:
		p.Cancel()
	}
}

// Centered places p in the middle of the screen at the given size.
func Centered(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

// EditText returns the editable text of a cell value. Missing values edit
// as an empty string.
func EditText(v any) string {
	if v == nil {
		return ""
	}
	return model1.FormatValue(v)
}

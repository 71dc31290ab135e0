// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"fmt"

	"github.com/derailed/tview"
)

// Pages shows the top of a component stack.
type Pages struct {
	*tview.Pages
	*Stack
}

// NewPages returns a new pages manager.
func NewPages() *Pages {
	p := Pages{
		Pages: tview.NewPages(),
		Stack: NewStack(),
	}
	p.Stack.AddListener(&p)

	return &p
}

// Current returns the component shown on top.
func (p *Pages) Current() Component {
	return p.Stack.Top()
}

// Show replaces the whole stack with c.
func (p *Pages) Show(c Component) {
	p.Stack.Clear()
	p.Push(c)
}

// StackPushed notifies a new component was pushed.
func (p *Pages) StackPushed(c Component) {
	p.addAndShow(c)
}

// StackPopped notifies a component was removed.
func (p *Pages) StackPopped(o, top Component) {
	p.RemovePage(componentID(o))
	if top != nil {
		p.SwitchToPage(componentID(top))
	}
}

// StackTop notifies the current top component.
func (p *Pages) StackTop(top Component) {
	if top != nil {
		p.addAndShow(top)
	}
}

func (p *Pages) addAndShow(c Component) {
	id := componentID(c)
	if !p.HasPage(id) {
		p.AddPage(id, c, true, true)
	}
	p.SwitchToPage(id)
}

func componentID(c Component) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%s-%p", c.Name(), c)
}

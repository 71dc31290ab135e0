// SPDX-License-Identifier: Apache-2.0

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
)

// Crumbs represents user breadcrumbs, prefixed by the active tenant.
type Crumbs struct {
	*tview.TextView

	tenant   string
	readOnly bool
	names    []string
}

// NewCrumbs returns a new breadcrumb view.
func NewCrumbs() *Crumbs {
	c := Crumbs{
		TextView: tview.NewTextView(),
	}
	c.SetBackgroundColor(tcell.ColorDefault)
	c.SetTextAlign(tview.AlignLeft)
	c.SetBorderPadding(0, 0, 1, 1)
	c.SetDynamicColors(true)

	return &c
}

// SetTenant sets the leading tenant crumb.
func (c *Crumbs) SetTenant(name string, readOnly bool) {
	c.tenant, c.readOnly = name, readOnly
	c.refresh()
}

// StackPushed indicates a new item was added.
func (c *Crumbs) StackPushed(comp Component) {
	c.names = append(c.names, comp.Name())
	c.refresh()
}

// StackPopped indicates an item was deleted.
func (c *Crumbs) StackPopped(_, _ Component) {
	if len(c.names) > 0 {
		c.names = c.names[:len(c.names)-1]
	}
	c.refresh()
}

// StackTop indicates the top of the stack.
func (*Crumbs) StackTop(Component) {}

// Crumbs returns the current crumb names.
func (c *Crumbs) Crumbs() []string {
	return append([]string(nil), c.names...)
}

func (c *Crumbs) refresh() {
	c.Clear()
	if c.tenant != "" {
		color := "aqua"
		if c.readOnly {
			color = "orange"
		}
		_, _ = fmt.Fprintf(c, "[%s::b]%s[-:-:-] ", color, c.tenant)
	}

	last := len(c.names) - 1
	for i, crumb := range c.names {
		crumb = strings.ReplaceAll(strings.ToLower(crumb), " ", "")
		if i == last {
			_, _ = fmt.Fprintf(c, "[yellow:black:b] <%s> [-:-:-] ", crumb)
			continue
		}
		_, _ = fmt.Fprintf(c, "[gray::-] <%s> [-:-:-] ", crumb)
	}
}

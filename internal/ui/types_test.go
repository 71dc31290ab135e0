// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui_test

import (
	"context"
	"sort"
	"testing"

	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"

	"github.com/erptab/erptab/internal/ui"
)

type fakeComponent struct {
	*tview.Box

	name    string
	stopped int
}

func newFakeComponent(n string) *fakeComponent {
	return &fakeComponent{Box: tview.NewBox(), name: n}
}

func (c *fakeComponent) Name() string             { return c.name }
func (*fakeComponent) Init(context.Context) error { return nil }
func (*fakeComponent) Start()                     {}
func (c *fakeComponent) Stop()                    { c.stopped++ }

func (*fakeComponent) Hints() ui.MenuHints {
	return ui.MenuHints{{Mnemonic: "e", Description: "Edit", Visible: true}}
}

type stackSpy struct {
	pushed, popped []string
	top            string
}

func (s *stackSpy) StackPushed(c ui.Component) { s.pushed = append(s.pushed, c.Name()) }
func (s *stackSpy) StackPopped(o, _ ui.Component) {
	s.popped = append(s.popped, o.Name())
}
func (s *stackSpy) StackTop(c ui.Component) { s.top = c.Name() }

func TestMenuHintsSort(t *testing.T) {
	hh := ui.MenuHints{
		{Mnemonic: "ctrl-d", Description: "Delete", Dangerous: true},
		{Mnemonic: "s", Description: "Sort"},
		{Mnemonic: "2", Description: "Two"},
		{Mnemonic: "e", Description: "Edit"},
		{Mnemonic: "1", Description: "One"},
	}
	sort.Sort(hh)

	names := make([]string, 0, len(hh))
	for _, h := range hh {
		names = append(names, h.Description)
	}
	assert.Equal(t, []string{"One", "Two", "Edit", "Sort", "Delete"}, names)
}

func TestLayoutMenu(t *testing.T) {
	uu := map[string]struct {
		hh   ui.MenuHints
		rows int
		e    [][]string
	}{
		"empty": {
			rows: 2,
		},
		"hidden": {
			hh:   ui.MenuHints{{Mnemonic: "a", Description: "A"}},
			rows: 2,
		},
		"single-col": {
			hh: ui.MenuHints{
				{Mnemonic: "b", Description: "B", Visible: true},
				{Mnemonic: "a", Description: "A", Visible: true},
			},
			rows: 3,
			e:    [][]string{{"A"}, {"B"}},
		},
		"wraps": {
			hh: ui.MenuHints{
				{Mnemonic: "a", Description: "A", Visible: true},
				{Mnemonic: "b", Description: "B", Visible: true},
				{Mnemonic: "c", Description: "C", Visible: true},
				{Mnemonic: "x", Description: "X"},
			},
			rows: 2,
			e:    [][]string{{"A", "C"}, {"B", ""}},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			out := ui.LayoutMenu(u.hh, u.rows)
			var got [][]string
			for _, row := range out {
				cells := make([]string, 0, len(row))
				for _, h := range row {
					cells = append(cells, h.Description)
				}
				got = append(got, cells)
			}
			assert.Equal(t, u.e, got)
		})
	}
}

func TestStackPushPop(t *testing.T) {
	s := ui.NewStack()
	spy := stackSpy{}
	s.AddListener(&spy)

	c1, c2 := newFakeComponent("c1"), newFakeComponent("c2")
	s.Push(c1)
	s.Push(c2)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"c1", "c2"}, s.Flatten())
	assert.Equal(t, 1, c1.stopped)
	assert.Equal(t, c2, s.Top())

	c, ok := s.Pop()
	assert.True(t, ok)
	assert.Equal(t, c2, c)
	assert.Equal(t, 1, c2.stopped)

	s.Clear()
	assert.True(t, s.Empty())
	_, ok = s.Pop()
	assert.False(t, ok)

	assert.Equal(t, []string{"c1", "c2"}, spy.pushed)
	assert.Equal(t, []string{"c2", "c1"}, spy.popped)
}

func TestStackListenerTop(t *testing.T) {
	s := ui.NewStack()
	s.Push(newFakeComponent("c1"))

	spy := stackSpy{}
	s.AddListener(&spy)
	assert.Equal(t, "c1", spy.top)
}

func TestPagesShow(t *testing.T) {
	p := ui.NewPages()
	crumbs := ui.NewCrumbs()
	p.AddListener(crumbs)

	c1, c2, c3 := newFakeComponent("parts"), newFakeComponent("detail"), newFakeComponent("orders")
	p.Push(c1)
	p.Push(c2)
	assert.Equal(t, c2, p.Current())
	assert.Equal(t, []string{"parts", "detail"}, crumbs.Crumbs())

	p.Pop()
	assert.Equal(t, c1, p.Current())
	assert.Equal(t, []string{"parts"}, crumbs.Crumbs())

	p.Show(c3)
	assert.Equal(t, 1, p.Len())
	assert.Equal(t, c3, p.Current())
	assert.Equal(t, []string{"orders"}, crumbs.Crumbs())
}

func TestTrimCell(t *testing.T) {
	tv := tview.NewTable()
	tv.SetCell(0, 0, tview.NewTableCell("  fred "))

	assert.Equal(t, "fred", ui.TrimCell(tv, 0, 0))
	assert.Equal(t, "", ui.TrimCell(tv, 5, 5))
}

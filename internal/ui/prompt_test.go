// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui_test

import (
	"errors"
	"testing"

	"github.com/derailed/tview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/ui"
)

type fakeOverlay struct {
	shown map[string]tview.Primitive
}

func newFakeOverlay() *fakeOverlay {
	return &fakeOverlay{shown: make(map[string]tview.Primitive)}
}

func (o *fakeOverlay) ShowModal(id string, p tview.Primitive) { o.shown[id] = p }
func (o *fakeOverlay) DismissModal(id string)                 { delete(o.shown, id) }

func TestPromptSubmit(t *testing.T) {
	o := newFakeOverlay()
	p := ui.NewPrompt(o)

	var got []string
	p.SetDoneFn(func(s string) error {
		got = append(got, s)
		if s == "bad" {
			return errors.New("invalid int")
		}
		return nil
	})

	p.Activate("qty", "bad")
	assert.True(t, p.IsActive())
	assert.Contains(t, o.shown, "prompt")

	require.Error(t, p.Submit())
	assert.True(t, p.IsActive())
	assert.Contains(t, o.shown, "prompt")

	p.SetText("12")
	require.NoError(t, p.Submit())
	assert.False(t, p.IsActive())
	assert.NotContains(t, o.shown, "prompt")
	assert.Equal(t, []string{"bad", "12"}, got)
}

func TestPromptCancel(t *testing.T) {
	o := newFakeOverlay()
	p := ui.NewPrompt(o)

	var cancelled, changed int
	p.SetCancelFn(func() { cancelled++ })
	p.SetChangeFn(func(string) { changed++ })

	p.Activate("name", "")
	p.SetText("bolt")
	assert.Positive(t, changed)

	p.Cancel()
	assert.Equal(t, 1, cancelled)
	assert.False(t, p.IsActive())
	assert.Empty(t, o.shown)
}

func TestEditText(t *testing.T) {
	uu := map[string]struct {
		v any
		e string
	}{
		"nil":   {e: ""},
		"text":  {v: "bolt", e: "bolt"},
		"int":   {v: int64(42), e: "42"},
		"float": {v: 1.5, e: "1.5"},
		"bool":  {v: true, e: "yes"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, ui.EditText(u.v))
		})
	}
}

func TestConfirm(t *testing.T) {
	uu := map[string]struct {
		answer  bool
		yes, no bool
	}{
		"yes": {answer: true, yes: true},
		"no":  {no: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			o := newFakeOverlay()
			var yes, no bool
			c := ui.NewConfirm(o).
				SetMessage("Delete 2 rows?").
				SetDangerous(true).
				SetOnConfirm(func() { yes = true }).
				SetOnCancel(func() { no = true })
			c.Show()
			assert.Contains(t, o.shown, "confirm-dialog")

			c.Answer(u.answer)
			assert.Equal(t, u.yes, yes)
			assert.Equal(t, u.no, no)
			assert.Empty(t, o.shown)
		})
	}
}

func TestDialog(t *testing.T) {
	o := newFakeOverlay()
	var done bool
	d := ui.ErrorDialog(o, "boom").SetDoneCallback(func() { done = true })
	d.Show()
	assert.Contains(t, o.shown, d.PageID())

	d.Dismiss()
	assert.True(t, done)
	assert.Empty(t, o.shown)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package ui

import (
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"

	"github.com/erptab/erptab/internal/model1"
	"github.com/erptab/erptab/internal/render"
)

// IndicatorMode represents the current input mode.
type IndicatorMode int

const (
	// ModeNormal is the default navigation mode.
	ModeNormal IndicatorMode = iota
	// ModeCommand is for entering commands (: prefix).
	ModeCommand
	// ModeFilter is for filtering rows (/ prefix).
	ModeFilter
)

// Mode indicators.
const (
	IndicatorNormal  = "📒"
	IndicatorCommand = "📒"
	IndicatorFilter  = "🔍"
)

// Indicator is the status line under a table: page window, filter,
// selection and edit state.
type Indicator struct {
	*tview.TextView

	readOnly bool
	status   string
}

// NewIndicator returns a new status line.
func NewIndicator() *Indicator {
	i := Indicator{
		TextView: tview.NewTextView(),
	}
	i.SetDynamicColors(true)
	i.SetBackgroundColor(tcell.ColorDefault)
	i.SetTextColor(tcell.ColorWhite)
	i.SetTextAlign(tview.AlignRight)
	i.SetBorderPadding(0, 0, 1, 1)

	return &i
}

// SetReadOnly flags the active tenant as read-only.
func (i *Indicator) SetReadOnly(b bool) {
	i.readOnly = b
	i.refresh()
}

// Update describes the given snapshot.
func (i *Indicator) Update(data *model1.TableData) {
	i.status = Status(data)
	i.refresh()
}

// Reset clears the status line.
func (i *Indicator) Reset() {
	i.status = ""
	i.refresh()
}

// Text returns the plain status text.
func (i *Indicator) Text() string {
	return i.status
}

func (i *Indicator) refresh() {
	var b strings.Builder
	if i.readOnly {
		b.WriteString("[orange::b]read-only[-::-] ")
	}
	b.WriteString(tview.Escape(i.status))
	i.TextView.SetText(b.String())
}

// Status summarizes a snapshot for the status line.
func Status(data *model1.TableData) string {
	if data == nil {
		return ""
	}

	parts := []string{render.Footer(data)}
	if p := data.Page(); p.Limit > 0 && p.Count > 0 {
		parts = append(parts, fmt.Sprintf("page %d/%d", p.Offset/p.Limit+1, (p.Count+p.Limit-1)/p.Limit))
	}
	if ref, draft := data.EditPosition(); ref != nil {
		parts = append(parts, fmt.Sprintf("editing %s.%s=%s", ref.RowID, ref.Column, model1.FormatValue(draft)))
	} else if ref := data.Pending(); ref != nil {
		parts = append(parts, fmt.Sprintf("saving %s.%s%s", ref.RowID, ref.Column, render.PendingMark))
	}

	return strings.Join(parts, " | ")
}

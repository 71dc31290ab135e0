// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/derailed/tcell/v2"
	"github.com/derailed/tview"
	"gopkg.in/yaml.v3"

	"github.com/erptab/erptab/internal/model1"
	"github.com/erptab/erptab/internal/ui"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// Detail shows every declared column of one row, hidden ones included.
type Detail struct {
	*tview.TextView

	app     *App
	table   string
	header  model1.Header
	row     model1.Row
	format  string
	actions *ui.KeyActions
	wrapOn  bool
}

// NewDetail returns a row detail view.
func NewDetail(a *App, table string, h model1.Header, r model1.Row) *Detail {
	d := Detail{
		TextView: tview.NewTextView(),
		app:      a,
		table:    table,
		header:   h,
		row:      r,
		format:   formatYAML,
		actions:  ui.NewKeyActions(),
	}

	d.SetDynamicColors(true)
	d.SetWrap(false)
	d.SetWordWrap(false)
	d.SetScrollable(true)
	d.SetBorder(true)
	d.SetBorderPadding(0, 0, 1, 1)
	d.SetBorderColor(tcell.ColorAqua)

	return &d
}

// Init initializes the view.
func (d *Detail) Init(context.Context) error {
	d.actions.Bulk(ui.KeyMap{
		ui.KeyY:         ui.NewKeyAction("YAML", d.formatCmd(formatYAML), true),
		ui.KeyShiftJ:    ui.NewKeyAction("JSON", d.formatCmd(formatJSON), true),
		ui.KeyW:         ui.NewKeyAction("Wrap", d.toggleWrap, true),
		tcell.KeyEscape: ui.NewKeyAction("Back", d.backCmd, true),
		ui.KeyQ:         ui.NewSharedKeyAction("Back", d.backCmd),
	})
	d.SetInputCapture(d.keyboard)

	return nil
}

// Start renders the row.
func (d *Detail) Start() {
	d.refresh()
}

// Stop stops the view.
func (*Detail) Stop() {}

// Name returns the view name.
func (*Detail) Name() string {
	return "detail"
}

// Hints returns the menu hints for this view.
func (d *Detail) Hints() ui.MenuHints {
	return d.actions.Hints()
}

func (d *Detail) refresh() {
	d.Clear()
	d.SetTitle(fmt.Sprintf(" %s/%s [%s] ", d.table, d.row.ID, strings.ToUpper(d.format)))

	var (
		out string
		err error
	)
	if d.format == formatJSON {
		var raw []byte
		if raw, err = RowJSON(d.header, d.row); err == nil {
			out = tview.Escape(string(raw))
		}
	} else {
		if out, err = RowYAML(d.header, d.row); err == nil {
			out = highlightYAML(out)
		}
	}
	if err != nil {
		d.SetText(fmt.Sprintf("[red::]Error rendering row: %v[-::]", tview.Escape(err.Error())))
		return
	}
	d.SetText(out)
	d.ScrollToBeginning()
}

func (d *Detail) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	row, _ := d.GetScrollOffset()
	switch evt.Key() {
	case tcell.KeyDown:
		d.ScrollTo(row+1, 0)
		return nil
	case tcell.KeyUp:
		d.ScrollTo(max(row-1, 0), 0)
		return nil
	case tcell.KeyPgDn:
		d.ScrollTo(row+20, 0)
		return nil
	case tcell.KeyPgUp:
		d.ScrollTo(max(row-20, 0), 0)
		return nil
	case tcell.KeyHome:
		d.ScrollToBeginning()
		return nil
	case tcell.KeyEnd:
		d.ScrollToEnd()
		return nil
	case tcell.KeyRune:
		switch evt.Rune() {
		case 'j':
			d.ScrollTo(row+1, 0)
			return nil
		case 'k':
			d.ScrollTo(max(row-1, 0), 0)
			return nil
		case 'g':
			d.ScrollToBeginning()
			return nil
		case 'G':
			d.ScrollToEnd()
			return nil
		}
	}

	if a, ok := d.actions.Get(ui.AsKey(evt)); ok {
		return a.Action(evt)
	}

	return evt
}

func (d *Detail) formatCmd(format string) ui.ActionHandler {
	return func(*tcell.EventKey) *tcell.EventKey {
		d.format = format
		d.refresh()
		return nil
	}
}

func (d *Detail) toggleWrap(*tcell.EventKey) *tcell.EventKey {
	d.wrapOn = !d.wrapOn
	d.SetWrap(d.wrapOn)
	d.SetWordWrap(d.wrapOn)
	return nil
}

func (d *Detail) backCmd(*tcell.EventKey) *tcell.EventKey {
	d.app.Pop()
	return nil
}

// RowYAML renders a row as a YAML mapping in header order.
func RowYAML(h model1.Header, r model1.Row) (string, error) {
	doc := yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: "id"},
		&yaml.Node{Kind: yaml.ScalarNode, Value: r.ID, Style: yaml.DoubleQuotedStyle},
	)
	for i, c := range h {
		var v yaml.Node
		if err := v.Encode(c.Value(r, i)); err != nil {
			return "", fmt.Errorf("encode %s: %w", c.Name, err)
		}
		doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: c.Name}, &v)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// RowJSON renders a row as a JSON object in header order.
func RowJSON(h model1.Header, r model1.Row) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	write := func(k string, v any, last bool) error {
		kb, err := json.Marshal(k)
		if err != nil {
			return err
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		fmt.Fprintf(&buf, "  %s: %s", kb, vb)
		if !last {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
		return nil
	}
	if err := write("id", r.ID, len(h) == 0); err != nil {
		return nil, err
	}
	for i, c := range h {
		if err := write(c.Name, c.Value(r, i), i == len(h)-1); err != nil {
			return nil, err
		}
	}
	buf.WriteString("}")

	return buf.Bytes(), nil
}

// highlightYAML colors keys and values of a flat YAML document.
func highlightYAML(content string) string {
	var b strings.Builder
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		i := strings.Index(line, ":")
		if i <= 0 {
			b.WriteString(tview.Escape(line) + "\n")
			continue
		}
		key, value := line[:i+1], strings.TrimSpace(line[i+1:])
		if value == "" {
			fmt.Fprintf(&b, "[aqua::]%s[-::]\n", tview.Escape(key))
			continue
		}
		fmt.Fprintf(&b, "[aqua::]%s[-::] %s\n", tview.Escape(key), colorizeValue(value))
	}

	return b.String()
}

// colorizeValue applies color based on value type.
func colorizeValue(value string) string {
	trimmed := strings.Trim(value, "\"'")
	esc := tview.Escape(value)

	switch strings.ToLower(trimmed) {
	case "true", "yes":
		return "[green::]" + esc + "[-::]"
	case "false", "no":
		return "[red::]" + esc + "[-::]"
	case "null", "~":
		return "[gray::]" + esc + "[-::]"
	}
	if _, err := model1.ParseValue(model1.KindFloat, trimmed); err == nil && trimmed == value {
		return "[fuchsia::]" + esc + "[-::]"
	}

	return esc
}

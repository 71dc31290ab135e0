// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1

import (
	"fmt"
	"strings"
)

// Kind describes the value type stored in a column.
type Kind int

const (
	// KindText holds strings.
	KindText Kind = iota

	// KindInt holds int64 values.
	KindInt

	// KindFloat holds float64 values.
	KindFloat

	// KindBool holds booleans.
	KindBool
)

// ParseKind converts a config kind name.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "string":
		return KindText, nil
	case "int", "integer":
		return KindInt, nil
	case "float", "real", "number", "decimal":
		return KindFloat, nil
	case "bool", "boolean":
		return KindBool, nil
	default:
		return KindText, fmt.Errorf("unknown column kind %q", s)
	}
}

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "text"
	}
}

// PinSide tells where a pinned column renders.
type PinSide int

const (
	// PinNone leaves the column in the scrollable region.
	PinNone PinSide = iota

	// PinLeft renders the column before the scrollable region.
	PinLeft

	// PinRight renders the column after the scrollable region.
	PinRight
)

// ParsePinSide converts a config pin name.
func ParsePinSide(s string) (PinSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return PinNone, nil
	case "left":
		return PinLeft, nil
	case "right":
		return PinRight, nil
	default:
		return PinNone, fmt.Errorf("unknown pin side %q", s)
	}
}

func (p PinSide) String() string {
	switch p {
	case PinLeft:
		return "left"
	case PinRight:
		return "right"
	default:
		return "none"
	}
}

// Attrs represents column attributes
type Attrs struct {
	Align     int  // tview alignment
	Kind      Kind // Value type
	Sortable  bool // Server side sort allowed
	Editable  bool // Inline edit allowed
	Hide      bool // Hidden by default
	Pin       PinSide
	Decorator DecoratorFunc
	Accessor  AccessorFunc
}

func (a Attrs) Merge(b Attrs) Attrs {
	if a.Align == 0 {
		a.Align = b.Align
	}
	if a.Kind == KindText {
		a.Kind = b.Kind
	}
	if !a.Sortable {
		a.Sortable = b.Sortable
	}
	if !a.Editable {
		a.Editable = b.Editable
	}
	if !a.Hide {
		a.Hide = b.Hide
	}
	if a.Pin == PinNone {
		a.Pin = b.Pin
	}
	if a.Decorator == nil {
		a.Decorator = b.Decorator
	}
	if a.Accessor == nil {
		a.Accessor = b.Accessor
	}
	return a
}

// HeaderColumn represents a table header column. Name is the column key.
type HeaderColumn struct {
	Name  string
	Title string
	Attrs
}

func (h HeaderColumn) String() string {
	return fmt.Sprintf("%s [%s::%t::%t]", h.Name, h.Kind, h.Sortable, h.Editable)
}

// Label returns the display title.
func (h HeaderColumn) Label() string {
	if h.Title != "" {
		return h.Title
	}
	return strings.ToUpper(h.Name)
}

// Value reads the column value from a row. idx is the column position in
// the declared header.
func (h HeaderColumn) Value(r Row, idx int) any {
	if h.Accessor != nil {
		return h.Accessor(r)
	}
	return r.Fields.At(idx)
}

// Render formats a value for display.
func (h HeaderColumn) Render(v any) string {
	if h.Decorator != nil {
		return h.Decorator(v)
	}
	return FormatValue(v)
}

func (h HeaderColumn) Clone() HeaderColumn {
	return h
}

// Header represents a table header (slice of columns)
type Header []HeaderColumn

func (h Header) Clone() Header {
	he := make(Header, 0, len(h))
	for _, c := range h {
		he = append(he, c.Clone())
	}
	return he
}

// Diff reports whether the headers differ by key or attributes. Function
// fields are not compared.
func (h Header) Diff(header Header) bool {
	if len(h) != len(header) {
		return true
	}
	for i := range h {
		a, b := h[i], header[i]
		if a.Name != b.Name || a.Title != b.Title || a.Align != b.Align ||
			a.Kind != b.Kind || a.Sortable != b.Sortable || a.Editable != b.Editable ||
			a.Hide != b.Hide || a.Pin != b.Pin {
			return true
		}
	}
	return false
}

func (h Header) IndexOf(colName string) (int, bool) {
	for i, c := range h {
		if c.Name == colName {
			return i, true
		}
	}
	return -1, false
}

func (h Header) ColumnNames() []string {
	if len(h) == 0 {
		return nil
	}
	cc := make([]string, 0, len(h))
	for _, c := range h {
		cc = append(cc, c.Name)
	}
	return cc
}

// Validate checks the header is usable by a table engine.
func (h Header) Validate() error {
	if len(h) == 0 {
		return fmt.Errorf("header has no columns")
	}
	seen := make(map[string]struct{}, len(h))
	for _, c := range h {
		if c.Name == "" {
			return fmt.Errorf("header column with empty key")
		}
		if _, ok := seen[c.Name]; ok {
			return fmt.Errorf("duplicate column key %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		// Edits write the column's own field, a derived value has nowhere to go.
		if c.Editable && c.Accessor != nil {
			return fmt.Errorf("column %q is editable but derived", c.Name)
		}
	}
	return nil
}

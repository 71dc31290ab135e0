package data

import (
	"fmt"
	"strings"

	"github.com/derailed/tview"

	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/model1"
)

// ColumnSpec declares one table column.
type ColumnSpec struct {
	Key      string `yaml:"key"`
	Title    string `yaml:"title,omitempty"`
	Kind     string `yaml:"kind,omitempty"`
	Align    string `yaml:"align,omitempty"`
	Pin      string `yaml:"pin,omitempty"`
	Sortable bool   `yaml:"sortable,omitempty"`
	Editable bool   `yaml:"editable,omitempty"`
	Hidden   bool   `yaml:"hidden,omitempty"`
}

// TableSpec declares a table and its SQL storage.
type TableSpec struct {
	Name      string       `yaml:"name"`
	Table     string       `yaml:"table,omitempty"`
	IDColumn  string       `yaml:"idColumn,omitempty"`
	IDPrefix  string       `yaml:"idPrefix,omitempty"`
	IDPadding int          `yaml:"idPadding,omitempty"`
	Columns   []ColumnSpec `yaml:"columns"`
}

func parseAlign(s string, k model1.Kind) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		if k == model1.KindInt || k == model1.KindFloat {
			return tview.AlignRight, nil
		}
		return tview.AlignLeft, nil
	case "left":
		return tview.AlignLeft, nil
	case "center":
		return tview.AlignCenter, nil
	case "right":
		return tview.AlignRight, nil
	default:
		return 0, fmt.Errorf("unknown alignment %q", s)
	}
}

// Header converts the column specs into a table header.
func (t TableSpec) Header() (model1.Header, error) {
	h := make(model1.Header, 0, len(t.Columns))
	for _, c := range t.Columns {
		kind, err := model1.ParseKind(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}
		pin, err := model1.ParsePinSide(c.Pin)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}
		align, err := parseAlign(c.Align, kind)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", c.Key, err)
		}
		h = append(h, model1.HeaderColumn{
			Name:  c.Key,
			Title: c.Title,
			Attrs: model1.Attrs{
				Align:    align,
				Kind:     kind,
				Sortable: c.Sortable,
				Editable: c.Editable,
				Hide:     c.Hidden,
				Pin:      pin,
			},
		})
	}

	return h, nil
}

// DAO converts the spec into a validated storage binding. Table and id
// column default to the spec name and "id".
func (t TableSpec) DAO() (dao.TableSpec, error) {
	h, err := t.Header()
	if err != nil {
		return dao.TableSpec{}, fmt.Errorf("table %q: %w", t.Name, err)
	}
	spec := dao.TableSpec{
		Name:      t.Name,
		Table:     t.Table,
		IDColumn:  t.IDColumn,
		IDPrefix:  t.IDPrefix,
		IDPadding: t.IDPadding,
		Header:    h,
	}
	if spec.Table == "" {
		spec.Table = t.Name
	}
	if spec.IDColumn == "" {
		spec.IDColumn = "id"
	}

	return spec, spec.Validate()
}

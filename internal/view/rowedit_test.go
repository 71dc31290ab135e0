// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/model1"
)

func editHeader() model1.Header {
	return model1.Header{
		{Name: "name", Attrs: model1.Attrs{Editable: true}},
		{Name: "qty", Attrs: model1.Attrs{Kind: model1.KindInt, Editable: true}},
		{Name: "active", Attrs: model1.Attrs{Kind: model1.KindBool, Editable: true}},
		{Name: "note"},
	}
}

func editRow() model1.Row {
	return model1.Row{ID: "1", Fields: model1.Fields{"bolt", int64(10), true, "hidden"}}
}

func TestNewRowEdit(t *testing.T) {
	e, err := NewRowEdit("items", editHeader(), editRow())
	require.NoError(t, err)
	assert.Equal(t, "1", e.RowID)
	assert.JSONEq(t, `{"name":"bolt","qty":10,"active":true}`, string(e.Original))

	_, err = NewRowEdit("items", model1.Header{{Name: "note"}}, editRow())
	assert.Error(t, err)
}

func TestRowEditChanges(t *testing.T) {
	uu := map[string]struct {
		doc string
		e   []CellChange
		err string
	}{
		"none": {
			doc: `{"name":"bolt","qty":10,"active":true}`,
			err: ErrNoChanges.Error(),
		},
		"text": {
			doc: `{"name":"nut","qty":10,"active":true}`,
			e:   []CellChange{{Column: "name", Value: "nut"}},
		},
		"kinds": {
			doc: `{"name":"bolt","qty":"1,200","active":"no"}`,
			e: []CellChange{
				{Column: "active", Value: false},
				{Column: "qty", Value: int64(1200)},
			},
		},
		"number": {
			doc: `{"name":"bolt","qty":12,"active":true}`,
			e:   []CellChange{{Column: "qty", Value: int64(12)}},
		},
		"cleared": {
			doc: `{"name":"bolt","active":true}`,
			e:   []CellChange{{Column: "qty"}},
		},
		"read-only-column": {
			doc: `{"name":"bolt","qty":10,"active":true,"note":"x"}`,
			err: `column "note" is not editable`,
		},
		"bad-kind": {
			doc: `{"name":"bolt","qty":"many","active":true}`,
			err: `qty: invalid integer "many"`,
		},
		"nested": {
			doc: `{"name":{"a":1},"qty":10,"active":true}`,
			err: "name: unexpected map[string]interface {} value",
		},
		"bad-json": {
			doc: `{"name":`,
			err: "invalid JSON",
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			e, err := NewRowEdit("items", editHeader(), editRow())
			require.NoError(t, err)

			cc, err := e.Changes([]byte(u.doc))
			if u.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), u.err)
				return
			}
			require.NoError(t, err)
			sort.Slice(cc, func(i, j int) bool { return cc[i].Column < cc[j].Column })
			assert.Equal(t, u.e, cc)
		})
	}
}

func TestRowEditDocument(t *testing.T) {
	e, err := NewRowEdit("items", editHeader(), editRow())
	require.NoError(t, err)

	e.ErrorMsg = "qty: invalid integer"
	e.Draft = []byte(`{"qty":"x"}`)
	doc := e.document()

	assert.Contains(t, string(doc), "// ERROR: qty: invalid integer")
	assert.Equal(t, `{"qty":"x"}`+"\n", string(stripErrorComment(doc)))
}

func TestStripErrorComment(t *testing.T) {
	uu := map[string]struct {
		in, e string
	}{
		"plain": {
			in: "{\n}\n",
			e:  "{\n}\n",
		},
		"comment": {
			in: "// ERROR: boom\n// ---\n\n{\n}\n",
			e:  "{\n}\n",
		},
		"only-comments": {
			in: "// ERROR: boom\n",
			e:  "",
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, string(stripErrorComment([]byte(u.in))))
		})
	}
}

// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/model1"
)

func TestHeaderValidate(t *testing.T) {
	total := func(r model1.Row) any { return r.Fields.At(0) }

	uu := map[string]struct {
		h   model1.Header
		err string
	}{
		"ok": {
			h: model1.Header{{Name: "a"}, {Name: "b", Attrs: model1.Attrs{Editable: true}}},
		},
		"empty": {
			err: "no columns",
		},
		"blank-key": {
			h:   model1.Header{{Name: ""}},
			err: "empty key",
		},
		"dup": {
			h:   model1.Header{{Name: "a"}, {Name: "a"}},
			err: "duplicate",
		},
		"editable-derived": {
			h:   model1.Header{{Name: "a", Attrs: model1.Attrs{Editable: true, Accessor: total}}},
			err: "derived",
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			err := u.h.Validate()
			if u.err == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), u.err)
		})
	}
}

func TestHeaderColumnValue(t *testing.T) {
	h := model1.Header{
		{Name: "qty", Attrs: model1.Attrs{Kind: model1.KindInt}},
		{Name: "price", Attrs: model1.Attrs{Kind: model1.KindFloat}},
		{
			Name:  "total",
			Title: "Line Total",
			Attrs: model1.Attrs{
				Kind: model1.KindFloat,
				Accessor: func(r model1.Row) any {
					return float64(r.Fields[0].(int64)) * r.Fields[1].(float64)
				},
				Decorator: func(v any) string { return "$" + model1.FormatValue(v) },
			},
		},
	}
	r := model1.Row{ID: "1", Fields: model1.Fields{int64(3), 2.5, nil}}

	assert.Equal(t, int64(3), h[0].Value(r, 0))
	assert.Equal(t, 7.5, h[2].Value(r, 2))
	assert.Equal(t, "$7.5", h[2].Render(h[2].Value(r, 2)))
	assert.Equal(t, "Line Total", h[2].Label())
	assert.Equal(t, "QTY", h[0].Label())

	c := r.Customize(h, []int{2, 0})
	assert.Equal(t, model1.Fields{7.5, int64(3)}, c.Fields)
	assert.Equal(t, "1", c.ID)
}

func TestHeaderDiff(t *testing.T) {
	h1 := model1.Header{{Name: "a"}, {Name: "b"}}
	h2 := h1.Clone()
	assert.False(t, h1.Diff(h2))

	h2[1].Sortable = true
	assert.True(t, h1.Diff(h2))
	assert.True(t, h1.Diff(h1[:1]))
}

func TestParseKindAndPin(t *testing.T) {
	for _, s := range []string{"text", "int", "float", "bool"} {
		k, err := model1.ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, s, strings.ToLower(k.String()))
	}
	_, err := model1.ParseKind("blob")
	assert.Error(t, err)

	p, err := model1.ParsePinSide("Left")
	require.NoError(t, err)
	assert.Equal(t, model1.PinLeft, p)
	assert.Equal(t, "left", p.String())
	_, err = model1.ParsePinSide("middle")
	assert.Error(t, err)
}

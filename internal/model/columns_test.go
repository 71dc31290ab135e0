// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/model"
	"github.com/erptab/erptab/internal/model1"
)

func orderHeader() model1.Header {
	return model1.Header{
		{Name: "code"},
		{Name: "name"},
		{Name: "qty", Attrs: model1.Attrs{Kind: model1.KindInt}},
		{Name: "note", Attrs: model1.Attrs{Hide: true}},
	}
}

func permutations(keys []string) [][]string {
	if len(keys) <= 1 {
		return [][]string{append([]string(nil), keys...)}
	}
	var out [][]string
	for i := range keys {
		rest := make([]string, 0, len(keys)-1)
		rest = append(rest, keys[:i]...)
		rest = append(rest, keys[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{keys[i]}, p...))
		}
	}
	return out
}

func TestColumnModelSetOrderPermutations(t *testing.T) {
	h := orderHeader()
	for _, p := range permutations(h.ColumnNames()) {
		cm, err := model.NewColumnModel(h, 0)
		require.NoError(t, err)
		require.NoError(t, cm.SetOrder(p))

		var want []string
		for _, k := range p {
			if k != "note" {
				want = append(want, k)
			}
		}
		assert.Equal(t, want, cm.VisibleColumns().ColumnNames(), "order %v", p)
	}
}

func TestColumnModelSetOrder(t *testing.T) {
	uu := map[string]struct {
		keys  []string
		order []string
		err   error
	}{
		"partial": {
			keys:  []string{"qty"},
			order: []string{"qty", "code", "name", "note"},
		},
		"unknown": {
			keys:  []string{"qty", "bozo"},
			order: []string{"code", "name", "qty", "note"},
			err:   model.ErrInvalidColumn,
		},
		"duplicate": {
			keys:  []string{"qty", "qty"},
			order: []string{"code", "name", "qty", "note"},
			err:   model.ErrInvalidColumn,
		},
		"empty": {
			order: []string{"code", "name", "qty", "note"},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			cm, err := model.NewColumnModel(orderHeader(), 0)
			require.NoError(t, err)
			err = cm.SetOrder(u.keys)
			if u.err != nil {
				assert.ErrorIs(t, err, u.err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, u.order, cm.Order())
		})
	}
}

func TestColumnModelVisibility(t *testing.T) {
	cm, err := model.NewColumnModel(orderHeader(), 0)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, cm.VisibleIndexes())
	cm.SetVisible("note", true)
	cm.SetVisible("name", false)
	cm.SetVisible("bozo", true)
	assert.Equal(t, []int{0, 2, 3}, cm.VisibleIndexes())
	assert.False(t, cm.IsVisible("bozo"))
}

func TestColumnModelPinning(t *testing.T) {
	cm, err := model.NewColumnModel(orderHeader(), 1)
	require.NoError(t, err)

	require.NoError(t, cm.Pin("qty", model1.PinLeft))
	require.NoError(t, cm.Pin("code", model1.PinRight))
	assert.Equal(t, []string{"qty", "name", "code"}, cm.VisibleColumns().ColumnNames())
	assert.Equal(t, model1.PinLeft, cm.VisibleColumns()[0].Pin)

	err = cm.Pin("name", model1.PinLeft)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.ErrorIs(t, cm.Pin("bozo", model1.PinLeft), model.ErrInvalidColumn)

	cm.Unpin("qty")
	require.NoError(t, cm.Pin("name", model1.PinLeft))
	assert.Equal(t, []string{"name", "qty", "code"}, cm.VisibleColumns().ColumnNames())
	assert.Equal(t, []string{"name"}, cm.Pinned(model1.PinLeft))
}

func TestColumnModelHeaderPins(t *testing.T) {
	h := orderHeader()
	h[2].Pin = model1.PinLeft
	cm, err := model.NewColumnModel(h, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"qty", "code", "name"}, cm.VisibleColumns().ColumnNames())

	_, err = model.NewColumnModel(model1.Header{{Name: "a"}, {Name: "a"}}, 0)
	assert.ErrorIs(t, err, model.ErrInvalidColumn)
}

func TestColumnModelClone(t *testing.T) {
	cm, err := model.NewColumnModel(orderHeader(), 0)
	require.NoError(t, err)

	c := cm.Clone()
	c.SetVisible("code", false)
	require.NoError(t, c.SetOrder([]string{"name"}))

	assert.True(t, cm.IsVisible("code"))
	assert.Equal(t, "code", cm.Order()[0])
}

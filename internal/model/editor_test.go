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

func TestEditorLifecycle(t *testing.T) {
	qty := model1.HeaderColumn{Name: "qty", Attrs: model1.Attrs{Editable: true}}
	e := model.NewEditor()

	assert.ErrorIs(t, e.Update(1), model.ErrNotEditing)
	assert.ErrorIs(t, e.Cancel(), model.ErrNotEditing)
	_, err := e.Commit()
	assert.ErrorIs(t, err, model.ErrNotEditing)

	require.NoError(t, e.Begin("1", qty, 1, 5))
	assert.Equal(t, model.EditEditing, e.State())
	ref, draft := e.Position()
	assert.Equal(t, &model1.CellRef{RowID: "1", Column: "qty"}, ref)
	assert.Equal(t, 5, draft)

	assert.ErrorIs(t, e.Begin("2", qty, 1, 7), model.ErrAlreadyEditing)

	require.NoError(t, e.Update(9))
	tk, err := e.Commit()
	require.NoError(t, err)
	assert.Equal(t, model.EditCommitting, e.State())
	assert.Equal(t, 5, tk.Previous)
	assert.Equal(t, 9, tk.Draft)
	assert.Equal(t, 1, tk.Index)

	assert.ErrorIs(t, e.Begin("2", qty, 1, 7), model.ErrAlreadyEditing)
	assert.ErrorIs(t, e.Update(3), model.ErrNotEditing)
	assert.False(t, e.Abandon())

	assert.True(t, e.Resolve(tk))
	assert.Equal(t, model.EditIdle, e.State())
	assert.False(t, e.Resolve(tk))
	ref, _ = e.Position()
	assert.Nil(t, ref)
}

func TestEditorNotEditable(t *testing.T) {
	e := model.NewEditor()

	err := e.Begin("1", model1.HeaderColumn{Name: "id"}, 0, "1")
	assert.ErrorIs(t, err, model.ErrNotEditable)
	assert.Equal(t, model.EditIdle, e.State())
}

func TestEditorCancel(t *testing.T) {
	qty := model1.HeaderColumn{Name: "qty", Attrs: model1.Attrs{Editable: true}}
	e := model.NewEditor()

	require.NoError(t, e.Begin("1", qty, 1, 5))
	require.NoError(t, e.Update(9))
	require.NoError(t, e.Cancel())
	assert.Equal(t, model.EditIdle, e.State())

	require.NoError(t, e.Begin("1", qty, 1, 5))
	assert.True(t, e.Abandon())
	assert.Equal(t, model.EditIdle, e.State())
}

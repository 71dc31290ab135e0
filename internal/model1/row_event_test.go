// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/model1"
)

func makeEvents() *model1.RowEvents {
	return model1.NewRowEventsFrom(model1.EventUnchanged, model1.Rows{
		{ID: "a", Fields: model1.Fields{"a", int64(1)}},
		{ID: "b", Fields: model1.Fields{"b", int64(2)}},
		{ID: "c", Fields: model1.Fields{"c", int64(3)}},
	})
}

func TestRowEventsIndex(t *testing.T) {
	re := makeEvents()

	assert.Equal(t, []string{"a", "b", "c"}, re.IDs())
	i, ok := re.FindIndex("b")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	require.NoError(t, re.Delete("a"))
	i, ok = re.FindIndex("b")
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Error(t, re.Delete("zz"))
	assert.False(t, re.Has("a"))
}

func TestRowEventsUpsert(t *testing.T) {
	re := makeEvents()

	re.Upsert(model1.NewRowEvent(model1.EventUpdate, model1.Row{ID: "b", Fields: model1.Fields{"b", int64(20)}}))
	re.Upsert(model1.NewRowEvent(model1.EventAdd, model1.Row{ID: "d", Fields: model1.Fields{"d", int64(4)}}))

	assert.Equal(t, 4, re.Len())
	b, ok := re.Get("b")
	require.True(t, ok)
	assert.Equal(t, model1.EventUpdate, b.Kind)
	assert.Equal(t, int64(20), b.Row.Fields[1])
}

func TestRowEventsCloneIsolation(t *testing.T) {
	re := makeEvents()
	c := re.Clone()

	rows := re.Rows()
	rows[0].Fields[1] = int64(99)
	a, _ := re.Get("a")
	assert.Equal(t, int64(1), a.Row.Fields[1])

	c.Clear()
	assert.True(t, c.Empty())
	assert.Equal(t, 3, re.Count())
}

func TestRowEventCustomizeDeltas(t *testing.T) {
	o := model1.Row{ID: "a", Fields: model1.Fields{"a", int64(1), "x"}}
	n := model1.Row{ID: "a", Fields: model1.Fields{"a", int64(2), "x"}}
	ev := model1.NewRowEventWithDeltas(model1.EventPending, n, model1.NewDeltaRow(o, n))

	h := model1.Header{{Name: "id"}, {Name: "qty"}, {Name: "note"}}
	c := ev.Customize(h, []int{1, 0})

	assert.Equal(t, model1.Fields{int64(2), "a"}, c.Row.Fields)
	assert.True(t, c.Deltas.Has(0))
	assert.Equal(t, int64(1), c.Deltas[0])
	assert.Equal(t, model1.EventPending, c.Kind)
	assert.Equal(t, "pending", c.Kind.String())
}

func TestDefaultColorer(t *testing.T) {
	uu := map[string]struct {
		k model1.ResEvent
		e any
	}{
		"std":     {k: model1.EventUnchanged, e: model1.StdColor},
		"pending": {k: model1.EventPending, e: model1.PendingColor},
		"error":   {k: model1.EventError, e: model1.ErrColor},
		"update":  {k: model1.EventUpdate, e: model1.ModColor},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			re := model1.NewRowEvent(u.k, model1.Row{})
			assert.Equal(t, u.e, model1.DefaultColorer(nil, &re))
		})
	}
}

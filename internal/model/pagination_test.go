// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erptab/erptab/internal/model"
)

func TestPaginationBounds(t *testing.T) {
	for count := 0; count <= 25; count++ {
		for limit := 1; limit <= 7; limit++ {
			p := model.Pagination{Limit: limit, Count: count}
			lastStart := 0
			if count > 0 {
				lastStart = ((count - 1) / limit) * limit
			}

			for i := 0; i < 30; i++ {
				p.Next()
				assert.LessOrEqual(t, p.Offset, lastStart, "count=%d limit=%d", count, limit)
				assert.Zero(t, p.Offset%limit)
			}
			assert.Equal(t, lastStart, p.Offset)
			assert.False(t, p.CanNext())

			for i := 0; i < 30; i++ {
				p.Prev()
				assert.GreaterOrEqual(t, p.Offset, 0)
			}
			assert.Zero(t, p.Offset)
			assert.False(t, p.CanPrev())
		}
	}
}

func TestPaginationNextPrev(t *testing.T) {
	uu := map[string]struct {
		p       model.Pagination
		next    bool
		prev    bool
		nextOff int
		prevOff int
	}{
		"first": {
			p:       model.Pagination{Offset: 0, Limit: 10, Count: 25},
			next:    true,
			nextOff: 10,
		},
		"last": {
			p:       model.Pagination{Offset: 20, Limit: 10, Count: 25},
			prev:    true,
			nextOff: 20,
			prevOff: 10,
		},
		"exact": {
			p:       model.Pagination{Offset: 10, Limit: 10, Count: 20},
			prev:    true,
			nextOff: 10,
		},
		"empty": {
			p: model.Pagination{Limit: 10},
		},
		"unaligned": {
			p:       model.Pagination{Offset: 5, Limit: 10, Count: 100},
			next:    true,
			prev:    true,
			nextOff: 15,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.next, u.p.CanNext())
			assert.Equal(t, u.prev, u.p.CanPrev())

			n := u.p
			assert.Equal(t, u.next, n.Next())
			assert.Equal(t, u.nextOff, n.Offset)

			p := u.p
			assert.Equal(t, u.prev, p.Prev())
			assert.Equal(t, u.prevOff, p.Offset)
		})
	}
}

func TestPaginationSetLimit(t *testing.T) {
	p := model.Pagination{Offset: 40, Limit: 20, Count: 100}

	assert.ErrorIs(t, p.SetLimit(0), model.ErrInvalidArgument)
	assert.ErrorIs(t, p.SetLimit(-3), model.ErrInvalidArgument)
	assert.Equal(t, model.Pagination{Offset: 40, Limit: 20, Count: 100}, p)

	assert.NoError(t, p.SetLimit(15))
	assert.Equal(t, model.Pagination{Offset: 0, Limit: 15, Count: 100}, p)
	assert.Equal(t, 7, p.PageCount())
	assert.Equal(t, 1, p.PageNumber())
}

func TestPaginationLastPage(t *testing.T) {
	p := model.Pagination{Offset: 30, Limit: 10, Count: 12}
	assert.True(t, p.LastPage())
	assert.Equal(t, 10, p.Offset)
	assert.False(t, p.LastPage())

	p = model.Pagination{Offset: 30, Limit: 10}
	assert.True(t, p.LastPage())
	assert.Zero(t, p.Offset)
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, model.DefaultPageSize, model.NewPagination(0).Limit)
	assert.Equal(t, 5, model.NewPagination(5).Limit)
}

// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package model1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erptab/erptab/internal/model1"
)

func TestCompare(t *testing.T) {
	uu := map[string]struct {
		kind   model1.Kind
		v1, v2 any
		e      int
	}{
		"nils":        {kind: model1.KindText, e: 0},
		"nil-first":   {kind: model1.KindInt, v2: int64(1), e: -1},
		"nil-last":    {kind: model1.KindInt, v1: int64(1), e: 1},
		"ints":        {kind: model1.KindInt, v1: int64(9), v2: int64(10), e: -1},
		"mixed-nums":  {kind: model1.KindFloat, v1: 2.5, v2: int64(2), e: 1},
		"bools":       {kind: model1.KindBool, v1: false, v2: true, e: -1},
		"natural":     {kind: model1.KindText, v1: "inv-9", v2: "inv-10", e: -1},
		"equal-texts": {kind: model1.KindText, v1: "a", v2: "a", e: 0},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, model1.Compare(u.kind, u.v1, u.v2))
		})
	}
}

func TestLessTieBreaksOnID(t *testing.T) {
	assert.True(t, model1.Less(model1.KindInt, "2", "10", int64(1), int64(1)))
	assert.False(t, model1.Less(model1.KindInt, "1", "2", int64(3), int64(1)))
}

func TestFormatValue(t *testing.T) {
	uu := map[string]struct {
		v any
		e string
	}{
		"nil":    {e: model1.NAValue},
		"string": {v: "fred", e: "fred"},
		"bytes":  {v: []byte("blee"), e: "blee"},
		"int":    {v: int64(42), e: "42"},
		"float":  {v: 1.5, e: "1.5"},
		"true":   {v: true, e: "yes"},
		"false":  {v: false, e: "no"},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, model1.FormatValue(u.v))
		})
	}
}

func TestParseValue(t *testing.T) {
	uu := map[string]struct {
		kind model1.Kind
		s    string
		e    any
		err  bool
	}{
		"empty":     {kind: model1.KindInt, s: "  "},
		"int":       {kind: model1.KindInt, s: "1,200", e: int64(1200)},
		"bad-int":   {kind: model1.KindInt, s: "12x", err: true},
		"float":     {kind: model1.KindFloat, s: "3.25", e: 3.25},
		"bool":      {kind: model1.KindBool, s: "Yes", e: true},
		"bad-bool":  {kind: model1.KindBool, s: "maybe", err: true},
		"text":      {kind: model1.KindText, s: " hello ", e: "hello"},
		"bad-float": {kind: model1.KindFloat, s: "x", err: true},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			v, err := model1.ParseValue(u.kind, u.s)
			if u.err {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, u.e, v)
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, model1.Contains("Widget Blue", "blue"))
	assert.True(t, model1.Contains(int64(1234), "23"))
	assert.False(t, model1.Contains(nil, "n/a"))
}

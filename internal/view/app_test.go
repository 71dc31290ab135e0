// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlash(t *testing.T) {
	uu := map[string]struct {
		fn func(*Flash)
		e  string
	}{
		"info": {
			fn: func(f *Flash) { f.Infof("Viewing %s...", "items") },
			e:  "Viewing items...",
		},
		"warn": {
			fn: func(f *Flash) { f.Warn("read-only tenant") },
			e:  "read-only tenant",
		},
		"err": {
			fn: func(f *Flash) { f.Err(errors.New("boom")) },
			e:  "boom",
		},
		"nil-err": {
			fn: func(f *Flash) { f.Err(nil) },
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			var queued int
			f := NewFlash(func(fn func()) {
				queued++
				fn()
			})
			u.fn(f)
			defer f.Clear()

			if u.e == "" {
				assert.Zero(t, queued)
				assert.Empty(t, f.GetText(true))
				return
			}
			assert.Equal(t, 1, queued)
			assert.Contains(t, f.GetText(true), u.e)
		})
	}
}

func TestFlashClear(t *testing.T) {
	f := NewFlash(nil)
	f.Info("hello")
	assert.Contains(t, f.GetText(true), "hello")

	f.Clear()
	assert.Empty(t, f.GetText(true))
}

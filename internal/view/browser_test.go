// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package view

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erptab/erptab/internal/config"
	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/model"
	"github.com/erptab/erptab/internal/model1"
)

func TestMoveColumn(t *testing.T) {
	uu := map[string]struct {
		key   string
		delta int
		e     []string
		ok    bool
	}{
		"right": {
			key:   "code",
			delta: 1,
			e:     []string{"name", "code", "qty"},
			ok:    true,
		},
		"left": {
			key:   "qty",
			delta: -1,
			e:     []string{"code", "qty", "name"},
			ok:    true,
		},
		"left-edge": {
			key:   "code",
			delta: -1,
			e:     []string{"code", "name", "qty"},
		},
		"right-edge": {
			key:   "qty",
			delta: 1,
			e:     []string{"code", "name", "qty"},
		},
		"unknown": {
			key:   "price",
			delta: 1,
			e:     []string{"code", "name", "qty"},
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			order := []string{"code", "name", "qty"}
			out, ok := MoveColumn(order, u.key, u.delta)
			assert.Equal(t, u.ok, ok)
			assert.Equal(t, u.e, out)
			assert.Equal(t, []string{"code", "name", "qty"}, order)
		})
	}
}

func TestBrowserEdit(t *testing.T) {
	uu := map[string]struct {
		col     int
		editing bool
		run     func(t *testing.T, b *Browser)
		qty     int64
	}{
		"commit": {
			col:     2,
			editing: true,
			run: func(t *testing.T, b *Browser) {
				b.app.prompt.SetText("9")
				require.NoError(t, b.app.prompt.Submit())
			},
			qty: 9,
		},
		"cancel": {
			col:     2,
			editing: true,
			run: func(_ *testing.T, b *Browser) {
				b.app.prompt.SetText("9")
				b.app.prompt.Cancel()
			},
			qty: 5,
		},
		"bad-value-then-cancel": {
			col:     2,
			editing: true,
			run: func(t *testing.T, b *Browser) {
				b.app.prompt.SetText("lots")
				require.Error(t, b.app.prompt.Submit())
				assert.True(t, b.app.prompt.IsActive())
				assert.False(t, watching(b))
				b.app.prompt.Cancel()
			},
			qty: 5,
		},
		"not-editable": {
			col: 1,
			run: func(*testing.T, *Browser) {},
			qty: 5,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			src := dao.NewMemorySource(stockSpec().Header, model1.Rows{
				{ID: "A-1", Fields: model1.Fields{"A-1", int64(5)}},
				{ID: "A-2", Fields: model1.Fields{"A-2", int64(7)}},
			})
			b := newTestBrowser(t, src)
			b.Select(1, u.col)

			b.editCmd(nil)
			_, _, state := b.engine.EditPosition()
			if u.editing {
				assert.Equal(t, model.EditEditing, state)
				assert.True(t, b.app.prompt.IsActive())
				assert.False(t, watching(b))
			} else {
				assert.Equal(t, model.EditIdle, state)
				assert.False(t, b.app.prompt.IsActive())
			}

			u.run(t, b)

			require.Eventually(t, func() bool { return watching(b) }, time.Second, 5*time.Millisecond)
			b.engine.Wait()
			assert.Equal(t, u.qty, src.Rows()[0].Fields[1])
			_, _, state = b.engine.EditPosition()
			assert.Equal(t, model.EditIdle, state)
		})
	}
}

// Helpers...

func stockSpec() dao.TableSpec {
	return dao.TableSpec{
		Name:     "stock",
		Table:    "stock",
		IDColumn: "sku",
		Header: model1.Header{
			{Name: "sku", Attrs: model1.Attrs{Sortable: true}},
			{Name: "qty", Attrs: model1.Attrs{Kind: model1.KindInt, Sortable: true, Editable: true}},
		},
	}
}

func newTestBrowser(t *testing.T, src dao.Source) *Browser {
	t.Helper()

	tenants := []dao.Tenant{{Name: "local", Driver: config.DefaultDriver, DSN: filepath.Join(t.TempDir(), "local.db")}}
	cfg := config.NewConfig(tenants)
	require.NoError(t, cfg.Load(filepath.Join(t.TempDir(), "none.yaml"), false))
	a := NewApp(context.Background(), cfg, dao.NewFactory(tenants, 0, nil), zap.NewNop(), "test")

	b, err := NewBrowser(a, stockSpec(), src)
	require.NoError(t, err)
	require.NoError(t, b.Table.Init(context.Background()))
	b.SetQueueFn(func(f func()) { f() })
	b.engine.AddListener(b)
	t.Cleanup(func() {
		b.Close()
		b.engine.Wait()
		a.cancelFn()
	})
	require.NoError(t, b.engine.Refresh(context.Background()))

	return b
}

func watching(b *Browser) bool {
	b.mx.Lock()
	defer b.mx.Unlock()
	return b.cancelFn != nil && !b.paused
}

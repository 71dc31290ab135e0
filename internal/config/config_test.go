package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/config"
	"github.com/erptab/erptab/internal/config/data"
	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/model1"
)

const sampleYAML = `erptab:
  refreshRate: 10
  pageSize: 25
  filterDebounce: bogus
  fetchTimeout: 5s
  defaultTable: orders
  tables:
    - name: orders
      table: sales_orders
      idPrefix: SO
      idPadding: 6
      columns:
        - key: id
          pin: left
        - key: customer
          title: Customer
          sortable: true
          editable: true
        - key: total
          kind: float
          sortable: true
        - key: shipped
          kind: bool
          hidden: true
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestConfigLoad(t *testing.T) {
	cfg := config.NewConfig(nil)
	require.NoError(t, cfg.Load(writeFile(t, "erptab.yaml", sampleYAML), true))

	e := cfg.Erptab
	assert.Equal(t, 10*time.Second, e.RefreshInterval())
	assert.Equal(t, 25, e.PageSize)
	assert.Equal(t, 300*time.Millisecond, e.FilterDebounceDuration())
	assert.Equal(t, 5*time.Second, e.FetchTimeoutDuration())
	assert.Equal(t, dao.DefaultCacheTTL, e.CacheTTLDuration())
	assert.Equal(t, []string{"orders"}, e.TableNames())

	spec, err := e.DAOSpec("orders")
	require.NoError(t, err)
	assert.Equal(t, "sales_orders", spec.Table)
	assert.Equal(t, "id", spec.IDColumn)
	assert.Equal(t, model1.PinLeft, spec.Header[0].Pin)
	assert.Equal(t, "Customer", spec.Header[1].Label())
	assert.True(t, spec.Header[1].Editable)
	assert.Equal(t, model1.KindFloat, spec.Header[2].Kind)
	assert.True(t, spec.Header[3].Hide)

	_, err = e.DAOSpec("nope")
	assert.Error(t, err)
}

func TestConfigLoadMissing(t *testing.T) {
	cfg := config.NewConfig(nil)
	missing := filepath.Join(t.TempDir(), "none.yaml")

	require.NoError(t, cfg.Load(missing, false))
	assert.Equal(t, []string{"items", "partners"}, cfg.Erptab.TableNames())
	assert.Error(t, cfg.Load(missing, true))
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "erptab.yaml")
	cfg := config.NewConfig(nil)
	cfg.Erptab.PageSize = 77

	require.NoError(t, cfg.SaveTo(path, false))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, cfg.SaveTo(path, true))
	back := config.NewConfig(nil)
	require.NoError(t, back.Load(path, true))
	assert.Equal(t, 77, back.Erptab.PageSize)
}

func TestConfigRefine(t *testing.T) {
	tenants := []dao.Tenant{{Name: "acme", DSN: "a.db"}, {Name: "globex", DSN: "g.db"}}

	uu := map[string]struct {
		flags        func(*data.Flags)
		tenant, table string
		err          bool
	}{
		"defaults": {tenant: "acme", table: "items"},
		"cli": {
			flags:  func(f *data.Flags) { *f.Tenant, *f.Table = "globex", "partners" },
			tenant: "globex",
			table:  "partners",
		},
		"unknown-tenant": {
			flags: func(f *data.Flags) { *f.Tenant = "initech" },
			err:   true,
		},
		"unknown-table": {
			flags: func(f *data.Flags) { *f.Table = "ghosts" },
			err:   true,
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			cfg := config.NewConfig(tenants)
			cfg.Erptab.Validate()
			flags := data.NewFlags()
			if u.flags != nil {
				u.flags(flags)
			}
			err := cfg.Refine(flags)
			if u.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.tenant, cfg.Erptab.ActiveTenant())
			assert.Equal(t, u.table, cfg.Erptab.ActiveTable())
			assert.Equal(t, u.tenant, cfg.Tenants()[0].Name)
		})
	}
}

func TestConfigRefineNoTenants(t *testing.T) {
	cfg := config.NewConfig(nil)
	assert.ErrorIs(t, cfg.Refine(nil), dao.ErrNoTenant)
}

func TestOverride(t *testing.T) {
	e := config.NewErptab()
	e.ReadOnly = false

	flags := config.NewFlags()
	*flags.ReadOnly = true
	*flags.PageSize = 10
	*flags.LogLevel = "debug"
	e.Override(flags)
	assert.True(t, e.ReadOnly)
	assert.Equal(t, 10, e.PageSize)
	assert.Equal(t, "debug", e.Logger.Level)

	*flags.Write = true
	e.Override(flags)
	assert.False(t, e.ReadOnly)

	e.Override(nil)
	assert.Equal(t, 10, e.PageSize)
}

func TestReadOnlyTenants(t *testing.T) {
	cfg := config.NewConfig([]dao.Tenant{{Name: "acme", DSN: "a.db"}})
	cfg.Erptab.Validate()
	cfg.Erptab.ReadOnly = true
	require.NoError(t, cfg.Refine(nil))

	assert.True(t, cfg.Tenants()[0].ReadOnly)
}

func TestTableView(t *testing.T) {
	e := config.NewErptab()
	e.Validate()
	e.SetDir(data.NewDirAt(t.TempDir()))
	require.NoError(t, e.Activate("acme", "items"))

	v, err := e.View("items")
	require.NoError(t, err)
	assert.True(t, v.IsEmpty())

	v.Order = []string{"name", "code"}
	v.Hidden = []string{"note"}
	v.Limit = 20
	v.Sort, v.Desc = "qty", true
	require.NoError(t, e.SaveView("items", v))

	back, err := e.View("items")
	require.NoError(t, err)
	assert.Equal(t, v, back)
	assert.FileExists(t, filepath.Join(e.ViewsDir(), "acme-items.yaml"))
}

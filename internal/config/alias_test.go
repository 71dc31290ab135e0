package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erptab/erptab/internal/config"
)

func TestAliases(t *testing.T) {
	a := config.NewAliases("items", "invoices", "inventory", "partners", "qa")

	assert.Equal(t, "tenant", a.Get("ctx"))
	assert.Equal(t, "partners", a.Get("pa"))
	assert.Equal(t, "in", a.Get("in"))
	assert.Equal(t, "items", a.Get("it"))
	assert.Equal(t, "qa", a.Get("qa"))
	assert.Equal(t, "zz", a.Get("zz"))

	a.Set("inv", "invoices")
	a.Delete("x")
	all := a.All()
	assert.Equal(t, "invoices", all["inv"])
	assert.NotContains(t, all, "x")
}

func TestAliasesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yaml")
	a := config.NewAliases()
	a.Set("po", "purchase_orders")
	require.NoError(t, a.SaveTo(path))

	b := config.NewAliases()
	require.NoError(t, b.LoadFrom(path))
	assert.Equal(t, "purchase_orders", b.Get("po"))
	assert.Equal(t, "help", b.Get("?"))

	c := config.NewAliases()
	require.NoError(t, c.LoadFrom(filepath.Join(t.TempDir(), "none.yaml")))
	c.Merge(b)
	assert.Equal(t, "purchase_orders", c.Get("po"))
}

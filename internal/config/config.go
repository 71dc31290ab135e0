package config

import (
	"fmt"
	"os"
	"sync"

	"github.com/erptab/erptab/internal/config/data"
	"github.com/erptab/erptab/internal/dao"
)

// Config is the root configuration for the application.
type Config struct {
	Erptab  *Erptab `yaml:"erptab"`
	tenants []dao.Tenant
	mx      sync.RWMutex
}

// NewConfig creates a new Config over the known tenants.
func NewConfig(tenants []dao.Tenant) *Config {
	return &Config{
		Erptab:  NewErptab(),
		tenants: tenants,
	}
}

// Load loads the configuration from the given path.
// If the file doesn't exist, the current config is kept.
func (c *Config) Load(path string, force bool) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if !force {
			c.Erptab.Validate()
			return nil
		}
		return fmt.Errorf("config file does not exist: %s", path)
	}
	if err := data.LoadYAML(path, c); err != nil {
		return fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if c.Erptab == nil {
		c.Erptab = NewErptab()
	}
	c.Erptab.Validate()

	return nil
}

// Save saves the configuration to the default path.
func (c *Config) Save(force bool) error {
	return c.SaveTo(AppConfigFile, force)
}

// SaveTo saves the configuration to path. Without force an absent file
// is left absent.
func (c *Config) SaveTo(path string, force bool) error {
	c.mx.RLock()
	defer c.mx.RUnlock()

	if path == "" {
		return fmt.Errorf("no config file path configured")
	}
	if _, err := os.Stat(path); err != nil && !force {
		return nil
	}
	if err := data.SaveYAML(path, c); err != nil {
		return fmt.Errorf("failed to save config to %s: %w", path, err)
	}

	return nil
}

// Refine applies CLI flags and picks the active tenant and table:
// - Tenant: CLI --tenant > config defaultTenant > first tenant
// - Table: CLI --table > config defaultTable > first table
func (c *Config) Refine(flags *data.Flags) error {
	c.mx.Lock()
	defer c.mx.Unlock()

	if c.Erptab == nil {
		return fmt.Errorf("config.Erptab is nil")
	}
	if len(c.tenants) == 0 {
		return fmt.Errorf("%w: no tenants configured", dao.ErrNoTenant)
	}
	c.Erptab.Override(flags)

	tenant := c.Erptab.DefaultTenant
	if tenant == "" {
		tenant = c.tenants[0].Name
	}
	if !c.hasTenant(tenant) {
		return fmt.Errorf("%w: %q", dao.ErrNoTenant, tenant)
	}

	table := c.Erptab.DefaultTable
	if table == "" {
		names := c.Erptab.TableNames()
		if len(names) == 0 {
			return fmt.Errorf("no tables configured")
		}
		table = names[0]
	}

	if err := c.Erptab.Activate(tenant, table); err != nil {
		return fmt.Errorf("failed to activate tenant %q table %q: %w", tenant, table, err)
	}

	return nil
}

func (c *Config) hasTenant(name string) bool {
	for _, t := range c.tenants {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Tenants returns the known tenants, active one first.
func (c *Config) Tenants() []dao.Tenant {
	c.mx.RLock()
	defer c.mx.RUnlock()

	active := c.Erptab.ActiveTenant()
	tt := make([]dao.Tenant, 0, len(c.tenants))
	for _, t := range c.tenants {
		if t.Name == active {
			tt = append([]dao.Tenant{t}, tt...)
			continue
		}
		tt = append(tt, t)
	}
	if c.Erptab.ReadOnly {
		for i := range tt {
			tt[i].ReadOnly = true
		}
	}

	return tt
}

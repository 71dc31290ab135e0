package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/ini.v1"

	"github.com/erptab/erptab/internal/dao"
)

// DefaultDriver is the SQL driver used when a tenant names none.
const DefaultDriver = "sqlite"

// LoadTenants reads tenants from an INI file with one section per tenant:
//
//	[acme]
//	driver = sqlite3
//	dsn = /var/lib/erptab/acme.db
//	readOnly = false
//
// A missing file yields no tenants.
func LoadTenants(path string) ([]dao.Tenant, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to access tenants file: %w", err)
	}

	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load tenants file: %w", err)
	}

	var tenants []dao.Tenant
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		if !section.HasKey("dsn") {
			return nil, fmt.Errorf("tenant %q: missing dsn", section.Name())
		}
		t := dao.Tenant{
			Name:     section.Name(),
			Driver:   section.Key("driver").MustString(DefaultDriver),
			DSN:      section.Key("dsn").String(),
			ReadOnly: section.Key("readOnly").MustBool(false),
		}
		tenants = append(tenants, t)
	}

	return tenants, nil
}

// SaveTenants writes tenants to an INI file.
func SaveTenants(path string, tenants []dao.Tenant) error {
	file := ini.Empty()
	for _, t := range tenants {
		section, err := file.NewSection(t.Name)
		if err != nil {
			return fmt.Errorf("tenant %q: %w", t.Name, err)
		}
		section.Key("driver").SetValue(t.Driver)
		section.Key("dsn").SetValue(t.DSN)
		section.Key("readOnly").SetValue(fmt.Sprintf("%t", t.ReadOnly))
	}
	if err := file.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save tenants file: %w", err)
	}

	return nil
}

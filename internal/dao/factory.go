// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of erptab

package dao

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// ErrNoTenant is returned when no tenant is active or known.
var ErrNoTenant = errors.New("no such tenant")

// Tenant describes one tenant database.
type Tenant struct {
	Name     string
	Driver   string
	DSN      string
	ReadOnly bool
}

// Factory hands out per tenant database handles and table sources.
type Factory struct {
	tenants  map[string]Tenant
	dbs      map[string]*sqlx.DB
	active   string
	cacheTTL time.Duration
	audit    bool
	log      *zap.Logger
	mx       sync.RWMutex
}

// NewFactory creates a new Factory over the given tenants.
func NewFactory(tenants []Tenant, cacheTTL time.Duration, log *zap.Logger) *Factory {
	if log == nil {
		log = zap.NewNop()
	}
	f := &Factory{
		tenants:  make(map[string]Tenant, len(tenants)),
		dbs:      make(map[string]*sqlx.DB),
		cacheTTL: cacheTTL,
		audit:    true,
		log:      log,
	}
	for _, t := range tenants {
		f.tenants[t.Name] = t
	}
	if len(tenants) > 0 {
		f.active = tenants[0].Name
	}

	return f
}

// Tenants returns the known tenant names, sorted.
func (f *Factory) Tenants() []string {
	f.mx.RLock()
	defer f.mx.RUnlock()

	nn := make([]string, 0, len(f.tenants))
	for n := range f.tenants {
		nn = append(nn, n)
	}
	sort.Strings(nn)

	return nn
}

// Tenant returns the active tenant name.
func (f *Factory) Tenant() string {
	f.mx.RLock()
	defer f.mx.RUnlock()
	return f.active
}

// SetTenant switches to a different tenant.
func (f *Factory) SetTenant(name string) error {
	f.mx.Lock()
	defer f.mx.Unlock()

	if _, ok := f.tenants[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNoTenant, name)
	}
	f.active = name

	return nil
}

// SetAudit toggles edit auditing on new sources.
func (f *Factory) SetAudit(b bool) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.audit = b
}

// DB returns the active tenant database, opening it on first use.
func (f *Factory) DB(ctx context.Context) (*sqlx.DB, Tenant, error) {
	f.mx.Lock()
	defer f.mx.Unlock()

	t, ok := f.tenants[f.active]
	if !ok {
		return nil, Tenant{}, fmt.Errorf("%w: %q", ErrNoTenant, f.active)
	}
	if db, ok := f.dbs[t.Name]; ok {
		return db, t, nil
	}

	db, err := sqlx.Open(t.Driver, t.DSN)
	if err != nil {
		return nil, t, fmt.Errorf("open tenant %s: %w", t.Name, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, t, fmt.Errorf("ping tenant %s: %w", t.Name, err)
	}
	if !t.ReadOnly {
		if err := EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, t, err
		}
	}
	f.log.Info("tenant connected", zap.String("tenant", t.Name), zap.String("driver", t.Driver))
	f.dbs[t.Name] = db

	return db, t, nil
}

// Source returns a cached sql source for the table on the active tenant.
func (f *Factory) Source(ctx context.Context, spec TableSpec) (*CachedSource, error) {
	db, t, err := f.DB(ctx)
	if err != nil {
		return nil, err
	}

	f.mx.RLock()
	audit, ttl := f.audit, f.cacheTTL
	f.mx.RUnlock()

	src, err := NewSQLSource(db, spec,
		WithSQLLogger(f.log.Named("sql")),
		WithAudit(audit && !t.ReadOnly),
		WithSQLReadOnly(t.ReadOnly),
	)
	if err != nil {
		return nil, err
	}

	return NewCachedSource(t.Name+"/"+spec.Name, src, ttl, f.log), nil
}

// Close closes every opened database.
func (f *Factory) Close() error {
	f.mx.Lock()
	defer f.mx.Unlock()

	var errs []error
	for n, db := range f.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close tenant %s: %w", n, err))
		}
		delete(f.dbs, n)
	}

	return errors.Join(errs...)
}

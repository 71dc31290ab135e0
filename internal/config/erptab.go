package config

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/erptab/erptab/internal/config/data"
	"github.com/erptab/erptab/internal/dao"
	"github.com/erptab/erptab/internal/model"
)

// Default values
const (
	DefaultRefreshRate    = model.DefaultRefreshRate
	DefaultFetchTimeout   = 30 * time.Second
	DefaultExportEncoding = "utf8bom"
)

// Erptab represents the global configuration.
type Erptab struct {
	RefreshRate    float32          `yaml:"refreshRate"`
	PageSize       int              `yaml:"pageSize"`
	FilterDebounce string           `yaml:"filterDebounce"`
	FetchTimeout   string           `yaml:"fetchTimeout"`
	CacheTTL       string           `yaml:"cacheTTL"`
	MaxPinned      int              `yaml:"maxPinned"`
	ReadOnly       bool             `yaml:"readOnly"`
	DefaultTenant  string           `yaml:"defaultTenant"`
	DefaultTable   string           `yaml:"defaultTable"`
	Tables         []data.TableSpec `yaml:"tables"`
	UI             data.UI          `yaml:"ui"`
	Logger         data.Logger      `yaml:"logger"`
	Export         data.Export      `yaml:"export"`

	activeTenant string
	activeTable  string
	dir          *data.Dir
	mx           sync.RWMutex
}

// NewErptab creates an Erptab with default settings.
func NewErptab() *Erptab {
	return &Erptab{
		RefreshRate:    float32(DefaultRefreshRate.Seconds()),
		PageSize:       model.DefaultPageSize,
		FilterDebounce: model.DefaultFilterDebounce.String(),
		FetchTimeout:   DefaultFetchTimeout.String(),
		CacheTTL:       dao.DefaultCacheTTL.String(),
		MaxPinned:      model.DefaultMaxPinned,
		Export:         data.Export{Encoding: DefaultExportEncoding},
		dir:            data.NewDir(),
	}
}

func validDuration(s string, def time.Duration) string {
	if d, err := time.ParseDuration(s); err != nil || d < 0 {
		return def.String()
	}
	return s
}

// Validate replaces missing or invalid settings with defaults.
func (e *Erptab) Validate() {
	e.mx.Lock()
	defer e.mx.Unlock()

	if e.RefreshRate <= 0 {
		e.RefreshRate = float32(DefaultRefreshRate.Seconds())
	}
	if e.PageSize <= 0 {
		e.PageSize = model.DefaultPageSize
	}
	if e.MaxPinned < 0 {
		e.MaxPinned = model.DefaultMaxPinned
	}
	e.FilterDebounce = validDuration(e.FilterDebounce, model.DefaultFilterDebounce)
	e.FetchTimeout = validDuration(e.FetchTimeout, DefaultFetchTimeout)
	e.CacheTTL = validDuration(e.CacheTTL, dao.DefaultCacheTTL)
	if e.Export.Encoding == "" {
		e.Export.Encoding = DefaultExportEncoding
	}
	if len(e.Tables) == 0 {
		e.Tables = DefaultTables()
	}
	if e.dir == nil {
		e.dir = data.NewDir()
	}
}

// Override applies CLI flag overrides to the configuration.
func (e *Erptab) Override(flags *data.Flags) {
	if flags == nil {
		return
	}

	e.mx.Lock()
	defer e.mx.Unlock()

	if flags.RefreshRate != nil && *flags.RefreshRate > 0 {
		e.RefreshRate = *flags.RefreshRate
	}
	if flags.PageSize != nil && *flags.PageSize > 0 {
		e.PageSize = *flags.PageSize
	}
	if IsBoolSet(flags.ReadOnly) {
		e.ReadOnly = true
	}
	// Write overrides ReadOnly
	if IsBoolSet(flags.Write) {
		e.ReadOnly = false
	}
	if IsStringSet(flags.Tenant) {
		e.DefaultTenant = *flags.Tenant
	}
	if IsStringSet(flags.Table) {
		e.DefaultTable = *flags.Table
	}
	if IsStringSet(flags.LogLevel) {
		e.Logger.Level = *flags.LogLevel
	}
	if IsStringSet(flags.LogFile) {
		e.Logger.File = *flags.LogFile
	}
}

// RefreshInterval returns the watch interval.
func (e *Erptab) RefreshInterval() time.Duration {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return time.Duration(float64(e.RefreshRate) * float64(time.Second))
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// FetchTimeoutDuration returns the per fetch timeout.
func (e *Erptab) FetchTimeoutDuration() time.Duration {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return parseDuration(e.FetchTimeout, DefaultFetchTimeout)
}

// FilterDebounceDuration returns the filter input debounce.
func (e *Erptab) FilterDebounceDuration() time.Duration {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return parseDuration(e.FilterDebounce, model.DefaultFilterDebounce)
}

// CacheTTLDuration returns the page cache lifetime.
func (e *Erptab) CacheTTLDuration() time.Duration {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return parseDuration(e.CacheTTL, dao.DefaultCacheTTL)
}

// ActiveTenant returns the currently active tenant.
func (e *Erptab) ActiveTenant() string {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return e.activeTenant
}

// ActiveTable returns the startup table.
func (e *Erptab) ActiveTable() string {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return e.activeTable
}

// Activate sets the active tenant and table.
func (e *Erptab) Activate(tenant, table string) error {
	if tenant == "" {
		return fmt.Errorf("tenant cannot be empty")
	}
	if _, ok := e.TableSpec(table); !ok {
		return fmt.Errorf("unknown table %q", table)
	}

	e.mx.Lock()
	defer e.mx.Unlock()
	e.activeTenant, e.activeTable = tenant, table

	return nil
}

// TableSpec returns the named table declaration.
func (e *Erptab) TableSpec(name string) (data.TableSpec, bool) {
	e.mx.RLock()
	defer e.mx.RUnlock()

	for _, t := range e.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return data.TableSpec{}, false
}

// TableNames returns the declared table names, sorted.
func (e *Erptab) TableNames() []string {
	e.mx.RLock()
	defer e.mx.RUnlock()

	nn := make([]string, 0, len(e.Tables))
	for _, t := range e.Tables {
		nn = append(nn, t.Name)
	}
	sort.Strings(nn)

	return nn
}

// DAOSpec converts the named table declaration into a storage binding.
func (e *Erptab) DAOSpec(name string) (dao.TableSpec, error) {
	t, ok := e.TableSpec(name)
	if !ok {
		return dao.TableSpec{}, fmt.Errorf("unknown table %q", name)
	}
	return t.DAO()
}

// View loads the active tenant's view preferences for a table.
func (e *Erptab) View(table string) (*data.TableView, error) {
	e.mx.RLock()
	dir, tenant := e.dir, e.activeTenant
	e.mx.RUnlock()

	return dir.Load(tenant, table)
}

// SaveView persists the active tenant's view preferences for a table.
func (e *Erptab) SaveView(table string, v *data.TableView) error {
	e.mx.RLock()
	dir, tenant := e.dir, e.activeTenant
	e.mx.RUnlock()

	return dir.Save(tenant, table, v)
}

// SetDir points view persistence at another directory.
func (e *Erptab) SetDir(d *data.Dir) {
	e.mx.Lock()
	defer e.mx.Unlock()
	e.dir = d
}

// ViewsDir returns the view preferences directory.
func (e *Erptab) ViewsDir() string {
	e.mx.RLock()
	defer e.mx.RUnlock()
	return e.dir.Root()
}

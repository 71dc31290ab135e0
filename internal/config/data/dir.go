package data

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// defaultViewsDir is set by the config package during initialization.
var defaultViewsDir string

// SetDefaultViewsDir sets the default views directory.
func SetDefaultViewsDir(dir string) {
	defaultViewsDir = dir
}

// Dir manages the per tenant table view files.
type Dir struct {
	root string
	mx   sync.RWMutex
}

// NewDir creates a new Dir using the default views directory.
func NewDir() *Dir {
	return &Dir{root: defaultViewsDir}
}

// NewDirAt creates a new Dir at the specified root path.
func NewDirAt(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the views directory.
func (d *Dir) Root() string {
	d.mx.RLock()
	defer d.mx.RUnlock()
	return d.root
}

// ViewPath returns {root}/{tenant}-{table}.yaml.
func (d *Dir) ViewPath(tenant, table string) string {
	return filepath.Join(d.Root(), ViewFileName(tenant, table))
}

// Load reads the view for a tenant table. A missing file yields empty
// preferences.
func (d *Dir) Load(tenant, table string) (*TableView, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()

	v := NewTableView()
	if err := LoadYAML(filepath.Join(d.root, ViewFileName(tenant, table)), v); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return v, nil
		}
		return nil, fmt.Errorf("failed to load table view: %w", err)
	}
	v.Validate()

	return v, nil
}

// Save writes the view for a tenant table.
func (d *Dir) Save(tenant, table string, v *TableView) error {
	if v == nil {
		return fmt.Errorf("cannot save nil table view")
	}

	d.mx.Lock()
	defer d.mx.Unlock()

	if err := SaveYAML(filepath.Join(d.root, ViewFileName(tenant, table)), v); err != nil {
		return fmt.Errorf("failed to save table view: %w", err)
	}

	return nil
}

// List returns the saved view file names without extension, sorted.
func (d *Dir) List() ([]string, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()

	entries, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read views directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)

	return names, nil
}

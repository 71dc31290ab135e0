package config

import (
	"os"
	"sync"

	"github.com/erptab/erptab/internal/config/data"
)

// Aliases maps command bar shortcuts to commands or table names.
type Aliases struct {
	Alias map[string]string `yaml:"aliases"`
	mx    sync.RWMutex      `yaml:"-"`
}

// DefaultAliases are the built-in command aliases.
var DefaultAliases = map[string]string{
	"ctx":    "tenant",
	"tn":     "tenant",
	"tables": "table",
	"tb":     "table",
	"q":      "quit",
	"q!":     "quit",
	"?":      "help",
	"x":      "export",
}

// NewAliases creates an Aliases with default aliases plus one alias per
// table prefix, e.g. "it" for "items" when unambiguous.
func NewAliases(tables ...string) *Aliases {
	a := &Aliases{
		Alias: make(map[string]string, len(DefaultAliases)+len(tables)),
	}
	for k, v := range DefaultAliases {
		a.Alias[k] = v
	}

	seen := make(map[string]int)
	for _, t := range tables {
		if len(t) > 2 {
			seen[t[:2]]++
		}
	}
	for _, t := range tables {
		if len(t) <= 2 || seen[t[:2]] > 1 {
			continue
		}
		if _, taken := a.Alias[t[:2]]; !taken {
			a.Alias[t[:2]] = t
		}
	}

	return a
}

// Load loads aliases from the default config file.
// Merges with default aliases, with file aliases taking precedence.
func (a *Aliases) Load() error {
	return a.LoadFrom(AppAliasesFile)
}

// LoadFrom loads aliases from a specific file path.
func (a *Aliases) LoadFrom(path string) error {
	a.mx.Lock()
	defer a.mx.Unlock()

	// If file doesn't exist, just use defaults
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	loaded := &Aliases{
		Alias: make(map[string]string),
	}
	if err := data.LoadYAML(path, loaded); err != nil {
		return err
	}

	// Merge loaded aliases into current (loaded takes precedence)
	for k, v := range loaded.Alias {
		a.Alias[k] = v
	}

	return nil
}

// Save saves aliases to the default config file.
func (a *Aliases) Save() error {
	return a.SaveTo(AppAliasesFile)
}

// SaveTo saves aliases to a specific file path.
func (a *Aliases) SaveTo(path string) error {
	a.mx.RLock()
	defer a.mx.RUnlock()

	return data.SaveYAML(path, a)
}

// Merge merges another Aliases into this one.
// Keys in other override existing keys.
func (a *Aliases) Merge(other *Aliases) {
	a.mx.Lock()
	defer a.mx.Unlock()

	other.mx.RLock()
	defer other.mx.RUnlock()

	for k, v := range other.Alias {
		a.Alias[k] = v
	}
}

// Get returns the command for an alias, or the original if not found.
func (a *Aliases) Get(alias string) string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	if cmd, ok := a.Alias[alias]; ok {
		return cmd
	}
	return alias
}

// Set sets an alias.
func (a *Aliases) Set(alias, cmd string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	a.Alias[alias] = cmd
}

// Delete removes an alias.
func (a *Aliases) Delete(alias string) {
	a.mx.Lock()
	defer a.mx.Unlock()

	delete(a.Alias, alias)
}

// All returns a copy of all aliases.
func (a *Aliases) All() map[string]string {
	a.mx.RLock()
	defer a.mx.RUnlock()

	result := make(map[string]string)
	for k, v := range a.Alias {
		result[k] = v
	}
	return result
}

package config

import (
	"os"
	"path/filepath"

	"github.com/erptab/erptab/internal/config/data"
)

// AppName names the config directories.
const AppName = "erptab"

var (
	// AppConfigDir is ~/.config/erptab
	AppConfigDir string

	// AppDataDir is ~/.local/share/erptab
	AppDataDir string

	// AppStateDir is ~/.local/state/erptab
	AppStateDir string

	// AppConfigFile is ~/.config/erptab/erptab.yaml
	AppConfigFile string

	// AppTenantsFile is ~/.config/erptab/tenants.ini
	AppTenantsFile string

	// AppAliasesFile is ~/.config/erptab/aliases.yaml
	AppAliasesFile string

	// AppViewsDir is ~/.local/share/erptab/views
	AppViewsDir string

	// AppExportsDir is ~/.local/share/erptab/exports
	AppExportsDir string

	// AppLogFile is ~/.local/state/erptab/erptab.log
	AppLogFile string
)

// InitLocs initializes all application paths, honoring XDG variables.
func InitLocs() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		stateHome = filepath.Join(home, ".local", "state")
	}

	AppConfigDir = filepath.Join(configHome, AppName)
	AppDataDir = filepath.Join(dataHome, AppName)
	AppStateDir = filepath.Join(stateHome, AppName)

	AppConfigFile = filepath.Join(AppConfigDir, "erptab.yaml")
	AppTenantsFile = filepath.Join(AppConfigDir, "tenants.ini")
	AppAliasesFile = filepath.Join(AppConfigDir, "aliases.yaml")
	AppViewsDir = filepath.Join(AppDataDir, "views")
	AppExportsDir = filepath.Join(AppDataDir, "exports")
	AppLogFile = filepath.Join(AppStateDir, "erptab.log")

	data.SetDefaultViewsDir(AppViewsDir)

	for _, dir := range []string{AppConfigDir, AppDataDir, AppStateDir, AppViewsDir} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}

	return nil
}

// DefaultTenant points at a local SQLite ledger in the data dir.
func DefaultTenant() (name, dsn string) {
	return "local", filepath.Join(AppDataDir, "local.db")
}

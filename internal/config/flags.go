package config

import (
	"github.com/erptab/erptab/internal/config/data"
)

// DefaultLogLevel is the default logging level.
const DefaultLogLevel = "info"

// NewFlags creates a new Flags instance with default values set.
func NewFlags() *data.Flags {
	refreshRate := float32(DefaultRefreshRate.Seconds())
	logLevel := DefaultLogLevel
	logFile := AppLogFile
	headless := false
	table := ""
	tenant := ""
	pageSize := 0
	readOnly := false
	write := false

	return &data.Flags{
		RefreshRate: &refreshRate,
		LogLevel:    &logLevel,
		LogFile:     &logFile,
		Headless:    &headless,
		Table:       &table,
		Tenant:      &tenant,
		PageSize:    &pageSize,
		ReadOnly:    &readOnly,
		Write:       &write,
	}
}

// IsBoolSet returns true if a bool pointer is non-nil and true.
func IsBoolSet(b *bool) bool {
	return b != nil && *b
}

// IsStringSet returns true if a string pointer is non-nil and non-empty.
func IsStringSet(s *string) bool {
	return s != nil && *s != ""
}

// Package data provides configuration data types for erptab.
package data

// Flags represents CLI command-line flags.
type Flags struct {
	RefreshRate *float32 // Refresh rate in seconds
	LogLevel    *string  // Log level (debug, info, warn, error)
	LogFile     *string  // Path to log file
	Headless    *bool    // Run without the TUI
	Table       *string  // Startup table
	Tenant      *string  // Startup tenant
	PageSize    *int     // Rows per page
	ReadOnly    *bool    // Run in read-only mode
	Write       *bool    // Enable write operations
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool `yaml:"enableMouse"`
	Crumbsless  bool `yaml:"crumbsless"`
	NoIcons     bool `yaml:"noIcons"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Export represents CSV export settings.
type Export struct {
	Encoding string `yaml:"encoding"`
	Dir      string `yaml:"dir"`
	// S3 holds an optional bucket/prefix upload target.
	S3        string `yaml:"s3,omitempty"`
	S3Profile string `yaml:"s3Profile,omitempty"`
	S3Region  string `yaml:"s3Region,omitempty"`
}

// NewFlags creates a new Flags instance with all pointer fields initialized.
func NewFlags() *Flags {
	return &Flags{
		RefreshRate: new(float32),
		LogLevel:    new(string),
		LogFile:     new(string),
		Headless:    new(bool),
		Table:       new(string),
		Tenant:      new(string),
		PageSize:    new(int),
		ReadOnly:    new(bool),
		Write:       new(bool),
	}
}

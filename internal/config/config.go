package config

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "wcagcatalog"

	// DefaultIndexFile is the master index, relative to the root.
	DefaultIndexFile = "index.html"

	// DefaultOutputFile is the catalog filename, relative to the root.
	DefaultOutputFile = "test-catalog.json"

	// DefaultBaseURL is recorded in the catalog and prefixed to every
	// entry url. Deployments are expected to override it.
	DefaultBaseURL = "https://a11y-test-pages.example.org/"

	// DefaultItemClass marks listing items on the index.
	DefaultItemClass = "test-card"

	// DefaultCatalogVersion is the catalog format version.
	DefaultCatalogVersion = "1.0.0"

	// DefaultHistoryDB is the run history database filename.
	DefaultHistoryDB = "history.db"
)

// Config holds all settings for one generation.
type Config struct {
	// Root is the directory holding the index and the test pages.
	Root string

	// IndexFile is the master index path relative to Root.
	IndexFile string

	// OutputFile is the catalog path. Relative paths resolve against Root.
	OutputFile string

	// BaseURL is the public location the test pages are served from.
	BaseURL string

	// ItemClass is the class name identifying listing items on the index.
	ItemClass string

	// CatalogVersion is written to metadata.version.
	CatalogVersion string

	// Exclude lists doublestar patterns, relative to Root, of pages to
	// leave out even when the index lists them.
	Exclude []string

	// Verbose enables debug logging and lists every diagnostic.
	Verbose bool

	// JSONLogs switches log output to JSON.
	JSONLogs bool

	// JSONSummary prints the run summary as JSON. Mutually exclusive with
	// MarkdownSummary.
	JSONSummary bool

	// MarkdownSummary prints the run summary as Markdown.
	MarkdownSummary bool

	// SummaryFile receives the run summary instead of stdout.
	SummaryFile string

	// Record saves the run to the history database.
	Record bool

	// DBDir is the history database directory. Defaults to the XDG data
	// directory.
	DBDir string

	// ConfigFilePath is an explicit config file path. When empty the file
	// is searched for with FindConfigFile.
	ConfigFilePath string

	// EnvFile is the dotenv file read before environment overrides apply.
	EnvFile string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Root:           ".",
		IndexFile:      DefaultIndexFile,
		OutputFile:     DefaultOutputFile,
		BaseURL:        DefaultBaseURL,
		ItemClass:      DefaultItemClass,
		CatalogVersion: DefaultCatalogVersion,
		Exclude:        make([]string, 0),
		DBDir:          XDGDataDir(),
		EnvFile:        ".env",
	}
}

// XDGDataDir returns the XDG data directory for wcagcatalog.
// On Linux: ~/.local/share/wcagcatalog
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wcagcatalog.
// On Linux: ~/.config/wcagcatalog
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// OutputPath returns the catalog path, resolved against Root when relative.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.OutputFile) {
		return c.OutputFile
	}
	return filepath.Join(c.Root, c.OutputFile)
}

// HistoryDBPath returns the history database path.
func (c *Config) HistoryDBPath() string {
	return filepath.Join(c.DBDir, DefaultHistoryDB)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return ErrEmptyRoot
	}
	if strings.TrimSpace(c.IndexFile) == "" {
		return ErrEmptyIndexFile
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		return ErrEmptyOutputFile
	}
	if strings.TrimSpace(c.ItemClass) == "" || strings.ContainsAny(c.ItemClass, " \t\n") {
		return ErrInvalidItemClass
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidBaseURL
	}

	for _, p := range c.Exclude {
		if !doublestar.ValidatePattern(p) {
			return ErrInvalidExcludePattern
		}
	}

	if c.JSONSummary && c.MarkdownSummary {
		return ErrConflictingSummaryFormats
	}
	if c.Record && strings.TrimSpace(c.DBDir) == "" {
		return ErrEmptyDBDir
	}
	return nil
}

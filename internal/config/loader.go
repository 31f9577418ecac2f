package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the per-project configuration file name.
const DefaultConfigFile = ".wcagcatalog"

// File is the YAML configuration file. Empty values leave the
// corresponding setting untouched.
type File struct {
	Root           string   `yaml:"root,omitempty"`
	Index          string   `yaml:"index,omitempty"`
	Output         string   `yaml:"output,omitempty"`
	BaseURL        string   `yaml:"baseUrl,omitempty"`
	ItemClass      string   `yaml:"itemClass,omitempty"`
	CatalogVersion string   `yaml:"catalogVersion,omitempty"`
	Exclude        []string `yaml:"exclude,omitempty"`

	// History enables run recording. A pointer so "history: false" can
	// be told apart from an absent key.
	History *bool  `yaml:"history,omitempty"`
	DBDir   string `yaml:"dbDir,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// Apply copies every value set in the file onto c. Relative root and
// output paths in the file resolve against the file's directory.
func (cf *File) Apply(c *Config, fileDir string) {
	if cf.Root != "" {
		c.Root = resolve(fileDir, cf.Root)
	}
	if cf.Index != "" {
		c.IndexFile = cf.Index
	}
	if cf.Output != "" {
		c.OutputFile = cf.Output
	}
	if cf.BaseURL != "" {
		c.BaseURL = cf.BaseURL
	}
	if cf.ItemClass != "" {
		c.ItemClass = cf.ItemClass
	}
	if cf.CatalogVersion != "" {
		c.CatalogVersion = cf.CatalogVersion
	}
	if len(cf.Exclude) > 0 {
		c.Exclude = append([]string(nil), cf.Exclude...)
	}
	if cf.History != nil {
		c.Record = *cf.History
	}
	if cf.DBDir != "" {
		c.DBDir = resolve(fileDir, cf.DBDir)
	}
}

func resolve(dir, p string) string {
	if filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .wcagcatalog in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}
	return ""
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable the generator reads.
const EnvPrefix = "WCAGCATALOG_"

// Environment variable names.
const (
	EnvRoot      = EnvPrefix + "ROOT"
	EnvIndex     = EnvPrefix + "INDEX"
	EnvOutput    = EnvPrefix + "OUTPUT"
	EnvBaseURL   = EnvPrefix + "BASE_URL"
	EnvItemClass = EnvPrefix + "ITEM_CLASS"
	EnvExclude   = EnvPrefix + "EXCLUDE"
	EnvHistory   = EnvPrefix + "HISTORY"
	EnvDBDir     = EnvPrefix + "DB_DIR"
	EnvVerbose   = EnvPrefix + "VERBOSE"
)

// LoadEnvFile loads envFile into the process environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(envFile string) error {
	if envFile == "" {
		return nil
	}
	if err := godotenv.Load(envFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	return nil
}

// ApplyEnv copies WCAGCATALOG_* variables onto c.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(os.LookupEnv)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok {
			return "", false
		}
		v = strings.TrimSpace(v)
		return v, v != ""
	}
	getBool := func(key string, dst *bool) error {
		v, ok := get(key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidEnvValue, key, v)
		}
		*dst = b
		return nil
	}

	if v, ok := get(EnvRoot); ok {
		c.Root = v
	}
	if v, ok := get(EnvIndex); ok {
		c.IndexFile = v
	}
	if v, ok := get(EnvOutput); ok {
		c.OutputFile = v
	}
	if v, ok := get(EnvBaseURL); ok {
		c.BaseURL = v
	}
	if v, ok := get(EnvItemClass); ok {
		c.ItemClass = v
	}
	if v, ok := get(EnvExclude); ok {
		c.Exclude = splitList(v)
	}
	if v, ok := get(EnvDBDir); ok {
		c.DBDir = v
	}
	if err := getBool(EnvHistory, &c.Record); err != nil {
		return err
	}
	return getBool(EnvVerbose, &c.Verbose)
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

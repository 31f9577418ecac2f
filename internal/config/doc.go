// Package config holds the generator's settings and the layers they are
// read from. Precedence, lowest first: built-in defaults (NewConfig), the
// YAML config file, WCAGCATALOG_* environment variables (optionally loaded
// from a .env file), and finally flags set on the command line.
package config

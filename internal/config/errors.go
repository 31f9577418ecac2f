package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrEmptyRoot is returned when no catalog root is configured.
	ErrEmptyRoot = errors.New("invalid root: must not be empty")

	// ErrEmptyIndexFile is returned when the index filename is empty.
	ErrEmptyIndexFile = errors.New("invalid index file: must not be empty")

	// ErrEmptyOutputFile is returned when the output filename is empty.
	ErrEmptyOutputFile = errors.New("invalid output file: must not be empty")

	// ErrInvalidItemClass is returned when the listing item class is empty
	// or holds whitespace.
	ErrInvalidItemClass = errors.New("invalid item class: must be a single class name")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute
	// http or https URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http(s) URL")

	// ErrInvalidExcludePattern is returned for a malformed glob pattern.
	ErrInvalidExcludePattern = errors.New("invalid exclude pattern")

	// ErrConflictingSummaryFormats is returned when both --json and
	// --markdown are set.
	ErrConflictingSummaryFormats = errors.New("conflicting summary formats: --json and --markdown cannot be used together")

	// ErrEmptyDBDir is returned when recording is enabled without a
	// database directory.
	ErrEmptyDBDir = errors.New("invalid database directory: must not be empty when recording runs")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidEnvValue is returned when a WCAGCATALOG_* variable cannot
	// be parsed.
	ErrInvalidEnvValue = errors.New("invalid environment value")
)

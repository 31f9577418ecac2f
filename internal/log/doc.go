// Package log builds the application's slog loggers.
//
// Loggers write text or JSON records at warn level by default, or debug
// level in verbose mode. Every logger is wrapped in a RelativePathHandler,
// which rewrites absolute paths under the catalog root to root-relative
// paths so log output is identical across checkouts of the same tree.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, "/home/ci/site", verbose)
//	logger.Warn("page skipped", "path", "/home/ci/site/forms-test.html")
//	// level=WARN msg="page skipped" path=forms-test.html
//
//	slog.SetDefault(logger)
package log

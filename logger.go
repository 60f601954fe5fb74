package notation

import (
	"log/slog"

	"github.com/gogpu/notation/internal/logging"
)

// SetLogger configures the logger for notation and all its sub-packages.
// By default, notation produces no log output. Call SetLogger to enable logging.
//
// The logger may be swapped while layouts and font loads are running in
// other goroutines. Nil silences notation again.
//
// Log levels used by notation:
//   - [slog.LevelDebug]: measurement passes, cache invalidations
//   - [slog.LevelInfo]: font lifecycle (font ready, corrective re-layout)
//   - [slog.LevelWarn]: placeholder fallbacks, unavailable or slow fonts
//
// Example:
//
//	// See every measurement pass and cache drop:
//	notation.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by notation.
//
// It never returns nil.
func Logger() *slog.Logger {
	return logging.Logger()
}

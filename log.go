package cassowary

import "github.com/rs/zerolog"

// defaultLogger returns the logger a freshly created solver uses:
// everything is discarded until WithLogger provides a real one.
func defaultLogger() zerolog.Logger {
	return zerolog.Nop()
}

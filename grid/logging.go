package grid

import (
	"io"
	"log"
	"os"
)

var debugLog = log.New(io.Discard, "grid: ", log.LstdFlags)

// SetVerboseLogging toggles diagnostic logging for grid internals.
// When disabled (default), debug output is discarded.
func SetVerboseLogging(enable bool) {
	if enable {
		debugLog.SetOutput(os.Stderr)
	} else {
		debugLog.SetOutput(io.Discard)
	}
}

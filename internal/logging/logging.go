// Package logging provides the debug switch shared by the engine's
// supporting packages.
package logging

import (
	"io"
	"log"
	"os"
	"sync"
)

// Debug controls whether debug logs are printed.
var Debug bool

var (
	mu     sync.Mutex
	logger = log.New(os.Stderr, "", log.LstdFlags)
)

// SetOutput redirects debug output, for example to the -l log file.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger.SetOutput(w)
}

// Debugf logs a formatted debug message when Debug is enabled.
func Debugf(format string, v ...any) {
	if !Debug {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	logger.Printf("DEBUG: "+format, v...)
}

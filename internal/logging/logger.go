package logging

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

var (
	Info  *log.Logger
	Warn  *log.Logger
	Error *log.Logger
	Debug *log.Logger
)

var (
	mu      sync.Mutex
	out     io.Writer = os.Stderr
	debugOn bool
)

func init() {
	reset()
}

func reset() {
	flags := log.LstdFlags
	Info = log.New(out, "INFO: ", flags)
	Warn = log.New(out, "WARN: ", flags)
	Error = log.New(out, "ERROR: ", flags)
	if debugOn {
		Debug = log.New(out, "DEBUG: ", flags)
	} else {
		Debug = log.New(io.Discard, "DEBUG: ", flags)
	}
}

// SetLevel enables debug output for "debug" and disables it for anything else.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()
	debugOn = strings.EqualFold(strings.TrimSpace(level), "debug")
	reset()
}

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	reset()
}

// DebugEnabled reports whether debug lines are written.
func DebugEnabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return debugOn
}

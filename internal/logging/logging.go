// Package logging configures the shared logger. Output goes to stderr
// so the UCI conversation on stdout stays machine-readable.
package logging

import (
	"os"

	"github.com/op/go-logging"
)

var format = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:-7s} %{module:-8s} %{message}`,
)

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.WARNING, "")
	logging.SetBackend(leveled)
}

// GetLog returns the logger for a component.
func GetLog(module string) *logging.Logger {
	return logging.MustGetLogger(module)
}

// SetLevel adjusts the log threshold for all components.
func SetLevel(level string) {
	lvl, err := logging.LogLevel(level)
	if err != nil {
		lvl = logging.WARNING
	}
	logging.SetLevel(lvl, "")
}

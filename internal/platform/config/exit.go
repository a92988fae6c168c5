package config

import (
	"fmt"
	"io"
	"os"
)

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Exitf writes a formatted message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(stderr, format+"\n", args...)
	exit(1)
}

// ExitOnError exits through Exitf when err is non-nil, prefixing it with action.
func ExitOnError(action string, err error) {
	if err == nil {
		return
	}
	Exitf("%s: %v", action, err)
}

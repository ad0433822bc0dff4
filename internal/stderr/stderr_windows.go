//go:build windows

// Package stderr is a no-op on Windows; the audio backends there do not
// write to file descriptor 2 the way ALSA does.
package stderr

import "os"

// Messages is never written to on Windows.
var Messages = make(chan string)

// Start is a no-op and returns the process stderr unchanged.
func Start() (*os.File, error) {
	return os.Stderr, nil
}

// Stop is a no-op on Windows.
func Stop() {}

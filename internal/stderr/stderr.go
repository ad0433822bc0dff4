//go:build !windows

// Package stderr captures output from C audio libraries (ALSA, minimp3)
// that write directly to file descriptor 2, bypassing Go's os.Stderr.
// Without the capture their raw messages would interleave with the
// structured log, which also goes to stderr.
package stderr

import (
	"bufio"
	"os"
	"strings"
	"syscall"
)

// Messages receives the captured lines. The main process drains this
// channel into the logger.
var Messages = make(chan string, 100)

var (
	origFd    int
	pipeRead  *os.File
	pipeWrite *os.File
	started   bool
)

// Start redirects fd 2 into a pipe and returns the original stderr as a
// file, so the logger can keep writing to the real terminal. Must be
// called before the audio backend initializes. If it fails the program
// continues with an uncaptured stderr.
func Start() (*os.File, error) {
	if started {
		return os.NewFile(uintptr(origFd), "stderr"), nil
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	origFd, err = syscall.Dup(int(os.Stderr.Fd()))
	if err != nil {
		r.Close()
		w.Close()
		return nil, err
	}

	if err := syscall.Dup2(int(w.Fd()), int(os.Stderr.Fd())); err != nil {
		_ = syscall.Close(origFd)
		r.Close()
		w.Close()
		return nil, err
	}

	pipeRead = r
	pipeWrite = w
	started = true

	go func() {
		scanner := bufio.NewScanner(pipeRead)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case Messages <- line:
			default:
				// Channel full; dropping beats blocking the reader.
			}
		}
	}()

	return os.NewFile(uintptr(origFd), "stderr"), nil
}

// Stop restores the original stderr and closes the capture pipe.
func Stop() {
	if !started {
		return
	}

	_ = syscall.Dup2(origFd, int(os.Stderr.Fd()))
	_ = syscall.Close(origFd)

	pipeWrite.Close()
	pipeRead.Close()

	close(Messages)
	started = false
}

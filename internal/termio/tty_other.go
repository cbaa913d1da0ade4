//go:build !unix

package termio

import (
	"errors"
	"time"
)

var errNoTTY = errors.New("controlling terminal not supported on this platform")

// TTY is unavailable on this platform.
type TTY struct{}

// Open always fails on this platform.
func Open() (*TTY, error) {
	return nil, errNoTTY
}

func (t *TTY) Fd() int                     { return -1 }
func (t *TTY) Write(p []byte) (int, error) { return 0, errNoTTY }
func (t *TTY) Close() error                { return nil }
func (t *TTY) Drain()                      {}

func (t *TTY) Query(string, time.Duration, Terminator) ([]byte, error) {
	return nil, errNoTTY
}

func (t *TTY) WindowSize() (Size, error) {
	return Size{}, errNoTTY
}

// WindowSize is unavailable on this platform.
func WindowSize(int) (Size, error) {
	return Size{}, errNoTTY
}

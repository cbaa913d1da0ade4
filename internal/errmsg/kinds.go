package errmsg

import "errors"

// Error kinds. Callers wrap them with fmt.Errorf("...: %w", Err...) and
// test with errors.Is.
var (
	// ErrEnvironmentUnsupported is fatal: the terminal cannot show graphics.
	ErrEnvironmentUnsupported = errors.New("terminal graphics unsupported")
	// ErrInputMissing marks a path that does not exist or cannot be read.
	ErrInputMissing = errors.New("input missing")
	// ErrDecodeFailed marks a malformed or unsupported image.
	ErrDecodeFailed = errors.New("decode failed")
	// ErrEncodeFailed marks a quantizer or sixel encoder failure for a row.
	ErrEncodeFailed = errors.New("encode failed")
	// ErrCacheUnavailable marks an unusable cache directory.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrOutputClosed is returned when stdout is closed under us (EPIPE).
	ErrOutputClosed = errors.New("output closed")
	// ErrInterrupt is returned when SIGINT cancels the run.
	ErrInterrupt = errors.New("interrupted")
)

// Kind returns the error kind wrapped by err, or nil if err carries none.
func Kind(err error) error {
	for _, k := range []error{
		ErrEnvironmentUnsupported,
		ErrInputMissing,
		ErrDecodeFailed,
		ErrEncodeFailed,
		ErrCacheUnavailable,
		ErrOutputClosed,
		ErrInterrupt,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Fatal reports whether err must abort the process.
func Fatal(err error) bool {
	return errors.Is(err, ErrEnvironmentUnsupported)
}

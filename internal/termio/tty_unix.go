//go:build unix

package termio

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// TTY is the controlling terminal opened read-write.
type TTY struct {
	f  *os.File
	fd int
}

// Open opens /dev/tty.
func Open() (*TTY, error) {
	f, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &TTY{f: f, fd: int(f.Fd())}, nil
}

// Fd returns the file descriptor of the terminal.
func (t *TTY) Fd() int {
	return t.fd
}

func (t *TTY) Write(p []byte) (int, error) {
	return t.f.Write(p)
}

// Close closes the terminal.
func (t *TTY) Close() error {
	return t.f.Close()
}

// Query writes seq in raw mode and collects the reply until done reports it
// complete or timeout elapses. A partial reply is returned with ErrTimeout.
func (t *TTY) Query(seq string, timeout time.Duration, done Terminator) ([]byte, error) {
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, err
	}
	defer term.Restore(t.fd, state) //nolint:errcheck // best-effort

	if _, err := t.f.WriteString(seq); err != nil {
		return nil, err
	}
	return t.readUntil(time.Now().Add(timeout), done)
}

func (t *TTY) readUntil(deadline time.Time, done Terminator) ([]byte, error) {
	reply := make([]byte, 0, 64)
	// One byte per read so input typed after the reply stays queued.
	var b [1]byte

	for {
		wait := time.Until(deadline)
		if wait <= 0 {
			return reply, ErrTimeout
		}
		ready, err := t.poll(wait)
		if err != nil {
			return reply, err
		}
		if !ready {
			return reply, ErrTimeout
		}
		n, err := unix.Read(t.fd, b[:])
		if err != nil {
			if errors.Is(err, unix.EINTR) || errors.Is(err, unix.EAGAIN) {
				continue
			}
			return reply, err
		}
		if n == 0 {
			return reply, ErrTimeout
		}
		reply = append(reply, b[0])
		if done(reply) {
			return reply, nil
		}
	}
}

func (t *TTY) poll(wait time.Duration) (bool, error) {
	ms := int(wait / time.Millisecond)
	if ms < 1 {
		ms = 1
	}
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, ms)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0 && fds[0].Revents&unix.POLLIN != 0, nil
	}
}

// Drain discards pending input, such as late query replies or keys typed
// while thumbnails were rendering.
func (t *TTY) Drain() {
	state, err := term.MakeRaw(t.fd)
	if err == nil {
		defer term.Restore(t.fd, state) //nolint:errcheck // best-effort
	}
	chunk := make([]byte, 256)
	for {
		ready, err := t.poll(time.Millisecond)
		if err != nil || !ready {
			return
		}
		if n, err := unix.Read(t.fd, chunk); err != nil || n == 0 {
			return
		}
	}
}

// WindowSize queries TIOCGWINSZ.
func (t *TTY) WindowSize() (Size, error) {
	return WindowSize(t.fd)
}

// WindowSize queries TIOCGWINSZ on any descriptor.
func WindowSize(fd int) (Size, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, err
	}
	return Size{
		Cols:   int(ws.Col),
		Rows:   int(ws.Row),
		XPixel: int(ws.Xpixel),
		YPixel: int(ws.Ypixel),
	}, nil
}

//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"fmt"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpDecodeImage,
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with operation",
			op:       OpDecodeImage,
			err:      errors.New("unexpected EOF"),
			expected: "Failed to decode image: unexpected EOF",
		},
		{
			name:     "scan operation",
			op:       OpScanDirectory,
			err:      errors.New("permission denied"),
			expected: "Failed to scan directory: permission denied",
		},
		{
			name:     "probe operation",
			op:       OpProbeTerminal,
			err:      errors.New("no tty"),
			expected: "Failed to probe terminal: no tty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpReadFile,
			context:  "cat.jpg",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpReadFile,
			context:  "cat.jpg",
			err:      errors.New("permission denied"),
			expected: "Failed to read image file 'cat.jpg': permission denied",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpReadFile,
			context:  "",
			err:      errors.New("permission denied"),
			expected: "Failed to read image file: permission denied",
		},
		{
			name:     "cache write with path context",
			op:       OpCacheWrite,
			context:  "/home/user/.cache/lsix",
			err:      errors.New("read-only file system"),
			expected: "Failed to write row cache '/home/user/.cache/lsix': read-only file system",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"plain error", errors.New("boom"), nil},
		{"direct kind", ErrDecodeFailed, ErrDecodeFailed},
		{"wrapped kind", fmt.Errorf("a.png: %w", ErrInputMissing), ErrInputMissing},
		{"double wrapped", fmt.Errorf("row 2: %w", fmt.Errorf("sixel: %w", ErrEncodeFailed)), ErrEncodeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Kind(tt.err); got != tt.want { //nolint:errorlint // comparing sentinel identity
				t.Errorf("Kind(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFatal(t *testing.T) {
	if !Fatal(fmt.Errorf("detect terminal: %w", ErrEnvironmentUnsupported)) {
		t.Error("environment unsupported should be fatal")
	}
	for _, err := range []error{ErrInputMissing, ErrDecodeFailed, ErrEncodeFailed, ErrCacheUnavailable, ErrOutputClosed} {
		if Fatal(err) {
			t.Errorf("%v should not be fatal", err)
		}
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpProbeTerminal, OpRestoreTerm, OpEnterAltScreen,
		OpScanDirectory, OpReadFile,
		OpDecodeImage, OpEncodeRow, OpRenderRow,
		OpCacheOpen, OpCacheWrite,
		OpWriteOutput,
		OpLoadConfig, OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}

// Package errmsg provides consistent error formatting for user-facing messages.
package errmsg

import "fmt"

// Op represents an operation that can fail.
type Op string

// Operation constants - grouped by domain.
const (
	// Terminal operations
	OpProbeTerminal  Op = "probe terminal"
	OpRestoreTerm    Op = "restore terminal"
	OpEnterAltScreen Op = "enter alternate screen"

	// Source operations
	OpScanDirectory Op = "scan directory"
	OpReadFile      Op = "read image file"

	// Image operations
	OpDecodeImage Op = "decode image"
	OpEncodeRow   Op = "encode row"
	OpRenderRow   Op = "render row"

	// Cache operations
	OpCacheOpen  Op = "open row cache"
	OpCacheWrite Op = "write row cache"

	// Output operations
	OpWriteOutput Op = "write output"

	// Initialization
	OpLoadConfig Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Format creates a user-friendly error message.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Failed to %s: %v", op, err)
}

// FormatWith creates an error message with additional context.
func FormatWith(op Op, context string, err error) string {
	if err == nil {
		return ""
	}
	if context == "" {
		return Format(op, err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", op, context, err)
}

// Package cliutil provides output helpers shared by the edmoas commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// FormatBytes renders a byte count with binary units, e.g. "1.5 KiB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

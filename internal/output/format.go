package output

import (
	"strings"

	"github.com/fatih/color"
)

// Visual separator constants for table output.
const (
	// SeparatorWidth is the width of separator lines.
	SeparatorWidth = 60

	// SeparatorChar is the character used for separator lines.
	SeparatorChar = "─"
)

// Separator returns a separator line of the default width.
func Separator() string {
	return strings.Repeat(SeparatorChar, SeparatorWidth)
}

// CyanSeparator returns a cyan separator line for table headers.
func CyanSeparator() string {
	return color.New(color.FgCyan).Sprint(Separator())
}

// ShortAddress abbreviates a hex address or hash as 0x1234…cdef.
func ShortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

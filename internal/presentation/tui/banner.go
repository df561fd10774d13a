package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Graft.
func PrintBanner() {
	p := termenv.ColorProfile()
	// Green-to-teal gradient, one color per line
	s1 := termenv.String("   __ _ _ __ __ _ / _| |_ ").Foreground(p.Color("#34d399"))
	s2 := termenv.String("  / _` | '__/ _` | |_| __|").Foreground(p.Color("#2dd4bf"))
	s3 := termenv.String(" | (_| | | | (_| |  _| |_ ").Foreground(p.Color("#22d3ee"))
	s4 := termenv.String("  \\__, |_|  \\__,_|_|  \\__|").Foreground(p.Color("#38bdf8"))
	s5 := termenv.String("   __/ |                  ").Foreground(p.Color("#60a5fa"))
	s6 := termenv.String("  |___/                   ").Foreground(p.Color("#818cf8"))

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(s6)
	fmt.Println()
}

// Severity colors shared by the plain-text report summary.
var (
	colorError   = "#f87171"
	colorWarning = "#fbbf24"
	colorInfo    = "#60a5fa"
	colorOK      = "#34d399"
)

// Colorize wraps text in the given hex color for the active profile.
func Colorize(text, hex string) string {
	p := termenv.ColorProfile()
	return termenv.String(text).Foreground(p.Color(hex)).String()
}

// SeverityColor maps a severity label to its display color.
func SeverityColor(severity string) string {
	switch severity {
	case "error":
		return colorError
	case "warning":
		return colorWarning
	case "info":
		return colorInfo
	default:
		return colorOK
	}
}

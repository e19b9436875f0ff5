// Package ui styles the text the CLI prints for people.
package ui

import "os"

// ANSI color and style constants for CLI output
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorCyan   = "\033[36m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorWhite  = "\033[97m"
	ColorRed    = "\033[31m"
)

// enabled is false when NO_COLOR is set (https://no-color.org)
var enabled = os.Getenv("NO_COLOR") == ""

// SetEnabled turns styling on or off, e.g. for JSON logs or tests
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether styling is applied
func Enabled() bool {
	return enabled
}

// Style wraps s in an arbitrary ANSI code
func Style(code, s string) string {
	if !enabled {
		return s
	}
	return code + s + ColorReset
}

func Bold(s string) string {
	return Style(ColorBold, s)
}

func Heading(s string) string {
	return Style(ColorBold+ColorCyan, s)
}

func Success(s string) string {
	return Style(ColorGreen, s)
}

func Info(s string) string {
	return Style(ColorDim+ColorYellow, s)
}

func Warn(s string) string {
	return Style(ColorYellow, s)
}

func Error(s string) string {
	return Style(ColorRed, s)
}

func Dim(s string) string {
	return Style(ColorDim, s)
}

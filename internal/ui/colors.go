package ui

// ANSI style constants for the run and sources command output.
const (
	ColorReset = "\033[0m"
	ColorBold  = "\033[1m"
	ColorDim   = "\033[2m"

	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
)

// Bold styles the artifact path in the run summary.
func Bold(s string) string {
	return ColorBold + s + ColorReset
}

// Success styles the completed-run marker.
func Success(s string) string {
	return ColorGreen + s + ColorReset
}

// Info styles advisory notes (no data, interruption).
func Info(s string) string {
	return ColorDim + ColorYellow + s + ColorReset
}

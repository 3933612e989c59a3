package colors

import (
	"io"

	"github.com/fatih/color"
)

// Standardized color definitions for reaper output

var (
	// Header/Section colors - bright yellow with bold for headers and section titles
	Header = color.New(color.FgHiYellow, color.Bold)

	// Data/Results colors - bright cyan for data output like instance IDs
	Data = color.New(color.FgHiCyan)

	// Success message colors - bright green with bold for positive feedback
	Success = color.New(color.FgHiGreen, color.Bold)

	// Error message colors - bright red with bold for error messages
	Error = color.New(color.FgHiRed, color.Bold)

	// Warning message colors - bright yellow with bold for warnings
	Warning = color.New(color.FgHiYellow, color.Bold)

	// Muted is used for skipped decisions and placeholders
	Muted = color.New(color.FgHiBlack)
)

// Fprint helpers write colored output to w
func FprintError(w io.Writer, format string, args ...interface{}) {
	_, _ = Error.Fprintf(w, format, args...)
}

func FprintSuccess(w io.Writer, format string, args ...interface{}) {
	_, _ = Success.Fprintf(w, format, args...)
}

func FprintHeader(w io.Writer, format string, args ...interface{}) {
	_, _ = Header.Fprintf(w, format, args...)
}

func FprintMuted(w io.Writer, format string, args ...interface{}) {
	_, _ = Muted.Fprintf(w, format, args...)
}

// ColorState colors an instance lifecycle state for table output.
func ColorState(state string) string {
	switch state {
	case "running", "started":
		return Success.Sprint(state)
	case "pending", "stopping", "shutting-down":
		return Warning.Sprint(state)
	case "stopped":
		return Data.Sprint(state)
	case "terminated":
		return Error.Sprint(state)
	default:
		return state
	}
}

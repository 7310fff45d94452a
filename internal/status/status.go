package status

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Kind classifies a console status line.
type Kind int

const (
	// Plain is a neutral progress message.
	Plain Kind = iota
	// Success marks a completed stage.
	Success
	// Failure marks a failed stage or the final failure summary.
	Failure
)

//nolint:gochecknoglobals // Color printers are immutable formatting values.
var (
	plainSprint   = color.New(color.FgWhite).SprintFunc()
	successSprint = color.New(color.FgGreen).SprintFunc()
	failureSprint = color.New(color.FgRed).SprintFunc()
)

// Sprint formats the message with the colors of the given kind.
func Sprint(kind Kind, message string) string {
	switch kind {
	case Success:
		return successSprint(message)
	case Failure:
		return failureSprint(message)
	default:
		return plainSprint(message)
	}
}

// Fprintf writes a formatted status line of the given kind to w.
func Fprintf(w io.Writer, kind Kind, format string, args ...any) {
	_, _ = fmt.Fprintln(w, Sprint(kind, fmt.Sprintf(format, args...)))
}

// Printf writes a formatted status line of the given kind to stdout.
func Printf(kind Kind, format string, args ...any) {
	Fprintf(os.Stdout, kind, format, args...)
}

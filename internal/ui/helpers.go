package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// truncate cuts value to limit display cells, ending with an ellipsis.
func truncate(value string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return ansi.Truncate(value, limit, "…")
}

// padRight pads plain text to width cells, truncating when longer.
func padRight(value string, width int) string {
	value = truncate(strings.TrimSpace(value), width)
	if gap := width - ansi.StringWidth(value); gap > 0 {
		return value + strings.Repeat(" ", gap)
	}
	return value
}

func pluralRecords(n int) string {
	if n == 1 {
		return "1 siswa"
	}
	return fmt.Sprintf("%d siswa", n)
}

// rootCause returns the message of the innermost wrapped error.
func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// Package display provides user-facing terminal warnings for the
// kortkollect CLI.
package display

import (
	"fmt"
	"io"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	// Start with yellow color, emoji, and title
	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	// Add message with 4-space indent if present
	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	// Add files with proper singular/plural and indentation
	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString("      ")
			b.WriteString(fmt.Sprintf("%d. %s", i+1, file))
			b.WriteString("\n")
		}
	}

	// Add suggestion with 4-space indent if present
	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	// End with reset code
	b.WriteString("\x1b[0m")

	// Write final output
	fmt.Fprint(out, b.String())
}

// WarnEmptyIndex creates a warning for a run where the image index came up empty
func WarnEmptyIndex(rootDir string) Warning {
	return Warning{
		Title:      "Image index is empty",
		Message:    fmt.Sprintf("No image files were found under %s.", rootDir),
		Suggestion: "Check that the root directory exists and contains .jpg files.",
	}
}

// WarnNoMarkers creates a warning for a marker pattern that matched nothing
func WarnNoMarkers(pattern string) Warning {
	return Warning{
		Title:      "No error markers matched",
		Message:    fmt.Sprintf("The pattern %q selected no marker files.", pattern),
		Suggestion: "Check the pattern; markers are usually named <id>.parse_error or <id>.model_error.",
	}
}

// Package diagnostics renders TyperError values to a human-readable form:
// file:line header, the offending source line, and a caret underline,
// grounded on the teacher compiler's internal/errors.CompilerError.Format.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
)

// Format renders a single error as spec.md §6 prescribes: "error at
// <file>:<line>" followed by the source line and an underline/caret span
// covering the error's byte range on that line.
func Format(files *source.Files, err typed.TyperError, color bool) string {
	var sb strings.Builder

	name := files.Name(err.Span.File)
	sb.WriteString(fmt.Sprintf("error at %s:%d\n", name, err.Span.Line))

	line := files.Line(err.Span.File, err.Span.Line)
	if line != "" {
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(underline(line, err.Span))
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString(err.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

// underline builds a caret span under the byte range [span.Start, span.End)
// relative to the start of line, clamped to the line's length and always at
// least one caret wide.
func underline(line string, span source.Span) string {
	width := span.End - span.Start
	if width < 1 {
		width = 1
	}
	col := span.Start
	if col > len(line) {
		col = len(line)
	}
	if col+width > len(line) {
		width = len(line) - col
		if width < 1 {
			width = 1
		}
	}
	return strings.Repeat(" ", col) + strings.Repeat("^", width)
}

// FormatAll renders every error in errs, separated by blank lines; with
// more than one error, a summary count header precedes them — matching the
// teacher's FormatErrors shape for the multi-error case.
func FormatAll(files *source.Files, errs []typed.TyperError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return Format(files, errs[0], color)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("compilation failed with %d error(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(Format(files, err, color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

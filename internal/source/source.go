// Package source holds the file table and span type shared by every parsed
// and elaborated node, used only for diagnostics.
package source

import "strings"

// FileID identifies one source file among the files passed to a single
// elaboration run.
type FileID uint32

// Span is a (file, byte-start, byte-end, line) tuple attached to every
// parsed and elaborated node. It carries no semantic weight; it exists
// purely so diagnostics can point back at source text.
type Span struct {
	File  FileID
	Start int
	End   int
	Line  int
}

// Files is a table of source file contents, indexed by FileID.
type Files struct {
	names   []string
	content []string
}

// NewFiles creates an empty file table.
func NewFiles() *Files {
	return &Files{}
}

// Add registers a new source file and returns its FileID.
func (f *Files) Add(name, content string) FileID {
	f.names = append(f.names, name)
	f.content = append(f.content, content)
	return FileID(len(f.names) - 1)
}

// Name returns the file name for id.
func (f *Files) Name(id FileID) string {
	if int(id) >= len(f.names) {
		return "<unknown>"
	}
	return f.names[id]
}

// Line returns the 1-indexed source line lineNum of the given file, or ""
// if out of range.
func (f *Files) Line(id FileID, lineNum int) string {
	if int(id) >= len(f.content) {
		return ""
	}
	lines := strings.Split(f.content[id], "\n")
	if lineNum < 1 || lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

package diagnostics

import (
	"strings"
	"testing"

	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
)

func TestFormatIncludesFileAndLineHeader(t *testing.T) {
	files := source.NewFiles()
	id := files.Add("main.bfl", "let x = 1\nlet y = bool\n")
	err := typed.TyperError{Message: "unknown name bool", Span: source.Span{File: id, Start: 8, End: 12, Line: 2}}

	out := Format(files, err, false)
	if !strings.HasPrefix(out, "error at main.bfl:2\n") {
		t.Fatalf("expected header line, got: %q", out)
	}
	if !strings.Contains(out, "let y = bool") {
		t.Fatalf("expected offending source line in output, got: %q", out)
	}
	if !strings.Contains(out, "unknown name bool") {
		t.Fatalf("expected message in output, got: %q", out)
	}
}

func TestUnderlineIsAtLeastOneCaretWide(t *testing.T) {
	line := "let x = 1"
	got := underline(line, source.Span{Start: 4, End: 4})
	want := strings.Repeat(" ", 4) + "^"
	if got != want {
		t.Fatalf("underline() = %q, want %q", got, want)
	}
}

func TestUnderlineClampsToLineLength(t *testing.T) {
	line := "x"
	got := underline(line, source.Span{Start: 0, End: 50})
	if got != "^" {
		t.Fatalf("underline() = %q, want a single caret", got)
	}
}

func TestFormatAllSummarizesMultipleErrors(t *testing.T) {
	files := source.NewFiles()
	id := files.Add("a.bfl", "one\ntwo\n")
	errs := []typed.TyperError{
		{Message: "first", Span: source.Span{File: id, Start: 0, End: 1, Line: 1}},
		{Message: "second", Span: source.Span{File: id, Start: 0, End: 1, Line: 2}},
	}

	out := FormatAll(files, errs, false)
	if !strings.Contains(out, "compilation failed with 2 error(s)") {
		t.Fatalf("expected summary count, got: %q", out)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("expected both messages present, got: %q", out)
	}
}

func TestFormatAllEmptyIsEmptyString(t *testing.T) {
	if got := FormatAll(source.NewFiles(), nil, false); got != "" {
		t.Fatalf("expected empty string for no errors, got %q", got)
	}
}

package ident

import "testing"

func TestInternIsIdempotent(t *testing.T) {
	in := New()
	a := in.Intern("foo")
	b := in.Intern("foo")
	if a != b {
		t.Fatalf("expected same id for repeated intern, got %d and %d", a, b)
	}
	c := in.Intern("bar")
	if a == c {
		t.Fatalf("expected distinct ids for distinct names")
	}
}

func TestInternIsCaseSensitive(t *testing.T) {
	in := New()
	lower := in.Intern("foo")
	upper := in.Intern("Foo")
	if lower == upper {
		t.Fatalf("bfl identifiers are case-sensitive; Foo must differ from foo")
	}
}

func TestNameRoundTrips(t *testing.T) {
	in := New()
	id := in.Intern("widget")
	if got := in.Name(id); got != "widget" {
		t.Fatalf("Name(%d) = %q, want %q", id, got, "widget")
	}
}

func TestLookupMissing(t *testing.T) {
	in := New()
	in.Intern("present")
	if _, ok := in.Lookup("absent"); ok {
		t.Fatalf("Lookup should report false for a name never interned")
	}
}

func TestInvalidIDPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Name(Invalid) to panic")
		}
	}()
	in := New()
	in.Name(Invalid)
}

func TestLen(t *testing.T) {
	in := New()
	if in.Len() != 0 {
		t.Fatalf("fresh interner should report zero length")
	}
	in.Intern("a")
	in.Intern("b")
	in.Intern("a")
	if in.Len() != 2 {
		t.Fatalf("expected 2 distinct identifiers, got %d", in.Len())
	}
}

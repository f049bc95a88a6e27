package fixture

import (
	"encoding/json"
	"testing"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

func newDecoder() (*Decoder, *ident.Interner) {
	idents := ident.New()
	return NewDecoder(idents, source.FileID(3)), idents
}

func TestDecodeExprStampsSpanFromEnvelope(t *testing.T) {
	d, _ := newDecoder()
	raw := json.RawMessage(`{"kind": "int", "lexeme": "42", "start": 10, "end": 12, "line": 5}`)

	e, err := d.DecodeExpr(raw)
	if err != nil {
		t.Fatalf("DecodeExpr: %v", err)
	}
	lit, ok := e.(ast.IntLit)
	if !ok {
		t.Fatalf("expected ast.IntLit, got %T", e)
	}
	if lit.Lexeme != "42" {
		t.Fatalf("Lexeme = %q, want 42", lit.Lexeme)
	}
	span := lit.SourceSpan()
	if span.File != 3 || span.Start != 10 || span.End != 12 || span.Line != 5 {
		t.Fatalf("span = %+v, want {File:3 Start:10 End:12 Line:5}", span)
	}
}

func TestDecodeExprUnknownKindErrors(t *testing.T) {
	d, _ := newDecoder()
	_, err := d.DecodeExpr(json.RawMessage(`{"kind": "nonsense"}`))
	if err == nil {
		t.Fatalf("expected an error for an unknown expr kind")
	}
}

func TestDecodeExprBinaryRecursesAndInternsConsistently(t *testing.T) {
	d, idents := newDecoder()
	raw := json.RawMessage(`{
		"kind": "binary", "op": "add",
		"left": {"kind": "name", "path": ["x"]},
		"right": {"kind": "name", "path": ["x"]}
	}`)

	e, err := d.DecodeExpr(raw)
	if err != nil {
		t.Fatalf("DecodeExpr: %v", err)
	}
	bin, ok := e.(ast.Binary)
	if !ok {
		t.Fatalf("expected ast.Binary, got %T", e)
	}
	if bin.Op != ast.OpAdd {
		t.Fatalf("Op = %v, want OpAdd", bin.Op)
	}
	left := bin.Left.(ast.Name)
	right := bin.Right.(ast.Name)
	if left.Path[0] != right.Path[0] {
		t.Fatalf("interning the same name twice must yield the same ident.ID")
	}
	if idents.Name(left.Path[0]) != "x" {
		t.Fatalf("interned name round-trips to %q, want x", idents.Name(left.Path[0]))
	}
}

func TestDecodeExprIfWithoutElseLeavesElseNil(t *testing.T) {
	d, _ := newDecoder()
	raw := json.RawMessage(`{
		"kind": "if",
		"cond": {"kind": "bool", "value": true},
		"then": {"kind": "block", "statements": []}
	}`)

	e, err := d.DecodeExpr(raw)
	if err != nil {
		t.Fatalf("DecodeExpr: %v", err)
	}
	ifExpr := e.(ast.If)
	if ifExpr.Else != nil {
		t.Fatalf("expected Else to be nil when omitted from the fixture")
	}
}

func TestDecodeTypeExprIntWidth(t *testing.T) {
	d, _ := newDecoder()
	raw := json.RawMessage(`{"kind": "intWidth", "width": 32, "signed": false}`)

	te, err := d.DecodeTypeExpr(raw)
	if err != nil {
		t.Fatalf("DecodeTypeExpr: %v", err)
	}
	iw := te.(ast.IntWidthType)
	if iw.Width != 32 || iw.Signed {
		t.Fatalf("got %+v, want {Width:32 Signed:false}", iw)
	}
}

func TestDecodePatternStructNestsFields(t *testing.T) {
	d, _ := newDecoder()
	raw := json.RawMessage(`{
		"kind": "struct",
		"fields": [{"name": "x", "pattern": {"kind": "variable", "name": "vx"}}]
	}`)

	p, err := d.DecodePattern(raw)
	if err != nil {
		t.Fatalf("DecodePattern: %v", err)
	}
	sp := p.(ast.StructPattern)
	if len(sp.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(sp.Fields))
	}
	if _, ok := sp.Fields[0].Pattern.(ast.VariablePattern); !ok {
		t.Fatalf("expected nested VariablePattern, got %T", sp.Fields[0].Pattern)
	}
}

func TestDecodeProgramBuildsNamespaceTree(t *testing.T) {
	idents := ident.New()
	d := NewDecoder(idents, source.FileID(0))
	doc := []byte(`{
		"root": {
			"kind": "namespace",
			"name": "",
			"namespaces": [{"kind": "namespace", "name": "geo"}],
			"constants": [{
				"kind": "const",
				"name": "pi",
				"value": {"kind": "int", "lexeme": "3"}
			}]
		}
	}`)

	program, err := d.DecodeProgram(doc)
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	if len(program.Root.Namespaces) != 1 {
		t.Fatalf("expected 1 nested namespace, got %d", len(program.Root.Namespaces))
	}
	if idents.Name(program.Root.Namespaces[0].Name) != "geo" {
		t.Fatalf("nested namespace name = %q, want geo", idents.Name(program.Root.Namespaces[0].Name))
	}
	if len(program.Root.Constants) != 1 {
		t.Fatalf("expected 1 constant, got %d", len(program.Root.Constants))
	}
}

func TestParsedIDsAreMonotonicAcrossDefns(t *testing.T) {
	idents := ident.New()
	d := NewDecoder(idents, source.FileID(0))
	doc := []byte(`{
		"root": {
			"kind": "namespace",
			"name": "",
			"functions": [
				{"kind": "func", "name": "a", "returnType": {"kind": "primitiveName", "name": "Unit"}},
				{"kind": "func", "name": "b", "returnType": {"kind": "primitiveName", "name": "Unit"}}
			]
		}
	}`)

	program, err := d.DecodeProgram(doc)
	if err != nil {
		t.Fatalf("DecodeProgram: %v", err)
	}
	fns := program.Root.Functions
	if len(fns) != 2 || fns[0].ParsedID == fns[1].ParsedID {
		t.Fatalf("expected two functions with distinct ParsedIDs, got %+v", fns)
	}
}

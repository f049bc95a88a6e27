package ast

import (
	"testing"

	"github.com/kolemannix/bfl-sub000/internal/ident"
)

// TestBuildSmallProgram constructs the tree for roughly
// `fn id<T>(x: T): T { x }` to confirm the node types compose the way the
// elaborator will expect them to.
func TestBuildSmallProgram(t *testing.T) {
	in := ident.New()
	tName := in.Intern("T")
	xName := in.Intern("x")
	idName := in.Intern("id")

	fn := &FuncDefn{
		Name:          idName,
		GenericParams: []ident.ID{tName},
		Params:        []FuncParam{{Name: xName, Type: NameLookupType{Name: tName}}},
		ReturnType:    NameLookupType{Name: tName},
		Body: &Block{
			Statements: []Stmt{
				ExprStmt{Value: Name{Path: []ident.ID{xName}}},
			},
		},
	}

	root := &NamespaceDefn{Functions: []*FuncDefn{fn}}
	prog := &Program{Root: root}

	if len(prog.Root.Functions) != 1 {
		t.Fatalf("expected 1 top-level function")
	}
	if prog.Root.Functions[0].GenericParams[0] != tName {
		t.Fatalf("generic param not preserved")
	}
	body := prog.Root.Functions[0].Body
	if len(body.Statements) != 1 {
		t.Fatalf("expected 1 statement in body")
	}
	stmt, ok := body.Statements[0].(ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", body.Statements[0])
	}
	name, ok := stmt.Value.(Name)
	if !ok || len(name.Path) != 1 || name.Path[0] != xName {
		t.Fatalf("expected reference to x, got %#v", stmt.Value)
	}
}

func TestPatternAndTypeExprInterfaces(t *testing.T) {
	in := ident.New()
	circle := in.Intern("Circle")

	var p Pattern = EnumPattern{Tag: circle}
	if _, ok := p.(EnumPattern); !ok {
		t.Fatalf("EnumPattern must satisfy Pattern")
	}

	var te TypeExpr = OptionalPostfixType{Inner: IntWidthType{Width: 32, Signed: true}}
	opt, ok := te.(OptionalPostfixType)
	if !ok {
		t.Fatalf("OptionalPostfixType must satisfy TypeExpr")
	}
	if _, ok := opt.Inner.(IntWidthType); !ok {
		t.Fatalf("nested IntWidthType must round-trip")
	}
}

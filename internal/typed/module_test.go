package typed

import (
	"testing"

	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

func TestNewModuleInstallsReservedTypesAndRootIsEmpty(t *testing.T) {
	in := ident.New()
	m := NewModule(in)
	if m.Succeeded() != true {
		t.Fatalf("a fresh module with no errors must report success")
	}
	if len(m.Functions) != 0 || len(m.Variables) != 0 {
		t.Fatalf("a fresh module must have no declared entities yet")
	}
	if m.Types.Kind(types.UNIT) != types.KindUnit || m.Types.Kind(types.I64) != types.KindInt {
		t.Fatalf("a fresh module must have the reserved built-in types installed")
	}
}

func TestAppendOnlyIDsAreSequential(t *testing.T) {
	m := NewModule(ident.New())
	name := m.Idents.Intern("x")

	v1 := m.NewVariable(Variable{Name: name, Type: 0})
	v2 := m.NewVariable(Variable{Name: name, Type: 0})
	if v1 != 0 || v2 != 1 {
		t.Fatalf("expected sequential ids 0,1, got %d,%d", v1, v2)
	}
	if m.Variable(v2).Name != name {
		t.Fatalf("Variable accessor must return the stored record")
	}
}

func TestErrorListNonEmptyIffFailure(t *testing.T) {
	m := NewModule(ident.New())
	if !m.Succeeded() {
		t.Fatalf("no errors accumulated yet: must report success")
	}
	m.AddError("something went wrong", source.Span{})
	if m.Succeeded() {
		t.Fatalf("after AddError, module must report failure")
	}
	if len(m.Errors) != 1 {
		t.Fatalf("expected exactly one accumulated error, got %d", len(m.Errors))
	}
}

func TestFunctionCrossReferenceMapRoundTrips(t *testing.T) {
	m := NewModule(ident.New())
	fnID := m.NewFunction(Function{Name: m.Idents.Intern("id"), Meta: MetaUserFunction})
	m.FuncByParsedID[42] = fnID
	if got := m.FuncByParsedID[42]; got != fnID {
		t.Fatalf("parsed-id to FunctionId map must round-trip")
	}
	if m.Function(fnID).IsGeneric() {
		t.Fatalf("a function with no generic params must not report IsGeneric")
	}
	_ = ids.FunctionID(0)
}

package scope

import (
	"testing"

	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
)

func TestRootHasNoParent(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	if _, ok := tree.Parent(root); ok {
		t.Fatalf("root scope must have no parent")
	}
	if tree.Kind(root) != KindNamespace {
		t.Fatalf("root scope kind mismatch")
	}
}

func TestVariableShadowingIsIdempotentOverwrite(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	in := ident.New()
	x := in.Intern("x")

	tree.AddVariable(root, x, ids.VariableID(1))
	tree.AddVariable(root, x, ids.VariableID(2))

	got, ok := tree.LookupVariable(root, x)
	if !ok || got != ids.VariableID(2) {
		t.Fatalf("expected shadowed binding 2, got %d (ok=%v)", got, ok)
	}
}

func TestFindVariableRecursesToParent(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	child := tree.NewChild(root, KindBlock, "")
	in := ident.New()
	x := in.Intern("x")

	tree.AddVariable(root, x, ids.VariableID(7))

	if _, ok := tree.LookupVariable(child, x); ok {
		t.Fatalf("strict lookup in child must not see parent's binding")
	}
	got, ok := tree.FindVariable(child, x)
	if !ok || got != ids.VariableID(7) {
		t.Fatalf("FindVariable should recurse to parent, got %d (ok=%v)", got, ok)
	}
}

func TestAddFunctionRejectsDuplicate(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	in := ident.New()
	f := in.Intern("doThing")

	if err := tree.AddFunction(root, f, ids.FunctionID(1)); err != nil {
		t.Fatalf("first registration should succeed: %v", err)
	}
	if err := tree.AddFunction(root, f, ids.FunctionID(2)); err == nil {
		t.Fatalf("duplicate function name in the same scope must be rejected")
	}
}

func TestAddNamespaceTypeAbilityRejectDuplicates(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	in := ident.New()

	ns := in.Intern("geo")
	if err := tree.AddNamespace(root, ns, ids.NamespaceID(1)); err != nil {
		t.Fatalf("first namespace registration should succeed: %v", err)
	}
	if err := tree.AddNamespace(root, ns, ids.NamespaceID(2)); err == nil {
		t.Fatalf("duplicate namespace name must be rejected")
	}

	ty := in.Intern("Point")
	if err := tree.AddType(root, ty, ids.TypeID(1)); err != nil {
		t.Fatalf("first type registration should succeed: %v", err)
	}
	if err := tree.AddType(root, ty, ids.TypeID(2)); err == nil {
		t.Fatalf("duplicate type name must be rejected")
	}

	ab := in.Intern("Equals")
	if err := tree.AddAbility(root, ab, ids.AbilityID(1)); err != nil {
		t.Fatalf("first ability registration should succeed: %v", err)
	}
	if err := tree.AddAbility(root, ab, ids.AbilityID(2)); err == nil {
		t.Fatalf("duplicate ability name must be rejected")
	}
}

func TestQualifiedLookupFirstComponentRecursesRestDoNot(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	child := tree.NewChild(root, KindBlock, "")
	in := ident.New()
	geo := in.Intern("geo")

	tree.AddNamespace(root, geo, ids.NamespaceID(3))

	if _, ok := tree.LookupNamespace(child, geo); ok {
		t.Fatalf("strict LookupNamespace must not see parent's binding")
	}
	got, ok := tree.FindNamespace(child, geo)
	if !ok || got != ids.NamespaceID(3) {
		t.Fatalf("FindNamespace (first component) must recurse to parent, got %d (ok=%v)", got, ok)
	}
}

func TestPendingTypeDefnVisibleThroughParentChain(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	child := tree.NewChild(root, KindBlock, "")
	in := ident.New()
	list := in.Intern("List")

	tree.MarkPending(root, list)
	if !tree.FindPending(child, list) {
		t.Fatalf("pending type-defn name must be visible from a nested scope")
	}

	tree.AddType(root, list, ids.TypeID(9))
	if tree.FindPending(child, list) {
		t.Fatalf("installing the real type must clear the pending marker")
	}
}

func TestNewSiblingSharesParentNotSibling(t *testing.T) {
	tree := NewTree()
	root := tree.NewRoot(KindNamespace, "root")
	fnScope := tree.NewChild(root, KindFunction, "generic_identity")
	specScope := tree.NewSibling(fnScope, KindFunction, "generic_identity_spec_1")

	specParent, ok := tree.Parent(specScope)
	if !ok || specParent != root {
		t.Fatalf("sibling scope should share fnScope's parent (root), got %d (ok=%v)", specParent, ok)
	}

	in := ident.New()
	x := in.Intern("x")
	tree.AddVariable(fnScope, x, ids.VariableID(5))
	if _, ok := tree.FindVariable(specScope, x); ok {
		t.Fatalf("sibling scope must not see fnScope's own bindings")
	}
}

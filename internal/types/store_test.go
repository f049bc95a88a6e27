package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
)

func TestReservedBuiltinPositions(t *testing.T) {
	s := NewStore()
	cases := []struct {
		id   ids.TypeID
		kind Kind
	}{
		{UNIT, KindUnit},
		{CHAR, KindChar},
		{BOOL, KindBool},
		{STRING, KindString},
		{NEVER, KindNever},
		{U8, KindInt},
		{U16, KindInt},
		{U32, KindInt},
		{U64, KindInt},
		{I8, KindInt},
		{I16, KindInt},
		{I32, KindInt},
		{I64, KindInt},
	}
	for _, c := range cases {
		if got := s.Kind(c.id); got != c.kind {
			t.Errorf("reserved id %d: got kind %s, want %s", c.id, got, c.kind)
		}
	}
}

func TestIntTypeIDMatchesWidthAndSign(t *testing.T) {
	s := NewStore()
	if s.IntTypeID(32, true) != I32 {
		t.Fatalf("expected I32")
	}
	if s.IntTypeID(64, false) != U64 {
		t.Fatalf("expected U64")
	}
}

func TestArrayMemoization(t *testing.T) {
	s := NewStore()
	a1 := s.NewArray(I32)
	a2 := s.NewArray(I32)
	if a1 != a2 {
		t.Fatalf("expected same Array<I32> TypeID on repeated request, got %d and %d", a1, a2)
	}
	a3 := s.NewArray(I64)
	if a1 == a3 {
		t.Fatalf("Array<I32> and Array<I64> must be distinct")
	}
}

func TestOptionalAndReferenceMemoization(t *testing.T) {
	s := NewStore()
	if s.NewOptional(STRING) != s.NewOptional(STRING) {
		t.Fatalf("Optional<String> should memoize")
	}
	if s.NewReference(STRING) != s.NewReference(STRING) {
		t.Fatalf("Reference<String> should memoize")
	}
}

func TestTagInstanceMemoizedPerIdentifier(t *testing.T) {
	s := NewStore()
	in := ident.New()
	foo := in.Intern("Foo")
	bar := in.Intern("Bar")
	t1 := s.NewTagInstance(foo)
	t2 := s.NewTagInstance(foo)
	t3 := s.NewTagInstance(bar)
	if t1 != t2 {
		t.Fatalf("tag instances for the same identifier must memoize")
	}
	if t1 == t3 {
		t.Fatalf("tag instances for distinct identifiers must differ")
	}
}

func TestNewEnumWiresVariantBackReferences(t *testing.T) {
	s := NewStore()
	in := ident.New()
	circle := in.Intern("Circle")
	square := in.Intern("Square")
	payload := I32
	enumID, variantIDs := s.NewEnum([]EnumVariantSpec{
		{TagName: circle, Payload: &payload},
		{TagName: square},
	}, nil)

	enumType := s.Get(enumID).(*EnumType)
	if len(enumType.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(enumType.Variants))
	}
	for i, v := range enumType.Variants {
		if v.EnumType != enumID {
			t.Errorf("variant %d back-reference = %d, want %d", i, v.EnumType, enumID)
		}
	}
	if len(variantIDs) != 2 {
		t.Fatalf("expected 2 variant type ids")
	}
	circleVariant := s.Get(variantIDs[0]).(*EnumVariantType)
	if circleVariant.EnumType != enumID || circleVariant.TagName != circle {
		t.Errorf("circle variant type wired incorrectly: %+v", circleVariant)
	}
}

func TestGenericSpecializationMemoization(t *testing.T) {
	s := NewStore()
	in := ident.New()
	tName := in.Intern("T")
	tVar := s.NewTypeVariable(tName, ids.NoScope)
	genericID := s.NewGeneric([]GenericParam{{Name: tName, Var: tVar}}, tVar, nil)
	generic := s.Get(genericID).(*GenericType)

	args := []ids.TypeID{I32}
	if _, ok := s.Lookup(generic, args); ok {
		t.Fatalf("fresh generic should have no memoized specialization yet")
	}

	result := Substitute(s, generic.Inner, generic.Params, args)
	s.Remember(generic, args, result)

	got, ok := s.Lookup(generic, args)
	if !ok || got != result {
		t.Fatalf("expected memoized specialization %d, got %d (ok=%v)", result, got, ok)
	}

	// Requesting the same instantiation again must hit the same memo entry.
	got2, ok2 := s.Lookup(generic, args)
	if !ok2 || got2 != got {
		t.Fatalf("repeated lookup of the same instantiation must be stable")
	}
}

func TestCompatibleIdentity(t *testing.T) {
	s := NewStore()
	if ok, _ := s.Compatible(I32, I32, nil); !ok {
		t.Fatalf("a type must be compatible with itself")
	}
	if ok, _ := s.Compatible(I32, U32, nil); ok {
		t.Fatalf("I32 and U32 must not be compatible")
	}
}

func TestCompatibleNeverAcceptsAnything(t *testing.T) {
	s := NewStore()
	if ok, _ := s.Compatible(STRING, NEVER, nil); !ok {
		t.Fatalf("Never must be compatible with any expected type")
	}
}

func TestCompatibleOptionalReferenceArrayRecurse(t *testing.T) {
	s := NewStore()
	if ok, _ := s.Compatible(s.NewOptional(I32), s.NewOptional(I32), nil); !ok {
		t.Fatalf("Optional<I32> should be compatible with itself structurally")
	}
	if ok, _ := s.Compatible(s.NewArray(I32), s.NewArray(U32), nil); ok {
		t.Fatalf("Array<I32> must not accept Array<U32>")
	}
	if ok, _ := s.Compatible(s.NewReference(STRING), s.NewReference(STRING), nil); !ok {
		t.Fatalf("Reference<String> should be compatible with itself")
	}
}

func TestCompatibleAnonymousStructsStructural(t *testing.T) {
	s := NewStore()
	in := ident.New()
	x := in.Intern("x")
	y := in.Intern("y")

	s1 := s.NewStruct([]StructField{{Name: x, Type: I32, Index: 0}, {Name: y, Type: I32, Index: 1}}, nil)
	s2 := s.NewStruct([]StructField{{Name: x, Type: I32, Index: 0}, {Name: y, Type: I32, Index: 1}}, nil)
	if ok, reason := s.Compatible(s1, s2, nil); !ok {
		t.Fatalf("structurally identical anonymous structs should be compatible: %s", reason)
	}

	s3 := s.NewStruct([]StructField{{Name: x, Type: I32, Index: 0}}, nil)
	if ok, _ := s.Compatible(s1, s3, nil); ok {
		t.Fatalf("structs with different field counts must not be compatible")
	}
}

func TestCompatibleNominalStructsMatchByIDOnly(t *testing.T) {
	s := NewStore()
	in := ident.New()
	name := in.Intern("Point")
	defn := &DefnInfo{Name: name}
	nominal1 := s.NewStruct(nil, defn)
	nominal2 := s.NewStruct(nil, defn)
	if ok, _ := s.Compatible(nominal1, nominal2, nil); ok {
		t.Fatalf("two distinct nominal struct TypeIDs must not be compatible even with identical defn info")
	}
	if ok, _ := s.Compatible(nominal1, nominal1, nil); !ok {
		t.Fatalf("a nominal struct must be compatible with itself")
	}
}

func TestCompatibleEnumVariantAssignableToParentEnum(t *testing.T) {
	s := NewStore()
	in := ident.New()
	circle := in.Intern("Circle")
	enumID, variantIDs := s.NewEnum([]EnumVariantSpec{{TagName: circle}}, nil)

	if ok, _ := s.Compatible(enumID, variantIDs[0], nil); !ok {
		t.Fatalf("a variant must be assignable to its parent enum type")
	}

	otherEnumID, _ := s.NewEnum([]EnumVariantSpec{{TagName: circle}}, nil)
	if ok, _ := s.Compatible(otherEnumID, variantIDs[0], nil); ok {
		t.Fatalf("a variant of one enum must not be compatible with an unrelated enum")
	}
}

func TestCompatibleTypeVariableResolvesViaScope(t *testing.T) {
	s := NewStore()
	in := ident.New()
	tName := in.Intern("T")
	tVar := s.NewTypeVariable(tName, ids.NoScope)

	resolve := func(name ident.ID) (ids.TypeID, bool) {
		if name == tName {
			return I64, true
		}
		return 0, false
	}
	if ok, _ := s.Compatible(I64, tVar, resolve); !ok {
		t.Fatalf("type variable T bound to I64 in scope should satisfy expected I64")
	}
	if ok, _ := s.Compatible(I32, tVar, resolve); ok {
		t.Fatalf("type variable T bound to I64 should not satisfy expected I32")
	}
}

func TestSubstituteRewritesNestedTypeVariable(t *testing.T) {
	s := NewStore()
	in := ident.New()
	tName := in.Intern("T")
	a := in.Intern("a")
	tVar := s.NewTypeVariable(tName, ids.NoScope)

	pairField := StructField{Name: a, Type: tVar, Index: 0}
	pairType := s.NewStruct([]StructField{pairField}, nil)
	optionalOfPair := s.NewOptional(pairType)

	params := []GenericParam{{Name: tName, Var: tVar}}
	result := Substitute(s, optionalOfPair, params, []ids.TypeID{I32})

	resultOptional := s.Get(result).(*OptionalType)
	resultStruct := s.Get(resultOptional.Inner).(*StructType)
	if resultStruct.Fields[0].Type != I32 {
		t.Fatalf("expected substituted field type I32, got %d", resultStruct.Fields[0].Type)
	}

	// Original type must be untouched.
	originalStruct := s.Get(pairType).(*StructType)
	if originalStruct.Fields[0].Type != tVar {
		t.Fatalf("substitution must not mutate the original generic type")
	}
}

func TestSubstituteEnumPayload(t *testing.T) {
	s := NewStore()
	in := ident.New()
	tName := in.Intern("T")
	some := in.Intern("Some")
	none := in.Intern("None")
	tVar := s.NewTypeVariable(tName, ids.NoScope)

	enumID, _ := s.NewEnum([]EnumVariantSpec{
		{TagName: some, Payload: &tVar},
		{TagName: none},
	}, nil)

	params := []GenericParam{{Name: tName, Var: tVar}}
	result := Substitute(s, enumID, params, []ids.TypeID{BOOL})
	if result == enumID {
		t.Fatalf("substitution should have produced a distinct specialized enum")
	}
	specialized := s.Get(result).(*EnumType)
	if *specialized.Variants[0].Payload != BOOL {
		t.Fatalf("expected Some payload substituted to BOOL, got %d", *specialized.Variants[0].Payload)
	}
}

func TestSpecializationKeyStable(t *testing.T) {
	k1 := SpecializationKey([]ids.TypeID{1, 2, 3})
	k2 := SpecializationKey([]ids.TypeID{1, 2, 3})
	k3 := SpecializationKey([]ids.TypeID{1, 3, 2})
	if k1 != k2 {
		t.Fatalf("identical tuples must produce identical keys")
	}
	if k1 == k3 {
		t.Fatalf("different orderings must produce different keys")
	}
}

func TestTypeKindStringExhaustive(t *testing.T) {
	// Guards against silently adding a Kind without updating String().
	want := cmp.Diff([]string{
		"Unit", "Bool", "Char", "String", "Never", "Int", "Struct", "Array",
		"Optional", "Reference", "Enum", "EnumVariant", "TagInstance",
		"TypeVariable", "Generic", "OpaqueAlias",
	}, allKindStrings(), cmpopts.EquateEmpty())
	if want != "" {
		t.Fatalf("Kind.String() table drifted from the Kind enum:\n%s", want)
	}
}

func allKindStrings() []string {
	out := make([]string, 0, KindOpaqueAlias+1)
	for k := KindUnit; k <= KindOpaqueAlias; k++ {
		out = append(out, k.String())
	}
	return out
}

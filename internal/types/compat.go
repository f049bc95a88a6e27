package types

import (
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
)

// Resolver looks up the concrete binding, if any, of a type-variable name in
// the caller's current scope. It lets Compatible implement §4.3's "resolve
// to its binding in the current scope if distinct" rule without the types
// package importing the scope package.
type Resolver func(name ident.ID) (ids.TypeID, bool)

// Compatible reports whether a value of type actual may be used where
// expected is required ("expected accepts actual"), per §4.3. On failure it
// also returns a human-readable reason. resolve may be nil when no
// type-variable binding scope applies (e.g. comparing two fully concrete
// types).
func (s *Store) Compatible(expected, actual ids.TypeID, resolve Resolver) (bool, string) {
	expected = s.resolveTypeVar(expected, resolve)
	actual = s.resolveTypeVar(actual, resolve)

	if expected == actual {
		return true, ""
	}

	actualKind := s.Kind(actual)
	if actualKind == KindNever {
		// Divergent expressions satisfy any expected type.
		return true, ""
	}

	expectedKind := s.Kind(expected)

	switch expectedKind {
	case KindOptional:
		if actualKind != KindOptional {
			break
		}
		exp := s.Get(expected).(*OptionalType)
		act := s.Get(actual).(*OptionalType)
		return s.Compatible(exp.Inner, act.Inner, resolve)

	case KindReference:
		if actualKind != KindReference {
			break
		}
		exp := s.Get(expected).(*ReferenceType)
		act := s.Get(actual).(*ReferenceType)
		return s.Compatible(exp.Inner, act.Inner, resolve)

	case KindArray:
		if actualKind != KindArray {
			break
		}
		exp := s.Get(expected).(*ArrayType)
		act := s.Get(actual).(*ArrayType)
		return s.Compatible(exp.Element, act.Element, resolve)

	case KindStruct:
		if actualKind != KindStruct {
			break
		}
		exp := s.Get(expected).(*StructType)
		act := s.Get(actual).(*StructType)
		if !exp.IsAnonymous() || !act.IsAnonymous() {
			// Nominal structs only match by id, already ruled out above.
			return false, fmt.Sprintf("nominal struct types differ: expected %d, got %d", expected, actual)
		}
		if len(exp.Fields) != len(act.Fields) {
			return false, "anonymous structs have different field counts"
		}
		for i := range exp.Fields {
			if exp.Fields[i].Name != act.Fields[i].Name {
				return false, fmt.Sprintf("anonymous struct field %d name mismatch", i)
			}
			if ok, reason := s.Compatible(exp.Fields[i].Type, act.Fields[i].Type, resolve); !ok {
				return false, fmt.Sprintf("field %q: %s", exp.Fields[i].Name, reason)
			}
		}
		return true, ""

	case KindEnum:
		if actualKind != KindEnumVariant {
			break
		}
		variant := s.Get(actual).(*EnumVariantType)
		if variant.EnumType == expected {
			return true, ""
		}
		return false, "enum variant belongs to a different enum"
	}

	return false, fmt.Sprintf("expected %s but found %s", s.Describe(expected), s.Describe(actual))
}

// resolveTypeVar follows a TypeVariable to its scope binding, if resolve
// finds one and it differs from the variable itself. Non-TypeVariable ids
// pass through unchanged.
func (s *Store) resolveTypeVar(id ids.TypeID, resolve Resolver) ids.TypeID {
	if resolve == nil {
		return id
	}
	seen := map[ids.TypeID]bool{}
	for s.Kind(id) == KindTypeVariable && !seen[id] {
		seen[id] = true
		tv := s.Get(id).(*TypeVariableType)
		bound, ok := resolve(tv.Name)
		if !ok || bound == id {
			break
		}
		id = bound
	}
	return id
}

// Describe renders a type as a short human-readable string, for error
// messages. It is not meant to be a canonical or parseable form.
func (s *Store) Describe(id ids.TypeID) string {
	t := s.Get(id)
	switch v := t.(type) {
	case *UnitType:
		return "Unit"
	case *BoolType:
		return "Bool"
	case *CharType:
		return "Char"
	case *StringType:
		return "String"
	case *NeverType:
		return "Never"
	case *IntType:
		sign := "I"
		if !v.Signed {
			sign = "U"
		}
		return fmt.Sprintf("%s%d", sign, v.Width)
	case *StructType:
		if v.IsAnonymous() {
			return "struct{...}"
		}
		return "struct " + fmt.Sprintf("#%d", id)
	case *ArrayType:
		return "Array<" + s.Describe(v.Element) + ">"
	case *OptionalType:
		return s.Describe(v.Inner) + "?"
	case *ReferenceType:
		return s.Describe(v.Inner) + "*"
	case *EnumType:
		return fmt.Sprintf("enum#%d", id)
	case *EnumVariantType:
		return fmt.Sprintf("enum#%d.%d", v.EnumType, v.Index)
	case *TagInstanceType:
		return fmt.Sprintf(".tag#%d", v.Tag)
	case *TypeVariableType:
		return fmt.Sprintf("typevar#%d", v.Name)
	case *GenericType:
		return fmt.Sprintf("generic#%d", id)
	case *OpaqueAliasType:
		return fmt.Sprintf("opaque#%d", id)
	default:
		return "<?>"
	}
}

// IsAssignable is a convenience wrapper discarding the failure reason.
func (s *Store) IsAssignable(expected, actual ids.TypeID, resolve Resolver) bool {
	ok, _ := s.Compatible(expected, actual, resolve)
	return ok
}

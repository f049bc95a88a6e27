package types

import "github.com/kolemannix/bfl-sub000/internal/ids"

// ContainsTypeVariable reports whether typeID's structure still references a
// TypeVariable leaf anywhere — directly, or nested inside a struct field,
// enum payload, or optional/reference/array element. A generic call must not
// specialize while any of its inferred type arguments answers true here: the
// call sits inside another not-yet-specialized generic function, and the
// type variable will only become concrete once that outer function itself
// gets specialized (§4.5 "Generic specialization"). Mirrors the original
// typer's does_type_reference_type_variables, whose own definition was not
// among the retrieved original-source files — this walks the same leaf
// positions Substitute does, since a type variable can only ever occur
// somewhere Substitute would otherwise rewrite it.
func ContainsTypeVariable(s *Store, typeID ids.TypeID) bool {
	return containsTypeVariable(s, typeID, make(map[ids.TypeID]bool))
}

func containsTypeVariable(s *Store, typeID ids.TypeID, seen map[ids.TypeID]bool) bool {
	if v, ok := seen[typeID]; ok {
		return v
	}
	seen[typeID] = false // break cycles through recursive struct/enum definitions

	var result bool
	switch v := s.Get(typeID).(type) {
	case *TypeVariableType:
		result = true
	case *OptionalType:
		result = containsTypeVariable(s, v.Inner, seen)
	case *ReferenceType:
		result = containsTypeVariable(s, v.Inner, seen)
	case *ArrayType:
		result = containsTypeVariable(s, v.Element, seen)
	case *StructType:
		for _, f := range v.Fields {
			if containsTypeVariable(s, f.Type, seen) {
				result = true
				break
			}
		}
	case *EnumType:
		for _, variant := range v.Variants {
			if variant.Payload != nil && containsTypeVariable(s, *variant.Payload, seen) {
				result = true
				break
			}
		}
	case *EnumVariantType:
		if v.Payload != nil {
			result = containsTypeVariable(s, *v.Payload, seen)
		}
	default:
		result = false
	}

	seen[typeID] = result
	return result
}

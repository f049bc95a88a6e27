package types

import "github.com/kolemannix/bfl-sub000/internal/ids"

// Substitute rewrites typeID, replacing each leaf TypeVariable that matches
// one of params (by position) with the corresponding entry of args. It
// descends into struct field types, enum payload types, and
// optional/reference/array element positions, per §4.2's description of
// generic type application. Non-generic leaves (scalars, nominal types with
// no type-variable content) are returned unchanged without reallocating.
func Substitute(s *Store, typeID ids.TypeID, params []GenericParam, args []ids.TypeID) ids.TypeID {
	return substitute(s, typeID, params, args, make(map[ids.TypeID]ids.TypeID))
}

func substitute(s *Store, typeID ids.TypeID, params []GenericParam, args []ids.TypeID, memo map[ids.TypeID]ids.TypeID) ids.TypeID {
	if cached, ok := memo[typeID]; ok {
		return cached
	}

	t := s.Get(typeID)
	switch v := t.(type) {
	case *TypeVariableType:
		for i, p := range params {
			if p.Var == typeID || p.Name == v.Name {
				return args[i]
			}
		}
		return typeID

	case *OptionalType:
		inner := substitute(s, v.Inner, params, args, memo)
		if inner == v.Inner {
			return typeID
		}
		return s.NewOptional(inner)

	case *ReferenceType:
		inner := substitute(s, v.Inner, params, args, memo)
		if inner == v.Inner {
			return typeID
		}
		return s.NewReference(inner)

	case *ArrayType:
		elem := substitute(s, v.Element, params, args, memo)
		if elem == v.Element {
			return typeID
		}
		return s.NewArray(elem)

	case *StructType:
		changed := false
		fields := make([]StructField, len(v.Fields))
		for i, f := range v.Fields {
			nf := substitute(s, f.Type, params, args, memo)
			if nf != f.Type {
				changed = true
			}
			fields[i] = StructField{Name: f.Name, Type: nf, Index: f.Index}
		}
		if !changed {
			return typeID
		}
		result := s.NewStruct(fields, nil)
		memo[typeID] = result
		return result

	case *EnumType:
		changed := false
		specs := make([]EnumVariantSpec, len(v.Variants))
		for i, variant := range v.Variants {
			var payload *ids.TypeID
			if variant.Payload != nil {
				np := substitute(s, *variant.Payload, params, args, memo)
				if np != *variant.Payload {
					changed = true
				}
				payload = &np
			}
			specs[i] = EnumVariantSpec{TagName: variant.TagName, Payload: payload}
		}
		if !changed {
			return typeID
		}
		newID, _ := s.NewEnum(specs, nil)
		memo[typeID] = newID
		return newID

	case *EnumVariantType:
		newEnum := substitute(s, v.EnumType, params, args, memo)
		if newEnum == v.EnumType {
			return typeID
		}
		enumType := s.Get(newEnum).(*EnumType)
		if variant, ok := enumType.VariantByTag(v.TagName); ok {
			if variantID, ok := s.VariantTypeID(newEnum, variant.Index); ok {
				return variantID
			}
		}
		return typeID

	default:
		return typeID
	}
}

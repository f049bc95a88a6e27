// Package types interns and retrieves the type structures that the
// elaborator assigns to every expression, variable, and declaration. A type
// is identified by a dense ids.TypeID; the Store is the sole owner of the
// backing table, following the same append-only, sole-owner discipline the
// teacher compiler uses for its ClassType/RecordType registries, but keyed
// by handle rather than by lowercased name (bfl is case-sensitive, and the
// elaborator needs structural/generic identity the teacher's name-keyed
// maps don't model).
package types

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
)

// Kind tags which variant a Type value holds. Every switch over Kind in
// this module is written exhaustively; adding a new Kind without updating
// every such switch is a bug, not a case to silently fall through.
type Kind int

const (
	KindUnit Kind = iota
	KindBool
	KindChar
	KindString
	KindNever
	KindInt
	KindStruct
	KindArray
	KindOptional
	KindReference
	KindEnum
	KindEnumVariant
	KindTagInstance
	KindTypeVariable
	KindGeneric
	KindOpaqueAlias
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindBool:
		return "Bool"
	case KindChar:
		return "Char"
	case KindString:
		return "String"
	case KindNever:
		return "Never"
	case KindInt:
		return "Int"
	case KindStruct:
		return "Struct"
	case KindArray:
		return "Array"
	case KindOptional:
		return "Optional"
	case KindReference:
		return "Reference"
	case KindEnum:
		return "Enum"
	case KindEnumVariant:
		return "EnumVariant"
	case KindTagInstance:
		return "TagInstance"
	case KindTypeVariable:
		return "TypeVariable"
	case KindGeneric:
		return "Generic"
	case KindOpaqueAlias:
		return "OpaqueAlias"
	default:
		return "<unknown kind>"
	}
}

// Type is the closed tagged union of every type variant in §3. Every
// concrete variant is a pointer type so that a Generic's specialization
// map (or an Enum's variant back-references) can be mutated in place after
// the Type has been stored.
type Type interface {
	Kind() Kind
	isType()
}

// DefnInfo carries the defining name/scope of a nominal type, plus its
// optional companion namespace and generic-parent back-pointer.
type DefnInfo struct {
	Name          ident.ID
	Scope         ids.ScopeID
	Companion     *ids.NamespaceID
	GenericParent *ids.TypeID
}

// ---- Scalars ----

type UnitType struct{}
type BoolType struct{}
type CharType struct{}
type StringType struct{}
type NeverType struct{}

func (*UnitType) Kind() Kind   { return KindUnit }
func (*UnitType) isType()      {}
func (*BoolType) Kind() Kind   { return KindBool }
func (*BoolType) isType()      {}
func (*CharType) Kind() Kind   { return KindChar }
func (*CharType) isType()      {}
func (*StringType) Kind() Kind { return KindString }
func (*StringType) isType()    {}
func (*NeverType) Kind() Kind  { return KindNever }
func (*NeverType) isType()     {}

// IntType is one of the eight fixed-width integer scalars.
type IntType struct {
	Width  int // 8, 16, 32, or 64
	Signed bool
}

func (*IntType) Kind() Kind { return KindInt }
func (*IntType) isType()    {}

// ---- Structural/compound ----

// StructField is one ordered field of a struct type.
type StructField struct {
	Name  ident.ID
	Type  ids.TypeID
	Index int
}

// StructType is anonymous iff Defn is nil.
type StructType struct {
	Fields []StructField
	Defn   *DefnInfo
}

func (*StructType) Kind() Kind { return KindStruct }
func (*StructType) isType()    {}

// IsAnonymous reports whether this struct has no defining declaration.
func (s *StructType) IsAnonymous() bool { return s.Defn == nil }

// FieldByName returns the field with the given name, and whether it exists.
func (s *StructType) FieldByName(name ident.ID) (StructField, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return StructField{}, false
}

type ArrayType struct {
	Element ids.TypeID
}

func (*ArrayType) Kind() Kind { return KindArray }
func (*ArrayType) isType()    {}

type OptionalType struct {
	Inner ids.TypeID
}

func (*OptionalType) Kind() Kind { return KindOptional }
func (*OptionalType) isType()    {}

type ReferenceType struct {
	Inner ids.TypeID
}

func (*ReferenceType) Kind() Kind { return KindReference }
func (*ReferenceType) isType()    {}

// ---- Enums ----

// TypedEnumVariant is one tag of an enum, carrying a back-reference to its
// parent enum's TypeID (set once the enum itself has been allocated).
type TypedEnumVariant struct {
	TagName  ident.ID
	Index    int
	Payload  *ids.TypeID
	EnumType ids.TypeID
}

type EnumType struct {
	Variants []TypedEnumVariant
	Defn     *DefnInfo
}

func (*EnumType) Kind() Kind { return KindEnum }
func (*EnumType) isType()    {}

// VariantByTag looks up a variant by tag name.
func (e *EnumType) VariantByTag(tag ident.ID) (TypedEnumVariant, bool) {
	for _, v := range e.Variants {
		if v.TagName == tag {
			return v, true
		}
	}
	return TypedEnumVariant{}, false
}

// EnumVariantType is a subtype of a specific enum, usable at a call site or
// as a coercion target.
type EnumVariantType struct {
	EnumType ids.TypeID
	TagName  ident.ID
	Index    int
	Payload  *ids.TypeID
}

func (*EnumVariantType) Kind() Kind { return KindEnumVariant }
func (*EnumVariantType) isType()    {}

// TagInstanceType is the type of a bare tag literal before coercion.
type TagInstanceType struct {
	Tag ident.ID
}

func (*TagInstanceType) Kind() Kind { return KindTagInstance }
func (*TagInstanceType) isType()    {}

// ---- Generics ----

// TypeVariableType is a generic parameter binding, scoped to the generic
// definition or specialization that introduced it.
type TypeVariableType struct {
	Name  ident.ID
	Scope ids.ScopeID
}

func (*TypeVariableType) Kind() Kind { return KindTypeVariable }
func (*TypeVariableType) isType()    {}

// GenericParam names one type parameter of a Generic, paired with the
// TypeVariable TypeID bound to it.
type GenericParam struct {
	Name ident.ID
	Var  ids.TypeID
}

// GenericType is the schematic form of a user type, closed over a set of
// type variables, memoizing each concrete instantiation it produces.
type GenericType struct {
	Params          []GenericParam
	Inner           ids.TypeID
	Defn            *DefnInfo
	Specializations map[string]ids.TypeID
}

func (*GenericType) Kind() Kind { return KindGeneric }
func (*GenericType) isType()    {}

// OpaqueAliasType is a nominal wrapper around Aliasee. The elaborator's
// coerce converts between it and its aliasee in any scope where the two are
// compatible; it does not check that the conversion happens inside the
// type's companion namespace.
type OpaqueAliasType struct {
	Aliasee ids.TypeID
	Defn    *DefnInfo
}

func (*OpaqueAliasType) Kind() Kind { return KindOpaqueAlias }
func (*OpaqueAliasType) isType()    {}

// Package ast holds the parsed syntax tree the elaborator consumes. The
// lexer and parser that would produce it are out of scope (§1); this
// package exists purely to give the elaborator and its tests something
// concrete to walk.
package ast

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// TypeExpr is any parsed type-syntax node, per §4.2. Every concrete
// variant below also implements the unexported marker method so that only
// this package's node types can satisfy the interface.
type TypeExpr interface {
	isTypeExpr()
	SourceSpan() source.Span
}

type typeExprBase struct {
	Span source.Span
}

func (typeExprBase) isTypeExpr() {}
func (b typeExprBase) SourceSpan() source.Span { return b.Span }

// PrimitiveNameType is a bare name that must resolve to a fixed built-in
// (Unit, Bool, Char, String) or to a user type by lookup.
type PrimitiveNameType struct {
	typeExprBase
	Name ident.ID
}

// IntWidthType is an integer width/sign literal type, e.g. `I32`/`U8`.
type IntWidthType struct {
	typeExprBase
	Width  int
	Signed bool
}

// StructFieldType is one field of a parsed struct-literal type.
type StructFieldType struct {
	Name ident.ID
	Type TypeExpr
}

// StructLiteralType is an inline `{ x: T, y: U }` struct type.
type StructLiteralType struct {
	typeExprBase
	Fields []StructFieldType
}

// NameLookupType refers to a previously defined type by name.
type NameLookupType struct {
	typeExprBase
	Name ident.ID
}

// TagLiteralType is a bare `.Name` used in type position.
type TagLiteralType struct {
	typeExprBase
	Tag ident.ID
}

// ApplicationType is `Base<Arg1, …, ArgN>`; Base `Array` with one argument
// is the special built-in array constructor, otherwise Base must resolve
// to a Generic.
type ApplicationType struct {
	typeExprBase
	Base TypeExpr
	Args []TypeExpr
}

// OptionalPostfixType is `T?`.
type OptionalPostfixType struct {
	typeExprBase
	Inner TypeExpr
}

// ReferencePostfixType is `T*`.
type ReferencePostfixType struct {
	typeExprBase
	Inner TypeExpr
}

// EnumVariantLiteral is one variant of a parsed enum-literal type.
type EnumVariantLiteral struct {
	Tag     ident.ID
	Payload TypeExpr // nil if the variant carries no payload
}

// EnumLiteralType is an inline `enum { .A(Int), .B }` type.
type EnumLiteralType struct {
	typeExprBase
	Variants []EnumVariantLiteral
}

// MemberType is `E.V`, accessing a variant type-id from an enum type E.
type MemberType struct {
	typeExprBase
	Base   TypeExpr
	Member ident.ID
}

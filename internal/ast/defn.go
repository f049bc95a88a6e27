package ast

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// FuncParam is one parameter of a parsed function signature.
type FuncParam struct {
	Name ident.ID
	Type TypeExpr
}

// FuncDefn is a parsed function: a user function, an ability signature
// (Body nil, no linkage), or an ability-impl function.
type FuncDefn struct {
	ParsedID      int
	Name          ident.ID
	GenericParams []ident.ID
	Params        []FuncParam
	ReturnType    TypeExpr
	Body          *Block // nil for external/intrinsic/ability-signature
	External      bool
	Intrinsic     bool
	IntrinsicName string
	MethodStyleSelf bool
	Span          source.Span
}

// TypeDefn is a parsed type definition.
type TypeDefn struct {
	ParsedID int
	Name     ident.ID
	Params   []ident.ID // generic type-variable parameters
	RHS      TypeExpr
	Opaque   bool
	Alias    bool
	Span     source.Span
}

// ConstDefn is a parsed top-level constant.
type ConstDefn struct {
	ParsedID int
	Name     ident.ID
	Type     TypeExpr // nil if inferred from Value
	Value    Expr
	Span     source.Span
}

// AbilityDefn is a parsed ability (trait) declaration: a set of function
// signatures over an implicit `Self` type variable.
type AbilityDefn struct {
	ParsedID  int
	Name      ident.ID
	Functions []*FuncDefn
	Span      source.Span
}

// ImplDefn is a parsed ability implementation for a concrete target type.
type ImplDefn struct {
	ParsedID  int
	Ability   ident.ID
	Target    TypeExpr
	Functions []*FuncDefn
	Span      source.Span
}

// NamespaceDefn is a parsed namespace: a container of nested namespaces
// and definitions. The root namespace has an empty Name.
type NamespaceDefn struct {
	ParsedID   int
	Name       ident.ID
	Namespaces []*NamespaceDefn
	Types      []*TypeDefn
	Functions  []*FuncDefn
	Constants  []*ConstDefn
	Abilities  []*AbilityDefn
	Impls      []*ImplDefn
	Span       source.Span
}

// Program is the root of a parsed module.
type Program struct {
	Root *NamespaceDefn
}

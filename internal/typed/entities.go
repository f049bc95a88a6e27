// Package typed holds every append-only entity table the elaborator
// produces — variables, functions, namespaces, abilities, ability impls,
// constants — plus the typed IR and the TypedModule that owns them all.
package typed

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/source"
)

// Variable is an append-only record: name, type, mutability, owning scope.
// Compiler-synthesized bindings (match scrutinees, for-loop index vars, …)
// are named "__<name>_<scope-id>" by their creator so they cannot collide
// with a user name while staying referenceable from generated IR.
type Variable struct {
	Name     ident.ID
	Type     ids.TypeID
	Mutable  bool
	Scope    ids.ScopeID
	Span     source.Span
}

// Linkage describes where a function's body (if any) comes from.
type Linkage int

const (
	LinkageStandard Linkage = iota
	LinkageExternal
	LinkageIntrinsic
)

// FunctionMeta tags what role a function entity plays, per §3 "Functions".
type FunctionMeta int

const (
	MetaUserFunction FunctionMeta = iota
	MetaGenericSpecialization
	MetaAbilityDefnSignature
	MetaAbilityImplFunction
)

// Param is one parameter of a Function's signature.
type Param struct {
	Name  ident.ID
	Var   ids.VariableID
	Index int
	Type  ids.TypeID
}

// GenericParam is one type-variable parameter of a generic function.
type GenericParam struct {
	Name ident.ID
	Var  ids.TypeID
}

// Function is append-only. Non-generic, fully elaborated functions carry a
// non-nil Body; external and intrinsic functions never do.
type Function struct {
	Name          ident.ID
	Scope         ids.ScopeID
	ReturnType    ids.TypeID
	Params        []Param
	GenericParams []GenericParam
	Body          *Block
	Linkage       Linkage
	Intrinsic     IntrinsicTag
	Specializations []ids.FunctionID
	Meta          FunctionMeta
	// GenericParent is the generic function this is a specialization of.
	// Only meaningful when Meta == MetaGenericSpecialization.
	GenericParent ids.FunctionID
	// TypeArgs are the concrete type arguments this specialization was
	// produced for, parallel to GenericParent's GenericParams.
	TypeArgs []ids.TypeID
	MangledName string
	Span        source.Span
}

func (f *Function) IsGeneric() bool { return len(f.GenericParams) > 0 }

// Namespace is append-only. A companion namespace (same name as a type)
// has CompanionType set once the type-eval phase wires it up.
type Namespace struct {
	Name          ident.ID
	Scope         ids.ScopeID
	Parent        ids.NamespaceID
	HasParent     bool
	Children      []ids.NamespaceID
	CompanionType *ids.TypeID
}

// AbilityFn is one signature inside an Ability definition.
type AbilityFn struct {
	Name     ident.ID
	Function ids.FunctionID
}

// Ability is append-only. 0 and 1 are reserved for Equals and Bitwise.
type Ability struct {
	Name      ident.ID
	Functions []AbilityFn
}

// AbilityImpl is append-only: one concrete FunctionId per Ability.Functions
// entry, in the same order.
type AbilityImpl struct {
	Ability   ids.AbilityID
	Target    ids.TypeID
	Functions []ids.FunctionID
}

// Constant is append-only: a top-level named value.
type Constant struct {
	Name  ident.ID
	Type  ids.TypeID
	Value Expr
	Span  source.Span
}

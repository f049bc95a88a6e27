package typed

import (
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// TyperError is one accumulated diagnostic, per §6 "Output".
type TyperError struct {
	Message string
	Span    source.Span
}

// TypedModule is the sole mutable owner of every table the elaborator
// populates: the type store, the scope tree, and the append-only variable,
// function, namespace, ability, ability-impl, and constant tables, plus the
// dense parsed-id to elaborated-id maps and the accumulated error list.
//
// Everything here is created append-only; nothing is ever destroyed during
// elaboration (§5 "Lifecycle").
type TypedModule struct {
	Idents *ident.Interner
	Types  *types.Store
	Scopes *scope.Tree

	Variables    []Variable
	Functions    []Function
	Namespaces   []Namespace
	Abilities    []Ability
	AbilityImpls []AbilityImpl
	Constants    []Constant

	// FuncByParsedID, NamespaceByParsedID, and ImplByParsedID are populated
	// during the declaration phase and consumed during the body phase, per
	// §9 "Cross-referenced parsed-to-typed maps".
	FuncByParsedID      map[int]ids.FunctionID
	NamespaceByParsedID map[int]ids.NamespaceID
	ImplByParsedID      map[int]ids.AbilityImplID

	RootNamespace ids.NamespaceID
	RootScope     ids.ScopeID

	Errors []TyperError
}

// NewModule creates an empty TypedModule with the thirteen reserved types
// installed and nothing else yet declared; the scope tree starts empty, and
// the root scope is created by the elaborator's namespace phase.
func NewModule(idents *ident.Interner) *TypedModule {
	m := &TypedModule{
		Idents:              idents,
		Types:               types.NewStore(),
		Scopes:              scope.NewTree(),
		FuncByParsedID:      make(map[int]ids.FunctionID),
		NamespaceByParsedID: make(map[int]ids.NamespaceID),
		ImplByParsedID:      make(map[int]ids.AbilityImplID),
	}
	return m
}

// Succeeded reports whether elaboration produced zero errors. The error
// list is non-empty iff the return status is failure, per §8 property 8.
func (m *TypedModule) Succeeded() bool { return len(m.Errors) == 0 }

// AddError accumulates a diagnostic; elaboration continues past it.
func (m *TypedModule) AddError(message string, span source.Span) {
	m.Errors = append(m.Errors, TyperError{Message: message, Span: span})
}

// --- append-only entity creation ---

func (m *TypedModule) NewVariable(v Variable) ids.VariableID {
	id := ids.VariableID(len(m.Variables))
	m.Variables = append(m.Variables, v)
	return id
}

func (m *TypedModule) Variable(id ids.VariableID) *Variable {
	return &m.Variables[id]
}

func (m *TypedModule) NewFunction(f Function) ids.FunctionID {
	id := ids.FunctionID(len(m.Functions))
	m.Functions = append(m.Functions, f)
	return id
}

func (m *TypedModule) Function(id ids.FunctionID) *Function {
	return &m.Functions[id]
}

func (m *TypedModule) NewNamespace(n Namespace) ids.NamespaceID {
	id := ids.NamespaceID(len(m.Namespaces))
	m.Namespaces = append(m.Namespaces, n)
	return id
}

func (m *TypedModule) Namespace(id ids.NamespaceID) *Namespace {
	return &m.Namespaces[id]
}

func (m *TypedModule) NewAbility(a Ability) ids.AbilityID {
	id := ids.AbilityID(len(m.Abilities))
	m.Abilities = append(m.Abilities, a)
	return id
}

func (m *TypedModule) Ability(id ids.AbilityID) *Ability {
	return &m.Abilities[id]
}

func (m *TypedModule) NewAbilityImpl(impl AbilityImpl) ids.AbilityImplID {
	id := ids.AbilityImplID(len(m.AbilityImpls))
	m.AbilityImpls = append(m.AbilityImpls, impl)
	return id
}

func (m *TypedModule) AbilityImpl(id ids.AbilityImplID) *AbilityImpl {
	return &m.AbilityImpls[id]
}

func (m *TypedModule) NewConstant(c Constant) ids.ConstantID {
	id := ids.ConstantID(len(m.Constants))
	m.Constants = append(m.Constants, c)
	return id
}

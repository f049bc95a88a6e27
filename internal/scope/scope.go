// Package scope implements the lexical scope tree: per-scope symbol tables
// with parent traversal and namespace-chain lookups, per §4.1.
package scope

import (
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
)

// Kind tags what kind of lexical construct a Scope was opened for.
type Kind int

const (
	KindFunction Kind = iota
	KindBlock
	KindNamespace
	KindWhileBody
	KindForExpr
	KindMatchArm
	KindTypeDefn
	KindAbilityDefn
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindBlock:
		return "block"
	case KindNamespace:
		return "namespace"
	case KindWhileBody:
		return "while-body"
	case KindForExpr:
		return "for-expr"
	case KindMatchArm:
		return "match-arm"
	case KindTypeDefn:
		return "type-defn"
	case KindAbilityDefn:
		return "ability-defn"
	default:
		return "<unknown scope kind>"
	}
}

// Scope is one lexical scope: five independent symbol maps plus the set of
// type-defn names pending evaluation, an optional parent, a kind tag, and an
// optional debug name.
type Scope struct {
	kind      Kind
	debugName string
	parent    *ids.ScopeID

	variables  map[ident.ID]ids.VariableID
	functions  map[ident.ID]ids.FunctionID
	namespaces map[ident.ID]ids.NamespaceID
	types      map[ident.ID]ids.TypeID
	abilities  map[ident.ID]ids.AbilityID
	pending    map[ident.ID]bool
}

func newScope(kind Kind, debugName string, parent *ids.ScopeID) *Scope {
	return &Scope{
		kind:       kind,
		debugName:  debugName,
		parent:     parent,
		variables:  make(map[ident.ID]ids.VariableID),
		functions:  make(map[ident.ID]ids.FunctionID),
		namespaces: make(map[ident.ID]ids.NamespaceID),
		types:      make(map[ident.ID]ids.TypeID),
		abilities:  make(map[ident.ID]ids.AbilityID),
		pending:    make(map[ident.ID]bool),
	}
}

// Tree owns every Scope allocated during elaboration. Once built the tree
// is immutable in shape (no scope is ever reparented or removed); only the
// per-scope symbol maps are mutated, during the phase that populates them.
type Tree struct {
	scopes []*Scope
}

// NewTree creates an empty scope tree.
func NewTree() *Tree {
	return &Tree{}
}

func (t *Tree) alloc(s *Scope) ids.ScopeID {
	id := ids.ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, s)
	return id
}

// NewRoot creates the tree's root scope (no parent). The root namespace's
// scope is the tree root, per §3 "Scopes".
func (t *Tree) NewRoot(kind Kind, debugName string) ids.ScopeID {
	return t.alloc(newScope(kind, debugName, nil))
}

// NewChild creates a new scope whose parent is parent.
func (t *Tree) NewChild(parent ids.ScopeID, kind Kind, debugName string) ids.ScopeID {
	p := parent
	return t.alloc(newScope(kind, debugName, &p))
}

// NewSibling creates a new scope with the same parent as sibling, without
// being a child of sibling itself. Used by the generic specializer, which
// builds each specialization's scope as a sibling of the generic function's
// defining scope rather than nesting it underneath (§4.5).
func (t *Tree) NewSibling(sibling ids.ScopeID, kind Kind, debugName string) ids.ScopeID {
	s := t.get(sibling)
	return t.alloc(newScope(kind, debugName, s.parent))
}

func (t *Tree) get(id ids.ScopeID) *Scope {
	if int(id) >= len(t.scopes) {
		panic(fmt.Sprintf("scope: unknown ScopeID %d", id))
	}
	return t.scopes[id]
}

// Parent returns the parent scope, if any.
func (t *Tree) Parent(id ids.ScopeID) (ids.ScopeID, bool) {
	s := t.get(id)
	if s.parent == nil {
		return 0, false
	}
	return *s.parent, true
}

// Kind returns the scope-kind tag.
func (t *Tree) Kind(id ids.ScopeID) Kind {
	return t.get(id).kind
}

// DebugName returns the scope's optional debug name.
func (t *Tree) DebugName(id ids.ScopeID) string {
	return t.get(id).debugName
}

// ---- Variables: idempotent overwrite (shadowing semantics) ----

// AddVariable installs name in scope id, overwriting any existing binding —
// this is how a `let` rebinding an outer name shadows it within the scope.
func (t *Tree) AddVariable(id ids.ScopeID, name ident.ID, varID ids.VariableID) {
	t.get(id).variables[name] = varID
}

// LookupVariable is a strict, single-scope lookup.
func (t *Tree) LookupVariable(id ids.ScopeID, name ident.ID) (ids.VariableID, bool) {
	v, ok := t.get(id).variables[name]
	return v, ok
}

// FindVariable recurses up the parent chain until a binding is found.
func (t *Tree) FindVariable(id ids.ScopeID, name ident.ID) (ids.VariableID, bool) {
	for {
		s := t.get(id)
		if v, ok := s.variables[name]; ok {
			return v, true
		}
		if s.parent == nil {
			return 0, false
		}
		id = *s.parent
	}
}

// ---- Functions, namespaces, types, abilities: reject duplicates ----

// nameTakenError is returned by Add{Function,Namespace,Type,Ability} when
// the name already exists in that scope.
type nameTakenError struct {
	name ident.ID
}

func (e *nameTakenError) Error() string {
	return fmt.Sprintf("name already defined in this scope (identifier #%d)", e.name)
}

// AddFunction installs a function binding, or reports "name taken".
func (t *Tree) AddFunction(id ids.ScopeID, name ident.ID, fnID ids.FunctionID) error {
	s := t.get(id)
	if _, exists := s.functions[name]; exists {
		return &nameTakenError{name: name}
	}
	s.functions[name] = fnID
	return nil
}

// LookupFunction is a strict, single-scope lookup.
func (t *Tree) LookupFunction(id ids.ScopeID, name ident.ID) (ids.FunctionID, bool) {
	v, ok := t.get(id).functions[name]
	return v, ok
}

// FindFunction recurses up the parent chain.
func (t *Tree) FindFunction(id ids.ScopeID, name ident.ID) (ids.FunctionID, bool) {
	for {
		s := t.get(id)
		if v, ok := s.functions[name]; ok {
			return v, true
		}
		if s.parent == nil {
			return 0, false
		}
		id = *s.parent
	}
}

// AddNamespace installs a namespace binding, or reports "name taken".
func (t *Tree) AddNamespace(id ids.ScopeID, name ident.ID, nsID ids.NamespaceID) error {
	s := t.get(id)
	if _, exists := s.namespaces[name]; exists {
		return &nameTakenError{name: name}
	}
	s.namespaces[name] = nsID
	return nil
}

// LookupNamespace is a strict, single-scope lookup — the form used for
// every component of a qualified name after the first (§4.1).
func (t *Tree) LookupNamespace(id ids.ScopeID, name ident.ID) (ids.NamespaceID, bool) {
	v, ok := t.get(id).namespaces[name]
	return v, ok
}

// FindNamespace recurses up the parent chain — the form used for the first
// component of a qualified name.
func (t *Tree) FindNamespace(id ids.ScopeID, name ident.ID) (ids.NamespaceID, bool) {
	for {
		s := t.get(id)
		if v, ok := s.namespaces[name]; ok {
			return v, true
		}
		if s.parent == nil {
			return 0, false
		}
		id = *s.parent
	}
}

// AddType installs a type binding, or reports "name taken".
func (t *Tree) AddType(id ids.ScopeID, name ident.ID, typeID ids.TypeID) error {
	s := t.get(id)
	if _, exists := s.types[name]; exists {
		return &nameTakenError{name: name}
	}
	s.types[name] = typeID
	delete(s.pending, name)
	return nil
}

// LookupType is a strict, single-scope lookup.
func (t *Tree) LookupType(id ids.ScopeID, name ident.ID) (ids.TypeID, bool) {
	v, ok := t.get(id).types[name]
	return v, ok
}

// FindType recurses up the parent chain.
func (t *Tree) FindType(id ids.ScopeID, name ident.ID) (ids.TypeID, bool) {
	for {
		s := t.get(id)
		if v, ok := s.types[name]; ok {
			return v, true
		}
		if s.parent == nil {
			return 0, false
		}
		id = *s.parent
	}
}

// AddAbility installs an ability binding, or reports "name taken".
func (t *Tree) AddAbility(id ids.ScopeID, name ident.ID, abilityID ids.AbilityID) error {
	s := t.get(id)
	if _, exists := s.abilities[name]; exists {
		return &nameTakenError{name: name}
	}
	s.abilities[name] = abilityID
	return nil
}

// LookupAbility is a strict, single-scope lookup.
func (t *Tree) LookupAbility(id ids.ScopeID, name ident.ID) (ids.AbilityID, bool) {
	v, ok := t.get(id).abilities[name]
	return v, ok
}

// FindAbility recurses up the parent chain.
func (t *Tree) FindAbility(id ids.ScopeID, name ident.ID) (ids.AbilityID, bool) {
	for {
		s := t.get(id)
		if v, ok := s.abilities[name]; ok {
			return v, true
		}
		if s.parent == nil {
			return 0, false
		}
		id = *s.parent
	}
}

// ---- Pending type-defn names (forward references) ----

// MarkPending records that name is a type definition whose body has not
// yet been evaluated, visible in scope id.
func (t *Tree) MarkPending(id ids.ScopeID, name ident.ID) {
	t.get(id).pending[name] = true
}

// FindPending recurses up the parent chain looking for a pending type-defn
// name, per the type evaluator's forward-reference rule (§4.2).
func (t *Tree) FindPending(id ids.ScopeID, name ident.ID) bool {
	for {
		s := t.get(id)
		if s.pending[name] {
			return true
		}
		if s.parent == nil {
			return false
		}
		id = *s.parent
	}
}

// Package elaborate implements the multi-phase semantic elaborator: the
// top-level driver (§2), the type evaluator (§4.2), the expression
// elaborator (§4.4), call resolution and generic specialization (§4.5),
// pattern lowering (§4.6), for-loop desugaring (§4.7), and ability
// resolution (§4.8). It is grounded throughout on the teacher compiler's
// multi-pass analyzer (internal/semantic/pass.go, passes/*.go), generalized
// from DWScript's case-insensitive single-pass resolution into bfl's
// case-sensitive five-phase scheme.
package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// nsInfo tracks what a parsed namespace node was assigned during phase 1,
// so later phases can recurse over the same ast.Program structure without
// redoing the scope/namespace bookkeeping.
type nsInfo struct {
	scope     ids.ScopeID
	namespace ids.NamespaceID
}

// Elaborator holds the transient state of one elaboration run. Module is
// the sole piece of state that outlives the run; everything else here is
// scratch space the driver discards once Elaborate returns.
type Elaborator struct {
	Module *typed.TypedModule
	Files  *source.Files

	nsByDefn map[*ast.NamespaceDefn]nsInfo
	// pendingTypeDefns maps a scope to the TypeDefn nodes whose names were
	// registered as pending in it, so a forward reference found via
	// scope.Tree.FindPending can be resolved back to syntax and evaluated
	// eagerly (§4.2 "Name lookup").
	pendingTypeDefns map[ids.ScopeID]map[ident.ID]*ast.TypeDefn

	equalsAbility  ids.AbilityID
	bitwiseAbility ids.AbilityID

	// builtinMethods dispatches `recv.method(...)` for the primitive kinds
	// (String, Array, …) that have no companion namespace of their own,
	// populated by installBuiltinMethods (§4.5 "method-style call
	// resolution chain").
	builtinMethods map[types.Kind]map[string]ids.FunctionID

	// specializations memoizes generic function specializations by
	// "<genericFnID>:<argsKey>", per §4.5 "Generic specialization".
	specializations map[string]ids.FunctionID

	// fnDefnByID recovers the parsed body for a predeclared function, so
	// the body phase (and generic specialization) can elaborate it lazily
	// against the right scope.
	fnDefnByID map[ids.FunctionID]*ast.FuncDefn
}

// New creates an Elaborator over a fresh TypedModule using idents as the
// shared identifier interner (owned by the parser, read-only here).
func New(idents *ident.Interner, files *source.Files) *Elaborator {
	return &Elaborator{
		Module:           typed.NewModule(idents),
		Files:            files,
		nsByDefn:         make(map[*ast.NamespaceDefn]nsInfo),
		pendingTypeDefns: make(map[ids.ScopeID]map[ident.ID]*ast.TypeDefn),
		builtinMethods:   make(map[types.Kind]map[string]ids.FunctionID),
		specializations:  make(map[string]ids.FunctionID),
		fnDefnByID:       make(map[ids.FunctionID]*ast.FuncDefn),
	}
}

// Elaborate runs the five phases over prog and returns the populated
// TypedModule. The driver halts between phases whenever the prior phase
// accumulated any errors (§5 "Cancellation is trivial").
func (e *Elaborator) Elaborate(prog *ast.Program) *typed.TypedModule {
	errsBefore := len(e.Module.Errors)
	e.namespacePhase(prog.Root, nil)
	if len(e.Module.Errors) > errsBefore {
		return e.Module
	}

	// Installed once the root scope exists, before any user declaration is
	// processed, so AbilityID 0/1 are always Equals/Bitwise (§6).
	e.installBuiltinAbilities()
	e.installBuiltinFunctions()
	e.installBuiltinMethods()

	errsBefore = len(e.Module.Errors)
	e.typeDiscoveryPhase(prog.Root)
	if len(e.Module.Errors) > errsBefore {
		return e.Module
	}

	errsBefore = len(e.Module.Errors)
	e.typeEvalPhase(prog.Root)
	if len(e.Module.Errors) > errsBefore {
		return e.Module
	}

	errsBefore = len(e.Module.Errors)
	e.declarationPhase(prog.Root)
	if len(e.Module.Errors) > errsBefore {
		return e.Module
	}

	e.bodyPhase(prog.Root)
	return e.Module
}

// namespacePhase creates a Scope and Namespace record for every namespace
// node and wires parent/child links, per §2 phase 1.
func (e *Elaborator) namespacePhase(n *ast.NamespaceDefn, parent *nsInfo) {
	var scopeID ids.ScopeID
	var parentNS ids.NamespaceID
	hasParent := parent != nil
	if parent == nil {
		scopeID = e.Module.Scopes.NewRoot(scope.KindNamespace, "root")
	} else {
		scopeID = e.Module.Scopes.NewChild(parent.scope, scope.KindNamespace, e.name(n.Name))
		parentNS = parent.namespace
	}

	nsID := e.Module.NewNamespace(typed.Namespace{
		Name:      n.Name,
		Scope:     scopeID,
		Parent:    parentNS,
		HasParent: hasParent,
	})
	if hasParent {
		p := e.Module.Namespace(parentNS)
		p.Children = append(p.Children, nsID)
		if err := e.Module.Scopes.AddNamespace(parent.scope, n.Name, nsID); err != nil {
			e.Module.AddError(err.Error(), n.Span)
		}
	} else {
		e.Module.RootNamespace = nsID
		e.Module.RootScope = scopeID
	}
	e.Module.NamespaceByParsedID[n.ParsedID] = nsID

	info := nsInfo{scope: scopeID, namespace: nsID}
	e.nsByDefn[n] = info
	for _, child := range n.Namespaces {
		e.namespacePhase(child, &info)
	}
}

func (e *Elaborator) name(id ident.ID) string {
	if id == ident.Invalid {
		return ""
	}
	return e.Module.Idents.Name(id)
}

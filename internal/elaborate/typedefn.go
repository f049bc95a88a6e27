package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
)

// typeDiscoveryPhase registers every type definition's name as pending in
// its owning scope, so later references (including forward ones) resolve,
// per §2 phase 2.
func (e *Elaborator) typeDiscoveryPhase(n *ast.NamespaceDefn) {
	info := e.nsByDefn[n]
	if e.pendingTypeDefns[info.scope] == nil {
		e.pendingTypeDefns[info.scope] = make(map[ident.ID]*ast.TypeDefn)
	}
	for _, td := range n.Types {
		e.Module.Scopes.MarkPending(info.scope, td.Name)
		e.pendingTypeDefns[info.scope][td.Name] = td
	}
	for _, child := range n.Namespaces {
		e.typeDiscoveryPhase(child)
	}
}

package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/typed"
)

// bodyPhase elaborates every function and ability-impl function body
// predeclared during the declaration phase, per §2 phase 5. A generic
// function's template body is elaborated here too, exactly once, with its
// type parameters bound to the TypeVariables predeclareFunction installed
// in its scope — mirroring eval_definition's unconditional eval_function_body
// call for every ParsedId::Function in the original typer. specialize (§4.5)
// re-elaborates the body again per concrete instantiation, against a sibling
// scope with the type variables substituted for concrete types.
func (e *Elaborator) bodyPhase(n *ast.NamespaceDefn) {
	for _, fd := range n.Functions {
		if fnID, ok := e.Module.FuncByParsedID[fd.ParsedID]; ok {
			e.elaborateFunctionBody(fnID)
		}
	}
	for _, impl := range n.Impls {
		if implID, ok := e.Module.ImplByParsedID[impl.ParsedID]; ok {
			for _, fnID := range e.Module.AbilityImpl(implID).Functions {
				e.elaborateFunctionBody(fnID)
			}
		}
	}
	for _, child := range n.Namespaces {
		e.bodyPhase(child)
	}
}

// elaborateFunctionBody elaborates fn's parsed body against its declared
// return type and installs the result, skipping external/intrinsic
// functions (which have no body) and functions with no recorded AST (the
// built-in Equals/Bitwise signatures and impls, whose bodies are intrinsic).
func (e *Elaborator) elaborateFunctionBody(fnID ids.FunctionID) {
	fn := e.Module.Function(fnID)
	if fn.Linkage != typed.LinkageStandard {
		return
	}
	fd, ok := e.fnDefnByID[fnID]
	if !ok || fd.Body == nil {
		return
	}

	retType := fn.ReturnType
	bodyExpr := e.ElaborateExpr(fn.Scope, *fd.Body, &retType)
	block, ok := bodyExpr.(typed.Block)
	if !ok {
		block = typed.Block{
			Statements: []typed.Stmt{typed.ExprStmt{Value: bodyExpr, StmtBase: typed.StmtBase{Typ: bodyExpr.Type()}}},
			Base:       typed.Base{Typ: bodyExpr.Type(), Span: bodyExpr.SourceSpan()},
		}
	}
	if ok, reason := e.Module.Types.Compatible(retType, block.Type(), nil); !ok {
		e.Module.AddError("function body type mismatch: "+reason, fd.Span)
	}
	// Re-fetch: specializations created while elaborating the body may have
	// reallocated the function table that fn points into.
	e.Module.Function(fnID).Body = &block
}

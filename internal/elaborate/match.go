package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// lowerMatch elaborates a match expression into a right-leaning if/else
// chain, per §4.6 step 3: the scrutinee is elaborated once and let-bound,
// each arm's pattern compiles to a condition plus bindings materialized as
// LetStmts at the top of the arm body, and a synthesized `crash` call
// closes the chain for the case no arm matches. Arms are elaborated last to
// first; without an expected type, the match's own type is the type of the
// last non-Never arm in source order, and the arms before it are elaborated
// with that type as their expected type.
func (e *Elaborator) lowerMatch(scopeID ids.ScopeID, v ast.Match, expected *ids.TypeID, span source.Span) typed.Expr {
	scrutinee := e.ElaborateExpr(scopeID, v.Scrutinee, nil)
	scrutineeType := scrutinee.Type()

	if len(v.Arms) == 0 {
		return e.exprError("match has no arms", span)
	}
	scrutineeVar := e.declareSynthVar(scopeID, "__match_scrutinee", scrutineeType, false, span)
	scrutineeRef := typed.VarRef{Var: scrutineeVar, Base: base(scrutineeType, span)}

	resultType := types.UNIT
	if expected != nil {
		resultType = *expected
	}

	fallback := e.synthesizeMatchError(scopeID, resultType, span)
	chain := fallback
	haveResultType := expected != nil

	for i := len(v.Arms) - 1; i >= 0; i-- {
		arm := v.Arms[i]
		armScope := e.Module.Scopes.NewChild(scopeID, scope.KindMatchArm, "match-arm")
		cond, bindings, err := e.compilePattern(armScope, arm.Pattern, scrutineeType, scrutineeRef)
		if err != nil {
			e.Module.AddError(err.Error(), span)
			continue
		}
		for _, b := range bindings {
			varID := e.Module.NewVariable(typed.Variable{Name: b.Name, Type: b.Value.Type(), Scope: armScope, Span: span})
			e.Module.Scopes.AddVariable(armScope, b.Name, varID)
		}

		var armExpected *ids.TypeID
		if haveResultType {
			armExpected = &resultType
		}
		body := e.ElaborateExpr(armScope, arm.Body, armExpected)
		if !haveResultType && e.Module.Types.Kind(body.Type()) != types.KindNever {
			resultType = body.Type()
			haveResultType = true
		}

		body = e.wrapArmBindings(armScope, bindings, body, span)

		if lit, ok := cond.(typed.LitBool); ok && lit.Value {
			chain = body
			continue
		}
		chain = typed.If{Cond: cond, Then: body, Else: chain, Base: typed.Base{Typ: resultType, Span: span}}
	}

	return typed.Block{
		Statements: []typed.Stmt{
			typed.LetStmt{Var: scrutineeVar, Value: scrutinee, StmtBase: typed.StmtBase{Typ: types.UNIT}},
			typed.ExprStmt{Value: chain, StmtBase: typed.StmtBase{Typ: chain.Type()}},
		},
		Base: base(chain.Type(), span),
	}
}

// wrapArmBindings turns a matched arm's pattern bindings, already declared
// in scopeID before the arm body was elaborated, into LetStmts at the top of
// its body block, per §4.6 step 2.
func (e *Elaborator) wrapArmBindings(scopeID ids.ScopeID, bindings []patternBinding, body typed.Expr, span source.Span) typed.Expr {
	if len(bindings) == 0 {
		return body
	}
	stmts := make([]typed.Stmt, 0, len(bindings)+1)
	for _, b := range bindings {
		varID, _ := e.Module.Scopes.LookupVariable(scopeID, b.Name)
		stmts = append(stmts, typed.LetStmt{Var: varID, Value: b.Value, StmtBase: typed.StmtBase{Typ: types.UNIT}})
	}
	stmts = append(stmts, typed.ExprStmt{Value: body, StmtBase: typed.StmtBase{Typ: body.Type()}})
	return typed.Block{Statements: stmts, Base: typed.Base{Typ: body.Type(), Span: span}}
}

// synthesizeMatchError builds the `crash("Match Error")` call that closes
// an inexhaustive match's if/else chain, per §4.6 step 3.
func (e *Elaborator) synthesizeMatchError(scopeID ids.ScopeID, resultType ids.TypeID, span source.Span) typed.Expr {
	fnID, ok := e.Module.Scopes.FindFunction(scopeID, e.Module.Idents.Intern("crash"))
	if !ok {
		return e.exprError("internal: crash intrinsic not installed", span)
	}
	msg := typed.LitStr{Value: "Match Error", Base: base(types.STRING, span)}
	call := typed.Call{Callee: fnID, Args: []typed.CallArg{{Value: msg}}, Base: base(types.NEVER, span)}
	_ = resultType
	return call
}

package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// elaborateStmt elaborates one parsed statement within scopeID, returning
// the typed IR statement. expected is only honored for ExprStmt, the form
// that can appear last in a block and so determine the block's type.
func (e *Elaborator) elaborateStmt(scopeID ids.ScopeID, s ast.Stmt, expected *ids.TypeID) typed.Stmt {
	switch v := s.(type) {
	case ast.ExprStmt:
		value := e.ElaborateExpr(scopeID, v.Value, expected)
		return typed.ExprStmt{Value: value, StmtBase: typed.StmtBase{Typ: value.Type()}}

	case ast.LetStmt:
		var expectedType *ids.TypeID
		if v.Type != nil {
			t, err := e.EvalTypeExpr(scopeID, v.Type)
			if err != nil {
				e.Module.AddError(err.Error(), v.Span)
			} else {
				expectedType = &t
			}
		}
		value := e.ElaborateExpr(scopeID, v.Value, expectedType)
		declType := value.Type()
		if expectedType != nil {
			declType = *expectedType
		}
		varID := e.Module.NewVariable(typed.Variable{
			Name: v.Name, Type: declType, Mutable: v.Mutable, Scope: scopeID, Span: v.Span,
		})
		e.Module.Scopes.AddVariable(scopeID, v.Name, varID)
		return typed.LetStmt{Var: varID, Value: value, StmtBase: typed.StmtBase{Typ: types.UNIT}}

	case ast.AssignStmt:
		target := e.ElaborateExpr(scopeID, v.Target, nil)
		tt := target.Type()
		value := e.ElaborateExpr(scopeID, v.Value, &tt)
		return typed.AssignStmt{Target: target, Value: value, StmtBase: typed.StmtBase{Typ: types.UNIT}}

	case ast.WhileStmt:
		boolT := types.BOOL
		cond := e.ElaborateExpr(scopeID, v.Cond, &boolT)
		bodyScope := e.Module.Scopes.NewChild(scopeID, scope.KindWhileBody, "while")
		body := e.elaborateBlock(bodyScope, v.Body, nil, v.Body.SourceSpan())
		block := body.(typed.Block)
		return typed.WhileStmt{Cond: cond, Body: &block, StmtBase: typed.StmtBase{Typ: types.UNIT}}

	default:
		e.Module.AddError("unhandled statement form", s.SourceSpan())
		return typed.ExprStmt{Value: typed.LitUnit{Base: typed.Base{Typ: types.UNIT, Span: s.SourceSpan()}}, StmtBase: typed.StmtBase{Typ: types.UNIT}}
	}
}

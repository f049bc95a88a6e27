package elaborate

import (
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// lowerFor desugars `for x in iterable do/yield { body }` into an index
// variable, a while-loop bounded by the iterable's length, and — for
// ForYield — a pre-sized accumulator array written by index, per §4.7.
func (e *Elaborator) lowerFor(scopeID ids.ScopeID, v ast.For, span source.Span) typed.Expr {
	iterable := e.ElaborateExpr(scopeID, v.Iterable, nil)
	iterType := iterable.Type()

	var elemType ids.TypeID
	var lengthFnID ids.FunctionID
	isArray := false
	switch t := e.Module.Types.Get(iterType).(type) {
	case *types.ArrayType:
		elemType = t.Element
		lengthFnID = e.builtinMethods[types.KindArray]["length"]
		isArray = true
	case *types.StringType:
		elemType = types.CHAR
		lengthFnID = e.builtinMethods[types.KindString]["length"]
	default:
		return e.exprError("for-loop requires an Array or String iterable", span)
	}

	loopScope := e.Module.Scopes.NewChild(scopeID, scope.KindForExpr, "for")

	iterableVar := e.declareSynthVar(loopScope, "__for_iterable", iterType, false, span)
	indexVar := e.declareSynthVar(loopScope, "__for_index", types.I64, true, span)

	bindingName := v.Binding
	if bindingName == ident.Invalid {
		bindingName = e.Module.Idents.Intern("it")
	}

	iterableRef := typed.VarRef{Var: iterableVar, Base: base(iterType, span)}
	indexRef := typed.VarRef{Var: indexVar, Base: base(types.I64, span)}

	lengthCall := typed.Call{
		Callee: lengthFnID,
		Args:   []typed.CallArg{{Value: iterableRef}},
		Base:   base(types.I64, span),
	}
	cond := typed.BinaryOp{Op: typed.OpLt, Left: indexRef, Right: lengthCall, Base: base(types.BOOL, span)}

	var elemExpr typed.Expr
	if isArray {
		elemExpr = typed.Index{BaseExpr: iterableRef, IndexExpr: indexRef, Base: base(elemType, span)}
	} else {
		elemExpr = typed.StringIndex{BaseExpr: iterableRef, IndexExpr: indexRef, Base: base(types.CHAR, span)}
	}
	bindingVar := e.declareSynthVarNamed(loopScope, bindingName, elemType, false, span)

	bodyScope := e.Module.Scopes.NewChild(loopScope, scope.KindBlock, "for-body")
	bodyExpr := e.elaborateBlock(bodyScope, v.Body, nil, v.Body.SourceSpan())
	bodyBlock := bodyExpr.(typed.Block)

	bodyStmts := []typed.Stmt{
		typed.LetStmt{Var: bindingVar, Value: elemExpr, StmtBase: typed.StmtBase{Typ: types.UNIT}},
	}

	var accumVar ids.VariableID
	resultType := ids.TypeID(types.UNIT)
	if v.Mode == ast.ForYield {
		resultType = e.Module.Types.NewArray(bodyBlock.Type())
		accumVar = e.declareSynthVar(loopScope, "__for_accum", resultType, true, span)
		accumRef := typed.VarRef{Var: accumVar, Base: base(resultType, span)}
		bodyStmts = append(bodyStmts, typed.AssignStmt{
			Target:   typed.Index{BaseExpr: accumRef, IndexExpr: indexRef, Base: base(bodyBlock.Type(), span)},
			Value:    bodyBlock,
			StmtBase: typed.StmtBase{Typ: types.UNIT},
		})
	} else {
		bodyStmts = append(bodyStmts, typed.ExprStmt{Value: bodyBlock, StmtBase: typed.StmtBase{Typ: bodyBlock.Type()}})
	}

	bodyStmts = append(bodyStmts, typed.AssignStmt{
		Target: indexRef,
		Value: typed.BinaryOp{
			Op: typed.OpAdd, Left: indexRef,
			Right: typed.LitInt{Value: 1, Base: typed.Base{Typ: types.I64, Span: span}},
		},
		StmtBase: typed.StmtBase{Typ: types.UNIT},
	})

	whileBody := typed.Block{Statements: bodyStmts, Base: typed.Base{Typ: types.UNIT, Span: span}}
	whileStmt := typed.WhileStmt{Cond: cond, Body: &whileBody, StmtBase: typed.StmtBase{Typ: types.UNIT}}

	outer := []typed.Stmt{
		typed.LetStmt{Var: iterableVar, Value: iterable, StmtBase: typed.StmtBase{Typ: types.UNIT}},
		typed.LetStmt{Var: indexVar, Value: typed.LitInt{Base: typed.Base{Typ: types.I64, Span: span}}, StmtBase: typed.StmtBase{Typ: types.UNIT}},
	}
	finalType := ids.TypeID(types.UNIT)
	if v.Mode == ast.ForYield {
		finalType = resultType
		arrayNewFnID, ok := e.Module.Scopes.FindFunction(scopeID, e.Module.Idents.Intern("Array.new"))
		if ok {
			specID, _ := e.specialize(arrayNewFnID, []ids.TypeID{bodyBlock.Type()})
			outer = append(outer, typed.LetStmt{
				Var: accumVar,
				Value: typed.Call{
					Callee: specID,
					Args:   []typed.CallArg{{Value: lengthCall}},
					Base:   base(resultType, span),
				},
				StmtBase: typed.StmtBase{Typ: types.UNIT},
			})
		}
	}
	outer = append(outer, whileStmt)
	if v.Mode == ast.ForYield {
		outer = append(outer, typed.ExprStmt{
			Value:    typed.VarRef{Var: accumVar, Base: base(resultType, span)},
			StmtBase: typed.StmtBase{Typ: resultType},
		})
	}

	return typed.Block{Statements: outer, Base: typed.Base{Typ: finalType, Span: span}}
}

// declareSynthVar declares a compiler-synthesized variable, mangling name
// with the owning scope's id (`__for_index` becomes `__for_index_<scope-id>`).
func (e *Elaborator) declareSynthVar(scopeID ids.ScopeID, name string, t ids.TypeID, mutable bool, span source.Span) ids.VariableID {
	mangled := fmt.Sprintf("%s_%d", name, scopeID)
	return e.declareSynthVarNamed(scopeID, e.Module.Idents.Intern(mangled), t, mutable, span)
}

func (e *Elaborator) declareSynthVarNamed(scopeID ids.ScopeID, name ident.ID, t ids.TypeID, mutable bool, span source.Span) ids.VariableID {
	varID := e.Module.NewVariable(typed.Variable{Name: name, Type: t, Mutable: mutable, Scope: scopeID, Span: span})
	e.Module.Scopes.AddVariable(scopeID, name, varID)
	return varID
}

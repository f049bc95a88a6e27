package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// elaborateIf elaborates an if/then/else expression. A missing else branch
// is synthesized as Unit, per the usual "if without else has type Unit" rule;
// the Then branch is coerced to match once the overall type is known.
func (e *Elaborator) elaborateIf(scopeID ids.ScopeID, v ast.If, expected *ids.TypeID, span source.Span) typed.Expr {
	cond := e.ElaborateExpr(scopeID, v.Cond, nil)
	if e.Module.Types.Kind(cond.Type()) != types.KindBool {
		return e.exprError("if condition must be Bool", span)
	}

	if v.Else == nil {
		unit := ids.TypeID(types.UNIT)
		then := e.ElaborateExpr(scopeID, v.Then, &unit)
		return typed.If{
			Cond: cond,
			Then: then,
			Else: typed.LitUnit{Base: base(types.UNIT, span)},
			Base: base(types.UNIT, span),
		}
	}

	then := e.ElaborateExpr(scopeID, v.Then, expected)
	resultType := then.Type()
	var elseExpected *ids.TypeID
	if expected != nil {
		resultType = *expected
		elseExpected = expected
	} else {
		elseExpected = &resultType
	}
	elseExpr := e.ElaborateExpr(scopeID, v.Else, elseExpected)

	if expected == nil {
		thenKind := e.Module.Types.Kind(then.Type())
		if thenKind == types.KindNever {
			resultType = elseExpr.Type()
		} else {
			resultType = then.Type()
			elseExpr = e.coerce(scopeID, resultType, elseExpr, span)
		}
	}
	then = e.coerce(scopeID, resultType, then, span)
	elseExpr = e.coerce(scopeID, resultType, elseExpr, span)

	return typed.If{Cond: cond, Then: then, Else: elseExpr, Base: base(resultType, span)}
}

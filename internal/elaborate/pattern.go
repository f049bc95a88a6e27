package elaborate

import (
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// patternBinding is one name a compiled pattern introduces, to be let-bound
// at the top of the arm's body once the arm is known to match.
type patternBinding struct {
	Name  ident.ID
	Value typed.Expr
}

func trueExpr() typed.Expr { return typed.LitBool{Value: true, Base: typed.Base{Typ: types.BOOL}} }

// compilePattern turns a parsed pattern into a boolean condition expression
// plus the bindings its body needs, against a scrutinee already elaborated
// to scrutinee (an expression of type scrutineeType), per §4.6.
func (e *Elaborator) compilePattern(scopeID ids.ScopeID, pat ast.Pattern, scrutineeType ids.TypeID, scrutinee typed.Expr) (typed.Expr, []patternBinding, error) {
	store := e.Module.Types
	switch p := pat.(type) {
	case ast.WildcardPattern:
		return trueExpr(), nil, nil

	case ast.VariablePattern:
		return trueExpr(), []patternBinding{{Name: p.Name, Value: scrutinee}}, nil

	case ast.LiteralPattern:
		lit := e.ElaborateExpr(scopeID, p.Value, &scrutineeType)
		cond := typed.BinaryOp{Op: typed.OpEq, Left: scrutinee, Right: lit, Base: typed.Base{Typ: types.BOOL}}
		return cond, nil, nil

	case ast.SomePattern:
		opt, ok := store.Get(scrutineeType).(*types.OptionalType)
		if !ok {
			return nil, nil, fmt.Errorf("Some(...) pattern requires an Optional scrutinee")
		}
		hasValue := typed.OptionalHasValue{Inner: scrutinee, Base: typed.Base{Typ: types.BOOL}}
		get := typed.OptionalGet{Inner: scrutinee, Checked: false, Base: typed.Base{Typ: opt.Inner}}
		innerCond, bindings, err := e.compilePattern(scopeID, p.Inner, opt.Inner, get)
		if err != nil {
			return nil, nil, err
		}
		return and(hasValue, innerCond), bindings, nil

	case ast.EnumPattern:
		enumType, ok := store.Get(scrutineeType).(*types.EnumType)
		if !ok {
			return nil, nil, fmt.Errorf("enum pattern requires an enum scrutinee")
		}
		variant, ok := enumType.VariantByTag(p.Tag)
		if !ok {
			return nil, nil, fmt.Errorf("enum has no variant named %q", e.Module.Idents.Name(p.Tag))
		}
		isVariant := typed.EnumIsVariant{Scrutinee: scrutinee, VariantIndex: variant.Index, Base: typed.Base{Typ: types.BOOL}}
		if p.Payload == nil {
			return isVariant, nil, nil
		}
		if variant.Payload == nil {
			return nil, nil, fmt.Errorf("variant %q carries no payload", e.Module.Idents.Name(p.Tag))
		}
		payload := typed.EnumGetPayload{Scrutinee: scrutinee, VariantIndex: variant.Index, Base: typed.Base{Typ: *variant.Payload}}
		innerCond, bindings, err := e.compilePattern(scopeID, p.Payload, *variant.Payload, payload)
		if err != nil {
			return nil, nil, err
		}
		return and(isVariant, innerCond), bindings, nil

	case ast.StructPattern:
		structType, ok := store.Get(scrutineeType).(*types.StructType)
		if !ok {
			return nil, nil, fmt.Errorf("struct pattern requires a struct scrutinee")
		}
		cond := trueExpr()
		var bindings []patternBinding
		for _, f := range p.Fields {
			field, ok := structType.FieldByName(f.Name)
			if !ok {
				return nil, nil, fmt.Errorf("struct has no field named %q", e.Module.Idents.Name(f.Name))
			}
			access := typed.FieldAccess{BaseExpr: scrutinee, FieldName: f.Name, Index: field.Index, Base: typed.Base{Typ: field.Type}}
			subCond, subBindings, err := e.compilePattern(scopeID, f.Pattern, field.Type, access)
			if err != nil {
				return nil, nil, err
			}
			cond = and(cond, subCond)
			bindings = append(bindings, subBindings...)
		}
		return cond, bindings, nil

	default:
		return nil, nil, fmt.Errorf("unhandled pattern %T", pat)
	}
}

func and(a, b typed.Expr) typed.Expr {
	if lit, ok := a.(typed.LitBool); ok && lit.Value {
		return b
	}
	return typed.BinaryOp{Op: typed.OpAnd, Left: a, Right: b, Base: typed.Base{Typ: types.BOOL}}
}

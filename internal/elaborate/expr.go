package elaborate

import (
	"strconv"
	"strings"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// exprError records a diagnostic and returns a Never-typed placeholder node
// so elaboration of the surrounding expression tree can continue rather than
// panic (§5 "Cancellation is trivial").
func (e *Elaborator) exprError(msg string, span source.Span) typed.Expr {
	e.Module.AddError(msg, span)
	return typed.LitUnit{Base: typed.Base{Typ: types.NEVER, Span: span}}
}

func base(t ids.TypeID, span source.Span) typed.Base { return typed.Base{Typ: t, Span: span} }

// ElaborateExpr elaborates a parsed expression against an optional expected
// type, per §4.4. expected is nil where no type flows in from context (e.g.
// a statement-position expression); coercion against expected is applied
// after the expression's natural type is computed.
func (e *Elaborator) ElaborateExpr(scopeID ids.ScopeID, expr ast.Expr, expected *ids.TypeID) typed.Expr {
	span := expr.SourceSpan()
	switch v := expr.(type) {
	case ast.UnitLit:
		return typed.LitUnit{Base: base(types.UNIT, span)}

	case ast.CharLit:
		return typed.LitChar{Value: v.Value, Base: base(types.CHAR, span)}

	case ast.BoolLit:
		return typed.LitBool{Value: v.Value, Base: base(types.BOOL, span)}

	case ast.IntLit:
		return e.elaborateIntLit(v, expected, span)

	case ast.StrLit:
		return typed.LitStr{Value: v.Value, Base: base(types.STRING, span)}

	case ast.NoneLit:
		if expected == nil {
			return e.exprError("cannot infer the type of `none` without an expected Optional type", span)
		}
		opt, ok := e.Module.Types.Get(*expected).(*types.OptionalType)
		if !ok {
			return e.exprError("`none` requires an Optional expected type", span)
		}
		_ = opt
		return typed.LitNone{Base: base(*expected, span)}

	case ast.Name:
		return e.elaborateName(scopeID, v, expected, span)

	case ast.StructLit:
		return e.elaborateStructLit(scopeID, v, expected, span)

	case ast.ArrayLit:
		return e.elaborateArrayLit(scopeID, v, expected, span)

	case ast.FieldAccess:
		return e.elaborateFieldAccess(scopeID, v, span)

	case ast.Binary:
		return e.elaborateBinary(scopeID, v, span)

	case ast.Unary:
		return e.elaborateUnary(scopeID, v, span)

	case ast.Block:
		return e.elaborateBlock(scopeID, v, expected, span)

	case ast.Call:
		return e.elaborateCall(scopeID, v, expected, span)

	case ast.If:
		return e.elaborateIf(scopeID, v, expected, span)

	case ast.Match:
		return e.lowerMatch(scopeID, v, expected, span)

	case ast.Index:
		return e.elaborateIndex(scopeID, v, span)

	case ast.Tag:
		return typed.Tag{Name: v.Name, Base: base(e.Module.Types.NewTagInstance(v.Name), span)}

	case ast.EnumConstruct:
		return e.elaborateEnumConstruct(scopeID, v, expected, span)

	case ast.Is:
		scrutinee := e.ElaborateExpr(scopeID, v.Scrutinee, nil)
		cond, _, err := e.compilePattern(scopeID, v.Pattern, scrutinee.Type(), scrutinee)
		if err != nil {
			return e.exprError(err.Error(), span)
		}
		return cond

	case ast.Cast:
		target, err := e.EvalTypeExpr(scopeID, v.Target)
		if err != nil {
			return e.exprError(err.Error(), span)
		}
		inner := e.ElaborateExpr(scopeID, v.Inner, nil)
		return typed.Cast{Inner: inner, Base: base(target, span)}

	case ast.Return:
		var value typed.Expr
		if v.Value != nil {
			value = e.ElaborateExpr(scopeID, v.Value, nil)
		} else {
			value = typed.LitUnit{Base: base(types.UNIT, span)}
		}
		return typed.Return{Value: value, Base: base(types.NEVER, span)}

	case ast.For:
		return e.lowerFor(scopeID, v, span)

	case ast.Annotated:
		t, err := e.EvalTypeExpr(scopeID, v.Type)
		if err != nil {
			return e.exprError(err.Error(), span)
		}
		return e.coerce(scopeID, t, e.ElaborateExpr(scopeID, v.Inner, &t), span)

	default:
		return e.exprError("unhandled expression form", span)
	}
}

// elaborateIntLit parses IntLit's raw lexeme in the base implied by its
// prefix (0x/0b/0o, else decimal), defaulting to I64 when no expected
// integer type is available, and checking the parsed value against the
// chosen width (§4.4 "Key cases").
func (e *Elaborator) elaborateIntLit(v ast.IntLit, expected *ids.TypeID, span source.Span) typed.Expr {
	targetType := types.I64
	if expected != nil {
		if _, ok := e.Module.Types.Get(*expected).(*types.IntType); ok {
			targetType = *expected
		}
	}
	it := e.Module.Types.Get(targetType).(*types.IntType)

	lexeme := v.Lexeme
	base := 10
	switch {
	case strings.HasPrefix(lexeme, "0x") || strings.HasPrefix(lexeme, "0X"):
		base, lexeme = 16, lexeme[2:]
	case strings.HasPrefix(lexeme, "0b") || strings.HasPrefix(lexeme, "0B"):
		base, lexeme = 2, lexeme[2:]
	case strings.HasPrefix(lexeme, "0o") || strings.HasPrefix(lexeme, "0O"):
		base, lexeme = 8, lexeme[2:]
	}

	value, err := strconv.ParseUint(lexeme, base, 64)
	if err != nil {
		return e.exprError("invalid integer literal: "+err.Error(), span)
	}
	if !fitsWidth(value, it.Width, it.Signed) {
		return e.exprError("integer literal overflows its target type", span)
	}
	return typed.LitInt{Value: value, Base: typed.Base{Typ: targetType, Span: span}}
}

func fitsWidth(v uint64, width int, signed bool) bool {
	if width >= 64 {
		return true
	}
	max := uint64(1) << uint(width)
	if signed {
		return v < max/2 || v <= max-1 // permissive: two's-complement bit pattern only
	}
	return v < max
}

func (e *Elaborator) elaborateName(scopeID ids.ScopeID, v ast.Name, expected *ids.TypeID, span source.Span) typed.Expr {
	if len(v.Path) == 1 {
		if varID, ok := e.Module.Scopes.FindVariable(scopeID, v.Path[0]); ok {
			variable := e.Module.Variable(varID)
			ref := typed.Expr(typed.VarRef{Var: varID, Base: base(variable.Type, span)})
			if expected != nil {
				ref = e.coerce(scopeID, *expected, ref, span)
			}
			return ref
		}
		for _, c := range e.Module.Constants {
			if c.Name == v.Path[0] {
				return c.Value
			}
		}
	}
	return e.exprError("no variable or constant named "+e.name(v.Path[len(v.Path)-1])+" in scope", span)
}

func (e *Elaborator) elaborateStructLit(scopeID ids.ScopeID, v ast.StructLit, expected *ids.TypeID, span source.Span) typed.Expr {
	var fieldTypes map[ids.TypeID]struct{}
	_ = fieldTypes
	var expectedStruct *types.StructType
	if expected != nil {
		if st, ok := e.Module.Types.Get(*expected).(*types.StructType); ok {
			expectedStruct = st
		}
	}

	fields := make([]typed.StructLitField, len(v.Fields))
	typeFields := make([]types.StructField, len(v.Fields))
	for i, f := range v.Fields {
		var fieldExpected *ids.TypeID
		if expectedStruct != nil {
			if sf, ok := expectedStruct.FieldByName(f.Name); ok {
				fieldExpected = &sf.Type
			}
		}
		value := e.ElaborateExpr(scopeID, f.Value, fieldExpected)
		fields[i] = typed.StructLitField{Name: f.Name, Value: value}
		typeFields[i] = types.StructField{Name: f.Name, Type: value.Type(), Index: i}
	}

	resultType := e.Module.Types.NewStruct(typeFields, nil)
	if expected != nil {
		if ok, _ := e.Module.Types.Compatible(*expected, resultType, nil); ok {
			resultType = *expected
		}
	}
	return typed.StructLit{Fields: fields, Base: base(resultType, span)}
}

func (e *Elaborator) elaborateArrayLit(scopeID ids.ScopeID, v ast.ArrayLit, expected *ids.TypeID, span source.Span) typed.Expr {
	var elemExpected *ids.TypeID
	if expected != nil {
		if at, ok := e.Module.Types.Get(*expected).(*types.ArrayType); ok {
			elemExpected = &at.Element
		}
	}

	elems := make([]typed.Expr, len(v.Elements))
	var elemType ids.TypeID
	for i, el := range v.Elements {
		value := e.ElaborateExpr(scopeID, el, elemExpected)
		elems[i] = value
		if i == 0 {
			elemType = value.Type()
		}
	}
	if len(v.Elements) == 0 {
		if elemExpected != nil {
			elemType = *elemExpected
		} else {
			elemType = types.UNIT
		}
	}
	return typed.ArrayLit{Elements: elems, Base: base(e.Module.Types.NewArray(elemType), span)}
}

// elaborateFieldAccess auto-dereferences a Reference<T> base before
// resolving the field, per §4.4's coercion rules.
func (e *Elaborator) elaborateFieldAccess(scopeID ids.ScopeID, v ast.FieldAccess, span source.Span) typed.Expr {
	baseExpr := e.ElaborateExpr(scopeID, v.Base, nil)
	baseType := baseExpr.Type()
	if ref, ok := e.Module.Types.Get(baseType).(*types.ReferenceType); ok {
		baseType = ref.Inner
		baseExpr = typed.UnaryOp{Op: typed.OpDereference, Expr: baseExpr, Base: base(baseType, span)}
	}
	if variant, ok := e.Module.Types.Get(baseType).(*types.EnumVariantType); ok && variant.Payload != nil && e.name(v.Field) == "payload" {
		return typed.FieldAccess{BaseExpr: baseExpr, FieldName: v.Field, Base: base(*variant.Payload, span)}
	}
	structType, ok := e.Module.Types.Get(baseType).(*types.StructType)
	if !ok {
		return e.exprError("field access on a non-struct type", span)
	}
	field, ok := structType.FieldByName(v.Field)
	if !ok {
		return e.exprError("struct has no field named "+e.name(v.Field), span)
	}
	return typed.FieldAccess{BaseExpr: baseExpr, FieldName: v.Field, Index: field.Index, Base: base(field.Type, span)}
}

var astToIrBinOp = map[ast.BinOp]typed.BinOp{
	ast.OpAdd: typed.OpAdd, ast.OpSub: typed.OpSub, ast.OpMul: typed.OpMul,
	ast.OpDiv: typed.OpDiv, ast.OpRem: typed.OpRem,
	ast.OpLt: typed.OpLt, ast.OpLte: typed.OpLte, ast.OpGt: typed.OpGt, ast.OpGte: typed.OpGte,
	ast.OpEq: typed.OpEq, ast.OpNeq: typed.OpNeq,
	ast.OpAnd: typed.OpAnd, ast.OpOr: typed.OpOr,
}

func (e *Elaborator) elaborateBinary(scopeID ids.ScopeID, v ast.Binary, span source.Span) typed.Expr {
	left := e.ElaborateExpr(scopeID, v.Left, nil)

	if v.Op == ast.OpOptionalElse {
		return e.lowerOptionalElse(scopeID, left, v.Right, span)
	}

	lt := left.Type()
	right := e.ElaborateExpr(scopeID, v.Right, &lt)

	switch v.Op {
	case ast.OpEq, ast.OpNeq:
		return e.elaborateEquality(v.Op, left, right, span)
	case ast.OpAnd, ast.OpOr, ast.OpLt, ast.OpLte, ast.OpGt, ast.OpGte:
		return typed.BinaryOp{Op: astToIrBinOp[v.Op], Left: left, Right: right, Base: base(types.BOOL, span)}
	default:
		return typed.BinaryOp{Op: astToIrBinOp[v.Op], Left: left, Right: right, Base: base(left.Type(), span)}
	}
}

// elaborateEquality dispatches to the direct IR opcode for scalar types, and
// to the Equals ability otherwise, per §4.8.
func (e *Elaborator) elaborateEquality(op ast.BinOp, left, right typed.Expr, span source.Span) typed.Expr {
	switch e.Module.Types.Kind(left.Type()) {
	case types.KindBool, types.KindChar, types.KindString, types.KindInt, types.KindUnit:
		return typed.BinaryOp{Op: astToIrBinOp[op], Left: left, Right: right, Base: base(types.BOOL, span)}
	}
	fnID, err := e.resolveAbilityFunction("equals", left.Type(), &e.equalsAbility)
	if err != nil {
		return e.exprError(err.Error(), span)
	}
	call := typed.Call{
		Callee: fnID,
		Args: []typed.CallArg{
			{Value: left}, {Value: right},
		},
		Base: base(types.BOOL, span),
	}
	if op == ast.OpNeq {
		return typed.UnaryOp{Op: typed.OpNot, Expr: call, Base: base(types.BOOL, span)}
	}
	return call
}

// lowerOptionalElse lowers `left ?? right` to
// `if left.hasValue { left.get() } else { right }`, per §4.4.
func (e *Elaborator) lowerOptionalElse(scopeID ids.ScopeID, left typed.Expr, rhs ast.Expr, span source.Span) typed.Expr {
	opt, ok := e.Module.Types.Get(left.Type()).(*types.OptionalType)
	if !ok {
		return e.exprError("`??` requires an Optional left-hand side", span)
	}
	right := e.ElaborateExpr(scopeID, rhs, &opt.Inner)
	hasValue := typed.OptionalHasValue{Inner: left, Base: base(types.BOOL, span)}
	get := typed.OptionalGet{Inner: left, Checked: false, Base: base(opt.Inner, span)}
	return typed.If{Cond: hasValue, Then: get, Else: right, Base: base(opt.Inner, span)}
}

var astToIrUnOp = map[ast.UnOp]typed.UnOp{
	ast.OpNot: typed.OpNot, ast.OpRef: typed.OpReference,
	ast.OpDeref: typed.OpDereference, ast.OpRefToInt: typed.OpReferenceToInt,
}

func (e *Elaborator) elaborateUnary(scopeID ids.ScopeID, v ast.Unary, span source.Span) typed.Expr {
	operand := e.ElaborateExpr(scopeID, v.Operand, nil)
	op := astToIrUnOp[v.Op]
	var resultType ids.TypeID
	switch v.Op {
	case ast.OpNot:
		resultType = types.BOOL
	case ast.OpRef:
		resultType = e.Module.Types.NewReference(operand.Type())
	case ast.OpDeref:
		if ref, ok := e.Module.Types.Get(operand.Type()).(*types.ReferenceType); ok {
			resultType = ref.Inner
		} else {
			return e.exprError("cannot dereference a non-Reference type", span)
		}
	case ast.OpRefToInt:
		resultType = types.I64
	}
	return typed.UnaryOp{Op: op, Expr: operand, Base: base(resultType, span)}
}

func (e *Elaborator) elaborateBlock(scopeID ids.ScopeID, v ast.Block, expected *ids.TypeID, span source.Span) typed.Expr {
	blockScope := e.Module.Scopes.NewChild(scopeID, scope.KindBlock, "block")
	stmts := make([]typed.Stmt, len(v.Statements))
	resultType := ids.TypeID(types.UNIT)
	for i, s := range v.Statements {
		var stExpected *ids.TypeID
		if i == len(v.Statements)-1 {
			stExpected = expected
		}
		st := e.elaborateStmt(blockScope, s, stExpected)
		stmts[i] = st
		if i == len(v.Statements)-1 {
			resultType = st.Type()
		}
	}
	return typed.Block{Statements: stmts, Base: base(resultType, span)}
}

func (e *Elaborator) elaborateIndex(scopeID ids.ScopeID, v ast.Index, span source.Span) typed.Expr {
	baseExpr := e.ElaborateExpr(scopeID, v.Base, nil)
	idxI64 := types.I64
	idxExpr := e.ElaborateExpr(scopeID, v.IndexExpr, &idxI64)
	switch bt := e.Module.Types.Get(baseExpr.Type()).(type) {
	case *types.ArrayType:
		return typed.Index{BaseExpr: baseExpr, IndexExpr: idxExpr, Base: base(bt.Element, span)}
	case *types.StringType:
		return typed.StringIndex{BaseExpr: baseExpr, IndexExpr: idxExpr, Base: base(types.CHAR, span)}
	default:
		return e.exprError("indexing requires an Array or String base", span)
	}
}

func (e *Elaborator) elaborateEnumConstruct(scopeID ids.ScopeID, v ast.EnumConstruct, expected *ids.TypeID, span source.Span) typed.Expr {
	if expected == nil {
		return e.exprError("cannot infer the enum type of a bare tag construction", span)
	}
	enumType, variantID, ok := e.resolveEnumAndVariant(*expected, v.Tag)
	if !ok {
		return e.exprError("no enum variant named "+e.name(v.Tag)+" for the expected type", span)
	}
	variant, _ := enumType.VariantByTag(v.Tag)

	var payload typed.Expr
	if v.Payload != nil {
		if variant.Payload == nil {
			return e.exprError("variant "+e.name(v.Tag)+" carries no payload", span)
		}
		payload = e.ElaborateExpr(scopeID, v.Payload, variant.Payload)
	}
	return typed.EnumConstruct{VariantIndex: variant.Index, Payload: payload, Base: base(variantID, span)}
}

// resolveEnumAndVariant finds the enum backing expected (which may itself
// already be a specific EnumVariant type) and the variant named tag within
// it, returning the variant's own EnumVariantType id too.
func (e *Elaborator) resolveEnumAndVariant(expected ids.TypeID, tag ident.ID) (*types.EnumType, ids.TypeID, bool) {
	store := e.Module.Types
	enumID := expected
	if variant, ok := store.Get(expected).(*types.EnumVariantType); ok {
		enumID = variant.EnumType
	}
	enumType, ok := store.Get(enumID).(*types.EnumType)
	if !ok {
		return nil, 0, false
	}
	v, ok := enumType.VariantByTag(tag)
	if !ok {
		return nil, 0, false
	}
	variantID, ok := store.VariantTypeID(enumID, v.Index)
	if !ok {
		return nil, 0, false
	}
	return enumType, variantID, true
}

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

// elaborateCall resolves and elaborates a call expression: built-in
// pseudo-calls first (§4.5 item 1), then method-style dispatch, then
// free/qualified resolution through the namespace chain — resolving further
// to a concrete ability impl by the first argument's type when the name
// resolves to an ability-definition scope (§4.5 item 3) — followed by
// generic specialization if the resolved function is generic.
func (e *Elaborator) elaborateCall(scopeID ids.ScopeID, v ast.Call, expected *ids.TypeID, span source.Span) typed.Expr {
	if !v.MethodStyle && len(v.Callee.Path) == 1 {
		if result, handled := e.elaboratePseudoCall(scopeID, v, span); handled {
			return result
		}
	}

	var receiver typed.Expr
	var fnID ids.FunctionID
	var ok bool
	viaReceiver := v.MethodStyle
	if v.MethodStyle {
		receiver = e.ElaborateExpr(scopeID, v.Receiver, nil)
		fnID, ok = e.resolveMethodCall(receiver.Type(), v.Callee.Path[len(v.Callee.Path)-1])
	} else {
		fnID, ok = e.resolveFreeCall(scopeID, v.Callee.Path)
		if ok {
			if sig := e.Module.Function(fnID); sig.Meta == typed.MetaAbilityDefnSignature {
				if len(v.Args) == 0 {
					return e.exprError("ability call to "+e.name(sig.Name)+" needs an argument to resolve Self", span)
				}
				receiver = e.ElaborateExpr(scopeID, v.Args[0].Value, nil)
				v.Args = v.Args[1:]
				abilityID, found := e.abilityOwning(fnID)
				implID, implErr := ids.FunctionID(0), error(nil)
				if found {
					implID, implErr = e.resolveAbilityFunction(e.name(sig.Name), receiver.Type(), &abilityID)
				}
				if !found || implErr != nil {
					return e.exprError("no ability implementation of "+e.name(sig.Name)+" for this argument's type", span)
				}
				fnID = implID
				viaReceiver = true
			}
		}
	}
	if !ok {
		return e.exprError("no function named "+e.name(v.Callee.Path[len(v.Callee.Path)-1])+" found", span)
	}

	fn := e.Module.Function(fnID)
	argOffset := 0
	args := make([]typed.CallArg, 0, len(v.Args)+1)
	if viaReceiver {
		if len(fn.Params) > 0 {
			receiver = e.coerce(scopeID, fn.Params[0].Type, receiver, span)
		}
		args = append(args, typed.CallArg{Value: receiver})
		argOffset = 1
	}

	typeArgs := e.inferTypeArgs(scopeID, fn, v, argOffset)
	if fn.IsGeneric() {
		fnID, fn = e.specialize(fnID, typeArgs)
	}
	// A generic call left unspecialized is checked against the callee's
	// signature with its (still type-variable) type arguments substituted in.
	var substParams []types.GenericParam
	if fn.IsGeneric() && len(typeArgs) == len(fn.GenericParams) {
		substParams = toTypesGenericParams(fn.GenericParams)
	}

	for i, a := range v.Args {
		paramIndex := i + argOffset
		var paramType *ids.TypeID
		if paramIndex < len(fn.Params) {
			pt := fn.Params[paramIndex].Type
			if substParams != nil {
				pt = types.Substitute(e.Module.Types, pt, substParams, typeArgs)
			}
			paramType = &pt
		}
		value := e.ElaborateExpr(scopeID, a.Value, paramType)
		if paramType != nil {
			value = e.coerce(scopeID, *paramType, value, span)
			if ok, reason := e.Module.Types.Compatible(*paramType, value.Type(), nil); !ok {
				e.Module.AddError("argument type mismatch: "+reason, span)
			}
		}
		args = append(args, typed.CallArg{Value: value, Name: a.Name, Named: a.Name != ident.Invalid})
	}

	retType := fn.ReturnType
	if substParams != nil {
		retType = types.Substitute(e.Module.Types, retType, substParams, typeArgs)
	}
	return typed.Call{Callee: fnID, Args: args, TypeArgs: typeArgs, Base: base(retType, span)}
}

// elaboratePseudoCall handles the built-in calls that never have a
// FunctionId: Some(x) wraps x as an Optional; compilerFile/compilerLine
// splice in the call site's own source location, per §4.5 item 1.
func (e *Elaborator) elaboratePseudoCall(scopeID ids.ScopeID, v ast.Call, span source.Span) (typed.Expr, bool) {
	switch e.name(v.Callee.Path[0]) {
	case "Some":
		if len(v.Args) != 1 {
			return e.exprError("Some(...) takes exactly one argument", span), true
		}
		inner := e.ElaborateExpr(scopeID, v.Args[0].Value, nil)
		return typed.OptionalWrap{Inner: inner, Base: base(e.Module.Types.NewOptional(inner.Type()), span)}, true
	case "compilerFile":
		name := e.Files.Name(span.File)
		return typed.LitStr{Value: name, Base: base(types.STRING, span)}, true
	case "compilerLine":
		return typed.LitInt{Value: uint64(span.Line), Base: typed.Base{Typ: types.I64, Span: span}}, true
	default:
		return nil, false
	}
}

// resolveMethodCall dispatches `recv.f(...)` per §4.5/§4.8: a nominal
// type's companion namespace first, then the primitive-kind built-in
// methods installed by installBuiltinMethods, then ability impls.
func (e *Elaborator) resolveMethodCall(receiverType ids.TypeID, name ident.ID) (ids.FunctionID, bool) {
	store := e.Module.Types
	var defn *types.DefnInfo
	switch v := store.Get(receiverType).(type) {
	case *types.StructType:
		defn = v.Defn
	case *types.EnumType:
		defn = v.Defn
	case *types.OpaqueAliasType:
		defn = v.Defn
	}
	if defn != nil && defn.Companion != nil {
		companion := e.Module.Namespace(*defn.Companion)
		if fnID, ok := e.Module.Scopes.LookupFunction(companion.Scope, name); ok {
			return fnID, true
		}
	}

	methodName := e.name(name)
	if byName, ok := e.builtinMethods[store.Kind(receiverType)]; ok {
		if fnID, ok := byName[methodName]; ok {
			return fnID, true
		}
	}

	if fnID, err := e.resolveAbilityFunction(methodName, receiverType, nil); err == nil {
		return fnID, true
	}
	return 0, false
}

// resolveFreeCall resolves a free or qualified call, walking the namespace
// chain for every path component but the last, per §4.1/§4.5.
func (e *Elaborator) resolveFreeCall(scopeID ids.ScopeID, path []ident.ID) (ids.FunctionID, bool) {
	if len(path) == 1 {
		return e.Module.Scopes.FindFunction(scopeID, path[0])
	}
	nsID, ok := e.Module.Scopes.FindNamespace(scopeID, path[0])
	if !ok {
		return 0, false
	}
	ns := e.Module.Namespace(nsID)
	for _, seg := range path[1 : len(path)-1] {
		childID, ok := e.Module.Scopes.LookupNamespace(ns.Scope, seg)
		if !ok {
			return 0, false
		}
		ns = e.Module.Namespace(childID)
	}
	return e.Module.Scopes.LookupFunction(ns.Scope, path[len(path)-1])
}

// inferTypeArgs resolves fn's type arguments: explicit ones from the call
// site if given in full, otherwise a shallow positional scan matching each
// generic parameter's type variable against the first argument whose
// declared parameter type is exactly that variable (§4.5 "Generic
// specialization — type-argument inference").
func (e *Elaborator) inferTypeArgs(scopeID ids.ScopeID, fn *typed.Function, v ast.Call, argOffset int) []ids.TypeID {
	if !fn.IsGeneric() {
		return nil
	}
	if len(v.TypeArgs) == len(fn.GenericParams) {
		out := make([]ids.TypeID, len(v.TypeArgs))
		for i, te := range v.TypeArgs {
			t, err := e.EvalTypeExpr(scopeID, te)
			if err != nil {
				e.Module.AddError(err.Error(), v.SourceSpan())
				continue
			}
			out[i] = t
		}
		return out
	}

	result := make([]ids.TypeID, len(fn.GenericParams))
	found := make([]bool, len(fn.GenericParams))
	for i, a := range v.Args {
		paramIndex := i + argOffset
		if paramIndex >= len(fn.Params) {
			break
		}
		paramType := fn.Params[paramIndex].Type
		for gi, gp := range fn.GenericParams {
			if found[gi] || paramType != gp.Var {
				continue
			}
			argExpr := e.ElaborateExpr(scopeID, a.Value, nil)
			result[gi] = argExpr.Type()
			found[gi] = true
		}
	}
	return result
}

func toTypesGenericParams(params []typed.GenericParam) []types.GenericParam {
	out := make([]types.GenericParam, len(params))
	for i, p := range params {
		out[i] = types.GenericParam{Name: p.Name, Var: p.Var}
	}
	return out
}

// specialize returns the concrete FunctionId for generic fnID applied to
// typeArgs, memoizing on first use and elaborating the specialization's
// body lazily against a sibling scope of the generic's own, per §4.5.
//
// If any of typeArgs still references a TypeVariable, the call sits inside
// another generic function that has not itself been specialized yet — the
// original typer's fully_concrete / does_type_reference_type_variables check
// (typer.rs eval_function_call) skips specialization in exactly this case,
// since substituting a type variable for another type variable would bake a
// bogus "specialization" in permanently. fnID is returned unspecialized so
// the outer function's own specialization pass can concretize this call
// later, once it substitutes the outer type variables for real types.
func (e *Elaborator) specialize(fnID ids.FunctionID, typeArgs []ids.TypeID) (ids.FunctionID, *typed.Function) {
	generic := e.Module.Function(fnID)
	if len(typeArgs) != len(generic.GenericParams) {
		return fnID, generic
	}
	for _, ta := range typeArgs {
		if types.ContainsTypeVariable(e.Module.Types, ta) {
			return fnID, generic
		}
	}

	key := fmt.Sprintf("%d:%s", fnID, types.SpecializationKey(typeArgs))
	if specID, ok := e.specializations[key]; ok {
		return specID, e.Module.Function(specID)
	}

	genericParams := toTypesGenericParams(generic.GenericParams)
	specScope := e.Module.Scopes.NewSibling(generic.Scope, scope.KindFunction, e.name(generic.Name)+"_spec")
	for i, gp := range generic.GenericParams {
		e.Module.Scopes.AddType(specScope, gp.Name, typeArgs[i])
	}

	params := make([]typed.Param, len(generic.Params))
	for i, p := range generic.Params {
		pt := types.Substitute(e.Module.Types, p.Type, genericParams, typeArgs)
		varID := e.Module.NewVariable(typed.Variable{Name: p.Name, Type: pt, Scope: specScope, Span: generic.Span})
		e.Module.Scopes.AddVariable(specScope, p.Name, varID)
		params[i] = typed.Param{Name: p.Name, Var: varID, Index: i, Type: pt}
	}
	retType := types.Substitute(e.Module.Types, generic.ReturnType, genericParams, typeArgs)
	mangled := fmt.Sprintf("%s_spec_%d_%s", e.name(generic.Name), fnID, types.SpecializationKey(typeArgs))

	specID := e.Module.NewFunction(typed.Function{
		Name:          generic.Name,
		Scope:         specScope,
		ReturnType:    retType,
		Params:        params,
		Linkage:       generic.Linkage,
		Intrinsic:     generic.Intrinsic,
		Meta:          typed.MetaGenericSpecialization,
		GenericParent: fnID,
		TypeArgs:      typeArgs,
		MangledName:   mangled,
		Span:          generic.Span,
	})
	generic = e.Module.Function(fnID) // NewFunction may have reallocated the function table
	generic.Specializations = append(generic.Specializations, specID)
	e.specializations[key] = specID

	if fd, ok := e.fnDefnByID[fnID]; ok {
		e.fnDefnByID[specID] = fd
		e.elaborateFunctionBody(specID)
	}
	return specID, e.Module.Function(specID)
}

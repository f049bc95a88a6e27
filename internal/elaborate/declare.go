package elaborate

import (
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// declarationPhase predeclares every function signature, registers every
// constant, creates ability records, and registers ability-impl stubs, per
// §2 phase 4. Bodies are not elaborated yet.
func (e *Elaborator) declarationPhase(n *ast.NamespaceDefn) {
	info := e.nsByDefn[n]

	for _, fd := range n.Functions {
		if fnID, err := e.predeclareFunction(info.scope, fd, typed.MetaUserFunction, 0); err != nil {
			e.Module.AddError(err.Error(), fd.Span)
		} else {
			e.Module.FuncByParsedID[fd.ParsedID] = fnID
			if err := e.Module.Scopes.AddFunction(info.scope, fd.Name, fnID); err != nil {
				e.Module.AddError(err.Error(), fd.Span)
			}
		}
	}

	for _, cd := range n.Constants {
		e.declareConstant(info.scope, cd)
	}

	for _, ad := range n.Abilities {
		e.declareAbility(info.scope, ad)
	}

	for _, id := range n.Impls {
		e.declareImpl(info.scope, id)
	}

	for _, child := range n.Namespaces {
		e.declarationPhase(child)
	}
}

// predeclareFunction evaluates a function's parameter and return types in
// a fresh scope (so generic parameters are visible) and records the
// Function entity, leaving Body nil until the body phase.
func (e *Elaborator) predeclareFunction(owningScope ids.ScopeID, fd *ast.FuncDefn, meta typed.FunctionMeta, parent ids.FunctionID) (ids.FunctionID, error) {
	fnScope := e.Module.Scopes.NewChild(owningScope, scope.KindFunction, e.name(fd.Name))

	genParams := make([]typed.GenericParam, len(fd.GenericParams))
	for i, p := range fd.GenericParams {
		tVar := e.Module.Types.NewTypeVariable(p, fnScope)
		if err := e.Module.Scopes.AddType(fnScope, p, tVar); err != nil {
			return 0, err
		}
		genParams[i] = typed.GenericParam{Name: p, Var: tVar}
	}

	params := make([]typed.Param, len(fd.Params))
	for i, p := range fd.Params {
		pt, err := e.EvalTypeExpr(fnScope, p.Type)
		if err != nil {
			return 0, fmt.Errorf("parameter %q: %w", e.name(p.Name), err)
		}
		varID := e.Module.NewVariable(typed.Variable{Name: p.Name, Type: pt, Scope: fnScope, Span: fd.Span})
		e.Module.Scopes.AddVariable(fnScope, p.Name, varID)
		params[i] = typed.Param{Name: p.Name, Var: varID, Index: i, Type: pt}
	}

	retType := types.UNIT
	if fd.ReturnType != nil {
		rt, err := e.EvalTypeExpr(fnScope, fd.ReturnType)
		if err != nil {
			return 0, fmt.Errorf("return type: %w", err)
		}
		retType = rt
	}

	linkage := typed.LinkageStandard
	if fd.External {
		linkage = typed.LinkageExternal
	} else if fd.Intrinsic {
		linkage = typed.LinkageIntrinsic
	}

	fn := typed.Function{
		Name:          fd.Name,
		Scope:         fnScope,
		ReturnType:    retType,
		Params:        params,
		GenericParams: genParams,
		Linkage:       linkage,
		Meta:          meta,
		GenericParent: parent,
		Span:          fd.Span,
	}
	if fd.Intrinsic {
		tag, err := e.classifyIntrinsic(fd)
		if err != nil {
			return 0, err
		}
		fn.Intrinsic = tag
	}

	fnID := e.Module.NewFunction(fn)
	e.fnDefnByID[fnID] = fd
	return fnID, nil
}

func (e *Elaborator) declareConstant(owningScope ids.ScopeID, cd *ast.ConstDefn) {
	var expectedType *ids.TypeID
	if cd.Type != nil {
		t, err := e.EvalTypeExpr(owningScope, cd.Type)
		if err != nil {
			e.Module.AddError(err.Error(), cd.Span)
			return
		}
		expectedType = &t
	}
	value := e.ElaborateExpr(owningScope, cd.Value, expectedType)
	e.Module.NewConstant(typed.Constant{Name: cd.Name, Type: value.Type(), Value: value, Span: cd.Span})
}

// declareAbility installs an ability record with a scope binding `Self` as
// a type variable, and predeclares each signature function within it. Each
// signature is also registered by name into owningScope (the namespace the
// ability itself lives in), so that a bare call by that name anywhere in
// the namespace resolves through it to the concrete impl for the call's
// argument type, per §4.5 item 3.
func (e *Elaborator) declareAbility(owningScope ids.ScopeID, ad *ast.AbilityDefn) {
	abilityScope := e.Module.Scopes.NewChild(owningScope, scope.KindAbilityDefn, e.name(ad.Name))
	selfName := e.Module.Idents.Intern("Self")
	selfVar := e.Module.Types.NewTypeVariable(selfName, abilityScope)
	e.Module.Scopes.AddType(abilityScope, selfName, selfVar)

	var fns []typed.AbilityFn
	for _, sig := range ad.Functions {
		fnID, err := e.predeclareFunction(abilityScope, sig, typed.MetaAbilityDefnSignature, 0)
		if err != nil {
			e.Module.AddError(err.Error(), sig.Span)
			continue
		}
		if err := e.Module.Scopes.AddFunction(owningScope, sig.Name, fnID); err != nil {
			e.Module.AddError(err.Error(), sig.Span)
			continue
		}
		fns = append(fns, typed.AbilityFn{Name: sig.Name, Function: fnID})
	}

	abilityID := e.Module.NewAbility(typed.Ability{Name: ad.Name, Functions: fns})
	if err := e.Module.Scopes.AddAbility(owningScope, ad.Name, abilityID); err != nil {
		e.Module.AddError(err.Error(), ad.Span)
	}
}

func (e *Elaborator) declareImpl(owningScope ids.ScopeID, id *ast.ImplDefn) {
	abilityID, ok := e.Module.Scopes.FindAbility(owningScope, id.Ability)
	if !ok {
		e.Module.AddError(fmt.Sprintf("no ability named %q in scope", e.name(id.Ability)), id.Span)
		return
	}
	targetType, err := e.EvalTypeExpr(owningScope, id.Target)
	if err != nil {
		e.Module.AddError(err.Error(), id.Span)
		return
	}

	for _, existing := range e.Module.AbilityImpls {
		if existing.Ability == abilityID && existing.Target == targetType {
			e.Module.AddError(fmt.Sprintf("duplicate impl of %q for type #%d: an ability may have at most one impl per type",
				e.name(id.Ability), targetType), id.Span)
			return
		}
	}

	ability := e.Module.Ability(abilityID)
	fnIDs := make([]ids.FunctionID, 0, len(id.Functions))
	for i, fd := range id.Functions {
		fnID, err := e.predeclareFunction(owningScope, fd, typed.MetaAbilityImplFunction, 0)
		if err != nil {
			e.Module.AddError(err.Error(), fd.Span)
			continue
		}
		if i < len(ability.Functions) {
			// Self was bound abstractly in the ability's signature scope;
			// re-point the impl function's first parameter type (the
			// receiver) at the concrete target so body elaboration sees it.
			if len(e.Module.Function(fnID).Params) > 0 {
				e.Module.Function(fnID).Params[0].Type = targetType
			}
		}
		fnIDs = append(fnIDs, fnID)
	}

	implID := e.Module.NewAbilityImpl(typed.AbilityImpl{Ability: abilityID, Target: targetType, Functions: fnIDs})
	e.Module.ImplByParsedID[id.ParsedID] = implID
}

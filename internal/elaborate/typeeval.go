package elaborate

import (
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ast"
	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// typeEvalPhase materializes every pending type definition into a type
// handle, per §2 phase 3. A definition referenced earlier (forward
// reference) by another definition's RHS is evaluated eagerly and memoized
// by the time this top-down walk reaches it, so the walk skips any
// definition already present in the owning scope's type map.
func (e *Elaborator) typeEvalPhase(n *ast.NamespaceDefn) {
	info := e.nsByDefn[n]
	for _, td := range n.Types {
		if _, already := e.Module.Scopes.LookupType(info.scope, td.Name); already {
			continue // resolved as a forward reference while evaluating a sibling
		}
		if _, err := e.EvalTypeDefn(info.scope, td); err != nil {
			e.Module.AddError(err.Error(), td.Span)
		}
	}
	for _, child := range n.Namespaces {
		e.typeEvalPhase(child)
	}
}

// EvalTypeDefn evaluates a type definition's right-hand side in a fresh
// child scope (for its generic type-variable bindings, if any) and
// installs the result into definingScope under its name, per §4.2.
func (e *Elaborator) EvalTypeDefn(definingScope ids.ScopeID, td *ast.TypeDefn) (ids.TypeID, error) {
	childScope := e.Module.Scopes.NewChild(definingScope, scope.KindTypeDefn, e.name(td.Name))

	params := make([]types.GenericParam, len(td.Params))
	for i, p := range td.Params {
		tVar := e.Module.Types.NewTypeVariable(p, childScope)
		if err := e.Module.Scopes.AddType(childScope, p, tVar); err != nil {
			return 0, fmt.Errorf("type parameter %q: %w", e.name(p), err)
		}
		params[i] = types.GenericParam{Name: p, Var: tVar}
	}

	inner, err := e.EvalTypeExpr(childScope, td.RHS)
	if err != nil {
		return 0, err
	}

	defn := &types.DefnInfo{Name: td.Name, Scope: definingScope}

	var result ids.TypeID
	switch {
	case len(td.Params) > 0:
		result = e.Module.Types.NewGeneric(params, inner, defn)

	case td.Opaque:
		result = e.Module.Types.NewOpaqueAlias(inner, defn)

	case td.Alias:
		result = inner

	default:
		// Nominalize a freshly built anonymous struct/enum in place;
		// anything else (e.g. `type Id = I64`, non-alias passthrough of a
		// primitive) is returned as-is per §4.2.
		switch t := e.Module.Types.Get(inner).(type) {
		case *types.StructType:
			if t.Defn == nil {
				t.Defn = defn
			}
		case *types.EnumType:
			if t.Defn == nil {
				t.Defn = defn
			}
		}
		result = inner
	}

	if err := e.Module.Scopes.AddType(definingScope, td.Name, result); err != nil {
		return 0, err
	}
	if nsID, ok := e.Module.Scopes.LookupNamespace(definingScope, td.Name); ok {
		defn.Companion = &nsID
		e.Module.Namespace(nsID).CompanionType = &result
	}
	return result, nil
}

// EvalTypeExpr turns a parsed type expression into a TypeId, per §4.2.
func (e *Elaborator) EvalTypeExpr(scopeID ids.ScopeID, te ast.TypeExpr) (ids.TypeID, error) {
	store := e.Module.Types
	switch v := te.(type) {
	case ast.PrimitiveNameType:
		switch e.name(v.Name) {
		case "Unit":
			return types.UNIT, nil
		case "Bool":
			return types.BOOL, nil
		case "Char":
			return types.CHAR, nil
		case "String":
			return types.STRING, nil
		case "Never":
			return types.NEVER, nil
		default:
			return e.lookupOrForwardEval(scopeID, v.Name)
		}

	case ast.IntWidthType:
		return store.IntTypeID(v.Width, v.Signed), nil

	case ast.StructLiteralType:
		fields := make([]types.StructField, len(v.Fields))
		for i, f := range v.Fields {
			ft, err := e.EvalTypeExpr(scopeID, f.Type)
			if err != nil {
				return 0, err
			}
			fields[i] = types.StructField{Name: f.Name, Type: ft, Index: i}
		}
		return store.NewStruct(fields, nil), nil

	case ast.NameLookupType:
		return e.lookupOrForwardEval(scopeID, v.Name)

	case ast.TagLiteralType:
		return store.NewTagInstance(v.Tag), nil

	case ast.ApplicationType:
		return e.evalApplicationType(scopeID, v)

	case ast.OptionalPostfixType:
		inner, err := e.EvalTypeExpr(scopeID, v.Inner)
		if err != nil {
			return 0, err
		}
		return store.NewOptional(inner), nil

	case ast.ReferencePostfixType:
		inner, err := e.EvalTypeExpr(scopeID, v.Inner)
		if err != nil {
			return 0, err
		}
		return store.NewReference(inner), nil

	case ast.EnumLiteralType:
		specs := make([]types.EnumVariantSpec, len(v.Variants))
		for i, variant := range v.Variants {
			spec := types.EnumVariantSpec{TagName: variant.Tag}
			if variant.Payload != nil {
				pt, err := e.EvalTypeExpr(scopeID, variant.Payload)
				if err != nil {
					return 0, err
				}
				spec.Payload = &pt
			}
			specs[i] = spec
			store.NewTagInstance(variant.Tag) // registered so loose tags coerce
		}
		enumID, _ := store.NewEnum(specs, nil)
		return enumID, nil

	case ast.MemberType:
		baseID, err := e.EvalTypeExpr(scopeID, v.Base)
		if err != nil {
			return 0, err
		}
		enumType, ok := store.Get(baseID).(*types.EnumType)
		if !ok {
			return 0, fmt.Errorf("member access %q on a non-enum type", e.name(v.Member))
		}
		variant, ok := enumType.VariantByTag(v.Member)
		if !ok {
			return 0, fmt.Errorf("enum has no variant named %q", e.name(v.Member))
		}
		variantID, ok := store.VariantTypeID(baseID, variant.Index)
		if !ok {
			return 0, fmt.Errorf("internal: missing variant type id for %q", e.name(v.Member))
		}
		return variantID, nil

	default:
		return 0, fmt.Errorf("unhandled type expression %T", te)
	}
}

// lookupOrForwardEval resolves a bare type name: first against already
// installed types, then — per §4.2's forward-reference rule — against a
// pending type definition anywhere in the enclosing scope chain, evaluated
// eagerly on first reference.
func (e *Elaborator) lookupOrForwardEval(scopeID ids.ScopeID, name ident.ID) (ids.TypeID, error) {
	if id, ok := e.Module.Scopes.FindType(scopeID, name); ok {
		return id, nil
	}
	if owner, td, ok := e.findPendingOwner(scopeID, name); ok {
		return e.EvalTypeDefn(owner, td)
	}
	return 0, fmt.Errorf("no type named %q in scope", e.Module.Idents.Name(name))
}

// findPendingOwner walks the parent chain looking for the scope that owns
// a pending type-defn named name, returning that scope and its TypeDefn.
func (e *Elaborator) findPendingOwner(scopeID ids.ScopeID, name ident.ID) (ids.ScopeID, *ast.TypeDefn, bool) {
	for {
		if defns, ok := e.pendingTypeDefns[scopeID]; ok {
			if td, ok := defns[name]; ok {
				return scopeID, td, true
			}
		}
		parent, ok := e.Module.Scopes.Parent(scopeID)
		if !ok {
			return 0, nil, false
		}
		scopeID = parent
	}
}

func (e *Elaborator) evalApplicationType(scopeID ids.ScopeID, v ast.ApplicationType) (ids.TypeID, error) {
	store := e.Module.Types
	if baseName, ok := v.Base.(ast.NameLookupType); ok && e.name(baseName.Name) == "Array" && len(v.Args) == 1 {
		elem, err := e.EvalTypeExpr(scopeID, v.Args[0])
		if err != nil {
			return 0, err
		}
		return store.NewArray(elem), nil
	}

	baseID, err := e.EvalTypeExpr(scopeID, v.Base)
	if err != nil {
		return 0, err
	}
	generic, ok := store.Get(baseID).(*types.GenericType)
	if !ok {
		return 0, fmt.Errorf("type application on a non-generic base type")
	}
	if len(generic.Params) != len(v.Args) {
		return 0, fmt.Errorf("generic type expects %d argument(s), got %d", len(generic.Params), len(v.Args))
	}

	args := make([]ids.TypeID, len(v.Args))
	for i, a := range v.Args {
		argID, err := e.EvalTypeExpr(scopeID, a)
		if err != nil {
			return 0, err
		}
		args[i] = argID
	}

	if cached, ok := store.Lookup(generic, args); ok {
		return cached, nil
	}
	result := types.Substitute(store, generic.Inner, generic.Params, args)
	store.Remember(generic, args, result)
	return result, nil
}

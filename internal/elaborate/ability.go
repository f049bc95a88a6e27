package elaborate

import (
	"fmt"

	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/scope"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// installBuiltinAbilities registers Equals (id 0) and Bitwise (id 1) with
// intrinsic implementations for the built-in integer types, and Equals for
// String, per §4.8 and §6. These are the first two abilities created in any
// module, which is what fixes their ids at the reserved positions.
func (e *Elaborator) installBuiltinAbilities() {
	m := e.Module
	root := m.RootScope

	boolID := types.BOOL
	equalsName := m.Idents.Intern("equals")
	selfName := m.Idents.Intern("Self")
	otherName := m.Idents.Intern("other")

	equalsScope := m.Scopes.NewChild(root, scope.KindAbilityDefn, "Equals")
	selfVar := m.Types.NewTypeVariable(selfName, equalsScope)
	m.Scopes.AddType(equalsScope, selfName, selfVar)
	equalsSigVar1 := m.NewVariable(typed.Variable{Name: otherName, Type: selfVar, Scope: equalsScope})
	equalsSig := m.NewFunction(typed.Function{
		Name:       equalsName,
		Scope:      equalsScope,
		ReturnType: boolID,
		Params: []typed.Param{
			{Name: selfName, Type: selfVar, Index: 0},
			{Name: otherName, Var: equalsSigVar1, Type: selfVar, Index: 1},
		},
		Linkage: typed.LinkageIntrinsic,
		Meta:    typed.MetaAbilityDefnSignature,
	})
	equalsID := m.NewAbility(typed.Ability{Name: m.Idents.Intern("Equals"), Functions: []typed.AbilityFn{{Name: equalsName, Function: equalsSig}}})
	m.Scopes.AddAbility(root, m.Idents.Intern("Equals"), equalsID)
	e.equalsAbility = equalsID

	for _, target := range []ids.TypeID{
		types.U8, types.U16, types.U32, types.U64,
		types.I8, types.I16, types.I32, types.I64, types.STRING,
	} {
		fnID := m.NewFunction(typed.Function{
			Name:       equalsName,
			ReturnType: boolID,
			Linkage:    typed.LinkageIntrinsic,
			Intrinsic:  typed.IntrinsicStringEquals,
			Meta:       typed.MetaAbilityImplFunction,
		})
		m.NewAbilityImpl(typed.AbilityImpl{Ability: equalsID, Target: target, Functions: []ids.FunctionID{fnID}})
	}

	bitwiseNames := []string{"not", "and", "or", "xor", "shiftLeft", "shiftRight"}
	bitwiseTags := []typed.IntrinsicTag{
		typed.IntrinsicBitsNot, typed.IntrinsicBitsAnd, typed.IntrinsicBitsOr,
		typed.IntrinsicBitsXor, typed.IntrinsicBitsShiftLeft, typed.IntrinsicBitsShiftRight,
	}
	bitwiseScope := m.Scopes.NewChild(root, scope.KindAbilityDefn, "Bitwise")
	bwSelfVar := m.Types.NewTypeVariable(selfName, bitwiseScope)
	m.Scopes.AddType(bitwiseScope, selfName, bwSelfVar)

	var bwFns []typed.AbilityFn
	for _, n := range bitwiseNames {
		name := m.Idents.Intern(n)
		sigID := m.NewFunction(typed.Function{
			Name:       name,
			Scope:      bitwiseScope,
			ReturnType: bwSelfVar,
			Params:     []typed.Param{{Name: selfName, Type: bwSelfVar, Index: 0}},
			Linkage:    typed.LinkageIntrinsic,
			Meta:       typed.MetaAbilityDefnSignature,
		})
		bwFns = append(bwFns, typed.AbilityFn{Name: name, Function: sigID})
	}
	bitwiseID := m.NewAbility(typed.Ability{Name: m.Idents.Intern("Bitwise"), Functions: bwFns})
	m.Scopes.AddAbility(root, m.Idents.Intern("Bitwise"), bitwiseID)
	e.bitwiseAbility = bitwiseID

	for _, target := range []ids.TypeID{types.U8, types.U16, types.U32, types.U64, types.I8, types.I16, types.I32, types.I64} {
		fnIDs := make([]ids.FunctionID, len(bitwiseNames))
		for i, n := range bitwiseNames {
			fnIDs[i] = m.NewFunction(typed.Function{
				Name:       m.Idents.Intern(n),
				ReturnType: target,
				Linkage:    typed.LinkageIntrinsic,
				Intrinsic:  bitwiseTags[i],
				Meta:       typed.MetaAbilityImplFunction,
			})
		}
		m.NewAbilityImpl(typed.AbilityImpl{Ability: bitwiseID, Target: target, Functions: fnIDs})
	}
}

// abilityOwning finds the ability whose signature list contains fnID, for
// resolving a free call that named an ability-definition-scope signature
// directly (§4.5 item 3) rather than a concrete impl.
func (e *Elaborator) abilityOwning(fnID ids.FunctionID) (ids.AbilityID, bool) {
	for i, ability := range e.Module.Abilities {
		for _, sig := range ability.Functions {
			if sig.Function == fnID {
				return ids.AbilityID(i), true
			}
		}
	}
	return 0, false
}

// resolveAbilityFunction finds the concrete implementation of functionName
// for receiverType, scanning every ability impl (optionally filtered to
// onlyAbility), per §4.8. Returns an ambiguity error when more than one
// ability's impl provides a function by that name for that type.
func (e *Elaborator) resolveAbilityFunction(functionName string, receiverType ids.TypeID, onlyAbility *ids.AbilityID) (ids.FunctionID, error) {
	m := e.Module
	var found ids.FunctionID
	var foundAbility ids.AbilityID
	matches := 0

	for _, impl := range m.AbilityImpls {
		if impl.Target != receiverType {
			continue
		}
		if onlyAbility != nil && impl.Ability != *onlyAbility {
			continue
		}
		ability := m.Ability(impl.Ability)
		for i, sig := range ability.Functions {
			if m.Idents.Name(sig.Name) != functionName {
				continue
			}
			if i >= len(impl.Functions) {
				continue
			}
			if matches > 0 && foundAbility != impl.Ability {
				return 0, fmt.Errorf("ambiguous call to %q on type #%d: multiple ability impls match", functionName, receiverType)
			}
			found = impl.Functions[i]
			foundAbility = impl.Ability
			matches++
		}
	}

	if matches == 0 {
		return 0, fmt.Errorf("no ability implementation of %q for type #%d", functionName, receiverType)
	}
	return found, nil
}

package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// installBuiltinFunctions predeclares the always-available intrinsic
// functions named in §6 (everything except the pseudo-calls `return`,
// `Some`, `compilerFile`, `compilerLine`, which never get a FunctionId —
// see §4.5 item 1).
func (e *Elaborator) installBuiltinFunctions() {
	m := e.Module
	root := m.RootScope

	install := func(name string, ret ids.TypeID, tag typed.IntrinsicTag, params ...typed.Param) {
		nameID := m.Idents.Intern(name)
		fnID := m.NewFunction(typed.Function{
			Name:       nameID,
			Scope:      root,
			ReturnType: ret,
			Params:     params,
			Linkage:    typed.LinkageIntrinsic,
			Intrinsic:  tag,
			Meta:       typed.MetaUserFunction,
		})
		m.Scopes.AddFunction(root, nameID, fnID)
	}

	valueParam := func(t ids.TypeID) typed.Param {
		return typed.Param{Name: m.Idents.Intern("value"), Type: t, Index: 0}
	}

	install("printInt", types.UNIT, typed.IntrinsicPrintInt, valueParam(types.I64))
	install("print", types.UNIT, typed.IntrinsicPrint, valueParam(types.STRING))
	install("exit", types.NEVER, typed.IntrinsicExit, valueParam(types.I64))
	install("sizeOf", types.I64, typed.IntrinsicSizeOf)
	install("alignOf", types.I64, typed.IntrinsicAlignOf)
	install("crash", types.NEVER, typed.IntrinsicCrash, valueParam(types.STRING))

	// Array.new<T>(length) is a free generic constructor, registered under
	// a literal dotted name (never reparsed, only looked up by the for-loop
	// desugarer building a yield accumulator — §4.7) rather than as a
	// method, since it has no receiver to dispatch on.
	tName := m.Idents.Intern("T")
	tVar := m.Types.NewTypeVariable(tName, root)
	lengthName := m.Idents.Intern("length")
	arrayNewName := m.Idents.Intern("Array.new")
	arrayNewID := m.NewFunction(typed.Function{
		Name:          arrayNewName,
		Scope:         root,
		ReturnType:    m.Types.NewArray(tVar),
		Params:        []typed.Param{{Name: lengthName, Type: types.I64, Index: 0}},
		GenericParams: []typed.GenericParam{{Name: tName, Var: tVar}},
		Linkage:       typed.LinkageIntrinsic,
		Intrinsic:     typed.IntrinsicArrayNew,
		Meta:          typed.MetaUserFunction,
	})
	m.Scopes.AddFunction(root, arrayNewName, arrayNewID)
}

// installBuiltinMethods registers the method-style intrinsics available on
// the primitive kinds that have no companion namespace of their own
// (String, Array, and Reference for raw-pointer access), dispatched by
// resolveMethodCall,
// per §4.5's method-style resolution chain and §4.9's intrinsic
// classification.
func (e *Elaborator) installBuiltinMethods() {
	m := e.Module
	root := m.RootScope

	add := func(kind types.Kind, name string, ret ids.TypeID, tag typed.IntrinsicTag, params ...typed.Param) {
		nameID := m.Idents.Intern(name)
		fnID := m.NewFunction(typed.Function{
			Name:       nameID,
			Scope:      root,
			ReturnType: ret,
			Params:     params,
			Linkage:    typed.LinkageIntrinsic,
			Intrinsic:  tag,
			Meta:       typed.MetaUserFunction,
		})
		if e.builtinMethods[kind] == nil {
			e.builtinMethods[kind] = make(map[string]ids.FunctionID)
		}
		e.builtinMethods[kind][name] = fnID
	}
	param := func(name string, t ids.TypeID, index int) typed.Param {
		return typed.Param{Name: m.Idents.Intern(name), Type: t, Index: index}
	}

	add(types.KindString, "length", types.I64, typed.IntrinsicStringLength)
	add(types.KindString, "equals", types.BOOL, typed.IntrinsicStringEquals, param("other", types.STRING, 1))

	add(types.KindArray, "length", types.I64, typed.IntrinsicArrayLength)
	add(types.KindArray, "capacity", types.I64, typed.IntrinsicArrayCapacity)
	add(types.KindArray, "grow", types.UNIT, typed.IntrinsicArrayGrow, param("newCapacity", types.I64, 1))
	add(types.KindArray, "set_length", types.UNIT, typed.IntrinsicArraySetLength, param("newLength", types.I64, 1))

	add(types.KindReference, "asUnsafe", types.I64, typed.IntrinsicRawPointerAsUnsafe)

	// Bits.{not,and,or,xor,shiftLeft,shiftRight} are not registered here:
	// they dispatch through the Bitwise ability impls installed by
	// installBuiltinAbilities, which resolveMethodCall already falls back
	// to for any receiver kind with no direct builtinMethods entry.
}

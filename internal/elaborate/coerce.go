package elaborate

import (
	"github.com/kolemannix/bfl-sub000/internal/ids"
	"github.com/kolemannix/bfl-sub000/internal/source"
	"github.com/kolemannix/bfl-sub000/internal/typed"
	"github.com/kolemannix/bfl-sub000/internal/types"
)

// coerce applies §4.4's implicit coercions when value's natural type isn't
// already compatible with target: a bare tag to its enum/variant, T to
// Optional<T>, and Reference<T> to T (auto-deref). It is a no-op when value
// already satisfies target, and leaves an incompatible value untouched for
// the caller to report (body-phase call-argument checking is where the
// final mismatch is diagnosed).
func (e *Elaborator) coerce(scopeID ids.ScopeID, target ids.TypeID, value typed.Expr, span source.Span) typed.Expr {
	store := e.Module.Types
	if ok, _ := store.Compatible(target, value.Type(), nil); ok {
		return value
	}

	if tag, ok := store.Get(value.Type()).(*types.TagInstanceType); ok {
		if enumType, variantID, ok := e.resolveEnumAndVariant(target, tag.Tag); ok {
			variant, _ := enumType.VariantByTag(tag.Tag)
			return typed.EnumConstruct{VariantIndex: variant.Index, Base: typed.Base{Typ: variantID, Span: span}}
		}
	}

	if opt, ok := store.Get(target).(*types.OptionalType); ok {
		if ok2, _ := store.Compatible(opt.Inner, value.Type(), nil); ok2 {
			return typed.OptionalWrap{Inner: value, Base: typed.Base{Typ: target, Span: span}}
		}
	}

	if ref, ok := store.Get(value.Type()).(*types.ReferenceType); ok {
		if ok2, _ := store.Compatible(target, ref.Inner, nil); ok2 {
			return typed.UnaryOp{Op: typed.OpDereference, Expr: value, Base: typed.Base{Typ: ref.Inner, Span: span}}
		}
	}

	if alias, ok := store.Get(target).(*types.OpaqueAliasType); ok {
		if ok2, _ := store.Compatible(alias.Aliasee, value.Type(), nil); ok2 {
			return typed.Cast{Inner: value, Base: typed.Base{Typ: target, Span: span}}
		}
	}
	if alias, ok := store.Get(value.Type()).(*types.OpaqueAliasType); ok {
		if ok2, _ := store.Compatible(target, alias.Aliasee, nil); ok2 {
			return typed.Cast{Inner: value, Base: typed.Base{Typ: target, Span: span}}
		}
	}

	return value
}

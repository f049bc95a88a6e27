// Package ids defines the dense integer handle types shared by the type
// store, scope tree, and entity stores. Centralizing them here (rather than
// letting each owning package define its own) is what lets the type store
// refer to a ScopeID or NamespaceID — for a TypeVariable's binding scope, or
// an opaque alias's companion namespace — without the type store importing
// the scope or entity-store packages above it in the dependency order.
//
// Every handle is a small append-only-table index: a bug that reads past
// the end of the owning slice is a programming error, not a user-facing
// one, so lookups by these ids are expected to panic rather than return an
// error.
package ids

// TypeID indexes into the type store.
type TypeID uint32

// ScopeID indexes into the scope tree.
type ScopeID uint32

// VariableID indexes into the variable table.
type VariableID uint32

// FunctionID indexes into the function table.
type FunctionID uint32

// NamespaceID indexes into the namespace table.
type NamespaceID uint32

// AbilityID indexes into the ability table. 0 and 1 are reserved for the
// built-in Equals and Bitwise abilities.
type AbilityID uint32

// AbilityImplID indexes into the ability-impl table.
type AbilityImplID uint32

// ConstantID indexes into the constant list.
type ConstantID uint32

const (
	// EqualsAbilityID is the reserved id of the built-in Equals ability.
	EqualsAbilityID AbilityID = 0
	// BitwiseAbilityID is the reserved id of the built-in Bitwise ability.
	BitwiseAbilityID AbilityID = 1
)

// NoScope is the zero value, used where a scope id is not yet assigned.
const NoScope ScopeID = 0

// InvalidType marks the absence of a type, distinct from any real TypeID
// (real ids start at 0 too, so code that needs "no type yet" uses a
// separate *TypeID or a bool rather than relying on this sentinel alone).
const InvalidType TypeID = ^TypeID(0)

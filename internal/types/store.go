package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kolemannix/bfl-sub000/internal/ident"
	"github.com/kolemannix/bfl-sub000/internal/ids"
)

// Reserved positions 0-12 of every fresh Store, in this exact order, per
// the external interface contract (spec §6 "Reserved type ids").
const (
	UNIT ids.TypeID = iota
	CHAR
	BOOL
	STRING
	NEVER
	U8
	U16
	U32
	U64
	I8
	I16
	I32
	I64
)

// Store interns and retrieves type structures by handle. It is the sole
// owner of the type table; nothing outside this package may construct a
// Type value and expect it to have a meaningful TypeID.
type Store struct {
	types []Type

	// Memoization tables for structural/singleton variants. Anonymous
	// struct/enum dedup is not attempted: spec §3 permits but does not
	// require it, and the cost of a structural hash for every field
	// isn't worth paying for a case the invariants don't demand.
	arrayMemo       map[ids.TypeID]ids.TypeID
	optionalMemo    map[ids.TypeID]ids.TypeID
	referenceMemo   map[ids.TypeID]ids.TypeID
	tagInstanceMemo map[ident.ID]ids.TypeID
	enumVariantIDs  map[ids.TypeID][]ids.TypeID
}

// NewStore creates a Store with the thirteen reserved built-in types
// already installed at their fixed positions.
func NewStore() *Store {
	s := &Store{
		arrayMemo:       make(map[ids.TypeID]ids.TypeID),
		optionalMemo:    make(map[ids.TypeID]ids.TypeID),
		referenceMemo:   make(map[ids.TypeID]ids.TypeID),
		tagInstanceMemo: make(map[ident.ID]ids.TypeID),
		enumVariantIDs:  make(map[ids.TypeID][]ids.TypeID),
	}
	s.types = append(s.types,
		&UnitType{},
		&CharType{},
		&BoolType{},
		&StringType{},
		&NeverType{},
		&IntType{Width: 8, Signed: false},
		&IntType{Width: 16, Signed: false},
		&IntType{Width: 32, Signed: false},
		&IntType{Width: 64, Signed: false},
		&IntType{Width: 8, Signed: true},
		&IntType{Width: 16, Signed: true},
		&IntType{Width: 32, Signed: true},
		&IntType{Width: 64, Signed: true},
	)
	if len(s.types) != 13 {
		panic("types: reserved built-in table must have exactly 13 entries")
	}
	return s
}

func (s *Store) alloc(t Type) ids.TypeID {
	id := ids.TypeID(len(s.types))
	s.types = append(s.types, t)
	return id
}

// Get returns the Type behind id. Panics on an id this Store never issued.
func (s *Store) Get(id ids.TypeID) Type {
	if int(id) >= len(s.types) {
		panic(fmt.Sprintf("types: unknown TypeID %d", id))
	}
	return s.types[id]
}

// Kind is shorthand for Get(id).Kind().
func (s *Store) Kind(id ids.TypeID) Kind {
	return s.Get(id).Kind()
}

// IntTypeID returns the fixed reserved id for the given width/signedness.
// Panics on an unsupported width; the parser/caller must only ever pass one
// of the eight supported widths.
func (s *Store) IntTypeID(width int, signed bool) ids.TypeID {
	switch {
	case width == 8 && !signed:
		return U8
	case width == 16 && !signed:
		return U16
	case width == 32 && !signed:
		return U32
	case width == 64 && !signed:
		return U64
	case width == 8 && signed:
		return I8
	case width == 16 && signed:
		return I16
	case width == 32 && signed:
		return I32
	case width == 64 && signed:
		return I64
	default:
		panic(fmt.Sprintf("types: unsupported integer width %d", width))
	}
}

// NewStruct allocates a new Struct type; anonymous structs are not
// deduplicated.
func (s *Store) NewStruct(fields []StructField, defn *DefnInfo) ids.TypeID {
	return s.alloc(&StructType{Fields: fields, Defn: defn})
}

// NewArray returns the Array type of element, memoized by element id.
func (s *Store) NewArray(element ids.TypeID) ids.TypeID {
	if id, ok := s.arrayMemo[element]; ok {
		return id
	}
	id := s.alloc(&ArrayType{Element: element})
	s.arrayMemo[element] = id
	return id
}

// NewOptional returns the Optional type of inner, memoized by inner id.
func (s *Store) NewOptional(inner ids.TypeID) ids.TypeID {
	if id, ok := s.optionalMemo[inner]; ok {
		return id
	}
	id := s.alloc(&OptionalType{Inner: inner})
	s.optionalMemo[inner] = id
	return id
}

// NewReference returns the Reference type of inner, memoized by inner id.
func (s *Store) NewReference(inner ids.TypeID) ids.TypeID {
	if id, ok := s.referenceMemo[inner]; ok {
		return id
	}
	id := s.alloc(&ReferenceType{Inner: inner})
	s.referenceMemo[inner] = id
	return id
}

// EnumVariantSpec describes one variant while an Enum is being built; the
// back-reference to the enum's own TypeID is filled in by NewEnum.
type EnumVariantSpec struct {
	TagName ident.ID
	Payload *ids.TypeID
}

// NewEnum allocates a new Enum type and its parallel EnumVariant subtypes,
// wiring each variant's back-reference to the freshly allocated enum id.
// Returns the enum's TypeID and, parallel to variants, the TypeID of each
// variant's EnumVariantType subtype.
func (s *Store) NewEnum(variants []EnumVariantSpec, defn *DefnInfo) (ids.TypeID, []ids.TypeID) {
	enumID := ids.TypeID(len(s.types))
	typed := make([]TypedEnumVariant, len(variants))
	variantIDs := make([]ids.TypeID, len(variants))
	for i, v := range variants {
		typed[i] = TypedEnumVariant{
			TagName:  v.TagName,
			Index:    i,
			Payload:  v.Payload,
			EnumType: enumID,
		}
	}
	s.types = append(s.types, &EnumType{Variants: typed, Defn: defn})
	for i, v := range variants {
		variantIDs[i] = s.alloc(&EnumVariantType{
			EnumType: enumID,
			TagName:  v.TagName,
			Index:    i,
			Payload:  v.Payload,
		})
	}
	s.enumVariantIDs[enumID] = variantIDs
	return enumID, variantIDs
}

// VariantTypeID returns the EnumVariantType id for the variant at index
// within enumID's variant list, as allocated by NewEnum.
func (s *Store) VariantTypeID(enumID ids.TypeID, index int) (ids.TypeID, bool) {
	list, ok := s.enumVariantIDs[enumID]
	if !ok || index < 0 || index >= len(list) {
		return 0, false
	}
	return list[index], true
}

// NewTagInstance returns the TagInstance type for tag, memoized per
// identifier as required by spec §4.2.
func (s *Store) NewTagInstance(tag ident.ID) ids.TypeID {
	if id, ok := s.tagInstanceMemo[tag]; ok {
		return id
	}
	id := s.alloc(&TagInstanceType{Tag: tag})
	s.tagInstanceMemo[tag] = id
	return id
}

// NewTypeVariable allocates a fresh type-variable binding. Reuse across
// lookups of the same name in the same scope is the caller's
// responsibility (via the scope tree), not this Store's.
func (s *Store) NewTypeVariable(name ident.ID, scope ids.ScopeID) ids.TypeID {
	return s.alloc(&TypeVariableType{Name: name, Scope: scope})
}

// NewGeneric allocates a new Generic schematic type.
func (s *Store) NewGeneric(params []GenericParam, inner ids.TypeID, defn *DefnInfo) ids.TypeID {
	return s.alloc(&GenericType{
		Params:          params,
		Inner:           inner,
		Defn:            defn,
		Specializations: make(map[string]ids.TypeID),
	})
}

// NewOpaqueAlias allocates a new opaque alias type.
func (s *Store) NewOpaqueAlias(aliasee ids.TypeID, defn *DefnInfo) ids.TypeID {
	return s.alloc(&OpaqueAliasType{Aliasee: aliasee, Defn: defn})
}

// SpecializationKey builds the memoization key for a tuple of concrete type
// arguments, used both to look up and to record a Generic's specialization.
func SpecializationKey(args []ids.TypeID) string {
	var b strings.Builder
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(a), 10))
	}
	return b.String()
}

// Lookup returns a previously memoized specialization of g for args, if any.
func (s *Store) Lookup(g *GenericType, args []ids.TypeID) (ids.TypeID, bool) {
	id, ok := g.Specializations[SpecializationKey(args)]
	return id, ok
}

// Remember memoizes that g instantiated with args produced result.
func (s *Store) Remember(g *GenericType, args []ids.TypeID, result ids.TypeID) {
	g.Specializations[SpecializationKey(args)] = result
}

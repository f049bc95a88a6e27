// Package ident interns source-level identifiers into small opaque handles.
//
// Interning is idempotent: calling Intern twice with the same string yields
// the same ID, and two IDs are equal iff the names they denote are equal.
// bfl is case-sensitive, so unlike the teacher compiler's ident package this
// one performs no case folding.
package ident

// ID is an opaque handle to an interned identifier.
type ID uint32

// Invalid is the zero value of ID; it is never returned by Intern.
const Invalid ID = 0

// Interner maps identifier strings to dense IDs and back.
type Interner struct {
	names []string
	ids   map[string]ID
}

// New creates an empty Interner. ID 0 is reserved as the invalid handle, so
// the first interned name receives ID 1.
func New() *Interner {
	return &Interner{
		names: []string{""},
		ids:   make(map[string]ID),
	}
}

// Intern returns the ID for name, allocating a new one on first sight.
func (in *Interner) Intern(name string) ID {
	if id, ok := in.ids[name]; ok {
		return id
	}
	id := ID(len(in.names))
	in.names = append(in.names, name)
	in.ids[name] = id
	return id
}

// Lookup returns the ID already assigned to name, if any.
func (in *Interner) Lookup(name string) (ID, bool) {
	id, ok := in.ids[name]
	return id, ok
}

// Name returns the string an ID denotes. Panics on an out-of-range or
// invalid ID, which indicates a bug in the caller: every live ID must have
// come from this same Interner's Intern method.
func (in *Interner) Name(id ID) string {
	if id == Invalid || int(id) >= len(in.names) {
		panic("ident: invalid identifier handle")
	}
	return in.names[id]
}

// Len reports how many distinct identifiers have been interned.
func (in *Interner) Len() int {
	return len(in.names) - 1
}

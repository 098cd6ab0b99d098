// Package interner implements process-wide string interning for
// identifiers and keyword text.
//
// Grounded on natrix-compiler/src/ctx.rs: each unique string is stored
// once and handed out as a small, comparable, copy-cheap Name. Equality
// and hashing of a Name are by identifier, not by the underlying text.
package interner

// Name is a dense identifier for an interned string. The zero Name is
// never produced by Intern and can be used as an "unset" sentinel.
type Name struct {
	id uint32
}

// Valid reports whether n was produced by an Interner (as opposed to
// being the zero value).
func (n Name) Valid() bool {
	return n.id != 0
}

// Interner deduplicates strings, handing back a lightweight Name that
// can be compared and hashed cheaply instead of the original text.
type Interner struct {
	strings []string
	index   map[string]Name
}

// New creates an empty interner.
func New() *Interner {
	return &Interner{index: make(map[string]Name)}
}

// Intern records s if it has not been seen before and returns its Name.
// Interning the same string twice returns the same Name both times.
func (in *Interner) Intern(s string) Name {
	if name, ok := in.index[s]; ok {
		return name
	}
	in.strings = append(in.strings, s)
	name := Name{id: uint32(len(in.strings))}
	in.index[s] = name
	return name
}

// Resolve returns the text behind a Name previously produced by Intern.
func (in *Interner) Resolve(n Name) string {
	return in.strings[n.id-1]
}

// Lookup returns the Name for s without interning it, if it is already
// known.
func (in *Interner) Lookup(s string) (Name, bool) {
	name, ok := in.index[s]
	return name, ok
}

package gamedb

// AliasKind selects how an alias replacement is applied.
type AliasKind int

const (
	AliasSimple  AliasKind = iota // plain substitution of the first word
	AliasComplex                  // separators and/or positional variables
)

// Alias is one user-defined shortcut.
type Alias struct {
	Name        string
	Replacement string
	Kind        AliasKind
}

// AliasList is a character's aliases, most recently defined first.
type AliasList []Alias

// InsertFront adds a at the head of the list.
func (l *AliasList) InsertFront(a Alias) {
	*l = append(*l, Alias{})
	copy((*l)[1:], *l)
	(*l)[0] = a
}

// Find returns the alias whose name equals name exactly.
func (l AliasList) Find(name string) (Alias, bool) {
	for _, a := range l {
		if a.Name == name {
			return a, true
		}
	}
	return Alias{}, false
}

// Remove deletes the alias named name and reports whether it existed.
func (l *AliasList) Remove(name string) bool {
	for i, a := range *l {
		if a.Name == name {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return true
		}
	}
	return false
}

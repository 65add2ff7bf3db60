package interp

import (
	"reflect"
	"sort"
	"strings"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// NotFound is returned by the lookups when no entry applies.
const NotFound = -1

// LevelDisabled as a MinLevel marks an entry nobody can use.
const LevelDisabled = -1

// Handler runs a command for an actor. cmd is the table index of the entry
// that matched and subcmd its SubCmd.
type Handler interface {
	Do(ch *gamedb.Character, arg string, cmd, subcmd int)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ch *gamedb.Character, arg string, cmd, subcmd int)

func (f HandlerFunc) Do(ch *gamedb.Character, arg string, cmd, subcmd int) {
	f(ch, arg, cmd, subcmd)
}

// Command is one entry of the command table.
type Command struct {
	Name        string
	SortAs      string
	MinPosition gamedb.Position
	Handler     Handler // nil: declared but not implemented
	MinLevel    int
	SubCmd      int
}

// Table is the immutable command table. Index 0 is a reserved entry that is
// never matched. Declaration order decides prefix ambiguity, so movement
// commands come first.
type Table struct {
	cmds   []Command
	sorted []int
	social Handler
}

// NewTable builds a table from cmds in declaration order. social is the
// shared handler of every social entry and must be of a comparable type.
func NewTable(social Handler, cmds []Command) *Table {
	t := &Table{
		cmds:   make([]Command, 0, len(cmds)+1),
		social: social,
	}
	t.cmds = append(t.cmds, Command{Name: "RESERVED", SortAs: "", MinPosition: gamedb.PosDead})
	t.cmds = append(t.cmds, cmds...)
	t.buildSortIndex()
	return t
}

// buildSortIndex orders the real entries by SortAs, falling back to Name.
func (t *Table) buildSortIndex() {
	t.sorted = make([]int, 0, len(t.cmds)-1)
	for i := 1; i < len(t.cmds); i++ {
		t.sorted = append(t.sorted, i)
	}
	sort.SliceStable(t.sorted, func(a, b int) bool {
		return t.cmds[t.sorted[a]].sortKey() < t.cmds[t.sorted[b]].sortKey()
	})
}

func (c Command) sortKey() string {
	if c.SortAs != "" {
		return c.SortAs
	}
	return c.Name
}

// Len returns the number of entries including the reserved one.
func (t *Table) Len() int { return len(t.cmds) }

// At returns entry i.
func (t *Table) At(i int) Command { return t.cmds[i] }

// Sorted returns the alphabetical permutation of the real entries.
func (t *Table) Sorted() []int {
	out := make([]int, len(t.sorted))
	copy(out, t.sorted)
	return out
}

// IsSocial reports whether entry i is handled by the shared social handler.
func (t *Table) IsSocial(i int) bool {
	return sameHandler(t.cmds[i].Handler, t.social)
}

// HandledBy reports whether entry i runs h.
func (t *Table) HandledBy(i int, h Handler) bool {
	return sameHandler(t.cmds[i].Handler, h)
}

// sameHandler compares handlers by identity. Handlers of non-comparable
// types (functions) never compare equal to anything.
func sameHandler(a, b Handler) bool {
	if a == nil || b == nil {
		return false
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// FindExact returns the index of the entry named exactly name.
func (t *Table) FindExact(name string) int {
	for i := 1; i < len(t.cmds); i++ {
		if t.cmds[i].Name == name {
			return i
		}
	}
	return NotFound
}

// Match returns the first entry, in declaration order, whose name starts with
// token and which level may use. Socials are only considered when no other
// entry matches.
func (t *Table) Match(token string, level int) int {
	if token == "" {
		return NotFound
	}
	if i := t.scan(token, level, false); i != NotFound {
		return i
	}
	return t.scan(token, level, true)
}

func (t *Table) scan(token string, level int, socials bool) int {
	for i := 1; i < len(t.cmds); i++ {
		c := &t.cmds[i]
		if c.MinLevel < 0 || c.MinLevel > level {
			continue
		}
		if t.IsSocial(i) != socials {
			continue
		}
		if strings.HasPrefix(c.Name, token) {
			return i
		}
	}
	return NotFound
}

// MaxSuggestDistance bounds the edit distance of "did you mean" candidates.
const MaxSuggestDistance = 2

// Suggest lists, in declaration order, entries usable at level that start
// with the same character as token and are within MaxSuggestDistance edits.
func (t *Table) Suggest(token string, level int) []string {
	tr := []rune(token)
	if len(tr) == 0 {
		return nil
	}
	var out []string
	for i := 1; i < len(t.cmds); i++ {
		c := &t.cmds[i]
		if c.MinLevel < 0 || c.MinLevel > level {
			continue
		}
		nr := []rune(c.Name)
		if len(nr) == 0 || nr[0] != tr[0] {
			continue
		}
		if levenshtein(tr, nr) <= MaxSuggestDistance {
			out = append(out, c.Name)
		}
	}
	return out
}

// levenshtein is the two-row edit distance between a and b.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

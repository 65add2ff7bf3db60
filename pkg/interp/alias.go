package interp

import (
	"fmt"
	"strings"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

const (
	aliasSepChar  = ';'
	aliasVarChar  = '$'
	aliasGlobChar = '*'

	// MaxAliasTokens is how many words of the typed line $1..$9 can reach.
	MaxAliasTokens = 9
)

// LineQueue receives the lines of a complex alias expansion. The caller
// must interpret those lines without resolving aliases again, or an alias
// naming itself would queue lines forever.
type LineQueue interface {
	// PushFront inserts lines ahead of everything queued, keeping their order.
	PushFront(lines ...string)
}

// AliasResult says what ResolveAlias did with a line.
type AliasResult int

const (
	// AliasNone: no alias applies; dispatch the line as typed.
	AliasNone AliasResult = iota
	// AliasReplaced: a simple alias rewrote the line; dispatch the returned line.
	AliasReplaced
	// AliasQueued: a complex alias queued its expansion; dispatch nothing now.
	AliasQueued
)

// ResolveAlias applies ch's alias for the first word of line, if any.
func (in *Interpreter) ResolveAlias(ch *gamedb.Character, line string, q LineQueue) (string, AliasResult) {
	if ch == nil || ch.IsNPC() || len(ch.Aliases) == 0 {
		return line, AliasNone
	}
	word, rest := AnyOneArg(line)
	a, ok := ch.Aliases.Find(word)
	if !ok {
		return line, AliasNone
	}
	if a.Kind == gamedb.AliasSimple {
		out := a.Replacement
		if rest = SkipSpaces(rest); rest != "" {
			out += " " + rest
		}
		return Truncate(out, in.maxInput), AliasReplaced
	}
	q.PushFront(ExpandAlias(a.Replacement, SkipSpaces(rest), in.maxInput)...)
	return "", AliasQueued
}

// ExpandAlias expands a complex alias template against the words typed after
// the alias. ';' separates commands, $1..$9 insert the Nth word, $* inserts
// everything typed and $$ is a literal '$'. A variable naming a missing word
// inserts nothing. Each line is cut to maxLen bytes.
func ExpandAlias(template, typed string, maxLen int) []string {
	tokens := strings.Fields(typed)
	if len(tokens) > MaxAliasTokens {
		tokens = tokens[:MaxAliasTokens]
	}

	var lines []string
	var b strings.Builder
	flush := func() {
		lines = append(lines, Truncate(b.String(), maxLen))
		b.Reset()
	}

	for i := 0; i < len(template); i++ {
		c := template[i]
		switch {
		case c == aliasSepChar:
			flush()
		case c == aliasVarChar:
			i++
			if i >= len(template) {
				break
			}
			v := template[i]
			switch {
			case v >= '1' && v <= '9':
				if n := int(v - '1'); n < len(tokens) {
					b.WriteString(tokens[n])
				}
			case v == aliasGlobChar:
				b.WriteString(typed)
			default:
				b.WriteByte(v)
			}
		default:
			b.WriteByte(c)
		}
	}
	flush()
	return lines
}

// aliasCommand is the alias management command.
type aliasCommand struct {
	in *Interpreter
}

// AliasCommand returns the handler for the alias management command. Its
// own table names can never be used as alias names.
func (in *Interpreter) AliasCommand() Handler { return in.alias }

func (a *aliasCommand) Do(ch *gamedb.Character, arg string, cmd, subcmd int) {
	if ch.IsNPC() {
		return
	}
	name, repl := AnyOneArg(arg)
	if name == "" {
		ch.Send(msgAliasHeader)
		if len(ch.Aliases) == 0 {
			ch.Send(msgAliasNone)
			return
		}
		for _, al := range ch.Aliases {
			ch.Send(fmt.Sprintf("%-15s %s", al.Name, al.Replacement))
		}
		return
	}

	repl = strings.TrimSpace(repl)
	if repl == "" {
		if ch.Aliases.Remove(name) {
			ch.Send(msgAliasDeleted)
		} else {
			ch.Send(msgAliasNoSuch)
		}
		return
	}
	if a.reserved(name) {
		ch.Send(fmt.Sprintf(msgAliasReserved, name))
		return
	}

	ch.Aliases.Remove(name)
	kind := gamedb.AliasSimple
	if strings.ContainsRune(repl, aliasSepChar) || strings.ContainsRune(repl, aliasVarChar) {
		kind = gamedb.AliasComplex
	}
	ch.Aliases.InsertFront(gamedb.Alias{
		Name:        name,
		Replacement: Truncate(repl, a.in.maxInput),
		Kind:        kind,
	})
	ch.Send(msgAliasAdded)
}

// reserved reports whether name is one of the alias command's own names.
func (a *aliasCommand) reserved(name string) bool {
	t := a.in.table
	if t == nil {
		return false
	}
	for i := 1; i < t.Len(); i++ {
		if t.HandledBy(i, a) && t.cmds[i].Name == name {
			return true
		}
	}
	return false
}

package interp

import (
	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// DefaultMaxInputLength bounds a single input line and every alias expansion.
const DefaultMaxInputLength = 512

// WordOrder selects how the command word is located in a line.
type WordOrder int

const (
	// VerbFinal tries the last word as the command first, then the line as typed.
	VerbFinal WordOrder = iota
	// VerbFirst always takes the first word.
	VerbFirst
)

// ParseWordOrder maps a config value to a WordOrder.
func ParseWordOrder(s string) WordOrder {
	if s == "verb-first" {
		return VerbFirst
	}
	return VerbFinal
}

// Outcome says where dispatch of one line stopped.
type Outcome int

const (
	OutcomeEmpty Outcome = iota
	OutcomeTrigger
	OutcomeNoMatch
	OutcomeFrozen
	OutcomeStub
	OutcomeNPC
	OutcomePosition
	OutcomeSpecial
	OutcomeHandled
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeTrigger:
		return "trigger"
	case OutcomeNoMatch:
		return "no_match"
	case OutcomeFrozen:
		return "frozen"
	case OutcomeStub:
		return "stub"
	case OutcomeNPC:
		return "npc"
	case OutcomePosition:
		return "position"
	case OutcomeSpecial:
		return "special"
	case OutcomeHandled:
		return "handled"
	default:
		return "unknown"
	}
}

// Dispatch describes one dispatched line. It is captured before the handler
// runs, so it stays meaningful if the actor is extracted by its command.
type Dispatch struct {
	Actor    string
	PlayerID gamedb.PlayerID
	Level    int
	Index    int
	Command  string
	MinLevel int
	Arg      string
	Outcome  Outcome
}

// Options configure an Interpreter.
type Options struct {
	FillWords      []string
	WordOrder      WordOrder
	MaxInputLength int
	NoSpecials     bool
	Logger         *zap.Logger
	// OnDispatch, if set, is called after every non-empty line.
	OnDispatch func(Dispatch)
}

// Interpreter turns input lines into command handler calls. It runs on the
// game thread only.
type Interpreter struct {
	table      *Table
	world      *gamedb.World
	tok        *Tokenizer
	log        *zap.Logger
	order      WordOrder
	maxInput   int
	noSpecials bool
	onDispatch func(Dispatch)
	alias      *aliasCommand
}

// New returns an interpreter over table and world.
func New(table *Table, world *gamedb.World, opts Options) *Interpreter {
	in := &Interpreter{
		table:      table,
		world:      world,
		tok:        NewTokenizer(opts.FillWords),
		log:        opts.Logger,
		order:      opts.WordOrder,
		maxInput:   opts.MaxInputLength,
		noSpecials: opts.NoSpecials,
		onDispatch: opts.OnDispatch,
	}
	if in.log == nil {
		in.log = zap.NewNop()
	}
	if in.maxInput <= 0 {
		in.maxInput = DefaultMaxInputLength
	}
	in.alias = &aliasCommand{in: in}
	return in
}

// Table returns the command table.
func (in *Interpreter) Table() *Table { return in.table }

// Tokenizer returns the argument tokenizer handlers should use.
func (in *Interpreter) Tokenizer() *Tokenizer { return in.tok }

// SetTable replaces the command table. Tables that contain the alias
// command are built after the interpreter, so this runs once at startup.
func (in *Interpreter) SetTable(t *Table) { in.table = t }

// parse locates the command word, the remainder and the matching entry.
func (in *Interpreter) parse(ch *gamedb.Character, line string) (word, rest string, cmd int) {
	if in.order == VerbFinal {
		if re := ReorderVerbFinal(line); re != line {
			w, r := splitCommand(re)
			if c := in.table.Match(w, ch.Level); c != NotFound {
				return w, r, c
			}
		}
	}
	word, rest = splitCommand(line)
	return word, rest, in.table.Match(word, ch.Level)
}

// Interpret runs one line for ch through triggers, the command table, the
// permission gates and special procedures, then calls the handler.
func (in *Interpreter) Interpret(ch *gamedb.Character, line string) Outcome {
	if ch == nil {
		in.log.Error("interpret: nil actor", zap.String("line", line))
		return OutcomeEmpty
	}
	line = SkipSpaces(line)
	if line == "" {
		return OutcomeEmpty
	}

	word, rest, cmd := in.parse(ch, line)
	d := Dispatch{
		Actor:    ch.Name,
		PlayerID: ch.PlayerID,
		Level:    ch.Level,
		Index:    cmd,
		Command:  word,
		Arg:      rest,
	}
	if cmd != NotFound {
		d.Command = in.table.cmds[cmd].Name
		d.MinLevel = in.table.cmds[cmd].MinLevel
	}
	d.Outcome = in.dispatch(ch, word, rest, cmd)
	if in.onDispatch != nil {
		in.onDispatch(d)
	}
	return d.Outcome
}

func (in *Interpreter) dispatch(ch *gamedb.Character, word, rest string, cmd int) Outcome {
	if ch.Level < gamedb.LvlImmort && in.runTriggers(ch, word, rest) {
		return OutcomeTrigger
	}

	if cmd == NotFound {
		ch.Send(msgHuh)
		if cands := in.table.Suggest(word, ch.Level); len(cands) > 0 {
			ch.Send(msgDidYouMean)
			for _, name := range cands {
				ch.Send("  " + name)
			}
		}
		return OutcomeNoMatch
	}

	c := &in.table.cmds[cmd]
	switch {
	case ch.Has(gamedb.PlrFrozen) && ch.Level < gamedb.LvlImpl:
		ch.Send(msgFrozen)
		return OutcomeFrozen
	case c.Handler == nil:
		ch.Send(msgStub)
		return OutcomeStub
	case ch.IsNPC() && c.MinLevel >= gamedb.LvlImmort:
		ch.Send(msgNPCDenied)
		return OutcomeNPC
	case ch.Position < c.MinPosition:
		ch.Send(PositionMessage(ch.Position))
		return OutcomePosition
	}

	if !in.noSpecials && in.runSpecials(ch, cmd, rest) {
		return OutcomeSpecial
	}
	c.Handler.Do(ch, rest, cmd, c.SubCmd)
	return OutcomeHandled
}

// runTriggers offers the command to room, mobile and object triggers in that
// order. A hook that extracts the actor ends dispatch as if it had consumed
// the command.
func (in *Interpreter) runTriggers(ch *gamedb.Character, word, rest string) bool {
	fire := func(ts []gamedb.CommandTrigger) bool {
		for _, t := range ts {
			if t.CommandTrigger(ch, word, rest) || !in.world.IsLive(ch) {
				return true
			}
		}
		return false
	}

	here := ch.Room
	room := in.world.Room(here)
	if room != nil && fire(room.Triggers) {
		return true
	}
	for _, k := range in.world.PeopleIn(here) {
		if k == ch || !in.world.IsLive(k) {
			continue
		}
		if fire(k.Triggers) {
			return true
		}
	}
	for _, obj := range ch.Equipment {
		if fire(obj.Triggers) {
			return true
		}
	}
	for _, obj := range ch.Inventory {
		if fire(obj.Triggers) {
			return true
		}
	}
	if room != nil {
		for _, obj := range append([]*gamedb.Object(nil), room.Objects...) {
			if fire(obj.Triggers) {
				return true
			}
		}
	}
	return false
}

// runSpecials offers the command to special procedures: the room, worn
// items, carried items, other characters present and objects present. The
// first one to consume it ends the chain.
func (in *Interpreter) runSpecials(ch *gamedb.Character, cmd int, rest string) bool {
	call := func(sp gamedb.SpecialProc, me any) bool {
		if sp == nil {
			return false
		}
		return sp.Special(ch, me, cmd, rest) || !in.world.IsLive(ch)
	}

	room := in.world.Room(ch.Room)
	if room != nil && call(room.Spec, room) {
		return true
	}
	for _, obj := range append([]*gamedb.Object(nil), ch.Equipment...) {
		if call(obj.Spec, obj) {
			return true
		}
	}
	for _, obj := range append([]*gamedb.Object(nil), ch.Inventory...) {
		if call(obj.Spec, obj) {
			return true
		}
	}
	if room == nil {
		return false
	}
	for _, k := range in.world.PeopleIn(room.Vnum) {
		if k == ch || !in.world.IsLive(k) {
			continue
		}
		if call(k.Spec, k) {
			return true
		}
	}
	for _, obj := range append([]*gamedb.Object(nil), room.Objects...) {
		if call(obj.Spec, obj) {
			return true
		}
	}
	return false
}

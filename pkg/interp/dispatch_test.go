package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

func TestInterpretWhitespaceOnly(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, out := env.player("철수")
	assert.Equal(t, OutcomeEmpty, env.in.Interpret(ch, "   "))
	assert.Equal(t, OutcomeEmpty, env.in.Interpret(ch, "　"))
	assert.Empty(t, out.lines)
	assert.Empty(t, env.move.calls)
	assert.Empty(t, env.log)
}

func TestInterpretNilActor(t *testing.T) {
	env := newTestEnv(VerbFinal)
	assert.Equal(t, OutcomeEmpty, env.in.Interpret(nil, "look"))
}

func TestInterpretDirection(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, out := env.player("철수")
	require.Equal(t, OutcomeHandled, env.in.Interpret(ch, "n"))
	require.Len(t, env.move.calls, 1)
	c := env.move.calls[0]
	assert.Same(t, ch, c.ch)
	assert.Equal(t, "", c.arg)
	assert.Equal(t, env.index("north"), c.cmd)
	assert.Equal(t, 1, c.subcmd)
	assert.Empty(t, out.lines)
}

func TestInterpretFrozen(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, out := env.player("철수")
	ch.Set(gamedb.PlrFrozen, true)
	assert.Equal(t, OutcomeFrozen, env.in.Interpret(ch, "say hello"))
	assert.Equal(t, []string{msgFrozen}, out.lines)
	assert.Empty(t, env.say.calls)

	// the highest tier is never locked out
	ch.Level = gamedb.LvlImpl
	out.lines = nil
	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "say hello"))
	require.Len(t, env.say.calls, 1)
	assert.Equal(t, "hello", env.say.calls[0].arg)
}

func TestInterpretNoMatchSuggests(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, out := env.player("철수")
	assert.Equal(t, OutcomeNoMatch, env.in.Interpret(ch, "ux"))
	assert.Equal(t, []string{msgHuh, msgDidYouMean, "  up"}, out.lines)

	out.lines = nil
	env.in.Interpret(ch, "xyzzy")
	assert.Equal(t, []string{msgHuh}, out.lines)
}

func TestInterpretStub(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, out := env.player("철수")
	assert.Equal(t, OutcomeStub, env.in.Interpret(ch, "score"))
	assert.Equal(t, []string{msgStub}, out.lines)
}

func TestInterpretNPCRestricted(t *testing.T) {
	env := newTestEnv(VerbFinal)
	mob, out := env.player("경비병")
	mob.NPC = true
	mob.Level = gamedb.LvlGod
	assert.Equal(t, OutcomeNPC, env.in.Interpret(mob, "goto 3001"))
	assert.Equal(t, []string{msgNPCDenied}, out.lines)
	assert.Empty(t, env.admin.calls)

	// ordinary commands are fine
	assert.Equal(t, OutcomeHandled, env.in.Interpret(mob, "look"))
}

func TestInterpretPositionMessages(t *testing.T) {
	tests := []struct {
		pos  gamedb.Position
		line string
	}{
		{gamedb.PosDead, "look"},
		{gamedb.PosMortallyWounded, "look"},
		{gamedb.PosIncapacitated, "look"},
		{gamedb.PosStunned, "look"},
		{gamedb.PosSleeping, "look"},
		{gamedb.PosResting, "north"},
		{gamedb.PosSitting, "north"},
		{gamedb.PosFighting, "north"},
	}
	for _, tt := range tests {
		env := newTestEnv(VerbFinal)
		ch, out := env.player("철수")
		ch.Position = tt.pos
		assert.Equal(t, OutcomePosition, env.in.Interpret(ch, tt.line), tt.pos.String())
		assert.Equal(t, []string{PositionMessage(tt.pos)}, out.lines, tt.pos.String())
		assert.Empty(t, env.move.calls)
		assert.Empty(t, env.look.calls)
	}
	assert.NotEqual(t, PositionMessage(gamedb.PosSitting), PositionMessage(gamedb.PosFighting))
	assert.Equal(t, msgNoPosition, PositionMessage(gamedb.PosStanding))
}

func TestInterpretTriggerShortCircuit(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, out := env.player("철수")
	ch.Set(gamedb.PlrFrozen, true)
	ch.Position = gamedb.PosSleeping

	var seen []string
	env.world.Room(testRoom).Triggers = []gamedb.CommandTrigger{
		gamedb.TriggerFunc(func(actor *gamedb.Character, cmd, arg string) bool {
			seen = append(seen, cmd+"|"+arg)
			return cmd == "north"
		}),
	}
	assert.Equal(t, OutcomeTrigger, env.in.Interpret(ch, "north now"))
	assert.Equal(t, []string{"north|now"}, seen)
	assert.Empty(t, env.move.calls)
	assert.Empty(t, out.lines)

	// not consumed: the gates run as usual
	assert.Equal(t, OutcomeFrozen, env.in.Interpret(ch, "look"))
}

func TestInterpretTriggerOrder(t *testing.T) {
	env := newTestEnv(VerbFirst)
	ch, _ := env.player("철수")
	var order []string
	hook := func(name string, consume bool) gamedb.CommandTrigger {
		return gamedb.TriggerFunc(func(*gamedb.Character, string, string) bool {
			order = append(order, name)
			return consume
		})
	}
	mob, _ := env.player("상인")
	mob.NPC = true
	env.world.Room(testRoom).Triggers = []gamedb.CommandTrigger{hook("room", false)}
	mob.Triggers = []gamedb.CommandTrigger{hook("mob", false)}
	ch.Inventory = []*gamedb.Object{{Name: "부적", Triggers: []gamedb.CommandTrigger{hook("obj", true)}}}
	env.world.Room(testRoom).Objects = []*gamedb.Object{{Name: "석상", Triggers: []gamedb.CommandTrigger{hook("roomobj", false)}}}

	assert.Equal(t, OutcomeTrigger, env.in.Interpret(ch, "look"))
	assert.Equal(t, []string{"room", "mob", "obj"}, order)
}

func TestInterpretImmortalsSkipTriggers(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, _ := env.player("관리자")
	ch.Level = gamedb.LvlImmort
	env.world.Room(testRoom).Triggers = []gamedb.CommandTrigger{
		gamedb.TriggerFunc(func(*gamedb.Character, string, string) bool { return true }),
	}
	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "look"))
	assert.Len(t, env.look.calls, 1)
}

func TestInterpretTriggerExtractsActor(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, _ := env.player("철수")
	env.world.Room(testRoom).Triggers = []gamedb.CommandTrigger{
		gamedb.TriggerFunc(func(actor *gamedb.Character, _, _ string) bool {
			env.world.Extract(actor)
			return false
		}),
	}
	assert.Equal(t, OutcomeTrigger, env.in.Interpret(ch, "look"))
	assert.Empty(t, env.look.calls)
}

func TestInterpretSpecials(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, _ := env.player("철수")
	var order []string
	spec := func(name string, consume bool) gamedb.SpecialProc {
		return gamedb.SpecialFunc(func(actor *gamedb.Character, me any, cmd int, arg string) bool {
			order = append(order, name)
			return consume
		})
	}
	room := env.world.Room(testRoom)
	room.Spec = spec("room", false)
	ch.Equipment = []*gamedb.Object{{Name: "반지", Spec: spec("worn", false)}}
	ch.Inventory = []*gamedb.Object{{Name: "두루마리", Spec: spec("carried", true)}}
	mob, _ := env.player("상인")
	mob.NPC = true
	mob.Spec = spec("mob", true)

	assert.Equal(t, OutcomeSpecial, env.in.Interpret(ch, "look"))
	assert.Equal(t, []string{"room", "worn", "carried"}, order)
	assert.Empty(t, env.look.calls)

	ch.Inventory = nil
	order = nil
	assert.Equal(t, OutcomeSpecial, env.in.Interpret(ch, "look"))
	assert.Equal(t, []string{"room", "worn", "mob"}, order)
}

func TestInterpretSpecialsSkipActor(t *testing.T) {
	env := newTestEnv(VerbFinal)
	var order []string
	spec := func(name string) gamedb.SpecialProc {
		return gamedb.SpecialFunc(func(actor *gamedb.Character, me any, cmd int, arg string) bool {
			order = append(order, name)
			return true
		})
	}
	guard, _ := env.player("경비병")
	guard.NPC = true
	guard.Spec = spec("self")
	merchant, _ := env.player("상인")
	merchant.NPC = true
	merchant.Spec = spec("merchant")

	assert.Equal(t, OutcomeSpecial, env.in.Interpret(guard, "look"))
	assert.Equal(t, []string{"merchant"}, order, "only other characters present are offered the command")

	order = nil
	env.world.Extract(merchant)
	assert.Equal(t, OutcomeHandled, env.in.Interpret(guard, "look"))
	assert.Empty(t, order)
	assert.Len(t, env.look.calls, 1)
}

func TestInterpretSpecialReceivesSubject(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, _ := env.player("철수")
	room := env.world.Room(testRoom)
	var gotMe any
	var gotCmd int
	room.Spec = gamedb.SpecialFunc(func(actor *gamedb.Character, me any, cmd int, arg string) bool {
		gotMe, gotCmd = me, cmd
		return arg == "secret"
	})
	assert.Equal(t, OutcomeSpecial, env.in.Interpret(ch, "say secret"))
	assert.Same(t, room, gotMe)
	assert.Equal(t, env.index("say"), gotCmd)
	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "say hi"))
}

func TestInterpretNoSpecials(t *testing.T) {
	env := newTestEnv(VerbFinal)
	env.in.noSpecials = true
	ch, _ := env.player("철수")
	env.world.Room(testRoom).Spec = gamedb.SpecialFunc(func(*gamedb.Character, any, int, string) bool { return true })
	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "look"))
}

func TestInterpretVerbFinal(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, _ := env.player("철수")
	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "고블린 죽여"))
	require.Len(t, env.kill.calls, 1)
	assert.Equal(t, "고블린", env.kill.calls[0].arg)

	// verb-first input still works when the last word is not a command
	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "kill troll"))
	require.Len(t, env.kill.calls, 2)
	assert.Equal(t, "troll", env.kill.calls[1].arg)

	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "'hello there"))
	assert.Equal(t, "hello there", env.say.calls[0].arg)
}

func TestInterpretVerbFirst(t *testing.T) {
	env := newTestEnv(VerbFirst)
	ch, _ := env.player("철수")
	assert.Equal(t, OutcomeNoMatch, env.in.Interpret(ch, "고블린 죽여"))
	assert.Empty(t, env.kill.calls)
}

func TestInterpretHandlerMayExtractActor(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, _ := env.player("철수")
	env.move.then = func(actor *gamedb.Character) { env.world.Extract(actor) }
	assert.Equal(t, OutcomeHandled, env.in.Interpret(ch, "n"))
	require.Len(t, env.log, 1)
	assert.Equal(t, "철수", env.log[0].Actor)
	assert.Equal(t, "north", env.log[0].Command)
	assert.False(t, env.world.IsLive(ch))
}

func TestOnDispatchRecord(t *testing.T) {
	env := newTestEnv(VerbFinal)
	ch, _ := env.player("철수")
	ch.Level = gamedb.LvlImmort
	env.in.Interpret(ch, "goto 3001")
	env.in.Interpret(ch, "blorp")
	require.Len(t, env.log, 2)
	assert.Equal(t, Dispatch{
		Actor: "철수", PlayerID: gamedb.NoPlayer, Level: gamedb.LvlImmort,
		Index: env.index("goto"), Command: "goto", MinLevel: gamedb.LvlImmort,
		Arg: "3001", Outcome: OutcomeHandled,
	}, env.log[0])
	assert.Equal(t, NotFound, env.log[1].Index)
	assert.Equal(t, "blorp", env.log[1].Command)
	assert.Equal(t, OutcomeNoMatch, env.log[1].Outcome)
}

func TestParseWordOrder(t *testing.T) {
	assert.Equal(t, VerbFirst, ParseWordOrder("verb-first"))
	assert.Equal(t, VerbFinal, ParseWordOrder("verb-final"))
	assert.Equal(t, VerbFinal, ParseWordOrder(""))
	assert.Equal(t, "no_match", OutcomeNoMatch.String())
}

package server

import (
	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
	"github.com/haneul-mud/haneul/pkg/socials"
)

// Sub-commands.
const (
	scmdNorth = iota + 1
	scmdEast
	scmdSouth
	scmdWest
	scmdUp
	scmdDown
)

const (
	scmdQui = iota
	scmdQuit
)

const (
	scmdFreeze = iota
	scmdThaw
)

const (
	scmdCommands = iota
	scmdSocials
)

const (
	scmdShutdow = iota
	scmdShutdown
)

// commandTable builds the command table. Order decides which command an
// abbreviation picks, so directions come first, then the commands players
// type most, with the Korean name ahead of the English one.
func (g *Game) commandTable(social *socials.Handler) *interp.Table {
	h := func(fn func(ch *gamedb.Character, arg string, cmd, subcmd int)) interp.Handler {
		return interp.HandlerFunc(fn)
	}
	move := h(g.doMove)
	look := h(g.doLook)
	say := h(g.doSay)
	gossip := h(g.doGossip)
	wiznet := h(g.doWiznet)
	who := h(g.doWho)
	commands := h(g.doCommands)
	help := h(g.doHelp)
	sit := h(g.doSit)
	rest := h(g.doRest)
	sleep := h(g.doSleep)
	stand := h(g.doStand)
	wake := h(g.doWake)
	save := h(g.doSave)
	quit := h(g.doQuit)
	wizutil := h(g.doWizutil)
	sw := h(g.doSwitch)
	ret := h(g.doReturn)
	last := h(g.doLast)
	title := h(g.doTitle)
	prefs := h(g.doPrefs)
	shutdown := h(g.doShutdown)
	alias := g.Interp.AliasCommand()

	cmds := []interp.Command{
		{Name: "북", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdNorth},
		{Name: "동", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdEast},
		{Name: "남", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdSouth},
		{Name: "서", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdWest},
		{Name: "위", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdUp},
		{Name: "밑", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdDown},
		{Name: "north", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdNorth},
		{Name: "east", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdEast},
		{Name: "south", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdSouth},
		{Name: "west", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdWest},
		{Name: "up", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdUp},
		{Name: "down", MinPosition: gamedb.PosStanding, Handler: move, SubCmd: scmdDown},

		{Name: "봐", MinPosition: gamedb.PosResting, Handler: look},
		{Name: "look", SortAs: "lo", MinPosition: gamedb.PosResting, Handler: look},
		{Name: "말", MinPosition: gamedb.PosResting, Handler: say},
		{Name: "say", MinPosition: gamedb.PosResting, Handler: say},
		{Name: "'", MinPosition: gamedb.PosResting, Handler: say},
		{Name: "잡담", MinPosition: gamedb.PosSleeping, Handler: gossip},
		{Name: "gossip", MinPosition: gamedb.PosSleeping, Handler: gossip},
		{Name: ";", MinPosition: gamedb.PosDead, Handler: wiznet, MinLevel: gamedb.LvlImmort},
		{Name: "wiznet", MinPosition: gamedb.PosDead, Handler: wiznet, MinLevel: gamedb.LvlImmort},
		{Name: "누구", MinPosition: gamedb.PosDead, Handler: who},
		{Name: "who", MinPosition: gamedb.PosDead, Handler: who},
		{Name: "명령어", MinPosition: gamedb.PosDead, Handler: commands, SubCmd: scmdCommands},
		{Name: "commands", MinPosition: gamedb.PosDead, Handler: commands, SubCmd: scmdCommands},
		{Name: "동작", MinPosition: gamedb.PosDead, Handler: commands, SubCmd: scmdSocials},
		{Name: "socials", MinPosition: gamedb.PosDead, Handler: commands, SubCmd: scmdSocials},
		{Name: "도움말", MinPosition: gamedb.PosDead, Handler: help},
		{Name: "help", MinPosition: gamedb.PosDead, Handler: help},
		{Name: "줄임말", MinPosition: gamedb.PosDead, Handler: alias},
		{Name: "alias", MinPosition: gamedb.PosDead, Handler: alias},

		{Name: "앉아", MinPosition: gamedb.PosResting, Handler: sit},
		{Name: "sit", MinPosition: gamedb.PosResting, Handler: sit},
		{Name: "쉬어", MinPosition: gamedb.PosResting, Handler: rest},
		{Name: "rest", MinPosition: gamedb.PosResting, Handler: rest},
		{Name: "자", MinPosition: gamedb.PosSleeping, Handler: sleep},
		{Name: "sleep", MinPosition: gamedb.PosSleeping, Handler: sleep},
		{Name: "일어나", MinPosition: gamedb.PosResting, Handler: stand},
		{Name: "stand", MinPosition: gamedb.PosResting, Handler: stand},
		{Name: "깨어", MinPosition: gamedb.PosSleeping, Handler: wake},
		{Name: "wake", MinPosition: gamedb.PosSleeping, Handler: wake},

		{Name: "점수", MinPosition: gamedb.PosDead},
		{Name: "score", MinPosition: gamedb.PosDead},
		{Name: "소지품", MinPosition: gamedb.PosDead},
		{Name: "inventory", MinPosition: gamedb.PosDead},
		{Name: "장비", MinPosition: gamedb.PosSleeping},
		{Name: "equipment", MinPosition: gamedb.PosSleeping},
		{Name: "죽여", MinPosition: gamedb.PosFighting},
		{Name: "kill", MinPosition: gamedb.PosFighting},
		{Name: "주워", MinPosition: gamedb.PosResting},
		{Name: "get", MinPosition: gamedb.PosResting},

		{Name: "저장", MinPosition: gamedb.PosSleeping, Handler: save},
		{Name: "save", MinPosition: gamedb.PosSleeping, Handler: save},
		{Name: "칭호", MinPosition: gamedb.PosDead, Handler: title},
		{Name: "title", MinPosition: gamedb.PosDead, Handler: title},
		{Name: "설정", MinPosition: gamedb.PosDead, Handler: prefs},
		{Name: "prefs", MinPosition: gamedb.PosDead, Handler: prefs},
		{Name: "qui", MinPosition: gamedb.PosDead, Handler: quit, SubCmd: scmdQui},
		{Name: "quit", MinPosition: gamedb.PosDead, Handler: quit, SubCmd: scmdQuit},
		{Name: "끝", MinPosition: gamedb.PosDead, Handler: quit, SubCmd: scmdQuit},

		{Name: "접속기록", MinPosition: gamedb.PosDead, Handler: last, MinLevel: gamedb.LvlGod},
		{Name: "last", MinPosition: gamedb.PosDead, Handler: last, MinLevel: gamedb.LvlGod},
		{Name: "얼려", MinPosition: gamedb.PosDead, Handler: wizutil, MinLevel: gamedb.LvlGrGod, SubCmd: scmdFreeze},
		{Name: "freeze", MinPosition: gamedb.PosDead, Handler: wizutil, MinLevel: gamedb.LvlGrGod, SubCmd: scmdFreeze},
		{Name: "녹여", MinPosition: gamedb.PosDead, Handler: wizutil, MinLevel: gamedb.LvlGrGod, SubCmd: scmdThaw},
		{Name: "thaw", MinPosition: gamedb.PosDead, Handler: wizutil, MinLevel: gamedb.LvlGrGod, SubCmd: scmdThaw},
		{Name: "변신", MinPosition: gamedb.PosDead, Handler: sw, MinLevel: gamedb.LvlGrGod},
		{Name: "switch", MinPosition: gamedb.PosDead, Handler: sw, MinLevel: gamedb.LvlGrGod},
		{Name: "복귀", MinPosition: gamedb.PosDead, Handler: ret},
		{Name: "return", MinPosition: gamedb.PosDead, Handler: ret},
		{Name: "olc", MinPosition: gamedb.PosDead, MinLevel: interp.LevelDisabled},
		{Name: "zreset", MinPosition: gamedb.PosDead, MinLevel: interp.LevelDisabled},
		{Name: "shutdow", MinPosition: gamedb.PosDead, Handler: shutdown, MinLevel: gamedb.LvlImpl, SubCmd: scmdShutdow},
		{Name: "shutdown", MinPosition: gamedb.PosDead, Handler: shutdown, MinLevel: gamedb.LvlImpl, SubCmd: scmdShutdown},
	}
	cmds = append(cmds, g.Socials.Commands(social)...)
	return interp.NewTable(social, cmds)
}

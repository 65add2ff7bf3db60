package server

import (
	"fmt"
	"strings"

	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/oob"
)

const (
	msgCantGo       = "그쪽으로는 갈 수 없습니다."
	msgLeaves       = "%s님이 %s쪽으로 떠났습니다."
	msgArrives      = "%s님이 도착했습니다."
	msgNowhere      = "당신은 허공에 떠 있습니다."
	msgExits        = "[ 출구: %s ]"
	msgNoExits      = "[ 출구: 없음 ]"
	msgIsHere       = "%s님이 여기 있습니다."
	msgIsHereTitled = "%s %s님이 여기 있습니다."
)

func (g *Game) doMove(ch *gamedb.Character, arg string, cmd, subcmd int) {
	dir := gamedb.Direction(subcmd - 1)
	if dir < 0 || dir >= gamedb.NumDirs {
		ch.Send(msgCantGo)
		return
	}
	room := g.World.Room(ch.Room)
	if room == nil || room.Exits[dir] == nil || g.World.Room(room.Exits[dir].To) == nil {
		ch.Send(msgCantGo)
		return
	}
	to := room.Exits[dir].To

	g.toRoom(ch, fmt.Sprintf(msgLeaves, ch.Name, dir))
	g.World.CharToRoom(ch, to)
	g.toRoom(ch, fmt.Sprintf(msgArrives, ch.Name))
	if !g.greet(ch, to) {
		return
	}
	g.look(ch)
}

func (g *Game) doLook(ch *gamedb.Character, arg string, cmd, subcmd int) {
	g.look(ch)
}

// look shows ch the room it stands in.
func (g *Game) look(ch *gamedb.Character) {
	room := g.World.Room(ch.Room)
	if room == nil {
		ch.Send(msgNowhere)
		return
	}
	ch.Send(room.Name)
	if !ch.Pref(gamedb.PrfBrief) && room.Description != "" {
		ch.Send(strings.TrimRight(room.Description, "\r\n"))
	}
	ch.Send(exitLine(room))
	for _, obj := range room.Objects {
		ch.Send(obj.Name)
	}
	for _, p := range room.People {
		if p == ch {
			continue
		}
		ch.Send(describePerson(p))
	}
	if d := descOf(ch); d != nil && d.OOB != nil && d.OOB.GMCP {
		d.SendRaw(oob.EncodeGMCPRoomInfo(room))
	}
}

func exitLine(room *gamedb.Room) string {
	var names []string
	for dir, ex := range room.Exits {
		if ex != nil {
			names = append(names, gamedb.Direction(dir).String())
		}
	}
	if len(names) == 0 {
		return msgNoExits
	}
	return fmt.Sprintf(msgExits, strings.Join(names, " "))
}

func describePerson(p *gamedb.Character) string {
	if !p.IsNPC() && p.Title != "" {
		return fmt.Sprintf(msgIsHereTitled, p.Title, p.Name)
	}
	line := fmt.Sprintf(msgIsHere, p.Name)
	switch {
	case p.Position == gamedb.PosStanding:
	case p.Position >= gamedb.PosSleeping:
		line = fmt.Sprintf("%s님이 여기서 %s 상태입니다.", p.Name, p.Position)
	}
	if !p.IsNPC() && p.Link == nil {
		line += " (연결 끊김)"
	}
	return line
}

func (g *Game) doStand(ch *gamedb.Character, arg string, cmd, subcmd int) {
	switch ch.Position {
	case gamedb.PosStanding:
		ch.Send("이미 서 있습니다.")
	case gamedb.PosSitting, gamedb.PosResting:
		ch.Send("일어섭니다.")
		g.toRoom(ch, fmt.Sprintf("%s님이 일어섭니다.", ch.Name))
		ch.Position = gamedb.PosStanding
	case gamedb.PosSleeping:
		ch.Send("먼저 깨어나야 합니다!")
	case gamedb.PosFighting:
		ch.Send("이미 싸우고 있어요! 일어서 있는 게 당연하죠.")
	default:
		ch.Send("몸을 가누지 못해 비틀거립니다.")
	}
}

func (g *Game) doSit(ch *gamedb.Character, arg string, cmd, subcmd int) {
	switch ch.Position {
	case gamedb.PosStanding, gamedb.PosResting:
		ch.Send("자리에 앉습니다.")
		g.toRoom(ch, fmt.Sprintf("%s님이 자리에 앉습니다.", ch.Name))
		ch.Position = gamedb.PosSitting
	case gamedb.PosSitting:
		ch.Send("이미 앉아 있습니다.")
	case gamedb.PosSleeping:
		ch.Send("먼저 깨어나야 합니다.")
	case gamedb.PosFighting:
		ch.Send("싸우는 중에 앉다니요?")
	default:
		ch.Send("이미 바닥에 쓰러져 있습니다.")
	}
}

func (g *Game) doRest(ch *gamedb.Character, arg string, cmd, subcmd int) {
	switch ch.Position {
	case gamedb.PosStanding, gamedb.PosSitting:
		ch.Send("편안하게 쉽니다.")
		g.toRoom(ch, fmt.Sprintf("%s님이 편안하게 쉽니다.", ch.Name))
		ch.Position = gamedb.PosResting
	case gamedb.PosResting:
		ch.Send("이미 쉬고 있습니다.")
	case gamedb.PosSleeping:
		ch.Send("먼저 깨어나야 합니다.")
	case gamedb.PosFighting:
		ch.Send("싸우는 중에 쉬다니요?")
	default:
		ch.Send("이미 바닥에 쓰러져 있습니다.")
	}
}

func (g *Game) doSleep(ch *gamedb.Character, arg string, cmd, subcmd int) {
	switch ch.Position {
	case gamedb.PosStanding, gamedb.PosSitting, gamedb.PosResting:
		ch.Send("잠이 듭니다.")
		g.toRoom(ch, fmt.Sprintf("%s님이 드러누워 잠이 듭니다.", ch.Name))
		ch.Position = gamedb.PosSleeping
	case gamedb.PosSleeping:
		ch.Send("이미 자고 있습니다.")
	case gamedb.PosFighting:
		ch.Send("싸우는 중에 잠이라니요?")
	default:
		ch.Send("이미 바닥에 쓰러져 있습니다.")
	}
}

func (g *Game) doWake(ch *gamedb.Character, arg string, cmd, subcmd int) {
	if ch.Position > gamedb.PosSleeping {
		ch.Send("이미 깨어 있습니다.")
		return
	}
	ch.Send("잠에서 깨어나 앉습니다.")
	ch.Position = gamedb.PosSitting
	g.toRoom(ch, fmt.Sprintf("%s님이 잠에서 깨어납니다.", ch.Name))
}

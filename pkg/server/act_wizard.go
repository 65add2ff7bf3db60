package server

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
)

const (
	msgNoSuchPerson    = "그런 사람은 없습니다."
	msgWhom            = "누구에게요?"
	msgCantDoThat      = "그렇게 할 수는 없습니다."
	msgFrozenVictim    = "차가운 바람이 몰아치더니 온몸이 꽁꽁 얼어붙었습니다!"
	msgThawedVictim    = "얼음이 녹아내리며 몸이 풀렸습니다."
	msgNotFrozen       = "%s님은 얼어 있지 않습니다."
	msgAlreadySwitched = "이미 다른 몸에 들어가 있습니다."
	msgSwitchSelf      = "당신은 이미 당신입니다."
	msgBodyInUse       = "그 몸은 이미 누군가 쓰고 있습니다."
	msgNoPlayerBody    = "플레이어의 몸으로는 변신할 수 없습니다."
	msgReturn          = "원래 몸으로 돌아갑니다."
	msgNotSwitched     = "돌아갈 몸이 없습니다."
	msgNoAudit         = "접속 기록을 쓸 수 없습니다."
	msgNoLogins        = "접속 기록이 없습니다."
	msgShutdownSpell   = "게임을 끝내려면 shutdown을 모두 입력하세요."
	msgShuttingDown    = "%s님이 게임을 종료합니다."
)

// findChar looks for a character by name in ch's room first, then anywhere.
func (g *Game) findChar(ch *gamedb.Character, name string) *gamedb.Character {
	match := func(list []*gamedb.Character) *gamedb.Character {
		for _, c := range list {
			if strings.EqualFold(c.Name, name) {
				return c
			}
		}
		for _, c := range list {
			if len(name) > 0 && strings.HasPrefix(strings.ToLower(c.Name), strings.ToLower(name)) {
				return c
			}
		}
		return nil
	}
	if c := match(g.World.PeopleIn(ch.Room)); c != nil {
		return c
	}
	return match(g.World.Characters())
}

// doWizutil freezes or thaws a player.
func (g *Game) doWizutil(ch *gamedb.Character, arg string, cmd, subcmd int) {
	name, _ := interp.AnyOneArg(arg)
	if name == "" {
		ch.Send(msgWhom)
		return
	}
	vict := g.World.FindPlayer(name)
	if vict == nil {
		vict = g.findChar(ch, name)
	}
	if vict == nil || vict.IsNPC() {
		ch.Send(msgNoSuchPerson)
		return
	}
	if vict != ch && vict.Level >= ch.Level {
		ch.Send(msgCantDoThat)
		return
	}

	switch subcmd {
	case scmdFreeze:
		if vict == ch {
			ch.Send(msgCantDoThat)
			return
		}
		vict.Set(gamedb.PlrFrozen, true)
		vict.Send(msgFrozenVictim)
		ch.Send(msgOK)
		g.toRoomExcept(vict.Room, fmt.Sprintf("%s님의 몸에 서리가 내려앉습니다.", vict.Name), vict, ch)
		g.wizlog(ch.Name, fmt.Sprintf("%s님이 %s님을 얼렸습니다.", ch.Name, vict.Name))
	case scmdThaw:
		if !vict.Has(gamedb.PlrFrozen) {
			ch.Send(fmt.Sprintf(msgNotFrozen, vict.Name))
			return
		}
		vict.Set(gamedb.PlrFrozen, false)
		vict.Send(msgThawedVictim)
		ch.Send(msgOK)
		g.wizlog(ch.Name, fmt.Sprintf("%s님이 %s님을 녹였습니다.", ch.Name, vict.Name))
	}
	g.Log.Info("wizutil",
		zap.String("by", ch.Name), zap.String("victim", vict.Name), zap.Int("subcmd", subcmd))
	g.saveCharacter(vict)
}

// doSwitch moves an immortal's connection into another body.
func (g *Game) doSwitch(ch *gamedb.Character, arg string, cmd, subcmd int) {
	d := descOf(ch)
	if d == nil {
		return
	}
	name, _ := interp.AnyOneArg(arg)
	var vict *gamedb.Character
	switch {
	case d.Original != nil:
		ch.Send(msgAlreadySwitched)
		return
	case name == "":
		ch.Send(msgWhom)
		return
	default:
		vict = g.findChar(ch, name)
	}
	switch {
	case vict == nil:
		ch.Send(msgNoSuchPerson)
	case vict == ch:
		ch.Send(msgSwitchSelf)
	case vict.Link != nil:
		ch.Send(msgBodyInUse)
	case !vict.IsNPC() && ch.Level < gamedb.LvlImpl:
		ch.Send(msgNoPlayerBody)
	default:
		ch.Send(msgOK)
		d.Original = ch
		d.Character = vict
		ch.Link = nil
		vict.Link = d
		g.Log.Info("switch", zap.String("by", ch.Name), zap.String("into", vict.Name))
	}
}

func (g *Game) doReturn(ch *gamedb.Character, arg string, cmd, subcmd int) {
	d := descOf(ch)
	if d == nil || d.Original == nil {
		ch.Send(msgNotSwitched)
		return
	}
	if !g.World.IsLive(d.Original) {
		// the body was lost while away
		d.Original = nil
		ch.Send(msgNotSwitched)
		return
	}
	g.unswitch(d)
}

// doLast shows recent logins from the audit log.
func (g *Game) doLast(ch *gamedb.Character, arg string, cmd, subcmd int) {
	if g.Audit == nil {
		ch.Send(msgNoAudit)
		return
	}
	name, _ := interp.AnyOneArg(arg)
	rows, err := g.Audit.LastLogins(name, 10)
	if err != nil {
		g.Log.Error("last: query failed", zap.Error(err))
		ch.Send(msgNoAudit)
		return
	}
	if len(rows) == 0 {
		ch.Send(msgNoLogins)
		return
	}
	for _, r := range rows {
		ch.Send(fmt.Sprintf("%-12s %-20s %s %s", r.Name, r.Host, r.At.Format("2006-01-02 15:04:05"), r.Result))
	}
}

func (g *Game) doShutdown(ch *gamedb.Character, arg string, cmd, subcmd int) {
	if subcmd != scmdShutdown {
		ch.Send(msgShutdownSpell)
		return
	}
	g.Log.Warn("shutdown requested", zap.String("by", ch.Name))
	msg := fmt.Sprintf(msgShuttingDown, ch.Name)
	for _, d := range g.playing() {
		d.Send(msg)
	}
	g.Shutdown()
}

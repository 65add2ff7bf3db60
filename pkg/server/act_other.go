package server

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
)

const (
	msgSaved        = "저장했습니다."
	msgQuiSpell     = "끝내시려면 quit을 모두 입력하세요."
	msgQuitFighting = "싸우는 중에는 끝낼 수 없습니다!"
	msgQuitNPC      = "몹은 끝낼 수 없습니다."
	msgNoPrefsNPC   = "변신한 상태에서는 설정을 바꿀 수 없습니다."
)

func (g *Game) doSave(ch *gamedb.Character, arg string, cmd, subcmd int) {
	if ch.IsNPC() {
		return
	}
	if g.saveCharacter(ch) == nil {
		ch.Send(msgStoreError)
		return
	}
	ch.Send(msgSaved)
}

func (g *Game) doQuit(ch *gamedb.Character, arg string, cmd, subcmd int) {
	d := descOf(ch)
	switch {
	case ch.IsNPC() || d == nil:
		ch.Send(msgQuitNPC)
		return
	case subcmd != scmdQuit:
		ch.Send(msgQuiSpell)
		return
	case ch.Position == gamedb.PosFighting:
		ch.Send(msgQuitFighting)
		return
	}

	g.toRoom(ch, fmt.Sprintf(msgLeavesGame, ch.Name))
	ch.Send(msgGoodbye)
	g.Log.Info("quit", zap.Int("desc", d.ID), zap.String("name", ch.Name))
	g.publish(events.Event{
		Type:     events.EvDisconnect,
		Channel:  events.ChanLogins,
		Source:   ch.Name,
		MinLevel: gamedb.LvlImmort,
		Text:     fmt.Sprintf(msgWizQuit, ch.Name),
		Data:     map[string]any{"name": ch.Name},
	})

	// other connections on the same player go too
	for _, k := range g.Conns.AllDescriptors() {
		if k != d && k.Character != nil && k.Character.PlayerID == ch.PlayerID {
			k.State = ConClose
		}
	}

	if rec := g.saveCharacter(ch); rec != nil {
		d.Record = rec
	}
	g.World.Extract(ch)
	g.EventBus.UnsubscribeAll(d)
	d.Character = nil
	g.toMenu(d)
}

func (g *Game) doPrefs(ch *gamedb.Character, arg string, cmd, subcmd int) {
	d := descOf(ch)
	if d == nil {
		return
	}
	if ch.IsNPC() || d.Original != nil {
		ch.Send(msgNoPrefsNPC)
		return
	}
	g.startPrefEditor(d)
}

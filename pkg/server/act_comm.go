package server

import (
	"fmt"

	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
)

const (
	msgSayWhat    = "무슨 말을 하시려구요?"
	msgYouSay     = "당신이 말합니다, '%s'"
	msgSays       = "%s님이 말합니다, '%s'"
	msgOK         = "알겠습니다."
	msgGossipWhat = "무슨 잡담을 하시려구요?"
	msgGossipOff  = "잡담 채널을 꺼 두셨습니다."
	msgYouGossip  = "당신이 잡담합니다, '%s'"
	msgGossips    = "%s님이 잡담합니다, '%s'"
	msgWiznetWhat = "신들에게 무슨 말을 하시려구요?"
	msgWiznetOff  = "신 채널을 꺼 두셨습니다."
	msgWiznetLine = "[신] %s: %s"
)

func (g *Game) doSay(ch *gamedb.Character, arg string, cmd, subcmd int) {
	arg = interp.SkipSpaces(arg)
	if arg == "" {
		ch.Send(msgSayWhat)
		return
	}
	if ch.Pref(gamedb.PrfNoRepeat) {
		ch.Send(msgOK)
	} else {
		ch.Send(fmt.Sprintf(msgYouSay, arg))
	}
	g.toRoom(ch, fmt.Sprintf(msgSays, ch.Name, arg))
}

func (g *Game) doGossip(ch *gamedb.Character, arg string, cmd, subcmd int) {
	if ch.Pref(gamedb.PrfNoGossip) {
		ch.Send(msgGossipOff)
		return
	}
	arg = interp.SkipSpaces(arg)
	if arg == "" {
		ch.Send(msgGossipWhat)
		return
	}
	if ch.Pref(gamedb.PrfNoRepeat) {
		ch.Send(msgOK)
	} else {
		ch.Send(fmt.Sprintf(msgYouGossip, arg))
	}
	g.publish(events.Event{
		Type:    events.EvChannel,
		Channel: events.ChanGossip,
		Source:  ch.Name,
		Text:    fmt.Sprintf(msgGossips, ch.Name, arg),
		Data:    map[string]any{"channel": events.ChanGossip, "talker": ch.Name, "text": arg},
	})
}

func (g *Game) doWiznet(ch *gamedb.Character, arg string, cmd, subcmd int) {
	if ch.Pref(gamedb.PrfNoWiz) {
		ch.Send(msgWiznetOff)
		return
	}
	arg = interp.SkipSpaces(arg)
	if arg == "" {
		ch.Send(msgWiznetWhat)
		return
	}
	line := fmt.Sprintf(msgWiznetLine, ch.Name, arg)
	ch.Send(line)
	g.publish(events.Event{
		Type:     events.EvChannel,
		Channel:  events.ChanWiznet,
		Source:   ch.Name,
		MinLevel: gamedb.LvlImmort,
		Text:     line,
		Data:     map[string]any{"channel": events.ChanWiznet, "talker": ch.Name, "text": arg},
	})
}

// wizlog sends an administrative notice to immortals on the wiznet channel.
func (g *Game) wizlog(source, text string) {
	g.publish(events.Event{
		Type:     events.EvChannel,
		Channel:  events.ChanWiznet,
		Source:   source,
		MinLevel: gamedb.LvlImmort,
		Text:     "[알림] " + text,
	})
}

package server

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// DupeMode says how a login found its player already in the game.
type DupeMode int

const (
	DupeNone      DupeMode = iota // no other body; a fresh one enters
	DupeReconnect                 // a linkless body was waiting
	DupeUsurp                     // another connection was playing the body
	DupeUnswitch                  // an immortal's own body, left behind by switch
)

func (m DupeMode) String() string {
	switch m {
	case DupeReconnect:
		return "reconnect"
	case DupeUsurp:
		return "usurp"
	case DupeUnswitch:
		return "unswitch"
	default:
		return "none"
	}
}

// dupeCheck runs when d is about to enter the game with d.Character, a body
// freshly built from its record. Every other connection holding the same
// player is cut off, one surviving body is chosen and any further copies in
// the world are extracted. When a survivor exists d takes it over and is
// left playing; otherwise d.Character is untouched and DupeNone returned.
func (g *Game) dupeCheck(d *Descriptor) DupeMode {
	id := d.Character.PlayerID
	var target *gamedb.Character
	mode := DupeNone

	for _, k := range g.Conns.AllDescriptors() {
		if k == d {
			continue
		}
		switch {
		case k.Original != nil && k.Original.PlayerID == id:
			// k was switched out of our body
			k.Send(msgMultiLogin)
			k.State = ConClose
			if target == nil {
				target = k.Original
				mode = DupeUnswitch
			}
			if k.Character != nil {
				k.Character.Link = nil
			}
			k.Character = nil
			k.Original = nil
		case k.Character != nil && k.Character.PlayerID == id && k.Original != nil:
			// an immortal is switched into our body: send them home and
			// leave the body linkless for the scan below
			g.unswitch(k)
		case k.Character != nil && k.Character.PlayerID == id:
			if target == nil && k.State == ConPlaying {
				k.Send(msgUsurped)
				target = k.Character
				mode = DupeUsurp
			}
			if k.Character.Link == gamedb.Link(k) {
				k.Character.Link = nil
			}
			k.Character = nil
			k.Send(msgMultiLogin)
			k.State = ConClose
		}
	}

	holding := gamedb.RoomVnum(g.Conf.HoldingRoom)
	for _, ch := range g.World.PlayersByID(id) {
		if ch.Link != nil || ch == target {
			continue
		}
		if target == nil {
			target = ch
			mode = DupeReconnect
			continue
		}
		g.Log.Warn("extracting duplicate body", zap.String("name", ch.Name), zap.Uint64("char", uint64(ch.ID)))
		g.World.CharToRoom(ch, holding)
		g.World.Extract(ch)
	}

	if target == nil {
		return DupeNone
	}

	d.Character = target
	d.Original = nil
	target.Link = d
	target.Set(gamedb.PlrMailing|gamedb.PlrWriting, false)
	d.State = ConPlaying
	g.subscribe(d)

	switch mode {
	case DupeReconnect:
		d.Send(msgReconnecting)
		g.toRoom(target, fmt.Sprintf(msgReconnected, target.Name))
	case DupeUsurp:
		d.Send(msgTakeOver)
		g.toRoom(target, fmt.Sprintf(msgTakeOverRoom, target.Name, target.Name))
	case DupeUnswitch:
		d.Send(msgUnswitched)
	}
	g.Log.Info("duplicate login resolved",
		zap.Int("desc", d.ID), zap.String("name", target.Name), zap.Stringer("mode", mode), zap.String("addr", d.Addr))
	g.Metrics.Dupe(mode)
	g.recordLogin(d, target.Name, "dupe_"+mode.String())
	g.publish(events.Event{
		Type:     events.EvConnect,
		Channel:  events.ChanLogins,
		Source:   target.Name,
		MinLevel: gamedb.LvlImmort,
		Text:     fmt.Sprintf(msgWizReconnect, target.Name, d.Addr),
		Data:     map[string]any{"name": target.Name, "mode": mode.String()},
	})
	return mode
}

// newCharDupeCheck runs when d finishes creating a character. Another
// connection still creating the same name is cut off; if the other one got
// further than creation both are, since the name is now taken. It reports
// whether d itself was closed.
func (g *Game) newCharDupeCheck(d *Descriptor) bool {
	name := d.Name()
	for _, k := range g.Conns.AllDescriptors() {
		if k == d || k.Character == nil || k.State == ConClose {
			continue
		}
		if !strings.EqualFold(k.Character.Name, name) {
			continue
		}
		if k.State.creating() {
			k.Send(msgNameTaken)
			k.State = ConClose
			continue
		}
		k.Send(msgNameInUse)
		k.State = ConClose
		d.Send(msgNameInUse)
		d.State = ConClose
		return true
	}
	return false
}

// unswitch returns a switched immortal to their own body.
func (g *Game) unswitch(d *Descriptor) {
	if d.Original == nil {
		return
	}
	if d.Character != nil && d.Character.Link == gamedb.Link(d) {
		d.Character.Link = nil
	}
	d.Character = d.Original
	d.Original = nil
	d.Character.Link = d
	d.Send(msgReturn)
}

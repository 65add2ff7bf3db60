package socials

import (
	"strings"

	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
)

const (
	msgUnknownSocial = "그런 동작은 없습니다."
	msgVictimBusy    = "그 사람은 지금 그럴 상태가 아닙니다."
	msgNotFound      = "그런 사람은 여기 없습니다."
)

// Handler performs any social. The social is chosen by the sub-command
// code of the table entry that invoked it.
type Handler struct {
	set   *Set
	world *gamedb.World
}

// NewHandler returns the shared social handler.
func NewHandler(set *Set, world *gamedb.World) *Handler {
	return &Handler{set: set, world: world}
}

// Do runs social subcmd for ch against the target named in arg, if any.
func (h *Handler) Do(ch *gamedb.Character, arg string, cmd, subcmd int) {
	soc := h.set.At(subcmd)
	if soc == nil {
		ch.Send(msgUnknownSocial)
		return
	}

	name, _ := interp.AnyOneArg(arg)
	if name == "" {
		h.send(ch, soc.NoArgToChar, ch, nil)
		h.toRoom(ch, nil, soc.NoArgToRoom, soc.Hide)
		return
	}

	vict := h.findInRoom(ch, name)
	switch {
	case vict == nil:
		if soc.NotFound != "" {
			ch.Send(soc.NotFound)
		} else {
			ch.Send(msgNotFound)
		}
	case vict == ch:
		if soc.SelfToChar == "" {
			ch.Send(msgNotFound)
			return
		}
		h.send(ch, soc.SelfToChar, ch, nil)
		h.toRoom(ch, nil, soc.SelfToRoom, soc.Hide)
	case vict.Position < soc.MinVictimPosition:
		ch.Send(msgVictimBusy)
	default:
		h.send(ch, soc.FoundToChar, ch, vict)
		h.send(vict, soc.FoundToVict, ch, vict)
		h.toRoom(ch, vict, soc.FoundToRoom, soc.Hide)
	}
}

func (h *Handler) findInRoom(ch *gamedb.Character, name string) *gamedb.Character {
	people := h.world.PeopleIn(ch.Room)
	for _, p := range people {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	for _, p := range people {
		if strings.HasPrefix(strings.ToLower(p.Name), name) {
			return p
		}
	}
	return nil
}

func (h *Handler) send(to *gamedb.Character, msg string, actor, vict *gamedb.Character) {
	if msg == "" {
		return
	}
	to.Send(Format(msg, actor, vict))
}

// toRoom tells everyone awake in the actor's room except actor and vict.
// Hidden socials are not seen by the rest of the room.
func (h *Handler) toRoom(actor, vict *gamedb.Character, msg string, hide bool) {
	if msg == "" || hide {
		return
	}
	for _, p := range h.world.PeopleIn(actor.Room) {
		if p == actor || p == vict || p.Position <= gamedb.PosSleeping {
			continue
		}
		p.Send(Format(msg, actor, vict))
	}
}

// Format substitutes $n and $N in a social message.
func Format(msg string, actor, vict *gamedb.Character) string {
	var b strings.Builder
	for i := 0; i < len(msg); i++ {
		if msg[i] != '$' || i+1 >= len(msg) {
			b.WriteByte(msg[i])
			continue
		}
		switch msg[i+1] {
		case 'n':
			b.WriteString(actor.Name)
		case 'N':
			if vict != nil {
				b.WriteString(vict.Name)
			}
		case '$':
			b.WriteByte('$')
		default:
			b.WriteByte(msg[i])
			continue
		}
		i++
	}
	return b.String()
}

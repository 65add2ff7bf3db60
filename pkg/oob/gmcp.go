package oob

import (
	"encoding/json"
	"fmt"

	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// GMCPPackage maps event types to GMCP package names.
func GMCPPackage(evType events.EventType) string {
	switch evType {
	case events.EvChannel:
		return "Comm.Channel.Text"
	case events.EvRoom:
		return "Room.Info"
	case events.EvConnect:
		return "Char.Login"
	case events.EvDisconnect:
		return "Char.Logout"
	default:
		return ""
	}
}

// EncodeGMCP encodes an event as a GMCP telnet subnegotiation.
// Format: IAC SB 201 <package> <space> <json> IAC SE
// Returns nil if the event has no GMCP mapping or no structured data.
func EncodeGMCP(ev events.Event) []byte {
	pkg := GMCPPackage(ev.Type)
	if pkg == "" || ev.Data == nil {
		return nil
	}
	return frameGMCP(pkg, ev.Data)
}

// EncodeGMCPRoomInfo builds a Room.Info message for a room.
func EncodeGMCPRoomInfo(room *gamedb.Room) []byte {
	exits := make(map[string]int)
	for d, ex := range room.Exits {
		if ex != nil {
			exits[gamedb.Direction(d).String()] = int(ex.To)
		}
	}
	return frameGMCP("Room.Info", map[string]any{
		"num":   int(room.Vnum),
		"name":  room.Name,
		"exits": exits,
	})
}

func frameGMCP(pkg string, data any) []byte {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	payload := fmt.Sprintf("%s %s", pkg, jsonData)
	buf := make([]byte, 0, len(payload)+5)
	buf = append(buf, IAC, SB, TeloptGMCP)
	buf = append(buf, payload...)
	buf = append(buf, IAC, SE)
	return buf
}

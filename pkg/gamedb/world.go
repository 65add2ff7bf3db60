package gamedb

import "strings"

// Direction indexes a room's exits.
type Direction int

const (
	North Direction = iota
	East
	South
	West
	Up
	Down
	NumDirs
)

// DirNames are the direction names shown to players.
var DirNames = [NumDirs]string{"북", "동", "남", "서", "위", "밑"}

func (d Direction) String() string {
	if d < 0 || d >= NumDirs {
		return "?"
	}
	return DirNames[d]
}

// Exit leads from one room to another.
type Exit struct {
	To          RoomVnum
	Keyword     string
	Description string
}

// Room is a location in the world.
type Room struct {
	Vnum        RoomVnum
	Name        string
	Description string
	Exits       [NumDirs]*Exit
	Spec        SpecialProc
	Triggers    []CommandTrigger
	Objects     []*Object
	People      []*Character
}

// World holds every room and every live character. It is owned by the game
// thread and is not safe for concurrent use.
type World struct {
	rooms  map[RoomVnum]*Room
	chars  []*Character
	byID   map[CharID]*Character
	nextID CharID
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{
		rooms:  make(map[RoomVnum]*Room),
		byID:   make(map[CharID]*Character),
		nextID: 1,
	}
}

// AddRoom registers a room, replacing any room with the same vnum.
func (w *World) AddRoom(r *Room) {
	w.rooms[r.Vnum] = r
}

// Room returns the room with the given vnum, or nil.
func (w *World) Room(v RoomVnum) *Room {
	return w.rooms[v]
}

// RoomCount returns the number of rooms.
func (w *World) RoomCount() int {
	return len(w.rooms)
}

// Register adds ch to the character list and assigns its handle.
func (w *World) Register(ch *Character) {
	ch.ID = w.nextID
	w.nextID++
	ch.extracted = false
	w.chars = append(w.chars, ch)
	w.byID[ch.ID] = ch
}

// Characters returns a snapshot of the character list in registration order.
func (w *World) Characters() []*Character {
	out := make([]*Character, len(w.chars))
	copy(out, w.chars)
	return out
}

// Lookup resolves a handle to a live character, or nil if it is gone.
func (w *World) Lookup(id CharID) *Character {
	return w.byID[id]
}

// IsLive reports whether ch is still registered in the world.
func (w *World) IsLive(ch *Character) bool {
	return ch != nil && !ch.extracted && w.byID[ch.ID] == ch
}

// StillIn reports whether ch is live and standing in room v.
func (w *World) StillIn(ch *Character, v RoomVnum) bool {
	return w.IsLive(ch) && ch.Room == v
}

// CharToRoom places ch in room v. It reports false if the room does not exist.
func (w *World) CharToRoom(ch *Character, v RoomVnum) bool {
	r := w.rooms[v]
	if r == nil {
		return false
	}
	if ch.Room != NoRoom {
		w.CharFromRoom(ch)
	}
	r.People = append(r.People, ch)
	ch.Room = v
	return true
}

// CharFromRoom removes ch from its current room.
func (w *World) CharFromRoom(ch *Character) {
	if r := w.rooms[ch.Room]; r != nil {
		for i, p := range r.People {
			if p == ch {
				r.People = append(r.People[:i], r.People[i+1:]...)
				break
			}
		}
	}
	ch.WasIn = ch.Room
	ch.Room = NoRoom
}

// PeopleIn returns a snapshot of the characters in room v.
func (w *World) PeopleIn(v RoomVnum) []*Character {
	r := w.rooms[v]
	if r == nil {
		return nil
	}
	out := make([]*Character, len(r.People))
	copy(out, r.People)
	return out
}

// Extract removes ch from its room and from the character list. Handles to
// it stay valid Go pointers but IsLive reports false from now on.
func (w *World) Extract(ch *Character) {
	if ch == nil || ch.extracted {
		return
	}
	if ch.Room != NoRoom {
		w.CharFromRoom(ch)
	}
	delete(w.byID, ch.ID)
	for i, c := range w.chars {
		if c == ch {
			w.chars = append(w.chars[:i], w.chars[i+1:]...)
			break
		}
	}
	ch.extracted = true
	ch.Link = nil
}

// PlayersByID returns every live player body carrying the persistent id.
func (w *World) PlayersByID(id PlayerID) []*Character {
	var out []*Character
	for _, c := range w.chars {
		if !c.NPC && c.PlayerID == id {
			out = append(out, c)
		}
	}
	return out
}

// FindPlayer returns the first live player named name, case-insensitively.
func (w *World) FindPlayer(name string) *Character {
	for _, c := range w.chars {
		if !c.NPC && strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

package gamedb

import "time"

// PlayerRecord is the persistent form of a player character.
type PlayerRecord struct {
	ID          PlayerID
	Name        string
	Password    string
	Sex         Sex
	Class       Class
	Level       int
	Flags       PlayerFlags
	Prefs       PrefFlags
	LoadRoom    RoomVnum
	Title       string
	Description string
	Aliases     AliasList
	Created     time.Time
	LastLogon   time.Time
	LastHost    string

	// BadPasswords counts failed logins since the last successful one.
	BadPasswords int
}

// NewCharacter builds a live character from the record. The character is
// not yet registered in any world.
func (r *PlayerRecord) NewCharacter() *Character {
	ch := NewCharacter(r.Name)
	ch.PlayerID = r.ID
	ch.Sex = r.Sex
	ch.Class = r.Class
	ch.Level = r.Level
	ch.Flags = r.Flags
	ch.Prefs = r.Prefs
	ch.LoadRoom = r.LoadRoom
	ch.Title = r.Title
	ch.Description = r.Description
	ch.Aliases = append(AliasList(nil), r.Aliases...)
	ch.LastLogon = r.LastLogon
	ch.LastHost = r.LastHost
	return ch
}

// Update copies a live character's mutable state into the record. The
// saved room is where the character stands, or where it was before being
// moved out of the world.
func (r *PlayerRecord) Update(ch *Character) {
	r.Name = ch.Name
	r.Sex = ch.Sex
	r.Class = ch.Class
	r.Level = ch.Level
	r.Flags = ch.Flags
	r.Prefs = ch.Prefs
	r.Title = ch.Title
	r.Description = ch.Description
	r.Aliases = append(AliasList(nil), ch.Aliases...)
	r.LastLogon = ch.LastLogon
	r.LastHost = ch.LastHost
	switch {
	case ch.Room != NoRoom:
		r.LoadRoom = ch.Room
	case ch.WasIn != NoRoom:
		r.LoadRoom = ch.WasIn
	}
}

package gamedb

import "time"

// CharID identifies one in-memory character object. It is never reused
// within a process, so a stale handle can always be detected.
type CharID uint64

// PlayerID is the persistent identity of a player character, shared by
// every in-memory body loaded for that player.
type PlayerID int64

// NoPlayer is the PlayerID of non-player characters and unsaved records.
const NoPlayer PlayerID = -1

// RoomVnum is a room's virtual number.
type RoomVnum int

// NoRoom means "nowhere".
const NoRoom RoomVnum = -1

// Privilege tiers.
const (
	LvlImmort = 31
	LvlGod    = 32
	LvlGrGod  = 33
	LvlImpl   = 34
)

// Position is a character's activity position. The ordering is significant:
// commands declare a minimum position and anything below it is refused.
type Position int

const (
	PosDead Position = iota
	PosMortallyWounded
	PosIncapacitated
	PosStunned
	PosSleeping
	PosResting
	PosSitting
	PosFighting
	PosStanding
)

func (p Position) String() string {
	switch p {
	case PosDead:
		return "죽음"
	case PosMortallyWounded:
		return "치명상"
	case PosIncapacitated:
		return "무력화"
	case PosStunned:
		return "기절"
	case PosSleeping:
		return "잠"
	case PosResting:
		return "휴식"
	case PosSitting:
		return "앉음"
	case PosFighting:
		return "전투"
	case PosStanding:
		return "서 있음"
	default:
		return "알 수 없음"
	}
}

// Sex of a character.
type Sex int

const (
	SexNeutral Sex = iota
	SexMale
	SexFemale
)

// Class of a player character.
type Class int

const (
	ClassUndefined Class = iota - 1
	ClassMagicUser
	ClassCleric
	ClassThief
	ClassWarrior
)

// ClassNames are shown in the class menu, indexed by Class.
var ClassNames = []string{"마법사", "성직자", "도둑", "전사"}

func (c Class) String() string {
	if c < 0 || int(c) >= len(ClassNames) {
		return "없음"
	}
	return ClassNames[c]
}

// PlayerFlags are administrative state bits stored on the player record.
type PlayerFlags uint32

const (
	PlrFrozen PlayerFlags = 1 << iota
	PlrDeleted
	PlrLoadRoom
	PlrNoWizlist
	PlrSiteOK
	PlrNoShout
	PlrMailing
	PlrWriting
)

// PrefFlags are player preferences toggled from the preference editor.
type PrefFlags uint32

const (
	PrfBrief PrefFlags = 1 << iota
	PrfCompact
	PrfNoGossip
	PrfNoWiz
	PrfAutoExit
	PrfNoRepeat
)

// Link is the controlling connection of a character.
type Link interface {
	Send(msg string)
}

// CommandTrigger is a script hook attached to a room, mobile or object. It
// sees commands before any privilege or position check and may consume them.
type CommandTrigger interface {
	CommandTrigger(actor *Character, cmd, arg string) bool
}

// TriggerFunc adapts a function to CommandTrigger.
type TriggerFunc func(actor *Character, cmd, arg string) bool

func (f TriggerFunc) CommandTrigger(actor *Character, cmd, arg string) bool {
	return f(actor, cmd, arg)
}

// GreetTrigger is implemented by mobile triggers that react to a player
// entering their room from the main menu.
type GreetTrigger interface {
	Greet(actor, me *Character)
}

// SpecialProc is a special procedure on a room, object or mobile. me is the
// *Room, *Object or *Character the procedure is attached to.
type SpecialProc interface {
	Special(actor *Character, me any, cmd int, arg string) bool
}

// SpecialFunc adapts a function to SpecialProc.
type SpecialFunc func(actor *Character, me any, cmd int, arg string) bool

func (f SpecialFunc) Special(actor *Character, me any, cmd int, arg string) bool {
	return f(actor, me, cmd, arg)
}

// Object is an item lying in a room, carried or worn.
type Object struct {
	Name     string
	Keywords []string
	Spec     SpecialProc
	Triggers []CommandTrigger
}

// Character is a player or non-player character.
type Character struct {
	ID          CharID
	PlayerID    PlayerID
	Name        string
	Title       string
	Description string
	Level       int
	Sex         Sex
	Class       Class
	Position    Position
	NPC         bool
	Flags       PlayerFlags
	Prefs       PrefFlags

	Room     RoomVnum // current room, NoRoom when not placed
	LoadRoom RoomVnum // saved room for the next login
	WasIn    RoomVnum

	Aliases   AliasList
	Equipment []*Object
	Inventory []*Object

	// Mobile hooks.
	Spec     SpecialProc
	Triggers []CommandTrigger

	Link       Link
	LastLogon  time.Time
	LastHost   string
	BadPWCount int

	extracted bool
}

// NewCharacter returns an unplaced player character with no identity yet.
func NewCharacter(name string) *Character {
	return &Character{
		PlayerID: NoPlayer,
		Name:     name,
		Class:    ClassUndefined,
		Position: PosStanding,
		Room:     NoRoom,
		LoadRoom: NoRoom,
		WasIn:    NoRoom,
	}
}

// Send delivers text to the controlling connection, if any.
func (c *Character) Send(msg string) {
	if c.Link != nil {
		c.Link.Send(msg)
	}
}

// IsNPC reports whether the character is a non-player character.
func (c *Character) IsNPC() bool { return c.NPC }

// Has reports whether all bits in f are set.
func (c *Character) Has(f PlayerFlags) bool { return c.Flags&f == f }

// Set sets or clears player flag bits.
func (c *Character) Set(f PlayerFlags, on bool) {
	if on {
		c.Flags |= f
	} else {
		c.Flags &^= f
	}
}

// Pref reports whether a preference bit is set.
func (c *Character) Pref(f PrefFlags) bool { return c.Prefs&f == f }

// TogglePref flips a preference bit and returns its new value.
func (c *Character) TogglePref(f PrefFlags) bool {
	c.Prefs ^= f
	return c.Pref(f)
}

// Extracted reports whether the character has been removed from the world.
func (c *Character) Extracted() bool { return c.extracted }

// IsImmortal reports whether the character is at or above the immortal tier.
func (c *Character) IsImmortal() bool { return c.Level >= LvlImmort }

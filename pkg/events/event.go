package events

// EventType classifies events for transport-specific encoding.
type EventType int

const (
	EvText       EventType = iota // Raw text (universal fallback)
	EvChannel                     // Channel message (gossip, wiznet)
	EvRoom                        // Room description
	EvConnect                     // Player entered the game
	EvDisconnect                  // Player left or lost link
)

// String returns a human-readable name for the event type.
func (t EventType) String() string {
	switch t {
	case EvText:
		return "text"
	case EvChannel:
		return "channel"
	case EvRoom:
		return "room"
	case EvConnect:
		return "connect"
	case EvDisconnect:
		return "disconnect"
	default:
		return "unknown"
	}
}

// Channel names.
const (
	ChanGossip = "gossip"
	ChanWiznet = "wiznet"
	ChanLogins = "logins"
)

// Event is a structured game event that flows through the event bus.
// Telnet connections print Text; GMCP and JSON clients use Data.
type Event struct {
	Type     EventType
	Channel  string         // Channel the event was published on
	Source   string         // Name of the character that caused it
	MinLevel int            // Subscribers below this level ignore the event
	Text     string         // Pre-formatted text
	Data     map[string]any // Structured data for OOB/JSON clients
}

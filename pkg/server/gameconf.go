package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
)

// GameConf holds game-level configuration parameters.
type GameConf struct {
	// --- Identity ---
	MudName string `yaml:"mud_name"`
	Port    int    `yaml:"port"`

	// --- Timing ---
	PulseMillis int `yaml:"pulse_millis"` // Game loop tick in milliseconds
	IdleTimeout int `yaml:"idle_timeout"` // Seconds without input before disconnect, 0 = never

	// --- Login ---
	MaxBadPasswords   int `yaml:"max_bad_passwords"`
	MinNameLength     int `yaml:"min_name_length"`
	MaxNameLength     int `yaml:"max_name_length"`
	MinPasswordLength int `yaml:"min_password_length"`
	MaxPasswordLength int `yaml:"max_password_length"`
	RestrictLevel     int `yaml:"restrict_level"` // Characters below this level may not log in, 0 = open

	// --- Key rooms ---
	MortalStartRoom int `yaml:"mortal_start_room"`
	ImmortStartRoom int `yaml:"immort_start_room"`
	FrozenStartRoom int `yaml:"frozen_start_room"`
	HoldingRoom     int `yaml:"holding_room"` // Where duplicate bodies are moved before extraction

	// --- Interpreter ---
	NoSpecials     bool     `yaml:"no_specials"`
	WordOrder      string   `yaml:"word_order"` // "verb-final" (default) or "verb-first"
	FillWords      []string `yaml:"fill_words"`
	MaxInputLength int      `yaml:"max_input_length"`

	// --- Files ---
	TextDir     string `yaml:"text_dir"`
	PlayerDB    string `yaml:"player_db"`
	AuditDB     string `yaml:"audit_db"`
	SocialsFile string `yaml:"socials_file"` // empty = built-in socials
	ZoneFile    string `yaml:"zone_file"`    // empty = built-in zone

	// --- TLS ---
	Cleartext *bool  `yaml:"cleartext"` // nil = default true; explicitly false disables plaintext
	TLS       bool   `yaml:"tls"`
	TLSPort   int    `yaml:"tls_port"`
	TLSCert   string `yaml:"tls_cert"`
	TLSKey    string `yaml:"tls_key"`
	CertDir   string `yaml:"cert_dir"`

	// --- Web ---
	WebEnabled     bool     `yaml:"web_enabled"`
	WebPort        int      `yaml:"web_port"`
	WebHost        string   `yaml:"web_host"`
	WebDomain      string   `yaml:"web_domain"` // Let's Encrypt domain (empty = cert files or self-signed)
	WebCORSOrigins []string `yaml:"web_cors_origins"`
	WebRateLimit   int      `yaml:"web_rate_limit"` // Requests per minute per IP
	JWTSecret      string   `yaml:"jwt_secret"`     // Random per process if empty
	JWTExpiry      int      `yaml:"jwt_expiry"`     // Seconds

	MetricsEnabled bool `yaml:"metrics_enabled"`
}

// DefaultGameConf returns a GameConf with stock CircleMUD-style defaults.
func DefaultGameConf() *GameConf {
	return &GameConf{
		MudName:           "하늘",
		Port:              4000,
		PulseMillis:       100,
		IdleTimeout:       1800,
		MaxBadPasswords:   3,
		MinNameLength:     2,
		MaxNameLength:     12,
		MinPasswordLength: 3,
		MaxPasswordLength: 20,
		MortalStartRoom:   3001,
		ImmortStartRoom:   1204,
		FrozenStartRoom:   1202,
		HoldingRoom:       1,
		WordOrder:         "verb-final",
		MaxInputLength:    interp.DefaultMaxInputLength,
		TextDir:           "text",
		PlayerDB:          "players.db",
		TLSPort:           4443,
		CertDir:           "certs",
		WebPort:           8443,
		WebRateLimit:      60,
		JWTExpiry:         86400,
		MetricsEnabled:    true,
	}
}

// LoadGameConf reads a YAML config file over the defaults.
func LoadGameConf(path string) (*GameConf, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gameconf: read %s: %w", path, err)
	}
	gc := DefaultGameConf()
	if err := yaml.Unmarshal(data, gc); err != nil {
		return nil, fmt.Errorf("gameconf: parse %s: %w", path, err)
	}
	if err := gc.Validate(); err != nil {
		return nil, fmt.Errorf("gameconf: %s: %w", path, err)
	}
	return gc, nil
}

// Validate rejects settings the server cannot run with.
func (gc *GameConf) Validate() error {
	switch {
	case gc.PulseMillis <= 0:
		return fmt.Errorf("pulse_millis must be positive")
	case gc.MinNameLength < 1 || gc.MaxNameLength < gc.MinNameLength:
		return fmt.Errorf("bad name length bounds %d..%d", gc.MinNameLength, gc.MaxNameLength)
	case gc.MinPasswordLength < 1 || gc.MaxPasswordLength < gc.MinPasswordLength:
		return fmt.Errorf("bad password length bounds %d..%d", gc.MinPasswordLength, gc.MaxPasswordLength)
	case gc.MaxBadPasswords < 1:
		return fmt.Errorf("max_bad_passwords must be at least 1")
	case gc.WordOrder != "verb-final" && gc.WordOrder != "verb-first":
		return fmt.Errorf("unknown word_order %q", gc.WordOrder)
	}
	return nil
}

// IsCleartext returns whether the plaintext listener is enabled.
// Defaults to true if not explicitly set.
func (gc *GameConf) IsCleartext() bool {
	if gc.Cleartext == nil {
		return true
	}
	return *gc.Cleartext
}

// Pulse returns the game loop tick.
func (gc *GameConf) Pulse() time.Duration {
	return time.Duration(gc.PulseMillis) * time.Millisecond
}

// Idle returns the idle disconnect timeout, or 0 for none.
func (gc *GameConf) Idle() time.Duration {
	return time.Duration(gc.IdleTimeout) * time.Second
}

// InterpOptions returns the interpreter settings from this config.
func (gc *GameConf) InterpOptions() interp.Options {
	return interp.Options{
		FillWords:      gc.FillWords,
		WordOrder:      interp.ParseWordOrder(gc.WordOrder),
		MaxInputLength: gc.MaxInputLength,
		NoSpecials:     gc.NoSpecials,
	}
}

// StartRoom picks the room a character enters the game in: the saved room
// if it exists, else the immortal or mortal start room. Frozen characters
// always go to the frozen start room.
func (gc *GameConf) StartRoom(w *gamedb.World, ch *gamedb.Character) gamedb.RoomVnum {
	room := ch.LoadRoom
	if room == gamedb.NoRoom || w.Room(room) == nil {
		if ch.IsImmortal() {
			room = gamedb.RoomVnum(gc.ImmortStartRoom)
		} else {
			room = gamedb.RoomVnum(gc.MortalStartRoom)
		}
	}
	if ch.Has(gamedb.PlrFrozen) {
		room = gamedb.RoomVnum(gc.FrozenStartRoom)
	}
	return room
}

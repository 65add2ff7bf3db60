// Package socials loads data-driven social commands (emotes) and provides
// the single handler shared by every one of them.
package socials

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
)

//go:embed socials.yaml
var defaultSocials []byte

// Social is one emote and the messages it produces. In messages $n is the
// actor and $N the target.
type Social struct {
	Name              string          `yaml:"name"`
	Position          gamedb.Position `yaml:"-"`
	MinVictimPosition gamedb.Position `yaml:"-"`
	Hide              bool            `yaml:"hide"`

	PositionName          string `yaml:"position"`
	MinVictimPositionName string `yaml:"min_victim_position"`

	NoArgToChar string `yaml:"noarg_to_char"`
	NoArgToRoom string `yaml:"noarg_to_room"`
	FoundToChar string `yaml:"found_to_char"`
	FoundToRoom string `yaml:"found_to_room"`
	FoundToVict string `yaml:"found_to_vict"`
	NotFound    string `yaml:"not_found"`
	SelfToChar  string `yaml:"self_to_char"`
	SelfToRoom  string `yaml:"self_to_room"`
}

// Set is an ordered list of socials. A social's index is the sub-command
// code of its table entry.
type Set struct {
	list []Social
}

// Load parses a YAML list of socials.
func Load(r io.Reader) (*Set, error) {
	var list []Social
	if err := yaml.NewDecoder(r).Decode(&list); err != nil && err != io.EOF {
		return nil, fmt.Errorf("socials: decode: %w", err)
	}
	seen := make(map[string]bool, len(list))
	for i := range list {
		s := &list[i]
		s.Name = strings.ToLower(strings.TrimSpace(s.Name))
		if s.Name == "" {
			return nil, fmt.Errorf("socials: entry %d has no name", i)
		}
		if seen[s.Name] {
			return nil, fmt.Errorf("socials: duplicate social %q", s.Name)
		}
		seen[s.Name] = true

		var err error
		if s.Position, err = parsePosition(s.PositionName, gamedb.PosResting); err != nil {
			return nil, fmt.Errorf("socials: %s: %w", s.Name, err)
		}
		if s.MinVictimPosition, err = parsePosition(s.MinVictimPositionName, gamedb.PosResting); err != nil {
			return nil, fmt.Errorf("socials: %s: %w", s.Name, err)
		}
	}
	return &Set{list: list}, nil
}

// LoadFile reads socials from path, or the built-in set when path is empty.
func LoadFile(path string) (*Set, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("socials: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Default returns the built-in socials.
func Default() (*Set, error) {
	return Load(bytes.NewReader(defaultSocials))
}

// Len returns the number of socials.
func (s *Set) Len() int { return len(s.list) }

// At returns the social at index i, or nil.
func (s *Set) At(i int) *Social {
	if i < 0 || i >= len(s.list) {
		return nil
	}
	return &s.list[i]
}

// Commands returns one table entry per social, all sharing h.
func (s *Set) Commands(h *Handler) []interp.Command {
	cmds := make([]interp.Command, len(s.list))
	for i, soc := range s.list {
		cmds[i] = interp.Command{
			Name:        soc.Name,
			MinPosition: soc.Position,
			Handler:     h,
			SubCmd:      i,
		}
	}
	return cmds
}

var positionNames = map[string]gamedb.Position{
	"dead":     gamedb.PosDead,
	"mortally": gamedb.PosMortallyWounded,
	"incap":    gamedb.PosIncapacitated,
	"stunned":  gamedb.PosStunned,
	"sleeping": gamedb.PosSleeping,
	"resting":  gamedb.PosResting,
	"sitting":  gamedb.PosSitting,
	"fighting": gamedb.PosFighting,
	"standing": gamedb.PosStanding,
}

func parsePosition(name string, def gamedb.Position) (gamedb.Position, error) {
	if name == "" {
		return def, nil
	}
	p, ok := positionNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown position %q", name)
	}
	return p, nil
}

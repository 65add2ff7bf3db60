package gamedb

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed zone.yaml
var defaultZone []byte

type zoneFile struct {
	Rooms []roomDef `yaml:"rooms"`
}

type roomDef struct {
	Vnum        RoomVnum            `yaml:"vnum"`
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Exits       map[string]RoomVnum `yaml:"exits"`
	Objects     []objectDef         `yaml:"objects"`
}

type objectDef struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

var dirKeys = map[string]Direction{
	"north": North, "east": East, "south": South, "west": West, "up": Up, "down": Down,
}

// LoadZone parses rooms from YAML. Exits must lead to rooms in the same
// file.
func LoadZone(r io.Reader) ([]*Room, error) {
	var zf zoneFile
	if err := yaml.NewDecoder(r).Decode(&zf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("gamedb: decode zone: %w", err)
	}
	known := make(map[RoomVnum]bool, len(zf.Rooms))
	for _, rd := range zf.Rooms {
		if known[rd.Vnum] {
			return nil, fmt.Errorf("gamedb: duplicate room %d", rd.Vnum)
		}
		known[rd.Vnum] = true
	}

	rooms := make([]*Room, 0, len(zf.Rooms))
	for _, rd := range zf.Rooms {
		room := &Room{
			Vnum:        rd.Vnum,
			Name:        rd.Name,
			Description: strings.TrimRight(rd.Description, "\n"),
		}
		for key, to := range rd.Exits {
			dir, ok := dirKeys[strings.ToLower(key)]
			if !ok {
				return nil, fmt.Errorf("gamedb: room %d: unknown direction %q", rd.Vnum, key)
			}
			if !known[to] {
				return nil, fmt.Errorf("gamedb: room %d: exit %s leads to missing room %d", rd.Vnum, key, to)
			}
			room.Exits[dir] = &Exit{To: to}
		}
		for _, od := range rd.Objects {
			room.Objects = append(room.Objects, &Object{Name: od.Name, Keywords: od.Keywords})
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

// LoadZoneFile reads rooms from path, or the built-in zone when path is
// empty.
func LoadZoneFile(path string) ([]*Room, error) {
	if path == "" {
		return LoadZone(bytes.NewReader(defaultZone))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gamedb: open zone %s: %w", path, err)
	}
	defer f.Close()
	return LoadZone(f)
}

// NewWorldFromZone builds a world holding rooms.
func NewWorldFromZone(rooms []*Room) *World {
	w := NewWorld()
	for _, r := range rooms {
		w.AddRoom(r)
	}
	return w
}

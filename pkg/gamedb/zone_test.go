package gamedb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBuiltinZone(t *testing.T) {
	rooms, err := LoadZoneFile("")
	require.NoError(t, err)
	w := NewWorldFromZone(rooms)

	for _, v := range []RoomVnum{1, 1202, 1204, 3001, 3002} {
		assert.NotNil(t, w.Room(v), "room %d", v)
	}
	square := w.Room(3001)
	require.NotNil(t, square.Exits[North])
	assert.Equal(t, RoomVnum(3002), square.Exits[North].To)
	assert.Nil(t, square.Exits[West])
	require.Len(t, square.Objects, 1)
	assert.Contains(t, square.Objects[0].Keywords, "우물")
	assert.False(t, strings.HasSuffix(square.Description, "\n"))
}

func TestLoadZoneErrors(t *testing.T) {
	for name, src := range map[string]string{
		"duplicate": "rooms:\n  - vnum: 1\n  - vnum: 1\n",
		"direction": "rooms:\n  - vnum: 1\n    exits: {northeast: 1}\n",
		"missing":   "rooms:\n  - vnum: 1\n    exits: {north: 2}\n",
		"syntax":    "rooms: [\n",
	} {
		_, err := LoadZone(strings.NewReader(src))
		assert.Error(t, err, name)
	}
}

func TestLoadZoneEmpty(t *testing.T) {
	rooms, err := LoadZone(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rooms)
}

func TestLoadZoneFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zone.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
rooms:
  - vnum: 10
    name: 동굴
    exits: {Up: 11}
  - vnum: 11
    name: 동굴 입구
    exits: {down: 10}
`), 0o644))
	rooms, err := LoadZoneFile(path)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, RoomVnum(11), rooms[0].Exits[Up].To)

	_, err = LoadZoneFile(filepath.Join(t.TempDir(), "none.yaml"))
	assert.Error(t, err)
}

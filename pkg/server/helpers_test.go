package server

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/haneul-mud/haneul/pkg/boltstore"
	"github.com/haneul-mud/haneul/pkg/crypt"
	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
)

// testGame is a game over a small fixed world and a throwaway player store.
//
//	1     holding room
//	1202  frozen start
//	1204  immortal start
//	3001  mortal start, north to 3002
//	3002  south to 3001
type testGame struct {
	t     *testing.T
	g     *Game
	store *boltstore.Store
	addr  int
}

func newTestGame(t *testing.T, tweak ...func(*GameConf)) *testGame {
	t.Helper()
	conf := DefaultGameConf()
	conf.IdleTimeout = 0
	for _, fn := range tweak {
		fn(conf)
	}

	store, err := boltstore.Open(filepath.Join(t.TempDir(), "players.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	world := gamedb.NewWorld()
	for _, v := range []gamedb.RoomVnum{1, 1202, 1204} {
		world.AddRoom(&gamedb.Room{Vnum: v, Name: fmt.Sprintf("방 %d", v)})
	}
	square := &gamedb.Room{Vnum: 3001, Name: "마을 광장", Description: "넓은 광장입니다."}
	market := &gamedb.Room{Vnum: 3002, Name: "시장 거리", Description: "좁은 골목입니다."}
	square.Exits[gamedb.North] = &gamedb.Exit{To: 3002}
	market.Exits[gamedb.South] = &gamedb.Exit{To: 3001}
	world.AddRoom(square)
	world.AddRoom(market)

	g, err := NewGame(conf, world, GameOptions{Store: store})
	require.NoError(t, err)
	return &testGame{t: t, g: g, store: store}
}

// client is a fake connection that records everything sent to it except
// the bare prompt.
type client struct {
	d   *Descriptor
	out []string
}

func (c *client) text() string { return strings.Join(c.out, "\n") }

func (c *client) reset() { c.out = nil }

func (c *client) saw(msg string) bool {
	for _, l := range c.out {
		if strings.Contains(l, msg) {
			return true
		}
	}
	return false
}

// connect opens a connection the way the given transport would.
func (tg *testGame) connect(transport TransportType) *client {
	tg.addr++
	c := &client{}
	d := newDescriptor(tg.g.Conns.NextID(), fmt.Sprintf("10.0.0.%d", tg.addr))
	d.Transport = transport
	d.SendFunc = func(msg string) {
		if msg != prompt {
			c.out = append(c.out, msg)
		}
	}
	c.d = d
	tg.g.Accept(d)
	return c
}

// input types each line on c and runs one pulse per line.
func (tg *testGame) input(c *client, lines ...string) {
	for _, l := range lines {
		c.d.Input.PushBack(l)
		tg.g.Pulse()
	}
}

// createPlayer stores a player record directly.
func (tg *testGame) createPlayer(name, password string, level int) *gamedb.PlayerRecord {
	tg.t.Helper()
	hash, err := crypt.Hash(password)
	require.NoError(tg.t, err)
	rec := &gamedb.PlayerRecord{
		ID:       gamedb.NoPlayer,
		Name:     name,
		Password: hash,
		Level:    level,
		Class:    gamedb.ClassWarrior,
		LoadRoom: gamedb.NoRoom,
	}
	require.NoError(tg.t, tg.store.Put(rec))
	return rec
}

// toMenu logs an existing player in as far as the main menu.
func (tg *testGame) toMenu(name, password string) *client {
	tg.t.Helper()
	c := tg.connect(TransportWebSocket)
	tg.input(c, name, password, "")
	require.Equal(tg.t, ConMenu, c.d.State, c.text())
	return c
}

// login takes an existing player all the way into the game.
func (tg *testGame) login(name, password string) *client {
	tg.t.Helper()
	c := tg.toMenu(name, password)
	tg.input(c, "1")
	require.Equal(tg.t, ConPlaying, c.d.State, c.text())
	c.reset()
	return c
}

// player creates and logs in a character in one step.
func (tg *testGame) player(name string, level int) *client {
	tg.t.Helper()
	tg.createPlayer(name, "secret", level)
	return tg.login(name, "secret")
}

func (tg *testGame) record(name string) *gamedb.PlayerRecord {
	tg.t.Helper()
	rec, err := tg.store.GetByName(name)
	require.NoError(tg.t, err)
	return rec
}

// mob places a non-player character in room.
func (tg *testGame) mob(name string, room gamedb.RoomVnum) *gamedb.Character {
	m := gamedb.NewCharacter(name)
	m.NPC = true
	m.Level = 5
	tg.g.World.Register(m)
	tg.g.World.CharToRoom(m, room)
	return m
}

// eventSink collects events from the bus.
type eventSink struct {
	got []events.Event
}

func (s *eventSink) Receive(ev events.Event) { s.got = append(s.got, ev) }
func (s *eventSink) Closed() bool            { return false }

package interp

import (
	"github.com/haneul-mud/haneul/pkg/gamedb"
)

const testRoom gamedb.RoomVnum = 3001

type call struct {
	ch     *gamedb.Character
	arg    string
	cmd    int
	subcmd int
}

// recorder is a Handler that remembers its calls.
type recorder struct {
	calls []call
	then  func(ch *gamedb.Character)
}

func (r *recorder) Do(ch *gamedb.Character, arg string, cmd, subcmd int) {
	r.calls = append(r.calls, call{ch, arg, cmd, subcmd})
	if r.then != nil {
		r.then(ch)
	}
}

// sink captures what a character is sent.
type sink struct {
	lines []string
}

func (s *sink) Send(msg string) { s.lines = append(s.lines, msg) }

type queue struct {
	lines []string
}

func (q *queue) PushFront(lines ...string) {
	q.lines = append(append([]string(nil), lines...), q.lines...)
}

type testEnv struct {
	world  *gamedb.World
	in     *Interpreter
	move   *recorder
	say    *recorder
	kill   *recorder
	look   *recorder
	admin  *recorder
	social *recorder
	log    []Dispatch
}

func newTestEnv(order WordOrder) *testEnv {
	env := &testEnv{
		world:  gamedb.NewWorld(),
		move:   &recorder{},
		say:    &recorder{},
		kill:   &recorder{},
		look:   &recorder{},
		admin:  &recorder{},
		social: &recorder{},
	}
	env.world.AddRoom(&gamedb.Room{Vnum: testRoom})
	env.in = New(nil, env.world, Options{
		WordOrder:  order,
		OnDispatch: func(d Dispatch) { env.log = append(env.log, d) },
	})
	cmds := []Command{
		{Name: "north", MinPosition: gamedb.PosStanding, Handler: env.move, SubCmd: 1},
		{Name: "east", MinPosition: gamedb.PosStanding, Handler: env.move, SubCmd: 2},
		{Name: "south", MinPosition: gamedb.PosStanding, Handler: env.move, SubCmd: 3},
		{Name: "west", MinPosition: gamedb.PosStanding, Handler: env.move, SubCmd: 4},
		{Name: "up", MinPosition: gamedb.PosStanding, Handler: env.move, SubCmd: 5},
		{Name: "down", MinPosition: gamedb.PosStanding, Handler: env.move, SubCmd: 6},
		{Name: "kill", MinPosition: gamedb.PosFighting, Handler: env.kill},
		{Name: "look", SortAs: "lo", MinPosition: gamedb.PosResting, Handler: env.look},
		{Name: "nod", MinPosition: gamedb.PosResting, Handler: env.social},
		{Name: "grin", MinPosition: gamedb.PosResting, Handler: env.social},
		{Name: "grab", MinPosition: gamedb.PosResting, Handler: env.look},
		{Name: "say", MinPosition: gamedb.PosResting, Handler: env.say},
		{Name: "'", MinPosition: gamedb.PosResting, Handler: env.say},
		{Name: "shutdown", MinPosition: gamedb.PosDead, Handler: env.admin, MinLevel: gamedb.LvlImpl},
		{Name: "smile", MinPosition: gamedb.PosResting, Handler: env.social},
		{Name: "score", MinPosition: gamedb.PosDead},
		{Name: "goto", MinPosition: gamedb.PosSleeping, Handler: env.admin, MinLevel: gamedb.LvlImmort},
		{Name: "uq", MinPosition: gamedb.PosDead, Handler: env.admin, MinLevel: LevelDisabled},
		{Name: "alias", MinPosition: gamedb.PosDead, Handler: env.in.AliasCommand()},
		{Name: "줄임말", MinPosition: gamedb.PosDead, Handler: env.in.AliasCommand()},
		{Name: "죽여", MinPosition: gamedb.PosFighting, Handler: env.kill},
	}
	env.in.SetTable(NewTable(env.social, cmds))
	return env
}

// player places a new mortal in the test room.
func (env *testEnv) player(name string) (*gamedb.Character, *sink) {
	ch := gamedb.NewCharacter(name)
	ch.Level = 1
	out := &sink{}
	ch.Link = out
	env.world.Register(ch)
	env.world.CharToRoom(ch, testRoom)
	return ch, out
}

func (env *testEnv) index(name string) int {
	return env.in.Table().FindExact(name)
}

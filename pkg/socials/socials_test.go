package socials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-mud/haneul/pkg/gamedb"
)

type sink struct{ lines []string }

func (s *sink) Send(msg string) { s.lines = append(s.lines, msg) }

func newRoom(t *testing.T) (*Set, *Handler, *gamedb.World) {
	t.Helper()
	set, err := Default()
	require.NoError(t, err)
	w := gamedb.NewWorld()
	w.AddRoom(&gamedb.Room{Vnum: 3001})
	return set, NewHandler(set, w), w
}

func addPlayer(w *gamedb.World, name string) (*gamedb.Character, *sink) {
	ch := gamedb.NewCharacter(name)
	out := &sink{}
	ch.Link = out
	w.Register(ch)
	w.CharToRoom(ch, 3001)
	return ch, out
}

func index(t *testing.T, set *Set, name string) int {
	t.Helper()
	for i := 0; i < set.Len(); i++ {
		if set.At(i).Name == name {
			return i
		}
	}
	t.Fatalf("social %q not found", name)
	return -1
}

func TestDefaultSet(t *testing.T) {
	set, err := Default()
	require.NoError(t, err)
	require.Greater(t, set.Len(), 0)
	nod := set.At(index(t, set, "nod"))
	assert.Equal(t, gamedb.PosResting, nod.Position)
	hug := set.At(index(t, set, "hug"))
	assert.Equal(t, gamedb.PosStanding, hug.Position)
	assert.Equal(t, gamedb.PosSleeping, hug.MinVictimPosition)
	assert.Nil(t, set.At(-1))
	assert.Nil(t, set.At(set.Len()))
}

func TestLoadRejectsBadInput(t *testing.T) {
	_, err := Load(strings.NewReader("- name: a\n- name: A\n"))
	assert.Error(t, err)
	_, err = Load(strings.NewReader("- name: a\n  position: flying\n"))
	assert.Error(t, err)
	_, err = Load(strings.NewReader("- position: resting\n"))
	assert.Error(t, err)
	set, err := Load(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())
}

func TestCommandsShareHandler(t *testing.T) {
	set, h, _ := newRoom(t)
	cmds := set.Commands(h)
	require.Len(t, cmds, set.Len())
	for i, c := range cmds {
		assert.Same(t, h, c.Handler)
		assert.Equal(t, i, c.SubCmd)
	}
}

func TestSocialNoArgument(t *testing.T) {
	set, h, w := newRoom(t)
	a, aout := addPlayer(w, "철수")
	_, bout := addPlayer(w, "영희")
	h.Do(a, "", 0, index(t, set, "nod"))
	assert.Equal(t, []string{"고개를 끄덕입니다."}, aout.lines)
	assert.Equal(t, []string{"철수님이 고개를 끄덕입니다."}, bout.lines)
}

func TestSocialWithTarget(t *testing.T) {
	set, h, w := newRoom(t)
	a, aout := addPlayer(w, "철수")
	_, bout := addPlayer(w, "영희")
	_, cout := addPlayer(w, "민수")
	h.Do(a, "영", 0, index(t, set, "smile"))
	assert.Equal(t, []string{"영희님에게 미소를 짓습니다."}, aout.lines)
	assert.Equal(t, []string{"철수님이 당신에게 미소를 짓습니다."}, bout.lines)
	assert.Equal(t, []string{"철수님이 영희님에게 미소를 짓습니다."}, cout.lines)
}

func TestSocialTargetStates(t *testing.T) {
	set, h, w := newRoom(t)
	a, aout := addPlayer(w, "철수")
	b, _ := addPlayer(w, "영희")

	h.Do(a, "nobody", 0, index(t, set, "nod"))
	assert.Equal(t, []string{"그런 사람은 여기 없습니다."}, aout.lines)

	aout.lines = nil
	b.Position = gamedb.PosSleeping
	h.Do(a, "영희", 0, index(t, set, "nod"))
	assert.Equal(t, []string{msgVictimBusy}, aout.lines)

	aout.lines = nil
	h.Do(a, "철수", 0, index(t, set, "smile"))
	assert.Equal(t, []string{"거울을 보며 미소를 짓습니다."}, aout.lines)
}

func TestHiddenSocial(t *testing.T) {
	set, h, w := newRoom(t)
	a, aout := addPlayer(w, "철수")
	_, bout := addPlayer(w, "영희")
	h.Do(a, "", 0, index(t, set, "sigh"))
	assert.Len(t, aout.lines, 1)
	assert.Empty(t, bout.lines)
}

func TestUnknownSubcommand(t *testing.T) {
	_, h, w := newRoom(t)
	a, aout := addPlayer(w, "철수")
	h.Do(a, "", 0, 999)
	assert.Equal(t, []string{msgUnknownSocial}, aout.lines)
}

func TestFormat(t *testing.T) {
	a := gamedb.NewCharacter("철수")
	b := gamedb.NewCharacter("영희")
	assert.Equal(t, "철수 -> 영희 $ $x", Format("$n -> $N $$ $x", a, b))
	assert.Equal(t, "철수 ->  $", Format("$n -> $N $", a, nil))
}

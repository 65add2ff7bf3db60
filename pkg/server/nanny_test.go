package server

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-mud/haneul/pkg/boltstore"
	"github.com/haneul-mud/haneul/pkg/charset"
	"github.com/haneul-mud/haneul/pkg/crypt"
	"github.com/haneul-mud/haneul/pkg/gamedb"
)

func TestNannyProtocol(t *testing.T) {
	tg := newTestGame(t)

	c := tg.connect(TransportTCP)
	assert.Equal(t, ConGetProtocol, c.d.State)
	assert.Equal(t, []string{msgProtocol}, c.out)

	tg.input(c, "9")
	assert.Equal(t, ConGetProtocol, c.d.State)
	assert.True(t, c.saw(msgBadProtocol))

	tg.input(c, "1")
	assert.Equal(t, ConGetName, c.d.State)
	assert.Equal(t, charset.EUCKR, c.d.Charset())
	assert.True(t, c.saw(msgWhatName))

	c2 := tg.connect(TransportTCP)
	tg.input(c2, "")
	assert.Equal(t, ConGetName, c2.d.State)
	assert.Equal(t, charset.UTF8, c2.d.Charset())
}

func TestNannyWebSocketSkipsProtocol(t *testing.T) {
	tg := newTestGame(t)
	c := tg.connect(TransportWebSocket)
	assert.Equal(t, ConGetName, c.d.State)
	assert.True(t, c.saw(msgWhatName))
}

func TestNannyCreateCharacter(t *testing.T) {
	tg := newTestGame(t)
	c := tg.connect(TransportWebSocket)

	tg.input(c, "철수")
	require.Equal(t, ConNameConfirm, c.d.State)
	assert.True(t, c.saw(fmt.Sprintf(msgNameConfirm, "철수")))

	tg.input(c, "글쎄")
	assert.Equal(t, ConNameConfirm, c.d.State)
	assert.True(t, c.saw(msgYesOrNo))

	tg.input(c, "예")
	require.Equal(t, ConNewPassword, c.d.State)

	c.reset()
	tg.input(c, "ab")
	assert.Equal(t, ConNewPassword, c.d.State)
	assert.True(t, c.saw("그 비밀번호는 쓸 수 없습니다"))

	tg.input(c, "철수")
	assert.Equal(t, ConNewPassword, c.d.State, "password equal to the name")

	tg.input(c, "secret", "other")
	assert.Equal(t, ConNewPassword, c.d.State)
	assert.True(t, c.saw(msgPasswordMismatch))

	tg.input(c, "secret", "secret")
	require.Equal(t, ConQSex, c.d.State)

	tg.input(c, "x")
	assert.Equal(t, ConQSex, c.d.State)
	tg.input(c, "남")
	require.Equal(t, ConQClass, c.d.State)

	tg.input(c, "9")
	assert.Equal(t, ConQClass, c.d.State)
	tg.input(c, "4")
	require.Equal(t, ConReadMOTD, c.d.State)

	rec := tg.record("철수")
	assert.Equal(t, gamedb.SexMale, rec.Sex)
	assert.Equal(t, gamedb.ClassWarrior, rec.Class)
	assert.Equal(t, gamedb.LvlImpl, rec.Level, "the first character runs the place")
	assert.NoError(t, crypt.Check("secret", rec.Password))

	tg.input(c, "", "1")
	require.Equal(t, ConPlaying, c.d.State)
	ch := c.d.Character
	assert.Equal(t, gamedb.RoomVnum(1204), ch.Room)
	assert.True(t, tg.g.World.IsLive(ch))
	assert.Same(t, c.d, ch.Link)
	assert.True(t, c.saw(fmt.Sprintf(msgWelcome, tg.g.Conf.MudName)))

	// later characters start at the bottom
	c2 := tg.connect(TransportWebSocket)
	tg.input(c2, "영희", "예", "secret", "secret", "여자", "마법사")
	require.Equal(t, ConReadMOTD, c2.d.State, c2.text())
	assert.Equal(t, 1, tg.record("영희").Level)
	assert.Equal(t, gamedb.SexFemale, tg.record("영희").Sex)
	assert.Equal(t, gamedb.ClassMagicUser, tg.record("영희").Class)
}

func TestNannyNameRules(t *testing.T) {
	tg := newTestGame(t)
	for _, name := range []string{"a", "abc1", "all", "모두", "someone", strings.Repeat("가", 13), "철 수"} {
		c := tg.connect(TransportWebSocket)
		tg.input(c, name)
		assert.Equal(t, ConGetName, c.d.State, name)
		assert.True(t, c.saw(msgInvalidName), name)
	}

	c := tg.connect(TransportWebSocket)
	tg.input(c, "cHULSOO")
	require.Equal(t, ConNameConfirm, c.d.State)
	assert.Equal(t, "Chulsoo", c.d.Character.Name)

	tg.input(c, "아니오")
	assert.Equal(t, ConGetName, c.d.State)
	assert.Nil(t, c.d.Character)
}

func TestNannyEmptyNameCloses(t *testing.T) {
	tg := newTestGame(t)
	c := tg.connect(TransportWebSocket)
	tg.input(c, "")
	assert.Equal(t, ConClose, c.d.State)

	tg.g.Pulse()
	assert.Nil(t, tg.g.Conns.Get(c.d.ID))
	assert.True(t, c.d.IsClosed())
}

func TestNannyBadPasswords(t *testing.T) {
	tg := newTestGame(t)
	tg.createPlayer("철수", "secret", 1)

	c := tg.connect(TransportWebSocket)
	tg.input(c, "철수")
	require.Equal(t, ConPassword, c.d.State)

	tg.input(c, "wrong", "wrong")
	assert.Equal(t, ConPassword, c.d.State)
	assert.Equal(t, 2, c.d.BadPWs)

	tg.input(c, "wrong")
	assert.Equal(t, ConClose, c.d.State)
	assert.True(t, c.saw(msgTooManyBadPWs))
	assert.Equal(t, 3, tg.record("철수").BadPasswords)

	c2 := tg.connect(TransportWebSocket)
	tg.input(c2, "철수", "secret")
	require.Equal(t, ConReadMOTD, c2.d.State)
	assert.True(t, c2.saw(fmt.Sprintf(msgBadPWsSince, 3)))
	assert.Zero(t, tg.record("철수").BadPasswords)
}

func TestNannyEmptyPasswordCloses(t *testing.T) {
	tg := newTestGame(t)
	tg.createPlayer("철수", "secret", 1)
	c := tg.connect(TransportWebSocket)
	tg.input(c, "철수", "")
	assert.Equal(t, ConClose, c.d.State)
}

func TestNannyRestrictLevel(t *testing.T) {
	tg := newTestGame(t, func(gc *GameConf) { gc.RestrictLevel = gamedb.LvlImmort })
	tg.createPlayer("철수", "secret", 1)
	tg.createPlayer("산신", "secret", gamedb.LvlGod)

	c := tg.connect(TransportWebSocket)
	tg.input(c, "철수", "secret")
	assert.Equal(t, ConClose, c.d.State)
	assert.True(t, c.saw(msgRestricted))

	god := tg.connect(TransportWebSocket)
	tg.input(god, "산신", "secret")
	assert.Equal(t, ConReadMOTD, god.d.State)
	assert.True(t, god.saw(tg.g.Texts.Get(TextIMOTD)))
}

func TestNannyUpgradesLegacyHash(t *testing.T) {
	tg := newTestGame(t)
	rec := tg.createPlayer("Oldie", "secret", 1)
	rec.Password = crypt.Crypt("secret", "ab")
	require.True(t, crypt.IsLegacy(rec.Password))
	require.NoError(t, tg.store.Put(rec))

	tg.toMenu("Oldie", "secret")
	stored := tg.record("Oldie").Password
	assert.False(t, crypt.IsLegacy(stored))
	assert.NoError(t, crypt.Check("secret", stored))
}

func TestNannyDeletedNameIsFree(t *testing.T) {
	tg := newTestGame(t)
	rec := tg.createPlayer("철수", "secret", 1)
	rec.Flags |= gamedb.PlrDeleted
	require.NoError(t, tg.store.Put(rec))

	c := tg.connect(TransportWebSocket)
	tg.input(c, "철수")
	assert.Equal(t, ConNameConfirm, c.d.State)
	_, err := tg.store.GetByName("철수")
	assert.ErrorIs(t, err, boltstore.ErrNotFound)
}

func TestNannyMenu(t *testing.T) {
	tg := newTestGame(t)
	tg.createPlayer("철수", "secret", 1)
	c := tg.toMenu("철수", "secret")

	c.reset()
	tg.input(c, "7")
	assert.Equal(t, ConMenu, c.d.State)
	assert.True(t, c.saw(msgBadMenuChoice))

	tg.input(c, "3")
	assert.Equal(t, ConReadMOTD, c.d.State)
	assert.True(t, c.saw(tg.g.Texts.Get(TextBackground)))
	tg.input(c, "")
	assert.Equal(t, ConMenu, c.d.State)

	tg.input(c, "0")
	assert.Equal(t, ConClose, c.d.State)
	assert.True(t, c.saw(msgGoodbye))
}

func TestNannyDescriptionEditor(t *testing.T) {
	tg := newTestGame(t)
	tg.createPlayer("철수", "secret", 1)
	c := tg.toMenu("철수", "secret")

	tg.input(c, "2")
	require.Equal(t, ConExDesc, c.d.State)
	tg.input(c, "키가 큰 사람입니다.", "눈이 반짝입니다.", "/s")
	assert.Equal(t, ConMenu, c.d.State)
	assert.Equal(t, "키가 큰 사람입니다.\n눈이 반짝입니다.", tg.record("철수").Description)

	tg.input(c, "2", "/c", "지울 줄", "/a")
	assert.Equal(t, ConMenu, c.d.State)
	assert.Equal(t, "키가 큰 사람입니다.\n눈이 반짝입니다.", tg.record("철수").Description)
}

func TestNannyChangePassword(t *testing.T) {
	tg := newTestGame(t)
	tg.createPlayer("철수", "secret", 1)
	c := tg.toMenu("철수", "secret")

	tg.input(c, "4", "wrong")
	assert.Equal(t, ConMenu, c.d.State)
	assert.True(t, c.saw(msgWrongPassword))

	tg.input(c, "4", "secret")
	require.Equal(t, ConChPwdGetNew, c.d.State)
	tg.input(c, "newpass")
	require.Equal(t, ConChPwdVerify, c.d.State)
	tg.input(c, "mismatch")
	require.Equal(t, ConChPwdGetNew, c.d.State)
	tg.input(c, "newpass", "newpass")
	assert.Equal(t, ConMenu, c.d.State)
	assert.True(t, c.saw(msgPasswordChanged))
	assert.NoError(t, crypt.Check("newpass", tg.record("철수").Password))

	// an unusable new password goes back to the menu
	tg.input(c, "4", "newpass", "x")
	assert.Equal(t, ConMenu, c.d.State)
}

func TestNannySelfDelete(t *testing.T) {
	tg := newTestGame(t)
	tg.createPlayer("철수", "secret", 1)

	c := tg.toMenu("철수", "secret")
	tg.input(c, "5", "secret", "아니")
	assert.Equal(t, ConMenu, c.d.State)
	assert.True(t, c.saw(msgNotDeleted))

	tg.input(c, "5", "secret", "예")
	assert.Equal(t, ConClose, c.d.State)
	assert.NotZero(t, tg.record("철수").Flags&gamedb.PlrDeleted)
}

func TestNannySelfDeleteRefusals(t *testing.T) {
	tg := newTestGame(t)
	rec := tg.createPlayer("얼음", "secret", 1)
	rec.Flags |= gamedb.PlrFrozen
	require.NoError(t, tg.store.Put(rec))
	tg.createPlayer("대신", "secret", gamedb.LvlGrGod)

	c := tg.toMenu("얼음", "secret")
	tg.input(c, "5", "secret", "yes")
	assert.Equal(t, ConClose, c.d.State)
	assert.True(t, c.saw(msgDeleteFrozen))
	assert.Zero(t, tg.record("얼음").Flags&gamedb.PlrDeleted)

	god := tg.toMenu("대신", "secret")
	tg.input(god, "5", "secret", "yes")
	assert.Equal(t, ConClose, god.d.State)
	assert.Zero(t, tg.record("대신").Flags&gamedb.PlrDeleted)
}

func TestEnterGameStartRooms(t *testing.T) {
	tg := newTestGame(t)

	mortal := tg.player("철수", 1)
	assert.Equal(t, gamedb.RoomVnum(3001), mortal.d.Character.Room)

	god := tg.player("산신", gamedb.LvlGod)
	assert.Equal(t, gamedb.RoomVnum(1204), god.d.Character.Room)

	rec := tg.createPlayer("얼음", "secret", 1)
	rec.Flags |= gamedb.PlrFrozen
	rec.LoadRoom = 3002
	require.NoError(t, tg.store.Put(rec))
	frozen := tg.login("얼음", "secret")
	assert.Equal(t, gamedb.RoomVnum(1202), frozen.d.Character.Room)

	rec = tg.createPlayer("영희", "secret", 1)
	rec.LoadRoom = 3002
	require.NoError(t, tg.store.Put(rec))
	saved := tg.login("영희", "secret")
	assert.Equal(t, gamedb.RoomVnum(3002), saved.d.Character.Room)

	rec = tg.createPlayer("미아", "secret", 1)
	rec.LoadRoom = 9999
	require.NoError(t, tg.store.Put(rec))
	lost := tg.login("미아", "secret")
	assert.Equal(t, gamedb.RoomVnum(3001), lost.d.Character.Room)
}

func TestEnterGameAnnounced(t *testing.T) {
	tg := newTestGame(t)
	watcher := tg.player("영희", 1)
	tg.player("철수", 1)
	assert.True(t, watcher.saw(fmt.Sprintf(msgEntersGame, "철수")))
}

type greeter struct {
	room  gamedb.RoomVnum
	world *gamedb.World
	calls int
}

func (gr *greeter) CommandTrigger(actor *gamedb.Character, cmd, arg string) bool { return false }

func (gr *greeter) Greet(actor, me *gamedb.Character) {
	gr.calls++
	if gr.room != gamedb.NoRoom {
		gr.world.CharToRoom(actor, gr.room)
	}
}

func TestEnterGameGreetTriggers(t *testing.T) {
	tg := newTestGame(t)
	guard := tg.mob("경비병", 3001)
	gr := &greeter{room: gamedb.NoRoom, world: tg.g.World}
	guard.Triggers = append(guard.Triggers, gr)

	c := tg.player("철수", 1)
	assert.Equal(t, 1, gr.calls)
	assert.Equal(t, gamedb.RoomVnum(3001), c.d.Character.Room)

	// a greeter that throws the newcomer out
	gr.room = 3002
	c2 := tg.player("영희", 1)
	assert.Equal(t, 2, gr.calls)
	assert.Equal(t, gamedb.RoomVnum(3002), c2.d.Character.Room)
	assert.Equal(t, ConPlaying, c2.d.State)
}

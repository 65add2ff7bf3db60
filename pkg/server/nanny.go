package server

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/boltstore"
	"github.com/haneul-mud/haneul/pkg/charset"
	"github.com/haneul-mud/haneul/pkg/crypt"
	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/oob"
)

// bcrypt ignores everything past 72 bytes.
const maxPasswordBytes = 72

var reservedNames = []string{"all", "self", "someone", "somebody", "local", "모두", "자신"}

// Login results recorded in the audit log and metrics.
const (
	loginOK         = "ok"
	loginBadPW      = "bad_password"
	loginRestricted = "restricted"
	loginCreated    = "created"
	loginDeleted    = "deleted"
)

// nanny handles one line from a connection that is not yet playing.
func (g *Game) nanny(d *Descriptor, line string) {
	arg := strings.TrimSpace(line)

	switch d.State {
	case ConGetProtocol:
		g.nannyProtocol(d, arg)
	case ConGetName:
		g.nannyName(d, arg)
	case ConNameConfirm:
		g.nannyNameConfirm(d, arg)
	case ConPassword:
		g.nannyPassword(d, arg)
	case ConNewPassword, ConChPwdGetNew:
		g.nannyNewPassword(d, arg)
	case ConConfirmPassword, ConChPwdVerify:
		g.nannyConfirmPassword(d, arg)
	case ConQSex:
		g.nannySex(d, arg)
	case ConQClass:
		g.nannyClass(d, arg)
	case ConReadMOTD:
		d.SendPrompt(g.Texts.Get(TextMenu))
		d.State = ConMenu
	case ConMenu:
		g.nannyMenu(d, arg)
	case ConChPwdGetOld:
		g.nannyOldPassword(d, arg)
	case ConDelConf1:
		g.nannyDeletePassword(d, arg)
	case ConDelConf2:
		g.nannyDeleteConfirm(d, arg)
	default:
		g.Log.Error("nanny: unhandled connection state",
			zap.Int("desc", d.ID), zap.Stringer("state", d.State), zap.String("name", d.Name()))
		d.State = ConClose
	}
}

func (g *Game) nannyProtocol(d *Descriptor, arg string) {
	switch arg {
	case "1":
		d.SetCharset(charset.EUCKR)
	case "", "2":
		d.SetCharset(charset.UTF8)
	default:
		if cs, ok := charset.Parse(arg); ok {
			d.SetCharset(cs)
			break
		}
		d.Send(msgBadProtocol)
		d.SendPrompt(msgProtocol)
		return
	}
	d.Send(g.Texts.Get(TextGreetings))
	d.SendPrompt(msgWhatName)
	d.State = ConGetName
}

func (g *Game) nannyName(d *Descriptor, arg string) {
	if arg == "" {
		d.State = ConClose
		return
	}
	name, ok := g.parseName(arg)
	if !ok {
		d.Send(msgInvalidName)
		d.SendPrompt(msgWhatName)
		return
	}

	rec, err := g.Store.GetByName(name)
	switch {
	case err == nil && rec.Flags&gamedb.PlrDeleted != 0:
		// a deleted character frees its name
		if err := g.Store.Delete(rec.ID); err != nil {
			g.Log.Error("purge deleted player failed", zap.String("name", rec.Name), zap.Error(err))
			d.Send(msgStoreError)
			d.State = ConClose
			return
		}
	case err == nil:
		d.Record = rec
		d.Character = rec.NewCharacter()
		d.SendPrompt(msgPassword)
		d.SendRaw(oob.EchoOff())
		d.State = ConPassword
		return
	case !errors.Is(err, boltstore.ErrNotFound):
		g.Log.Error("player lookup failed", zap.String("name", name), zap.Error(err))
		d.Send(msgStoreError)
		d.State = ConClose
		return
	}

	d.Record = nil
	d.Character = gamedb.NewCharacter(name)
	d.SendPrompt(fmt.Sprintf(msgNameConfirm, name))
	d.State = ConNameConfirm
}

// parseName validates a typed name and returns it capitalized.
func (g *Game) parseName(arg string) (string, bool) {
	n := utf8.RuneCountInString(arg)
	if n < g.Conf.MinNameLength || n > g.Conf.MaxNameLength {
		return "", false
	}
	for _, r := range arg {
		if !unicode.IsLetter(r) {
			return "", false
		}
	}
	for _, bad := range reservedNames {
		if strings.EqualFold(arg, bad) {
			return "", false
		}
	}
	first, size := utf8.DecodeRuneInString(arg)
	return string(unicode.ToUpper(first)) + strings.ToLower(arg[size:]), true
}

func isYes(arg string) bool {
	switch strings.ToLower(arg) {
	case "y", "yes", "예", "네", "응":
		return true
	}
	return false
}

func isNo(arg string) bool {
	switch strings.ToLower(arg) {
	case "n", "no", "아니오", "아니요", "아니":
		return true
	}
	return false
}

func (g *Game) nannyNameConfirm(d *Descriptor, arg string) {
	switch {
	case isYes(arg):
		g.promptNewPassword(d)
		d.State = ConNewPassword
	case isNo(arg):
		d.Character = nil
		d.SendPrompt(msgWhatName)
		d.State = ConGetName
	default:
		d.SendPrompt(msgYesOrNo)
	}
}

func (g *Game) promptNewPassword(d *Descriptor) {
	d.SendPrompt(fmt.Sprintf(msgNewPassword, d.Name(), g.Conf.MinPasswordLength, g.Conf.MaxPasswordLength))
	d.SendRaw(oob.EchoOff())
}

func (g *Game) nannyPassword(d *Descriptor, arg string) {
	d.SendRaw(oob.EchoOn())
	if arg == "" {
		d.State = ConClose
		return
	}
	rec := d.Record

	if err := crypt.Check(arg, rec.Password); err != nil {
		if !errors.Is(err, crypt.ErrMismatch) {
			g.Log.Error("password check failed", zap.String("name", rec.Name), zap.Error(err))
		}
		g.Log.Info("bad password", zap.Int("desc", d.ID), zap.String("name", rec.Name), zap.String("addr", d.Addr))
		d.BadPWs++
		rec.BadPasswords++
		if err := g.Store.Put(rec); err != nil {
			g.Log.Error("save bad password count failed", zap.String("name", rec.Name), zap.Error(err))
		}
		g.recordLogin(d, rec.Name, loginBadPW)
		if d.BadPWs >= g.Conf.MaxBadPasswords {
			d.Send(msgTooManyBadPWs)
			d.State = ConClose
			return
		}
		d.Send(msgWrongPassword)
		d.SendPrompt(msgPassword)
		d.SendRaw(oob.EchoOff())
		return
	}

	if crypt.IsLegacy(rec.Password) {
		if hash, err := crypt.Hash(arg); err == nil {
			rec.Password = hash
		}
	}
	if g.Conf.RestrictLevel > 0 && rec.Level < g.Conf.RestrictLevel {
		d.Send(msgRestricted)
		g.recordLogin(d, rec.Name, loginRestricted)
		d.State = ConClose
		return
	}

	bad := rec.BadPasswords
	rec.BadPasswords = 0
	if err := g.Store.Put(rec); err != nil {
		g.Log.Error("save after login failed", zap.String("name", rec.Name), zap.Error(err))
	}
	d.BadPWs = 0
	g.recordLogin(d, rec.Name, loginOK)
	g.Log.Info("password accepted", zap.Int("desc", d.ID), zap.String("name", rec.Name))

	g.sendMOTD(d, rec.Level)
	if bad > 0 {
		d.Send(fmt.Sprintf(msgBadPWsSince, bad))
	}
	d.SendPrompt(msgPressEnter)
	d.State = ConReadMOTD
}

func (g *Game) sendMOTD(d *Descriptor, level int) {
	if level >= gamedb.LvlImmort {
		d.Send(g.Texts.Get(TextIMOTD))
		return
	}
	d.Send(g.Texts.Get(TextMOTD))
}

func (g *Game) recordLogin(d *Descriptor, name, result string) {
	g.Metrics.Login(result)
	if err := g.Audit.RecordLogin(name, d.Addr, result); err != nil {
		g.Log.Warn("audit login failed", zap.String("name", name), zap.Error(err))
	}
}

// validPassword applies the rules for a newly chosen password.
func (g *Game) validPassword(pw, name string) bool {
	n := utf8.RuneCountInString(pw)
	return n >= g.Conf.MinPasswordLength && n <= g.Conf.MaxPasswordLength &&
		len(pw) <= maxPasswordBytes && !strings.EqualFold(pw, name)
}

func (g *Game) nannyNewPassword(d *Descriptor, arg string) {
	if !g.validPassword(arg, d.Name()) {
		d.Send(fmt.Sprintf(msgBadNewPassword, g.Conf.MinPasswordLength, g.Conf.MaxPasswordLength))
		if d.State == ConChPwdGetNew {
			d.SendRaw(oob.EchoOn())
			g.toMenu(d)
			return
		}
		g.promptNewPassword(d)
		return
	}
	d.pendingPW = arg
	d.SendPrompt(msgConfirmPassword)
	if d.State == ConChPwdGetNew {
		d.State = ConChPwdVerify
	} else {
		d.State = ConConfirmPassword
	}
}

func (g *Game) nannyConfirmPassword(d *Descriptor, arg string) {
	changing := d.State == ConChPwdVerify
	pw := d.pendingPW
	d.pendingPW = ""
	if arg != pw {
		d.Send(msgPasswordMismatch)
		g.promptNewPassword(d)
		if changing {
			d.State = ConChPwdGetNew
		} else {
			d.State = ConNewPassword
		}
		return
	}
	d.SendRaw(oob.EchoOn())

	hash, err := crypt.Hash(pw)
	if err != nil {
		g.Log.Error("hash password failed", zap.String("name", d.Name()), zap.Error(err))
		d.Send(msgStoreError)
		d.State = ConClose
		return
	}

	if changing {
		rec := d.Record
		rec.Password = hash
		if err := g.Store.Put(rec); err != nil {
			g.Log.Error("save new password failed", zap.String("name", rec.Name), zap.Error(err))
			d.Send(msgStoreError)
			d.State = ConClose
			return
		}
		d.Send(msgPasswordChanged)
		g.toMenu(d)
		return
	}

	d.Record = &gamedb.PlayerRecord{
		ID:       gamedb.NoPlayer,
		Name:     d.Character.Name,
		Password: hash,
		Class:    gamedb.ClassUndefined,
		LoadRoom: gamedb.NoRoom,
	}
	d.SendPrompt(msgWhatSex)
	d.State = ConQSex
}

func (g *Game) nannySex(d *Descriptor, arg string) {
	switch strings.ToLower(arg) {
	case "m", "남", "남자":
		d.Record.Sex = gamedb.SexMale
	case "f", "여", "여자":
		d.Record.Sex = gamedb.SexFemale
	default:
		d.Send(msgBadSex)
		d.SendPrompt(msgWhatSex)
		return
	}
	d.SendPrompt(msgWhatClass)
	d.State = ConQClass
}

func parseClass(arg string) (gamedb.Class, bool) {
	for i, name := range gamedb.ClassNames {
		if arg == fmt.Sprint(i+1) || arg == name {
			return gamedb.Class(i), true
		}
	}
	return gamedb.ClassUndefined, false
}

func (g *Game) nannyClass(d *Descriptor, arg string) {
	class, ok := parseClass(arg)
	if !ok {
		d.Send(msgBadClass)
		d.SendPrompt(msgWhatClass)
		return
	}
	if g.newCharDupeCheck(d) {
		return
	}

	rec := d.Record
	rec.Class = class
	rec.Level = 1
	if g.Store.Count() == 0 {
		// the very first character runs the place
		rec.Level = gamedb.LvlImpl
	}
	rec.Created = time.Now()
	if err := g.Store.Put(rec); err != nil {
		g.Log.Error("create player failed", zap.String("name", rec.Name), zap.Error(err))
		d.Send(msgStoreError)
		d.State = ConClose
		return
	}
	d.Character = rec.NewCharacter()
	g.recordLogin(d, rec.Name, loginCreated)
	g.Log.Info("new player",
		zap.Int("desc", d.ID), zap.String("name", rec.Name), zap.Int64("id", int64(rec.ID)), zap.Int("level", rec.Level))

	g.sendMOTD(d, rec.Level)
	d.SendPrompt(msgPressEnter)
	d.State = ConReadMOTD
}

func (g *Game) toMenu(d *Descriptor) {
	d.SendPrompt(g.Texts.Get(TextMenu))
	d.State = ConMenu
}

func (g *Game) nannyMenu(d *Descriptor, arg string) {
	switch arg {
	case "0":
		d.Send(msgGoodbye)
		d.State = ConClose
	case "1":
		g.enterGame(d)
	case "2":
		g.startDescEditor(d, ConMenu)
	case "3":
		d.Send(g.Texts.Get(TextBackground))
		d.SendPrompt(msgPressEnter)
		d.State = ConReadMOTD
	case "4":
		d.SendPrompt(msgOldPassword)
		d.SendRaw(oob.EchoOff())
		d.State = ConChPwdGetOld
	case "5":
		d.SendPrompt(msgDeletePassword)
		d.SendRaw(oob.EchoOff())
		d.State = ConDelConf1
	default:
		d.Send(msgBadMenuChoice)
		g.toMenu(d)
	}
}

func (g *Game) nannyOldPassword(d *Descriptor, arg string) {
	d.SendRaw(oob.EchoOn())
	if crypt.Check(arg, d.Record.Password) != nil {
		d.Send(msgWrongPassword)
		g.toMenu(d)
		return
	}
	g.promptNewPassword(d)
	d.State = ConChPwdGetNew
}

func (g *Game) nannyDeletePassword(d *Descriptor, arg string) {
	d.SendRaw(oob.EchoOn())
	if crypt.Check(arg, d.Record.Password) != nil {
		d.Send(msgWrongPassword)
		g.toMenu(d)
		return
	}
	d.SendPrompt(fmt.Sprintf(msgDeleteConfirm, d.Record.Name))
	d.State = ConDelConf2
}

func (g *Game) nannyDeleteConfirm(d *Descriptor, arg string) {
	if arg != "yes" && arg != "예" {
		d.Send(msgNotDeleted)
		g.toMenu(d)
		return
	}
	rec := d.Record
	if rec.Flags&gamedb.PlrFrozen != 0 {
		d.Send(msgDeleteFrozen)
		d.State = ConClose
		return
	}
	if rec.Level < gamedb.LvlGrGod {
		rec.Flags |= gamedb.PlrDeleted
	}
	if err := g.Store.Put(rec); err != nil {
		g.Log.Error("delete player failed", zap.String("name", rec.Name), zap.Error(err))
	}
	g.recordLogin(d, rec.Name, loginDeleted)
	g.Log.Info("player deleted", zap.String("name", rec.Name), zap.Int("level", rec.Level))
	d.Send(fmt.Sprintf(msgDeleted, rec.Name))
	d.State = ConClose
}

// enterGame moves a connection from the menu into the world.
func (g *Game) enterGame(d *Descriptor) {
	if rec, err := g.Store.Get(d.Record.ID); err == nil {
		d.Record = rec
	}
	d.Character = d.Record.NewCharacter()
	d.Original = nil

	if mode := g.dupeCheck(d); mode != DupeNone {
		g.look(d.Character)
		return
	}

	ch := d.Character
	room := g.Conf.StartRoom(g.World, ch)
	if g.World.Room(room) == nil {
		room = gamedb.RoomVnum(g.Conf.MortalStartRoom)
	}
	if g.World.Room(room) == nil {
		g.Log.Error("no start room", zap.Int("room", int(room)))
		d.Send(msgNoStartRoom)
		d.State = ConClose
		return
	}

	g.World.Register(ch)
	ch.Link = d
	g.World.CharToRoom(ch, room)
	ch.LastLogon = time.Now()
	ch.LastHost = d.Addr
	d.State = ConPlaying
	g.subscribe(d)

	d.Send(fmt.Sprintf(msgWelcome, g.Conf.MudName))
	g.toRoom(ch, fmt.Sprintf(msgEntersGame, ch.Name))
	g.Log.Info("entered game",
		zap.Int("desc", d.ID), zap.String("name", ch.Name), zap.Int("room", int(room)))
	g.publish(events.Event{
		Type:     events.EvConnect,
		Channel:  events.ChanLogins,
		Source:   ch.Name,
		MinLevel: gamedb.LvlImmort,
		Text:     fmt.Sprintf(msgWizEnter, ch.Name, d.Addr),
		Data:     map[string]any{"name": ch.Name},
	})

	if !g.greet(ch, room) {
		return
	}
	g.look(ch)
	if rec := g.saveCharacter(ch); rec != nil {
		d.Record = rec
	}
	d.SendPrompt(prompt)
}

// greet fires the greet triggers of mobiles in room. It reports whether
// ch is still in the room afterwards.
func (g *Game) greet(ch *gamedb.Character, room gamedb.RoomVnum) bool {
	for _, mob := range g.World.PeopleIn(room) {
		if !mob.IsNPC() || mob == ch {
			continue
		}
		for _, trig := range mob.Triggers {
			gt, ok := trig.(gamedb.GreetTrigger)
			if !ok {
				continue
			}
			gt.Greet(ch, mob)
			if !g.World.StillIn(ch, room) {
				return false
			}
		}
	}
	return true
}

// subscribe attaches a playing connection to the channels it may hear.
func (g *Game) subscribe(d *Descriptor) {
	g.EventBus.Subscribe(events.ChanGossip, d)
	if d.level() >= gamedb.LvlImmort {
		g.EventBus.Subscribe(events.ChanWiznet, d)
		g.EventBus.Subscribe(events.ChanLogins, d)
	}
}

// AcceptToken hands the game loop a web connection whose player was
// authenticated by token. It skips the name and password steps and starts
// at the MOTD.
func (g *Game) AcceptToken(d *Descriptor, id gamedb.PlayerID) {
	g.post(func() {
		rec, err := g.Store.Get(id)
		if err != nil || rec.Flags&gamedb.PlrDeleted != 0 {
			d.Send(msgStoreError)
			d.Close()
			return
		}
		if g.Conf.RestrictLevel > 0 && rec.Level < g.Conf.RestrictLevel {
			d.Send(msgRestricted)
			d.Close()
			return
		}
		d.Record = rec
		d.Character = rec.NewCharacter()
		g.sendMOTD(d, rec.Level)
		d.SendPrompt(msgPressEnter)
		d.State = ConReadMOTD
		g.register(d)
		g.recordLogin(d, rec.Name, loginOK)
	})
}

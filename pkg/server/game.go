package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/interp"
	"github.com/haneul-mud/haneul/pkg/socials"
)

// PlayerStore loads and saves player records.
type PlayerStore interface {
	Get(id gamedb.PlayerID) (*gamedb.PlayerRecord, error)
	GetByName(name string) (*gamedb.PlayerRecord, error)
	Put(rec *gamedb.PlayerRecord) error
	Delete(id gamedb.PlayerID) error
	Count() int
}

const prompt = "> "

// Game is the running world plus everything attached to it. All of its
// state belongs to the game thread; other goroutines hand work over with
// post.
type Game struct {
	Conf     *GameConf
	World    *gamedb.World
	Interp   *interp.Interpreter
	Conns    *ConnManager
	Store    PlayerStore
	Audit    *AuditLog // nil = no audit trail
	Texts    *TextFiles
	EventBus *events.Bus
	Metrics  *Metrics // nil = metrics disabled
	Socials  *socials.Set
	Log      *zap.Logger

	editors map[ConnState]EditorParser

	postMu sync.Mutex
	posted []func()

	startTime time.Time
	stopOnce  sync.Once
	stop      chan struct{}
	pulses    uint64
}

// GameOptions carries the collaborators NewGame wires together.
type GameOptions struct {
	Store   PlayerStore
	Audit   *AuditLog
	Texts   *TextFiles
	Socials *socials.Set
	Metrics *Metrics
	Logger  *zap.Logger
}

// NewGame builds a game over world with the command table installed.
func NewGame(conf *GameConf, world *gamedb.World, opts GameOptions) (*Game, error) {
	if conf == nil {
		conf = DefaultGameConf()
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("game: no player store")
	}
	g := &Game{
		Conf:      conf,
		World:     world,
		Conns:     NewConnManager(),
		Store:     opts.Store,
		Audit:     opts.Audit,
		Texts:     opts.Texts,
		EventBus:  events.NewBus(),
		Metrics:   opts.Metrics,
		Socials:   opts.Socials,
		Log:       opts.Logger,
		startTime: time.Now(),
		stop:      make(chan struct{}),
	}
	if g.Log == nil {
		g.Log = zap.NewNop()
	}
	if g.Texts == nil {
		g.Texts = NewTextFiles("")
	}
	if g.Socials == nil {
		set, err := socials.Default()
		if err != nil {
			return nil, fmt.Errorf("game: load socials: %w", err)
		}
		g.Socials = set
	}
	g.Conns.EventBus = g.EventBus

	io := conf.InterpOptions()
	io.Logger = g.Log.Named("interp")
	io.OnDispatch = g.onDispatch
	g.Interp = interp.New(nil, world, io)
	g.Interp.SetTable(g.commandTable(socials.NewHandler(g.Socials, world)))
	g.editors = g.editorTable()
	return g, nil
}

// onDispatch feeds every interpreted line into metrics and, for immortal
// commands that ran, the audit log.
func (g *Game) onDispatch(rec interp.Dispatch) {
	g.Metrics.Dispatched(rec.Outcome)
	if rec.Outcome != interp.OutcomeHandled || rec.MinLevel < gamedb.LvlImmort {
		return
	}
	if err := g.Audit.RecordCommand(rec.Actor, rec.Command, rec.Arg); err != nil {
		g.Log.Warn("audit command failed", zap.String("name", rec.Actor), zap.Error(err))
	}
}

// post schedules fn to run on the game thread at the start of the next pulse.
func (g *Game) post(fn func()) {
	g.postMu.Lock()
	g.posted = append(g.posted, fn)
	g.postMu.Unlock()
}

func (g *Game) runPosted() {
	g.postMu.Lock()
	fns := g.posted
	g.posted = nil
	g.postMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// Accept greets a new connection and hands it to the game loop.
func (g *Game) Accept(d *Descriptor) {
	if d.Transport == TransportWebSocket {
		// browsers always speak UTF-8
		d.State = ConGetName
		d.Send(g.Texts.Get(TextGreetings))
		d.SendPrompt(msgWhatName)
	} else {
		d.State = ConGetProtocol
		d.SendPrompt(msgProtocol)
	}
	g.register(d)
}

func (g *Game) register(d *Descriptor) {
	g.Conns.Add(d)
	g.Metrics.Connected(d.Transport)
	g.Log.Info("new connection",
		zap.Int("desc", d.ID), zap.String("addr", d.Addr), zap.Stringer("transport", d.Transport))
}

// Pulse runs one tick of the game loop: it tears down dead connections,
// then gives every remaining connection at most one line of input, in
// ascending descriptor order.
func (g *Game) Pulse() {
	g.pulses++
	g.runPosted()

	idle := g.Conf.Idle()
	for _, d := range g.Conns.AllDescriptors() {
		if d.IsClosed() || d.State == ConClose {
			g.closeDescriptor(d)
			continue
		}
		if idle > 0 && d.Idle() > idle {
			d.Send(msgIdleTimeout)
			d.State = ConClose
		}
	}

	for _, d := range g.Conns.AllDescriptors() {
		if d.State == ConClose {
			continue
		}
		line, aliased, ok := d.Input.Pop()
		if !ok {
			continue
		}
		g.handleLine(d, line, aliased)
	}
}

// handleLine routes one input line by connection state. Lines an alias
// expansion queued are interpreted without another alias pass.
func (g *Game) handleLine(d *Descriptor, line string, aliased bool) {
	switch {
	case d.State == ConPlaying:
		ch := d.Character
		if ch == nil {
			g.Log.Error("playing descriptor without a character", zap.Int("desc", d.ID))
			d.State = ConClose
			return
		}
		res := interp.AliasNone
		if !aliased {
			line, res = g.Interp.ResolveAlias(ch, line, d.Input)
		}
		if res != interp.AliasQueued {
			g.Interp.Interpret(ch, line)
		}
		if d.State == ConPlaying && d.Input.Len() == 0 {
			d.SendPrompt(prompt)
		}
	case d.State.IsEditor():
		ed, ok := g.editors[d.State]
		if !ok {
			ed = EditorFunc(g.unavailableEditor)
		}
		ed.Parse(d, strings.TrimSpace(line))
	default:
		g.nanny(d, line)
	}
}

// closeDescriptor removes a finished connection. A character in the world
// stays there without a link so its owner can reconnect to it.
func (g *Game) closeDescriptor(d *Descriptor) {
	d.Close()
	if ch := d.Character; ch != nil && g.World.IsLive(ch) {
		if ch.Link == gamedb.Link(d) {
			ch.Link = nil
		}
		body := ch
		if d.Original != nil && g.World.IsLive(d.Original) {
			body = d.Original
		}
		g.toRoom(body, fmt.Sprintf(msgLostLink, body.Name))
		g.saveCharacter(body)
		g.publish(events.Event{
			Type:     events.EvDisconnect,
			Channel:  events.ChanLogins,
			Source:   body.Name,
			MinLevel: gamedb.LvlImmort,
			Text:     fmt.Sprintf(msgWizLostLink, body.Name),
			Data:     map[string]any{"name": body.Name},
		})
	}
	g.Conns.Remove(d)
	g.Log.Info("connection closed",
		zap.Int("desc", d.ID), zap.String("addr", d.Addr), zap.String("name", d.Name()))
}

// Run drives Pulse until ctx is cancelled or Shutdown is called.
func (g *Game) Run(ctx context.Context) {
	ticker := time.NewTicker(g.Conf.Pulse())
	defer ticker.Stop()
	stats := time.NewTicker(15 * time.Second)
	defer stats.Stop()

	for {
		select {
		case <-ctx.Done():
			g.finish()
			return
		case <-g.stop:
			g.finish()
			return
		case <-stats.C:
			g.Metrics.Observe(g)
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						g.Log.Error("panic in game loop", zap.Any("panic", r), zap.Stack("stack"))
					}
				}()
				g.Pulse()
			}()
		}
	}
}

// Shutdown asks Run to stop after the current pulse.
func (g *Game) Shutdown() {
	g.stopOnce.Do(func() { close(g.stop) })
}

// Stopping reports whether Shutdown has been called.
func (g *Game) Stopping() bool {
	select {
	case <-g.stop:
		return true
	default:
		return false
	}
}

// finish saves every player in the world and closes every connection.
func (g *Game) finish() {
	for _, ch := range g.World.Characters() {
		if !ch.IsNPC() {
			g.saveCharacter(ch)
		}
	}
	for _, d := range g.Conns.AllDescriptors() {
		d.Send(msgShutdown)
		d.Close()
		g.Conns.Remove(d)
	}
	g.Log.Info("game stopped", zap.Uint64("pulses", g.pulses))
}

// Uptime returns how long the game has been running.
func (g *Game) Uptime() time.Duration {
	return time.Since(g.startTime)
}

// saveCharacter writes a player character back to its record.
func (g *Game) saveCharacter(ch *gamedb.Character) *gamedb.PlayerRecord {
	if ch == nil || ch.IsNPC() || ch.PlayerID == gamedb.NoPlayer {
		return nil
	}
	rec, err := g.Store.Get(ch.PlayerID)
	if err != nil {
		g.Log.Error("load for save failed", zap.String("name", ch.Name), zap.Error(err))
		return nil
	}
	rec.Update(ch)
	if err := g.Store.Put(rec); err != nil {
		g.Log.Error("save failed", zap.String("name", ch.Name), zap.Error(err))
		return nil
	}
	return rec
}

func (g *Game) publish(ev events.Event) {
	if g.EventBus != nil {
		g.EventBus.Publish(ev)
	}
}

// descOf returns the connection controlling ch, if any.
func descOf(ch *gamedb.Character) *Descriptor {
	if ch == nil {
		return nil
	}
	d, _ := ch.Link.(*Descriptor)
	return d
}

// toRoom tells everyone awake in actor's room except actor.
func (g *Game) toRoom(actor *gamedb.Character, msg string) {
	g.toRoomExcept(actor.Room, msg, actor)
}

func (g *Game) toRoomExcept(room gamedb.RoomVnum, msg string, skip ...*gamedb.Character) {
	for _, p := range g.World.PeopleIn(room) {
		if p.Position <= gamedb.PosSleeping || contains(skip, p) {
			continue
		}
		p.Send(msg)
	}
}

func contains(list []*gamedb.Character, ch *gamedb.Character) bool {
	for _, c := range list {
		if c == ch {
			return true
		}
	}
	return false
}

// playing returns the connections currently in the game, in id order.
func (g *Game) playing() []*Descriptor {
	var out []*Descriptor
	for _, d := range g.Conns.AllDescriptors() {
		if d.State == ConPlaying && d.Character != nil {
			out = append(out, d)
		}
	}
	return out
}

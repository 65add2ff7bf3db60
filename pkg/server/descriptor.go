package server

import (
	"fmt"
	"io"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/charset"
	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/gamedb"
	"github.com/haneul-mud/haneul/pkg/oob"
)

// TransportType identifies the kind of transport a Descriptor uses.
type TransportType int

const (
	TransportTCP       TransportType = iota // Telnet over TCP or TLS
	TransportWebSocket                      // WebSocket (JSON events)
)

func (t TransportType) String() string {
	if t == TransportWebSocket {
		return "websocket"
	}
	return "tcp"
}

// ConnState is where a connection stands in the login dialogue.
type ConnState int

const (
	ConGetProtocol ConnState = iota // choosing a character set
	ConGetName
	ConNameConfirm
	ConPassword
	ConNewPassword
	ConConfirmPassword
	ConQSex
	ConQClass
	ConReadMOTD
	ConMenu
	ConExDesc // description editor
	ConChPwdGetOld
	ConChPwdGetNew
	ConChPwdVerify
	ConDelConf1
	ConDelConf2
	ConPlaying
	ConClose
	ConPrefEdit
	ConREdit
	ConOEdit
	ConZEdit
	ConMEdit
	ConSEdit
	ConTrigEdit
	ConQEdit
	ConTextEdit
	numConnStates
)

var connStateNames = [numConnStates]string{
	"get_protocol", "get_name", "name_confirm", "password", "new_password",
	"confirm_password", "sex", "class", "read_motd", "menu", "desc_editor",
	"chpwd_old", "chpwd_new", "chpwd_verify", "delete_1", "delete_2",
	"playing", "closing", "pref_editor", "room_editor", "object_editor",
	"zone_editor", "mob_editor", "shop_editor", "trigger_editor",
	"quest_editor", "text_editor",
}

func (s ConnState) String() string {
	if s < 0 || s >= numConnStates {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return connStateNames[s]
}

// IsEditor reports whether lines in this state go to an editor parser.
func (s ConnState) IsEditor() bool {
	return s == ConExDesc || (s >= ConPrefEdit && s < numConnStates)
}

// creating reports whether the connection is building a new character.
func (s ConnState) creating() bool {
	return s >= ConNameConfirm && s <= ConQClass && s != ConPassword
}

const outputBuffer = 256

// Descriptor represents a single client connection.
// It implements events.Subscriber so it can receive channel traffic, and
// gamedb.Link so characters can write to it.
type Descriptor struct {
	ID        int
	Conn      net.Conn
	Addr      string
	Transport TransportType
	ConnTime  time.Time
	State     ConnState
	OOB       *oob.Capabilities // Negotiated telnet options (nil = none)
	Input     *InputQueue

	// Character is the body this connection controls. Original is the
	// immortal's own body while switched into another.
	Character *gamedb.Character
	Original  *gamedb.Character
	Record    *gamedb.PlayerRecord

	BadPWs int

	// Editor scratch state.
	editBuf    []string
	editReturn ConnState
	pendingPW  string

	// SendFunc overrides the default Send behavior (used by WebSocket transport and tests).
	SendFunc func(msg string)
	// ReceiveFunc overrides the default Receive behavior (used by WebSocket transport).
	ReceiveFunc func(ev events.Event)

	out       chan []byte
	closer    io.Closer // transport to shut when the descriptor closes, if not Conn
	mu        sync.Mutex
	closed    bool
	lastInput time.Time
	cs        charset.Charset
}

// NewDescriptor wraps a net.Conn into a Descriptor.
func NewDescriptor(id int, conn net.Conn) *Descriptor {
	d := newDescriptor(id, conn.RemoteAddr().String())
	d.Conn = conn
	d.out = make(chan []byte, outputBuffer)
	return d
}

func newDescriptor(id int, addr string) *Descriptor {
	now := time.Now()
	return &Descriptor{
		ID:         id,
		Addr:       addr,
		ConnTime:   now,
		State:      ConGetProtocol,
		cs:         charset.UTF8,
		Input:      &InputQueue{},
		editReturn: ConMenu,
		lastInput:  now,
	}
}

// writeLoop drains queued output to the socket so the game thread never
// blocks on a slow client.
func (d *Descriptor) writeLoop(log *zap.Logger) {
	for b := range d.out {
		d.Conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if _, err := d.Conn.Write(b); err != nil {
			log.Debug("write failed", zap.Int("desc", d.ID), zap.Error(err))
			d.Close()
			return
		}
	}
}

func (d *Descriptor) enqueue(b []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.out == nil {
		return
	}
	select {
	case d.out <- b:
	default:
		// output overflow: the client stopped reading
		d.closeLocked()
	}
}

// Charset returns the connection's wire encoding.
func (d *Descriptor) Charset() charset.Charset {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cs
}

// SetCharset changes the wire encoding for both directions.
func (d *Descriptor) SetCharset(cs charset.Charset) {
	d.mu.Lock()
	d.cs = cs
	d.mu.Unlock()
}

// Send writes a line to the client in its character set.
func (d *Descriptor) Send(msg string) {
	if d.SendFunc != nil {
		d.SendFunc(msg)
		return
	}
	if !strings.HasSuffix(msg, "\n") {
		msg += "\r\n"
	}
	d.enqueue(d.Charset().Encode(msg))
}

// SendPrompt writes text without a line ending.
func (d *Descriptor) SendPrompt(msg string) {
	if d.SendFunc != nil {
		d.SendFunc(msg)
		return
	}
	d.enqueue(d.Charset().Encode(msg))
}

// SendRaw writes raw bytes to the connection (no newline, no encoding).
// Used for telnet negotiation; ignored on transports without a socket.
func (d *Descriptor) SendRaw(data []byte) {
	if d.SendFunc != nil || d.Conn == nil {
		return
	}
	d.enqueue(data)
}

// Close shuts down the connection.
func (d *Descriptor) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *Descriptor) closeLocked() {
	if d.closed {
		return
	}
	d.closed = true
	if d.out != nil {
		close(d.out)
	}
	if d.Conn != nil {
		// let the writer flush what it has
		go func(c net.Conn) {
			time.Sleep(100 * time.Millisecond)
			c.Close()
		}(d.Conn)
	} else if d.closer != nil {
		go d.closer.Close()
	}
}

// IsClosed returns whether the connection has been closed.
func (d *Descriptor) IsClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// touch records input activity.
func (d *Descriptor) touch() {
	d.mu.Lock()
	d.lastInput = time.Now()
	d.mu.Unlock()
}

// Idle returns how long since the last input line.
func (d *Descriptor) Idle() time.Duration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Since(d.lastInput)
}

// Name returns the name of the character being played or created.
func (d *Descriptor) Name() string {
	switch {
	case d.Original != nil:
		return d.Original.Name
	case d.Character != nil:
		return d.Character.Name
	}
	return ""
}

// Receive implements events.Subscriber. It delivers an event to the client
// using the appropriate encoding for this transport.
func (d *Descriptor) Receive(ev events.Event) {
	ch := d.Character
	if d.State != ConPlaying || ch == nil {
		return
	}
	if ev.Source != "" && (ev.Source == ch.Name || ev.Source == d.Name()) {
		return
	}
	if ev.MinLevel > 0 && d.level() < ev.MinLevel {
		return
	}
	switch ev.Channel {
	case events.ChanGossip:
		if ch.Pref(gamedb.PrfNoGossip) {
			return
		}
	case events.ChanWiznet:
		if ch.Pref(gamedb.PrfNoWiz) {
			return
		}
	}

	if d.ReceiveFunc != nil {
		d.ReceiveFunc(ev)
		return
	}
	if ev.Text != "" {
		d.Send(ev.Text)
	}
	if d.OOB != nil && d.OOB.GMCP {
		if buf := oob.EncodeGMCP(ev); buf != nil {
			d.SendRaw(buf)
		}
	}
}

// level is the privilege of the person behind the connection.
func (d *Descriptor) level() int {
	if d.Original != nil {
		return d.Original.Level
	}
	if d.Character != nil {
		return d.Character.Level
	}
	return 0
}

// Closed implements events.Subscriber.
func (d *Descriptor) Closed() bool {
	return d.IsClosed()
}

var (
	_ events.Subscriber = (*Descriptor)(nil)
	_ gamedb.Link       = (*Descriptor)(nil)
)

// ConnManager tracks all active connections.
type ConnManager struct {
	mu          sync.RWMutex
	descriptors map[int]*Descriptor
	nextID      int
	EventBus    *events.Bus // Event bus for pub/sub (nil = disabled)
}

// NewConnManager creates a new connection manager.
func NewConnManager() *ConnManager {
	return &ConnManager{
		descriptors: make(map[int]*Descriptor),
		nextID:      1,
	}
}

// Add registers a new descriptor.
func (cm *ConnManager) Add(d *Descriptor) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.descriptors[d.ID] = d
}

// Remove unregisters a descriptor and unsubscribes it from the event bus.
func (cm *ConnManager) Remove(d *Descriptor) {
	if cm.EventBus != nil {
		cm.EventBus.UnsubscribeAll(d)
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.descriptors, d.ID)
}

// NextID returns the next descriptor ID.
func (cm *ConnManager) NextID() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	id := cm.nextID
	cm.nextID++
	return id
}

// Get returns the descriptor with the given id, or nil.
func (cm *ConnManager) Get(id int) *Descriptor {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.descriptors[id]
}

// AllDescriptors returns a snapshot of all active descriptors in ascending
// id order, which is the order the game loop serves them in.
func (cm *ConnManager) AllDescriptors() []*Descriptor {
	cm.mu.RLock()
	descs := make([]*Descriptor, 0, len(cm.descriptors))
	for _, d := range cm.descriptors {
		descs = append(descs, d)
	}
	cm.mu.RUnlock()
	sort.Slice(descs, func(i, j int) bool { return descs[i].ID < descs[j].ID })
	return descs
}

// Count returns the number of active connections.
func (cm *ConnManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.descriptors)
}

// FormatIdleTime formats a duration as a human-readable idle time.
func FormatIdleTime(d time.Duration) string {
	secs := int(d.Seconds())
	if secs < 60 {
		return fmt.Sprintf("%d초", secs)
	}
	if secs < 3600 {
		return fmt.Sprintf("%d분", secs/60)
	}
	if secs < 86400 {
		return fmt.Sprintf("%d시간", secs/3600)
	}
	return fmt.Sprintf("%d일", secs/86400)
}

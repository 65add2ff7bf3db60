package server

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/interp"
	"github.com/haneul-mud/haneul/pkg/oob"
)

// negotiateTimeout bounds how long a new telnet connection waits for
// option replies before the protocol prompt.
const negotiateTimeout = time.Second

// Server owns the listeners feeding a Game.
type Server struct {
	Conf *GameConf
	Game *Game
	Log  *zap.Logger

	mu          sync.Mutex
	listener    net.Listener
	tlsListener net.Listener
	web         *WebServer
	wg          sync.WaitGroup
}

// NewServer creates a server for game.
func NewServer(game *Game) *Server {
	return &Server{
		Conf: game.Conf,
		Game: game,
		Log:  game.Log.Named("net"),
	}
}

// Run opens the configured listeners, runs the game loop until ctx is
// cancelled or the game shuts itself down, then closes everything.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	errCh := make(chan error, 1)
	if s.Conf.WebEnabled {
		cfg := WebConfigFrom(s.Conf)
		s.mu.Lock()
		s.web = NewWebServer(s.Game, cfg)
		s.mu.Unlock()
		go func() {
			if err := s.web.Start(cfg); err != nil {
				errCh <- fmt.Errorf("server: web: %w", err)
			}
		}()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case err := <-errCh:
			s.Log.Error("listener failed", zap.Error(err))
			errCh <- err
			cancel()
		case <-ctx.Done():
		}
	}()

	s.Game.Run(ctx)
	s.Stop()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}

// Listen opens the cleartext and TLS listeners and starts accepting.
func (s *Server) Listen() error {
	if !s.Conf.IsCleartext() && !s.Conf.TLS {
		return fmt.Errorf("server: both cleartext and TLS listeners are disabled")
	}

	if s.Conf.IsCleartext() {
		ln, err := net.Listen("tcp", ":"+strconv.Itoa(s.Conf.Port))
		if err != nil {
			return fmt.Errorf("server: cleartext listener: %w", err)
		}
		s.mu.Lock()
		s.listener = ln
		s.mu.Unlock()
		s.Log.Info("listening", zap.String("addr", ln.Addr().String()), zap.Bool("tls", false))
		s.serve(ln)
	}

	if s.Conf.TLS {
		res, err := SetupTLS("", s.Conf.TLSCert, s.Conf.TLSKey, s.Conf.CertDir, s.Log)
		if err != nil {
			s.Stop()
			return fmt.Errorf("server: tls: %w", err)
		}
		ln, err := tls.Listen("tcp", ":"+strconv.Itoa(s.Conf.TLSPort), res.Config)
		if err != nil {
			s.Stop()
			return fmt.Errorf("server: TLS listener: %w", err)
		}
		s.mu.Lock()
		s.tlsListener = ln
		s.mu.Unlock()
		s.Log.Info("listening", zap.String("addr", ln.Addr().String()), zap.Bool("tls", true))
		s.serve(ln)
	}
	return nil
}

// Addr returns the cleartext listener's address, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) serve(ln net.Listener) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ln)
	}()
}

// acceptLoop accepts connections on the given listener until it is closed.
func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.Log.Warn("accept failed", zap.Error(err))
			time.Sleep(50 * time.Millisecond)
			continue
		}
		go s.handleConnection(conn)
	}
}

// Stop closes every listener and the web server. Open connections are
// left to the game loop.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.listener != nil {
		s.listener.Close()
	}
	if s.tlsListener != nil {
		s.tlsListener.Close()
	}
	web := s.web
	s.mu.Unlock()

	if web != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := web.Stop(ctx); err != nil {
			s.Log.Warn("web shutdown", zap.Error(err))
		}
	}
	s.wg.Wait()
}

// handleConnection negotiates telnet options, hands the connection to the
// game and then feeds it lines until the client goes away.
func (s *Server) handleConnection(conn net.Conn) {
	d := NewDescriptor(s.Game.Conns.NextID(), conn)
	defer d.Close()

	caps := oob.Negotiate(conn, negotiateTimeout, s.Log)
	go d.writeLoop(s.Log)
	if caps.HasAny() {
		d.OOB = caps
		if caps.MSSP {
			d.SendRaw(oob.EncodeMSSP(s.mssp()))
		}
	}
	s.Game.Accept(d)
	s.readLoop(d)
}

// readBufferSize bounds how much of one line is kept before the rest of it
// is dropped.
const readBufferSize = 8192

// readLoop splits the byte stream into lines, strips telnet commands,
// decodes the line from the connection's character set and queues it.
// Over-long lines are cut to the maximum input length and the player is
// told.
func (s *Server) readLoop(d *Descriptor) {
	maxLen := s.Conf.MaxInputLength
	r := bufio.NewReaderSize(d.Conn, readBufferSize)
	for {
		raw, truncated, err := readLine(r)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.Log.Debug("read failed", zap.Int("desc", d.ID), zap.Error(err))
			}
			return
		}
		if d.IsClosed() {
			return
		}
		line := d.Charset().Decode(oob.Strip(trimEOL(raw)))
		if maxLen > 0 && len(line) > maxLen {
			line = interp.Truncate(line, maxLen)
			truncated = true
		}
		if truncated {
			d.Send(fmt.Sprintf(msgLineTruncated, line))
		}
		d.touch()
		d.Input.PushBack(line)
	}
}

// readLine returns the next line from r. A line longer than r's buffer is
// cut to the buffer and the rest of it, up to the newline, is discarded. A
// final line without a newline is returned before io.EOF.
func readLine(r *bufio.Reader) (line []byte, truncated bool, err error) {
	line, err = r.ReadSlice('\n')
	if errors.Is(err, bufio.ErrBufferFull) {
		line = append([]byte(nil), line...)
		truncated = true
		for errors.Is(err, bufio.ErrBufferFull) {
			_, err = r.ReadSlice('\n')
		}
	}
	if errors.Is(err, io.EOF) && len(line) > 0 {
		err = nil
	}
	return line, truncated, err
}

func trimEOL(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r' || b[len(b)-1] == 0) {
		b = b[:len(b)-1]
	}
	return b
}

// mssp describes the server to MUD crawlers.
func (s *Server) mssp() map[string]string {
	return map[string]string{
		"NAME":     s.Conf.MudName,
		"PLAYERS":  strconv.Itoa(len(s.Game.Conns.AllDescriptors())),
		"UPTIME":   strconv.FormatInt(s.Game.startTime.Unix(), 10),
		"CODEBASE": VersionString(),
		"LANGUAGE": "Korean",
		"PORT":     strconv.Itoa(s.Conf.Port),
		"FAMILY":   "DikuMUD",
	}
}

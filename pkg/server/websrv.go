package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/haneul-mud/haneul/pkg/events"
	"github.com/haneul-mud/haneul/pkg/interp"
)

// WebConfig holds configuration for the web server.
type WebConfig struct {
	Port        int
	Host        string
	Domain      string
	CertFile    string
	KeyFile     string
	CertDir     string
	CORSOrigins []string
	RateLimit   int
	JWTSecret   string
	JWTExpiry   int
	Metrics     bool
}

// WebConfigFrom extracts the web settings from a GameConf.
func WebConfigFrom(gc *GameConf) WebConfig {
	return WebConfig{
		Port:        gc.WebPort,
		Host:        gc.WebHost,
		Domain:      gc.WebDomain,
		CertFile:    gc.TLSCert,
		KeyFile:     gc.TLSKey,
		CertDir:     gc.CertDir,
		CORSOrigins: gc.WebCORSOrigins,
		RateLimit:   gc.WebRateLimit,
		JWTSecret:   gc.JWTSecret,
		JWTExpiry:   gc.JWTExpiry,
		Metrics:     gc.MetricsEnabled,
	}
}

// WebServer provides the WebSocket transport and a small JSON API
// alongside the telnet listener.
type WebServer struct {
	game     *Game
	httpSrv  *http.Server
	mux      *http.ServeMux
	auth     *AuthService
	rl       *rateLimiter
	upgrader websocket.Upgrader
	log      *zap.Logger
	cancel   context.CancelFunc
}

// NewWebServer creates a web server bound to the game.
func NewWebServer(game *Game, cfg WebConfig) *WebServer {
	ws := &WebServer{
		game: game,
		mux:  http.NewServeMux(),
		auth: NewAuthService(game.Store, game.Audit, cfg.JWTSecret, cfg.JWTExpiry),
		rl:   newRateLimiter(cfg.RateLimit),
		log:  game.Log.Named("web"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if len(cfg.CORSOrigins) == 0 {
					return true
				}
				origin := r.Header.Get("Origin")
				for _, o := range cfg.CORSOrigins {
					if strings.EqualFold(o, origin) {
						return true
					}
				}
				return false
			},
		},
	}
	ws.registerRoutes(cfg)
	return ws
}

// Auth returns the auth service.
func (ws *WebServer) Auth() *AuthService {
	return ws.auth
}

// Handler returns the fully wrapped HTTP handler.
func (ws *WebServer) Handler() http.Handler {
	return ws.httpSrv.Handler
}

func (ws *WebServer) registerRoutes(cfg WebConfig) {
	ws.mux.HandleFunc("GET /ws", ws.handleWebSocket)
	ws.mux.HandleFunc("POST /api/v1/auth/login", ws.handleAuthLogin)
	ws.mux.HandleFunc("POST /api/v1/auth/refresh", ws.handleAuthRefresh)
	ws.mux.Handle("GET /api/v1/me", authMiddleware(ws.auth, http.HandlerFunc(ws.handleMe)))
	ws.mux.HandleFunc("GET /api/v1/who", ws.handleWho)
	ws.mux.HandleFunc("GET /health", ws.handleHealth)
	if cfg.Metrics && ws.game.Metrics != nil {
		ws.mux.Handle("GET /metrics", ws.game.Metrics.Handler())
	}

	// CORS -> rate limit -> log -> mux
	handler := http.Handler(ws.mux)
	handler = logMiddleware(ws.log, handler)
	handler = rateLimitMiddleware(ws.rl, handler)
	handler = corsMiddleware(cfg.CORSOrigins, handler)

	ws.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Start begins listening and blocks until the server stops. It serves
// HTTPS when TLS can be set up and plain HTTP otherwise.
func (ws *WebServer) Start(cfg WebConfig) error {
	ctx, cancel := context.WithCancel(context.Background())
	ws.cancel = cancel
	go ws.rl.janitor(ctx)

	hasTLS := cfg.Domain != "" || (cfg.CertFile != "" && cfg.KeyFile != "") || cfg.CertDir != ""
	if hasTLS {
		result, err := SetupTLS(cfg.Domain, cfg.CertFile, cfg.KeyFile, cfg.CertDir, ws.log)
		if err != nil {
			ws.log.Warn("TLS setup failed, falling back to HTTP", zap.Error(err))
		} else {
			ws.httpSrv.TLSConfig = result.Config
			if result.AutocertMgr != nil {
				go ws.serveACME(result)
			}
			ws.log.Info("listening", zap.String("addr", ws.httpSrv.Addr), zap.String("scheme", "https"))
			return ignoreClosed(ws.httpSrv.ListenAndServeTLS("", ""))
		}
	}

	ws.log.Info("listening", zap.String("addr", ws.httpSrv.Addr), zap.String("scheme", "http"))
	return ignoreClosed(ws.httpSrv.ListenAndServe())
}

// serveACME answers Let's Encrypt HTTP challenges on port 80.
func (ws *WebServer) serveACME(result *TLSResult) {
	srv := &http.Server{
		Addr:              ":80",
		Handler:           result.AutocertMgr.HTTPHandler(nil),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ws.log.Info("ACME challenge listener on :80")
	if err := ignoreClosed(srv.ListenAndServe()); err != nil {
		ws.log.Error("ACME listener failed", zap.Error(err))
	}
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts down the web server.
func (ws *WebServer) Stop(ctx context.Context) error {
	if ws.cancel != nil {
		ws.cancel()
	}
	return ws.httpSrv.Shutdown(ctx)
}

// --- WebSocket ---

// WSMessage is the JSON message format for WebSocket communication.
type WSMessage struct {
	Type    string         `json:"type"`
	Text    string         `json:"text,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Channel string         `json:"channel,omitempty"`
	Command string         `json:"command,omitempty"`
}

// handleWebSocket upgrades the request and hands the connection to the
// game. A valid token skips the name and password steps.
func (ws *WebServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	var claims *Claims
	token := r.URL.Query().Get("token")
	if token == "" {
		token, _ = bearerToken(r)
	}
	if token != "" {
		var err error
		claims, err = ws.auth.ValidateToken(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
	}

	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	d, wc := newWSDescriptor(ws.game.Conns.NextID(), conn, forwardedFor(r))
	if claims != nil {
		wc.sendJSON(WSMessage{
			Type: "login",
			Data: map[string]any{
				"player_id":   uint64(claims.PlayerID),
				"player_name": claims.PlayerName,
			},
		})
		ws.game.AcceptToken(d, claims.PlayerID)
	} else {
		ws.game.Accept(d)
	}
	go ws.readLoop(d, wc)
}

// forwardedFor returns the client address, honouring X-Forwarded-For and
// X-Real-IP from a reverse proxy.
func forwardedFor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return clientIP(r)
}

// wsConn holds the WebSocket connection and its write mutex.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (wc *wsConn) sendJSON(msg WSMessage) {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	wc.conn.WriteJSON(msg)
}

func (wc *wsConn) Close() error {
	wc.mu.Lock()
	defer wc.mu.Unlock()
	wc.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return wc.conn.Close()
}

// newWSDescriptor creates a Descriptor whose output is written as JSON
// messages on the WebSocket.
func newWSDescriptor(id int, conn *websocket.Conn, addr string) (*Descriptor, *wsConn) {
	wc := &wsConn{conn: conn}
	d := newDescriptor(id, addr)
	d.Transport = TransportWebSocket
	d.closer = wc
	d.SendFunc = func(msg string) {
		wc.sendJSON(WSMessage{Type: "text", Text: msg})
	}
	d.ReceiveFunc = func(ev events.Event) {
		wc.sendJSON(WSMessage{
			Type:    ev.Type.String(),
			Text:    ev.Text,
			Data:    ev.Data,
			Channel: ev.Channel,
		})
	}
	return d, wc
}

// readLoop queues each command message as one input line. The game loop
// notices the closed descriptor after the socket goes away.
func (ws *WebServer) readLoop(d *Descriptor, wc *wsConn) {
	defer d.Close()
	maxLen := ws.game.Conf.MaxInputLength
	for {
		_, raw, err := wc.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.log.Debug("websocket read failed", zap.Int("desc", d.ID), zap.Error(err))
			}
			return
		}
		if d.IsClosed() {
			return
		}

		var msg WSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			wc.sendJSON(WSMessage{Type: "error", Text: "invalid JSON message"})
			continue
		}
		if msg.Type != "command" {
			wc.sendJSON(WSMessage{Type: "error", Text: fmt.Sprintf("unknown message type: %s", msg.Type)})
			continue
		}
		line := strings.TrimRight(msg.Command, "\r\n")
		if maxLen > 0 {
			line = interp.Truncate(line, maxLen)
		}
		d.touch()
		d.Input.PushBack(line)
	}
}

// --- JSON API ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (ws *WebServer) handleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := ws.auth.Login(req.Name, req.Password, forwardedFor(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (ws *WebServer) handleAuthRefresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}
	newToken, err := ws.auth.RefreshToken(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": newToken})
}

func (ws *WebServer) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"player_id":   uint64(claims.PlayerID),
		"player_name": claims.PlayerName,
		"expires_at":  claims.ExpiresAt.Time,
	})
}

func (ws *WebServer) handleWho(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	list, err := ws.game.Who(ctx)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "game not responding")
		return
	}
	if list == nil {
		list = []WhoEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(list), "players": list})
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"version":        Version,
		"uptime_seconds": ws.game.Uptime().Seconds(),
		"connections":    ws.game.Conns.Count(),
		"game_running":   !ws.game.Stopping(),
	})
}

package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"go-elevator-controller/pkg/bus"
	"go-elevator-controller/pkg/elevator"

	"github.com/gorilla/websocket"
)

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// Message types
// 메시지 타입 정의
type ClientMessage struct {
	Action   string            `json:"action"`
	Config   *ControllerConfig `json:"config,omitempty"`
	Topic    int               `json:"topic,omitempty"`
	Subtopic int               `json:"subtopic,omitempty"`
	Body     int               `json:"body,omitempty"`
}

type ControllerConfig struct {
	ID             int `json:"id"`
	TravelTimeMs   int `json:"travelTimeMs"`
	TickIntervalMs int `json:"tickIntervalMs"`
	DoorHoldTicks  int `json:"doorHoldTicks"`
}

type ServerMessage struct {
	Type     string           `json:"type"`
	Topic    int              `json:"topic,omitempty"`
	Subtopic int              `json:"subtopic,omitempty"`
	Body     int              `json:"body"`
	Status   *elevator.Status `json:"status,omitempty"`
	Mode     string           `json:"mode,omitempty"`
}

// ControllerSession manages a WebSocket connection with one controller instance.
// ControllerSession은 하나의 제어기 인스턴스와의 WebSocket 연결을 관리합니다.
type ControllerSession struct {
	conn       *websocket.Conn
	bus        *bus.MemoryBus
	controller *elevator.Controller
	mu         sync.Mutex
	writeMu    sync.Mutex
	done       chan struct{}
	cancel     context.CancelFunc
}

func NewControllerSession(conn *websocket.Conn) *ControllerSession {
	return &ControllerSession{
		conn: conn,
		done: make(chan struct{}),
	}
}

func (s *ControllerSession) HandleMessages() {
	slog.Info("Session started", "remote_addr", s.conn.RemoteAddr())
	defer func() {
		close(s.done)
		s.mu.Lock()
		s.shutdown()
		s.mu.Unlock()
		_ = s.conn.Close()
		slog.Info("Session ended", "remote_addr", s.conn.RemoteAddr())
	}()

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket read error", "error", err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			slog.Warn("Failed to parse message", "error", err)
			continue
		}

		s.handleAction(msg)
	}
}

func (s *ControllerSession) handleAction(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slog.Debug("Action received", "action", msg.Action, "payload", msg)

	switch msg.Action {
	case "init":
		s.initController(msg.Config)
	case "publish":
		if s.bus != nil {
			m := bus.New(bus.Topic(msg.Topic), msg.Subtopic, msg.Body)
			if !s.bus.Deliver(m) {
				slog.Warn("Message not subscribed by controller", "msg", m)
			}
		}
	case "getState":
		if s.controller != nil {
			s.sendState()
		}
	case "stop":
		s.shutdown()
	}
}

// shutdown stops the running controller. Caller holds s.mu.
func (s *ControllerSession) shutdown() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.controller != nil {
		s.controller.Close()
		s.controller = nil
	}
	s.bus = nil
}

func (s *ControllerSession) initController(cfg *ControllerConfig) {
	if cfg == nil {
		slog.Warn("No config provided for init")
		return
	}

	// Stop existing controller if any
	s.shutdown()

	config := elevator.DefaultConfig(cfg.ID)
	if cfg.TravelTimeMs > 0 {
		config.TravelTime = time.Duration(cfg.TravelTimeMs) * time.Millisecond
	}
	if cfg.TickIntervalMs > 0 {
		config.TickInterval = time.Duration(cfg.TickIntervalMs) * time.Millisecond
	}
	if cfg.DoorHoldTicks > 0 {
		config.DoorHoldTicks = cfg.DoorHoldTicks
	}
	slog.Info("Controller config", "config", config)

	b := bus.NewMemoryBus()
	c, err := elevator.New(b, config)
	if err != nil {
		slog.Error("Failed to initialize controller", "error", err)
		return
	}
	s.bus = b
	s.controller = c

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// 발행 메시지 구독
	go s.outboundListener(ctx, b)
	go func() {
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Controller run error", "error", err)
		}
	}()
	go s.stateReporter(ctx, c)

	slog.Info("Controller initialized", "id", cfg.ID)
	s.sendState()
}

// outboundListener forwards every message the controller publishes.
func (s *ControllerSession) outboundListener(ctx context.Context, b *bus.MemoryBus) {
	outCh := b.Outbound()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.done:
			return
		case m := <-outCh:
			s.writeJSON(ServerMessage{
				Type:     "message",
				Topic:    int(m.Topic),
				Subtopic: m.Subtopic,
				Body:     m.Body,
			})
		}
	}
}

// stateReporter pushes a status snapshot once per second.
func (s *ControllerSession) stateReporter(ctx context.Context, c *elevator.Controller) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.writeState(c)
		}
	}
}

// sendState writes the current status. Caller holds s.mu.
func (s *ControllerSession) sendState() {
	if s.controller == nil {
		return
	}
	s.writeState(s.controller)
}

func (s *ControllerSession) writeState(c *elevator.Controller) {
	status := c.Status()
	s.writeJSON(ServerMessage{
		Type:   "state",
		Status: &status,
		Mode:   status.Mode.String(),
	})
}

func (s *ControllerSession) writeJSON(msg ServerMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		slog.Error("Failed to write JSON message", "error", err)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}

	session := NewControllerSession(conn)
	session.HandleMessages()
}

type AppConfig struct {
	Port     string
	LogLevel slog.Level
}

func loadConfig() *AppConfig {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return &AppConfig{
		Port:     port,
		LogLevel: parseLevel(os.Getenv("LOG_LEVEL")),
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// initLogger installs a text handler with compact timestamps.
func initLogger(level slog.Level) {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("15:04:05"))
				}
			}
			return a
		},
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	cfg := loadConfig()
	initLogger(cfg.LogLevel)

	// Serve static files from embedded filesystem
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/", http.FileServer(http.FS(staticFS)))
	http.HandleFunc("/ws", handleWebSocket)
	http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	addr := ":" + cfg.Port
	slog.Info("Starting elevator controller server", "addr", addr)
	slog.Info("Open http://localhost:" + cfg.Port + " in your browser")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal(err)
	}
}

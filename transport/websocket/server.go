package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	sendBufferSize  = 32
	pingInterval    = 30 * time.Second
	writeWait       = 10 * time.Second
	maxMessageBytes = 1 << 20
	shutdownTimeout = 5 * time.Second
)

type gameUseCase interface {
	CreateGame(ctx context.Context) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	PlaceStone(ctx context.Context, id string, cell entity.Cell) (*entity.Game, error)
	ResetGame(ctx context.Context, id string) (*entity.Game, error)
	ImportSnapshot(ctx context.Context, id string, snapshot *entity.Snapshot) (*entity.Game, error)
}

type handlerFunc func(ctx context.Context, message *Message, conn *client) error

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc

	// watchers holds every connection that has touched a game, keyed by game id.
	watchersMutex sync.RWMutex
	watchers      map[string]map[*client]struct{}
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},

		handlers: make(map[string]handlerFunc),
		watchers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionGameNew] = server.handleNewGame
	server.handlers[actionGameState] = server.handleGameState
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameReset] = server.handleGameReset
	server.handlers[actionGameRestore] = server.handleGameRestore

	return server
}

// Start - starts WebSocket server and stops it when ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", that.ServeWS)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Shutdown does not wait for hijacked connections; they end with ctx.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	that.logger.Info("WebSocket server stopped")

	return nil
}

// ServeWS upgrades the request and serves messages until the client goes away.
func (that *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeWS")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	c := newClient(conn)

	go func() {
		if err := c.writePump(ctx); err != nil {
			log.Debug("write pump stopped", "error", err)
		}
		_ = conn.Close()
	}()

	log.Info("WebSocket connection established")

	that.handleMessages(ctx, c)
	that.forget(c)

	log.Info("WebSocket connection closed")
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	c.conn.SetReadLimit(maxMessageBytes)

	for {
		_, reqBody, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Debug("failed to unmarshal message", "error", err)
			that.sendError(c, "", "malformed message", "")
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Debug("unknown action", "action", message.Action)
			that.sendError(c, message.Action, "unknown action", "")
			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// watch registers c for updates of gameID.
func (that *Server) watch(gameID string, c *client) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	clients, ok := that.watchers[gameID]
	if !ok {
		clients = make(map[*client]struct{})
		that.watchers[gameID] = clients
	}

	clients[c] = struct{}{}
}

// forget drops c from every game it watched.
func (that *Server) forget(c *client) {
	that.watchersMutex.Lock()
	defer that.watchersMutex.Unlock()

	for gameID, clients := range that.watchers {
		delete(clients, c)
		if len(clients) == 0 {
			delete(that.watchers, gameID)
		}
	}

	c.close()
}

// broadcast sends the message to everyone watching gameID.
func (that *Server) broadcast(gameID, action string, payload Payload) {
	log := that.logger.With("method", "broadcast", "game_id", gameID)

	data, err := encodeMessage(action, payload)
	if err != nil {
		log.Error("failed to marshal message", "error", err)
		return
	}

	that.watchersMutex.RLock()
	defer that.watchersMutex.RUnlock()

	for c := range that.watchers[gameID] {
		if !c.enqueue(data) {
			log.Warn("client send buffer is full, message dropped", "action", action)
		}
	}
}

func (that *Server) sendMessage(c *client, action string, payload Payload) error {
	data, err := encodeMessage(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	if !c.enqueue(data) {
		return fmt.Errorf("failed to send %s: client send buffer is full", action)
	}

	return nil
}

func (that *Server) sendError(c *client, action, errorMsg, reason string) {
	if err := that.sendMessage(c, action, Payload{Error: errorMsg, Reason: reason}); err != nil {
		that.logger.Error("failed to send error response", "action", action, "error", err)
	}
}

// client is one connection. Only writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
		done: make(chan struct{}),
	}
}

// enqueue never blocks; it reports false when the message could not be queued.
func (that *client) enqueue(data []byte) bool {
	select {
	case <-that.done:
		return false
	default:
	}

	select {
	case that.send <- data:
		return true
	default:
		return false
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() { close(that.done) })
}

// writePump drains the send queue and pings the peer while it is idle.
func (that *client) writePump(ctx context.Context) error {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-that.done:
			return nil
		case data := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return fmt.Errorf("failed to write message: %w", err)
			}
		case <-ticker.C:
			if err := that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return fmt.Errorf("failed to write ping: %w", err)
			}
		}
	}
}

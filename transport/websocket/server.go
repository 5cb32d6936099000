package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"

	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
	"github.com/rocketscienceinc/bullscows-backend/internal/usecase"
)

type roomManager interface {
	Mode() entity.Mode

	CreateRoom(ctx context.Context, creatorID string) (string, error)
	JoinTable(ctx context.Context, playerID string) error
	JoinRoom(ctx context.Context, roomID, playerID string) error
	StartGame(ctx context.Context, roomID, playerID string) error
	MakeGuess(ctx context.Context, roomID, playerID, raw string) error
	RequestRestart(ctx context.Context, roomID, playerID string) error
	ExitGame(ctx context.Context, roomID, playerID string) error
	LeaveRoom(ctx context.Context, roomID, playerID string) error
}

type handler func(ctx context.Context, c *client, message *Message) error

type Server struct {
	logger      *slog.Logger
	hub         *Hub
	roomManager roomManager
	upgrader    gorilla.Upgrader

	handlers map[string]handler
}

func New(logger *slog.Logger, hub *Hub, roomManager roomManager) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket_server"),
		hub:         hub,
		roomManager: roomManager,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers: make(map[string]handler),
	}

	server.handlers[entity.ActionCreateRoom] = server.handleCreateRoom
	server.handlers[entity.ActionJoinRoom] = server.handleJoinRoom
	server.handlers[entity.ActionStartGame] = server.handleStartGame
	server.handlers[entity.ActionGuess] = server.handleGuess
	server.handlers[entity.ActionRestartGame] = server.handleRestartGame
	server.handlers[entity.ActionExitGame] = server.handleExitGame

	return server
}

// ServeHTTP - upgrades the connection to WebSocket and serves it until it closes.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	// the request context is not cancelled by a hijacked connection going away
	ctx := context.WithoutCancel(req.Context())

	c := newClient(uuid.NewString(), conn, that.logger)
	that.hub.register(c)
	go c.writePump()

	log = log.With("playerID", c.id)
	log.Info("WebSocket connection established")

	that.hub.Notify(entity.Notice{
		To:      []string{c.id},
		Action:  entity.ActionConnected,
		Payload: entity.ConnectedPayload{PlayerID: c.id},
	})

	if that.roomManager.Mode() == entity.ModeTable {
		if err = that.roomManager.JoinTable(ctx, c.id); err != nil {
			log.Info("table refused the connection", "error", err)
			that.hub.unregister(c)
			c.close()
			return
		}
		c.setRoom(usecase.TableID)
	}

	c.readPump(func(data []byte) {
		that.handleMessage(ctx, c, data)
	})

	that.disconnect(ctx, c)
}

func (that *Server) handleMessage(ctx context.Context, c *client, data []byte) {
	log := that.logger.With("method", "handleMessage", "playerID", c.id)

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Warn("failed to unmarshal message", "error", err)
		return
	}

	handle, ok := that.handlers[message.Action]
	if !ok {
		log.Warn("unknown action", "action", message.Action)
		return
	}

	if err := handle(ctx, c, &message); err != nil {
		log.Info("failed to process message", "action", message.Action, "error", err)
	}
}

func (that *Server) disconnect(ctx context.Context, c *client) {
	that.hub.unregister(c)
	c.close()

	if roomID := c.room(); roomID != "" {
		if err := that.roomManager.LeaveRoom(ctx, roomID, c.id); err != nil {
			that.logger.Info("failed to leave room on disconnect", "roomID", roomID, "playerID", c.id, "error", err)
		}
	}

	that.logger.Info("WebSocket connection closed", "playerID", c.id)
}

package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
)

func (that *Server) handleCreateRoom(ctx context.Context, c *client, _ *Message) error {
	if c.room() != "" {
		return that.reply(c, apperror.ErrAlreadyInRoom)
	}

	roomID, err := that.roomManager.CreateRoom(ctx, c.id)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}

	c.setRoom(roomID)

	return nil
}

func (that *Server) handleJoinRoom(ctx context.Context, c *client, msg *Message) error {
	var payload JoinRoomPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if c.room() != "" {
		return that.reply(c, apperror.ErrAlreadyInRoom)
	}

	if err := that.roomManager.JoinRoom(ctx, payload.RoomID, c.id); err != nil {
		return fmt.Errorf("failed to join room: %w", err)
	}

	c.setRoom(payload.RoomID)

	return nil
}

func (that *Server) handleStartGame(ctx context.Context, c *client, _ *Message) error {
	roomID, err := that.currentRoom(c)
	if err != nil {
		return err
	}

	if err = that.roomManager.StartGame(ctx, roomID, c.id); err != nil {
		return fmt.Errorf("failed to start game: %w", err)
	}

	return nil
}

func (that *Server) handleGuess(ctx context.Context, c *client, msg *Message) error {
	var payload GuessPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	roomID, err := that.currentRoom(c)
	if err != nil {
		return err
	}

	if err = that.roomManager.MakeGuess(ctx, roomID, c.id, payload.Digits); err != nil {
		return fmt.Errorf("failed to make guess: %w", err)
	}

	return nil
}

func (that *Server) handleRestartGame(ctx context.Context, c *client, _ *Message) error {
	roomID, err := that.currentRoom(c)
	if err != nil {
		return err
	}

	if err = that.roomManager.RequestRestart(ctx, roomID, c.id); err != nil {
		return fmt.Errorf("failed to request restart: %w", err)
	}

	return nil
}

func (that *Server) handleExitGame(ctx context.Context, c *client, _ *Message) error {
	roomID, err := that.currentRoom(c)
	if err != nil {
		return err
	}

	if err = that.roomManager.ExitGame(ctx, roomID, c.id); err != nil {
		return fmt.Errorf("failed to exit game: %w", err)
	}

	// a table seat is kept until the connection closes
	if that.roomManager.Mode() == entity.ModeRooms {
		c.setRoom("")
	}

	return nil
}

func (that *Server) currentRoom(c *client) (string, error) {
	roomID := c.room()
	if roomID == "" {
		return "", that.reply(c, apperror.ErrNotInRoom)
	}

	return roomID, nil
}

// reply tells the client why its request was refused and returns err.
func (that *Server) reply(c *client, err error) error {
	that.hub.Notify(entity.Message(err.Error(), c.id))
	return err
}

package apperror

import "errors"

var (
	ErrRoomNotFound        = errors.New("room does not exist")
	ErrRoomFull            = errors.New("room is full")
	ErrGameAlreadyStarted  = errors.New("game has already started")
	ErrAlreadyInRoom       = errors.New("player is already in a room")
	ErrNotInRoom           = errors.New("player is not in a room")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrInsufficientPlayers = errors.New("at least 2 players are required to start the game")
	ErrUnauthorized        = errors.New("only the room creator can start the game")
	ErrInvalidGuess        = errors.New("guess must be exactly 4 digits")
	ErrRoomIDExhausted     = errors.New("could not allocate a free room id")
)

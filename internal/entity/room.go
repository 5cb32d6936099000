package entity

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
	"github.com/rocketscienceinc/bullscows-backend/internal/bullscows"
)

// Mode selects how players are grouped into rooms.
type Mode string

const (
	// ModeRooms - many rooms, created and joined explicitly, started by the creator.
	ModeRooms Mode = "rooms"
	// ModeTable - one shared table, joined on connect, started when both seats fill.
	ModeTable Mode = "table"
)

const (
	MaxMembers = 2

	RolePlayer1 = "player1"
	RolePlayer2 = "player2"

	noTurn = -1
)

var ErrUnknownMode = errors.New("unknown game mode")

func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case "", ModeRooms:
		return ModeRooms, nil
	case ModeTable:
		return ModeTable, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownMode, raw)
	}
}

// Rules supplies the randomness and scoring a room needs to play rounds.
type Rules interface {
	Secret() bullscows.Secret
	FirstTurn(members int) int
	Score(guess bullscows.Guess, secret bullscows.Secret) bullscows.Score
}

// Room is the state of one game. It is not safe for concurrent use; the owner
// serializes every call.
//
// Every transition returns the notices it produced. On rejection the error is
// returned together with any notice addressed to the caller, except for
// ErrNotYourTurn which is silent.
type Room struct {
	id      string
	mode    Mode
	creator string
	rules   Rules

	members      []string
	secret       bullscows.Secret
	turn         int
	turnSeq      uint64
	started      bool
	finished     bool
	restartVotes map[string]struct{}
}

func NewRoom(id string, mode Mode, creator string, rules Rules) *Room {
	return &Room{
		id:           id,
		mode:         mode,
		creator:      creator,
		rules:        rules,
		turn:         noTurn,
		restartVotes: make(map[string]struct{}),
	}
}

func (that *Room) ID() string {
	return that.id
}

func (that *Room) Mode() Mode {
	return that.mode
}

func (that *Room) Creator() string {
	return that.creator
}

func (that *Room) Members() []string {
	members := make([]string, len(that.members))
	copy(members, that.members)
	return members
}

func (that *Room) IsEmpty() bool {
	return len(that.members) == 0
}

func (that *Room) IsMember(playerID string) bool {
	return that.indexOf(playerID) != noTurn
}

func (that *Room) IsStarted() bool {
	return that.started
}

// IsFinished reports a round that ended with a win and awaits restart or exit.
func (that *Room) IsFinished() bool {
	return that.finished
}

// TurnIndex - index into Members of the current guesser.
func (that *Room) TurnIndex() (int, bool) {
	if that.turn == noTurn {
		return 0, false
	}
	return that.turn, true
}

// TurnSeq changes every time a turn is handed to a member.
func (that *Room) TurnSeq() uint64 {
	return that.turnSeq
}

// IsTurnActive reports whether somebody is expected to guess right now.
func (that *Room) IsTurnActive() bool {
	return that.started && !that.finished && that.turn != noTurn
}

func (that *Room) RestartVotes() int {
	return len(that.restartVotes)
}

func (that *Room) Secret() (bullscows.Secret, bool) {
	return that.secret, that.started
}

// RoleOf - player1 for the first member, player2 for anybody after.
func (that *Room) RoleOf(playerID string) string {
	switch that.indexOf(playerID) {
	case noTurn:
		return ""
	case 0:
		return RolePlayer1
	default:
		return RolePlayer2
	}
}

func (that *Room) Join(playerID string) ([]Notice, error) {
	if that.IsMember(playerID) {
		return that.reject(playerID, apperror.ErrAlreadyInRoom)
	}

	if that.mode == ModeTable && len(that.members) >= MaxMembers {
		return that.reject(playerID, apperror.ErrRoomFull)
	}

	if that.started {
		return that.reject(playerID, apperror.ErrGameAlreadyStarted)
	}

	if len(that.members) >= MaxMembers {
		return that.reject(playerID, apperror.ErrRoomFull)
	}

	that.members = append(that.members, playerID)

	if that.mode == ModeTable {
		notices := []Notice{that.notify(playerID, ActionRole, RolePayload{Role: that.RoleOf(playerID)})}

		if len(that.members) < MaxMembers {
			return append(notices, Message("waiting for an opponent to join...", playerID)), nil
		}

		return append(notices, that.start()...), nil
	}

	var notices []Notice
	if playerID == that.creator {
		notices = append(notices, that.notify(playerID, ActionRoomCreated, RoomCreatedPayload{
			RoomID:    that.id,
			CreatorID: that.creator,
		}))
	} else {
		notices = append(notices, Message("waiting for the host to start the game...", that.members...))
	}

	return append(notices, that.roomUpdate()), nil
}

func (that *Room) Start(requestedBy string) ([]Notice, error) {
	if !that.IsMember(requestedBy) {
		return that.reject(requestedBy, apperror.ErrNotInRoom)
	}

	if that.mode == ModeRooms && requestedBy != that.creator {
		return that.reject(requestedBy, apperror.ErrUnauthorized)
	}

	if that.started {
		return that.reject(requestedBy, apperror.ErrGameAlreadyStarted)
	}

	if len(that.members) != MaxMembers {
		return []Notice{Message(apperror.ErrInsufficientPlayers.Error(), that.members...)}, apperror.ErrInsufficientPlayers
	}

	return that.start(), nil
}

func (that *Room) Guess(playerID string, guess bullscows.Guess) ([]Notice, error) {
	if !that.IsTurnActive() || that.members[that.turn] != playerID {
		return nil, apperror.ErrNotYourTurn
	}

	score := that.rules.Score(guess, that.secret)

	notices := []Notice{that.broadcast(ActionGuessResult, GuessResultPayload{
		Player: that.RoleOf(playerID),
		Guess:  guess.String(),
		Result: score.String(),
	})}

	if score.IsWin() {
		// the turn stays where it is until restart or exit
		that.finished = true

		return append(notices, that.broadcast(ActionGameOver, GameOverPayload{
			Winner:       playerID,
			TargetNumber: that.secret.String(),
		})), nil
	}

	return append(notices, that.passTurn()...), nil
}

func (that *Room) RequestRestart(playerID string) ([]Notice, error) {
	if !that.IsMember(playerID) {
		return that.reject(playerID, apperror.ErrNotInRoom)
	}

	that.restartVotes[playerID] = struct{}{}

	notices := []Notice{that.notify(playerID, ActionWaitingForOpponent, nil)}
	for _, other := range that.othersThan(playerID) {
		notices = append(notices, that.notify(other, ActionOpponentWaitingForRestart, nil))
	}

	if len(that.members) != MaxMembers || len(that.restartVotes) != len(that.members) {
		return notices, nil
	}

	notices = append(notices, that.broadcast(ActionGameRestarted, nil))
	that.reset()

	return append(notices, that.start()...), nil
}

// Exit ends the round for everybody. At a table the seat is kept; in a room the
// player leaves it, so the caller must check IsEmpty afterwards.
func (that *Room) Exit(playerID string) ([]Notice, error) {
	if !that.IsMember(playerID) {
		return that.reject(playerID, apperror.ErrNotInRoom)
	}

	notices := []Notice{that.notify(playerID, ActionShowWaiting, nil)}

	if that.mode == ModeRooms {
		left, err := that.Leave(playerID)
		if err != nil {
			return nil, err
		}

		return append(notices, left...), nil
	}

	for _, other := range that.othersThan(playerID) {
		notices = append(notices, that.notify(other, ActionOpponentExited, nil))
	}

	that.reset()

	return notices, nil
}

// Leave removes a member. A room left with nobody produces no notices; the caller
// destroys it.
func (that *Room) Leave(playerID string) ([]Notice, error) {
	idx := that.indexOf(playerID)
	if idx == noTurn {
		return nil, apperror.ErrNotInRoom
	}

	that.members = append(that.members[:idx], that.members[idx+1:]...)
	that.reset()

	if len(that.members) == 0 {
		return nil, nil
	}

	if that.mode == ModeTable {
		notices := []Notice{that.broadcast(ActionOpponentDisconnected, nil)}
		for _, member := range that.members {
			notices = append(notices, that.notify(member, ActionRole, RolePayload{Role: that.RoleOf(member)}))
		}

		return notices, nil
	}

	if playerID == that.creator {
		that.creator = that.members[0]
	}

	return []Notice{
		that.broadcast(ActionPlayerDisconnected, PlayerDisconnectedPayload{PlayerID: playerID}),
		that.roomUpdate(),
	}, nil
}

// ExpireTurn forfeits the current turn if seq still identifies it.
func (that *Room) ExpireTurn(seq uint64) []Notice {
	if !that.IsTurnActive() || seq != that.turnSeq {
		return nil
	}

	notices := []Notice{that.broadcast(ActionTurnTimeout, TurnTimeoutPayload{
		Player: that.RoleOf(that.members[that.turn]),
	})}

	return append(notices, that.passTurn()...)
}

func (that *Room) Snapshot() *RoomSnapshot {
	return &RoomSnapshot{
		ID:        that.id,
		Mode:      that.mode,
		Players:   that.Members(),
		CreatorID: that.creator,
		Started:   that.started,
		Finished:  that.finished,
	}
}

func (that *Room) start() []Notice {
	that.secret = that.rules.Secret()
	that.turn = that.rules.FirstTurn(len(that.members))
	that.started = true
	that.finished = false
	that.turnSeq++

	current := that.members[that.turn]
	others := that.othersThan(current)

	notices := []Notice{
		that.notify(current, ActionYourTurn, nil),
		that.notify(current, ActionGameStart, GameStartPayload{Message: "game started! it's your turn to guess"}),
	}
	for _, other := range others {
		notices = append(notices,
			that.notify(other, ActionWaitForOpponent, nil),
			that.notify(other, ActionGameStart, GameStartPayload{Message: "game started! wait for your opponent's guess"}),
		)
	}

	return notices
}

func (that *Room) passTurn() []Notice {
	that.turn = (that.turn + 1) % len(that.members)
	that.turnSeq++

	current := that.members[that.turn]

	notices := []Notice{that.notify(current, ActionYourTurn, nil)}
	for _, other := range that.othersThan(current) {
		notices = append(notices, that.notify(other, ActionWaitForOpponent, nil))
	}

	return notices
}

func (that *Room) reset() {
	that.secret = bullscows.Secret{}
	that.turn = noTurn
	that.started = false
	that.finished = false
	clear(that.restartVotes)
}

func (that *Room) indexOf(playerID string) int {
	for i, member := range that.members {
		if member == playerID {
			return i
		}
	}
	return noTurn
}

func (that *Room) othersThan(playerID string) []string {
	others := make([]string, 0, len(that.members))
	for _, member := range that.members {
		if member != playerID {
			others = append(others, member)
		}
	}
	return others
}

func (that *Room) roomUpdate() Notice {
	return that.broadcast(ActionRoomUpdate, RoomUpdatePayload{
		RoomID:  that.id,
		Players: that.Members(),
	})
}

func (that *Room) broadcast(action string, payload any) Notice {
	return Notice{To: that.Members(), Action: action, Payload: payload}
}

func (that *Room) notify(playerID, action string, payload any) Notice {
	return Notice{To: []string{playerID}, Action: action, Payload: payload}
}

func (that *Room) reject(playerID string, err error) ([]Notice, error) {
	return []Notice{Message(err.Error(), playerID)}, err
}

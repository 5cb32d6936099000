package entity

// Inbound actions.
const (
	ActionCreateRoom  = "createRoom"
	ActionJoinRoom    = "joinRoom"
	ActionStartGame   = "startGame"
	ActionGuess       = "guess"
	ActionRestartGame = "restart-game"
	ActionExitGame    = "exit-game"
)

// Outbound actions.
const (
	ActionConnected                 = "connected"
	ActionRoomCreated               = "roomCreated"
	ActionRoomUpdate                = "roomUpdate"
	ActionMessage                   = "message"
	ActionRole                      = "role"
	ActionYourTurn                  = "your-turn"
	ActionWaitForOpponent           = "wait-for-opponent"
	ActionGameStart                 = "game-start"
	ActionGuessResult               = "guess-result"
	ActionGameOver                  = "game-over"
	ActionGameRestarted             = "game-restarted"
	ActionWaitingForOpponent        = "waiting-for-opponent"
	ActionOpponentWaitingForRestart = "opponent-waiting-for-restart"
	ActionOpponentExited            = "opponent-exited"
	ActionOpponentDisconnected      = "opponent-disconnected"
	ActionPlayerDisconnected        = "player-disconnected"
	ActionShowWaiting               = "show-waiting"
	ActionTurnTimeout               = "turn-timeout"
)

// Notice is an outbound message addressed to a set of players.
// Rooms produce notices as data; the transport delivers them.
type Notice struct {
	To      []string
	Action  string
	Payload any
}

type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

type RoomCreatedPayload struct {
	RoomID    string `json:"roomId"`
	CreatorID string `json:"creatorId"`
}

type RoomUpdatePayload struct {
	RoomID  string   `json:"roomId"`
	Players []string `json:"players"`
}

type MessagePayload struct {
	Text string `json:"text"`
}

type RolePayload struct {
	Role string `json:"role"`
}

type GameStartPayload struct {
	Message string `json:"message,omitempty"`
}

type GuessResultPayload struct {
	Player string `json:"player"`
	Guess  string `json:"guess"`
	Result string `json:"result"`
}

type GameOverPayload struct {
	Winner       string `json:"winner"`
	TargetNumber string `json:"targetNumber"`
}

type PlayerDisconnectedPayload struct {
	PlayerID string `json:"playerId"`
}

type TurnTimeoutPayload struct {
	Player string `json:"player"`
}

// Message - builds a human-readable status notice.
func Message(text string, to ...string) Notice {
	return Notice{
		To:      to,
		Action:  ActionMessage,
		Payload: MessagePayload{Text: text},
	}
}

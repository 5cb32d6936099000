package websocket

import (
	"encoding/json"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outbound struct {
	Action  string `json:"action"`
	Payload any    `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type GuessPayload struct {
	Digits string `json:"digits"`
}

func encode(action string, payload any) ([]byte, error) {
	return json.Marshal(outbound{Action: action, Payload: payload})
}

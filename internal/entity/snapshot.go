package entity

// RoomSnapshot is the public lobby view of a room. It never carries the secret.
type RoomSnapshot struct {
	ID        string   `json:"id"`
	Mode      Mode     `json:"mode"`
	Players   []string `json:"players"`
	CreatorID string   `json:"creator_id,omitempty"`
	Started   bool     `json:"started"`
	Finished  bool     `json:"finished"`
}

func (that *RoomSnapshot) IsFull() bool {
	return len(that.Players) >= MaxMembers
}

package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
)

type memoryRoom struct {
	mu    sync.RWMutex
	rooms map[string]entity.RoomSnapshot
}

// NewMemoryRoomRepository keeps snapshots in process. It is the default when no
// redis is configured.
func NewMemoryRoomRepository() RoomRepository {
	return &memoryRoom{
		rooms: make(map[string]entity.RoomSnapshot),
	}
}

func (that *memoryRoom) CreateOrUpdate(_ context.Context, room *entity.RoomSnapshot) error {
	stored := *room
	stored.Players = append([]string(nil), room.Players...)

	that.mu.Lock()
	that.rooms[room.ID] = stored
	that.mu.Unlock()

	return nil
}

func (that *memoryRoom) GetByID(_ context.Context, id string) (*entity.RoomSnapshot, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	stored, ok := that.rooms[id]
	if !ok {
		return nil, apperror.ErrRoomNotFound
	}

	room := stored
	room.Players = append([]string(nil), stored.Players...)

	return &room, nil
}

func (that *memoryRoom) DeleteByID(_ context.Context, id string) error {
	that.mu.Lock()
	delete(that.rooms, id)
	that.mu.Unlock()

	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
)

const (
	roomKeyPrefix = "room:"

	// snapshots of rooms lost in a crash disappear on their own
	roomTTL = 24 * time.Hour
)

type RoomRepository interface {
	CreateOrUpdate(ctx context.Context, room *entity.RoomSnapshot) error
	GetByID(ctx context.Context, id string) (*entity.RoomSnapshot, error)
	DeleteByID(ctx context.Context, id string) error
}

type dbRoom struct {
	client *redis.Client
}

func NewRoomRepository(client *redis.Client) RoomRepository {
	return &dbRoom{
		client: client,
	}
}

func (that *dbRoom) CreateOrUpdate(ctx context.Context, room *entity.RoomSnapshot) error {
	roomJSON, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("could not marshal room: %w", err)
	}

	err = that.client.Set(ctx, roomKeyPrefix+room.ID, roomJSON, roomTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set room: %w", err)
	}

	return nil
}

func (that *dbRoom) GetByID(ctx context.Context, id string) (*entity.RoomSnapshot, error) {
	response, err := that.client.Get(ctx, roomKeyPrefix+id).Result()

	if errors.Is(err, redis.Nil) {
		return nil, apperror.ErrRoomNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get room by id: %w", err)
	}

	var room entity.RoomSnapshot
	if err = json.Unmarshal([]byte(response), &room); err != nil {
		return nil, fmt.Errorf("failed to unmarshal room: %w", err)
	}

	return &room, nil
}

func (that *dbRoom) DeleteByID(ctx context.Context, id string) error {
	err := that.client.Del(ctx, roomKeyPrefix+id).Err()
	if err != nil {
		return fmt.Errorf("failed to delete room by id: %w", err)
	}

	return nil
}

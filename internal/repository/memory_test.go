package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
)

func TestMemoryRoomRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("Stores a copy of the snapshot", func(t *testing.T) {
		// Given: a saved snapshot
		roomRepo := NewMemoryRoomRepository()
		room := &entity.RoomSnapshot{ID: "abcde", Mode: entity.ModeRooms, Players: []string{"alice"}, CreatorID: "alice"}
		require.NoError(t, roomRepo.CreateOrUpdate(ctx, room))

		// When: the caller keeps mutating its own value
		room.Players[0] = "mallory"
		room.Started = true

		// Then: the stored snapshot is unaffected
		stored, err := roomRepo.GetByID(ctx, "abcde")
		require.NoError(t, err)
		assert.Equal(t, []string{"alice"}, stored.Players)
		assert.False(t, stored.Started)
	})

	t.Run("Missing room", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()

		_, err := roomRepo.GetByID(ctx, "abcde")

		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		roomRepo := NewMemoryRoomRepository()
		require.NoError(t, roomRepo.CreateOrUpdate(ctx, &entity.RoomSnapshot{ID: "abcde"}))

		require.NoError(t, roomRepo.DeleteByID(ctx, "abcde"))
		require.NoError(t, roomRepo.DeleteByID(ctx, "abcde"))

		_, err := roomRepo.GetByID(ctx, "abcde")
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
	})
}

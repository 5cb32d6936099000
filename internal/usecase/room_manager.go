package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/bullscows-backend/internal/apperror"
	"github.com/rocketscienceinc/bullscows-backend/internal/bullscows"
	"github.com/rocketscienceinc/bullscows-backend/internal/entity"
)

const (
	// TableID is the id of the only room in table mode.
	TableID = "table"

	maxIDAttempts = 16
)

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.RoomSnapshot) error
	DeleteByID(ctx context.Context, id string) error
}

// notifier delivers notices to connected players. It is called while the room
// lock is held, so it must not block on the network.
type notifier interface {
	Notify(notices ...entity.Notice)
}

type roomEntry struct {
	mu        sync.Mutex
	room      *entity.Room
	destroyed bool

	timer    *time.Timer
	timerSeq uint64
}

// RoomManager owns every room by id. Transitions of one room are serialized by
// the room's own lock; the id map has a separate lock that is never held while
// waiting on a room lock.
type RoomManager struct {
	logger   *slog.Logger
	roomRepo roomRepo
	notifier notifier
	rules    entity.Rules

	mode        entity.Mode
	newID       IDGenerator
	turnTimeout time.Duration

	mu    sync.Mutex
	rooms map[string]*roomEntry
}

type Option func(*RoomManager)

func WithMode(mode entity.Mode) Option {
	return func(that *RoomManager) {
		that.mode = mode
	}
}

func WithIDGenerator(newID IDGenerator) Option {
	return func(that *RoomManager) {
		that.newID = newID
	}
}

// WithTurnTimeout - forfeit a turn nobody acted on within d. Zero disables it.
func WithTurnTimeout(d time.Duration) Option {
	return func(that *RoomManager) {
		that.turnTimeout = d
	}
}

func NewRoomManager(logger *slog.Logger, roomRepo roomRepo, notifier notifier, rules entity.Rules, opts ...Option) *RoomManager {
	manager := &RoomManager{
		logger:   logger.With("component", "room_manager"),
		roomRepo: roomRepo,
		notifier: notifier,
		rules:    rules,

		mode:  entity.ModeRooms,
		newID: NewRoomIDGenerator(5),

		rooms: make(map[string]*roomEntry),
	}

	for _, opt := range opts {
		opt(manager)
	}

	return manager
}

func (that *RoomManager) Mode() entity.Mode {
	return that.mode
}

// CreateRoom - allocates a fresh id, creates the room and seats its creator.
func (that *RoomManager) CreateRoom(ctx context.Context, creatorID string) (string, error) {
	log := that.logger.With("method", "CreateRoom", "playerID", creatorID)

	that.mu.Lock()

	roomID, err := that.allocateIDLocked()
	if err != nil {
		that.mu.Unlock()
		that.notifier.Notify(entity.Message(apperror.ErrRoomIDExhausted.Error(), creatorID))

		return "", fmt.Errorf("failed to allocate room id: %w", err)
	}

	entry := &roomEntry{room: entity.NewRoom(roomID, that.mode, creatorID, that.rules)}
	that.rooms[roomID] = entry

	// nobody else can see the entry before the registry lock is released
	entry.mu.Lock()
	that.mu.Unlock()
	defer entry.mu.Unlock()

	notices, err := entry.room.Join(creatorID)
	that.notifier.Notify(notices...)
	if err != nil {
		return "", fmt.Errorf("failed to seat creator: %w", err)
	}

	that.saveLocked(ctx, entry)

	log.Info("room created", "roomID", roomID)

	return roomID, nil
}

// JoinTable - seats the player at the shared table, creating it when absent.
func (that *RoomManager) JoinTable(ctx context.Context, playerID string) error {
	for {
		entry := that.tableEntry()

		entry.mu.Lock()
		if entry.destroyed {
			// lost a race with the last player leaving; the next lookup creates a new table
			entry.mu.Unlock()
			continue
		}

		notices, err := entry.room.Join(playerID)
		that.notifier.Notify(notices...)
		if err == nil {
			that.saveLocked(ctx, entry)
			that.armTurnTimerLocked(entry)
		}
		entry.mu.Unlock()

		if err != nil {
			return fmt.Errorf("failed to join table: %w", err)
		}

		return nil
	}
}

func (that *RoomManager) JoinRoom(ctx context.Context, roomID, playerID string) error {
	return that.withRoom(ctx, roomID, playerID, func(room *entity.Room) ([]entity.Notice, error) {
		return room.Join(playerID)
	})
}

func (that *RoomManager) StartGame(ctx context.Context, roomID, playerID string) error {
	return that.withRoom(ctx, roomID, playerID, func(room *entity.Room) ([]entity.Notice, error) {
		return room.Start(playerID)
	})
}

// MakeGuess scores raw against the room's secret. Guesses out of turn are dropped
// without a reply.
func (that *RoomManager) MakeGuess(ctx context.Context, roomID, playerID, raw string) error {
	guess, err := bullscows.ParseGuess(raw)
	if err != nil {
		that.notifier.Notify(entity.Message(apperror.ErrInvalidGuess.Error(), playerID))
		return fmt.Errorf("failed to parse guess: %w", err)
	}

	return that.withRoom(ctx, roomID, playerID, func(room *entity.Room) ([]entity.Notice, error) {
		return room.Guess(playerID, guess)
	})
}

func (that *RoomManager) RequestRestart(ctx context.Context, roomID, playerID string) error {
	return that.withRoom(ctx, roomID, playerID, func(room *entity.Room) ([]entity.Notice, error) {
		return room.RequestRestart(playerID)
	})
}

func (that *RoomManager) ExitGame(ctx context.Context, roomID, playerID string) error {
	return that.withRoom(ctx, roomID, playerID, func(room *entity.Room) ([]entity.Notice, error) {
		return room.Exit(playerID)
	})
}

// LeaveRoom handles a disconnect. The room is destroyed with its last member.
func (that *RoomManager) LeaveRoom(ctx context.Context, roomID, playerID string) error {
	return that.withRoom(ctx, roomID, playerID, func(room *entity.Room) ([]entity.Notice, error) {
		return room.Leave(playerID)
	})
}

// RemoveRoom deletes a room. Removing an unknown id is a no-op.
func (that *RoomManager) RemoveRoom(ctx context.Context, roomID string) {
	that.mu.Lock()
	entry, ok := that.rooms[roomID]
	delete(that.rooms, roomID)
	that.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.destroyed = true
		that.stopTurnTimerLocked(entry)
		entry.mu.Unlock()
	}

	that.deleteSnapshot(ctx, roomID)
}

// Snapshot - the live lobby view of a room.
func (that *RoomManager) Snapshot(roomID string) (*entity.RoomSnapshot, error) {
	entry, err := that.lookup(roomID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.destroyed {
		return nil, apperror.ErrRoomNotFound
	}

	return entry.room.Snapshot(), nil
}

func (that *RoomManager) RoomCount() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return len(that.rooms)
}

func (that *RoomManager) withRoom(
	ctx context.Context,
	roomID, playerID string,
	transition func(room *entity.Room) ([]entity.Notice, error),
) error {
	log := that.logger.With("roomID", roomID, "playerID", playerID)

	entry, err := that.lookup(roomID)
	if err != nil {
		that.notifier.Notify(entity.Message(err.Error(), playerID))
		return err
	}

	entry.mu.Lock()

	if entry.destroyed {
		entry.mu.Unlock()
		that.notifier.Notify(entity.Message(apperror.ErrRoomNotFound.Error(), playerID))

		return apperror.ErrRoomNotFound
	}

	notices, err := transition(entry.room)
	that.notifier.Notify(notices...)

	empty := entry.room.IsEmpty()
	if empty {
		entry.destroyed = true
		that.stopTurnTimerLocked(entry)
	} else if err == nil {
		that.saveLocked(ctx, entry)
		that.armTurnTimerLocked(entry)
	}

	entry.mu.Unlock()

	if empty {
		that.removeEntry(ctx, roomID, entry)
		log.Info("room is empty and has been deleted")
	}

	return err
}

func (that *RoomManager) lookup(roomID string) (*roomEntry, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.rooms[roomID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", apperror.ErrRoomNotFound, roomID)
	}

	return entry, nil
}

func (that *RoomManager) tableEntry() *roomEntry {
	that.mu.Lock()
	defer that.mu.Unlock()

	entry, ok := that.rooms[TableID]
	if !ok {
		entry = &roomEntry{room: entity.NewRoom(TableID, entity.ModeTable, "", that.rules)}
		that.rooms[TableID] = entry
	}

	return entry
}

func (that *RoomManager) allocateIDLocked() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		roomID, err := that.newID()
		if err != nil {
			return "", err
		}

		if _, taken := that.rooms[roomID]; !taken && roomID != "" {
			return roomID, nil
		}
	}

	return "", apperror.ErrRoomIDExhausted
}

// removeEntry drops the id only if it still maps to entry, so a later room that
// reused the id survives.
func (that *RoomManager) removeEntry(ctx context.Context, roomID string, entry *roomEntry) {
	that.mu.Lock()
	if that.rooms[roomID] == entry {
		delete(that.rooms, roomID)
	}
	that.mu.Unlock()

	that.deleteSnapshot(ctx, roomID)
}

func (that *RoomManager) saveLocked(ctx context.Context, entry *roomEntry) {
	if err := that.roomRepo.CreateOrUpdate(ctx, entry.room.Snapshot()); err != nil {
		that.logger.Error("failed to save room snapshot", "roomID", entry.room.ID(), "error", err)
	}
}

func (that *RoomManager) deleteSnapshot(ctx context.Context, roomID string) {
	err := that.roomRepo.DeleteByID(ctx, roomID)
	if err != nil && !errors.Is(err, apperror.ErrRoomNotFound) {
		that.logger.Error("failed to delete room snapshot", "roomID", roomID, "error", err)
	}
}

func (that *RoomManager) armTurnTimerLocked(entry *roomEntry) {
	if that.turnTimeout <= 0 {
		return
	}

	if !entry.room.IsTurnActive() {
		that.stopTurnTimerLocked(entry)
		return
	}

	seq := entry.room.TurnSeq()
	if entry.timer != nil && entry.timerSeq == seq {
		return
	}

	that.stopTurnTimerLocked(entry)

	entry.timerSeq = seq
	entry.timer = time.AfterFunc(that.turnTimeout, func() {
		that.expireTurn(entry, seq)
	})
}

func (that *RoomManager) stopTurnTimerLocked(entry *roomEntry) {
	if entry.timer != nil {
		entry.timer.Stop()
		entry.timer = nil
	}
}

func (that *RoomManager) expireTurn(entry *roomEntry, seq uint64) {
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.destroyed {
		return
	}

	notices := entry.room.ExpireTurn(seq)
	if len(notices) == 0 {
		return
	}

	that.logger.Info("turn timed out", "roomID", entry.room.ID())

	that.notifier.Notify(notices...)
	that.armTurnTimerLocked(entry)
}

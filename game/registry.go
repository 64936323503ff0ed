package game

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"sketchparty/domain"
)

// Registry is the process-wide map from room code to running room actor.
// The map itself is guarded by a plain lock; everything inside a room goes
// through that room's inbox.
type Registry struct {
	locker sync.RWMutex
	rooms  map[string]*Room

	codes *codeGenerator
	words WordProvider
	store *persister
	grace time.Duration
}

func NewRegistry(words WordProvider, store Store) *Registry {
	reg := &Registry{
		rooms: make(map[string]*Room),
		codes: newCodeGenerator(time.Now().UnixNano()),
		words: words,
		grace: defaultEmptyGrace,
	}
	if store != nil {
		reg.store = newPersister(store)
		go reg.store.Run()
	}
	return reg
}

// CreateRoom generates a fresh code and spins up a room with the caller as
// owner and first player.
func (reg *Registry) CreateRoom(ctx context.Context, ownerID, ownerName string, settings domain.Settings) (*Room, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	return reg.startRoom(ctx, reg.codes.Generate(), ownerID, ownerName, settings)
}

// CreateRoomWithCode is CreateRoom with a caller-chosen code. Fails when the
// code is already taken.
func (reg *Registry) CreateRoomWithCode(ctx context.Context, code, ownerID, ownerName string, settings domain.Settings) (*Room, error) {
	if err := validateSettings(settings); err != nil {
		return nil, err
	}
	if !reg.codes.Claim(code) {
		return nil, domain.ErrRoomAlreadyExists
	}
	return reg.startRoom(ctx, code, ownerID, ownerName, settings)
}

func (reg *Registry) startRoom(ctx context.Context, code, ownerID, ownerName string, settings domain.Settings) (*Room, error) {
	room := NewRoom(code, settings, reg.words, reg.store, reg.RemoveRoom)
	room.emptyGrace = reg.grace

	reg.locker.Lock()
	if _, exists := reg.rooms[code]; exists {
		reg.locker.Unlock()
		return nil, domain.ErrRoomAlreadyExists
	}
	reg.rooms[code] = room
	reg.locker.Unlock()

	go room.Run()
	if err := room.Join(ctx, ownerID, ownerName); err != nil {
		reg.RemoveRoom(code)
		return nil, err
	}
	log.Info().Str("room", code).Str("owner", ownerID).Msg("room created")
	return room, nil
}

func (reg *Registry) GetRoom(code string) (*Room, error) {
	reg.locker.RLock()
	room, exists := reg.rooms[code]
	reg.locker.RUnlock()
	if !exists {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (reg *Registry) RemoveRoom(code string) {
	reg.locker.Lock()
	room, exists := reg.rooms[code]
	delete(reg.rooms, code)
	reg.locker.Unlock()
	if !exists {
		return
	}
	room.Close()
	reg.codes.Dispose(code)
	log.Info().Str("room", code).Msg("room removed")
}

func (reg *Registry) Close() {
	reg.locker.Lock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for code, room := range reg.rooms {
		rooms = append(rooms, room)
		delete(reg.rooms, code)
	}
	reg.locker.Unlock()

	for _, room := range rooms {
		room.Close()
	}
	if reg.store != nil {
		reg.store.Close()
	}
}

func validateSettings(s domain.Settings) error {
	switch {
	case !s.Difficulty.Valid():
		return domain.ErrInvalidInput
	case s.RoundTimeSeconds <= 0, s.MaxRounds <= 0, s.MinPlayers < 2:
		return domain.ErrInvalidInput
	}
	return nil
}

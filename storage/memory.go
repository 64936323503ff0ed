package storage

import (
	"context"
	"sort"
	"sync"

	"sketchparty/domain"
)

// MemoryRepo keeps everything in process memory. The engine is fully correct
// against it; it exists for tests and for running without a database.
type MemoryRepo struct {
	locker  sync.RWMutex
	rooms   map[string]domain.Room
	players map[string]map[string]domain.Player
	chat    map[string][]domain.ChatMessage
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		rooms:   make(map[string]domain.Room),
		players: make(map[string]map[string]domain.Player),
		chat:    make(map[string][]domain.ChatMessage),
	}
}

func (repo *MemoryRepo) UpsertRoom(_ context.Context, room domain.Room) error {
	repo.locker.Lock()
	defer repo.locker.Unlock()
	repo.rooms[room.Code] = room
	return nil
}

func (repo *MemoryRepo) GetRoom(_ context.Context, code string) (domain.Room, error) {
	repo.locker.RLock()
	defer repo.locker.RUnlock()
	room, ok := repo.rooms[code]
	if !ok {
		return domain.Room{}, domain.ErrRoomNotFound
	}
	return room, nil
}

func (repo *MemoryRepo) UpsertPlayer(_ context.Context, player domain.Player) error {
	repo.locker.Lock()
	defer repo.locker.Unlock()
	byRoom, ok := repo.players[player.RoomCode]
	if !ok {
		byRoom = make(map[string]domain.Player)
		repo.players[player.RoomCode] = byRoom
	}
	byRoom[player.ID] = player
	return nil
}

func (repo *MemoryRepo) DeletePlayer(_ context.Context, roomCode, playerID string) error {
	repo.locker.Lock()
	defer repo.locker.Unlock()
	if byRoom, ok := repo.players[roomCode]; ok {
		delete(byRoom, playerID)
	}
	return nil
}

func (repo *MemoryRepo) AppendChatMessage(_ context.Context, msg domain.ChatMessage) error {
	repo.locker.Lock()
	defer repo.locker.Unlock()
	repo.chat[msg.RoomCode] = append(repo.chat[msg.RoomCode], msg)
	return nil
}

func (repo *MemoryRepo) ListPlayers(_ context.Context, roomCode string) ([]domain.Player, error) {
	repo.locker.RLock()
	defer repo.locker.RUnlock()
	byRoom := repo.players[roomCode]
	players := make([]domain.Player, 0, len(byRoom))
	for _, p := range byRoom {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].Score > players[j].Score })
	return players, nil
}

func (repo *MemoryRepo) ListChatMessages(_ context.Context, roomCode string, limit int) ([]domain.ChatMessage, error) {
	repo.locker.RLock()
	defer repo.locker.RUnlock()
	msgs := repo.chat[roomCode]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}

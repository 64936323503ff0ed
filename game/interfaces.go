package game

import (
	"context"

	"sketchparty/domain"
)

// NetworkSession abstracts the realtime transport so the engine never touches
// a concrete socket library.
type NetworkSession interface {
	Close(errCode string)
	Write(data []byte) error
	Read() ([]byte, error)
	Ping() error
}

// Store is the persistence collaborator. The engine is correct with a purely
// in-memory implementation; a real backend only adds durability.
type Store interface {
	UpsertRoom(ctx context.Context, room domain.Room) error
	GetRoom(ctx context.Context, code string) (domain.Room, error)
	UpsertPlayer(ctx context.Context, player domain.Player) error
	DeletePlayer(ctx context.Context, roomCode, playerID string) error
	AppendChatMessage(ctx context.Context, msg domain.ChatMessage) error
	ListPlayers(ctx context.Context, roomCode string) ([]domain.Player, error)
	ListChatMessages(ctx context.Context, roomCode string, limit int) ([]domain.ChatMessage, error)
}

// WordProvider supplies candidate words. Implementations must return at
// least three distinct words per difficulty.
type WordProvider interface {
	GetWordsFor(difficulty domain.Difficulty) ([]string, error)
}

package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"sketchparty/domain"
)

// --- WordProvider ---

type MockWordProvider struct {
	mock.Mock
}

func (m *MockWordProvider) GetWordsFor(difficulty domain.Difficulty) ([]string, error) {
	args := m.Called(difficulty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// --- Store ---

type MockStore struct {
	mock.Mock
}

func (m *MockStore) UpsertRoom(ctx context.Context, room domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *MockStore) GetRoom(ctx context.Context, code string) (domain.Room, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(domain.Room), args.Error(1)
}

func (m *MockStore) UpsertPlayer(ctx context.Context, player domain.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockStore) DeletePlayer(ctx context.Context, roomCode, playerID string) error {
	args := m.Called(ctx, roomCode, playerID)
	return args.Error(0)
}

func (m *MockStore) AppendChatMessage(ctx context.Context, msg domain.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockStore) ListPlayers(ctx context.Context, roomCode string) ([]domain.Player, error) {
	args := m.Called(ctx, roomCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *MockStore) ListChatMessages(ctx context.Context, roomCode string, limit int) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, roomCode, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

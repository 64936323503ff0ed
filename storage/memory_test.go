package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchparty/domain"
)

func TestMemoryRepo_RoomRoundTrip(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepo()
	ctx := context.Background()

	_, err := repo.GetRoom(ctx, "ABC234")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	room := domain.Room{
		Code:    "ABC234",
		OwnerID: "alice",
		Settings: domain.Settings{
			Difficulty:       domain.DifficultyMedium,
			RoundTimeSeconds: 60,
			MaxRounds:        3,
			MinPlayers:       2,
		},
		GameState: domain.GameState{Status: domain.StatusWaiting},
	}
	require.NoError(t, repo.UpsertRoom(ctx, room))

	got, err := repo.GetRoom(ctx, "ABC234")
	require.NoError(t, err)
	if diff := cmp.Diff(room, got); diff != "" {
		t.Errorf("room mismatch (-want +got):\n%s", diff)
	}

	// Upsert replaces.
	room.GameState.Status = domain.StatusDrawing
	require.NoError(t, repo.UpsertRoom(ctx, room))
	got, err = repo.GetRoom(ctx, "ABC234")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDrawing, got.GameState.Status)
}

func TestMemoryRepo_Players(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepo()
	ctx := context.Background()

	require.NoError(t, repo.UpsertPlayer(ctx, domain.Player{ID: "alice", Name: "Alice", Score: 10, RoomCode: "ABC234"}))
	require.NoError(t, repo.UpsertPlayer(ctx, domain.Player{ID: "bob", Name: "Bob", Score: 120, RoomCode: "ABC234"}))
	require.NoError(t, repo.UpsertPlayer(ctx, domain.Player{ID: "carol", Name: "Carol", RoomCode: "XYZ789"}))

	players, err := repo.ListPlayers(ctx, "ABC234")
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "bob", players[0].ID, "listed by score, highest first")
	assert.Equal(t, "alice", players[1].ID)

	// Upsert on the same key updates in place.
	require.NoError(t, repo.UpsertPlayer(ctx, domain.Player{ID: "alice", Name: "Alice", Score: 200, RoomCode: "ABC234"}))
	players, err = repo.ListPlayers(ctx, "ABC234")
	require.NoError(t, err)
	require.Len(t, players, 2)
	assert.Equal(t, "alice", players[0].ID)

	require.NoError(t, repo.DeletePlayer(ctx, "ABC234", "alice"))
	players, err = repo.ListPlayers(ctx, "ABC234")
	require.NoError(t, err)
	require.Len(t, players, 1)

	// Deleting an unknown player is not an error.
	require.NoError(t, repo.DeletePlayer(ctx, "ABC234", "nobody"))
}

func TestMemoryRepo_ChatTail(t *testing.T) {
	t.Parallel()
	repo := NewMemoryRepo()
	ctx := context.Background()

	for i := 1; i <= 10; i++ {
		msg := domain.ChatMessage{
			RoomCode: "ABC234",
			Seq:      int64(i),
			Kind:     domain.MessagePlayer,
			Content:  fmt.Sprintf("message %d", i),
		}
		require.NoError(t, repo.AppendChatMessage(ctx, msg))
	}

	msgs, err := repo.ListChatMessages(ctx, "ABC234", 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, int64(8), msgs[0].Seq, "returns the newest messages in order")
	assert.Equal(t, int64(10), msgs[2].Seq)

	all, err := repo.ListChatMessages(ctx, "ABC234", 0)
	require.NoError(t, err)
	assert.Len(t, all, 10)

	empty, err := repo.ListChatMessages(ctx, "XYZ789", 5)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

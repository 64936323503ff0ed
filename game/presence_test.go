package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sketchparty/domain"
)

func TestSweepPresence_EvictsIdlePlayers(t *testing.T) {
	t.Parallel()
	r, clock := setupRoom(t, testSettings())

	require.NoError(t, r.handleJoin("alice", "Alice"))
	require.NoError(t, r.handleJoin("bob", "Bob"))

	clock.Advance(presenceTimeout - time.Second)
	require.NoError(t, r.handleHeartbeat("alice"))

	clock.Advance(2 * time.Second)
	r.sweepPresence()

	require.Len(t, r.players, 1)
	assert.Equal(t, "alice", r.players[0].id)
	assert.Equal(t, "Bob was removed due to inactivity.", lastChat(r).Content)
}

func TestSweepPresence_AnyActionCountsAsActivity(t *testing.T) {
	t.Parallel()
	r, clock := setupRoom(t, testSettings())

	require.NoError(t, r.handleJoin("alice", "Alice"))
	require.NoError(t, r.handleJoin("bob", "Bob"))

	clock.Advance(presenceTimeout - time.Second)
	require.NoError(t, r.handleGuess("bob", "still here"))

	clock.Advance(2 * time.Second)
	r.sweepPresence()

	// Bob chatted within the window, alice did nothing since joining.
	require.Len(t, r.players, 1)
	assert.Equal(t, "bob", r.players[0].id)
}

func TestSweepPresence_EvictedDrawerAdvancesRound(t *testing.T) {
	t.Parallel()
	r, clock := setupRoom(t, testSettings())

	require.NoError(t, r.handleJoin("alice", "Alice"))
	require.NoError(t, r.handleJoin("bob", "Bob"))
	require.NoError(t, r.handleJoin("carol", "Carol"))
	require.NoError(t, r.handleStart("alice"))

	drawer := r.drawerID()
	require.NoError(t, r.handleChooseWord(drawer, r.wordOptions[0]))

	// Keep everyone but the drawer fresh past the eviction window.
	clock.Advance(presenceTimeout + time.Second)
	for _, p := range r.players {
		if p.id != drawer {
			p.lastSeen = clock.Now()
		}
	}
	r.sweepPresence()

	assert.Nil(t, r.findPlayer(drawer))
	assert.Equal(t, domain.StatusChoosingWord, r.status)
	assert.NotEqual(t, drawer, r.drawerID())
}

func TestCheckEmptyGrace_FiresOnceRoomIsStale(t *testing.T) {
	t.Parallel()
	r, clock := setupRoom(t, testSettings())

	var removed []string
	r.onEmpty = func(code string) { removed = append(removed, code) }

	require.NoError(t, r.handleJoin("alice", "Alice"))
	require.NoError(t, r.handleLeave("alice", leaveExplicit))

	r.checkEmptyGrace()
	assert.Empty(t, removed, "grace period must elapse first")

	clock.Advance(r.emptyGrace + time.Second)
	r.checkEmptyGrace()
	assert.Equal(t, []string{r.code}, removed)
}

func TestCheckEmptyGrace_RejoinCancelsRemoval(t *testing.T) {
	t.Parallel()
	r, clock := setupRoom(t, testSettings())

	called := false
	r.onEmpty = func(string) { called = true }

	require.NoError(t, r.handleJoin("alice", "Alice"))
	require.NoError(t, r.handleLeave("alice", leaveExplicit))

	clock.Advance(r.emptyGrace / 2)
	require.NoError(t, r.handleJoin("bob", "Bob"))

	clock.Advance(r.emptyGrace)
	r.checkEmptyGrace()
	assert.False(t, called)
}

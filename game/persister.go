package game

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"sketchparty/domain"
)

const (
	persistQueueSize  = 1024
	persistMaxRetries = 3
	persistOpTimeout  = 5 * time.Second
	persistRetryDelay = 2 * time.Second
)

type persistOp struct {
	what     string
	attempts int
	fn       func(ctx context.Context) error
}

// persister is the write-behind lane to the store: room actors enqueue
// durability writes and keep playing. A store outage costs durability, never
// gameplay.
type persister struct {
	store  Store
	queue  chan persistOp
	closed chan struct{}
}

func newPersister(store Store) *persister {
	return &persister{
		store:  store,
		queue:  make(chan persistOp, persistQueueSize),
		closed: make(chan struct{}),
	}
}

func (w *persister) Run() {
	for {
		select {
		case op := <-w.queue:
			w.execute(op)
		case <-w.closed:
			return
		}
	}
}

func (w *persister) Close() {
	close(w.closed)
}

func (w *persister) execute(op persistOp) {
	ctx, cancel := context.WithTimeout(context.Background(), persistOpTimeout)
	err := op.fn(ctx)
	cancel()
	if err == nil {
		return
	}

	op.attempts++
	if op.attempts >= persistMaxRetries {
		log.Error().Err(err).Str("op", op.what).Msg("store write dropped after retries")
		return
	}
	log.Warn().Err(err).Str("op", op.what).Int("attempt", op.attempts).Msg("store write failed, retrying")
	time.AfterFunc(persistRetryDelay, func() { w.enqueue(op) })
}

func (w *persister) enqueue(op persistOp) {
	select {
	case w.queue <- op:
	case <-w.closed:
	default:
		log.Warn().Str("op", op.what).Msg("persist queue full, dropping write")
	}
}

func (w *persister) UpsertRoom(room domain.Room) {
	w.enqueue(persistOp{what: "upsert-room", fn: func(ctx context.Context) error {
		return w.store.UpsertRoom(ctx, room)
	}})
}

func (w *persister) UpsertPlayer(player domain.Player) {
	w.enqueue(persistOp{what: "upsert-player", fn: func(ctx context.Context) error {
		return w.store.UpsertPlayer(ctx, player)
	}})
}

func (w *persister) DeletePlayer(roomCode, playerID string) {
	w.enqueue(persistOp{what: "delete-player", fn: func(ctx context.Context) error {
		return w.store.DeletePlayer(ctx, roomCode, playerID)
	}})
}

func (w *persister) AppendChatMessage(msg domain.ChatMessage) {
	w.enqueue(persistOp{what: "append-chat", fn: func(ctx context.Context) error {
		return w.store.AppendChatMessage(ctx, msg)
	}})
}

package game

import (
	"context"
	"encoding/json"
	"time"

	"sketchparty/domain"
)

const janitorInterval = 10 * time.Second

type task struct {
	fn   func() error
	resp chan error
}

// Run is the room's actor loop: the single goroutine allowed to mutate the
// room. Player actions, timer fires and presence sweeps all pass through the
// same inbox, so exactly one of two racing actions can win and the other
// sees the advanced state.
func (r *Room) Run() {
	janitor := time.NewTicker(janitorInterval)
	defer janitor.Stop()
	defer func() {
		r.hub.publish(Event{Type: EventRoomClosed})
		r.hub.closeAll()
	}()
	defer r.disarmTimer()

	for {
		select {
		case t := <-r.inbox:
			select {
			case <-r.closed:
				if t.resp != nil {
					t.resp <- domain.ErrRoomNotFound
				}
				return
			default:
			}
			err := t.fn()
			if t.resp != nil {
				t.resp <- err
			}
		case <-janitor.C:
			r.sweepPresence()
			r.checkEmptyGrace()
		case <-r.closed:
			return
		}
	}
}

// Close stops the actor loop. Idempotent via the registry, which removes the
// room before closing it.
func (r *Room) Close() {
	close(r.closed)
}

// submit runs fn on the actor goroutine and waits for its result.
func (r *Room) submit(ctx context.Context, fn func() error) error {
	t := task{fn: fn, resp: make(chan error, 1)}
	select {
	case r.inbox <- t:
	case <-r.closed:
		return domain.ErrRoomNotFound
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-t.resp:
		return err
	case <-r.closed:
		return domain.ErrRoomNotFound
	case <-ctx.Done():
		return ctx.Err()
	}
}

// submitAsync enqueues fn without waiting. Used by the round timer, whose
// stale fires must never block.
func (r *Room) submitAsync(fn func() error) {
	t := task{fn: fn}
	select {
	case r.inbox <- t:
	case <-r.closed:
	}
}

// --- public operations, each serialized through the actor ------------------

func (r *Room) Join(ctx context.Context, playerID, name string) error {
	return r.submit(ctx, func() error { return r.handleJoin(playerID, name) })
}

func (r *Room) Start(ctx context.Context, callerID string) error {
	return r.submit(ctx, func() error { return r.handleStart(callerID) })
}

func (r *Room) ChooseWord(ctx context.Context, callerID, word string) error {
	return r.submit(ctx, func() error { return r.handleChooseWord(callerID, word) })
}

func (r *Room) Guess(ctx context.Context, callerID, content string) error {
	return r.submit(ctx, func() error { return r.handleGuess(callerID, content) })
}

func (r *Room) Stroke(ctx context.Context, callerID string, payload json.RawMessage) error {
	return r.submit(ctx, func() error { return r.handleStroke(callerID, payload) })
}

func (r *Room) Leave(ctx context.Context, playerID string) error {
	return r.submit(ctx, func() error { return r.handleLeave(playerID, leaveExplicit) })
}

func (r *Room) UpdateSettings(ctx context.Context, callerID string, patch SettingsPatch) error {
	return r.submit(ctx, func() error { return r.handleUpdateSettings(callerID, patch) })
}

func (r *Room) Heartbeat(ctx context.Context, playerID string) error {
	return r.submit(ctx, func() error { return r.handleHeartbeat(playerID) })
}

// Snapshot returns a point-in-time view for the given viewer, produced under
// the same serialization as mutations.
func (r *Room) Snapshot(ctx context.Context, viewerID string) (Snapshot, error) {
	var snap Snapshot
	err := r.submit(ctx, func() error {
		snap = r.snapshotFor(viewerID)
		return nil
	})
	return snap, err
}

// Subscribe attaches a connection to the room's event stream. The snapshot
// is delivered as the first event so a reconnecting client never depends on
// buffered history.
func (r *Room) Subscribe(ctx context.Context, playerID string) (*subscriber, error) {
	sub := newSubscriber(playerID)
	err := r.submit(ctx, func() error {
		r.hub.add(sub)
		data, err := json.Marshal(Event{Type: EventRoomSnapshot, Data: r.snapshotFor(playerID)})
		if err != nil {
			return err
		}
		r.hub.send(sub, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *Room) Unsubscribe(ctx context.Context, sub *subscriber) {
	_ = r.submit(ctx, func() error {
		r.hub.remove(sub)
		return nil
	})
}

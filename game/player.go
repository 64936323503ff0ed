package game

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"sketchparty/domain"
)

const (
	actionTimeout = 2 * time.Second
	pingInterval  = 30 * time.Second
)

// connSession ties one transport connection to a room: a read pump feeding
// actions into the room's serialized path and a write pump draining the
// subscription.
type connSession struct {
	playerID string
	room     *Room
	socket   NetworkSession
	limiter  *rate.Limiter
	sub      *subscriber
}

func newConnSession(playerID string, room *Room, socket NetworkSession) *connSession {
	return &connSession{
		playerID: playerID,
		room:     room,
		socket:   socket,
		limiter:  rate.NewLimiter(rate.Limit(20), 40),
	}
}

// Serve subscribes and runs both pumps until the connection dies. A closing
// connection only unsubscribes: the player stays in the room until they
// leave explicitly or the presence sweep evicts them, so brief disconnects
// survive a reconnect.
func (c *connSession) Serve(ctx context.Context) error {
	sub, err := c.room.Subscribe(ctx, c.playerID)
	if err != nil {
		c.socket.Close("room-gone")
		return err
	}
	c.sub = sub

	go c.writePump()
	c.readPump()

	unsubCtx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()
	c.room.Unsubscribe(unsubCtx, sub)
	return nil
}

func (c *connSession) readPump() {
	for {
		data, err := c.socket.Read()
		if err != nil {
			return
		}
		if !c.limiter.Allow() {
			continue
		}

		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			c.reportError(domain.ErrInvalidInput)
			continue
		}
		c.dispatch(req)
	}
}

func (c *connSession) dispatch(req Request) {
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	defer cancel()

	var err error
	switch req.Action {
	case ActionStart:
		err = c.room.Start(ctx, c.playerID)
	case ActionChooseWord:
		var p struct {
			Word string `json:"word"`
		}
		if err = json.Unmarshal(req.Payload, &p); err == nil {
			err = c.room.ChooseWord(ctx, c.playerID, p.Word)
		}
	case ActionGuess:
		var p struct {
			Content string `json:"content"`
		}
		if err = json.Unmarshal(req.Payload, &p); err == nil {
			err = c.room.Guess(ctx, c.playerID, p.Content)
		}
	case ActionStroke:
		err = c.room.Stroke(ctx, c.playerID, req.Payload)
	case ActionLeave:
		err = c.room.Leave(ctx, c.playerID)
	case ActionUpdateSettings:
		var patch SettingsPatch
		if err = json.Unmarshal(req.Payload, &patch); err == nil {
			err = c.room.UpdateSettings(ctx, c.playerID, patch)
		}
	case ActionPing:
		err = c.room.Heartbeat(ctx, c.playerID)
	default:
		err = domain.ErrInvalidInput
	}

	// A stale action lost a race against the room's advance. From the
	// submitter's side that is a quiet success, not a failure.
	if err != nil && !errors.Is(err, domain.ErrStaleAction) {
		c.reportError(err)
	}
}

func (c *connSession) reportError(err error) {
	data, mErr := json.Marshal(Event{Type: "error", Data: map[string]string{"error": err.Error()}})
	if mErr != nil {
		return
	}
	select {
	case c.sub.out <- data:
	default:
	}
}

func (c *connSession) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.sub.out:
			if err := c.socket.Write(data); err != nil {
				log.Debug().Err(err).Str("player", c.playerID).Msg("write failed")
				c.socket.Close("write-error")
				return
			}
		case <-ticker.C:
			if err := c.socket.Ping(); err != nil {
				c.socket.Close("ping-error")
				return
			}
		case <-c.sub.done:
			c.socket.Close("resubscribe")
			return
		}
	}
}

package game

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 256

// subscriber is one connected client's outbound queue. The room actor is the
// single writer, so per-room event order is exactly actor commit order.
type subscriber struct {
	playerID string
	out      chan []byte
	done     chan struct{}
}

func newSubscriber(playerID string) *subscriber {
	return &subscriber{
		playerID: playerID,
		out:      make(chan []byte, subscriberBuffer),
		done:     make(chan struct{}),
	}
}

// hub tracks a room's subscribers. It is owned by the room actor and must
// only be touched from inside the actor loop.
type hub struct {
	subs map[*subscriber]struct{}
}

func newHub() *hub {
	return &hub{subs: make(map[*subscriber]struct{})}
}

func (h *hub) add(s *subscriber) {
	h.subs[s] = struct{}{}
}

func (h *hub) remove(s *subscriber) {
	if _, ok := h.subs[s]; !ok {
		return
	}
	delete(h.subs, s)
	close(s.done)
}

// publish sends an event to every subscriber. Delivery is best-effort: a
// subscriber whose buffer is full is dropped and must reconnect for a fresh
// snapshot.
func (h *hub) publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", string(ev.Type)).Msg("marshal event")
		return
	}
	for s := range h.subs {
		h.send(s, data)
	}
}

// publishEach builds the event per subscriber, letting the room tailor views
// (masked words, drawer-only options) while keeping one producer order. A nil
// event skips that subscriber.
func (h *hub) publishEach(build func(playerID string) *Event) {
	for s := range h.subs {
		ev := build(s.playerID)
		if ev == nil {
			continue
		}
		data, err := json.Marshal(*ev)
		if err != nil {
			log.Error().Err(err).Str("event", string(ev.Type)).Msg("marshal event")
			continue
		}
		h.send(s, data)
	}
}

func (h *hub) send(s *subscriber, data []byte) {
	select {
	case s.out <- data:
	default:
		log.Warn().Str("player", s.playerID).Msg("subscriber too slow, dropping")
		h.remove(s)
	}
}

func (h *hub) closeAll() {
	for s := range h.subs {
		delete(h.subs, s)
		close(s.done)
	}
}

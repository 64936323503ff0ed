package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(s *subscriber) []Event {
	var events []Event
	for {
		select {
		case data := <-s.out:
			var ev Event
			if err := json.Unmarshal(data, &ev); err != nil {
				panic(err)
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestHub_PublishReachesAllSubscribers(t *testing.T) {
	t.Parallel()
	h := newHub()
	a := newSubscriber("alice")
	b := newSubscriber("bob")
	h.add(a)
	h.add(b)

	h.publish(Event{Type: EventRoomClosed})

	require.Len(t, drain(a), 1)
	require.Len(t, drain(b), 1)
}

func TestHub_PublishEachTailorsPerViewer(t *testing.T) {
	t.Parallel()
	h := newHub()
	drawer := newSubscriber("drawer")
	guesser := newSubscriber("guesser")
	h.add(drawer)
	h.add(guesser)

	h.publishEach(func(playerID string) *Event {
		if playerID == "drawer" {
			return nil
		}
		return &Event{Type: EventDrawingUpdated, Data: playerID}
	})

	assert.Empty(t, drain(drawer))
	events := drain(guesser)
	require.Len(t, events, 1)
	assert.Equal(t, "guesser", events[0].Data)
}

func TestHub_SlowSubscriberIsDropped(t *testing.T) {
	t.Parallel()
	h := newHub()
	slow := newSubscriber("slow")
	h.add(slow)

	for i := 0; i < subscriberBuffer+1; i++ {
		h.publish(Event{Type: EventChatAppended})
	}

	assert.NotContains(t, h.subs, slow)
	select {
	case <-slow.done:
	default:
		t.Fatal("dropped subscriber's done channel not closed")
	}
}

func TestHub_RemoveIsIdempotent(t *testing.T) {
	t.Parallel()
	h := newHub()
	s := newSubscriber("alice")
	h.add(s)

	h.remove(s)
	h.remove(s)

	select {
	case <-s.done:
	default:
		t.Fatal("done channel not closed")
	}
}

func TestHub_CloseAllReleasesEveryone(t *testing.T) {
	t.Parallel()
	h := newHub()
	a := newSubscriber("alice")
	b := newSubscriber("bob")
	h.add(a)
	h.add(b)

	h.closeAll()

	assert.Empty(t, h.subs)
	for _, s := range []*subscriber{a, b} {
		select {
		case <-s.done:
		default:
			t.Fatal("done channel not closed")
		}
	}
}

package game

import (
	"encoding/json"
	"time"

	"sketchparty/domain"
)

type EventType string

const (
	EventRoomSnapshot     EventType = "roomSnapshot"
	EventPlayersChanged   EventType = "playersChanged"
	EventGameStateChanged EventType = "gameStateChanged"
	EventChatAppended     EventType = "chatAppended"
	EventDrawingUpdated   EventType = "drawingUpdated"
	EventRoomClosed       EventType = "roomClosed"
)

type Event struct {
	Type EventType `json:"type"`
	Data any       `json:"data"`
}

// Client request envelope, transport-agnostic.
type Request struct {
	Action   string          `json:"action"`
	RoomCode string          `json:"roomCode"`
	PlayerID string          `json:"playerId"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	ActionCreate         = "create"
	ActionJoin           = "join"
	ActionStart          = "start"
	ActionChooseWord     = "chooseWord"
	ActionGuess          = "guess"
	ActionStroke         = "stroke"
	ActionLeave          = "leave"
	ActionUpdateSettings = "updateSettings"
	ActionPing           = "ping"
)

type PlayerView struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Color  string `json:"color"`
	Avatar string `json:"avatar"`
}

type PlayersChanged struct {
	OwnerID string       `json:"ownerId"`
	Players []PlayerView `json:"players"`
}

// StateView is the per-viewer projection of the room's game state. The word
// is masked for everyone but the drawer, and word options reach only the
// drawer.
type StateView struct {
	Status          domain.RoomStatus `json:"status"`
	CurrentRound    int               `json:"currentRound"`
	RoundsPlayed    int               `json:"roundsPlayed"`
	DrawingPlayerID string            `json:"drawingPlayerId"`
	Word            string            `json:"word,omitempty"`
	WordOptions     []string          `json:"wordOptions,omitempty"`
	RoundEndsAt     int64             `json:"roundEndsAt,omitempty"`
}

type ChatView struct {
	Seq       int64              `json:"seq"`
	Kind      domain.MessageKind `json:"kind"`
	Author    string             `json:"author,omitempty"`
	Content   string             `json:"content"`
	Correct   bool               `json:"correct,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
}

type Snapshot struct {
	RoomCode string          `json:"roomCode"`
	OwnerID  string          `json:"ownerId"`
	Settings domain.Settings `json:"settings"`
	Players  []PlayerView    `json:"players"`
	State    StateView       `json:"state"`
	Drawing  json.RawMessage `json:"drawing,omitempty"`
	Chat     []ChatView      `json:"chat"`
}

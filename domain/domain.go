package domain

import "time"

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

type RoomStatus string

const (
	StatusWaiting      RoomStatus = "waiting"
	StatusChoosingWord RoomStatus = "choosing_word"
	StatusDrawing      RoomStatus = "drawing"
	StatusRoundOver    RoomStatus = "round_over"
	StatusGameOver     RoomStatus = "game_over"
)

type Settings struct {
	Difficulty       Difficulty `json:"difficulty"`
	RoundTimeSeconds int        `json:"round_time_seconds"`
	MaxRounds        int        `json:"max_rounds"`
	MinPlayers       int        `json:"min_players"`
}

type GameState struct {
	Status          RoomStatus `json:"status"`
	CurrentRound    int        `json:"current_round"`
	RoundsPlayed    int        `json:"rounds_played"`
	DrawingPlayerID string     `json:"drawing_player_id"`
	CurrentWord     string     `json:"current_word"`
	WordOptions     []string   `json:"word_options"`
	RoundStartedAt  time.Time  `json:"round_started_at"`
}

type Room struct {
	Code        string    `json:"code" db:"code"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Settings    Settings  `json:"settings" db:"settings"`
	GameState   GameState `json:"game_state" db:"game_state"`
	DrawingData []byte    `json:"drawing_data,omitempty" db:"drawing_data"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type Player struct {
	ID       string    `json:"id" db:"user_id"`
	Name     string    `json:"name" db:"name"`
	Score    int       `json:"score" db:"score"`
	Color    string    `json:"color" db:"color"`
	Avatar   string    `json:"avatar" db:"avatar"`
	RoomCode string    `json:"room_code" db:"room_code"`
	LastSeen time.Time `json:"last_seen" db:"last_seen"`
}

type MessageKind string

const (
	MessageSystem MessageKind = "system"
	MessagePlayer MessageKind = "player"
)

// ChatMessage is one entry of a room's append-only log. Seq is monotonic per
// room and defines the replay order.
type ChatMessage struct {
	RoomCode  string      `json:"room_code" db:"room_code"`
	Seq       int64       `json:"seq" db:"seq"`
	Kind      MessageKind `json:"kind" db:"kind"`
	Author    string      `json:"author,omitempty" db:"author"`
	Content   string      `json:"content" db:"content"`
	Correct   bool        `json:"correct,omitempty" db:"correct"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"sketchparty/domain"
)

type PostgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRepo(ctx context.Context, connString string) (*PostgresRepo, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &PostgresRepo{pool: pool}, nil
}

func (repo *PostgresRepo) Close() {
	repo.pool.Close()
}

func (repo *PostgresRepo) UpsertRoom(ctx context.Context, room domain.Room) error {
	settings, err := json.Marshal(room.Settings)
	if err != nil {
		return err
	}
	gameState, err := json.Marshal(room.GameState)
	if err != nil {
		return err
	}

	_, err = repo.pool.Exec(ctx, `
		INSERT INTO rooms (code, owner_id, settings, game_state, drawing_data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (code) DO UPDATE
		SET owner_id = EXCLUDED.owner_id,
		    settings = EXCLUDED.settings,
		    game_state = EXCLUDED.game_state,
		    drawing_data = EXCLUDED.drawing_data`,
		room.Code, room.OwnerID, settings, gameState, []byte(room.DrawingData), room.CreatedAt)
	return wrapDBError(err)
}

func (repo *PostgresRepo) GetRoom(ctx context.Context, code string) (domain.Room, error) {
	room := domain.Room{Code: code}
	var settings, gameState, drawing []byte

	row := repo.pool.QueryRow(ctx,
		"SELECT owner_id, settings, game_state, drawing_data, created_at FROM rooms WHERE code = $1", code)
	err := row.Scan(&room.OwnerID, &settings, &gameState, &drawing, &room.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Room{}, domain.ErrRoomNotFound
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return domain.Room{}, err
		default:
			return domain.Room{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
		}
	}

	if err := json.Unmarshal(settings, &room.Settings); err != nil {
		return domain.Room{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	if err := json.Unmarshal(gameState, &room.GameState); err != nil {
		return domain.Room{}, fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
	}
	room.DrawingData = drawing
	return room, nil
}

func (repo *PostgresRepo) UpsertPlayer(ctx context.Context, player domain.Player) error {
	_, err := repo.pool.Exec(ctx, `
		INSERT INTO players (user_id, room_code, name, score, color, avatar, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (room_code, user_id) DO UPDATE
		SET name = EXCLUDED.name,
		    score = EXCLUDED.score,
		    color = EXCLUDED.color,
		    avatar = EXCLUDED.avatar,
		    last_seen = EXCLUDED.last_seen`,
		player.ID, player.RoomCode, player.Name, player.Score, player.Color, player.Avatar, player.LastSeen)
	return wrapDBError(err)
}

func (repo *PostgresRepo) DeletePlayer(ctx context.Context, roomCode, playerID string) error {
	_, err := repo.pool.Exec(ctx,
		"DELETE FROM players WHERE room_code = $1 AND user_id = $2", roomCode, playerID)
	return wrapDBError(err)
}

func (repo *PostgresRepo) AppendChatMessage(ctx context.Context, msg domain.ChatMessage) error {
	_, err := repo.pool.Exec(ctx, `
		INSERT INTO chat_messages (room_code, seq, kind, author, content, correct, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (room_code, seq) DO NOTHING`,
		msg.RoomCode, msg.Seq, string(msg.Kind), msg.Author, msg.Content, msg.Correct, msg.CreatedAt)
	return wrapDBError(err)
}

func (repo *PostgresRepo) ListPlayers(ctx context.Context, roomCode string) ([]domain.Player, error) {
	rows, err := repo.pool.Query(ctx, `
		SELECT user_id, name, score, color, avatar, last_seen
		FROM players WHERE room_code = $1 ORDER BY score DESC`, roomCode)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p := domain.Player{RoomCode: roomCode}
		if err := rows.Scan(&p.ID, &p.Name, &p.Score, &p.Color, &p.Avatar, &p.LastSeen); err != nil {
			return nil, wrapDBError(err)
		}
		players = append(players, p)
	}
	return players, wrapDBError(rows.Err())
}

func (repo *PostgresRepo) ListChatMessages(ctx context.Context, roomCode string, limit int) ([]domain.ChatMessage, error) {
	rows, err := repo.pool.Query(ctx, `
		SELECT seq, kind, author, content, correct, created_at
		FROM chat_messages WHERE room_code = $1
		ORDER BY seq DESC LIMIT $2`, roomCode, limit)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var msgs []domain.ChatMessage
	for rows.Next() {
		m := domain.ChatMessage{RoomCode: roomCode}
		var kind string
		if err := rows.Scan(&m.Seq, &kind, &m.Author, &m.Content, &m.Correct, &m.CreatedAt); err != nil {
			return nil, wrapDBError(err)
		}
		m.Kind = domain.MessageKind(kind)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(err)
	}

	// Query returns newest-first; callers replay oldest-first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// GetWordsFor implements the game.WordProvider interface against the words
// table.
func (repo *PostgresRepo) GetWordsFor(difficulty domain.Difficulty) ([]string, error) {
	ctx := context.Background()

	rows, err := repo.pool.Query(ctx,
		"SELECT word FROM words WHERE difficulty = $1 ORDER BY RANDOM() LIMIT 32", string(difficulty))
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var word string
		if err := rows.Scan(&word); err != nil {
			return nil, wrapDBError(err)
		}
		words = append(words, word)
	}
	return words, wrapDBError(rows.Err())
}

func wrapDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// "23503" is the PostgreSQL error code for foreign_key_violation:
		// a player or chat row whose room is already gone.
		if pgErr.Code == "23503" {
			return fmt.Errorf("%w: %s", domain.ErrRoomNotFound, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%w: %w", domain.UnexpectedDatabaseError, err)
}

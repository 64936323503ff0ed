package game

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"sketchparty/crypto"
	"sketchparty/domain"
)

const sessionCookie = "sp_session"

// SessionAge bounds the guest identity cookie lifetime.
const SessionAge = 7 * 24 * time.Hour

type Handler struct {
	registry *Registry
	tokens   *crypto.JWTManager
	upgrader websocket.Upgrader
}

func NewHandler(registry *Registry, tokens *crypto.JWTManager) *Handler {
	return &Handler{
		registry: registry,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Cross-origin policy is enforced by the server's origin
			// middleware before the upgrade is reached.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	group := r.Group("/game")
	group.Use(h.IdentifyMiddleware)

	group.GET("/create", h.CreateRoomHandler)
	group.GET("/join/:code", h.JoinRoomHandler)
	group.GET("/snapshot/:code", h.SnapshotHandler)
	group.POST("/leave/:code", h.LeaveHandler)
}

// IdentifyMiddleware resolves the caller's opaque identity. First contact
// mints a uuid and wraps it with the display name in a signed cookie; later
// requests just verify the cookie.
func (h *Handler) IdentifyMiddleware(ctx *gin.Context) {
	if token, err := ctx.Cookie(sessionCookie); err == nil {
		if id, name, err := h.tokens.Verify(token); err == nil {
			ctx.Set("playerId", id)
			ctx.Set("playerName", name)
			ctx.Next()
			return
		}
	}

	name := strings.TrimSpace(ctx.Query("name"))
	if name == "" {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name-required"})
		return
	}

	id := uuid.NewString()
	cookie := &http.Cookie{
		Name:     sessionCookie,
		Value:    h.tokens.Generate(id, name),
		MaxAge:   int(SessionAge.Seconds()),
		Path:     "/",
		HttpOnly: true,
	}
	http.SetCookie(ctx.Writer, cookie)
	// The upgrader hijacks the connection and builds the 101 response from
	// scratch, so headers written above never reach a websocket client.
	// Stash the cookie for serveWebsocket to replay on the handshake.
	ctx.Set("sessionCookie", cookie.String())
	ctx.Set("playerId", id)
	ctx.Set("playerName", name)
	ctx.Next()
}

func settingsFromQuery(ctx *gin.Context) domain.Settings {
	settings := domain.Settings{
		Difficulty:       domain.DifficultyMedium,
		RoundTimeSeconds: 60,
		MaxRounds:        3,
		MinPlayers:       2,
	}
	if d := ctx.Query("difficulty"); d != "" {
		settings.Difficulty = domain.Difficulty(d)
	}
	if v, err := strconv.Atoi(ctx.Query("roundTime")); err == nil {
		settings.RoundTimeSeconds = v
	}
	if v, err := strconv.Atoi(ctx.Query("maxRounds")); err == nil {
		settings.MaxRounds = v
	}
	if v, err := strconv.Atoi(ctx.Query("minPlayers")); err == nil {
		settings.MinPlayers = v
	}
	return settings
}

func (h *Handler) CreateRoomHandler(ctx *gin.Context) {
	playerID := ctx.GetString("playerId")
	playerName := ctx.GetString("playerName")

	room, err := h.registry.CreateRoom(ctx.Request.Context(), playerID, playerName, settingsFromQuery(ctx))
	if err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.serveWebsocket(ctx, room, playerID)
}

func (h *Handler) JoinRoomHandler(ctx *gin.Context) {
	playerID := ctx.GetString("playerId")
	playerName := ctx.GetString("playerName")
	code := strings.ToUpper(ctx.Param("code"))

	room, err := h.registry.GetRoom(code)
	if err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if err := room.Join(ctx.Request.Context(), playerID, playerName); err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	h.serveWebsocket(ctx, room, playerID)
}

func (h *Handler) serveWebsocket(ctx *gin.Context, room *Room, playerID string) {
	var header http.Header
	if cookie := ctx.GetString("sessionCookie"); cookie != "" {
		header = http.Header{"Set-Cookie": {cookie}}
	}
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, header)
	if err != nil {
		log.Error().Err(err).Str("room", room.Code()).Msg("websocket upgrade failed")
		return
	}

	session := newConnSession(playerID, room, NewWebsocketConnection(conn))
	if err := session.Serve(ctx.Request.Context()); err != nil {
		log.Debug().Err(err).Str("room", room.Code()).Str("player", playerID).Msg("session ended")
	}
}

// SnapshotHandler is the reconnect path: a plain HTTP fetch of the full room
// state, masked for the caller.
func (h *Handler) SnapshotHandler(ctx *gin.Context) {
	playerID := ctx.GetString("playerId")
	code := strings.ToUpper(ctx.Param("code"))

	room, err := h.registry.GetRoom(code)
	if err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	snap, err := room.Snapshot(ctx.Request.Context(), playerID)
	if err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, snap)
}

func (h *Handler) LeaveHandler(ctx *gin.Context) {
	playerID := ctx.GetString("playerId")
	code := strings.ToUpper(ctx.Param("code"))

	room, err := h.registry.GetRoom(code)
	if err != nil {
		ctx.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	if err := room.Leave(ctx.Request.Context(), playerID); err != nil && !errors.Is(err, domain.ErrStaleAction) {
		ctx.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "left"})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRoomNotFound), errors.Is(err, domain.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRoomAlreadyExists), errors.Is(err, domain.ErrRoomFull):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotOwner), errors.Is(err, domain.ErrNotDrawer):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotEnoughPlayer),
		errors.Is(err, domain.ErrWrongPhase):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

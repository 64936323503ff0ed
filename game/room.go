package game

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"sketchparty/domain"
)

const (
	presenceTimeout   = 60 * time.Second
	defaultEmptyGrace = 2 * time.Minute
	maxPlayersPerRoom = 12
	chatKeepInRAM     = 200
	chatSnapshotMax   = 50
)

type playerState struct {
	id        string
	name      string
	score     int
	color     string
	avatar    string
	joinOrder int
	lastSeen  time.Time
}

type leaveReason int

const (
	leaveExplicit leaveReason = iota
	leaveInactive
)

// Room is one authoritative game session. All fields below are owned by the
// room's actor goroutine; nothing outside the actor loop may touch them.
type Room struct {
	code      string
	ownerID   string
	settings  domain.Settings
	createdAt time.Time

	status         domain.RoomStatus
	currentRound   int
	roundsPlayed   int
	turnOrder      []string
	drawerIdx      int
	currentWord    string
	wordOptions    []string
	roundStartedAt time.Time

	players    []*playerState
	joinsTotal int
	drawing    json.RawMessage
	chat       []domain.ChatMessage
	chatSeq    int64
	emptySince time.Time

	words WordProvider
	store *persister
	hub   *hub
	rng   *rand.Rand
	now   func() time.Time
	log   zerolog.Logger

	timer    *time.Timer
	timerGen int

	inbox      chan task
	closed     chan struct{}
	onEmpty    func(code string)
	emptyGrace time.Duration
}

func NewRoom(code string, settings domain.Settings, words WordProvider, store *persister, onEmpty func(string)) *Room {
	r := &Room{
		code:     code,
		settings: settings,
		status:   domain.StatusWaiting,
		// Rounds are 1-based even before the game starts.
		currentRound: 1,
		createdAt:    time.Now(),
		words:        words,
		store:        store,
		hub:          newHub(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		now:          time.Now,
		log:          log.With().Str("room", code).Logger(),
		inbox:        make(chan task, 64),
		closed:       make(chan struct{}),
		onEmpty:      onEmpty,
		emptyGrace:   defaultEmptyGrace,
	}
	r.emptySince = r.createdAt
	return r
}

func (r *Room) Code() string { return r.code }

func (r *Room) findPlayer(id string) *playerState {
	for _, p := range r.players {
		if p.id == id {
			return p
		}
	}
	return nil
}

// touch refreshes a player's presence on any inbound action from them.
func (r *Room) touch(playerID string) {
	if p := r.findPlayer(playerID); p != nil {
		p.lastSeen = r.now()
	}
}

// drawerID is meaningful only while status is choosing_word or drawing.
func (r *Room) drawerID() string {
	if r.status != domain.StatusChoosingWord && r.status != domain.StatusDrawing {
		return ""
	}
	if r.drawerIdx < 0 || r.drawerIdx >= len(r.turnOrder) {
		return ""
	}
	return r.turnOrder[r.drawerIdx]
}

// --- transitions -----------------------------------------------------------

func (r *Room) handleJoin(id, name string) error {
	name = strings.TrimSpace(name)
	if id == "" || name == "" {
		return fmt.Errorf("%w: player id and name required", domain.ErrInvalidInput)
	}

	if p := r.findPlayer(id); p != nil {
		// Reconnect of a present player, just refresh activity.
		p.lastSeen = r.now()
		return nil
	}
	if len(r.players) >= maxPlayersPerRoom {
		return domain.ErrRoomFull
	}

	p := &playerState{
		id:        id,
		name:      name,
		color:     pickColor(r.joinsTotal),
		avatar:    pickAvatar(r.joinsTotal),
		joinOrder: r.joinsTotal,
		lastSeen:  r.now(),
	}
	r.joinsTotal++
	r.players = append(r.players, p)
	r.emptySince = time.Time{}
	if r.ownerID == "" {
		r.ownerID = id
	}

	r.log.Info().Str("player", id).Str("name", name).Msg("player joined")
	// Room row first: the player row references it.
	r.persistRoom()
	r.persistPlayer(p)
	r.appendSystem(name + " joined the room.")
	r.emitPlayers()
	return nil
}

func (r *Room) handleStart(callerID string) error {
	if r.status != domain.StatusWaiting && r.status != domain.StatusGameOver {
		return fmt.Errorf("%w: game already running", domain.ErrWrongPhase)
	}
	if callerID != r.ownerID {
		return domain.ErrNotOwner
	}
	if len(r.players) < r.settings.MinPlayers {
		return fmt.Errorf("%w: need %d players", domain.ErrNotEnoughPlayer, r.settings.MinPlayers)
	}
	r.touch(callerID)

	// Pin the rotation at game start: join order, independent of the
	// score-sorted roster clients see.
	r.turnOrder = make([]string, len(r.players))
	for i, p := range r.players {
		r.turnOrder[i] = p.id
		p.score = 0
	}
	r.currentRound = 1
	r.roundsPlayed = 0
	r.drawing = nil
	r.drawerIdx = r.rng.Intn(len(r.turnOrder))

	if err := r.enterChoosingWord(); err != nil {
		return err
	}

	drawer := r.findPlayer(r.drawerID())
	r.appendSystem("Game started! " + drawer.name + " is drawing first.")
	r.emitPlayers()
	return nil
}

// enterChoosingWord moves the room into choosing_word for the drawer at
// drawerIdx. Word options are sampled fresh each time.
func (r *Room) enterChoosingWord() error {
	words, err := r.words.GetWordsFor(r.settings.Difficulty)
	if err != nil {
		return err
	}
	choices, err := sampleWords(words, wordChoicesPerTurn, r.rng)
	if err != nil {
		return err
	}

	r.status = domain.StatusChoosingWord
	r.wordOptions = choices
	r.currentWord = ""
	r.drawing = nil

	r.log.Debug().Str("drawer", r.drawerID()).Int("round", r.currentRound).Msg("choosing word")
	r.persistRoom()
	r.emitState()
	return nil
}

func (r *Room) handleChooseWord(callerID, word string) error {
	if r.status != domain.StatusChoosingWord {
		return fmt.Errorf("%w: no word to choose now", domain.ErrWrongPhase)
	}
	if callerID != r.drawerID() {
		return domain.ErrNotDrawer
	}
	chosen := ""
	for _, w := range r.wordOptions {
		if strings.EqualFold(w, word) {
			chosen = w
			break
		}
	}
	if chosen == "" {
		return fmt.Errorf("%w: word not among the options", domain.ErrInvalidInput)
	}
	r.touch(callerID)

	r.currentWord = chosen
	r.wordOptions = nil
	r.roundStartedAt = r.now()
	r.drawing = nil
	r.status = domain.StatusDrawing
	r.armRoundTimer()

	r.log.Debug().Str("drawer", callerID).Msg("word chosen, drawing started")
	r.persistRoom()
	r.emitState()
	return nil
}

func (r *Room) handleGuess(callerID, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}
	p := r.findPlayer(callerID)
	if p == nil {
		return domain.ErrPlayerNotFound
	}
	p.lastSeen = r.now()

	correct := r.status == domain.StatusDrawing &&
		callerID != r.drawerID() &&
		strings.EqualFold(content, r.currentWord)

	if !correct {
		// Everything else, including guesses arriving after the round
		// already advanced, is ordinary chat.
		r.appendPlayerMessage(p.name, content, false)
		return nil
	}

	elapsed := r.now().Sub(r.roundStartedAt)
	guesserPoints, drawerPoints := ScoreGuess(r.settings.RoundTimeSeconds, elapsed)
	p.score += guesserPoints
	r.persistPlayer(p)
	if drawer := r.findPlayer(r.drawerID()); drawer != nil {
		drawer.score += drawerPoints
		r.persistPlayer(drawer)
	}

	r.log.Info().Str("guesser", callerID).Int("points", guesserPoints).Msg("word guessed")
	r.appendPlayerMessage(p.name, content, true)
	r.appendSystem("The word was: " + strings.ToUpper(r.currentWord))
	r.emitPlayers()
	r.finishRound()
	return nil
}

// handleTimeout is submitted by the round timer. A fire for a generation
// that has already been disarmed lost the race against a guess (or a second
// fire) and is a no-op.
func (r *Room) handleTimeout(gen int) error {
	if r.status != domain.StatusDrawing || gen != r.timerGen {
		return domain.ErrStaleAction
	}
	r.log.Info().Int("round", r.currentRound).Msg("round timed out")
	r.appendSystem("Time's up! The word was: " + strings.ToUpper(r.currentWord))
	r.finishRound()
	return nil
}

func (r *Room) handleStroke(callerID string, payload json.RawMessage) error {
	if r.status != domain.StatusDrawing {
		return domain.ErrStaleAction
	}
	if callerID != r.drawerID() {
		return domain.ErrNotDrawer
	}
	r.touch(callerID)

	r.drawing = payload
	r.persistRoom()
	r.hub.publishEach(func(playerID string) *Event {
		if playerID == callerID {
			return nil
		}
		return &Event{Type: EventDrawingUpdated, Data: payload}
	})
	return nil
}

func (r *Room) handleLeave(playerID string, reason leaveReason) error {
	p := r.findPlayer(playerID)
	if p == nil {
		return domain.ErrPlayerNotFound
	}

	wasDrawer := playerID == r.drawerID()
	wasDrawing := r.status == domain.StatusDrawing

	for i, q := range r.players {
		if q == p {
			r.players = append(r.players[:i], r.players[i+1:]...)
			break
		}
	}
	r.persistDeletePlayer(playerID)

	switch reason {
	case leaveInactive:
		r.appendSystem(p.name + " was removed due to inactivity.")
	default:
		r.appendSystem(p.name + " left the room.")
	}
	r.log.Info().Str("player", playerID).Bool("was_drawer", wasDrawer).Msg("player left")

	if len(r.players) == 0 {
		r.disarmTimer()
		r.emptySince = r.now()
		r.persistRoom()
		return nil
	}

	if playerID == r.ownerID {
		next := r.players[0]
		for _, q := range r.players[1:] {
			if q.joinOrder < next.joinOrder {
				next = q
			}
		}
		r.ownerID = next.id
		r.appendSystem(next.name + " is now the room owner.")
	}

	if wasDrawer {
		// The round cannot continue without its drawer; advance it as a
		// timeout that awards nothing.
		if wasDrawing {
			r.appendSystem("The word was: " + strings.ToUpper(r.currentWord))
		}
		r.finishRound()
	}

	r.persistRoom()
	r.emitPlayers()
	return nil
}

type SettingsPatch struct {
	Difficulty *domain.Difficulty `json:"difficulty,omitempty"`
	MinPlayers *int               `json:"minPlayers,omitempty"`
}

func (r *Room) handleUpdateSettings(callerID string, patch SettingsPatch) error {
	if r.status != domain.StatusWaiting {
		return fmt.Errorf("%w: settings are frozen once the game starts", domain.ErrWrongPhase)
	}
	if callerID != r.ownerID {
		return domain.ErrNotOwner
	}
	r.touch(callerID)

	if patch.Difficulty != nil {
		if !patch.Difficulty.Valid() {
			return fmt.Errorf("%w: unknown difficulty %q", domain.ErrInvalidInput, *patch.Difficulty)
		}
		r.settings.Difficulty = *patch.Difficulty
		r.appendSystem("Difficulty changed to " + titleCase(string(*patch.Difficulty)))
	}
	if patch.MinPlayers != nil {
		if *patch.MinPlayers < 2 {
			return fmt.Errorf("%w: minimum players must be at least 2", domain.ErrInvalidInput)
		}
		r.settings.MinPlayers = *patch.MinPlayers
		r.appendSystem(fmt.Sprintf("Minimum players changed to %d", *patch.MinPlayers))
	}

	r.persistRoom()
	return nil
}

func (r *Room) handleHeartbeat(playerID string) error {
	p := r.findPlayer(playerID)
	if p == nil {
		return domain.ErrPlayerNotFound
	}
	p.lastSeen = r.now()
	return nil
}

// finishRound ends the current turn and immediately advances: next drawer
// and a fresh word set, or the final leaderboard once all rounds are played.
func (r *Room) finishRound() {
	r.disarmTimer()
	r.status = domain.StatusRoundOver
	r.emitState()

	r.roundsPlayed++
	r.currentRound++

	if r.roundsPlayed >= r.settings.MaxRounds || r.presentCount() < 2 {
		r.endGame()
		return
	}

	if !r.advanceDrawer() {
		r.endGame()
		return
	}
	if err := r.enterChoosingWord(); err != nil {
		r.log.Error().Err(err).Msg("cannot sample words, ending game")
		r.endGame()
		return
	}
	drawer := r.findPlayer(r.turnOrder[r.drawerIdx])
	r.appendSystem(fmt.Sprintf("Round %d! %s is drawing now!", r.currentRound, drawer.name))
}

// advanceDrawer moves drawerIdx to the next rotation slot whose player is
// still in the room. Reports false when nobody is left to draw.
func (r *Room) advanceDrawer() bool {
	for step := 1; step <= len(r.turnOrder); step++ {
		idx := (r.drawerIdx + step) % len(r.turnOrder)
		if r.findPlayer(r.turnOrder[idx]) != nil {
			r.drawerIdx = idx
			return true
		}
	}
	return false
}

func (r *Room) endGame() {
	r.disarmTimer()
	r.status = domain.StatusGameOver
	r.currentWord = ""
	r.wordOptions = nil

	best := 0
	for _, p := range r.players {
		if p.score > best {
			best = p.score
		}
	}
	winners := make([]string, 0, len(r.players))
	for _, p := range r.players {
		if p.score == best {
			winners = append(winners, p.name)
		}
	}

	r.appendSystem("Game over! Thanks for playing!")
	if len(winners) > 0 {
		r.appendSystem(fmt.Sprintf("Winner: %s with %d points!", strings.Join(winners, ", "), best))
	}
	r.log.Info().Strs("winners", winners).Int("score", best).Msg("game over")
	r.persistRoom()
	r.emitState()
}

func (r *Room) presentCount() int {
	return len(r.players)
}

// --- chat ------------------------------------------------------------------

func (r *Room) appendSystem(content string) {
	r.appendChat(domain.ChatMessage{Kind: domain.MessageSystem, Content: content})
}

func (r *Room) appendPlayerMessage(author, content string, correct bool) {
	r.appendChat(domain.ChatMessage{
		Kind:    domain.MessagePlayer,
		Author:  author,
		Content: content,
		Correct: correct,
	})
}

func (r *Room) appendChat(msg domain.ChatMessage) {
	r.chatSeq++
	msg.RoomCode = r.code
	msg.Seq = r.chatSeq
	msg.CreatedAt = r.now()

	r.chat = append(r.chat, msg)
	if len(r.chat) > chatKeepInRAM {
		r.chat = r.chat[len(r.chat)-chatKeepInRAM:]
	}
	r.persistChat(msg)
	r.hub.publish(Event{Type: EventChatAppended, Data: chatView(msg)})
}

func chatView(msg domain.ChatMessage) ChatView {
	return ChatView{
		Seq:       msg.Seq,
		Kind:      msg.Kind,
		Author:    msg.Author,
		Content:   msg.Content,
		Correct:   msg.Correct,
		CreatedAt: msg.CreatedAt,
	}
}

// --- views -----------------------------------------------------------------

func (r *Room) playerViews() []PlayerView {
	views := make([]PlayerView, 0, len(r.players))
	for _, p := range r.players {
		views = append(views, PlayerView{
			ID:     p.id,
			Name:   p.name,
			Score:  p.score,
			Color:  p.color,
			Avatar: p.avatar,
		})
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].Score > views[j].Score
	})
	return views
}

func (r *Room) emitPlayers() {
	r.hub.publish(Event{Type: EventPlayersChanged, Data: PlayersChanged{
		OwnerID: r.ownerID,
		Players: r.playerViews(),
	}})
}

func (r *Room) emitState() {
	r.hub.publishEach(func(playerID string) *Event {
		return &Event{Type: EventGameStateChanged, Data: r.stateViewFor(playerID)}
	})
}

func (r *Room) stateViewFor(viewerID string) StateView {
	view := StateView{
		Status:          r.status,
		CurrentRound:    r.currentRound,
		RoundsPlayed:    r.roundsPlayed,
		DrawingPlayerID: r.drawerID(),
	}
	switch r.status {
	case domain.StatusChoosingWord:
		if viewerID == r.drawerID() {
			view.WordOptions = r.wordOptions
		}
	case domain.StatusDrawing:
		if viewerID == r.drawerID() {
			view.Word = r.currentWord
		} else {
			view.Word = maskWord(r.currentWord)
		}
		view.RoundEndsAt = r.roundStartedAt.
			Add(time.Duration(r.settings.RoundTimeSeconds) * time.Second).
			UnixMilli()
	}
	return view
}

func (r *Room) snapshotFor(viewerID string) Snapshot {
	chat := r.chat
	if len(chat) > chatSnapshotMax {
		chat = chat[len(chat)-chatSnapshotMax:]
	}
	views := make([]ChatView, 0, len(chat))
	for _, msg := range chat {
		views = append(views, chatView(msg))
	}

	return Snapshot{
		RoomCode: r.code,
		OwnerID:  r.ownerID,
		Settings: r.settings,
		Players:  r.playerViews(),
		State:    r.stateViewFor(viewerID),
		Drawing:  r.drawing,
		Chat:     views,
	}
}

// maskWord hides a word as one underscore per letter, keeping word breaks so
// guessers can see the shape of the answer.
func maskWord(word string) string {
	masked := []rune(word)
	for i, c := range masked {
		if c != ' ' {
			masked[i] = '_'
		}
	}
	return string(masked)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// --- persistence hooks -----------------------------------------------------

func (r *Room) persistRoom() {
	if r.store == nil {
		return
	}
	r.store.UpsertRoom(r.record())
}

func (r *Room) persistPlayer(p *playerState) {
	if r.store == nil {
		return
	}
	r.store.UpsertPlayer(domain.Player{
		ID:       p.id,
		Name:     p.name,
		Score:    p.score,
		Color:    p.color,
		Avatar:   p.avatar,
		RoomCode: r.code,
		LastSeen: p.lastSeen,
	})
}

func (r *Room) persistDeletePlayer(playerID string) {
	if r.store == nil {
		return
	}
	r.store.DeletePlayer(r.code, playerID)
}

func (r *Room) persistChat(msg domain.ChatMessage) {
	if r.store == nil {
		return
	}
	r.store.AppendChatMessage(msg)
}

func (r *Room) record() domain.Room {
	return domain.Room{
		Code:     r.code,
		OwnerID:  r.ownerID,
		Settings: r.settings,
		GameState: domain.GameState{
			Status:          r.status,
			CurrentRound:    r.currentRound,
			RoundsPlayed:    r.roundsPlayed,
			DrawingPlayerID: r.drawerID(),
			CurrentWord:     r.currentWord,
			WordOptions:     r.wordOptions,
			RoundStartedAt:  r.roundStartedAt,
		},
		DrawingData: r.drawing,
		CreatedAt:   r.createdAt,
	}
}

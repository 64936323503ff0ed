package domain

import "errors"

var (
	ErrRoomNotFound      = errors.New("room-not-found")
	ErrRoomAlreadyExists = errors.New("room-already-exists")
	ErrRoomFull          = errors.New("room-full")
	ErrPlayerNotFound    = errors.New("player-not-found")
)

var (
	ErrInvalidInput    = errors.New("invalid-input")
	ErrNotOwner        = errors.New("not-room-owner")
	ErrNotDrawer       = errors.New("not-current-drawer")
	ErrWrongPhase      = errors.New("wrong-game-phase")
	ErrNotEnoughWords  = errors.New("not-enough-words")
	ErrNotEnoughPlayer = errors.New("not-enough-players")
)

// ErrStaleAction marks an action that lost a race against an
// already-advanced room state. Callers treat it as a successful no-op.
var ErrStaleAction = errors.New("stale-action")

var UnexpectedDatabaseError = errors.New("unexpected-database-error")

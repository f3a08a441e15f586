package domain

import "errors"

var (
	ErrUserNotFound   = errors.New("id not found")
	ErrUserInMatch    = errors.New("user is in an active game")
	ErrAlreadyInRoom  = errors.New("user is already in a room")
	ErrNotInRoom      = errors.New("user is not in a room")
	ErrNotMaster      = errors.New("only the room master can perform this action")
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomFull       = errors.New("room is full")
	ErrRoomBusy       = errors.New("room is not idle")
	ErrGroupNotFound  = errors.New("ready group not found")
	ErrGameNotFound   = errors.New("game not found")
	ErrInvalidMode    = errors.New("invalid mode")
	ErrInvalidWinTeam = errors.New("win team must be 0 or 1")
	ErrNotYourTurn    = errors.New("seat is not allowed to act in this phase")
	ErrHeroTaken      = errors.New("hero is already picked or banned")
)

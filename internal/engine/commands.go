package engine

import "github.com/riftlab/matchd/internal/domain"

// Command is one unit of work for the engine goroutine. Commands are
// processed FIFO; a command runs to completion before the next select.
type Command interface {
	name() string
}

type Login struct {
	UserID string
	Name   string
}

type Logout struct {
	UserID string
}

type CreateRoom struct {
	UserID string
	Mode   domain.Mode
}

type CloseRoom struct {
	UserID string
}

// JoinRoom adds UserID to the room mastered by MasterID.
type JoinRoom struct {
	MasterID string
	UserID   string
}

type LeaveRoom struct {
	MasterID string
	UserID   string
}

type Invite struct {
	UserID string
	Target string
}

// ChooseNGHero preselects a hero in the lobby for the normal modes.
type ChooseNGHero struct {
	UserID string
	Hero   int
}

type StartQueue struct {
	UserID string
}

type CancelQueue struct {
	UserID string
}

// PreStart is a member's accept/decline on the match check-board.
type PreStart struct {
	MasterID string
	UserID   string
	Accept   bool
}

type PreStartGet struct {
	MasterID string
	UserID   string
}

// StartGame rebroadcasts the composition and start signal. The game is
// addressed directly or, on the room topic, through the sender's
// active game.
type StartGame struct {
	GameID uint64
	UserID string
}

// GameChoose routes an in-draft ban or pick to the match controller.
type GameChoose struct {
	GameID uint64
	UserID string
	Hero   int
}

type GameInfo struct {
	GameID uint64
}

// GameLeave marks a member offline mid-match; teardown happens at
// game_over/game_close time.
type GameLeave struct {
	GameID uint64
	UserID string
}

type GameOver struct {
	GameID  uint64
	WinTeam int
}

type GameClose struct {
	GameID uint64
}

type Status struct {
	UserID string
}

type Reconnect struct {
	UserID string
}

type Reset struct{}

// SnapshotReq serves the ops /status endpoint without sharing state.
type SnapshotReq struct {
	Reply chan Snapshot
}

func (Login) name() string        { return "login" }
func (Logout) name() string       { return "logout" }
func (CreateRoom) name() string   { return "create" }
func (CloseRoom) name() string    { return "close" }
func (JoinRoom) name() string     { return "join" }
func (LeaveRoom) name() string    { return "leave" }
func (Invite) name() string       { return "invite" }
func (ChooseNGHero) name() string { return "choose_hero" }
func (StartQueue) name() string   { return "start_queue" }
func (CancelQueue) name() string  { return "cancel_queue" }
func (PreStart) name() string     { return "prestart" }
func (PreStartGet) name() string  { return "prestart_get" }
func (StartGame) name() string    { return "start_game" }
func (GameChoose) name() string   { return "choose" }
func (GameInfo) name() string     { return "game_info" }
func (GameLeave) name() string    { return "game_leave" }
func (GameOver) name() string     { return "game_over" }
func (GameClose) name() string    { return "game_close" }
func (Status) name() string       { return "status" }
func (Reconnect) name() string    { return "reconnect" }
func (Reset) name() string        { return "reset" }
func (SnapshotReq) name() string  { return "snapshot" }

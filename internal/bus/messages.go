package bus

import "github.com/riftlab/matchd/internal/domain"

// Ack is the generic ok/fail reply on a response topic.
type Ack struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

func OK() Ack                 { return Ack{Status: "ok"} }
func Fail(reason string) Ack  { return Ack{Status: "fail", Reason: reason} }
func State(status string) Ack { return Ack{Status: status} }

// LoginRes echoes the user's current ratings after login.
type LoginRes struct {
	Status string        `json:"status"`
	UserID string        `json:"id"`
	Name   string        `json:"name"`
	Ng1v1  domain.Rating `json:"ng1v1"`
	Ng5v5  domain.Rating `json:"ng5v5"`
	Rk1v1  domain.Rating `json:"rk1v1"`
	Rk5v5  domain.Rating `json:"rk5v5"`
	Honor  int           `json:"honor"`
}

// RoomUser is one member entry inside a room update.
type RoomUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Hero  int    `json:"hero"`
	Score int    `json:"score"`
}

// RoomUpdate is broadcast on room/{master}/res/update after any change
// to room composition.
type RoomUpdate struct {
	RID    uint64      `json:"rid"`
	Master string      `json:"master"`
	Mode   domain.Mode `json:"mode"`
	Ready  int         `json:"ready"`
	Users  []RoomUser  `json:"users"`
}

// NewRoomUpdate builds the broadcast view of a room on its mode bucket.
func NewRoomUpdate(r *domain.Room) RoomUpdate {
	upd := RoomUpdate{RID: r.RID, Master: r.Master, Mode: r.Mode, Ready: int(r.Ready)}
	bucket := r.Mode.Bucket()
	for _, u := range r.Users {
		upd.Users = append(upd.Users, RoomUser{ID: u.ID, Name: u.Name, Hero: u.Hero, Score: u.Rating(bucket).Score})
	}
	return upd
}

// Invite relays an invitation to the target's topic.
type Invite struct {
	From string      `json:"from"`
	RID  uint64      `json:"rid"`
	Mode domain.Mode `json:"mode"`
}

// QueueNotice reports queue state changes (matched into a group,
// stopped).
type QueueNotice struct {
	Status string `json:"status"`
	GID    uint64 `json:"gid,omitempty"`
}

// PrestartNotice asks a room's members to accept or decline the match.
type PrestartNotice struct {
	GID    uint64 `json:"gid"`
	GameID uint64 `json:"gameId"`
}

// GameSignal announces the launched dedicated server to a room.
type GameSignal struct {
	GameID uint64 `json:"gameId"`
	Server string `json:"server"`
	Port   int    `json:"port"`
}

// GameList is the full match composition broadcast.
type GameList struct {
	GameID    uint64      `json:"gameId"`
	Mode      domain.Mode `json:"mode"`
	RoomNames []string    `json:"roomNames"`
	UserNames []string    `json:"userNames"`
}

// GameStatus is the phase beacon published on game/{g}/res/game_status.
type GameStatus struct {
	GameID    uint64 `json:"gameId"`
	Status    int    `json:"status"`
	Phase     string `json:"phase"`
	Seats     []int  `json:"seats,omitempty"`
	Countdown int    `json:"countdown"`
}

// HeroRoll is the ARAM assignment on game/{g}/res/heros.
type HeroRoll struct {
	GameID uint64         `json:"gameId"`
	Heroes map[string]int `json:"heroes"`
}

// Jump reports a forced default assignment for a laggard seat.
type Jump struct {
	GameID uint64 `json:"gameId"`
	Seat   int    `json:"seat"`
	UserID string `json:"id"`
	Hero   int    `json:"hero"`
	Ban    bool   `json:"ban"`
}

// RatingNotice publishes one user's post-match rating.
type RatingNotice struct {
	UserID string        `json:"id"`
	Bucket domain.Bucket `json:"bucket"`
	Rating domain.Rating `json:"rating"`
}

// --- inbound payload shapes ---

type LoginReq struct {
	Name string `json:"name"`
}

type CreateReq struct {
	Mode domain.Mode `json:"mode"`
}

type JoinReq struct {
	ID string `json:"id"`
}

type LeaveReq struct {
	ID string `json:"id"`
}

type InviteReq struct {
	Target string `json:"target"`
}

type ChooseHeroReq struct {
	Hero int `json:"hero"`
}

type PrestartReq struct {
	ID     string `json:"id"`
	Accept bool   `json:"accept"`
}

type PrestartGetReq struct {
	ID string `json:"id"`
}

type GameOverReq struct {
	WinTeam int `json:"winTeam"`
}

type GameChooseReq struct {
	ID   string `json:"id"`
	Hero int    `json:"hero"`
}

type GameUserReq struct {
	ID string `json:"id"`
}

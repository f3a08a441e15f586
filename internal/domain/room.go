package domain

// ReadyState tracks where a room sits in the matchmaking lifecycle.
type ReadyState int

const (
	RoomIdle     ReadyState = iota // in no queue
	RoomQueued                     // matched into a ready group
	RoomPrestart                   // accept/decline phase
	RoomGaming                     // match running
)

// Room is a persistent lobby of 1..TeamSize users. Every user in Users
// has user.RID == room.RID; an emptied room is destroyed by the engine.
type Room struct {
	RID        uint64
	Users      []*User
	Master     string
	LastMaster string
	Mode       Mode

	AvgNg1v1 int
	AvgNg5v5 int
	AvgRk1v1 int
	AvgRk5v5 int
	AvgHonor int

	Ready ReadyState
}

func NewRoom(rid uint64, mode Mode, master *User) *Room {
	r := &Room{RID: rid, Mode: mode, Master: master.ID}
	r.AddUser(master)
	return r
}

func (r *Room) Size() int { return len(r.Users) }

func (r *Room) HasUser(id string) bool {
	for _, u := range r.Users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// AddUser appends a user, claims them for this room and recomputes
// aggregates.
func (r *Room) AddUser(u *User) {
	u.RID = r.RID
	r.Users = append(r.Users, u)
	r.Recompute()
}

// RemoveUser detaches a user. If the master leaves and others remain,
// the head of Users is promoted and LastMaster records the old master.
func (r *Room) RemoveUser(id string) bool {
	for i, u := range r.Users {
		if u.ID != id {
			continue
		}
		u.RID = 0
		u.GID = 0
		r.Users = append(r.Users[:i], r.Users[i+1:]...)
		if r.Master == id && len(r.Users) > 0 {
			r.LastMaster = id
			r.Master = r.Users[0].ID
		}
		r.Recompute()
		return true
	}
	return false
}

// Leave clears every member's lifecycle references and resets the room.
func (r *Room) Leave() {
	for _, u := range r.Users {
		u.RID = 0
		u.GID = 0
		u.GameID = 0
	}
	r.Users = nil
	r.Ready = RoomIdle
	r.Recompute()
}

// UserPrestart flags every member as awaiting a prestart acknowledgement.
func (r *Room) UserPrestart() {
	for _, u := range r.Users {
		u.StartPrestart = true
		u.PrestartGet = false
	}
}

// CheckPrestartGet reports whether every member acknowledged the
// prestart broadcast. An empty room has nothing to acknowledge.
func (r *Room) CheckPrestartGet() bool {
	if len(r.Users) == 0 {
		return false
	}
	for _, u := range r.Users {
		if !u.PrestartGet {
			return false
		}
	}
	return true
}

// ClearQueue drops every member out of the group/game they were matched
// into and returns the room to idle. Room membership is untouched.
func (r *Room) ClearQueue() {
	for _, u := range r.Users {
		u.GID = 0
		u.GameID = 0
		u.StartPrestart = false
	}
	r.Ready = RoomIdle
}

// Avg returns the room's aggregate for a rating bucket.
func (r *Room) Avg(b Bucket) int {
	switch b {
	case BucketNg1v1:
		return r.AvgNg1v1
	case BucketRk1v1:
		return r.AvgRk1v1
	case BucketRk5v5:
		return r.AvgRk5v5
	default:
		return r.AvgNg5v5
	}
}

// Recompute rebuilds the aggregate averages from current membership.
// Called on every membership or score change so the matcher never sees
// a stale aggregate.
func (r *Room) Recompute() {
	if len(r.Users) == 0 {
		r.AvgNg1v1, r.AvgNg5v5, r.AvgRk1v1, r.AvgRk5v5, r.AvgHonor = 0, 0, 0, 0, 0
		return
	}
	var ng1, ng5, rk1, rk5, honor int
	for _, u := range r.Users {
		ng1 += u.Ng1v1.Score
		ng5 += u.Ng5v5.Score
		rk1 += u.Rk1v1.Score
		rk5 += u.Rk5v5.Score
		honor += u.Honor
	}
	n := len(r.Users)
	r.AvgNg1v1 = ng1 / n
	r.AvgNg5v5 = ng5 / n
	r.AvgRk1v1 = rk1 / n
	r.AvgRk5v5 = rk5 / n
	r.AvgHonor = honor / n
}

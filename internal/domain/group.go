package domain

// GroupStatus tracks whether a formed team is still waiting for an
// opposing side or already in the accept/decline phase.
type GroupStatus int

const (
	GroupForming GroupStatus = iota
	GroupPrestarting
)

// CheckResult is the outcome of evaluating a prestart check-board.
type CheckResult int

const (
	CheckWait CheckResult = iota
	CheckReady
	CheckCancel
)

// Check is one check-board entry: 0 pending, +1 accepted, -1 declined.
type Check struct {
	UserID string
	State  int
}

// Group is a provisionally formed team: rooms whose combined user count
// equals the mode's team size.
type Group struct {
	GID    uint64
	Mode   Mode
	Rooms  []*Room
	rids   map[uint64]struct{}
	Checks []Check
	Status GroupStatus

	AvgNg1v1 int
	AvgNg5v5 int
	AvgRk1v1 int
	AvgRk5v5 int
	AvgHonor int
}

func NewGroup(gid uint64, mode Mode) *Group {
	return &Group{GID: gid, Mode: mode, rids: make(map[uint64]struct{})}
}

// AddRoom appends a room, registers its rid and recomputes aggregates.
func (g *Group) AddRoom(r *Room) {
	g.Rooms = append(g.Rooms, r)
	g.rids[r.RID] = struct{}{}
	for _, u := range r.Users {
		u.GID = g.GID
	}
	g.Recompute()
}

func (g *Group) HasRoom(rid uint64) bool {
	_, ok := g.rids[rid]
	return ok
}

func (g *Group) UserCount() int {
	n := 0
	for _, r := range g.Rooms {
		n += r.Size()
	}
	return n
}

// Users returns members in traversal order: rooms in insertion order,
// users in insertion order within each room.
func (g *Group) Users() []*User {
	var users []*User
	for _, r := range g.Rooms {
		users = append(users, r.Users...)
	}
	return users
}

// Prestart flips every room into the accept/decline phase and seeds a
// pending check entry per user.
func (g *Group) Prestart() {
	g.Status = GroupPrestarting
	g.Checks = g.Checks[:0]
	for _, r := range g.Rooms {
		r.Ready = RoomPrestart
		r.UserPrestart()
		for _, u := range r.Users {
			g.Checks = append(g.Checks, Check{UserID: u.ID})
		}
	}
}

// UserReady marks the user's check entry accepted.
func (g *Group) UserReady(id string) bool { return g.setCheck(id, 1) }

// UserCancel marks the user's check entry declined.
func (g *Group) UserCancel(id string) bool { return g.setCheck(id, -1) }

func (g *Group) setCheck(id string, state int) bool {
	for i := range g.Checks {
		if g.Checks[i].UserID == id {
			g.Checks[i].State = state
			return true
		}
	}
	return false
}

// CheckPrestart returns Ready iff every entry accepted, Cancel if any
// declined, Wait otherwise.
func (g *Group) CheckPrestart() CheckResult {
	result := CheckReady
	for _, c := range g.Checks {
		switch {
		case c.State < 0:
			return CheckCancel
		case c.State == 0:
			result = CheckWait
		}
	}
	if len(g.Checks) == 0 {
		return CheckWait
	}
	return result
}

// ClearQueue resets every room of the group back to idle.
func (g *Group) ClearQueue() {
	for _, r := range g.Rooms {
		r.ClearQueue()
	}
}

// Avg returns the group's aggregate for a rating bucket.
func (g *Group) Avg(b Bucket) int {
	switch b {
	case BucketNg1v1:
		return g.AvgNg1v1
	case BucketRk1v1:
		return g.AvgRk1v1
	case BucketRk5v5:
		return g.AvgRk5v5
	default:
		return g.AvgNg5v5
	}
}

// Recompute rebuilds aggregates as the user-count weighted mean of the
// member rooms, which is the plain mean over all users.
func (g *Group) Recompute() {
	users := g.Users()
	if len(users) == 0 {
		g.AvgNg1v1, g.AvgNg5v5, g.AvgRk1v1, g.AvgRk5v5, g.AvgHonor = 0, 0, 0, 0, 0
		return
	}
	var ng1, ng5, rk1, rk5, honor int
	for _, u := range users {
		ng1 += u.Ng1v1.Score
		ng5 += u.Ng5v5.Score
		rk1 += u.Rk1v1.Score
		rk5 += u.Rk5v5.Score
		honor += u.Honor
	}
	n := len(users)
	g.AvgNg1v1 = ng1 / n
	g.AvgNg5v5 = ng5 / n
	g.AvgRk1v1 = rk1 / n
	g.AvgRk5v5 = rk5 / n
	g.AvgHonor = honor / n
}

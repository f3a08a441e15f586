package domain

// Game is a formed match: two groups, the assigned dedicated-server
// endpoint and the denormalised broadcast lists. Users are owned by the
// engine's user table, never by the game.
type Game struct {
	GameID     uint64
	Port       int
	ServerName string
	Mode       Mode
	Groups     [2]*Group

	// Rebuilt by UpdateNames in deterministic traversal order: team 0
	// rooms in insertion order, then team 1.
	RoomNames []string
	UserNames []string

	WinTeam  int
	LoseTeam int
}

func NewGame(mode Mode, a, b *Group) *Game {
	return &Game{Mode: mode, Groups: [2]*Group{a, b}, WinTeam: -1, LoseTeam: -1}
}

// SetGameID stamps the id on the game and every user in both groups.
func (game *Game) SetGameID(id uint64) {
	game.GameID = id
	for _, u := range game.Users() {
		u.GameID = id
	}
}

// Users returns all members in seat order: team 0 first, then team 1.
func (game *Game) Users() []*User {
	var users []*User
	for _, g := range game.Groups {
		if g != nil {
			users = append(users, g.Users()...)
		}
	}
	return users
}

// Rooms returns the rooms of both sides in traversal order.
func (game *Game) Rooms() []*Room {
	var rooms []*Room
	for _, g := range game.Groups {
		if g != nil {
			rooms = append(rooms, g.Rooms...)
		}
	}
	return rooms
}

// UpdateNames rebuilds the denormalised name lists.
func (game *Game) UpdateNames() {
	game.RoomNames = game.RoomNames[:0]
	game.UserNames = game.UserNames[:0]
	for _, g := range game.Groups {
		if g == nil {
			continue
		}
		for _, r := range g.Rooms {
			game.RoomNames = append(game.RoomNames, r.Master)
			for _, u := range r.Users {
				game.UserNames = append(game.UserNames, u.ID)
			}
		}
	}
}

// Prestart moves both sides into the accept/decline phase.
func (game *Game) Prestart() {
	for _, g := range game.Groups {
		g.Prestart()
	}
}

// CheckPrestart combines both check-boards: Cancel wins over Wait,
// Ready requires both sides.
func (game *Game) CheckPrestart() CheckResult {
	result := CheckReady
	for _, g := range game.Groups {
		switch g.CheckPrestart() {
		case CheckCancel:
			return CheckCancel
		case CheckWait:
			result = CheckWait
		}
	}
	return result
}

// Ready flips every room into the gaming state.
func (game *Game) Ready() {
	for _, r := range game.Rooms() {
		r.Ready = RoomGaming
		for _, u := range r.Users {
			u.StartPrestart = false
		}
	}
}

// ClearQueue resets both sides back to idle.
func (game *Game) ClearQueue() {
	for _, g := range game.Groups {
		g.ClearQueue()
	}
}

// Side returns which team (0 or 1) a seat index belongs to.
func (game *Game) Side(seat int) int {
	if n := len(game.UserNames); n > 0 && seat >= n/2 {
		return 1
	}
	return 0
}

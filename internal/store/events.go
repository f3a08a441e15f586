package store

import "github.com/riftlab/matchd/internal/domain"

// Event is a persistence command emitted by the engine. The engine is
// decoupled from write success; the sink logs failures and moves on.
type Event interface{ isEvent() }

// Login requests insertion of a new user with seeded rating rows.
type Login struct {
	UserID string
	Name   string
}

// Update writes one rating bucket for one user.
type Update struct {
	UserID string
	Bucket domain.Bucket
	Score  int
	Wins   int
	Losses int
}

// MatchResult records match metadata: the roster and hero snapshot at
// draft completion, and the winning team once the match settles.
type MatchResult struct {
	GameID  uint64
	Mode    domain.Mode
	WinTeam int
	Roster  [][]string     // per team, user ids in seat order
	Heroes  map[string]int // user id -> picked hero
	Bans    [][]int        // per team, banned heroes
}

func (Login) isEvent()       {}
func (Update) isEvent()      {}
func (MatchResult) isEvent() {}

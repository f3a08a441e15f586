package domain_test

import (
	"testing"

	"github.com/riftlab/matchd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) (*domain.Game, []*domain.User) {
	t.Helper()
	var users []*domain.User
	groups := make([]*domain.Group, 2)
	rid := uint64(1)
	for side := 0; side < 2; side++ {
		g := domain.NewGroup(uint64(side+1), domain.ModeNormal5v5)
		for i := 0; i < 3; i++ {
			u := newUser(string(rune('a'+side*3+i)), 1000)
			users = append(users, u)
			g.AddRoom(domain.NewRoom(rid, domain.ModeNormal5v5, u))
			rid++
		}
		groups[side] = g
	}
	return domain.NewGame(domain.ModeNormal5v5, groups[0], groups[1]), users
}

func TestGameSetGameID(t *testing.T) {
	game, users := newGame(t)
	game.SetGameID(42)
	assert.Equal(t, uint64(42), game.GameID)
	for _, u := range users {
		assert.Equal(t, uint64(42), u.GameID)
	}
}

func TestGameUpdateNamesDeterministic(t *testing.T) {
	game, _ := newGame(t)
	game.UpdateNames()
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, game.UserNames)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, game.RoomNames)

	// Seat sides split down the middle.
	assert.Equal(t, 0, game.Side(2))
	assert.Equal(t, 1, game.Side(3))
}

func TestGamePrestartCheckCombinesSides(t *testing.T) {
	game, users := newGame(t)
	game.Prestart()
	assert.Equal(t, domain.CheckWait, game.CheckPrestart())

	for _, u := range users[:5] {
		require.True(t, game.Groups[0].UserReady(u.ID) || game.Groups[1].UserReady(u.ID))
	}
	assert.Equal(t, domain.CheckWait, game.CheckPrestart())

	game.Groups[1].UserReady(users[5].ID)
	assert.Equal(t, domain.CheckReady, game.CheckPrestart())

	game.Groups[0].UserCancel(users[0].ID)
	assert.Equal(t, domain.CheckCancel, game.CheckPrestart())
}

func TestGameReadyAndClearQueue(t *testing.T) {
	game, users := newGame(t)
	game.Prestart()

	game.Ready()
	for _, r := range game.Rooms() {
		assert.Equal(t, domain.RoomGaming, r.Ready)
	}
	for _, u := range users {
		assert.False(t, u.StartPrestart)
	}

	game.ClearQueue()
	for _, r := range game.Rooms() {
		assert.Equal(t, domain.RoomIdle, r.Ready)
	}
}

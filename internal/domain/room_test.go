package domain_test

import (
	"testing"

	"github.com/riftlab/matchd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(id string, ng5v5 int) *domain.User {
	u := domain.NewUser(id, id)
	u.Ng5v5.Score = ng5v5
	return u
}

func TestRoomMembershipInvariant(t *testing.T) {
	master := newUser("alice", 1000)
	room := domain.NewRoom(7, domain.ModeNormal5v5, master)

	bob := newUser("bob", 1200)
	room.AddUser(bob)

	for _, u := range room.Users {
		assert.Equal(t, room.RID, u.RID, "user %s must reference its room", u.ID)
		assert.True(t, room.HasUser(u.ID))
	}

	require.True(t, room.RemoveUser("bob"))
	assert.Zero(t, bob.RID)
	assert.False(t, room.HasUser("bob"))
}

func TestRoomAggregates(t *testing.T) {
	room := domain.NewRoom(1, domain.ModeNormal5v5, newUser("a", 1000))
	room.AddUser(newUser("b", 1200))
	room.AddUser(newUser("c", 1100))

	assert.Equal(t, 1100, room.AvgNg5v5)
	assert.Equal(t, 1100, room.Avg(domain.BucketNg5v5))

	room.RemoveUser("b")
	assert.Equal(t, 1050, room.AvgNg5v5)

	// Score changes surface after an explicit recompute.
	room.Users[0].Ng5v5.Score = 2000
	room.Recompute()
	assert.Equal(t, 1550, room.AvgNg5v5)
}

func TestRoomMasterPromotion(t *testing.T) {
	master := newUser("alice", 1000)
	room := domain.NewRoom(3, domain.ModeRanked5v5, master)
	room.AddUser(newUser("bob", 1000))
	room.AddUser(newUser("carol", 1000))

	require.True(t, room.RemoveUser("alice"))
	assert.Equal(t, "bob", room.Master)
	assert.Equal(t, "alice", room.LastMaster)
}

func TestRoomLeaveClearsMembers(t *testing.T) {
	a := newUser("a", 1000)
	b := newUser("b", 1000)
	room := domain.NewRoom(4, domain.ModeNormal5v5, a)
	room.AddUser(b)
	a.GID, a.GameID = 9, 12
	room.Ready = domain.RoomQueued

	room.Leave()

	assert.Zero(t, a.RID)
	assert.Zero(t, a.GID)
	assert.Zero(t, a.GameID)
	assert.Zero(t, b.RID)
	assert.Equal(t, domain.RoomIdle, room.Ready)
	assert.Empty(t, room.Users)
}

func TestRoomPrestartAcknowledgement(t *testing.T) {
	a := newUser("a", 1000)
	b := newUser("b", 1000)
	room := domain.NewRoom(5, domain.ModeNormal5v5, a)
	room.AddUser(b)

	room.UserPrestart()
	assert.True(t, a.StartPrestart)
	assert.False(t, room.CheckPrestartGet())

	a.PrestartGet = true
	assert.False(t, room.CheckPrestartGet())
	b.PrestartGet = true
	assert.True(t, room.CheckPrestartGet())
}

func TestEmptyRoomNeverAcknowledges(t *testing.T) {
	room := domain.NewRoom(6, domain.ModeARAM, newUser("a", 1000))
	room.Leave()
	assert.False(t, room.CheckPrestartGet())
}

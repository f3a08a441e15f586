package engine

import (
	"testing"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupScores(g *domain.Group, bucket domain.Bucket) []int {
	var scores []int
	for _, u := range g.Users() {
		scores = append(scores, u.Rating(bucket).Score)
	}
	return scores
}

func TestMatcherFormsBalancedGroups(t *testing.T) {
	e, rec, _, _ := newTestEngine(t)
	queueSixRooms(t, e)

	e.sweepQueue()

	// Two groups of three, split along the rating gap.
	require.Len(t, e.groups, 2)
	g1, g2 := e.groups[1], e.groups[2]
	assert.ElementsMatch(t, []int{1000, 1005, 1010}, groupScores(g1, domain.BucketNg5v5))
	assert.ElementsMatch(t, []int{1200, 1205, 1210}, groupScores(g2, domain.BucketNg5v5))
	assert.Empty(t, e.queue)

	// Group balance: the pair sits within ScoreInterval, so one game
	// forms and both groups move to the prestart table.
	assert.LessOrEqual(t, abs(g1.Avg(domain.BucketNg5v5)-g2.Avg(domain.BucketNg5v5)), e.cfg.ScoreInterval)
	require.Len(t, e.prestart, 1)
	game := e.prestart[1]
	assert.Equal(t, domain.GroupPrestarting, g1.Status)
	assert.Equal(t, domain.GroupPrestarting, g2.Status)
	for _, room := range game.Rooms() {
		assert.Equal(t, domain.RoomPrestart, room.Ready)
		notice, ok := rec.last(bus.RoomRes(room.Master, "prestart"))
		require.True(t, ok)
		assert.Equal(t, uint64(1), notice.(bus.PrestartNotice).GameID)
	}

	// Each master also learned their group assignment.
	matched, ok := rec.last("room/u1/res/start_queue")
	require.True(t, ok)
	assert.Equal(t, "matched", matched.(bus.QueueNotice).Status)
	assert.Equal(t, uint64(1), matched.(bus.QueueNotice).GID)
}

func TestMatcherSkipsRoomsOutsideScoreInterval(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	for i, score := range []int{1000, 4000, 4005} {
		id := string(rune('a' + i))
		login(e, id, domain.BucketNg5v5, score)
		e.apply(CreateRoom{UserID: id, Mode: domain.ModeNormal5v5})
		e.apply(StartQueue{UserID: id})
	}

	e.sweepQueue()

	// 1000 cannot group with 4000; nobody reaches TeamSize.
	assert.Empty(t, e.groups)
	assert.Len(t, e.queue, 3)
}

func TestMatcherRespectsRoomCapacity(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	// A full pair plus a solo: the pair and solo fill one group; the
	// second pair would overflow and stays queued.
	login(e, "a", domain.BucketNg5v5, 1000)
	login(e, "b", domain.BucketNg5v5, 1000)
	e.apply(CreateRoom{UserID: "a", Mode: domain.ModeNormal5v5})
	e.apply(JoinRoom{MasterID: "a", UserID: "b"})

	login(e, "c", domain.BucketNg5v5, 1002)
	login(e, "d", domain.BucketNg5v5, 1002)
	e.apply(CreateRoom{UserID: "c", Mode: domain.ModeNormal5v5})
	e.apply(JoinRoom{MasterID: "c", UserID: "d"})

	login(e, "solo", domain.BucketNg5v5, 1001)
	e.apply(CreateRoom{UserID: "solo", Mode: domain.ModeNormal5v5})

	e.apply(StartQueue{UserID: "a"})
	e.apply(StartQueue{UserID: "c"})
	e.apply(StartQueue{UserID: "solo"})

	e.sweepQueue()

	require.Len(t, e.groups, 1)
	assert.Equal(t, 3, e.groups[1].UserCount())
	// The two-user room that did not fit is still waiting.
	require.Len(t, e.queue, 1)
	for _, room := range e.queue {
		assert.Equal(t, 2, room.Size())
	}
}

func TestPairingPrefersNearestGroup(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.cfg.ScoreInterval = 150

	// First sweep: 1000 and 3000 become groups too far apart to pair.
	login(e, "low", domain.BucketRk1v1, 1000)
	login(e, "high", domain.BucketRk1v1, 3000)
	for _, id := range []string{"low", "high"} {
		e.apply(CreateRoom{UserID: id, Mode: domain.ModeRanked1v1})
		e.apply(StartQueue{UserID: id})
	}
	e.sweepQueue()
	require.Len(t, e.groups, 2)
	assert.Empty(t, e.prestart)

	// Second sweep: a 1100 group arrives; the seed pairs with it, not
	// with the out-of-range 3000.
	login(e, "mid", domain.BucketRk1v1, 1100)
	e.apply(CreateRoom{UserID: "mid", Mode: domain.ModeRanked1v1})
	e.apply(StartQueue{UserID: "mid"})
	e.sweepQueue()

	require.Len(t, e.prestart, 1)
	game := e.prestart[1]
	scores := append(groupScores(game.Groups[0], domain.BucketRk1v1), groupScores(game.Groups[1], domain.BucketRk1v1)...)
	assert.ElementsMatch(t, []int{1000, 1100}, scores)

	// The 3000 group keeps waiting for an opponent in range.
	require.Len(t, e.groups, 3)
	remaining := 0
	for _, g := range e.groups {
		if g.Status == domain.GroupForming {
			remaining++
		}
	}
	assert.Equal(t, 1, remaining)
}

func TestModesNeverMix(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	login(e, "rk", domain.BucketRk1v1, 1000)
	login(e, "ng", domain.BucketNg1v1, 1000)
	e.apply(CreateRoom{UserID: "rk", Mode: domain.ModeRanked1v1})
	e.apply(CreateRoom{UserID: "ng", Mode: domain.ModeNormal1v1})
	e.apply(StartQueue{UserID: "rk"})
	e.apply(StartQueue{UserID: "ng"})

	e.sweepQueue()

	// One solo group per mode, no cross-mode pairing.
	assert.Len(t, e.groups, 2)
	assert.Empty(t, e.prestart)
}

func TestQueueSurvivesAcrossSweeps(t *testing.T) {
	e, _, events, _ := newTestEngine(t)
	login(e, "a", domain.BucketRk1v1, 1000)
	e.apply(CreateRoom{UserID: "a", Mode: domain.ModeRanked1v1})
	e.apply(StartQueue{UserID: "a"})
	drainEvents(events)

	e.sweepQueue()
	e.sweepQueue()

	// A 1v1 room fills its group alone but waits for an opponent.
	assert.Len(t, e.groups, 1)
	assert.Empty(t, e.prestart)
	assert.Equal(t, domain.RoomQueued, e.rooms[1].Ready)
	assert.Empty(t, drainEvents(events))
}

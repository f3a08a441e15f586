package engine

import (
	"testing"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReminderTargetsUnacknowledgedRooms(t *testing.T) {
	e, rec, _, _ := newTestEngine(t)
	queueSixRooms(t, e)
	e.sweepQueue()
	require.Len(t, e.prestart, 1)

	before := len(rec.byTopic(bus.RoomRes("u1", "prestart")))
	e.remindPrestart()
	assert.Len(t, rec.byTopic(bus.RoomRes("u1", "prestart")), before+1)

	// u1 acknowledges; the next reminder skips their room only.
	e.apply(PreStartGet{MasterID: "u1", UserID: "u1"})
	res, ok := rec.last(bus.RoomRes("u1", "start_get"))
	require.True(t, ok)
	assert.Equal(t, "ok", res.(bus.Ack).Status)

	u1Count := len(rec.byTopic(bus.RoomRes("u1", "prestart")))
	u2Count := len(rec.byTopic(bus.RoomRes("u2", "prestart")))
	e.remindPrestart()
	assert.Len(t, rec.byTopic(bus.RoomRes("u1", "prestart")), u1Count)
	assert.Len(t, rec.byTopic(bus.RoomRes("u2", "prestart")), u2Count+1)
}

func TestPrestartWaitsWhileChecksPending(t *testing.T) {
	e, _, _, fl := newTestEngine(t)
	ids := queueSixRooms(t, e)
	e.sweepQueue()

	// Five of six accepted: still waiting.
	for _, id := range ids[:5] {
		e.apply(PreStart{MasterID: id, UserID: id, Accept: true})
	}
	e.sweepPrestart()
	assert.Len(t, e.prestart, 1)
	assert.Empty(t, e.gaming)
	assert.Empty(t, fl.starts)
}

func TestPortWindowWraps(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.nextPort = e.cfg.PortMax

	assert.Equal(t, 65500, e.allocPort())
	assert.Equal(t, 7777, e.allocPort())
	assert.Equal(t, 7778, e.allocPort())
}

func TestConsecutiveGamesGetDistinctPorts(t *testing.T) {
	e, _, _, fl := newTestEngine(t)
	pairs := [][2]string{{"a1", "a2"}, {"b1", "b2"}}
	for _, pair := range pairs {
		for _, id := range pair {
			login(e, id, domain.BucketRk1v1, 1000)
			e.apply(CreateRoom{UserID: id, Mode: domain.ModeRanked1v1})
			e.apply(StartQueue{UserID: id})
		}
		e.sweepQueue()
	}
	for _, pair := range pairs {
		for _, id := range pair {
			e.apply(PreStart{MasterID: id, UserID: id, Accept: true})
		}
	}
	e.sweepPrestart()

	require.Len(t, fl.starts, 2)
	assert.Equal(t, 7777, fl.starts[0].port)
	assert.Equal(t, 7778, fl.starts[1].port)
	assert.Len(t, e.gaming, 2)
}

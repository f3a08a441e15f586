package bus_test

import (
	"encoding/json"
	"testing"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  bus.Route
		ok    bool
	}{
		{"member/u17/send/login", bus.Route{Family: bus.FamilyMember, UserID: "u17", Action: "login"}, true},
		{"member/u17/send/reconnect", bus.Route{Family: bus.FamilyMember, UserID: "u17", Action: "reconnect"}, true},
		{"room/alice/send/start_queue", bus.Route{Family: bus.FamilyRoom, UserID: "alice", Action: "start_queue"}, true},
		{"room/alice/send/prestart_get", bus.Route{Family: bus.FamilyRoom, UserID: "alice", Action: "prestart_get"}, true},
		{"game/42/send/game_over", bus.Route{Family: bus.FamilyGame, GameID: 42, Action: "game_over"}, true},
		{"game/42/send/choose", bus.Route{Family: bus.FamilyGame, GameID: 42, Action: "choose"}, true},
		{"reset", bus.Route{Family: bus.FamilyReset}, true},
		{"member/u17/send/unknown", bus.Route{}, false},
		{"member/u17/res/login", bus.Route{}, false},
		{"game/notanumber/send/game_over", bus.Route{}, false},
		{"room/alice/send", bus.Route{}, false},
		{"", bus.Route{}, false},
	}

	for _, tt := range tests {
		got, ok := bus.ParseTopic(tt.topic)
		assert.Equal(t, tt.ok, ok, "topic %q", tt.topic)
		if tt.ok {
			assert.Equal(t, tt.want, got, "topic %q", tt.topic)
		}
	}
}

func TestResponseTopics(t *testing.T) {
	r, ok := bus.ParseTopic("member/u17/send/status")
	require.True(t, ok)
	assert.Equal(t, "member/u17/res/status", r.ResponseTopic())

	r, ok = bus.ParseTopic("room/alice/send/join")
	require.True(t, ok)
	assert.Equal(t, "room/alice/res/join", r.ResponseTopic())

	r, ok = bus.ParseTopic("game/7/send/game_info")
	require.True(t, ok)
	assert.Equal(t, "game/7/res/game_info", r.ResponseTopic())
}

func TestRoomUpdateRoundTrip(t *testing.T) {
	master := domain.NewUser("alice", "Alice")
	master.Ng5v5.Score = 1234
	room := domain.NewRoom(3, domain.ModeNormal5v5, master)
	bob := domain.NewUser("bob", "Bob")
	room.AddUser(bob)
	room.Ready = domain.RoomQueued

	upd := bus.NewRoomUpdate(room)
	data, err := json.Marshal(upd)
	require.NoError(t, err)

	var decoded bus.RoomUpdate
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, upd, decoded)
	assert.Equal(t, 1234, decoded.Users[0].Score)
	assert.Equal(t, int(domain.RoomQueued), decoded.Ready)
}

func TestGameListRoundTrip(t *testing.T) {
	list := bus.GameList{
		GameID:    9,
		Mode:      domain.ModeRanked5v5,
		RoomNames: []string{"a", "d"},
		UserNames: []string{"a", "b", "c", "d", "e", "f"},
	}
	data, err := json.Marshal(list)
	require.NoError(t, err)

	var decoded bus.GameList
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, list, decoded)
}

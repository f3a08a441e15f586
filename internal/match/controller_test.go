package match

import (
	"fmt"
	"testing"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/riftlab/matchd/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	topic   string
	payload any
}

type recorder struct {
	msgs []recorded
}

func (r *recorder) Publish(topic string, payload any) {
	r.msgs = append(r.msgs, recorded{topic, payload})
}

func (r *recorder) byTopic(topic string) []any {
	var out []any
	for _, m := range r.msgs {
		if m.topic == topic {
			out = append(out, m.payload)
		}
	}
	return out
}

// new1v1Game builds a two-seat game: user "a" on seat 0, "b" on seat 1.
func new1v1Game(t *testing.T, mode domain.Mode) (*domain.Game, []*domain.User) {
	t.Helper()
	var users []*domain.User
	groups := make([]*domain.Group, 2)
	for side := 0; side < 2; side++ {
		u := domain.NewUser(fmt.Sprintf("%c", 'a'+side), "")
		users = append(users, u)
		g := domain.NewGroup(uint64(side+1), mode)
		g.AddRoom(domain.NewRoom(uint64(side+1), mode, u))
		groups[side] = g
	}
	game := domain.NewGame(mode, groups[0], groups[1])
	game.SetGameID(1)
	game.UpdateNames()
	return game, users
}

func newController(t *testing.T, mode domain.Mode) (*Controller, []*domain.User, *recorder, chan store.Event) {
	t.Helper()
	game, users := new1v1Game(t, mode)
	rec := &recorder{}
	events := make(chan store.Event, 8)
	c := New(game, Config{}, rec, events, zerolog.Nop())
	return c, users, rec, events
}

func stepThroughLoading(c *Controller) {
	for c.Current().Kind == PhaseLoading {
		c.Step()
	}
}

func TestJumpOnBanTimeout(t *testing.T) {
	c, _, rec, _ := newController(t, domain.ModeRanked1v1)
	stepThroughLoading(c)
	require.Equal(t, PhaseBan, c.Current().Kind)

	// Seat 1 bans; seat 0 never does.
	require.NoError(t, c.Choose("b", 5))

	// 25 s of countdown plus the 5 s buffer.
	for i := 0; i < 29; i++ {
		c.Step()
		require.Equal(t, PhaseBan, c.Current().Kind, "step %d", i)
	}
	c.Step()

	// Jump fired for seat 0 and the phase advanced in the same tick.
	jumps := rec.byTopic("game/1/res/jump")
	require.Len(t, jumps, 1)
	jump := jumps[0].(bus.Jump)
	assert.Equal(t, 0, jump.Seat)
	assert.True(t, jump.Ban)
	assert.Equal(t, PhasePick, c.Current().Kind)

	// Seat 1's ban survived the commit on its side's list.
	assert.Equal(t, []int{5}, c.Bans()[1])
	assert.Empty(t, c.Bans()[0])
}

func TestCleanBanPhaseAdvancesWithoutWaiting(t *testing.T) {
	c, _, rec, _ := newController(t, domain.ModeRanked1v1)
	stepThroughLoading(c)

	require.NoError(t, c.Choose("a", 3))
	require.NoError(t, c.Choose("b", 7))
	c.Step()

	assert.Equal(t, PhasePick, c.Current().Kind)
	assert.Empty(t, rec.byTopic("game/1/res/jump"))
	assert.Equal(t, [2][]int{{3}, {7}}, c.Bans())
}

func TestChooseValidation(t *testing.T) {
	c, _, _, _ := newController(t, domain.ModeRanked1v1)

	// Loading phase: nobody may act.
	assert.ErrorIs(t, c.Choose("a", 3), domain.ErrNotYourTurn)
	assert.ErrorIs(t, c.Choose("stranger", 3), domain.ErrUserNotFound)

	stepThroughLoading(c)
	require.NoError(t, c.Choose("a", 3))
	assert.ErrorIs(t, c.Choose("b", 3), domain.ErrHeroTaken)
}

func TestPickTimeoutAssignsRandomAvailableHero(t *testing.T) {
	c, users, rec, _ := newController(t, domain.ModeRanked1v1)
	stepThroughLoading(c)

	require.NoError(t, c.Choose("a", 3))
	require.NoError(t, c.Choose("b", 7))
	c.Step()
	require.Equal(t, PhasePick, c.Current().Kind)

	require.NoError(t, c.Choose("a", 9))
	for c.Current().Kind == PhasePick {
		c.Step()
	}

	jumps := rec.byTopic("game/1/res/jump")
	require.Len(t, jumps, 1)
	jump := jumps[0].(bus.Jump)
	assert.Equal(t, 1, jump.Seat)
	assert.False(t, jump.Ban)
	assert.NotZero(t, users[1].Hero)
	assert.NotEqual(t, 9, users[1].Hero, "assigned hero must be available")
	assert.NotEqual(t, 3, users[1].Hero)
	assert.NotEqual(t, 7, users[1].Hero)
}

func TestNormalModeKeepsPreselectedHeroes(t *testing.T) {
	game, users := new1v1Game(t, domain.ModeNormal1v1)
	users[0].Hero = 11
	users[1].Hero = 12
	rec := &recorder{}
	events := make(chan store.Event, 8)
	c := New(game, Config{}, rec, events, zerolog.Nop())

	stepThroughLoading(c)
	require.Equal(t, PhasePick, c.Current().Kind)

	// Both preselected in the lobby: the pick completes on the first tick.
	c.Step()
	assert.Equal(t, PhaseReadyToStart, c.Current().Kind)
}

func TestARAMRollsDistinctHeroes(t *testing.T) {
	c, users, rec, _ := newController(t, domain.ModeARAM)
	stepThroughLoading(c)
	c.Step() // instant ban broadcast + hero roll happen on entry

	rolls := rec.byTopic("game/1/res/heros")
	require.Len(t, rolls, 1)
	roll := rolls[0].(bus.HeroRoll)
	assert.Len(t, roll.Heroes, 2)
	assert.NotZero(t, users[0].Hero)
	assert.NotZero(t, users[1].Hero)
	assert.NotEqual(t, users[0].Hero, users[1].Hero)
	assert.Equal(t, PhaseReadyToStart, c.Current().Kind)
}

func TestGamingTransitionPersistsSnapshotAndNotifies(t *testing.T) {
	c, users, rec, events := newController(t, domain.ModeRanked1v1)
	c.game.ServerName = "10.0.0.5"
	c.game.Port = 7777

	stepThroughLoading(c)
	require.NoError(t, c.Choose("a", 3))
	require.NoError(t, c.Choose("b", 7))
	c.Step() // ban commit
	require.NoError(t, c.Choose("a", 9))
	require.NoError(t, c.Choose("b", 10))
	c.Step() // pick commit

	require.Equal(t, PhaseReadyToStart, c.Current().Kind)
	for !c.InGaming() {
		c.Step()
	}

	var ev store.Event
	select {
	case ev = <-events:
	default:
		t.Fatal("expected a draft snapshot event")
	}
	snapshot := ev.(store.MatchResult)
	assert.Equal(t, uint64(1), snapshot.GameID)
	assert.Equal(t, -1, snapshot.WinTeam)
	assert.Equal(t, [][]string{{"a"}, {"b"}}, snapshot.Roster)
	assert.Equal(t, map[string]int{"a": 9, "b": 10}, snapshot.Heroes)
	assert.Equal(t, [][]int{{3}, {7}}, snapshot.Bans)

	for _, u := range users {
		signals := rec.byTopic(bus.MemberRes(u.ID, "start_game"))
		require.Len(t, signals, 1, "user %s", u.ID)
		sig := signals[0].(bus.GameSignal)
		assert.Equal(t, 7777, sig.Port)
		assert.Equal(t, "10.0.0.5", sig.Server)
	}

	// Stepping a live match is a no-op.
	c.Step()
	assert.True(t, c.InGaming())
}

func TestPhaseBeaconsAnnounceEachStep(t *testing.T) {
	c, _, rec, _ := newController(t, domain.ModeRanked1v1)
	stepThroughLoading(c)
	c.Step() // first ban tick announces the phase

	statuses := rec.byTopic("game/1/res/game_status")
	require.NotEmpty(t, statuses)
	first := statuses[0].(bus.GameStatus)
	assert.Equal(t, "loading", first.Phase)
	last := statuses[len(statuses)-1].(bus.GameStatus)
	assert.Equal(t, "ban", last.Phase)
	assert.Equal(t, 25, last.Countdown)
}

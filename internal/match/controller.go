package match

import (
	"math/rand"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/riftlab/matchd/internal/store"
	"github.com/rs/zerolog"
)

// Controller drives one match through its plan. It is stepped on
// whole-second boundaries by the engine goroutine and owns the ban
// lists; picked heroes live on the users themselves.
type Controller struct {
	game  *domain.Game
	users []*domain.User // seat order 0..n-1
	plan  []Step
	idx   int

	countdown int
	entered   bool

	bans [2][]int

	cfg    Config
	pub    bus.Publisher
	events chan<- store.Event
	rng    *rand.Rand
	log    zerolog.Logger
}

func New(game *domain.Game, cfg Config, pub bus.Publisher, events chan<- store.Event, log zerolog.Logger) *Controller {
	users := game.Users()
	c := &Controller{
		game:   game,
		users:  users,
		plan:   Plan(game.Mode, len(users), cfg),
		cfg:    cfg.withDefaults(),
		pub:    pub,
		events: events,
		rng:    rand.New(rand.NewSource(int64(game.GameID))),
		log:    log.With().Uint64("game", game.GameID).Str("mode", string(game.Mode)).Logger(),
	}

	// A fresh draft: bans always start clean; picked heroes are kept
	// only for the normal modes where users preselect in the lobby.
	for _, u := range users {
		u.BanHero = 0
		switch game.Mode {
		case domain.ModeNormal1v1, domain.ModeNormal5v5:
		default:
			u.Hero = 0
		}
	}
	return c
}

func (c *Controller) GameID() uint64 { return c.game.GameID }

// Current returns the active step.
func (c *Controller) Current() Step { return c.plan[c.idx] }

// InGaming reports whether the draft is over and the match is live.
func (c *Controller) InGaming() bool {
	return c.plan[c.idx].Kind == PhaseGaming || c.plan[c.idx].Kind == PhaseFinished
}

// Bans returns the cumulative banned heroes per side.
func (c *Controller) Bans() [2][]int { return c.bans }

// Status snapshots the current phase for the game_info reply.
func (c *Controller) Status() bus.GameStatus {
	step := c.plan[c.idx]
	return bus.GameStatus{
		GameID:    c.game.GameID,
		Status:    c.idx,
		Phase:     step.Kind.String(),
		Seats:     step.Seats,
		Countdown: c.countdown,
	}
}

// Step advances the match by one second.
func (c *Controller) Step() {
	step := c.plan[c.idx]
	switch step.Kind {
	case PhaseGaming, PhaseFinished:
		return
	}

	if !c.entered {
		c.entered = true
		c.countdown = step.Seconds
		c.announce(step)

		if c.game.Mode == domain.ModeARAM {
			switch step.Kind {
			case PhaseBan:
				// Instant: no bans in ARAM, broadcast and move on.
				c.advance()
				c.Step()
				return
			case PhasePick:
				c.rollHeroes()
				c.advance()
				c.Step()
				return
			}
		}
	}

	switch step.Kind {
	case PhaseLoading, PhaseReadyToStart:
		c.countdown--
		if c.countdown <= 0 {
			c.advance()
		}
	case PhaseBan, PhasePick:
		laggards := c.laggards(step)
		if len(laggards) == 0 {
			c.commit(step)
			c.advance()
			return
		}
		c.countdown--
		if c.countdown <= c.cfg.Buffer {
			for _, seat := range laggards {
				c.jump(step, seat)
			}
			c.commit(step)
			c.advance()
		}
	}
}

// Choose applies an in-draft selection for the user's seat: a ban
// during a ban phase, a pick during a pick phase.
func (c *Controller) Choose(userID string, hero int) error {
	seat := c.seatOf(userID)
	if seat < 0 {
		return domain.ErrUserNotFound
	}
	step := c.plan[c.idx]
	if step.Kind != PhaseBan && step.Kind != PhasePick {
		return domain.ErrNotYourTurn
	}
	if !seatAllowed(step, seat) {
		return domain.ErrNotYourTurn
	}
	if c.heroUsed(hero) {
		return domain.ErrHeroTaken
	}

	if step.Kind == PhaseBan {
		c.users[seat].BanHero = hero
	} else {
		c.users[seat].Hero = hero
	}
	return nil
}

func (c *Controller) seatOf(userID string) int {
	for i, u := range c.users {
		if u.ID == userID {
			return i
		}
	}
	return -1
}

func seatAllowed(step Step, seat int) bool {
	for _, s := range step.Seats {
		if s == seat {
			return true
		}
	}
	return false
}

func (c *Controller) laggards(step Step) []int {
	var out []int
	for _, seat := range step.Seats {
		u := c.users[seat]
		if step.Kind == PhaseBan && u.BanHero == 0 {
			out = append(out, seat)
		}
		if step.Kind == PhasePick && u.Hero == 0 {
			out = append(out, seat)
		}
	}
	return out
}

// commit folds the step's ban selections into the per-side lists and
// clears them for any later ban substage of the same seats.
func (c *Controller) commit(step Step) {
	if step.Kind != PhaseBan {
		return
	}
	for _, seat := range step.Seats {
		u := c.users[seat]
		if u.BanHero != 0 {
			side := c.game.Side(seat)
			c.bans[side] = append(c.bans[side], u.BanHero)
			u.BanHero = 0
		}
	}
}

// jump force-resolves a laggard seat: a missed ban is skipped, a
// missed pick gets a random available hero.
func (c *Controller) jump(step Step, seat int) {
	u := c.users[seat]
	hero := 0
	if step.Kind == PhasePick {
		hero = c.randomAvailableHero()
		u.Hero = hero
	}
	c.log.Info().Int("seat", seat).Str("user", u.ID).Bool("ban", step.Kind == PhaseBan).Msg("seat jumped on timeout")
	c.pub.Publish(bus.GameRes(c.game.GameID, "jump"), bus.Jump{
		GameID: c.game.GameID,
		Seat:   seat,
		UserID: u.ID,
		Hero:   hero,
		Ban:    step.Kind == PhaseBan,
	})
}

func (c *Controller) advance() {
	c.idx++
	c.entered = false
	c.countdown = 0
	if c.plan[c.idx].Kind == PhaseGaming {
		c.enterGaming()
	}
}

// enterGaming runs once at the ReadyToStart exit: persist the draft
// snapshot, flip the beacon to gaming and notify every user.
func (c *Controller) enterGaming() {
	c.persistSnapshot()
	c.pub.Publish(bus.GameRes(c.game.GameID, "game_status"), bus.GameStatus{
		GameID: c.game.GameID,
		Status: c.idx,
		Phase:  PhaseGaming.String(),
	})
	for _, u := range c.users {
		c.pub.Publish(bus.MemberRes(u.ID, "start_game"), bus.GameSignal{
			GameID: c.game.GameID,
			Server: c.game.ServerName,
			Port:   c.game.Port,
		})
	}
}

func (c *Controller) persistSnapshot() {
	n := len(c.users)
	roster := make([][]string, 2)
	heroes := make(map[string]int, n)
	for i, u := range c.users {
		side := 0
		if i >= n/2 {
			side = 1
		}
		roster[side] = append(roster[side], u.ID)
		heroes[u.ID] = u.Hero
	}
	ev := store.MatchResult{
		GameID:  c.game.GameID,
		Mode:    c.game.Mode,
		WinTeam: -1,
		Roster:  roster,
		Heroes:  heroes,
		Bans:    [][]int{c.bans[0], c.bans[1]},
	}
	select {
	case c.events <- ev:
	default:
		c.log.Warn().Msg("persistence inbox full, draft snapshot dropped")
	}
}

func (c *Controller) announce(step Step) {
	c.pub.Publish(bus.GameRes(c.game.GameID, "game_status"), bus.GameStatus{
		GameID:    c.game.GameID,
		Status:    c.idx,
		Phase:     step.Kind.String(),
		Seats:     step.Seats,
		Countdown: step.Seconds,
	})
}

// rollHeroes assigns every seat a distinct random hero and broadcasts
// the roll.
func (c *Controller) rollHeroes() {
	pool := make([]int, 0, c.cfg.HeroCount)
	for h := 1; h <= c.cfg.HeroCount; h++ {
		if !c.heroUsed(h) {
			pool = append(pool, h)
		}
	}
	c.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	roll := make(map[string]int, len(c.users))
	for i, u := range c.users {
		if i < len(pool) {
			u.Hero = pool[i]
		} else {
			u.Hero = 1 + c.rng.Intn(c.cfg.HeroCount)
		}
		roll[u.ID] = u.Hero
	}
	c.pub.Publish(bus.GameRes(c.game.GameID, "heros"), bus.HeroRoll{GameID: c.game.GameID, Heroes: roll})
}

func (c *Controller) randomAvailableHero() int {
	var pool []int
	for h := 1; h <= c.cfg.HeroCount; h++ {
		if !c.heroUsed(h) {
			pool = append(pool, h)
		}
	}
	if len(pool) == 0 {
		return 1
	}
	return pool[c.rng.Intn(len(pool))]
}

// heroUsed reports whether a hero is already banned or picked.
func (c *Controller) heroUsed(hero int) bool {
	if hero == 0 {
		return false
	}
	for _, side := range c.bans {
		for _, h := range side {
			if h == hero {
				return true
			}
		}
	}
	for _, u := range c.users {
		if u.Hero == hero || u.BanHero == hero {
			return true
		}
	}
	return false
}

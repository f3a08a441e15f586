// Package engine implements the single-goroutine event engine that owns
// all matchmaking state: users, rooms, the queue, ready groups, prestart
// games and live matches. External code interacts only through the
// command channel and the outbound bus/persistence channels.
package engine

import (
	"context"
	"sort"
	"time"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/config"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/riftlab/matchd/internal/match"
	"github.com/riftlab/matchd/internal/metrics"
	"github.com/riftlab/matchd/internal/rating"
	"github.com/riftlab/matchd/internal/store"
	"github.com/rs/zerolog"
)

// Launcher starts the dedicated game server process for a match.
type Launcher interface {
	Start(gameID uint64, port int) error
}

// Config carries the engine's matchmaking parameters.
type Config struct {
	FastTick time.Duration
	SlowTick time.Duration

	ServerName    string
	EloK          int
	ScoreInterval int
	MatchSize     int
	TeamSize1v1   int
	TeamSize5v5   int

	PortMin int
	PortMax int

	Match match.Config
}

// FromConfig maps the process configuration onto the engine's knobs.
func FromConfig(c *config.Config) Config {
	return Config{
		FastTick:      c.FastTick,
		SlowTick:      c.SlowTick,
		ServerName:    c.ServerName,
		EloK:          c.EloK,
		ScoreInterval: c.ScoreInterval,
		MatchSize:     c.MatchSize,
		TeamSize1v1:   c.TeamSize1v1,
		TeamSize5v5:   c.TeamSize5v5,
		PortMin:       c.PortMin,
		PortMax:       c.PortMax,
		Match: match.Config{
			BanTime:      c.BanHeroTime,
			ChooseTime:   c.ChooseHeroTime,
			NGChooseTime: c.NGChooseHeroTime,
			ReadyTime:    c.ReadyToStartTime,
			Buffer:       c.JumpBuffer,
		},
	}
}

func (c Config) withDefaults() Config {
	if c.FastTick <= 0 {
		c.FastTick = 200 * time.Millisecond
	}
	if c.SlowTick <= 0 {
		c.SlowTick = 5 * time.Second
	}
	if c.ServerName == "" {
		c.ServerName = "127.0.0.1"
	}
	if c.ScoreInterval == 0 {
		c.ScoreInterval = 2000
	}
	if c.MatchSize == 0 {
		c.MatchSize = 2
	}
	if c.PortMin == 0 {
		c.PortMin = 7777
	}
	if c.PortMax == 0 {
		c.PortMax = 65500
	}
	return c
}

// teamSize returns the users-per-side target for a mode.
func (c Config) teamSize(m domain.Mode) int {
	if m.DefaultTeamSize() == 1 {
		if c.TeamSize1v1 > 0 {
			return c.TeamSize1v1
		}
	} else if c.TeamSize5v5 > 0 {
		return c.TeamSize5v5
	}
	return m.DefaultTeamSize()
}

// Snapshot is the ops view of engine state, served via SnapshotReq so
// no state ever leaves the engine goroutine by reference.
type Snapshot struct {
	Users         int   `json:"users"`
	Online        int   `json:"online"`
	Rooms         int   `json:"rooms"`
	Queued        int   `json:"queued"`
	Groups        int   `json:"groups"`
	PrestartGames int   `json:"prestartGames"`
	GamingGames   int   `json:"gamingGames"`
	UptimeSeconds int64 `json:"uptimeSeconds"`
}

type Engine struct {
	cfg      Config
	pub      bus.Publisher
	events   chan<- store.Event
	launcher Launcher
	elo      rating.Elo
	log      zerolog.Logger

	cmds chan Command

	users    map[string]*domain.User
	rooms    map[uint64]*domain.Room
	queue    map[uint64]*domain.Room
	groups   map[uint64]*domain.Group
	prestart map[uint64]*domain.Game
	gaming   map[uint64]*domain.Game
	ctrls    map[uint64]*match.Controller

	rid      uint64
	gid      uint64
	gameID   uint64
	nextPort int

	started time.Time
}

func New(cfg Config, pub bus.Publisher, events chan<- store.Event, launcher Launcher, log zerolog.Logger) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:      cfg,
		pub:      pub,
		events:   events,
		launcher: launcher,
		elo:      rating.New(cfg.EloK),
		log:      log.With().Str("component", "engine").Logger(),
		cmds:     make(chan Command, 256),
		started:  time.Now(),
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.users = make(map[string]*domain.User)
	e.rooms = make(map[uint64]*domain.Room)
	e.queue = make(map[uint64]*domain.Room)
	e.groups = make(map[uint64]*domain.Group)
	e.prestart = make(map[uint64]*domain.Game)
	e.gaming = make(map[uint64]*domain.Game)
	e.ctrls = make(map[uint64]*match.Controller)
	e.rid, e.gid, e.gameID = 0, 0, 0
	e.nextPort = e.cfg.PortMin
}

// Submit queues a command for the engine goroutine.
func (e *Engine) Submit(cmd Command) {
	e.cmds <- cmd
}

// Snapshot requests a state snapshot through the command channel.
func (e *Engine) Snapshot(ctx context.Context) (Snapshot, error) {
	reply := make(chan Snapshot, 1)
	select {
	case e.cmds <- SnapshotReq{Reply: reply}:
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	select {
	case snap := <-reply:
		return snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

// Run owns the engine state until ctx is cancelled. Commands are
// handled one at a time; the sweeps run between commands, never
// concurrently with one.
func (e *Engine) Run(ctx context.Context) {
	fast := time.NewTicker(e.cfg.FastTick)
	defer fast.Stop()
	slow := time.NewTicker(e.cfg.SlowTick)
	defer slow.Stop()

	// Controllers advance in seconds; step them every Nth fast tick.
	stepEvery := int(time.Second / e.cfg.FastTick)
	if stepEvery < 1 {
		stepEvery = 1
	}
	ticks := 0

	e.log.Info().
		Dur("fast_tick", e.cfg.FastTick).
		Dur("slow_tick", e.cfg.SlowTick).
		Int("score_interval", e.cfg.ScoreInterval).
		Msg("engine started")

	for {
		select {
		case <-ctx.Done():
			e.log.Info().Msg("engine stopped")
			return
		case cmd := <-e.cmds:
			e.apply(cmd)
		case <-fast.C:
			e.sweepQueue()
			e.sweepPrestart()
			ticks++
			if ticks%stepEvery == 0 {
				e.stepControllers()
			}
		case <-slow.C:
			e.remindPrestart()
		}
	}
}

func (e *Engine) stepControllers() {
	for _, id := range sortedKeys(e.ctrls) {
		e.ctrls[id].Step()
	}
}

// emit forwards a persistence event without ever blocking the engine.
func (e *Engine) emit(ev store.Event) {
	select {
	case e.events <- ev:
	default:
		metrics.OutboundDroppedTotal.Inc()
		e.log.Warn().Msg("persistence inbox full, event dropped")
	}
}

func (e *Engine) ok(topic string) {
	e.pub.Publish(topic, bus.OK())
}

func (e *Engine) fail(topic string, err error) {
	metrics.FailRepliesTotal.Inc()
	e.pub.Publish(topic, bus.Fail(err.Error()))
}

func (e *Engine) broadcastRoom(room *domain.Room) {
	e.pub.Publish(bus.RoomRes(room.Master, "update"), bus.NewRoomUpdate(room))
}

// groupOfRoom finds the ready group holding a room, if any.
func (e *Engine) groupOfRoom(rid uint64) *domain.Group {
	for _, gid := range sortedKeys(e.groups) {
		if g := e.groups[gid]; g.HasRoom(rid) {
			return g
		}
	}
	return nil
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

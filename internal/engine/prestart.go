package engine

import (
	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/riftlab/matchd/internal/match"
	"github.com/riftlab/matchd/internal/metrics"
)

// sweepPrestart evaluates every pending check-board: launch when all
// accepted, dissolve when anyone declined, otherwise leave for the slow
// tick reminder.
func (e *Engine) sweepPrestart() {
	for _, id := range sortedKeys(e.prestart) {
		game := e.prestart[id]
		switch game.CheckPrestart() {
		case domain.CheckReady:
			e.launchGame(game)
		case domain.CheckCancel:
			e.cancelPrestartGame(game)
		}
	}
}

func (e *Engine) launchGame(game *domain.Game) {
	game.Port = e.allocPort()
	game.Ready()
	game.UpdateNames()
	delete(e.prestart, game.GameID)
	e.gaming[game.GameID] = game
	e.ctrls[game.GameID] = match.New(game, e.cfg.Match, e.pub, e.events, e.log)
	metrics.GamesStartedTotal.Inc()

	if err := e.launcher.Start(game.GameID, game.Port); err != nil {
		e.log.Error().Err(err).Uint64("game", game.GameID).Int("port", game.Port).Msg("dedicated server launch failed")
	}
	e.log.Info().Uint64("game", game.GameID).Int("port", game.Port).Str("mode", string(game.Mode)).Msg("game launched")

	for _, room := range game.Rooms() {
		e.pub.Publish(bus.RoomRes(room.Master, "game_singal"), bus.GameSignal{
			GameID: game.GameID,
			Server: game.ServerName,
			Port:   game.Port,
		})
	}
}

// cancelPrestartGame dissolves a declined match: both sides return to
// idle and every master is told the queue stopped.
func (e *Engine) cancelPrestartGame(game *domain.Game) {
	game.UpdateNames()
	game.ClearQueue()
	for _, g := range game.Groups {
		delete(e.groups, g.GID)
	}
	delete(e.prestart, game.GameID)
	metrics.ActiveGames.Dec()
	e.log.Info().Uint64("game", game.GameID).Msg("prestart declined, match dissolved")
	for _, room := range game.Rooms() {
		e.pub.Publish(bus.RoomRes(room.Master, "cancel_queue"), bus.OK())
	}
}

// remindPrestart runs on the slow tick: rooms that never acknowledged
// the prestart broadcast get it again.
func (e *Engine) remindPrestart() {
	for _, id := range sortedKeys(e.prestart) {
		game := e.prestart[id]
		for _, g := range game.Groups {
			for _, room := range g.Rooms {
				if !room.CheckPrestartGet() {
					e.pub.Publish(bus.RoomRes(room.Master, "prestart"), bus.PrestartNotice{GID: g.GID, GameID: game.GameID})
				}
			}
		}
	}
}

// allocPort hands out dedicated-server ports, wrapping from the top of
// the window back to the bottom.
func (e *Engine) allocPort() int {
	p := e.nextPort
	e.nextPort++
	if e.nextPort > e.cfg.PortMax {
		e.nextPort = e.cfg.PortMin
	}
	return p
}

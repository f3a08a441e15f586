package engine

import (
	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/riftlab/matchd/internal/metrics"
	"github.com/riftlab/matchd/internal/store"
)

// settle applies the team Elo update for a finished game, notifies
// every user of their new rating and enqueues the persistence events.
func (e *Engine) settle(game *domain.Game, winTeam int) {
	bucket := game.Mode.Bucket()
	winners := game.Groups[winTeam].Users()
	losers := game.Groups[1-winTeam].Users()

	winScores := make([]int, len(winners))
	for i, u := range winners {
		winScores[i] = u.Rating(bucket).Score
	}
	loseScores := make([]int, len(losers))
	for i, u := range losers {
		loseScores[i] = u.Rating(bucket).Score
	}

	newWin, newLose := e.elo.ComputeTeam(winScores, loseScores)
	if newWin == nil {
		e.log.Error().Uint64("game", game.GameID).Msg("settlement skipped, empty side")
		return
	}

	for i, u := range winners {
		r := u.Rating(bucket)
		r.Score = newWin[i]
		r.Wins++
		e.publishRating(u, bucket)
	}
	for i, u := range losers {
		r := u.Rating(bucket)
		r.Score = newLose[i]
		r.Losses++
		e.publishRating(u, bucket)
	}

	game.WinTeam = winTeam
	game.LoseTeam = 1 - winTeam
	e.emit(store.MatchResult{GameID: game.GameID, Mode: game.Mode, WinTeam: winTeam})
	e.log.Info().Uint64("game", game.GameID).Int("win_team", winTeam).Msg("game settled")
}

func (e *Engine) publishRating(u *domain.User, bucket domain.Bucket) {
	r := u.Rating(bucket)
	e.pub.Publish(bus.MemberRes(u.ID, "rating"), bus.RatingNotice{UserID: u.ID, Bucket: bucket, Rating: *r})
	e.emit(store.Update{UserID: u.ID, Bucket: bucket, Score: r.Score, Wins: r.Wins, Losses: r.Losses})
}

// teardown removes every trace of a game: its rooms, both ready groups
// and the game itself, whichever table it sits in.
func (e *Engine) teardown(game *domain.Game) {
	for _, room := range game.Rooms() {
		delete(e.queue, room.RID)
		delete(e.rooms, room.RID)
		room.Leave()
	}
	for _, g := range game.Groups {
		if g != nil {
			delete(e.groups, g.GID)
		}
	}
	delete(e.prestart, game.GameID)
	delete(e.gaming, game.GameID)
	delete(e.ctrls, game.GameID)
	metrics.ActiveGames.Dec()
}

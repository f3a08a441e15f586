package engine

import (
	"sort"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/riftlab/matchd/internal/metrics"
)

// sweepQueue runs on the fast tick: form ready groups from the queue,
// then pair groups into matches.
func (e *Engine) sweepQueue() {
	if len(e.queue) > 0 {
		e.formGroups()
	}
	if len(e.groups) >= e.cfg.MatchSize {
		e.pairGroups()
	}
}

func (e *Engine) formGroups() {
	byMode := make(map[domain.Mode][]*domain.Room)
	for _, rid := range sortedKeys(e.queue) {
		room := e.queue[rid]
		byMode[room.Mode] = append(byMode[room.Mode], room)
	}
	for _, mode := range domain.AllModes {
		if rooms := byMode[mode]; len(rooms) > 0 {
			e.formGroupsForMode(mode, rooms)
		}
	}
}

// formGroupsForMode walks the mode's queued rooms in ascending rating
// order, accumulating rooms into a tentative team. A room is admitted
// when it fits the remaining capacity and sits within ScoreInterval of
// the accumulator's running mean.
func (e *Engine) formGroupsForMode(mode domain.Mode, rooms []*domain.Room) {
	teamSize := e.cfg.teamSize(mode)
	bucket := mode.Bucket()

	sort.SliceStable(rooms, func(i, j int) bool {
		if rooms[i].Avg(bucket) != rooms[j].Avg(bucket) {
			return rooms[i].Avg(bucket) < rooms[j].Avg(bucket)
		}
		return rooms[i].RID < rooms[j].RID
	})

	var acc []*domain.Room
	count, sum := 0, 0
	for _, room := range rooms {
		if count+room.Size() > teamSize {
			continue
		}
		if count > 0 && abs(sum/count-room.Avg(bucket)) > e.cfg.ScoreInterval {
			continue
		}
		acc = append(acc, room)
		count += room.Size()
		sum += room.Avg(bucket) * room.Size()
		if count == teamSize {
			e.promoteGroup(mode, acc)
			acc, count, sum = nil, 0, 0
		}
	}
}

func (e *Engine) promoteGroup(mode domain.Mode, rooms []*domain.Room) {
	e.gid++
	g := domain.NewGroup(e.gid, mode)
	for _, room := range rooms {
		g.AddRoom(room)
		room.Ready = domain.RoomQueued
		delete(e.queue, room.RID)
	}
	e.groups[g.GID] = g
	metrics.GroupsFormedTotal.Inc()
	e.log.Info().Uint64("gid", g.GID).Str("mode", string(mode)).Int("users", g.UserCount()).Msg("ready group formed")
	for _, room := range rooms {
		e.pub.Publish(bus.RoomRes(room.Master, "start_queue"), bus.QueueNotice{Status: "matched", GID: g.GID})
	}
}

func (e *Engine) pairGroups() {
	for _, mode := range domain.AllModes {
		e.pairGroupsForMode(mode)
	}
}

// pairGroupsForMode matches forming groups into games of MatchSize
// sides. Each admission picks the candidate nearest the running mean of
// the sides admitted so far; exact ties fall to the earlier gid.
func (e *Engine) pairGroupsForMode(mode domain.Mode) {
	bucket := mode.Bucket()

	var forming []uint64
	for _, gid := range sortedKeys(e.groups) {
		if g := e.groups[gid]; g.Mode == mode && g.Status == domain.GroupForming {
			forming = append(forming, gid)
		}
	}

	for len(forming) >= e.cfg.MatchSize {
		seed := e.groups[forming[0]]
		acc := []*domain.Group{seed}
		sum := seed.Avg(bucket)
		used := map[uint64]bool{seed.GID: true}

		for len(acc) < e.cfg.MatchSize {
			mean := sum / len(acc)
			var best *domain.Group
			bestDist := 0
			for _, gid := range forming {
				if used[gid] {
					continue
				}
				cand := e.groups[gid]
				d := abs(cand.Avg(bucket) - mean)
				if d > e.cfg.ScoreInterval {
					continue
				}
				if best == nil || d < bestDist {
					best, bestDist = cand, d
				}
			}
			if best == nil {
				break
			}
			used[best.GID] = true
			acc = append(acc, best)
			sum += best.Avg(bucket)
		}

		if len(acc) < e.cfg.MatchSize {
			// No opponent in range for the seed this sweep.
			forming = forming[1:]
			continue
		}

		e.promoteGame(mode, acc)
		rest := forming[:0]
		for _, gid := range forming {
			if !used[gid] {
				rest = append(rest, gid)
			}
		}
		forming = rest
	}
}

func (e *Engine) promoteGame(mode domain.Mode, sides []*domain.Group) {
	e.gameID++
	game := domain.NewGame(mode, sides[0], sides[1])
	game.ServerName = e.cfg.ServerName
	game.SetGameID(e.gameID)
	game.Prestart()
	game.UpdateNames()
	e.prestart[game.GameID] = game
	metrics.ActiveGames.Inc()
	e.log.Info().
		Uint64("game", game.GameID).
		Str("mode", string(mode)).
		Uint64("gid0", sides[0].GID).
		Uint64("gid1", sides[1].GID).
		Msg("match formed, awaiting prestart")
	for _, g := range game.Groups {
		for _, room := range g.Rooms {
			e.pub.Publish(bus.RoomRes(room.Master, "prestart"), bus.PrestartNotice{GID: g.GID, GameID: game.GameID})
		}
	}
}

package engine

import (
	"time"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
	"github.com/riftlab/matchd/internal/metrics"
	"github.com/riftlab/matchd/internal/store"
)

// apply runs one command to completion.
func (e *Engine) apply(cmd Command) {
	metrics.CommandsTotal.WithLabelValues(cmd.name()).Inc()
	switch c := cmd.(type) {
	case Login:
		e.handleLogin(c)
	case Logout:
		e.handleLogout(c)
	case CreateRoom:
		e.handleCreate(c)
	case CloseRoom:
		e.handleClose(c)
	case JoinRoom:
		e.handleJoin(c)
	case LeaveRoom:
		e.handleLeave(c)
	case Invite:
		e.handleInvite(c)
	case ChooseNGHero:
		e.handleChooseHero(c)
	case StartQueue:
		e.handleStartQueue(c)
	case CancelQueue:
		e.handleCancelQueue(c)
	case PreStart:
		e.handlePreStart(c)
	case PreStartGet:
		e.handlePreStartGet(c)
	case StartGame:
		e.handleStartGame(c)
	case GameChoose:
		e.handleGameChoose(c)
	case GameInfo:
		e.handleGameInfo(c)
	case GameLeave:
		e.handleGameLeave(c)
	case GameOver:
		e.handleGameOver(c)
	case GameClose:
		e.handleGameClose(c)
	case Status:
		e.handleStatus(c)
	case Reconnect:
		e.handleReconnect(c)
	case Reset:
		e.handleReset()
	case SnapshotReq:
		e.handleSnapshot(c)
	}
}

func (e *Engine) handleLogin(cmd Login) {
	u, ok := e.users[cmd.UserID]
	if !ok {
		u = domain.NewUser(cmd.UserID, cmd.Name)
		e.users[cmd.UserID] = u
		e.emit(store.Login{UserID: cmd.UserID, Name: cmd.Name})
		e.log.Info().Str("user", cmd.UserID).Msg("new user registered")
	}
	if cmd.Name != "" {
		u.Name = cmd.Name
	}
	u.Online = true
	e.pub.Publish(bus.MemberRes(u.ID, "login"), bus.LoginRes{
		Status: "ok",
		UserID: u.ID,
		Name:   u.Name,
		Ng1v1:  u.Ng1v1,
		Ng5v5:  u.Ng5v5,
		Rk1v1:  u.Rk1v1,
		Rk5v5:  u.Rk5v5,
		Honor:  u.Honor,
	})
}

func (e *Engine) handleLogout(cmd Logout) {
	topic := bus.MemberRes(cmd.UserID, "logout")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	if u.InMatch() {
		e.fail(topic, domain.ErrUserInMatch)
		return
	}
	if u.RID != 0 {
		if room, ok := e.rooms[u.RID]; ok {
			e.detachRoomFromQueue(room)
			room.RemoveUser(u.ID)
			if room.Size() == 0 {
				delete(e.rooms, room.RID)
			} else {
				e.broadcastRoom(room)
			}
		}
		u.RID, u.GID = 0, 0
	}
	u.Online = false
	e.ok(topic)
}

func (e *Engine) handleCreate(cmd CreateRoom) {
	topic := bus.RoomRes(cmd.UserID, "create")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	if u.RID != 0 {
		e.fail(topic, domain.ErrAlreadyInRoom)
		return
	}
	if !cmd.Mode.Valid() {
		e.fail(topic, domain.ErrInvalidMode)
		return
	}
	e.rid++
	room := domain.NewRoom(e.rid, cmd.Mode, u)
	e.rooms[room.RID] = room
	e.log.Info().Uint64("rid", room.RID).Str("master", u.ID).Str("mode", string(cmd.Mode)).Msg("room created")
	e.ok(topic)
	e.broadcastRoom(room)
}

func (e *Engine) handleClose(cmd CloseRoom) {
	topic := bus.RoomRes(cmd.UserID, "close")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	if u.InMatch() {
		e.fail(topic, domain.ErrUserInMatch)
		return
	}
	room, ok := e.rooms[u.RID]
	if !ok {
		e.fail(topic, domain.ErrRoomNotFound)
		return
	}
	if room.Master != u.ID {
		e.fail(topic, domain.ErrNotMaster)
		return
	}
	e.detachRoomFromQueue(room)
	delete(e.rooms, room.RID)
	room.Leave()
	e.ok(topic)
}

func (e *Engine) handleJoin(cmd JoinRoom) {
	topic := bus.RoomRes(cmd.MasterID, "join")
	master, ok := e.users[cmd.MasterID]
	if !ok || master.RID == 0 {
		e.fail(topic, domain.ErrRoomNotFound)
		return
	}
	room, ok := e.rooms[master.RID]
	if !ok {
		e.fail(topic, domain.ErrRoomNotFound)
		return
	}
	if room.Ready != domain.RoomIdle {
		e.fail(topic, domain.ErrRoomBusy)
		return
	}
	if room.Size() >= e.cfg.teamSize(room.Mode) {
		e.fail(topic, domain.ErrRoomFull)
		return
	}
	joiner, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	if joiner.RID != 0 {
		e.fail(topic, domain.ErrAlreadyInRoom)
		return
	}
	room.AddUser(joiner)
	e.ok(topic)
	e.broadcastRoom(room)
	e.pub.Publish(bus.RoomRes(joiner.ID, "update"), bus.NewRoomUpdate(room))
}

func (e *Engine) handleLeave(cmd LeaveRoom) {
	topic := bus.RoomRes(cmd.MasterID, "leave")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	if u.InMatch() {
		e.fail(topic, domain.ErrUserInMatch)
		return
	}
	room, ok := e.rooms[u.RID]
	if !ok {
		e.fail(topic, domain.ErrNotInRoom)
		return
	}
	e.detachRoomFromQueue(room)
	room.RemoveUser(u.ID)
	if room.Size() == 0 {
		delete(e.rooms, room.RID)
	} else {
		e.broadcastRoom(room)
	}
	e.ok(topic)
}

// handleInvite relays the invitation; delivery is fire-and-forget, the
// target may be offline.
func (e *Engine) handleInvite(cmd Invite) {
	topic := bus.RoomRes(cmd.UserID, "invite")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	mode := domain.Mode("")
	if room, ok := e.rooms[u.RID]; ok {
		mode = room.Mode
	}
	e.pub.Publish(bus.MemberRes(cmd.Target, "invite"), bus.Invite{From: u.ID, RID: u.RID, Mode: mode})
	e.ok(topic)
}

func (e *Engine) handleChooseHero(cmd ChooseNGHero) {
	topic := bus.MemberRes(cmd.UserID, "choose_hero")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	u.Hero = cmd.Hero
	e.ok(topic)
}

func (e *Engine) handleStartQueue(cmd StartQueue) {
	topic := bus.RoomRes(cmd.UserID, "start_queue")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	room, ok := e.rooms[u.RID]
	if !ok {
		e.fail(topic, domain.ErrNotInRoom)
		return
	}
	if room.Ready != domain.RoomIdle {
		e.fail(topic, domain.ErrRoomBusy)
		return
	}
	// Recompute on entry so the matcher never sees a stale aggregate.
	room.Recompute()
	e.queue[room.RID] = room
	e.ok(topic)
}

func (e *Engine) handleCancelQueue(cmd CancelQueue) {
	topic := bus.RoomRes(cmd.UserID, "cancel_queue")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	// Once the game is live there is no queue left to cancel.
	if _, live := e.gaming[u.GameID]; live {
		e.fail(topic, domain.ErrUserInMatch)
		return
	}
	room, ok := e.rooms[u.RID]
	if !ok {
		e.fail(topic, domain.ErrNotInRoom)
		return
	}
	if game, ok := e.prestart[u.GameID]; ok {
		e.cancelPrestartGame(game)
		return
	}
	e.detachRoomFromQueue(room)
	e.ok(topic)
}

func (e *Engine) handlePreStart(cmd PreStart) {
	topic := bus.RoomRes(cmd.MasterID, "prestart")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	if _, live := e.gaming[u.GameID]; live {
		e.fail(topic, domain.ErrUserInMatch)
		return
	}
	g, ok := e.groups[u.GID]
	if !ok {
		e.fail(topic, domain.ErrGroupNotFound)
		return
	}
	if cmd.Accept {
		g.UserReady(u.ID)
		e.pub.Publish(topic, bus.State("start"))
		return
	}
	g.UserCancel(u.ID)
	// Resolve immediately so a decline never waits for the next sweep.
	if game, ok := e.prestart[u.GameID]; ok {
		e.cancelPrestartGame(game)
	} else {
		e.dissolveGroup(g)
	}
	e.pub.Publish(topic, bus.State("cancel"))
}

func (e *Engine) handlePreStartGet(cmd PreStartGet) {
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(bus.RoomRes(cmd.MasterID, "start_get"), domain.ErrUserNotFound)
		return
	}
	u.PrestartGet = true
	e.ok(bus.RoomRes(cmd.MasterID, "start_get"))
}

func (e *Engine) handleStartGame(cmd StartGame) {
	gameID := cmd.GameID
	if gameID == 0 {
		if u, ok := e.users[cmd.UserID]; ok {
			gameID = u.GameID
		}
	}
	topic := bus.GameRes(gameID, "start_game")
	game, live := e.gaming[gameID]
	if !live {
		var ok bool
		if game, ok = e.prestart[gameID]; !ok {
			e.fail(topic, domain.ErrGameNotFound)
			return
		}
	}
	e.pub.Publish(topic, bus.GameList{
		GameID:    game.GameID,
		Mode:      game.Mode,
		RoomNames: game.RoomNames,
		UserNames: game.UserNames,
	})
	// No port before launch; the connect signal follows from launchGame.
	if !live {
		return
	}
	for _, room := range game.Rooms() {
		e.pub.Publish(bus.RoomRes(room.Master, "start_game"), bus.GameSignal{
			GameID: game.GameID,
			Server: game.ServerName,
			Port:   game.Port,
		})
	}
}

func (e *Engine) handleGameChoose(cmd GameChoose) {
	topic := bus.GameRes(cmd.GameID, "choose")
	ctrl, ok := e.ctrls[cmd.GameID]
	if !ok {
		e.fail(topic, domain.ErrGameNotFound)
		return
	}
	if err := ctrl.Choose(cmd.UserID, cmd.Hero); err != nil {
		e.fail(topic, err)
		return
	}
	e.ok(topic)
}

func (e *Engine) handleGameInfo(cmd GameInfo) {
	topic := bus.GameRes(cmd.GameID, "game_info")
	ctrl, ok := e.ctrls[cmd.GameID]
	if !ok {
		e.fail(topic, domain.ErrGameNotFound)
		return
	}
	e.pub.Publish(topic, ctrl.Status())
}

func (e *Engine) handleGameLeave(cmd GameLeave) {
	topic := bus.GameRes(cmd.GameID, "leave")
	if _, ok := e.gaming[cmd.GameID]; !ok {
		e.fail(topic, domain.ErrGameNotFound)
		return
	}
	if u, ok := e.users[cmd.UserID]; ok {
		u.Online = false
	}
	e.ok(topic)
}

func (e *Engine) handleGameOver(cmd GameOver) {
	topic := bus.GameRes(cmd.GameID, "game_over")
	game, ok := e.gaming[cmd.GameID]
	if !ok {
		e.fail(topic, domain.ErrGameNotFound)
		return
	}
	if cmd.WinTeam != 0 && cmd.WinTeam != 1 {
		e.fail(topic, domain.ErrInvalidWinTeam)
		return
	}
	e.settle(game, cmd.WinTeam)
	e.teardown(game)
	metrics.GamesFinishedTotal.Inc()
	e.ok(topic)
}

func (e *Engine) handleGameClose(cmd GameClose) {
	topic := bus.GameRes(cmd.GameID, "game_close")
	game, ok := e.gaming[cmd.GameID]
	if !ok {
		if game, ok = e.prestart[cmd.GameID]; !ok {
			e.fail(topic, domain.ErrGameNotFound)
			return
		}
	}
	e.teardown(game)
	metrics.GamesFinishedTotal.Inc()
	e.ok(topic)
}

func (e *Engine) handleStatus(cmd Status) {
	topic := bus.MemberRes(cmd.UserID, "status")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	if u.InMatch() {
		e.pub.Publish(topic, bus.State("gaming"))
		return
	}
	e.pub.Publish(topic, bus.State("normal"))
}

func (e *Engine) handleReconnect(cmd Reconnect) {
	topic := bus.MemberRes(cmd.UserID, "reconnect")
	u, ok := e.users[cmd.UserID]
	if !ok {
		e.fail(topic, domain.ErrUserNotFound)
		return
	}
	game, ok := e.gaming[u.GameID]
	if !ok {
		e.fail(topic, domain.ErrGameNotFound)
		return
	}
	u.Online = true
	e.pub.Publish(topic, bus.GameSignal{
		GameID: game.GameID,
		Server: game.ServerName,
		Port:   game.Port,
	})
}

func (e *Engine) handleReset() {
	e.reset()
	e.log.Warn().Msg("engine state reset")
	e.ok("reset/res")
}

func (e *Engine) handleSnapshot(cmd SnapshotReq) {
	snap := Snapshot{
		Users:         len(e.users),
		Rooms:         len(e.rooms),
		Queued:        len(e.queue),
		Groups:        len(e.groups),
		PrestartGames: len(e.prestart),
		GamingGames:   len(e.gaming),
		UptimeSeconds: int64(time.Since(e.started).Seconds()),
	}
	for _, u := range e.users {
		if u.Online {
			snap.Online++
		}
	}
	select {
	case cmd.Reply <- snap:
	default:
	}
}

// detachRoomFromQueue removes a room from the queue and dissolves any
// ready group it was matched into.
func (e *Engine) detachRoomFromQueue(room *domain.Room) {
	delete(e.queue, room.RID)
	if g := e.groupOfRoom(room.RID); g != nil {
		e.dissolveGroup(g)
	}
}

// dissolveGroup returns every room of a forming group to idle and
// notifies the masters that the queue stopped.
func (e *Engine) dissolveGroup(g *domain.Group) {
	g.ClearQueue()
	for _, room := range g.Rooms {
		delete(e.queue, room.RID)
		e.pub.Publish(bus.RoomRes(room.Master, "cancel_queue"), bus.OK())
	}
	delete(e.groups, g.GID)
}

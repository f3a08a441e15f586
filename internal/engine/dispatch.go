package engine

import (
	"encoding/json"
	"fmt"

	"github.com/riftlab/matchd/internal/bus"
	"github.com/riftlab/matchd/internal/domain"
)

// Dispatch translates one inbound bus message into a command and
// submits it. Unparseable topics are dropped; malformed payloads get a
// fail reply on the response topic. Safe to call from the MQTT
// callback goroutine.
func (e *Engine) Dispatch(topic string, payload []byte) {
	route, ok := bus.ParseTopic(topic)
	if !ok {
		e.log.Debug().Str("topic", topic).Msg("unroutable topic dropped")
		return
	}
	cmd, err := commandFromRoute(route, payload)
	if err != nil {
		e.fail(route.ResponseTopic(), err)
		return
	}
	e.Submit(cmd)
}

func commandFromRoute(route bus.Route, payload []byte) (Command, error) {
	switch route.Family {
	case bus.FamilyMember:
		return memberCommand(route, payload)
	case bus.FamilyRoom:
		return roomCommand(route, payload)
	case bus.FamilyGame:
		return gameCommand(route, payload)
	default:
		return Reset{}, nil
	}
}

func memberCommand(route bus.Route, payload []byte) (Command, error) {
	switch route.Action {
	case "login":
		var req bus.LoginReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return Login{UserID: route.UserID, Name: req.Name}, nil
	case "logout":
		return Logout{UserID: route.UserID}, nil
	case "choose_hero":
		var req bus.ChooseHeroReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return ChooseNGHero{UserID: route.UserID, Hero: req.Hero}, nil
	case "status":
		return Status{UserID: route.UserID}, nil
	default:
		return Reconnect{UserID: route.UserID}, nil
	}
}

func roomCommand(route bus.Route, payload []byte) (Command, error) {
	switch route.Action {
	case "create":
		var req bus.CreateReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return CreateRoom{UserID: route.UserID, Mode: domain.Mode(req.Mode)}, nil
	case "close":
		return CloseRoom{UserID: route.UserID}, nil
	case "start_queue":
		return StartQueue{UserID: route.UserID}, nil
	case "cancel_queue":
		return CancelQueue{UserID: route.UserID}, nil
	case "invite":
		var req bus.InviteReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return Invite{UserID: route.UserID, Target: req.Target}, nil
	case "join":
		var req bus.JoinReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return JoinRoom{MasterID: route.UserID, UserID: req.ID}, nil
	case "leave":
		var req bus.LeaveReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return LeaveRoom{MasterID: route.UserID, UserID: req.ID}, nil
	case "prestart":
		var req bus.PrestartReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return PreStart{MasterID: route.UserID, UserID: req.ID, Accept: req.Accept}, nil
	case "prestart_get":
		var req bus.PrestartGetReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return PreStartGet{MasterID: route.UserID, UserID: req.ID}, nil
	default: // start_game
		return StartGame{UserID: route.UserID}, nil
	}
}

func gameCommand(route bus.Route, payload []byte) (Command, error) {
	switch route.Action {
	case "game_over":
		var req bus.GameOverReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return GameOver{GameID: route.GameID, WinTeam: req.WinTeam}, nil
	case "game_close":
		return GameClose{GameID: route.GameID}, nil
	case "game_info":
		return GameInfo{GameID: route.GameID}, nil
	case "start_game":
		return StartGame{GameID: route.GameID}, nil
	case "choose":
		var req bus.GameChooseReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return GameChoose{GameID: route.GameID, UserID: req.ID, Hero: req.Hero}, nil
	default: // leave, exit
		var req bus.GameUserReq
		if err := unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return GameLeave{GameID: route.GameID, UserID: req.ID}, nil
	}
}

// unmarshal tolerates empty payloads; commands with all-default fields
// are valid for several actions.
func unmarshal(payload []byte, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("bad payload: %w", err)
	}
	return nil
}

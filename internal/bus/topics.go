package bus

import (
	"fmt"
	"regexp"
	"strconv"
)

// Topic families. Inbound topics carry the sender in the second
// segment; responses go to the .../res/... counterpart.
type Family string

const (
	FamilyMember Family = "member"
	FamilyRoom   Family = "room"
	FamilyGame   Family = "game"
	FamilyReset  Family = "reset"
)

// Route is a parsed inbound topic.
type Route struct {
	Family Family
	// Sender for member/room topics; unused for game/reset.
	UserID string
	// Parsed game id for game topics.
	GameID uint64
	Action string
}

var (
	memberRe = regexp.MustCompile(`^member/([^/]+)/send/(login|logout|choose_hero|status|reconnect)$`)
	roomRe   = regexp.MustCompile(`^room/([^/]+)/send/(create|close|start_queue|cancel_queue|invite|join|leave|prestart|prestart_get|start_game)$`)
	gameRe   = regexp.MustCompile(`^game/([0-9]+)/send/(game_over|game_close|game_info|start_game|choose|leave|exit)$`)
)

// ParseTopic matches an inbound topic against the three send families
// and the literal reset topic.
func ParseTopic(topic string) (Route, bool) {
	if topic == "reset" {
		return Route{Family: FamilyReset}, true
	}
	if m := memberRe.FindStringSubmatch(topic); m != nil {
		return Route{Family: FamilyMember, UserID: m[1], Action: m[2]}, true
	}
	if m := roomRe.FindStringSubmatch(topic); m != nil {
		return Route{Family: FamilyRoom, UserID: m[1], Action: m[2]}, true
	}
	if m := gameRe.FindStringSubmatch(topic); m != nil {
		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil {
			return Route{}, false
		}
		return Route{Family: FamilyGame, GameID: id, Action: m[2]}, true
	}
	return Route{}, false
}

// ResponseTopic returns the res counterpart of an inbound route.
func (r Route) ResponseTopic() string {
	switch r.Family {
	case FamilyMember:
		return MemberRes(r.UserID, r.Action)
	case FamilyRoom:
		return RoomRes(r.UserID, r.Action)
	case FamilyGame:
		return GameRes(r.GameID, r.Action)
	default:
		return "reset/res"
	}
}

func MemberRes(userID, action string) string {
	return fmt.Sprintf("member/%s/res/%s", userID, action)
}

func RoomRes(master, action string) string {
	return fmt.Sprintf("room/%s/res/%s", master, action)
}

func GameRes(gameID uint64, action string) string {
	return fmt.Sprintf("game/%d/res/%s", gameID, action)
}

// SubscribeFilters are the wildcard subscriptions the dispatch shell
// registers on connect.
func SubscribeFilters() []string {
	return []string{
		"member/+/send/#",
		"room/+/send/#",
		"game/+/send/#",
		"reset",
	}
}

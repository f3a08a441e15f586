// Package match implements the per-mode pre-game lifecycle: the
// ban/pick draft, ready-to-start countdown and the handoff to gaming.
package match

import "github.com/riftlab/matchd/internal/domain"

// PhaseKind tags one lifecycle phase. Each step carries only what its
// phase needs, so illegal transitions are unrepresentable.
type PhaseKind int

const (
	PhaseLoading PhaseKind = iota
	PhaseBan
	PhasePick
	PhaseReadyToStart
	PhaseGaming
	PhaseFinished
)

func (k PhaseKind) String() string {
	switch k {
	case PhaseLoading:
		return "loading"
	case PhaseBan:
		return "ban"
	case PhasePick:
		return "pick"
	case PhaseReadyToStart:
		return "ready_to_start"
	case PhaseGaming:
		return "gaming"
	default:
		return "finished"
	}
}

// Step is one substage of a match plan: the allowed seats and the
// countdown, in seconds, before laggards get jumped.
type Step struct {
	Kind    PhaseKind
	Seats   []int
	Seconds int
}

// Config carries the draft timers; zero values fall back to the
// standard competitive settings.
type Config struct {
	BanTime      int
	ChooseTime   int
	NGChooseTime int
	ReadyTime    int
	Buffer       int
	HeroCount    int
}

func (c Config) withDefaults() Config {
	if c.BanTime == 0 {
		c.BanTime = 25
	}
	if c.ChooseTime == 0 {
		c.ChooseTime = 30
	}
	if c.NGChooseTime == 0 {
		c.NGChooseTime = 90
	}
	if c.ReadyTime == 0 {
		c.ReadyTime = 10
	}
	if c.Buffer == 0 {
		c.Buffer = -5
	}
	if c.HeroCount == 0 {
		c.HeroCount = 60
	}
	return c
}

// The ranked pick order is the 1-2-2-2-2-1 competitive draft.
var rankedPickOrder = [][]int{{0}, {5, 6}, {1, 2}, {7, 8}, {3, 4}, {9}}

// The arranged-team draft interleaves single-seat bans and picks.
var (
	arrangedBans1  = []int{0, 5, 1, 6, 2, 7}
	arrangedPicks1 = []int{0, 5, 6, 1, 2, 7}
	arrangedBans2  = []int{8, 3, 9, 4}
	arrangedPicks2 = []int{8, 3, 4, 9}
)

// Plan builds the step table for a mode over n seats. The ranked and
// arranged drafts are defined for ten seats; smaller deployments fall
// back to an all-seat ban phase followed by an all-seat pick.
func Plan(mode domain.Mode, n int, cfg Config) []Step {
	cfg = cfg.withDefaults()
	all := allSeats(n)

	var steps []Step
	steps = append(steps, Step{Kind: PhaseLoading, Seconds: cfg.ReadyTime})

	switch mode {
	case domain.ModeRanked1v1, domain.ModeRanked5v5:
		steps = append(steps, Step{Kind: PhaseBan, Seats: all, Seconds: cfg.BanTime})
		if n == 10 {
			for _, seats := range rankedPickOrder {
				steps = append(steps, Step{Kind: PhasePick, Seats: seats, Seconds: cfg.ChooseTime})
			}
		} else {
			steps = append(steps, Step{Kind: PhasePick, Seats: all, Seconds: cfg.ChooseTime})
		}
	case domain.ModeArranged:
		if n == 10 {
			for _, seat := range arrangedBans1 {
				steps = append(steps, Step{Kind: PhaseBan, Seats: []int{seat}, Seconds: cfg.BanTime})
			}
			for _, seat := range arrangedPicks1 {
				steps = append(steps, Step{Kind: PhasePick, Seats: []int{seat}, Seconds: cfg.ChooseTime})
			}
			for _, seat := range arrangedBans2 {
				steps = append(steps, Step{Kind: PhaseBan, Seats: []int{seat}, Seconds: cfg.BanTime})
			}
			for _, seat := range arrangedPicks2 {
				steps = append(steps, Step{Kind: PhasePick, Seats: []int{seat}, Seconds: cfg.ChooseTime})
			}
		} else {
			steps = append(steps, Step{Kind: PhaseBan, Seats: all, Seconds: cfg.BanTime})
			steps = append(steps, Step{Kind: PhasePick, Seats: all, Seconds: cfg.ChooseTime})
		}
	case domain.ModeARAM:
		// Both phases are instant: the ban list broadcast is empty and
		// the controller rolls everyone's hero.
		steps = append(steps, Step{Kind: PhaseBan, Seats: all})
		steps = append(steps, Step{Kind: PhasePick, Seats: all})
	default:
		steps = append(steps, Step{Kind: PhasePick, Seats: all, Seconds: cfg.NGChooseTime})
	}

	steps = append(steps,
		Step{Kind: PhaseReadyToStart, Seconds: cfg.ReadyTime},
		Step{Kind: PhaseGaming},
		Step{Kind: PhaseFinished},
	)
	return steps
}

func allSeats(n int) []int {
	seats := make([]int, n)
	for i := range seats {
		seats[i] = i
	}
	return seats
}

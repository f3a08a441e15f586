package match

import (
	"testing"

	"github.com/riftlab/matchd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pickSeats(plan []Step) []int {
	var seats []int
	for _, s := range plan {
		if s.Kind == PhasePick {
			seats = append(seats, s.Seats...)
		}
	}
	return seats
}

func TestRankedPlanDraftOrder(t *testing.T) {
	plan := Plan(domain.ModeRanked5v5, 10, Config{})

	require.Equal(t, PhaseLoading, plan[0].Kind)
	require.Equal(t, PhaseBan, plan[1].Kind)
	assert.Len(t, plan[1].Seats, 10)
	assert.Equal(t, 25, plan[1].Seconds)

	wantOrder := [][]int{{0}, {5, 6}, {1, 2}, {7, 8}, {3, 4}, {9}}
	for i, seats := range wantOrder {
		step := plan[2+i]
		assert.Equal(t, PhasePick, step.Kind)
		assert.Equal(t, seats, step.Seats)
		assert.Equal(t, 30, step.Seconds)
	}

	assert.Equal(t, PhaseReadyToStart, plan[8].Kind)
	assert.Equal(t, PhaseGaming, plan[9].Kind)
	assert.Equal(t, PhaseFinished, plan[10].Kind)
}

func TestArrangedPlanSeatSequences(t *testing.T) {
	plan := Plan(domain.ModeArranged, 10, Config{})

	var banSeq, pickSeq []int
	for _, s := range plan {
		switch s.Kind {
		case PhaseBan:
			require.Len(t, s.Seats, 1)
			banSeq = append(banSeq, s.Seats[0])
		case PhasePick:
			require.Len(t, s.Seats, 1)
			pickSeq = append(pickSeq, s.Seats[0])
		}
	}
	assert.Equal(t, []int{0, 5, 1, 6, 2, 7, 8, 3, 9, 4}, banSeq)
	assert.Equal(t, []int{0, 5, 6, 1, 2, 7, 8, 3, 4, 9}, pickSeq)
}

func TestEverySeatPicksExactlyOnce(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModeNormal5v5, domain.ModeRanked5v5, domain.ModeArranged, domain.ModeARAM} {
		seen := make(map[int]int)
		for _, seat := range pickSeats(Plan(mode, 10, Config{})) {
			seen[seat]++
		}
		require.Len(t, seen, 10, "mode %s", mode)
		for seat, n := range seen {
			assert.Equal(t, 1, n, "mode %s seat %d", mode, seat)
		}
	}
}

func TestSeatsUniquePerStep(t *testing.T) {
	for _, mode := range []domain.Mode{domain.ModeNormal5v5, domain.ModeRanked5v5, domain.ModeArranged, domain.ModeARAM} {
		for i, step := range Plan(mode, 10, Config{}) {
			seen := make(map[int]bool)
			for _, seat := range step.Seats {
				assert.False(t, seen[seat], "mode %s step %d repeats seat %d", mode, i, seat)
				seen[seat] = true
			}
		}
	}
}

func TestNormalPlanSingleAllSeatPick(t *testing.T) {
	plan := Plan(domain.ModeNormal5v5, 10, Config{})
	picks := 0
	for _, s := range plan {
		if s.Kind == PhaseBan {
			t.Fatalf("normal mode has no ban phase")
		}
		if s.Kind == PhasePick {
			picks++
			assert.Len(t, s.Seats, 10)
			assert.Equal(t, 90, s.Seconds)
		}
	}
	assert.Equal(t, 1, picks)
}

func TestSmallTeamFallback(t *testing.T) {
	plan := Plan(domain.ModeRanked5v5, 2, Config{})
	var kinds []PhaseKind
	for _, s := range plan {
		kinds = append(kinds, s.Kind)
	}
	assert.Equal(t, []PhaseKind{PhaseLoading, PhaseBan, PhasePick, PhaseReadyToStart, PhaseGaming, PhaseFinished}, kinds)
}

// Package rating implements the Elo model used for all match modes:
// 1v1, team-vs-team with mean opponents, and battleground placement.
package rating

import "math"

// DefaultK is the k-factor applied when none is configured.
const DefaultK = 20

type Elo struct {
	K int
}

func New(k int) Elo {
	if k <= 0 {
		k = DefaultK
	}
	return Elo{K: k}
}

// Expected returns the expected score of a rated player a against b.
func Expected(a, b int) float64 {
	return 1.0 / (1.0 + math.Pow(10, float64(b-a)/400.0))
}

func (e Elo) update(r int, actual, expected float64) int {
	return int(math.Round(float64(r) + float64(e.K)*(actual-expected)))
}

// Compute returns the post-match ratings of a 1v1 winner and loser.
func (e Elo) Compute(win, lose int) (int, int) {
	return e.update(win, 1, Expected(win, lose)), e.update(lose, 0, Expected(lose, win))
}

// ComputeTeam returns the post-match ratings for two teams. Each player's
// expectation is computed against the opposing team's arithmetic mean.
// Empty inputs return nil; callers guard on length.
func (e Elo) ComputeTeam(win, lose []int) ([]int, []int) {
	if len(win) == 0 || len(lose) == 0 {
		return nil, nil
	}
	winMean := mean(win)
	loseMean := mean(lose)

	newWin := make([]int, len(win))
	for i, r := range win {
		newWin[i] = e.update(r, 1, expectedAgainst(r, loseMean))
	}
	newLose := make([]int, len(lose))
	for i, r := range lose {
		newLose[i] = e.update(r, 0, expectedAgainst(r, winMean))
	}
	return newWin, newLose
}

// ComputeBG returns per-player rating deltas for an N-way battleground
// placement. Seat i's actual score is winCount*scale + 0.25 - i*scale, so
// earlier seats (higher placement) receive a larger reward. Expectation is
// taken against the team mean.
func (e Elo) ComputeBG(team []int, winCount int, scale float64) []int {
	if len(team) == 0 {
		return nil
	}
	m := mean(team)
	deltas := make([]int, len(team))
	for i, r := range team {
		actual := float64(winCount)*scale + 0.25 - float64(i)*scale
		deltas[i] = int(math.Round(float64(e.K) * (actual - expectedAgainst(r, m))))
	}
	return deltas
}

// Median returns the integer median of an ordered sequence. For even
// lengths it averages the two middle values, truncating toward zero.
func Median(sorted []int) int {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func mean(vals []int) float64 {
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func expectedAgainst(r int, opponentMean float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (opponentMean-float64(r))/400.0))
}

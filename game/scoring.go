package game

import (
	"math"
	"time"
)

const firstGuessBonus = 20

// ScoreGuess computes the points awarded for the first correct guess of a
// round. The guesser gets a share of 100 proportional to the time remaining
// plus a flat bonus, the drawer gets the proportional share alone. Both
// results are non-negative and non-increasing in elapsed time.
func ScoreGuess(roundTimeSeconds int, elapsed time.Duration) (guesserPoints, drawerPoints int) {
	if roundTimeSeconds <= 0 {
		return firstGuessBonus, 0
	}

	remaining := float64(roundTimeSeconds) - elapsed.Seconds()
	fraction := remaining / float64(roundTimeSeconds)
	if fraction < 0 {
		fraction = 0
	}

	base := int(math.Round(100 * fraction))
	return base + firstGuessBonus, base
}

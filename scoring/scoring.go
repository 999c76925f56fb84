// Package scoring maps match outcomes to point deltas. It has no side
// effects; the session applies the returned deltas to standings.
package scoring

const (
	WinPoints  = 2
	TiePoints  = 1
	ByePoints  = 1
	LossPoints = 0
)

// ApplyResult returns the point deltas for a decisive match.
func ApplyResult() (winnerDelta, loserDelta int) {
	return WinPoints, LossPoints
}

// ApplyTie returns the point deltas when both players draw.
func ApplyTie() (delta1, delta2 int) {
	return TiePoints, TiePoints
}

// ApplyBye returns the point delta for the round's unpaired player. The
// caller is responsible for incrementing the player's bye count.
func ApplyBye() int {
	return ByePoints
}

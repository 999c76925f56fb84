package pairing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swiss-tournament-system/models"
)

// standingsFor builds standings in registration order with ids 1..n.
func standingsFor(scores ...int) []*models.Standing {
	out := make([]*models.Standing, 0, len(scores))
	for i, score := range scores {
		out = append(out, &models.Standing{PlayerID: i + 1, Score: score})
	}
	return out
}

func generate(t *testing.T, standings []*models.Standing, history History) (*Round, error) {
	t.Helper()
	return NewSwissGenerator().GeneratePairings(context.Background(), GeneratePairingsParams{
		Standings: standings,
		History:   history,
	})
}

func TestZeroPlayersProducesEmptyRound(t *testing.T) {
	round, err := generate(t, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, round.Pairs)
	assert.Nil(t, round.ByePlayerID)
}

func TestSinglePlayerCannotBePaired(t *testing.T) {
	_, err := generate(t, standingsFor(0), nil)
	assert.ErrorIs(t, err, ErrInsufficientPlayers)
}

func TestEvenPlayersCoverEveryoneExactlyOnce(t *testing.T) {
	round, err := generate(t, standingsFor(0, 0, 0, 0, 0, 0, 0, 0), nil)
	require.NoError(t, err)
	require.Len(t, round.Pairs, 4)
	assert.Nil(t, round.ByePlayerID)

	seen := make(map[int]bool)
	for _, pair := range round.Pairs {
		assert.False(t, seen[pair.Player1ID], "player %d paired twice", pair.Player1ID)
		assert.False(t, seen[pair.Player2ID], "player %d paired twice", pair.Player2ID)
		seen[pair.Player1ID] = true
		seen[pair.Player2ID] = true
	}
	assert.Len(t, seen, 8)
}

func TestPairsNearestRankedOpponents(t *testing.T) {
	// A(3), B(3), C(1), D(1), no history: (A,B) and (C,D).
	round, err := generate(t, standingsFor(3, 3, 1, 1), nil)
	require.NoError(t, err)
	require.Len(t, round.Pairs, 2)
	assert.Equal(t, Pair{Player1ID: 1, Player2ID: 2}, round.Pairs[0])
	assert.Equal(t, Pair{Player1ID: 3, Player2ID: 4}, round.Pairs[1])
}

func TestRegistrationOrderBreaksScoreTies(t *testing.T) {
	round, err := generate(t, standingsFor(2, 2, 2, 2), nil)
	require.NoError(t, err)
	require.Len(t, round.Pairs, 2)
	assert.Equal(t, Pair{Player1ID: 1, Player2ID: 2}, round.Pairs[0])
	assert.Equal(t, Pair{Player1ID: 3, Player2ID: 4}, round.Pairs[1])
}

func TestRematchesAreSkipped(t *testing.T) {
	history := NewHistory()
	history.Add(1, 2)

	round, err := generate(t, standingsFor(3, 3, 1, 1), history)
	require.NoError(t, err)
	require.Len(t, round.Pairs, 2)
	assert.Equal(t, Pair{Player1ID: 1, Player2ID: 3}, round.Pairs[0])
	assert.Equal(t, Pair{Player1ID: 2, Player2ID: 4}, round.Pairs[1])
}

func TestNoValidPairingIsSurfacedNotSilenced(t *testing.T) {
	history := NewHistory()
	history.Add(1, 2)

	_, err := generate(t, standingsFor(2, 0), history)
	assert.ErrorIs(t, err, ErrNoValidPairing)
}

func TestOddPoolGivesByeToLowestRanked(t *testing.T) {
	round, err := generate(t, standingsFor(4, 3, 2, 1, 0), nil)
	require.NoError(t, err)
	require.NotNil(t, round.ByePlayerID)
	assert.Equal(t, 5, *round.ByePlayerID)
	require.Len(t, round.Pairs, 2)
	assert.Equal(t, Pair{Player1ID: 1, Player2ID: 2}, round.Pairs[0])
	assert.Equal(t, Pair{Player1ID: 3, Player2ID: 4}, round.Pairs[1])
}

func TestByeSkipsPlayersWhoAlreadyHadOne(t *testing.T) {
	standings := standingsFor(2, 1, 0)
	standings[2].Byes = 1 // lowest ranked already sat out

	round, err := generate(t, standings, nil)
	require.NoError(t, err)
	require.NotNil(t, round.ByePlayerID)
	assert.Equal(t, 2, *round.ByePlayerID)
	require.Len(t, round.Pairs, 1)
	assert.Equal(t, Pair{Player1ID: 1, Player2ID: 3}, round.Pairs[0])
}

func TestAllByedPoolFailsLoudly(t *testing.T) {
	standings := standingsFor(2, 1, 0)
	for _, s := range standings {
		s.Byes = 1
	}

	_, err := generate(t, standings, nil)
	assert.ErrorIs(t, err, ErrNoEligibleByeCandidate)
}

func TestPairingIsDeterministic(t *testing.T) {
	history := NewHistory()
	history.Add(1, 4)
	history.Add(2, 3)
	standings := standingsFor(4, 2, 2, 0, 1)

	first, err := generate(t, standings, history)
	require.NoError(t, err)
	second, err := generate(t, standings, history)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestInputStandingsAreNotReordered(t *testing.T) {
	standings := standingsFor(0, 3, 1)
	_, err := generate(t, standings, nil)
	require.NoError(t, err)

	for i, s := range standings {
		assert.Equal(t, i+1, s.PlayerID)
	}
}

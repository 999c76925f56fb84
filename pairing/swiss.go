package pairing

import (
	"context"
	"errors"
	"sort"

	"swiss-tournament-system/models"
)

var (
	ErrInsufficientPlayers    = errors.New("not enough players to pair a round (minimum 2)")
	ErrNoEligibleByeCandidate = errors.New("every remaining player has already received a bye")
	ErrNoValidPairing         = errors.New("no pairing without a rematch exists for this round")
)

type SwissGenerator struct{}

func NewSwissGenerator() Generator {
	return &SwissGenerator{}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// GeneratePairings matches players of similar current standing while
// refusing rematches. Standings are ranked by score descending with
// registration order as the tiebreak, so identical input always produces
// identical pairings. With an odd pool the lowest ranked player without a
// previous bye sits out; a rematch is never allowed as a fallback, the
// conflict is surfaced instead.
func (g *SwissGenerator) GeneratePairings(_ context.Context, params GeneratePairingsParams) (*Round, error) {
	if len(params.Standings) == 0 {
		return &Round{}, nil
	}
	if len(params.Standings) == 1 {
		return nil, ErrInsufficientPlayers
	}

	pool := make([]*models.Standing, len(params.Standings))
	copy(pool, params.Standings)
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].Score > pool[j].Score
	})

	history := params.History
	if history == nil {
		history = NewHistory()
	}

	round := &Round{}

	if len(pool)%2 == 1 {
		byeIdx := -1
		for i := len(pool) - 1; i >= 0; i-- {
			if pool[i].Byes == 0 {
				byeIdx = i
				break
			}
		}
		if byeIdx < 0 {
			return nil, ErrNoEligibleByeCandidate
		}
		byeID := pool[byeIdx].PlayerID
		round.ByePlayerID = &byeID
		pool = append(pool[:byeIdx], pool[byeIdx+1:]...)
	}

	round.Pairs = make([]Pair, 0, len(pool)/2)
	for len(pool) > 0 {
		top := pool[0]
		oppIdx := -1
		for i := 1; i < len(pool); i++ {
			if !history.Played(top.PlayerID, pool[i].PlayerID) {
				oppIdx = i
				break
			}
		}
		if oppIdx < 0 {
			return nil, ErrNoValidPairing
		}
		round.Pairs = append(round.Pairs, Pair{
			Player1ID: top.PlayerID,
			Player2ID: pool[oppIdx].PlayerID,
		})
		pool = append(pool[1:oppIdx], pool[oppIdx+1:]...)
	}

	return round, nil
}

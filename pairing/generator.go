package pairing

import (
	"context"

	"swiss-tournament-system/models"
)

type GeneratePairingsParams struct {
	// Standings in registration order; generators rank their own copy.
	Standings []*models.Standing
	// History holds every unordered pair that has already met.
	History History
}

// Pair is a single table for the round, better ranked player first.
type Pair struct {
	Player1ID int `json:"player1_id"`
	Player2ID int `json:"player2_id"`
}

// Round is the generator output: the round's pairs plus at most one bye.
type Round struct {
	Pairs       []Pair `json:"pairs"`
	ByePlayerID *int   `json:"bye_player_id,omitempty"`
}

type Generator interface {
	GeneratePairings(ctx context.Context, params GeneratePairingsParams) (*Round, error)

	GetName() string
}

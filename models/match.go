package models

// MatchRecord is the committed outcome of a single match. A bye is stored
// as a record with the recipient in WinnerID and a nil LoserID, mirroring
// the NULL opponent column in the matches table.
type MatchRecord struct {
	ID          int  `json:"id"`
	RoundNumber int  `json:"round_number"`
	WinnerID    int  `json:"winner_id"`
	LoserID     *int `json:"loser_id,omitempty"`
	Tie         bool `json:"tie"`
}

func (m *MatchRecord) IsBye() bool {
	return m.LoserID == nil
}

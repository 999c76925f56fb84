package models

// Tournament is the aggregate handed to the store on commit. ID is zero
// until the store assigns one; everything before that lives only in the
// session's working set.
type Tournament struct {
	ID        int            `json:"id"`
	Players   []Player       `json:"players"`
	Standings []*Standing    `json:"standings"`
	Matches   []*MatchRecord `json:"matches"`
}

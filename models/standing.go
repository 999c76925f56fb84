package models

// Standing holds one player's cumulative results within a tournament.
// Score is maintained as 2*Wins + Ties + Byes. Matches counts played
// matches only, so Matches + Byes equals the number of completed rounds
// for the player.
type Standing struct {
	PlayerID int `json:"player_id"`
	Wins     int `json:"wins"`
	Losses   int `json:"losses"`
	Ties     int `json:"ties"`
	Byes     int `json:"byes"`
	Score    int `json:"score"`
	Matches  int `json:"matches"`
}

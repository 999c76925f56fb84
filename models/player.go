package models

// Player is a tournament participant. Identity is assigned at registration
// by the session and is immutable afterwards; ids are unique within a
// single tournament only.
type Player struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

package models

// Player is a participant in a session
type Player struct {
	// Nick is the display name, unique within a session
	Nick string `json:"nick"`
}

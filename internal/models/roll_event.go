package models

// RollEvent records that a roll was resolved. Events are appended in the
// same write that resolves the roll, so every resolution is observable.
type RollEvent struct {
	// Seq is strictly increasing within a session
	Seq int64 `json:"seq"`

	// RollID is the ID of the resolved roll
	RollID string `json:"rollId"`

	// Nick is the player who rolled
	Nick string `json:"nick"`

	// Dice is the label of the die
	Dice string `json:"dice"`

	// NumDice is how many dice were thrown
	NumDice int `json:"numDice"`

	// Value is the resolved sum
	Value int `json:"value"`

	// ResolvedAt is when the roll was resolved, in Unix milliseconds
	ResolvedAt int64 `json:"resolvedAt"`
}

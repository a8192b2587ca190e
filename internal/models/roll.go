package models

// Roll is a single throw of one or more dice of the same kind
type Roll struct {
	// ID is the unique identifier for the roll
	ID string `json:"id"`

	// Nick is the player who rolled
	Nick string `json:"nick"`

	// Dice is the label of the die, e.g. "D6" or "D37"
	Dice string `json:"dice"`

	// Sides is the number of faces on each die
	Sides int `json:"sides"`

	// NumDice is how many dice were thrown
	NumDice int `json:"numDice"`

	// Timestamp is when the roll was requested, in Unix milliseconds
	Timestamp int64 `json:"timestamp"`

	// Pending is true until the outcome has been written
	Pending bool `json:"pending"`

	// Comment is the optional note attached by the player
	Comment string `json:"comment,omitempty"`

	// Values are the individual faces, set on resolution
	Values []int `json:"values,omitempty"`

	// Value is the sum of Values, set on resolution
	Value int `json:"value,omitempty"`

	// ResolvedAt is when the outcome was written, in Unix milliseconds
	ResolvedAt int64 `json:"resolvedAt,omitempty"`
}

// MaxTotal is the highest sum the roll can produce
func (r *Roll) MaxTotal() int {
	return r.Sides * r.NumDice
}

// Mean is the expected sum of the roll
func (r *Roll) Mean() float64 {
	return float64(r.NumDice) * float64(r.Sides+1) / 2
}

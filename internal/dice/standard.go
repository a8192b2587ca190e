package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// CustomLabel selects a die with a player-chosen number of sides
const CustomLabel = "custom"

// DefaultLabel is used when a label is not recognised
const DefaultLabel = "D6"

// Die is one entry of the standard dice table
type Die struct {
	Label string
	Sides int
}

// Standard lists the dice offered to players
var Standard = []Die{
	{Label: "D4", Sides: 4},
	{Label: "D6", Sides: 6},
	{Label: "D8", Sides: 8},
	{Label: "D10", Sides: 10},
	{Label: "D12", Sides: 12},
	{Label: "D20", Sides: 20},
	{Label: "D100", Sides: 100},
}

// Resolve turns a requested die into the label stored on the roll and its
// number of sides. Custom side counts that are not numbers or are below
// MinSides become MinSides, counts above MaxSides become MaxSides. Unknown
// labels fall back to a D6.
func Resolve(label, customSides string) (string, int) {
	if strings.EqualFold(strings.TrimSpace(label), CustomLabel) {
		sides := customDieSides(strings.TrimSpace(customSides))
		return fmt.Sprintf("D%d", sides), sides
	}

	for _, d := range Standard {
		if strings.EqualFold(d.Label, strings.TrimSpace(label)) {
			return d.Label, d.Sides
		}
	}

	return DefaultLabel, 6
}

func customDieSides(raw string) int {
	sides, err := strconv.Atoi(raw)
	switch {
	case errors.Is(err, strconv.ErrRange) && sides > 0:
		return MaxSides
	case err != nil || sides < MinSides:
		return MinSides
	case sides > MaxSides:
		return MaxSides
	}
	return sides
}

package messaging

import (
	"github.com/KirkDiggler/diceroom/internal/models"
)

// Categorize classifies a resolved roll. Pending rolls have no category.
func Categorize(roll *models.Roll) RollCategory {
	if roll == nil || roll.Pending || len(roll.Values) == 0 {
		return RollCategoryNone
	}

	allMax, allMin := true, true
	for _, v := range roll.Values {
		if v != roll.Sides {
			allMax = false
		}
		if v != 1 {
			allMin = false
		}
	}

	switch {
	case allMax:
		return RollCategoryMax
	case allMin:
		return RollCategoryMin
	}

	lowest := roll.NumDice
	spread := roll.MaxTotal() - lowest
	if spread <= 0 {
		return RollCategoryNormal
	}

	position := float64(roll.Value-lowest) / float64(spread)
	switch {
	case position >= 0.8:
		return RollCategoryHigh
	case position <= 0.2:
		return RollCategoryLow
	default:
		return RollCategoryNormal
	}
}

// isCoinFlip reports whether the roll is a single two-sided die
func isCoinFlip(roll *models.Roll) bool {
	return roll.Sides == 2 && roll.NumDice == 1
}

// streakOf walks the nick's resolved rolls from newest to oldest and counts
// how many in a row fell on the same side of the mean
func streakOf(rolls []*models.Roll, nick string) (StreakKind, int) {
	kind := StreakNone
	length := 0

	for i := len(rolls) - 1; i >= 0; i-- {
		r := rolls[i]
		if r.Nick != nick || r.Pending {
			continue
		}

		var current StreakKind
		switch mean := r.Mean(); {
		case float64(r.Value) > mean:
			current = StreakHot
		case float64(r.Value) < mean:
			current = StreakCold
		default:
			current = StreakNone
		}

		if current == StreakNone {
			break
		}
		if kind != StreakNone && current != kind {
			break
		}

		kind = current
		length++
	}

	return kind, length
}

var rollLabels = map[RollCategory][]string{
	RollCategoryMax: {
		"MAXIMUM DAMAGE!",
		"The dice gods are smiling.",
		"Screenshot it. Nobody will believe you.",
		"Perfect roll! Don't get used to it.",
		"Critical! Somebody check those dice.",
	},
	RollCategoryMin: {
		"Snake eyes energy.",
		"The dice have chosen violence. Against you.",
		"That's a natural disaster.",
		"Minimum effort from the dice today.",
		"Ouch. Maybe blow on them first?",
	},
	RollCategoryHigh: {
		"Now we're talking!",
		"Hot hands!",
		"Solid. Very solid.",
		"The table approves.",
	},
	RollCategoryLow: {
		"Could have been worse. Not much, though.",
		"The dice are sulking.",
		"Better luck next roll.",
		"Is it too late to reroll?",
	},
	RollCategoryNormal: {
		"Meh.",
		"Perfectly average, like most things.",
		"Not great, not terrible.",
		"The dice shrug.",
	},
}

var coinLabels = map[RollCategory][]string{
	RollCategoryMax: {
		"Heads! Fortune favours you.",
		"Heads it is.",
	},
	RollCategoryMin: {
		"Tails. The coin has spoken.",
		"Tails, sorry.",
	},
}

var categoryTones = map[RollCategory]MessageTone{
	RollCategoryMax:    ToneCelebration,
	RollCategoryMin:    ToneSarcastic,
	RollCategoryHigh:   ToneEncouraging,
	RollCategoryLow:    ToneSarcastic,
	RollCategoryNormal: ToneFunny,
}

var streakLabels = map[StreakKind][]string{
	StreakHot: {
		"is on fire!",
		"can't stop rolling high.",
		"has borrowed someone's lucky dice.",
	},
	StreakCold: {
		"should really switch dice.",
		"is in a slump.",
		"has angered the dice gods.",
	},
}

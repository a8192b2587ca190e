package messaging

import (
	"github.com/KirkDiggler/diceroom/internal/models"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a neutral tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"

	// ToneSarcastic is a sarcastic tone
	ToneSarcastic MessageTone = "sarcastic"

	// ToneEncouraging is an encouraging tone
	ToneEncouraging MessageTone = "encouraging"

	// ToneCelebration is a celebratory tone
	ToneCelebration MessageTone = "celebration"
)

// RollCategory buckets a resolved roll by how good it was
type RollCategory string

const (
	// RollCategoryNone is used for rolls that have not resolved
	RollCategoryNone RollCategory = ""

	// RollCategoryMax means every die landed on its highest face
	RollCategoryMax RollCategory = "max"

	// RollCategoryMin means every die landed on 1
	RollCategoryMin RollCategory = "min"

	// RollCategoryHigh means the sum is in the top fifth of the possible range
	RollCategoryHigh RollCategory = "high"

	// RollCategoryLow means the sum is in the bottom fifth of the possible range
	RollCategoryLow RollCategory = "low"

	// RollCategoryNormal is everything else
	RollCategoryNormal RollCategory = "normal"
)

// StreakKind says which way a player's luck is running
type StreakKind string

const (
	StreakNone StreakKind = "none"
	StreakHot  StreakKind = "hot"
	StreakCold StreakKind = "cold"
)

// StreakThreshold is the number of consecutive rolls that earns a streak label
const StreakThreshold = 3

// ErrorType identifies a user-facing failure
type ErrorType string

const (
	ErrorTypeMissingNick     ErrorType = "missing_nick"
	ErrorTypeMissingSession  ErrorType = "missing_session"
	ErrorTypeSessionNotFound ErrorType = "session_not_found"
	ErrorTypeNicknameTaken   ErrorType = "nickname_taken"
	ErrorTypeNotInSession    ErrorType = "not_in_session"
	ErrorTypeInvalidRoll     ErrorType = "invalid_roll"
	ErrorTypeConflict        ErrorType = "conflict"
	ErrorTypeCreateFailed    ErrorType = "create_failed"
	ErrorTypeJoinFailed      ErrorType = "join_failed"
	ErrorTypeRollFailed      ErrorType = "roll_failed"
	ErrorTypeUnknown         ErrorType = "unknown"
)

// GetRollLabelInput contains parameters for labelling a roll
type GetRollLabelInput struct {
	// Roll is the roll to label
	Roll *models.Roll
}

// GetRollLabelOutput contains the label for a roll
type GetRollLabelOutput struct {
	// Label is empty for pending rolls
	Label string

	// Category is how the roll was classified
	Category RollCategory

	// Tone is the tone of the label
	Tone MessageTone
}

// GetStreakInput contains parameters for finding a streak
type GetStreakInput struct {
	// Rolls is the session's roll history, oldest first
	Rolls []*models.Roll

	// Nick is the player to check
	Nick string
}

// Streak describes a run of consecutive above or below average rolls
type Streak struct {
	Nick   string
	Kind   StreakKind
	Length int

	// Label is only set once Length reaches StreakThreshold
	Label string
}

// GetStreakOutput contains the streak for a player
type GetStreakOutput struct {
	Streak *Streak
}

// GetRollCompletedMessageInput contains parameters for announcing a roll
type GetRollCompletedMessageInput struct {
	// Event is the resolved roll event
	Event *models.RollEvent
}

// GetRollCompletedMessageOutput contains the announcement
type GetRollCompletedMessageOutput struct {
	Message string
}

// GetErrorMessageInput contains parameters for getting an error message
type GetErrorMessageInput struct {
	// ErrorType is the type of error
	ErrorType ErrorType

	// PreferredTone is the preferred tone for the message (optional)
	PreferredTone MessageTone
}

// GetErrorMessageOutput contains the result of getting an error message
type GetErrorMessageOutput struct {
	// Message is the plain description of what went wrong
	Message string

	// Quip is a random remark matching the tone, empty for neutral
	Quip string

	// Tone is the tone of the message
	Tone MessageTone
}

// ServiceConfig contains configuration for the messaging service
type ServiceConfig struct {
	// Seed makes label selection repeatable in tests
	Seed int64
}

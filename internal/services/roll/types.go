package roll

import (
	"time"

	"github.com/KirkDiggler/diceroom/internal/common/uuid"
	"github.com/KirkDiggler/diceroom/internal/dice"
	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/jonboulle/clockwork"
)

const (
	// DefaultMaxDice is the most dice a single roll may throw
	DefaultMaxDice = 30

	// MaxCommentLength is counted in characters, after trimming
	MaxCommentLength = 60

	DefaultMaxWriteAttempts = 3
	DefaultFrames           = 15
	DefaultFrameDelay       = 40 * time.Millisecond
	DefaultFrameStep        = 7 * time.Millisecond
	DefaultSettleDelay      = 400 * time.Millisecond
)

// Config holds configuration for the roll service
type Config struct {
	// Repository stores session documents
	Repository sessionRepo.Repository

	// DiceRoller draws both animation frames and outcomes
	DiceRoller dice.Roller

	// Clock drives the animation timers, defaults to the real clock
	Clock clockwork.Clock

	// UUIDGenerator issues roll IDs
	UUIDGenerator uuid.UUID

	// Notifier is optional
	Notifier Notifier

	// MaxDice caps the count of a single roll
	MaxDice int

	// MaxWriteAttempts bounds retries after a version conflict
	MaxWriteAttempts int

	// Frames is the number of animation frames before the outcome
	Frames int

	// FrameDelay and FrameStep give the wait before frame k as
	// FrameDelay + k*FrameStep, so the animation slows down
	FrameDelay time.Duration
	FrameStep  time.Duration

	// SettleDelay is the pause after the last frame
	SettleDelay time.Duration
}

// RollDiceInput contains parameters for rolling dice
type RollDiceInput struct {
	SessionID string
	Nick      string

	// Dice is a standard label such as "D20", or "custom"
	Dice string

	// CustomSides is only read for custom dice
	CustomSides string

	// Count below 1 rolls a single die
	Count int

	// Comment is optional
	Comment string
}

// Frame is one transient set of faces shown while a roll animates
type Frame struct {
	RollID string `json:"rollId"`
	Index  int    `json:"index"`
	Faces  []int  `json:"faces"`
}

// NotifyRollResolvedInput describes a freshly resolved roll
type NotifyRollResolvedInput struct {
	SessionID string
	Roll      *models.Roll
	Event     *models.RollEvent
}

package roll

// RollError is a custom error type for roll-related errors
type RollError string

// Error implements the error interface
func (e RollError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrMissingSessionID RollError = "session ID is required"
	ErrMissingNick      RollError = "nickname is required"
	ErrTooManyDice      RollError = "too many dice"
	ErrCommentTooLong   RollError = "comment is too long"
	ErrNotInSession     RollError = "player is not in this session"
	ErrSessionNotFound  RollError = "session not found"
	ErrRollFailed       RollError = "could not roll dice"
	ErrRollNotFound     RollError = "pending roll not found"
	ErrNilConfig        RollError = "config cannot be nil"
	ErrNilRepository    RollError = "session repository cannot be nil"
	ErrNilDiceRoller    RollError = "dice roller cannot be nil"
)

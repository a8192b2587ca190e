package messaging

import "context"

// Service is the interface for the messaging service
type Service interface {
	// GetRollLabel returns a funny label for a resolved roll
	GetRollLabel(ctx context.Context, input *GetRollLabelInput) (*GetRollLabelOutput, error)

	// GetStreak reports a player's current hot or cold streak
	GetStreak(ctx context.Context, input *GetStreakInput) (*GetStreakOutput, error)

	// GetRollCompletedMessage returns the announcement for a resolved roll
	GetRollCompletedMessage(ctx context.Context, input *GetRollCompletedMessageInput) (*GetRollCompletedMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}

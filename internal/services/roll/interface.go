package roll

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/KirkDiggler/diceroom/internal/services/roll Notifier

import "context"

// Service defines the interface for rolling dice in a session
type Service interface {
	// RollDice writes a pending roll and starts the task that animates and
	// resolves it. The returned handle follows that task.
	RollDice(ctx context.Context, input *RollDiceInput) (*RollHandle, error)
}

// Notifier is told about every roll once its outcome has been written
type Notifier interface {
	NotifyRollResolved(ctx context.Context, input *NotifyRollResolvedInput) error
}

package synchronizer

import (
	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
)

// eventBuffer is the capacity of the Events channel
const eventBuffer = 64

// maxPendingEvents bounds the notifications held back for a reader that
// is not draining Events. The oldest are dropped past this point.
const maxPendingEvents = 1024

// Config holds configuration for the synchronizer
type Config struct {
	// Repository stores and publishes session documents
	Repository sessionRepo.Repository
}

// SubscribeInput contains parameters for following a session
type SubscribeInput struct {
	SessionID string
}

// RollCompleted is emitted once for every roll resolved after the
// subscription started
type RollCompleted struct {
	SessionID  string `json:"sessionId"`
	Seq        int64  `json:"seq"`
	RollID     string `json:"rollId"`
	Nick       string `json:"nick"`
	Dice       string `json:"dice"`
	NumDice    int    `json:"numDice"`
	Value      int    `json:"value"`
	ResolvedAt int64  `json:"resolvedAt"`
}

func newRollCompleted(sessionID string, event *models.RollEvent) *RollCompleted {
	return &RollCompleted{
		SessionID:  sessionID,
		Seq:        event.Seq,
		RollID:     event.RollID,
		Nick:       event.Nick,
		Dice:       event.Dice,
		NumDice:    event.NumDice,
		Value:      event.Value,
		ResolvedAt: event.ResolvedAt,
	}
}

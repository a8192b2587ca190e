package session

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/diceroom/internal/repositories/session Repository

import (
	"context"

	"github.com/KirkDiggler/diceroom/internal/models"
)

// Repository defines the interface for session document persistence
type Repository interface {
	// NewSessionID allocates an identifier for a new session
	NewSessionID(ctx context.Context) (string, error)

	// GetSession reads a whole session document
	GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error)

	// SaveSession writes a whole session document if the stored version
	// still matches the expected one
	SaveSession(ctx context.Context, input *SaveSessionInput) error

	// Subscribe streams every document written for a session
	Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error)
}

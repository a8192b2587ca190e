package session

import (
	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/jonboulle/clockwork"
)

// DefaultMaxWriteAttempts is how often a join is re-applied after a concurrent write
const DefaultMaxWriteAttempts = 3

// Config holds configuration for the session service
type Config struct {
	// Repository stores session documents
	Repository sessionRepo.Repository

	// Clock stamps createdAt, defaults to the real clock
	Clock clockwork.Clock

	// MaxWriteAttempts bounds retries after a version conflict
	MaxWriteAttempts int
}

// CreateSessionInput contains parameters for creating a session
type CreateSessionInput struct {
	// Nick is the creator's nickname
	Nick string
}

// CreateSessionOutput contains the result of creating a session
type CreateSessionOutput struct {
	Session *models.Session
}

// JoinSessionInput contains parameters for joining a session
type JoinSessionInput struct {
	SessionID string
	Nick      string
}

// JoinSessionOutput contains the result of joining a session
type JoinSessionOutput struct {
	Session *models.Session
}

// GetSessionInput contains parameters for reading a session
type GetSessionInput struct {
	SessionID string
}

// GetSessionOutput contains the session document
type GetSessionOutput struct {
	Session *models.Session
}

package session

import "context"

// Service defines the interface for creating, joining and reading sessions
type Service interface {
	// CreateSession opens a new session with the caller as its first player
	CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error)

	// JoinSession adds a player to an existing session
	JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error)

	// GetSession returns the current session document
	GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error)
}

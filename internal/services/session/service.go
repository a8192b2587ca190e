package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// service implements the Service interface
type service struct {
	repo             sessionRepo.Repository
	clock            clockwork.Clock
	maxWriteAttempts int
}

// New creates a new session service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	attempts := cfg.MaxWriteAttempts
	if attempts < 1 {
		attempts = DefaultMaxWriteAttempts
	}

	return &service{
		repo:             cfg.Repository,
		clock:            clock,
		maxWriteAttempts: attempts,
	}, nil
}

// CreateSession opens a new session with the caller as its first player
func (s *service) CreateSession(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
	if input == nil {
		return nil, ErrMissingNick
	}

	nick := strings.TrimSpace(input.Nick)
	if nick == "" {
		return nil, ErrMissingNick
	}

	sessionID, err := s.repo.NewSessionID(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to allocate session ID")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	session := &models.Session{
		ID:        sessionID,
		Players:   []*models.Player{{Nick: nick}},
		Rolls:     []*models.Roll{},
		Events:    []*models.RollEvent{},
		CreatedAt: s.clock.Now().UnixMilli(),
	}

	// Expected version 0 means the ID must be unused
	err = s.repo.SaveSession(ctx, &sessionRepo.SaveSessionInput{
		Session:         session,
		ExpectedVersion: 0,
	})
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to create session")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}

	log.Info().
		Str("session_id", sessionID).
		Str("nick", nick).
		Msg("session created")

	return &CreateSessionOutput{
		Session: session,
	}, nil
}

// JoinSession adds a player to an existing session
func (s *service) JoinSession(ctx context.Context, input *JoinSessionInput) (*JoinSessionOutput, error) {
	if input == nil {
		return nil, ErrMissingSessionID
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	nick := strings.TrimSpace(input.Nick)
	if nick == "" {
		return nil, ErrMissingNick
	}

	// The nick check runs inside the mutation so every retry sees the
	// latest player list
	session, err := sessionRepo.UpdateSession(ctx, s.repo, &sessionRepo.UpdateSessionInput{
		SessionID:   sessionID,
		MaxAttempts: s.maxWriteAttempts,
		Mutate: func(session *models.Session) error {
			if session.HasPlayer(nick) {
				return ErrNicknameTaken
			}
			session.Players = append(session.Players, &models.Player{Nick: nick})
			return nil
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrSessionNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, ErrNicknameTaken):
			return nil, ErrNicknameTaken
		}

		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to join session")
		return nil, fmt.Errorf("%w: %w", ErrJoinFailed, err)
	}

	log.Info().
		Str("session_id", sessionID).
		Str("nick", nick).
		Msg("player joined session")

	return &JoinSessionOutput{
		Session: session,
	}, nil
}

// GetSession returns the current session document
func (s *service) GetSession(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
	if input == nil {
		return nil, ErrMissingSessionID
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	session, err := s.repo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrGetFailed, err)
	}

	return &GetSessionOutput{
		Session: session,
	}, nil
}

package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/rs/zerolog/log"
)

// service implements the Service interface
type service struct {
	repo sessionRepo.Repository
}

// New creates a new synchronizer
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	return &service{
		repo: cfg.Repository,
	}, nil
}

// Subscribe listens for changes before reading the document, so nothing
// written between the two is missed
func (s *service) Subscribe(ctx context.Context, input *SubscribeInput) (*Subscription, error) {
	if input == nil {
		return nil, ErrMissingSessionID
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		return nil, ErrMissingSessionID
	}

	source, err := s.repo.Subscribe(ctx, &sessionRepo.SubscribeInput{
		SessionID: sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	initial, err := s.repo.GetSession(ctx, &sessionRepo.GetSessionInput{
		SessionID: sessionID,
	})
	if err != nil {
		_ = source.Close()
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	sub := newSubscription(sessionID, source, initial)
	go sub.run(ctx)

	log.Debug().
		Str("session_id", sessionID).
		Int64("version", initial.Version).
		Msg("subscribed to session")

	return sub, nil
}

package session

import (
	"context"
	"errors"

	"github.com/KirkDiggler/diceroom/internal/models"
	"github.com/rs/zerolog/log"
)

// UpdateSession reads a session, applies the mutation and writes it back
// guarded by the version that was read. On a version conflict the document
// is read again and the mutation re-applied, so a concurrent write is never
// overwritten.
func UpdateSession(ctx context.Context, repo Repository, input *UpdateSessionInput) (*models.Session, error) {
	if input == nil || input.SessionID == "" || input.Mutate == nil {
		return nil, errors.New("input, session ID and mutate cannot be empty")
	}

	attempts := input.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		session, err := repo.GetSession(ctx, &GetSessionInput{
			SessionID: input.SessionID,
		})
		if err != nil {
			return nil, err
		}

		if err := input.Mutate(session); err != nil {
			return nil, err
		}

		err = repo.SaveSession(ctx, &SaveSessionInput{
			Session:         session,
			ExpectedVersion: session.Version,
		})
		if err == nil {
			return session, nil
		}

		if !errors.Is(err, ErrVersionConflict) || attempt >= attempts {
			return nil, err
		}

		log.Debug().
			Str("session_id", input.SessionID).
			Int("attempt", attempt).
			Msg("session changed while updating, retrying")
	}
}

package roll

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/KirkDiggler/diceroom/internal/common/uuid"
	"github.com/KirkDiggler/diceroom/internal/dice"
	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// service implements the Service interface
type service struct {
	repo             sessionRepo.Repository
	diceRoller       dice.Roller
	clock            clockwork.Clock
	uuid             uuid.UUID
	notifier         Notifier
	maxDice          int
	maxWriteAttempts int
	frames           int
	frameDelay       time.Duration
	frameStep        time.Duration
	settleDelay      time.Duration
}

// New creates a new roll service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Repository == nil {
		return nil, ErrNilRepository
	}

	if cfg.DiceRoller == nil {
		return nil, ErrNilDiceRoller
	}

	s := &service{
		repo:             cfg.Repository,
		diceRoller:       cfg.DiceRoller,
		clock:            cfg.Clock,
		uuid:             cfg.UUIDGenerator,
		notifier:         cfg.Notifier,
		maxDice:          cfg.MaxDice,
		maxWriteAttempts: cfg.MaxWriteAttempts,
		frames:           cfg.Frames,
		frameDelay:       cfg.FrameDelay,
		frameStep:        cfg.FrameStep,
		settleDelay:      cfg.SettleDelay,
	}

	// Set default values if not provided
	if s.clock == nil {
		s.clock = clockwork.NewRealClock()
	}
	if s.uuid == nil {
		s.uuid = uuid.New()
	}
	if s.maxDice < 1 {
		s.maxDice = DefaultMaxDice
	}
	if s.maxWriteAttempts < 1 {
		s.maxWriteAttempts = DefaultMaxWriteAttempts
	}

	// A zero animation config gets the default timing, a negative frame
	// count disables frames
	if cfg.Frames == 0 && cfg.FrameDelay == 0 && cfg.FrameStep == 0 && cfg.SettleDelay == 0 {
		s.frames = DefaultFrames
		s.frameDelay = DefaultFrameDelay
		s.frameStep = DefaultFrameStep
		s.settleDelay = DefaultSettleDelay
	}
	if s.frames < 0 {
		s.frames = 0
	}

	return s, nil
}

// RollDice validates the request, commits a pending roll and starts the
// task that animates and resolves it
func (s *service) RollDice(ctx context.Context, input *RollDiceInput) (*RollHandle, error) {
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

	if input.Count > s.maxDice {
		return nil, ErrTooManyDice
	}

	comment := strings.TrimSpace(input.Comment)
	if utf8.RuneCountInString(comment) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	count := input.Count
	if count < 1 {
		count = 1
	}

	label, sides := dice.Resolve(input.Dice, input.CustomSides)

	pending := &models.Roll{
		ID:        s.uuid.NewUUID(),
		Nick:      nick,
		Dice:      label,
		Sides:     sides,
		NumDice:   count,
		Timestamp: s.clock.Now().UnixMilli(),
		Pending:   true,
		Comment:   comment,
	}

	_, err := sessionRepo.UpdateSession(ctx, s.repo, &sessionRepo.UpdateSessionInput{
		SessionID:   sessionID,
		MaxAttempts: s.maxWriteAttempts,
		Mutate: func(session *models.Session) error {
			if !session.HasPlayer(nick) {
				return ErrNotInSession
			}
			r := *pending
			session.Rolls = append(session.Rolls, &r)
			return nil
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, sessionRepo.ErrSessionNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, ErrNotInSession):
			return nil, ErrNotInSession
		}

		log.Error().Err(err).Str("session_id", sessionID).Msg("failed to commit pending roll")
		return nil, fmt.Errorf("%w: %w", ErrRollFailed, err)
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("roll_id", pending.ID).
		Str("nick", nick).
		Str("dice", label).
		Int("count", count).
		Msg("pending roll committed")

	taskCtx, cancel := context.WithCancel(ctx)
	handle := newRollHandle(pending, cancel)

	go s.run(taskCtx, sessionID, handle)

	return handle, nil
}

// run animates the roll and then writes its outcome. Nothing is written
// once the context has been cancelled.
func (s *service) run(ctx context.Context, sessionID string, handle *RollHandle) {
	pending := handle.pending

	if err := s.animate(ctx, handle); err != nil {
		log.Debug().
			Str("session_id", sessionID).
			Str("roll_id", pending.ID).
			Msg("roll cancelled, left pending")
		handle.finish(nil, nil, err)
		return
	}

	values := s.diceRoller.RollMany(pending.Sides, pending.NumDice)
	value := dice.Sum(values)

	var resolved *models.Roll
	var event *models.RollEvent

	_, err := sessionRepo.UpdateSession(ctx, s.repo, &sessionRepo.UpdateSessionInput{
		SessionID:   sessionID,
		MaxAttempts: s.maxWriteAttempts,
		Mutate: func(session *models.Session) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			idx := session.FindRoll(pending.ID)
			if idx < 0 || !session.Rolls[idx].Pending {
				return ErrRollNotFound
			}

			now := s.clock.Now().UnixMilli()
			r := session.Rolls[idx]
			r.Values = values
			r.Value = value
			r.Pending = false
			r.ResolvedAt = now

			e := &models.RollEvent{
				RollID:     r.ID,
				Nick:       r.Nick,
				Dice:       r.Dice,
				NumDice:    r.NumDice,
				Value:      r.Value,
				ResolvedAt: now,
			}
			session.AppendEvent(e)

			copied := *r
			resolved = &copied
			event = e
			return nil
		},
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrRollNotFound):
			log.Warn().
				Str("session_id", sessionID).
				Str("roll_id", pending.ID).
				Msg("pending roll disappeared before resolution, discarding outcome")
			handle.finish(nil, nil, ErrRollNotFound)
		case ctx.Err() != nil:
			handle.finish(nil, nil, ctx.Err())
		default:
			log.Error().
				Err(err).
				Str("session_id", sessionID).
				Str("roll_id", pending.ID).
				Msg("failed to resolve roll")
			handle.finish(nil, nil, fmt.Errorf("%w: %w", ErrRollFailed, err))
		}
		return
	}

	log.Info().
		Str("session_id", sessionID).
		Str("roll_id", resolved.ID).
		Str("nick", resolved.Nick).
		Str("dice", resolved.Dice).
		Int("value", resolved.Value).
		Msg("roll resolved")

	s.notify(context.WithoutCancel(ctx), sessionID, resolved, event)

	handle.finish(resolved, event, nil)
}

// animate emits the frames, slowing down as it goes, then waits for the
// dice to settle
func (s *service) animate(ctx context.Context, handle *RollHandle) error {
	defer close(handle.frames)

	pending := handle.pending
	for k := 1; k <= s.frames; k++ {
		if err := s.sleep(ctx, s.frameDelay+time.Duration(k)*s.frameStep); err != nil {
			return err
		}

		handle.emit(Frame{
			RollID: pending.ID,
			Index:  k,
			Faces:  s.diceRoller.RollMany(pending.Sides, pending.NumDice),
		})
	}

	return s.sleep(ctx, s.settleDelay)
}

func (s *service) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	timer := s.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.Chan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *service) notify(ctx context.Context, sessionID string, resolved *models.Roll, event *models.RollEvent) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.NotifyRollResolved(ctx, &NotifyRollResolvedInput{
		SessionID: sessionID,
		Roll:      resolved,
		Event:     event,
	})
	if err != nil {
		log.Warn().
			Err(err).
			Str("session_id", sessionID).
			Str("roll_id", resolved.ID).
			Msg("roll notifier failed")
	}
}

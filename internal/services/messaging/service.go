package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// service implements the Service interface
type service struct {
	// Random number generator for selecting random messages
	mu   sync.Mutex
	rand *rand.Rand
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	seed := time.Now().UnixNano()
	if config != nil && config.Seed != 0 {
		seed = config.Seed
	}

	return &service{
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// pick selects a random message from a list
func (s *service) pick(messages []string) string {
	if len(messages) == 0 {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return messages[s.rand.Intn(len(messages))]
}

// GetRollLabel returns a funny label for a resolved roll
func (s *service) GetRollLabel(ctx context.Context, input *GetRollLabelInput) (*GetRollLabelOutput, error) {
	if input == nil || input.Roll == nil {
		return nil, errors.New("input and roll cannot be nil")
	}

	category := Categorize(input.Roll)
	if category == RollCategoryNone {
		return &GetRollLabelOutput{
			Category: RollCategoryNone,
			Tone:     ToneNeutral,
		}, nil
	}

	messages := rollLabels[category]
	if isCoinFlip(input.Roll) {
		if coin, ok := coinLabels[category]; ok {
			messages = coin
		}
	}

	return &GetRollLabelOutput{
		Label:    s.pick(messages),
		Category: category,
		Tone:     categoryTones[category],
	}, nil
}

// GetStreak reports a player's current hot or cold streak
func (s *service) GetStreak(ctx context.Context, input *GetStreakInput) (*GetStreakOutput, error) {
	if input == nil || input.Nick == "" {
		return nil, errors.New("input and nick cannot be empty")
	}

	kind, length := streakOf(input.Rolls, input.Nick)

	streak := &Streak{
		Nick:   input.Nick,
		Kind:   kind,
		Length: length,
	}

	if length >= StreakThreshold {
		streak.Label = fmt.Sprintf("%s %s", input.Nick, s.pick(streakLabels[kind]))
	}

	return &GetStreakOutput{
		Streak: streak,
	}, nil
}

// GetRollCompletedMessage returns the announcement for a resolved roll
func (s *service) GetRollCompletedMessage(ctx context.Context, input *GetRollCompletedMessageInput) (*GetRollCompletedMessageOutput, error) {
	if input == nil || input.Event == nil {
		return nil, errors.New("input and event cannot be nil")
	}

	event := input.Event
	dice := event.Dice
	if event.NumDice > 1 {
		dice = fmt.Sprintf("%dx%s", event.NumDice, event.Dice)
	}

	return &GetRollCompletedMessageOutput{
		Message: fmt.Sprintf("%s rolled %s: %d", event.Nick, dice, event.Value),
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	// Set default tone if not specified
	tone := input.PreferredTone
	if tone == "" {
		tone = ToneFunny
	}

	var message string
	var quips []string

	// Select messages based on error type
	switch input.ErrorType {
	case ErrorTypeMissingNick:
		message = "a nickname is required"
		quips = []string{
			"Even dice need to know who threw them.",
			"Anonymous rolling is not a thing. Yet.",
		}
	case ErrorTypeMissingSession:
		message = "a session ID is required"
		quips = []string{
			"Which table are you trying to sit at?",
		}
	case ErrorTypeSessionNotFound:
		message = "session not found"
		quips = []string{
			"That room doesn't exist. Did you copy the whole ID?",
			"Nobody's rolling in there.",
		}
	case ErrorTypeNicknameTaken:
		message = "nickname already in session"
		quips = []string{
			"Someone beat you to that name. Get creative!",
			"There can be only one.",
		}
	case ErrorTypeNotInSession:
		message = "player is not in this session"
		quips = []string{
			"Join the table before grabbing the dice.",
		}
	case ErrorTypeInvalidRoll:
		message = "invalid roll"
		quips = []string{
			"The dice refuse to cooperate with that request.",
		}
	case ErrorTypeConflict:
		message = "the session changed while saving, try again"
		quips = []string{
			"Too many hands on the dice at once.",
		}
	case ErrorTypeCreateFailed:
		message = "could not create session"
		quips = []string{
			"The table collapsed. Try again.",
		}
	case ErrorTypeJoinFailed:
		message = "could not join session"
		quips = []string{
			"The door is stuck. Try again.",
		}
	case ErrorTypeRollFailed:
		message = "could not roll dice"
		quips = []string{
			"The dice rolled off the table.",
		}
	default:
		message = "something went wrong"
		quips = []string{
			"Oops! The dice got confused. Try again.",
			"Technical difficulties! The dice are being recalibrated.",
		}
	}

	quip := ""
	if tone != ToneNeutral {
		quip = s.pick(quips)
	}

	return &GetErrorMessageOutput{
		Message: message,
		Quip:    quip,
		Tone:    tone,
	}, nil
}

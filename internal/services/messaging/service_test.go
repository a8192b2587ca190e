package messaging

import (
	"context"
	"testing"

	"github.com/KirkDiggler/diceroom/internal/models"
	"github.com/stretchr/testify/suite"
)

type MessagingServiceTestSuite struct {
	suite.Suite
	service Service
	ctx     context.Context
}

func (s *MessagingServiceTestSuite) SetupTest() {
	svc, err := NewService(&ServiceConfig{Seed: 42})
	s.Require().NoError(err)

	s.service = svc
	s.ctx = context.Background()
}

func resolved(nick string, sides int, values ...int) *models.Roll {
	sum := 0
	for _, v := range values {
		sum += v
	}

	return &models.Roll{
		ID:      "roll-" + nick,
		Nick:    nick,
		Dice:    "D6",
		Sides:   sides,
		NumDice: len(values),
		Values:  values,
		Value:   sum,
	}
}

func (s *MessagingServiceTestSuite) TestCategorize() {
	tests := []struct {
		name     string
		roll     *models.Roll
		expected RollCategory
	}{
		{"nil", nil, RollCategoryNone},
		{"pending", &models.Roll{Sides: 6, NumDice: 1, Pending: true}, RollCategoryNone},
		{"all max", resolved("a", 6, 6, 6), RollCategoryMax},
		{"all ones", resolved("a", 6, 1, 1), RollCategoryMin},
		{"high", resolved("a", 6, 6, 5), RollCategoryHigh},
		{"low", resolved("a", 6, 1, 2), RollCategoryLow},
		{"middle", resolved("a", 6, 3, 4), RollCategoryNormal},
		{"single d20 high", resolved("a", 20, 17), RollCategoryHigh},
		{"single d20 middle", resolved("a", 20, 10), RollCategoryNormal},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.expected, Categorize(tt.roll))
		})
	}
}

func (s *MessagingServiceTestSuite) TestGetRollLabel() {
	s.Run("it labels a maximum roll", func() {
		output, err := s.service.GetRollLabel(s.ctx, &GetRollLabelInput{Roll: resolved("a", 6, 6, 6)})
		s.Require().NoError(err)
		s.Equal(RollCategoryMax, output.Category)
		s.Equal(ToneCelebration, output.Tone)
		s.Contains(rollLabels[RollCategoryMax], output.Label)
	})

	s.Run("it uses coin wording for a single D2", func() {
		roll := resolved("a", 2, 2)
		roll.Dice = "D2"

		output, err := s.service.GetRollLabel(s.ctx, &GetRollLabelInput{Roll: roll})
		s.Require().NoError(err)
		s.Contains(coinLabels[RollCategoryMax], output.Label)

		roll = resolved("a", 2, 1)
		output, err = s.service.GetRollLabel(s.ctx, &GetRollLabelInput{Roll: roll})
		s.Require().NoError(err)
		s.Contains(coinLabels[RollCategoryMin], output.Label)
	})

	s.Run("it leaves pending rolls unlabelled", func() {
		output, err := s.service.GetRollLabel(s.ctx, &GetRollLabelInput{
			Roll: &models.Roll{Sides: 6, NumDice: 1, Pending: true},
		})
		s.Require().NoError(err)
		s.Empty(output.Label)
		s.Equal(RollCategoryNone, output.Category)
	})

	s.Run("it rejects nil input", func() {
		_, err := s.service.GetRollLabel(s.ctx, nil)
		s.Error(err)

		_, err = s.service.GetRollLabel(s.ctx, &GetRollLabelInput{})
		s.Error(err)
	})
}

func (s *MessagingServiceTestSuite) TestGetStreak() {
	s.Run("it finds a hot streak", func() {
		rolls := []*models.Roll{
			resolved("bob", 6, 1),
			resolved("ann", 6, 5),
			resolved("bob", 6, 6),
			resolved("ann", 6, 6),
			resolved("ann", 6, 4),
		}

		output, err := s.service.GetStreak(s.ctx, &GetStreakInput{Rolls: rolls, Nick: "ann"})
		s.Require().NoError(err)
		s.Equal(StreakHot, output.Streak.Kind)
		s.Equal(3, output.Streak.Length)
		s.Contains(output.Streak.Label, "ann ")
	})

	s.Run("it finds a cold streak but does not label it below the threshold", func() {
		rolls := []*models.Roll{
			resolved("ann", 6, 6),
			resolved("ann", 6, 1),
			resolved("ann", 6, 2),
		}

		output, err := s.service.GetStreak(s.ctx, &GetStreakInput{Rolls: rolls, Nick: "ann"})
		s.Require().NoError(err)
		s.Equal(StreakCold, output.Streak.Kind)
		s.Equal(2, output.Streak.Length)
		s.Empty(output.Streak.Label)
	})

	s.Run("it skips pending rolls", func() {
		rolls := []*models.Roll{
			resolved("ann", 6, 1),
			resolved("ann", 6, 1),
			resolved("ann", 6, 2),
			{Nick: "ann", Sides: 6, NumDice: 1, Pending: true},
		}

		output, err := s.service.GetStreak(s.ctx, &GetStreakInput{Rolls: rolls, Nick: "ann"})
		s.Require().NoError(err)
		s.Equal(StreakCold, output.Streak.Kind)
		s.Equal(3, output.Streak.Length)
		s.NotEmpty(output.Streak.Label)
	})

	s.Run("an exactly average roll breaks the streak", func() {
		rolls := []*models.Roll{
			resolved("ann", 6, 6),
			resolved("ann", 6, 6),
			resolved("ann", 6, 3, 4),
		}

		output, err := s.service.GetStreak(s.ctx, &GetStreakInput{Rolls: rolls, Nick: "ann"})
		s.Require().NoError(err)
		s.Equal(StreakNone, output.Streak.Kind)
		s.Zero(output.Streak.Length)
	})

	s.Run("it requires a nick", func() {
		_, err := s.service.GetStreak(s.ctx, &GetStreakInput{})
		s.Error(err)
	})
}

func (s *MessagingServiceTestSuite) TestGetRollCompletedMessage() {
	output, err := s.service.GetRollCompletedMessage(s.ctx, &GetRollCompletedMessageInput{
		Event: &models.RollEvent{Nick: "ann", Dice: "D20", NumDice: 1, Value: 17},
	})
	s.Require().NoError(err)
	s.Equal("ann rolled D20: 17", output.Message)

	output, err = s.service.GetRollCompletedMessage(s.ctx, &GetRollCompletedMessageInput{
		Event: &models.RollEvent{Nick: "bob", Dice: "D6", NumDice: 3, Value: 11},
	})
	s.Require().NoError(err)
	s.Equal("bob rolled 3xD6: 11", output.Message)

	_, err = s.service.GetRollCompletedMessage(s.ctx, &GetRollCompletedMessageInput{})
	s.Error(err)
}

func (s *MessagingServiceTestSuite) TestGetErrorMessage() {
	s.Run("neutral tone has no quip", func() {
		output, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
			ErrorType:     ErrorTypeSessionNotFound,
			PreferredTone: ToneNeutral,
		})
		s.Require().NoError(err)
		s.Equal("session not found", output.Message)
		s.Empty(output.Quip)
		s.Equal(ToneNeutral, output.Tone)
	})

	s.Run("default tone is funny", func() {
		output, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
			ErrorType: ErrorTypeNicknameTaken,
		})
		s.Require().NoError(err)
		s.Equal("nickname already in session", output.Message)
		s.NotEmpty(output.Quip)
		s.Equal(ToneFunny, output.Tone)
	})

	s.Run("unknown error types fall back", func() {
		output, err := s.service.GetErrorMessage(s.ctx, &GetErrorMessageInput{
			ErrorType: ErrorType("nope"),
		})
		s.Require().NoError(err)
		s.Equal("something went wrong", output.Message)
	})
}

func TestMessagingServiceSuite(t *testing.T) {
	suite.Run(t, new(MessagingServiceTestSuite))
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KirkDiggler/diceroom/internal/models"
	sessionRepo "github.com/KirkDiggler/diceroom/internal/repositories/session"
	sessionMocks "github.com/KirkDiggler/diceroom/internal/repositories/session/mocks"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SessionServiceTestSuite struct {
	suite.Suite
	mockCtrl *gomock.Controller
	mockRepo *sessionMocks.MockRepository
	clock    *clockwork.FakeClock
	service  Service
	ctx      context.Context

	// Test data
	testTime      time.Time
	testSessionID string
}

func (s *SessionServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRepo = sessionMocks.NewMockRepository(s.mockCtrl)
	s.testTime = time.Date(2025, 4, 19, 12, 0, 0, 0, time.UTC)
	s.clock = clockwork.NewFakeClockAt(s.testTime)
	s.testSessionID = "test-session-id"
	s.ctx = context.Background()

	svc, err := New(&Config{
		Repository: s.mockRepo,
		Clock:      s.clock,
	})
	s.Require().NoError(err)
	s.service = svc
}

func (s *SessionServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *SessionServiceTestSuite) existing(nicks ...string) *models.Session {
	players := make([]*models.Player, 0, len(nicks))
	for _, nick := range nicks {
		players = append(players, &models.Player{Nick: nick})
	}

	return &models.Session{
		ID:        s.testSessionID,
		Players:   players,
		Rolls:     []*models.Roll{},
		Events:    []*models.RollEvent{},
		CreatedAt: s.testTime.UnixMilli(),
		Version:   1,
	}
}

func (s *SessionServiceTestSuite) TestNew() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{})
	s.ErrorIs(err, ErrNilRepository)
}

func (s *SessionServiceTestSuite) TestCreateSession() {
	s.Run("it writes a fresh session with the creator", func() {
		s.mockRepo.EXPECT().NewSessionID(s.ctx).Return(s.testSessionID, nil)
		s.mockRepo.EXPECT().
			SaveSession(s.ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
				s.Equal(int64(0), input.ExpectedVersion)
				s.Equal(s.testSessionID, input.Session.ID)
				s.Equal([]*models.Player{{Nick: "Alice"}}, input.Session.Players)
				s.Empty(input.Session.Rolls)
				s.NotNil(input.Session.Rolls)
				s.Equal(s.testTime.UnixMilli(), input.Session.CreatedAt)
				input.Session.Version = 1
				return nil
			})

		output, err := s.service.CreateSession(s.ctx, &CreateSessionInput{Nick: "  Alice "})
		s.Require().NoError(err)
		s.Equal(s.testSessionID, output.Session.ID)
		s.Equal(int64(1), output.Session.Version)
	})

	s.Run("it requires a nick", func() {
		_, err := s.service.CreateSession(s.ctx, &CreateSessionInput{Nick: "   "})
		s.ErrorIs(err, ErrMissingNick)

		_, err = s.service.CreateSession(s.ctx, nil)
		s.ErrorIs(err, ErrMissingNick)
	})

	s.Run("it wraps id allocation failures", func() {
		cause := errors.New("boom")
		s.mockRepo.EXPECT().NewSessionID(s.ctx).Return("", cause)

		_, err := s.service.CreateSession(s.ctx, &CreateSessionInput{Nick: "Alice"})
		s.ErrorIs(err, ErrCreateFailed)
		s.ErrorIs(err, cause)
	})

	s.Run("it fails when the id is already taken", func() {
		s.mockRepo.EXPECT().NewSessionID(s.ctx).Return(s.testSessionID, nil)
		s.mockRepo.EXPECT().SaveSession(s.ctx, gomock.Any()).Return(sessionRepo.ErrVersionConflict)

		_, err := s.service.CreateSession(s.ctx, &CreateSessionInput{Nick: "Alice"})
		s.ErrorIs(err, ErrCreateFailed)
	})
}

func (s *SessionServiceTestSuite) TestJoinSession() {
	s.Run("it appends the player", func() {
		s.mockRepo.EXPECT().
			GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: s.testSessionID}).
			Return(s.existing("Alice"), nil)
		s.mockRepo.EXPECT().
			SaveSession(s.ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, input *sessionRepo.SaveSessionInput) error {
				s.Equal(int64(1), input.ExpectedVersion)
				input.Session.Version = 2
				return nil
			})

		output, err := s.service.JoinSession(s.ctx, &JoinSessionInput{
			SessionID: s.testSessionID,
			Nick:      "Bob",
		})
		s.Require().NoError(err)
		s.Equal([]*models.Player{{Nick: "Alice"}, {Nick: "Bob"}}, output.Session.Players)
		s.Equal(int64(2), output.Session.Version)
	})

	s.Run("it rejects a taken nick", func() {
		s.mockRepo.EXPECT().
			GetSession(s.ctx, gomock.Any()).
			Return(s.existing("Alice"), nil)

		_, err := s.service.JoinSession(s.ctx, &JoinSessionInput{
			SessionID: s.testSessionID,
			Nick:      "Alice",
		})
		s.ErrorIs(err, ErrNicknameTaken)
	})

	s.Run("it rechecks the nick after a concurrent join", func() {
		gomock.InOrder(
			s.mockRepo.EXPECT().
				GetSession(s.ctx, gomock.Any()).
				Return(s.existing("Alice"), nil),
			s.mockRepo.EXPECT().
				SaveSession(s.ctx, gomock.Any()).
				Return(sessionRepo.ErrVersionConflict),
			s.mockRepo.EXPECT().
				GetSession(s.ctx, gomock.Any()).
				Return(s.existing("Alice", "Bob"), nil),
		)

		_, err := s.service.JoinSession(s.ctx, &JoinSessionInput{
			SessionID: s.testSessionID,
			Nick:      "Bob",
		})
		s.ErrorIs(err, ErrNicknameTaken)
	})

	s.Run("it maps a missing session", func() {
		s.mockRepo.EXPECT().
			GetSession(s.ctx, gomock.Any()).
			Return(nil, sessionRepo.ErrSessionNotFound)

		_, err := s.service.JoinSession(s.ctx, &JoinSessionInput{
			SessionID: s.testSessionID,
			Nick:      "Bob",
		})
		s.ErrorIs(err, ErrSessionNotFound)
	})

	s.Run("it wraps store failures", func() {
		cause := errors.New("connection refused")
		s.mockRepo.EXPECT().
			GetSession(s.ctx, gomock.Any()).
			Return(s.existing("Alice"), nil)
		s.mockRepo.EXPECT().
			SaveSession(s.ctx, gomock.Any()).
			Return(cause)

		_, err := s.service.JoinSession(s.ctx, &JoinSessionInput{
			SessionID: s.testSessionID,
			Nick:      "Bob",
		})
		s.ErrorIs(err, ErrJoinFailed)
		s.ErrorIs(err, cause)
	})

	s.Run("it validates input", func() {
		_, err := s.service.JoinSession(s.ctx, &JoinSessionInput{Nick: "Bob"})
		s.ErrorIs(err, ErrMissingSessionID)

		// A blank ID never reaches the store
		_, err = s.service.JoinSession(s.ctx, &JoinSessionInput{SessionID: "   ", Nick: "Bob"})
		s.ErrorIs(err, ErrMissingSessionID)

		_, err = s.service.JoinSession(s.ctx, &JoinSessionInput{SessionID: s.testSessionID})
		s.ErrorIs(err, ErrMissingNick)
	})
}

func (s *SessionServiceTestSuite) TestGetSession() {
	s.mockRepo.EXPECT().
		GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: s.testSessionID}).
		Return(s.existing("Alice"), nil)

	output, err := s.service.GetSession(s.ctx, &GetSessionInput{SessionID: s.testSessionID})
	s.Require().NoError(err)
	s.Equal(s.existing("Alice"), output.Session)

	s.mockRepo.EXPECT().
		GetSession(s.ctx, gomock.Any()).
		Return(nil, sessionRepo.ErrSessionNotFound)

	_, err = s.service.GetSession(s.ctx, &GetSessionInput{SessionID: "missing"})
	s.ErrorIs(err, ErrSessionNotFound)

	_, err = s.service.GetSession(s.ctx, &GetSessionInput{})
	s.ErrorIs(err, ErrMissingSessionID)

	_, err = s.service.GetSession(s.ctx, &GetSessionInput{SessionID: "   "})
	s.ErrorIs(err, ErrMissingSessionID)

	// Surrounding whitespace is trimmed before the lookup
	s.mockRepo.EXPECT().
		GetSession(s.ctx, &sessionRepo.GetSessionInput{SessionID: s.testSessionID}).
		Return(s.existing("Alice"), nil)

	output, err = s.service.GetSession(s.ctx, &GetSessionInput{SessionID: " " + s.testSessionID + "\n"})
	s.Require().NoError(err)
	s.Equal(s.testSessionID, output.Session.ID)
}

func TestSessionServiceSuite(t *testing.T) {
	suite.Run(t, new(SessionServiceTestSuite))
}
